package grammar

// SelectSet is the set of symbols on which an LL(1) parser chooses a production. It consists of
// FIRST of the RHS and, when the RHS derives ε, FOLLOW of the LHS.
type SelectSet struct {
	Production int
	Symbols    []Symbol
}

type OverlapKind string

const (
	OverlapKindFirstFirst  = OverlapKind("FIRST/FIRST")
	OverlapKindFirstFollow = OverlapKind("FIRST/FOLLOW")
)

// LL1Overlap is a pair of productions of the same non-terminal whose SELECT sets share symbols.
// A FIRST/FIRST overlap shares symbols of FIRST of both RHSs. A FIRST/FOLLOW overlap shares symbols
// that come from FOLLOW of the LHS through a nullable RHS.
type LL1Overlap struct {
	Kind        OverlapKind
	NonTerminal Symbol
	Productions [2]int
	Symbols     []Symbol
}

type LL1Analysis struct {
	Selects  []*SelectSet
	Overlaps []*LL1Overlap
}

func (a *LL1Analysis) IsLL1() bool {
	return len(a.Overlaps) == 0
}

func AnalyzeLL1(gram *Grammar, sets *Sets) (*LL1Analysis, error) {
	analysis := &LL1Analysis{}

	firsts := map[int]map[Symbol]struct{}{}
	selects := map[int]map[Symbol]struct{}{}
	for _, prod := range gram.prods.getAllProductions() {
		fst, err := sets.first.find(prod.RHS)
		if err != nil {
			return nil, err
		}
		first := map[Symbol]struct{}{}
		sel := map[Symbol]struct{}{}
		for sym := range fst.symbols {
			first[sym] = struct{}{}
			sel[sym] = struct{}{}
		}
		if fst.empty {
			flw := sets.follow.findBySymbol(prod.LHS)
			for sym := range flw.symbols {
				sel[sym] = struct{}{}
			}
			if flw.eof {
				sel[SymbolEOF] = struct{}{}
			}
		}
		firsts[prod.Num] = first
		selects[prod.Num] = sel

		analysis.Selects = append(analysis.Selects, &SelectSet{
			Production: prod.Num,
			Symbols:    sets.sortSymbols(sel),
		})
	}

	for _, lhs := range gram.symbolTable.nonTerms {
		prods, _ := gram.prods.findByLHS(lhs)
		for i, p1 := range prods {
			for _, p2 := range prods[i+1:] {
				ff := intersect(firsts[p1.Num], firsts[p2.Num])
				if len(ff) > 0 {
					analysis.Overlaps = append(analysis.Overlaps, &LL1Overlap{
						Kind:        OverlapKindFirstFirst,
						NonTerminal: lhs,
						Productions: [2]int{p1.Num, p2.Num},
						Symbols:     sets.sortSymbols(ff),
					})
				}

				ss := intersect(selects[p1.Num], selects[p2.Num])
				for sym := range ff {
					delete(ss, sym)
				}
				if len(ss) > 0 {
					analysis.Overlaps = append(analysis.Overlaps, &LL1Overlap{
						Kind:        OverlapKindFirstFollow,
						NonTerminal: lhs,
						Productions: [2]int{p1.Num, p2.Num},
						Symbols:     sets.sortSymbols(ss),
					})
				}
			}
		}
	}

	return analysis, nil
}

func intersect(s1, s2 map[Symbol]struct{}) map[Symbol]struct{} {
	s := map[Symbol]struct{}{}
	for sym := range s1 {
		if _, ok := s2[sym]; ok {
			s[sym] = struct{}{}
		}
	}
	return s
}

// sortSymbols is sortTerminals also keeping EOF at the end.
func (s *Sets) sortSymbols(set map[Symbol]struct{}) []Symbol {
	syms := s.sortTerminals(set)
	if _, ok := set[SymbolEOF]; ok {
		syms = append(syms, SymbolEOF)
	}
	return syms
}
