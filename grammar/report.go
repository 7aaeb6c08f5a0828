package grammar

import (
	"fmt"

	spec "github.com/nihei9/gramlab/spec/grammar"
)

// GenReport describes a parsing table, its automaton, and its conflicts.
func GenReport(tab *ParsingTable) (*spec.Report, error) {
	gram := tab.gram
	symTab := gram.symbolTable

	terms := make([]*spec.Terminal, 0, symTab.terminalCount())
	for i, sym := range symTab.terms {
		terms = append(terms, &spec.Terminal{
			Number: i,
			Name:   sym.String(),
		})
	}
	terms = append(terms, &spec.Terminal{
		Number: len(symTab.terms),
		Name:   SymbolEOF.String(),
	})

	nonTerms := make([]*spec.NonTerminal, 0, symTab.nonTerminalCount())
	for i, sym := range symTab.nonTerms {
		nonTerms = append(nonTerms, &spec.NonTerminal{
			Number: i,
			Name:   sym.String(),
		})
	}

	var prods []*spec.Production
	for _, p := range gram.prods.getAllProductions() {
		prods = append(prods, &spec.Production{
			Number: p.Num,
			LHS:    p.LHS.String(),
			RHS:    symbolsToStrings(p.RHS),
		})
	}

	srConflicts := map[int][]*ShiftReduceConflict{}
	rrConflicts := map[int][]*ReduceReduceConflict{}
	for _, con := range tab.conflicts {
		switch c := con.(type) {
		case *ShiftReduceConflict:
			srConflicts[c.State] = append(srConflicts[c.State], c)
		case *ReduceReduceConflict:
			rrConflicts[c.State] = append(rrConflicts[c.State], c)
		}
	}

	states := make([]*spec.State, len(tab.automaton.states))
	for _, s := range tab.automaton.states {
		kernel := make([]*spec.Item, len(s.kernel.items))
		for i, item := range s.kernel.items {
			kernel[i] = &spec.Item{
				Production: item.prod.Num,
				Dot:        item.dot,
				LookAhead:  symbolsToStrings(item.sortedLookAhead()),
			}
		}

		var shift []*spec.Transition
		var reduce []*spec.Reduce
		var goTo []*spec.Transition
		accept := false
		cols := append(append([]Symbol{}, symTab.terms...), SymbolEOF)
		for _, t := range cols {
			for _, act := range tab.Action(s.Num, t) {
				switch act.Type {
				case ActionTypeShift:
					shift = append(shift, &spec.Transition{
						Symbol: t.String(),
						State:  act.State,
					})
				case ActionTypeAccept:
					accept = true
				case ActionTypeReduce:
					var r *spec.Reduce
					for _, known := range reduce {
						if known.Production == act.Production {
							r = known
							break
						}
					}
					if r == nil {
						r = &spec.Reduce{
							Production: act.Production,
						}
						reduce = append(reduce, r)
					}
					r.LookAhead = append(r.LookAhead, t.String())
				}
			}
		}
		for _, nt := range symTab.nonTerms {
			next, ok := tab.GoTo(s.Num, nt)
			if !ok {
				continue
			}
			goTo = append(goTo, &spec.Transition{
				Symbol: nt.String(),
				State:  next,
			})
		}

		var sr []*spec.SRConflict
		for _, c := range srConflicts[s.Num] {
			sr = append(sr, &spec.SRConflict{
				Symbol:     c.Symbol.String(),
				State:      c.NextState,
				Production: c.Production,
			})
		}
		var rr []*spec.RRConflict
		for _, c := range rrConflicts[s.Num] {
			rr = append(rr, &spec.RRConflict{
				Symbol:      c.Symbol.String(),
				Production1: c.Production1,
				Production2: c.Production2,
			})
		}

		if s.Num < 0 || s.Num >= len(states) {
			return nil, fmt.Errorf("invalid state number: %v", s.Num)
		}
		states[s.Num] = &spec.State{
			Number:     s.Num,
			Kernel:     kernel,
			Shift:      shift,
			Reduce:     reduce,
			GoTo:       goTo,
			Accept:     accept,
			SRConflict: sr,
			RRConflict: rr,
		}
	}

	return &spec.Report{
		Class:        tab.class.String(),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}

// GenDFA converts an automaton into a DFA document. The items of a state are listed in the order
// the automaton holds them, and an empty production has the RHS ["ε"].
func GenDFA(automaton *Automaton, class Class) *spec.DFA {
	d := &spec.DFA{
		Algorithm: class.String(),
	}
	for _, s := range automaton.states {
		ds := &spec.DFAState{
			ID:          s.Num,
			Items:       []*spec.DFAItem{},
			Transitions: map[string]int{},
		}
		for _, item := range s.items {
			rhs := symbolsToStrings(item.prod.RHS)
			if item.prod.IsEmpty() {
				rhs = []string{SymbolEpsilon.String()}
			}
			ds.Items = append(ds.Items, &spec.DFAItem{
				LHS:       item.prod.LHS.String(),
				RHS:       rhs,
				Dot:       item.dot,
				LookAhead: symbolsToStrings(item.sortedLookAhead()),
			})
		}
		for _, sym := range s.nextSyms {
			ds.Transitions[sym.String()] = s.next[sym]
		}
		d.States = append(d.States, ds)
	}
	return d
}

func symbolsToStrings(syms []Symbol) []string {
	strs := make([]string, len(syms))
	for i, sym := range syms {
		strs[i] = sym.String()
	}
	return strs
}
