package grammar

import (
	"log/slog"

	"github.com/nihei9/gramlab/logutil"
)

// FirstEntry is FIRST of a symbol or a symbol string. Empty tells whether ε belongs to the set.
// Symbols never contain ε.
type FirstEntry struct {
	Symbols []Symbol
	Empty   bool
}

// FollowEntry is FOLLOW of a non-terminal. EOF tells whether $ belongs to the set.
type FollowEntry struct {
	Symbols []Symbol
	EOF     bool
}

// Sets holds NULLABLE, FIRST, and FOLLOW of a grammar.
type Sets struct {
	gram     *Grammar
	nullable map[Symbol]struct{}
	first    *firstSet
	follow   *followSet
}

func ComputeSets(gram *Grammar) (*Sets, error) {
	nullable, nPasses := genNullableSet(gram)
	first, fPasses, err := genFirstSet(gram)
	if err != nil {
		return nil, err
	}
	follow, flwPasses, err := genFollowSet(gram, first)
	if err != nil {
		return nil, err
	}

	logutil.Trace("computed NULLABLE, FIRST, and FOLLOW",
		slog.Int("nullable_passes", nPasses),
		slog.Int("first_passes", fPasses),
		slog.Int("follow_passes", flwPasses))

	return &Sets{
		gram:     gram,
		nullable: nullable,
		first:    first,
		follow:   follow,
	}, nil
}

func genNullableSet(gram *Grammar) (map[Symbol]struct{}, int) {
	nullable := map[Symbol]struct{}{}
	passes := 0
	for {
		passes++
		if !updateNullableSet(gram, nullable) {
			break
		}
	}
	return nullable, passes
}

// updateNullableSet adds the LHS of every production whose RHS consists of nullable
// non-terminals only. An empty RHS is nullable.
func updateNullableSet(gram *Grammar, nullable map[Symbol]struct{}) bool {
	more := false
	for _, prod := range gram.prods.getAllProductions() {
		if _, ok := nullable[prod.LHS]; ok {
			continue
		}
		if isNullableString(nullable, prod.RHS) {
			nullable[prod.LHS] = struct{}{}
			more = true
		}
	}
	return more
}

func isNullableString(nullable map[Symbol]struct{}, syms []Symbol) bool {
	for _, sym := range syms {
		if _, ok := nullable[sym]; !ok {
			return false
		}
	}
	return true
}

func (s *Sets) Grammar() *Grammar {
	return s.gram
}

// Nullable returns the nullable non-terminals in order of the non-terminals of the grammar.
func (s *Sets) Nullable() []Symbol {
	syms := []Symbol{}
	for _, sym := range s.gram.symbolTable.nonTerms {
		if _, ok := s.nullable[sym]; ok {
			syms = append(syms, sym)
		}
	}
	return syms
}

func (s *Sets) IsNullable(sym Symbol) bool {
	_, ok := s.nullable[sym]
	return ok
}

// First returns FIRST of a symbol. FIRST of a terminal is the terminal itself.
func (s *Sets) First(sym Symbol) (*FirstEntry, bool) {
	if s.gram.IsTerminal(sym) {
		return &FirstEntry{
			Symbols: []Symbol{sym},
		}, true
	}
	e := s.first.findBySymbol(sym)
	if e == nil {
		return nil, false
	}
	return s.exportFirstEntry(e), true
}

// ProductionFirst returns FIRST of the RHS of a production.
func (s *Sets) ProductionFirst(num int) (*FirstEntry, bool) {
	prod, ok := s.gram.Production(num)
	if !ok {
		return nil, false
	}
	e, err := s.first.find(prod.RHS)
	if err != nil {
		return nil, false
	}
	return s.exportFirstEntry(e), true
}

// FirstOfString returns FIRST(X1 X2 ... Xn). It consists of FIRST(X1) without ε, FIRST(X2 ... Xn)
// when X1 is nullable, and ε when all the symbols are nullable. FIRST of the empty string is the
// empty set having ε.
func (s *Sets) FirstOfString(syms []Symbol) (*FirstEntry, error) {
	e, err := s.first.find(syms)
	if err != nil {
		return nil, err
	}
	return s.exportFirstEntry(e), nil
}

func (s *Sets) Follow(sym Symbol) (*FollowEntry, bool) {
	e := s.follow.findBySymbol(sym)
	if e == nil {
		return nil, false
	}
	return &FollowEntry{
		Symbols: s.sortTerminals(e.symbols),
		EOF:     e.eof,
	}, true
}

// Recompute runs one more pass of every solver seeded with the computed sets and reports whether
// any set changes. It never returns true for sets ComputeSets returned.
func (s *Sets) Recompute() (bool, error) {
	nullable := map[Symbol]struct{}{}
	for sym := range s.nullable {
		nullable[sym] = struct{}{}
	}
	first := s.first.clone()
	follow := s.follow.clone()

	changed := updateNullableSet(s.gram, nullable)
	more, err := updateFirstSet(first)
	if err != nil {
		return false, err
	}
	changed = changed || more
	more, err = updateFollowSet(follow, first)
	if err != nil {
		return false, err
	}
	return changed || more, nil
}

func (s *Sets) exportFirstEntry(e *firstEntry) *FirstEntry {
	syms := s.sortTerminals(e.symbols)
	if _, ok := e.symbols[SymbolEOF]; ok {
		syms = append(syms, SymbolEOF)
	}
	return &FirstEntry{
		Symbols: syms,
		Empty:   e.empty,
	}
}

// sortTerminals returns the terminals of a set in order of the terminals of the grammar.
func (s *Sets) sortTerminals(set map[Symbol]struct{}) []Symbol {
	syms := []Symbol{}
	for _, sym := range s.gram.symbolTable.terms {
		if _, ok := set[sym]; ok {
			syms = append(syms, sym)
		}
	}
	return syms
}
