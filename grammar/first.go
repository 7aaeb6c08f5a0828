package grammar

import "fmt"

type firstEntry struct {
	symbols map[Symbol]struct{}
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: map[Symbol]struct{}{},
		empty:   false,
	}
}

func (e *firstEntry) add(sym Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	changed := false
	for sym := range target.symbols {
		added := e.add(sym)
		if added {
			changed = true
		}
	}
	return changed
}

func (e *firstEntry) clone() *firstEntry {
	c := newFirstEntry()
	c.mergeExceptEmpty(e)
	c.empty = e.empty
	return c
}

type firstSet struct {
	gram *Grammar
	set  map[Symbol]*firstEntry
}

func newFirstSet(gram *Grammar) *firstSet {
	fst := &firstSet{
		gram: gram,
		set:  map[Symbol]*firstEntry{},
	}
	for _, sym := range gram.symbolTable.nonTerms {
		fst.set[sym] = newFirstEntry()
	}

	return fst
}

func (fst *firstSet) clone() *firstSet {
	c := &firstSet{
		gram: fst.gram,
		set:  map[Symbol]*firstEntry{},
	}
	for sym, e := range fst.set {
		c.set[sym] = e.clone()
	}
	return c
}

// find returns FIRST of a symbol string. Any symbol other than non-terminals, including EOF, begins
// itself. FIRST of the empty string is the empty set having ε.
func (fst *firstSet) find(syms []Symbol) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range syms {
		if !fst.gram.IsNonTerminal(sym) {
			entry.add(sym)
			return entry, nil
		}

		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range e.symbols {
			entry.add(s)
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym Symbol) *firstEntry {
	return fst.set[sym]
}

func genFirstSet(gram *Grammar) (*firstSet, int, error) {
	fst := newFirstSet(gram)
	passes := 0
	for {
		passes++
		more, err := updateFirstSet(fst)
		if err != nil {
			return nil, 0, err
		}
		if !more {
			break
		}
	}
	return fst, passes, nil
}

// updateFirstSet makes a pass over all productions and reports whether FIRST grew.
func updateFirstSet(fst *firstSet) (bool, error) {
	more := false
	for _, prod := range fst.gram.prods.getAllProductions() {
		e := fst.findBySymbol(prod.LHS)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", prod.LHS)
		}
		changed := genProdFirstEntry(fst, e, prod)
		if changed {
			more = true
		}
	}
	return more, nil
}

func genProdFirstEntry(fst *firstSet, acc *firstEntry, prod *Production) bool {
	if prod.IsEmpty() {
		return acc.addEmpty()
	}

	changed := false
	for _, sym := range prod.RHS {
		if !fst.gram.IsNonTerminal(sym) {
			if acc.add(sym) {
				changed = true
			}
			return changed
		}

		e := fst.findBySymbol(sym)
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed
		}
	}
	if acc.addEmpty() {
		changed = true
	}
	return changed
}
