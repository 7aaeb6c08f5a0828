package grammar

import "fmt"

type followEntry struct {
	symbols map[Symbol]struct{}
	eof     bool
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: map[Symbol]struct{}{},
		eof:     false,
	}
}

func (e *followEntry) add(sym Symbol) bool {
	if _, ok := e.symbols[sym]; ok {
		return false
	}
	e.symbols[sym] = struct{}{}
	return true
}

func (e *followEntry) addEOF() bool {
	if !e.eof {
		e.eof = true
		return true
	}
	return false
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false

	if fst != nil {
		for sym := range fst.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
	}

	if flw != nil {
		for sym := range flw.symbols {
			added := e.add(sym)
			if added {
				changed = true
			}
		}
		if flw.eof {
			added := e.addEOF()
			if added {
				changed = true
			}
		}
	}

	return changed
}

func (e *followEntry) clone() *followEntry {
	c := newFollowEntry()
	c.merge(nil, e)
	return c
}

type followSet struct {
	gram *Grammar
	set  map[Symbol]*followEntry
}

func newFollowSet(gram *Grammar) *followSet {
	flw := &followSet{
		gram: gram,
		set:  map[Symbol]*followEntry{},
	}
	for _, sym := range gram.symbolTable.nonTerms {
		flw.set[sym] = newFollowEntry()
	}
	flw.set[gram.start].addEOF()

	return flw
}

func (flw *followSet) clone() *followSet {
	c := &followSet{
		gram: flw.gram,
		set:  map[Symbol]*followEntry{},
	}
	for sym, e := range flw.set {
		c.set[sym] = e.clone()
	}
	return c
}

func (flw *followSet) findBySymbol(sym Symbol) *followEntry {
	return flw.set[sym]
}

func genFollowSet(gram *Grammar, fst *firstSet) (*followSet, int, error) {
	flw := newFollowSet(gram)
	passes := 0
	for {
		passes++
		more, err := updateFollowSet(flw, fst)
		if err != nil {
			return nil, 0, err
		}
		if !more {
			break
		}
	}
	return flw, passes, nil
}

// updateFollowSet makes a pass over all productions and reports whether FOLLOW grew. For each
// `B → α A β`, FIRST(β) flows into FOLLOW(A), and FOLLOW(B) does too when β derives ε.
func updateFollowSet(flw *followSet, fst *firstSet) (bool, error) {
	more := false
	for _, prod := range flw.gram.prods.getAllProductions() {
		for i, sym := range prod.RHS {
			if !flw.gram.IsNonTerminal(sym) {
				continue
			}

			acc := flw.findBySymbol(sym)
			if acc == nil {
				return false, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
			}
			e, err := fst.find(prod.RHS[i+1:])
			if err != nil {
				return false, err
			}
			if acc.merge(e, nil) {
				more = true
			}
			if e.empty {
				if acc.merge(nil, flw.findBySymbol(prod.LHS)) {
					more = true
				}
			}
		}
	}
	return more, nil
}
