package grammar

import (
	"fmt"
	"log/slog"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/nihei9/gramlab/logutil"
)

// LookAheadMode selects how an automaton treats look-ahead symbols.
type LookAheadMode int

const (
	// LookAheadNone generates the LR(0) automaton.
	LookAheadNone LookAheadMode = iota
	// LookAheadExact generates the canonical LR(1) automaton.
	LookAheadExact
	// LookAheadMerged generates the LALR(1) automaton merging the LR(1) states having the same core.
	LookAheadMerged
)

func (m LookAheadMode) String() string {
	switch m {
	case LookAheadNone:
		return "none"
	case LookAheadExact:
		return "exact"
	case LookAheadMerged:
		return "merged"
	}
	return fmt.Sprintf("LookAheadMode(%d)", int(m))
}

// State is a closed item set. Num is assigned in order of discovery, and the initial state is 0.
type State struct {
	Num int

	kernel *kernel

	// items contains the kernel items first and then the closure items in order of generation.
	items       []*lrItem
	itemsByCore map[lrItemID]*lrItem
	next        map[Symbol]int
	nextSyms    []Symbol
}

func (s *State) Items() []*Item {
	items := make([]*Item, len(s.items))
	for i, item := range s.items {
		items[i] = item.export()
	}
	return items
}

func (s *State) Kernel() []*Item {
	items := make([]*Item, len(s.kernel.items))
	for i, item := range s.kernel.items {
		items[i] = item.export()
	}
	return items
}

func (s *State) Next(sym Symbol) (int, bool) {
	num, ok := s.next[sym]
	return num, ok
}

type Transition struct {
	Symbol Symbol
	State  int
}

// Transitions returns the transitions on terminals and then on non-terminals in order of the
// symbols of the grammar.
func (s *State) Transitions() []*Transition {
	trans := make([]*Transition, len(s.nextSyms))
	for i, sym := range s.nextSyms {
		trans[i] = &Transition{
			Symbol: sym,
			State:  s.next[sym],
		}
	}
	return trans
}

// Automaton is the collection of LR item sets of an augmented grammar and the GOTO function
// between them.
type Automaton struct {
	gram   *Grammar
	sets   *Sets
	mode   LookAheadMode
	states []*State
}

// GenAutomaton generates the automaton of a grammar. The grammar is augmented when it isn't.
func GenAutomaton(gram *Grammar, mode LookAheadMode) (*Automaton, error) {
	aug := gram.Augment()
	sets, err := ComputeSets(aug)
	if err != nil {
		return nil, err
	}

	var automaton *Automaton
	switch mode {
	case LookAheadNone, LookAheadExact:
		automaton, err = genCanonicalCollection(aug, sets, mode)
		if err != nil {
			return nil, err
		}
	case LookAheadMerged:
		lr1, err := genCanonicalCollection(aug, sets, LookAheadExact)
		if err != nil {
			return nil, err
		}
		automaton, err = mergeCores(lr1)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid look-ahead mode: %v", mode)
	}

	logutil.Trace("generated an automaton", slog.String("mode", mode.String()), slog.Int("states", len(automaton.states)))

	return automaton, nil
}

func (a *Automaton) Grammar() *Grammar {
	return a.gram
}

func (a *Automaton) Sets() *Sets {
	return a.sets
}

func (a *Automaton) Mode() LookAheadMode {
	return a.mode
}

func (a *Automaton) States() []*State {
	return append([]*State{}, a.states...)
}

func (a *Automaton) InitialState() *State {
	return a.states[0]
}

func (a *Automaton) State(num int) (*State, bool) {
	if num < 0 || num >= len(a.states) {
		return nil, false
	}
	return a.states[num], true
}

// Transition returns GOTO(state, sym).
func (a *Automaton) Transition(state int, sym Symbol) (int, bool) {
	s, ok := a.State(state)
	if !ok {
		return 0, false
	}
	return s.Next(sym)
}

type automatonBuilder struct {
	gram *Grammar
	sets *Sets
	mode LookAheadMode
}

func genCanonicalCollection(gram *Grammar, sets *Sets, mode LookAheadMode) (*Automaton, error) {
	b := &automatonBuilder{
		gram: gram,
		sets: sets,
		mode: mode,
	}

	automaton := &Automaton{
		gram: gram,
		sets: sets,
		mode: mode,
	}

	knownKernels := map[kernelID]int{}
	uncheckedKernels := arraylist.New()

	// Generate an initial kernel.
	{
		startProd, ok := gram.StartProduction()
		if !ok {
			return nil, fmt.Errorf("the grammar is not augmented")
		}
		initialItem, err := newLRItem(gram, startProd, 0)
		if err != nil {
			return nil, err
		}
		if mode != LookAheadNone {
			initialItem.lookAhead[SymbolEOF] = struct{}{}
		}

		k, err := newKernel([]*lrItem{initialItem}, mode != LookAheadNone)
		if err != nil {
			return nil, err
		}

		knownKernels[k.id] = 0
		uncheckedKernels.Add(k)
	}

	// The kernels are checked in order of discovery, so the number of a state is also the index of
	// the state in the automaton.
	for !uncheckedKernels.Empty() {
		v, _ := uncheckedKernels.Get(0)
		uncheckedKernels.Remove(0)
		k := v.(*kernel)

		state, neighbours, err := b.genStateAndNeighbourKernels(k)
		if err != nil {
			return nil, err
		}
		state.Num = knownKernels[k.id]

		for _, n := range neighbours {
			num, known := knownKernels[n.kernel.id]
			if !known {
				num = len(knownKernels)
				knownKernels[n.kernel.id] = num
				uncheckedKernels.Add(n.kernel)
			}
			state.next[n.symbol] = num
			state.nextSyms = append(state.nextSyms, n.symbol)
		}

		automaton.states = append(automaton.states, state)
	}

	return automaton, nil
}

func (b *automatonBuilder) genStateAndNeighbourKernels(k *kernel) (*State, []*neighbourKernel, error) {
	items, itemsByCore, err := b.genClosure(k)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := b.genNeighbourKernels(items)
	if err != nil {
		return nil, nil, err
	}

	return &State{
		kernel:      k,
		items:       items,
		itemsByCore: itemsByCore,
		next:        map[Symbol]int{},
	}, neighbours, nil
}

// genClosure adds `B → ・γ` for each item `A → α・B β` until no item is added. When the automaton
// has look-ahead symbols, `B → ・γ` gets FIRST(β L) where L is the look-ahead symbols of the
// triggering item, and an item getting new look-ahead symbols is checked again.
func (b *automatonBuilder) genClosure(k *kernel) ([]*lrItem, map[lrItemID]*lrItem, error) {
	items := []*lrItem{}
	knownItems := map[lrItemID]*lrItem{}
	uncheckedItems := []*lrItem{}
	for _, item := range k.items {
		items = append(items, item)
		knownItems[item.id] = item
		uncheckedItems = append(uncheckedItems, item)
	}
	for len(uncheckedItems) > 0 {
		nextUncheckedItems := []*lrItem{}
		for _, item := range uncheckedItems {
			if !b.gram.IsNonTerminal(item.dottedSymbol) {
				continue
			}

			var lookAhead map[Symbol]struct{}
			if b.mode != LookAheadNone {
				var err error
				lookAhead, err = genLookAhead(b.sets, item)
				if err != nil {
					return nil, nil, err
				}
			}

			ps, _ := b.gram.prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				if known, exist := knownItems[genLRItemID(prod, 0)]; exist {
					if known.addLookAhead(lookAhead) {
						nextUncheckedItems = append(nextUncheckedItems, known)
					}
					continue
				}
				newItem, err := newLRItem(b.gram, prod, 0)
				if err != nil {
					return nil, nil, err
				}
				newItem.addLookAhead(lookAhead)
				items = append(items, newItem)
				knownItems[newItem.id] = newItem
				nextUncheckedItems = append(nextUncheckedItems, newItem)
			}
		}
		uncheckedItems = nextUncheckedItems
	}

	return items, knownItems, nil
}

// genLookAhead returns the look-ahead symbols an item `A → α・B β, L` passes to `B → ・γ`, that is,
// FIRST(β L).
func genLookAhead(sets *Sets, item *lrItem) (map[Symbol]struct{}, error) {
	fst, err := sets.first.find(item.prod.RHS[item.dot+1:])
	if err != nil {
		return nil, err
	}
	lookAhead := map[Symbol]struct{}{}
	for sym := range fst.symbols {
		lookAhead[sym] = struct{}{}
	}
	if fst.empty {
		for sym := range item.lookAhead {
			lookAhead[sym] = struct{}{}
		}
	}
	return lookAhead, nil
}

type neighbourKernel struct {
	symbol Symbol
	kernel *kernel
}

// genNeighbourKernels returns the kernels of GOTO(I, X) for each symbol X following a dot. The
// kernels are ordered by the terminals and then the non-terminals of the grammar.
func (b *automatonBuilder) genNeighbourKernels(items []*lrItem) ([]*neighbourKernel, error) {
	kItemMap := map[Symbol][]*lrItem{}
	for _, item := range items {
		if item.dottedSymbol.isNil() {
			continue
		}
		kItem, err := item.advance(b.gram)
		if err != nil {
			return nil, err
		}
		kItemMap[item.dottedSymbol] = append(kItemMap[item.dottedSymbol], kItem)
	}

	nextSyms := []Symbol{}
	for _, sym := range b.gram.symbolTable.terms {
		if _, ok := kItemMap[sym]; ok {
			nextSyms = append(nextSyms, sym)
		}
	}
	for _, sym := range b.gram.symbolTable.nonTerms {
		if _, ok := kItemMap[sym]; ok {
			nextSyms = append(nextSyms, sym)
		}
	}

	kernels := []*neighbourKernel{}
	for _, sym := range nextSyms {
		k, err := newKernel(kItemMap[sym], b.mode != LookAheadNone)
		if err != nil {
			return nil, err
		}
		kernels = append(kernels, &neighbourKernel{
			symbol: sym,
			kernel: k,
		})
	}

	return kernels, nil
}

// mergeCores merges the LR(1) states having the same core into one LALR(1) state. Merged states are
// numbered in order of their lowest-numbered LR(1) states, and their items have the union of the
// look-ahead symbols.
func mergeCores(lr1 *Automaton) (*Automaton, error) {
	groupNums := map[kernelID]int{}
	newNums := make([]int, len(lr1.states))
	merged := []*State{}
	for _, s := range lr1.states {
		num, ok := groupNums[s.kernel.coreID]
		if !ok {
			num = len(merged)
			groupNums[s.kernel.coreID] = num

			items := make([]*lrItem, len(s.items))
			itemsByCore := map[lrItemID]*lrItem{}
			for i, item := range s.items {
				items[i] = item.clone()
				itemsByCore[item.id] = items[i]
			}
			merged = append(merged, &State{
				Num: num,
				kernel: &kernel{
					id:     s.kernel.coreID,
					coreID: s.kernel.coreID,
					items:  items[:len(s.kernel.items)],
				},
				items:       items,
				itemsByCore: itemsByCore,
				next:        map[Symbol]int{},
			})
		} else {
			m := merged[num]
			for _, item := range s.items {
				mItem, ok := m.itemsByCore[item.id]
				if !ok {
					return nil, fmt.Errorf("states having the same core have different items; state: %v, item: %v", s.Num, item.export())
				}
				mItem.addLookAhead(item.lookAhead)
			}
		}
		newNums[s.Num] = num
	}

	for _, s := range lr1.states {
		m := merged[newNums[s.Num]]
		for _, sym := range s.nextSyms {
			to := newNums[s.next[sym]]
			if known, ok := m.next[sym]; ok {
				if known != to {
					return nil, fmt.Errorf("merged state %v has two transitions on %v: %v and %v", m.Num, sym, known, to)
				}
				continue
			}
			m.next[sym] = to
			m.nextSyms = append(m.nextSyms, sym)
		}
	}

	automaton := &Automaton{
		gram:   lr1.gram,
		sets:   lr1.sets,
		mode:   LookAheadMerged,
		states: merged,
	}
	passes, err := automaton.propagateLookAhead()
	if err != nil {
		return nil, err
	}
	logutil.Trace("merged LR(1) states", slog.Int("lr1_states", len(lr1.states)), slog.Int("lalr1_states", len(merged)), slog.Int("propagation_passes", passes))

	return automaton, nil
}

// propagateLookAhead passes look-ahead symbols along the closure and the transitions of the
// automaton until no item gets a new symbol.
func (a *Automaton) propagateLookAhead() (int, error) {
	passes := 0
	for {
		passes++
		more := false
		for _, state := range a.states {
			for _, item := range state.items {
				if item.dottedSymbol.isNil() {
					continue
				}

				if a.gram.IsNonTerminal(item.dottedSymbol) {
					lookAhead, err := genLookAhead(a.sets, item)
					if err != nil {
						return 0, err
					}
					ps, _ := a.gram.prods.findByLHS(item.dottedSymbol)
					for _, prod := range ps {
						cItem, ok := state.itemsByCore[genLRItemID(prod, 0)]
						if !ok {
							return 0, fmt.Errorf("a closure item was not found; state: %v, production: %v", state.Num, prod)
						}
						if cItem.addLookAhead(lookAhead) {
							more = true
						}
					}
				}

				next, ok := state.next[item.dottedSymbol]
				if !ok {
					return 0, fmt.Errorf("a transition was not found; state: %v, symbol: %v", state.Num, item.dottedSymbol)
				}
				nItem, ok := a.states[next].itemsByCore[genLRItemID(item.prod, item.dot+1)]
				if !ok {
					return 0, fmt.Errorf("an advanced item was not found; state: %v, production: %v", next, item.prod)
				}
				if nItem.addLookAhead(item.lookAhead) {
					more = true
				}
			}
		}
		if !more {
			break
		}
	}
	return passes, nil
}
