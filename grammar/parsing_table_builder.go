package grammar

import (
	"fmt"
	"log/slog"
	"sort"
)

// GenParsingTable builds the ACTION/GOTO table of a grammar for one of the LR classes. The table
// is built even when it has conflicts.
func GenParsingTable(gram *Grammar, class Class) (*ParsingTable, error) {
	mode, err := class.lookAheadMode()
	if err != nil {
		return nil, err
	}
	automaton, err := GenAutomaton(gram, mode)
	if err != nil {
		return nil, err
	}
	return GenParsingTableFromAutomaton(automaton, class)
}

// GenParsingTableFromAutomaton builds a table over an automaton already generated. LR(0) and
// SLR(1) tables need an LR(0) automaton, an LR(1) table needs an LR(1) one, and an LALR(1) table
// needs an LALR(1) one.
func GenParsingTableFromAutomaton(automaton *Automaton, class Class) (*ParsingTable, error) {
	mode, err := class.lookAheadMode()
	if err != nil {
		return nil, err
	}
	if automaton.mode != mode {
		return nil, fmt.Errorf("a %v table cannot be built over an automaton of look-ahead mode %v", class.Title(), automaton.mode)
	}

	b := &lrTableBuilder{
		class:     class,
		automaton: automaton,
		gram:      automaton.gram,
		sets:      automaton.sets,
	}
	tab, err := b.build()
	if err != nil {
		return nil, err
	}

	slog.Debug("built a parsing table", "class", class, "states", tab.stateCount, "conflicts", len(tab.conflicts))

	return tab, nil
}

type lrTableBuilder struct {
	class     Class
	automaton *Automaton
	gram      *Grammar
	sets      *Sets

	conflicts []Conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	symTab := b.gram.symbolTable
	stateCount := len(b.automaton.states)
	ptab := &ParsingTable{
		class:            b.class,
		automaton:        b.automaton,
		gram:             b.gram,
		actionTable:      make([]actionEntry, stateCount*symTab.terminalCount()),
		extraActions:     map[int][]actionEntry{},
		goToTable:        make([]goToEntry, stateCount*symTab.nonTerminalCount()),
		stateCount:       stateCount,
		terminalCount:    symTab.terminalCount(),
		nonTerminalCount: symTab.nonTerminalCount(),
		InitialState:     b.automaton.InitialState().Num,
	}

	startProd, ok := b.gram.StartProduction()
	if !ok {
		return nil, fmt.Errorf("the grammar is not augmented")
	}

	for _, state := range b.automaton.states {
		for _, sym := range state.nextSyms {
			nextState := state.next[sym]
			if b.gram.IsTerminal(sym) {
				b.writeShiftAction(ptab, state.Num, sym, nextState)
			} else {
				ptab.writeGoTo(state.Num, sym, nextState)
			}
		}

		var reducibleItems []*lrItem
		for _, item := range state.items {
			if !item.reducible {
				continue
			}
			if item.prod.equals(startProd) {
				b.writeAcceptAction(ptab, state.Num)
				continue
			}
			reducibleItems = append(reducibleItems, item)
		}
		// Reductions are written in order of the production numbers so that conflicts are reported
		// in a stable order.
		sort.SliceStable(reducibleItems, func(i, j int) bool {
			return reducibleItems[i].prod.Num < reducibleItems[j].prod.Num
		})

		for _, item := range reducibleItems {
			lookAhead, err := b.genReduceLookAhead(item)
			if err != nil {
				return nil, err
			}
			for _, a := range lookAhead {
				b.writeReduceAction(ptab, state.Num, a, item.prod.Num)
			}
		}
	}

	ptab.conflicts = b.conflicts

	return ptab, nil
}

// genReduceLookAhead returns the symbols on which an item is reduced in order of the terminals
// followed by EOF. LR(0) reduces on every symbol, SLR(1) on FOLLOW of the LHS, and LR(1) and LALR(1)
// on the look-ahead symbols of the item.
func (b *lrTableBuilder) genReduceLookAhead(item *lrItem) ([]Symbol, error) {
	syms := []Symbol{}
	switch b.class {
	case ClassLR0:
		syms = append(syms, b.gram.symbolTable.terms...)
		syms = append(syms, SymbolEOF)
	case ClassSLR1:
		flw := b.sets.follow.findBySymbol(item.prod.LHS)
		if flw == nil {
			return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %v", item.prod.LHS)
		}
		syms = append(syms, b.sets.sortTerminals(flw.symbols)...)
		if flw.eof {
			syms = append(syms, SymbolEOF)
		}
	case ClassLR1, ClassLALR1:
		syms = append(syms, b.sets.sortTerminals(item.lookAhead)...)
		if _, ok := item.lookAhead[SymbolEOF]; ok {
			syms = append(syms, SymbolEOF)
		}
	default:
		return nil, fmt.Errorf("invalid class: %v", b.class)
	}
	return syms, nil
}

func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state int, sym Symbol, nextState int) {
	col, _ := b.gram.symbolTable.terminalNum(sym)
	act := newShiftActionEntry(nextState)
	for _, e := range tab.cellActions(state, col) {
		if e == act {
			return
		}
		b.recordConflict(state, sym, e, act)
	}
	b.putAction(tab, state, col, act)
}

func (b *lrTableBuilder) writeAcceptAction(tab *ParsingTable, state int) {
	col, _ := b.gram.symbolTable.terminalNum(SymbolEOF)
	for _, e := range tab.cellActions(state, col) {
		if e == actionEntryAccept {
			return
		}
		b.recordConflict(state, SymbolEOF, e, actionEntryAccept)
	}
	b.putAction(tab, state, col, actionEntryAccept)
}

// writeReduceAction writes a reduce action to the parsing table. When the cell already has actions,
// the reduce action is appended to them and a conflict is recorded for each of them.
func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state int, sym Symbol, prod int) {
	col, _ := b.gram.symbolTable.terminalNum(sym)
	act := newReduceActionEntry(prod)
	existing := tab.cellActions(state, col)
	for _, e := range existing {
		if e == act {
			return
		}
	}
	for _, e := range existing {
		b.recordConflict(state, sym, e, act)
	}
	b.putAction(tab, state, col, act)
}

func (b *lrTableBuilder) putAction(tab *ParsingTable, state int, col int, act actionEntry) {
	if tab.readAction(state, col).isEmpty() {
		tab.writeAction(state, col, act)
		return
	}
	tab.appendAction(state, col, act)
}

func (b *lrTableBuilder) recordConflict(state int, sym Symbol, act1, act2 actionEntry) {
	a1 := act1.describe()
	a2 := act2.describe()
	startProd, _ := b.gram.StartProduction()
	prodOf := func(a Action) int {
		if a.Type == ActionTypeAccept {
			return startProd.Num
		}
		return a.Production
	}

	switch {
	case a1.Type == ActionTypeShift && a2.Type != ActionTypeShift:
		b.conflicts = append(b.conflicts, &ShiftReduceConflict{
			State:      state,
			Symbol:     sym,
			NextState:  a1.State,
			Production: prodOf(a2),
		})
	case a2.Type == ActionTypeShift && a1.Type != ActionTypeShift:
		b.conflicts = append(b.conflicts, &ShiftReduceConflict{
			State:      state,
			Symbol:     sym,
			NextState:  a2.State,
			Production: prodOf(a1),
		})
	case a1.Type != ActionTypeShift && a2.Type != ActionTypeShift:
		b.conflicts = append(b.conflicts, &ReduceReduceConflict{
			State:       state,
			Symbol:      sym,
			Production1: prodOf(a1),
			Production2: prodOf(a2),
		})
	}
}
