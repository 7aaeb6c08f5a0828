package grammar

import (
	"fmt"
	"log/slog"
)

// LL1Conflict means that a cell of an LL(1) table has two productions. The table keeps
// Production1, the production written first.
type LL1Conflict struct {
	NonTerminal Symbol
	Terminal    Symbol
	Production1 int
	Production2 int
}

func (c *LL1Conflict) String() string {
	return fmt.Sprintf("LL(1) conflict (%v, %v): production %v, production %v", c.NonTerminal, c.Terminal, c.Production1, c.Production2)
}

const ll1EntryEmpty = -1

// LL1Table maps a pair of a non-terminal and a terminal to a production.
type LL1Table struct {
	gram *Grammar
	sets *Sets

	// entries holds a production number per cell. Rows are non-terminals, and columns are terminals
	// followed by EOF.
	entries       []int
	terminalCount int
	conflicts     []*LL1Conflict
}

// GenLL1Table builds the LL(1) table of a grammar. For each production `A → α`, the cells of the
// terminals in FIRST(α) get the production, and when α derives ε the cells of the symbols in
// FOLLOW(A) get it too. A cell already having a production keeps it, and a conflict is recorded.
func GenLL1Table(gram *Grammar, sets *Sets) (*LL1Table, error) {
	if sets.gram != gram {
		return nil, fmt.Errorf("the sets were computed for another grammar")
	}

	symTab := gram.symbolTable
	tab := &LL1Table{
		gram:          gram,
		sets:          sets,
		entries:       make([]int, symTab.nonTerminalCount()*symTab.terminalCount()),
		terminalCount: symTab.terminalCount(),
	}
	for i := range tab.entries {
		tab.entries[i] = ll1EntryEmpty
	}

	for _, prod := range gram.prods.getAllProductions() {
		fst, err := sets.first.find(prod.RHS)
		if err != nil {
			return nil, err
		}
		for _, sym := range sets.sortTerminals(fst.symbols) {
			tab.write(prod, sym)
		}
		if !fst.empty {
			continue
		}

		flw := sets.follow.findBySymbol(prod.LHS)
		if flw == nil {
			return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %v", prod.LHS)
		}
		for _, sym := range sets.sortTerminals(flw.symbols) {
			tab.write(prod, sym)
		}
		if flw.eof {
			tab.write(prod, SymbolEOF)
		}
	}

	slog.Debug("built a parsing table", "class", ClassLL1, "conflicts", len(tab.conflicts))

	return tab, nil
}

func (t *LL1Table) write(prod *Production, sym Symbol) {
	pos := t.pos(prod.LHS, sym)
	known := t.entries[pos]
	if known == ll1EntryEmpty {
		t.entries[pos] = prod.Num
		return
	}
	if known == prod.Num {
		return
	}
	t.conflicts = append(t.conflicts, &LL1Conflict{
		NonTerminal: prod.LHS,
		Terminal:    sym,
		Production1: known,
		Production2: prod.Num,
	})
}

func (t *LL1Table) pos(nonTerm Symbol, term Symbol) int {
	row, _ := t.gram.symbolTable.nonTerminalNum(nonTerm)
	col, _ := t.gram.symbolTable.terminalNum(term)
	return row*t.terminalCount + col
}

func (t *LL1Table) Grammar() *Grammar {
	return t.gram
}

func (t *LL1Table) Sets() *Sets {
	return t.sets
}

// Lookup returns M[nonTerm][term]. term is a terminal or EOF.
func (t *LL1Table) Lookup(nonTerm Symbol, term Symbol) (*Production, bool) {
	if _, ok := t.gram.symbolTable.nonTerminalNum(nonTerm); !ok {
		return nil, false
	}
	if _, ok := t.gram.symbolTable.terminalNum(term); !ok {
		return nil, false
	}
	num := t.entries[t.pos(nonTerm, term)]
	if num == ll1EntryEmpty {
		return nil, false
	}
	return t.gram.Production(num)
}

func (t *LL1Table) Conflicts() []*LL1Conflict {
	return append([]*LL1Conflict{}, t.conflicts...)
}

func (t *LL1Table) HasConflicts() bool {
	return len(t.conflicts) > 0
}
