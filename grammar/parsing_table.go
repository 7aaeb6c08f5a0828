package grammar

import (
	"fmt"
	"math"
	"strings"
)

// Class is a class of grammars a parsing table is built for.
type Class string

const (
	ClassLL1   = Class("ll1")
	ClassLR0   = Class("lr0")
	ClassSLR1  = Class("slr1")
	ClassLR1   = Class("lr1")
	ClassLALR1 = Class("lalr1")
)

// LRClasses are the classes GenParsingTable supports, from the weakest to the strongest in
// terms of the number of grammars they can handle.
var LRClasses = []Class{
	ClassLR0,
	ClassSLR1,
	ClassLALR1,
	ClassLR1,
}

func ParseClass(s string) (Class, error) {
	c := Class(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ClassLL1, ClassLR0, ClassSLR1, ClassLR1, ClassLALR1:
		return c, nil
	}
	return "", fmt.Errorf("invalid class: %v (want one of ll1, lr0, slr1, lr1, lalr1)", s)
}

func (c Class) String() string {
	return string(c)
}

// Title returns the conventional notation of a class like LALR(1).
func (c Class) Title() string {
	switch c {
	case ClassLL1:
		return "LL(1)"
	case ClassLR0:
		return "LR(0)"
	case ClassSLR1:
		return "SLR(1)"
	case ClassLR1:
		return "LR(1)"
	case ClassLALR1:
		return "LALR(1)"
	}
	return string(c)
}

func (c Class) lookAheadMode() (LookAheadMode, error) {
	switch c {
	case ClassLR0, ClassSLR1:
		return LookAheadNone, nil
	case ClassLR1:
		return LookAheadExact, nil
	case ClassLALR1:
		return LookAheadMerged, nil
	}
	return 0, fmt.Errorf("%v has no LR automaton", c)
}

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

type Action struct {
	Type       ActionType
	State      int
	Production int
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("s%v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("r%v", a.Production)
	case ActionTypeAccept:
		return "acc"
	}
	return ""
}

// actionEntry encodes an action in an int. A shift action is the negative next state, and a reduce
// action is the production number plus one. The initial state never becomes the next state of a
// shift, so 0 means the empty entry.
type actionEntry int

const (
	actionEntryEmpty  = actionEntry(0)
	actionEntryAccept = actionEntry(math.MaxInt32)
)

func newShiftActionEntry(state int) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod int) actionEntry {
	return actionEntry(prod + 1)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() Action {
	switch {
	case e == actionEntryEmpty:
		return Action{Type: ActionTypeError}
	case e == actionEntryAccept:
		return Action{Type: ActionTypeAccept}
	case e < 0:
		return Action{Type: ActionTypeShift, State: int(e * -1)}
	}
	return Action{Type: ActionTypeReduce, Production: int(e) - 1}
}

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

// Conflict is a ShiftReduceConflict or a ReduceReduceConflict. Conflicts are never resolved; a
// conflicting cell keeps all of its actions.
type Conflict interface {
	fmt.Stringer
	conflict()
}

type ShiftReduceConflict struct {
	State      int
	Symbol     Symbol
	NextState  int
	Production int
}

func (c *ShiftReduceConflict) conflict() {
}

func (c *ShiftReduceConflict) String() string {
	return fmt.Sprintf("shift/reduce conflict (state %v, %v): shift %v, reduce %v", c.State, c.Symbol, c.NextState, c.Production)
}

// ReduceReduceConflict is a conflict between two reductions. A conflict between accepting and
// reducing is also a reduce/reduce conflict where Production1 is the start production.
type ReduceReduceConflict struct {
	State       int
	Symbol      Symbol
	Production1 int
	Production2 int
}

func (c *ReduceReduceConflict) conflict() {
}

func (c *ReduceReduceConflict) String() string {
	return fmt.Sprintf("reduce/reduce conflict (state %v, %v): reduce %v, reduce %v", c.State, c.Symbol, c.Production1, c.Production2)
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParsingTable is an ACTION/GOTO table of the LR family.
type ParsingTable struct {
	class     Class
	automaton *Automaton
	gram      *Grammar

	actionTable []actionEntry

	// extraActions holds the actions following the first one of conflicting cells.
	extraActions map[int][]actionEntry

	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int
	conflicts        []Conflict

	InitialState int
}

func (t *ParsingTable) Class() Class {
	return t.class
}

func (t *ParsingTable) Automaton() *Automaton {
	return t.automaton
}

// Grammar returns the augmented grammar the table refers to. Production numbers in actions are
// the numbers in this grammar.
func (t *ParsingTable) Grammar() *Grammar {
	return t.gram
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

// Action returns ACTION[state][sym]. The result is empty for an error entry and has more than
// one action for a conflicting cell.
func (t *ParsingTable) Action(state int, sym Symbol) []Action {
	col, ok := t.gram.symbolTable.terminalNum(sym)
	if !ok || state < 0 || state >= t.stateCount {
		return nil
	}
	pos := state*t.terminalCount + col
	act := t.actionTable[pos]
	if act.isEmpty() {
		return nil
	}
	acts := []Action{act.describe()}
	for _, e := range t.extraActions[pos] {
		acts = append(acts, e.describe())
	}
	return acts
}

// GoTo returns GOTO[state][sym].
func (t *ParsingTable) GoTo(state int, sym Symbol) (int, bool) {
	col, ok := t.gram.symbolTable.nonTerminalNum(sym)
	if !ok || state < 0 || state >= t.stateCount {
		return 0, false
	}
	e := t.goToTable[state*t.nonTerminalCount+col]
	if e == goToEntryEmpty {
		return 0, false
	}
	return int(e), true
}

func (t *ParsingTable) Conflicts() []Conflict {
	return append([]Conflict{}, t.conflicts...)
}

func (t *ParsingTable) HasConflicts() bool {
	return len(t.conflicts) > 0
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

// appendAction adds an action to a cell already having one.
func (t *ParsingTable) appendAction(row int, col int, act actionEntry) {
	pos := row*t.terminalCount + col
	t.extraActions[pos] = append(t.extraActions[pos], act)
}

func (t *ParsingTable) cellActions(row int, col int) []actionEntry {
	pos := row*t.terminalCount + col
	if t.actionTable[pos].isEmpty() {
		return nil
	}
	return append([]actionEntry{t.actionTable[pos]}, t.extraActions[pos]...)
}

func (t *ParsingTable) writeGoTo(state int, sym Symbol, nextState int) {
	col, _ := t.gram.symbolTable.nonTerminalNum(sym)
	t.goToTable[state*t.nonTerminalCount+col] = goToEntry(nextState)
}
