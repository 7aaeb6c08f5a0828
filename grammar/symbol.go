package grammar

import "fmt"

// Symbol is a terminal or a non-terminal symbol identified by its name.
type Symbol string

const (
	SymbolEpsilon = Symbol("ε")
	SymbolEOF     = Symbol("$")
	symbolNil     = Symbol("")
)

func (s Symbol) String() string {
	return string(s)
}

func (s Symbol) isNil() bool {
	return s == symbolNil
}

func (s Symbol) isReserved() bool {
	return s == SymbolEpsilon || s == SymbolEOF
}

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

// symbolTable numbers terminals and non-terminals in order of registration. The EOF symbol
// takes the terminal number following the last terminal.
type symbolTable struct {
	terms       []Symbol
	nonTerms    []Symbol
	termNums    map[Symbol]int
	nonTermNums map[Symbol]int
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		termNums:    map[Symbol]int{},
		nonTermNums: map[Symbol]int{},
	}
}

func (t *symbolTable) registerTerminal(sym Symbol) (int, error) {
	if sym.isNil() || sym.isReserved() {
		return 0, fmt.Errorf("a reserved symbol cannot be registered: %q", sym)
	}
	if _, ok := t.nonTermNums[sym]; ok {
		return 0, fmt.Errorf("%v is already registered as a non-terminal", sym)
	}
	if num, ok := t.termNums[sym]; ok {
		return num, nil
	}
	num := len(t.terms)
	t.terms = append(t.terms, sym)
	t.termNums[sym] = num
	return num, nil
}

func (t *symbolTable) registerNonTerminal(sym Symbol) (int, error) {
	if sym.isNil() || sym.isReserved() {
		return 0, fmt.Errorf("a reserved symbol cannot be registered: %q", sym)
	}
	if _, ok := t.termNums[sym]; ok {
		return 0, fmt.Errorf("%v is already registered as a terminal", sym)
	}
	if num, ok := t.nonTermNums[sym]; ok {
		return num, nil
	}
	num := len(t.nonTerms)
	t.nonTerms = append(t.nonTerms, sym)
	t.nonTermNums[sym] = num
	return num, nil
}

func (t *symbolTable) kind(sym Symbol) (symbolKind, bool) {
	if _, ok := t.termNums[sym]; ok {
		return symbolKindTerminal, true
	}
	if _, ok := t.nonTermNums[sym]; ok {
		return symbolKindNonTerminal, true
	}
	return "", false
}

func (t *symbolTable) terminalNum(sym Symbol) (int, bool) {
	if sym == SymbolEOF {
		return len(t.terms), true
	}
	num, ok := t.termNums[sym]
	return num, ok
}

func (t *symbolTable) nonTerminalNum(sym Symbol) (int, bool) {
	num, ok := t.nonTermNums[sym]
	return num, ok
}

// terminalCount returns the number of terminals including EOF.
func (t *symbolTable) terminalCount() int {
	return len(t.terms) + 1
}

func (t *symbolTable) nonTerminalCount() int {
	return len(t.nonTerms)
}
