package grammar

import (
	"strings"
	"testing"

	"github.com/nihei9/gramlab/spec"
)

const (
	// srcFirstFollow is an LL(1) grammar having a nullable non-terminal.
	srcFirstFollow = `
S -> aAB | bBC
A -> aA | ε
B -> bB | c
C -> cC | d
`

	srcExpr = `
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`

	// srcAssign is SLR(1)-conflicting but LALR(1).
	srcAssign = `
S -> L = R | R
L -> * R | id
R -> L
`

	srcAmbiguous = `
E -> E + E | id
`
)

func genGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse a grammar: %v", err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

func genSets(t *testing.T, gram *Grammar) *Sets {
	t.Helper()

	sets, err := ComputeSets(gram)
	if err != nil {
		t.Fatalf("failed to compute sets: %v", err)
	}
	return sets
}

func genTable(t *testing.T, gram *Grammar, class Class) *ParsingTable {
	t.Helper()

	tab, err := GenParsingTable(gram, class)
	if err != nil {
		t.Fatalf("failed to build a %v table: %v", class.Title(), err)
	}
	return tab
}

func symbols(names ...string) []Symbol {
	syms := []Symbol{}
	for _, name := range names {
		syms = append(syms, Symbol(name))
	}
	return syms
}
