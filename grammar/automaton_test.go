package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const srcCC = `
S -> C C
C -> c C | d
`

func itemStrings(items []*Item) []string {
	strs := make([]string, len(items))
	for i, item := range items {
		strs[i] = item.String()
	}
	return strs
}

func TestGenAutomaton_LR0(t *testing.T) {
	gram := genGrammar(t, srcCC)
	automaton, err := GenAutomaton(gram, LookAheadNone)
	require.NoError(t, err)

	assert.True(t, automaton.Grammar().IsAugmented())
	assert.Equal(t, LookAheadNone, automaton.Mode())

	states := automaton.States()
	require.Len(t, states, 7)
	for i, s := range states {
		assert.Equal(t, i, s.Num)
	}

	s0 := automaton.InitialState()
	assert.Equal(t, []string{
		"S' → ・S",
		"S → ・C C",
		"C → ・c C",
		"C → ・d",
	}, itemStrings(s0.Items()))
	assert.Equal(t, []string{"S' → ・S"}, itemStrings(s0.Kernel()))

	// Terminals come first, and then non-terminals.
	var trans []string
	for _, tr := range s0.Transitions() {
		trans = append(trans, tr.Symbol.String())
	}
	assert.Equal(t, []string{"c", "d", "S", "C"}, trans)

	tests := []struct {
		from   int
		sym    Symbol
		kernel []string
	}{
		{from: 0, sym: "c", kernel: []string{"C → c ・C"}},
		{from: 0, sym: "d", kernel: []string{"C → d・"}},
		{from: 0, sym: "S", kernel: []string{"S' → S・"}},
		{from: 0, sym: "C", kernel: []string{"S → C ・C"}},
		{from: 1, sym: "c", kernel: []string{"C → c ・C"}},
		{from: 4, sym: "C", kernel: []string{"S → C C・"}},
	}
	for _, tt := range tests {
		next, ok := automaton.Transition(tt.from, tt.sym)
		require.True(t, ok, "GOTO(%v, %v) was not found", tt.from, tt.sym)
		s, ok := automaton.State(next)
		require.True(t, ok)
		assert.Equal(t, tt.kernel, itemStrings(s.Kernel()), "GOTO(%v, %v)", tt.from, tt.sym)
	}

	_, ok := automaton.Transition(2, "c")
	assert.False(t, ok)
}

func TestGenAutomaton_LR1(t *testing.T) {
	gram := genGrammar(t, srcCC)
	automaton, err := GenAutomaton(gram, LookAheadExact)
	require.NoError(t, err)

	require.Len(t, automaton.States(), 10)
	assert.Equal(t, []string{
		"S' → ・S, $",
		"S → ・C C, $",
		"C → ・c C, c/d",
		"C → ・d, c/d",
	}, itemStrings(automaton.InitialState().Items()))

	// GOTO(0, C) passes $ to the items of C, and those states differ from GOTO(0, c) and GOTO(0, d)
	// only in their look-ahead symbols.
	s4, ok := automaton.State(4)
	require.True(t, ok)
	assert.Equal(t, []string{
		"S → C ・C, $",
		"C → ・c C, $",
		"C → ・d, $",
	}, itemStrings(s4.Items()))
	next, ok := s4.Next("c")
	require.True(t, ok)
	assert.Equal(t, 6, next)
}

func TestGenAutomaton_LALR1(t *testing.T) {
	gram := genGrammar(t, srcCC)
	automaton, err := GenAutomaton(gram, LookAheadMerged)
	require.NoError(t, err)

	require.Len(t, automaton.States(), 7)
	s1, ok := automaton.State(1)
	require.True(t, ok)
	assert.Equal(t, []string{"C → c ・C, $/c/d"}, itemStrings(s1.Kernel()))
	s2, ok := automaton.State(2)
	require.True(t, ok)
	assert.Equal(t, []string{"C → d・, $/c/d"}, itemStrings(s2.Kernel()))

	// GOTO(4, c) of the LR(1) automaton has the core of the state 1.
	next, ok := automaton.Transition(4, "c")
	require.True(t, ok)
	assert.Equal(t, 1, next)
}

func TestGenAutomaton_StateCounts(t *testing.T) {
	for _, src := range []string{srcFirstFollow, srcExpr, srcAssign, srcAmbiguous, srcCC} {
		gram := genGrammar(t, src)

		lr0, err := GenAutomaton(gram, LookAheadNone)
		require.NoError(t, err)
		lalr1, err := GenAutomaton(gram, LookAheadMerged)
		require.NoError(t, err)
		lr1, err := GenAutomaton(gram, LookAheadExact)
		require.NoError(t, err)

		assert.Equal(t, len(lr0.States()), len(lalr1.States()), "grammar:\n%v", gram)
		assert.LessOrEqual(t, len(lalr1.States()), len(lr1.States()), "grammar:\n%v", gram)
	}
}

func TestGenAutomaton_ReusesAugmentedGrammar(t *testing.T) {
	gram := genGrammar(t, `
S' -> S
S -> a S | b
`)
	automaton, err := GenAutomaton(gram, LookAheadNone)
	require.NoError(t, err)

	assert.Same(t, gram, automaton.Grammar())
	assert.Equal(t, []string{"S' → ・S"}, itemStrings(automaton.InitialState().Kernel()))
}

func TestItem_String(t *testing.T) {
	gram := genGrammar(t, srcExpr)
	prod, ok := gram.Production(0)
	require.True(t, ok)

	tests := []struct {
		item *Item
		want string
	}{
		{item: &Item{Production: prod, Dot: 0}, want: "E → ・E + T"},
		{item: &Item{Production: prod, Dot: 1}, want: "E → E ・+ T"},
		{item: &Item{Production: prod, Dot: 3}, want: "E → E + T・"},
		{item: &Item{Production: prod, Dot: 3, LookAhead: symbols("$", "+")}, want: "E → E + T・, $/+"},
		{item: &Item{Production: &Production{LHS: "A", RHS: []Symbol{}}, Dot: 0}, want: "A → ・ε"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.item.String())
	}
}
