package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLL1Table(t *testing.T) {
	gram := genGrammar(t, srcFirstFollow)
	tab, err := GenLL1Table(gram, genSets(t, gram))
	require.NoError(t, err)
	assert.False(t, tab.HasConflicts())

	tests := []struct {
		nonTerm Symbol
		term    Symbol
		prod    string
	}{
		{nonTerm: "S", term: "a", prod: "S → a A B"},
		{nonTerm: "S", term: "b", prod: "S → b B C"},
		{nonTerm: "S", term: "c"},
		{nonTerm: "S", term: SymbolEOF},
		{nonTerm: "A", term: "a", prod: "A → a A"},
		{nonTerm: "A", term: "b", prod: "A → ε"},
		{nonTerm: "A", term: "c", prod: "A → ε"},
		{nonTerm: "A", term: SymbolEOF},
		{nonTerm: "B", term: "c", prod: "B → c"},
		{nonTerm: "C", term: "d", prod: "C → d"},
		{nonTerm: "a", term: "a"},
		{nonTerm: "S", term: "S"},
	}
	for _, tt := range tests {
		prod, ok := tab.Lookup(tt.nonTerm, tt.term)
		if tt.prod == "" {
			assert.False(t, ok, "M[%v][%v]", tt.nonTerm, tt.term)
			continue
		}
		require.True(t, ok, "M[%v][%v]", tt.nonTerm, tt.term)
		assert.Equal(t, tt.prod, prod.String(), "M[%v][%v]", tt.nonTerm, tt.term)
	}
}

func TestGenLL1Table_Conflicts(t *testing.T) {
	gram := genGrammar(t, srcExpr)
	tab, err := GenLL1Table(gram, genSets(t, gram))
	require.NoError(t, err)

	require.True(t, tab.HasConflicts())
	assert.Equal(t, &LL1Conflict{NonTerminal: "E", Terminal: "(", Production1: 0, Production2: 1}, tab.Conflicts()[0])

	// The cell keeps the production written first.
	prod, ok := tab.Lookup("E", "id")
	require.True(t, ok)
	assert.Equal(t, 0, prod.Num)
}

func TestGenLL1Table_SetsOfAnotherGrammar(t *testing.T) {
	gram := genGrammar(t, srcFirstFollow)
	_, err := GenLL1Table(gram, genSets(t, genGrammar(t, srcFirstFollow)))
	assert.Error(t, err)
}

func TestAnalyzeLL1(t *testing.T) {
	t.Run("an LL(1) grammar", func(t *testing.T) {
		gram := genGrammar(t, srcFirstFollow)
		analysis, err := AnalyzeLL1(gram, genSets(t, gram))
		require.NoError(t, err)

		assert.True(t, analysis.IsLL1())
		require.Len(t, analysis.Selects, 8)
		assert.Equal(t, &SelectSet{Production: 3, Symbols: symbols("b", "c")}, analysis.Selects[3])
		assert.Equal(t, &SelectSet{Production: 0, Symbols: symbols("a")}, analysis.Selects[0])
	})

	t.Run("a FIRST/FIRST overlap", func(t *testing.T) {
		gram := genGrammar(t, srcExpr)
		analysis, err := AnalyzeLL1(gram, genSets(t, gram))
		require.NoError(t, err)

		assert.False(t, analysis.IsLL1())
		assert.Contains(t, analysis.Overlaps, &LL1Overlap{
			Kind:        OverlapKindFirstFirst,
			NonTerminal: "E",
			Productions: [2]int{0, 1},
			Symbols:     symbols("(", "id"),
		})
	})

	t.Run("a FIRST/FOLLOW overlap", func(t *testing.T) {
		gram := genGrammar(t, `
S -> A a
A -> a | ε
`)
		analysis, err := AnalyzeLL1(gram, genSets(t, gram))
		require.NoError(t, err)

		assert.Equal(t, []*LL1Overlap{
			{
				Kind:        OverlapKindFirstFollow,
				NonTerminal: "A",
				Productions: [2]int{1, 2},
				Symbols:     symbols("a"),
			},
		}, analysis.Overlaps)
	})
}
