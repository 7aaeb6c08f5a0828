package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSets(t *testing.T) {
	type firstWant struct {
		sym   string
		syms  []Symbol
		empty bool
	}
	type followWant struct {
		sym  string
		syms []Symbol
		eof  bool
	}

	tests := []struct {
		caption  string
		src      string
		nullable []Symbol
		first    []firstWant
		follow   []followWant
	}{
		{
			caption:  "a grammar having a nullable non-terminal",
			src:      srcFirstFollow,
			nullable: symbols("A"),
			first: []firstWant{
				{sym: "S", syms: symbols("a", "b")},
				{sym: "A", syms: symbols("a"), empty: true},
				{sym: "B", syms: symbols("b", "c")},
				{sym: "C", syms: symbols("c", "d")},
				{sym: "c", syms: symbols("c")},
			},
			follow: []followWant{
				{sym: "S", syms: symbols(), eof: true},
				{sym: "A", syms: symbols("b", "c")},
				{sym: "B", syms: symbols("c", "d"), eof: true},
				{sym: "C", syms: symbols(), eof: true},
			},
		},
		{
			caption:  "a left-recursive grammar",
			src:      srcExpr,
			nullable: symbols(),
			first: []firstWant{
				{sym: "E", syms: symbols("(", "id")},
				{sym: "T", syms: symbols("(", "id")},
				{sym: "F", syms: symbols("(", "id")},
			},
			follow: []followWant{
				{sym: "E", syms: symbols("+", ")"), eof: true},
				{sym: "T", syms: symbols("+", "*", ")"), eof: true},
				{sym: "F", syms: symbols("+", "*", ")"), eof: true},
			},
		},
		{
			caption:  "non-terminals deriving ε through each other",
			src:      "S -> A B c\nA -> B | ε\nB -> A | b\n",
			nullable: symbols("A", "B"),
			first: []firstWant{
				{sym: "S", syms: symbols("c", "b")},
				{sym: "A", syms: symbols("b"), empty: true},
				{sym: "B", syms: symbols("b"), empty: true},
			},
			follow: []followWant{
				{sym: "A", syms: symbols("c", "b")},
				{sym: "B", syms: symbols("c", "b")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := genGrammar(t, tt.src)
			sets := genSets(t, gram)

			assert.Equal(t, tt.nullable, sets.Nullable())
			for _, sym := range tt.nullable {
				assert.True(t, sets.IsNullable(sym))
			}

			for _, want := range tt.first {
				got, ok := sets.First(Symbol(want.sym))
				require.True(t, ok, "FIRST was not found: %v", want.sym)
				assert.Equal(t, want.syms, got.Symbols, "FIRST(%v)", want.sym)
				assert.Equal(t, want.empty, got.Empty, "FIRST(%v) ε", want.sym)
			}

			for _, want := range tt.follow {
				got, ok := sets.Follow(Symbol(want.sym))
				require.True(t, ok, "FOLLOW was not found: %v", want.sym)
				assert.Equal(t, want.syms, got.Symbols, "FOLLOW(%v)", want.sym)
				assert.Equal(t, want.eof, got.EOF, "FOLLOW(%v) $", want.sym)
			}

			changed, err := sets.Recompute()
			require.NoError(t, err)
			assert.False(t, changed)
		})
	}
}

func TestSets_FirstOfString(t *testing.T) {
	sets := genSets(t, genGrammar(t, srcFirstFollow))

	tests := []struct {
		caption string
		syms    []Symbol
		want    *FirstEntry
	}{
		{
			caption: "the empty string",
			syms:    symbols(),
			want:    &FirstEntry{Symbols: symbols(), Empty: true},
		},
		{
			caption: "a nullable prefix",
			syms:    symbols("A", "B"),
			want:    &FirstEntry{Symbols: symbols("a", "b", "c")},
		},
		{
			caption: "nullable symbols only",
			syms:    symbols("A", "A"),
			want:    &FirstEntry{Symbols: symbols("a"), Empty: true},
		},
		{
			caption: "a terminal stops the string",
			syms:    symbols("d", "A"),
			want:    &FirstEntry{Symbols: symbols("d")},
		},
		{
			caption: "EOF begins itself",
			syms:    symbols("A", "$"),
			want:    &FirstEntry{Symbols: symbols("a", "$")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			got, err := sets.FirstOfString(tt.syms)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSets_ProductionFirst(t *testing.T) {
	sets := genSets(t, genGrammar(t, srcFirstFollow))

	got, ok := sets.ProductionFirst(3)
	require.True(t, ok)
	assert.Equal(t, &FirstEntry{Symbols: symbols(), Empty: true}, got)

	got, ok = sets.ProductionFirst(0)
	require.True(t, ok)
	assert.Equal(t, &FirstEntry{Symbols: symbols("a")}, got)

	_, ok = sets.ProductionFirst(100)
	assert.False(t, ok)
}
