package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/gramlab/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGrammarFile(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "grammar.txt")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestReadGrammar(t *testing.T) {
	t.Run("a valid grammar", func(t *testing.T) {
		gram, err := readGrammar(writeGrammarFile(t, "S -> a S | b\n"))
		require.NoError(t, err)
		assert.Equal(t, grammar.Symbol("S"), gram.Start())
	})

	t.Run("an error tells the file", func(t *testing.T) {
		path := writeGrammarFile(t, "S -> a X\n")
		_, err := readGrammar(path)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), path+": "), err.Error())
	})

	t.Run("a missing file", func(t *testing.T) {
		_, err := readGrammar(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}

func TestWriteDescription(t *testing.T) {
	gram, err := readGrammar(writeGrammarFile(t, "S -> a\n"))
	require.NoError(t, err)
	tab, err := grammar.GenParsingTable(gram, grammar.ClassSLR1)
	require.NoError(t, err)
	report, err := grammar.GenReport(tab)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, writeDescription(&b, report))
	desc := b.String()

	for _, want := range []string{
		"# SLR(1)\n\nNo conflict\n",
		"# Productions\n\n   0 S' → S\n   1 S → a\n",
		"## State 0\n\n   0 S' → ・ S\n",
		"shift  ",
		"accept      on $\n",
		"reduce    1 on $\n",
	} {
		assert.Contains(t, desc, want)
	}
}

func TestWriteDerivation(t *testing.T) {
	var b strings.Builder
	writeDerivation(&b, [][]string{
		{"S"},
		{"a", "A"},
		{"a"},
		{},
	})
	assert.Equal(t, "  S\n⇒ a A\n⇒ a\n⇒ ε\n", b.String())
}

func TestSummarizeClasses(t *testing.T) {
	gram, err := readGrammar(writeGrammarFile(t, "S -> L = R | R\nL -> * R | id\nR -> L\n"))
	require.NoError(t, err)

	summaries, err := summarizeClasses(context.Background(), gram)
	require.NoError(t, err)
	require.Len(t, summaries, len(grammar.LRClasses))

	byClass := map[grammar.Class]*classSummary{}
	for i, s := range summaries {
		assert.Equal(t, grammar.LRClasses[i], s.class)
		byClass[s.class] = s
	}
	assert.Equal(t, 1, byClass[grammar.ClassSLR1].srConflicts)
	assert.Equal(t, 0, byClass[grammar.ClassLALR1].srConflicts+byClass[grammar.ClassLALR1].rrConflicts)
	assert.Equal(t, 0, byClass[grammar.ClassLR1].srConflicts+byClass[grammar.ClassLR1].rrConflicts)
	assert.Equal(t, byClass[grammar.ClassLR0].states, byClass[grammar.ClassLALR1].states)
	assert.Greater(t, byClass[grammar.ClassLR1].states, byClass[grammar.ClassLALR1].states)
	assert.Greater(t, byClass[grammar.ClassLR1].size.Dense, byClass[grammar.ClassLALR1].size.Dense)

	var b strings.Builder
	writeSummaries(&b, summaries, 0)
	out := b.String()
	assert.Contains(t, out, "COMPRESSED")
	assert.Contains(t, out, grammar.ClassLL1.Title())
}

func TestREPL_Eval(t *testing.T) {
	gram, err := readGrammar(writeGrammarFile(t, "S -> a S | b\n"))
	require.NoError(t, err)

	var b strings.Builder
	r := &repl{
		gram: gram,
		w:    &b,
	}
	require.NoError(t, r.switchClass(grammar.ClassLALR1))

	assert.False(t, r.eval(":tree"))
	assert.True(t, r.tree)
	assert.False(t, r.eval(":class ll1"))
	assert.Equal(t, grammar.ClassLL1, r.class)
	assert.False(t, r.eval(":class xyz"))
	assert.Equal(t, grammar.ClassLL1, r.class)

	assert.False(t, r.eval("a a b"))
	assert.Contains(t, b.String(), "match b")
	assert.Contains(t, b.String(), "S\n├─ a\n└─ S\n")

	assert.True(t, r.eval(":quit"))
}
