package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/gramlab/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "sets <grammar file path>",
		Short:   "Print NULLABLE, FIRST, and FOLLOW of a grammar",
		Example: `  gramlab sets expr.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runSets,
	}
	rootCmd.AddCommand(cmd)
}

func runSets(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	sets, err := grammar.ComputeSets(gram)
	if err != nil {
		return err
	}
	return writeSets(os.Stdout, gram, sets)
}

func writeSets(w io.Writer, gram *grammar.Grammar, sets *grammar.Sets) error {
	fmt.Fprintf(w, "NULLABLE = %v\n\n", joinSymbols(sets.Nullable()))

	first := newTable(w, []string{"NON-TERMINAL", "FIRST", "FOLLOW"})
	for _, nonTerm := range gram.NonTerminals() {
		fst, ok := sets.First(nonTerm)
		if !ok {
			return fmt.Errorf("FIRST(%v) is not found", nonTerm)
		}
		flw, ok := sets.Follow(nonTerm)
		if !ok {
			return fmt.Errorf("FOLLOW(%v) is not found", nonTerm)
		}
		first.Append([]string{nonTerm.String(), formatFirst(fst), formatFollow(flw)})
	}
	first.Render()
	fmt.Fprintln(w)

	prods := newTable(w, []string{"#", "PRODUCTION", "FIRST"})
	for _, prod := range gram.Productions() {
		fst, ok := sets.ProductionFirst(prod.Num)
		if !ok {
			return fmt.Errorf("FIRST of production %v is not found", prod.Num)
		}
		prods.Append([]string{fmt.Sprint(prod.Num), prod.String(), formatFirst(fst)})
	}
	prods.Render()

	return nil
}

func formatFirst(e *grammar.FirstEntry) string {
	if e.Empty {
		return joinSymbols(e.Symbols, grammar.SymbolEpsilon.String())
	}
	return joinSymbols(e.Symbols)
}

func formatFollow(e *grammar.FollowEntry) string {
	if e.EOF {
		return joinSymbols(e.Symbols, grammar.SymbolEOF.String())
	}
	return joinSymbols(e.Symbols)
}
