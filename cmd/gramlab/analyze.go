package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/gramlab/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "analyze <grammar file path>",
		Short:   "Print the SELECT sets of productions and why a grammar is not LL(1)",
		Example: `  gramlab analyze expr.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runAnalyze,
	}
	rootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	sets, err := grammar.ComputeSets(gram)
	if err != nil {
		return err
	}
	analysis, err := grammar.AnalyzeLL1(gram, sets)
	if err != nil {
		return err
	}
	return writeAnalysis(os.Stdout, gram, analysis)
}

func writeAnalysis(w io.Writer, gram *grammar.Grammar, analysis *grammar.LL1Analysis) error {
	table := newTable(w, []string{"#", "PRODUCTION", "SELECT"})
	for _, sel := range analysis.Selects {
		prod, ok := gram.Production(sel.Production)
		if !ok {
			return fmt.Errorf("production %v is not found", sel.Production)
		}
		table.Append([]string{fmt.Sprint(prod.Num), prod.String(), joinSymbols(sel.Symbols)})
	}
	table.Render()

	if analysis.IsLL1() {
		pterm.Success.Printfln("The grammar is %v.", grammar.ClassLL1.Title())
		return nil
	}
	pterm.Warning.Printfln("The grammar is not %v.", grammar.ClassLL1.Title())
	overlaps := newTable(w, []string{"KIND", "NON-TERMINAL", "PRODUCTIONS", "SYMBOLS"})
	for _, o := range analysis.Overlaps {
		overlaps.Append([]string{
			string(o.Kind),
			o.NonTerminal.String(),
			fmt.Sprintf("(%v), (%v)", o.Productions[0], o.Productions[1]),
			joinSymbols(o.Symbols),
		})
	}
	overlaps.Render()
	return nil
}
