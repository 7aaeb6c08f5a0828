package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/gramlab/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tableFlags = struct {
	class    *string
	json     *bool
	describe *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "table <grammar file path>",
		Short: "Print a parsing table and its conflicts",
		Example: `  gramlab table expr.txt --class slr1
  gramlab table expr.txt --class lalr1 --describe`,
		Args: cobra.ExactArgs(1),
		RunE: runTable,
	}
	tableFlags.class = addClassFlag(cmd.Flags(), grammar.ClassLALR1)
	tableFlags.json = cmd.Flags().Bool("json", false, "print a report of an LR table in JSON")
	tableFlags.describe = cmd.Flags().Bool("describe", false, "print the states and the conflicts of an LR table in a readable format")
	rootCmd.AddCommand(cmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	class, err := grammar.ParseClass(*tableFlags.class)
	if err != nil {
		return err
	}
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	if class == grammar.ClassLL1 {
		if *tableFlags.json || *tableFlags.describe {
			return fmt.Errorf("--json and --describe are available only for LR tables")
		}
		sets, err := grammar.ComputeSets(gram)
		if err != nil {
			return err
		}
		tab, err := grammar.GenLL1Table(gram, sets)
		if err != nil {
			return err
		}
		writeLL1Table(os.Stdout, tab)
		return nil
	}

	tab, err := grammar.GenParsingTable(gram, class)
	if err != nil {
		return err
	}
	switch {
	case *tableFlags.json:
		report, err := grammar.GenReport(tab)
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
	case *tableFlags.describe:
		report, err := grammar.GenReport(tab)
		if err != nil {
			return err
		}
		return writeDescription(os.Stdout, report)
	default:
		writeLRTable(os.Stdout, tab)
	}
	return nil
}

func writeLL1Table(w io.Writer, tab *grammar.LL1Table) {
	gram := tab.Grammar()
	cols := append(append([]grammar.Symbol{}, gram.Terminals()...), grammar.SymbolEOF)

	header := []string{""}
	for _, sym := range cols {
		header = append(header, sym.String())
	}
	table := newTable(w, header)
	for _, nonTerm := range gram.NonTerminals() {
		row := []string{nonTerm.String()}
		for _, term := range cols {
			prod, ok := tab.Lookup(nonTerm, term)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, describeProduction(prod))
		}
		table.Append(row)
	}
	table.Render()

	conflicts := tab.Conflicts()
	if len(conflicts) == 0 {
		pterm.Success.Printfln("The grammar is %v.", grammar.ClassLL1.Title())
		return
	}
	pterm.Warning.Printfln("The grammar is not %v: %v", grammar.ClassLL1.Title(), countConflicts(len(conflicts)))
	for _, c := range conflicts {
		fmt.Fprintf(w, "%v\n", c)
	}
}

func writeLRTable(w io.Writer, tab *grammar.ParsingTable) {
	gram := tab.Grammar()
	terms := append(append([]grammar.Symbol{}, gram.Terminals()...), grammar.SymbolEOF)
	var nonTerms []grammar.Symbol
	for _, sym := range gram.NonTerminals() {
		// The start symbol of an augmented grammar never appears on a RHS.
		if sym == gram.Start() {
			continue
		}
		nonTerms = append(nonTerms, sym)
	}

	header := []string{"STATE"}
	for _, sym := range terms {
		header = append(header, sym.String())
	}
	for _, sym := range nonTerms {
		header = append(header, sym.String())
	}
	table := newTable(w, header)
	for state := 0; state < tab.StateCount(); state++ {
		row := []string{fmt.Sprint(state)}
		for _, term := range terms {
			acts := tab.Action(state, term)
			strs := make([]string, len(acts))
			for i, act := range acts {
				strs[i] = act.String()
			}
			row = append(row, strings.Join(strs, "/"))
		}
		for _, nonTerm := range nonTerms {
			next, ok := tab.GoTo(state, nonTerm)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(next))
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(w, "\n")
	for _, prod := range gram.Productions() {
		fmt.Fprintf(w, "%v\n", describeProduction(prod))
	}
	fmt.Fprintf(w, "\n")

	conflicts := tab.Conflicts()
	if len(conflicts) == 0 {
		pterm.Success.Printfln("The grammar is %v.", tab.Class().Title())
		return
	}
	pterm.Warning.Printfln("The grammar is not %v: %v", tab.Class().Title(), countConflicts(len(conflicts)))
	for _, c := range conflicts {
		fmt.Fprintf(w, "%v\n", c)
	}
}

func describeProduction(prod *grammar.Production) string {
	return fmt.Sprintf("(%v) %v", prod.Num, prod)
}

func countConflicts(n int) string {
	if n == 1 {
		return "1 conflict"
	}
	return fmt.Sprintf("%v conflicts", n)
}
