package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/nihei9/gramlab/driver"
	"github.com/nihei9/gramlab/grammar"
	"github.com/olekukonko/tablewriter"
)

// newTable returns a table keeping its header as it is because symbol names are case-sensitive.
func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func joinSymbols(syms []grammar.Symbol, extra ...string) string {
	strs := make([]string, 0, len(syms)+len(extra))
	for _, sym := range syms {
		strs = append(strs, sym.String())
	}
	strs = append(strs, extra...)
	return "{" + strings.Join(strs, ", ") + "}"
}

func writeTrace(w io.Writer, result *driver.Result, lr bool) {
	header := []string{"STEP", "STACK", "INPUT", "ACTION"}
	if lr {
		header = []string{"STEP", "STACK", "SYMBOLS", "INPUT", "ACTION"}
	}
	table := newTable(w, header)
	for _, step := range result.Trace {
		row := []string{fmt.Sprint(step.Num), strings.Join(step.Stack, " ")}
		if lr {
			row = append(row, strings.Join(step.Symbols, " "))
		}
		row = append(row, strings.Join(step.Input, " "), step.Action)
		table.Append(row)
	}
	table.Render()
}

func writeDerivation(w io.Writer, derivation [][]string) {
	for i, form := range derivation {
		arrow := "  "
		if i > 0 {
			arrow = "⇒ "
		}
		if len(form) == 0 {
			fmt.Fprintf(w, "%v%v\n", arrow, grammar.SymbolEpsilon)
			continue
		}
		fmt.Fprintf(w, "%v%v\n", arrow, strings.Join(form, " "))
	}
}
