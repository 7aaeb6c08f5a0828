package main

import (
	"fmt"
	"os"

	"github.com/nihei9/gramlab/grammar"
	"github.com/nihei9/gramlab/tester"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	class *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar with sentences it must accept or reject",
		Example: `  gramlab test expr.txt test --class slr1`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.class = addClassFlag(cmd.Flags(), grammar.ClassLALR1)
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	class, err := grammar.ParseClass(*testFlags.class)
	if err != nil {
		return err
	}
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	p, err := genParser(gram, class)
	if err != nil {
		return err
	}

	cases := tester.ListTestCases(args[1])
	var unreadable int
	for _, c := range cases {
		if c.Error != nil {
			pterm.Error.Printfln("%v: %v", c.FilePath, c.Error)
			unreadable++
		}
	}
	if unreadable > 0 {
		return fmt.Errorf("%v test case file(s) cannot be read", unreadable)
	}

	t := &tester.Tester{
		Parser: p,
		Cases:  cases,
	}
	rs := t.Run()
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
	}
	summary := tester.Summarize(rs)
	if summary.Failed > 0 {
		return fmt.Errorf("%v test case(s) failed: %v", summary.Failed, summary)
	}
	pterm.Success.Printfln("%v (%v)", summary, class.Title())
	return nil
}
