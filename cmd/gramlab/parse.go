package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/gramlab/driver"
	"github.com/nihei9/gramlab/grammar"
	"github.com/nihei9/gramlab/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	class      *string
	sentence   *string
	tree       *bool
	derivation *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a sentence and print each step of the parser",
		Example: `  echo 'id + id * id' | gramlab parse expr.txt --class slr1
  gramlab parse expr.txt --class ll1 --sentence sentence.txt --tree`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.class = addClassFlag(cmd.Flags(), grammar.ClassLALR1)
	parseFlags.sentence = cmd.Flags().StringP("sentence", "s", "", "sentence file path (default stdin)")
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print the parse tree of an accepted sentence")
	parseFlags.derivation = cmd.Flags().Bool("derivation", false, "print the derivation of an accepted sentence")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	class, err := grammar.ParseClass(*parseFlags.class)
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

	var toks []string
	{
		src := os.Stdin
		if *parseFlags.sentence != "" {
			f, err := os.Open(*parseFlags.sentence)
			if err != nil {
				return fmt.Errorf("Cannot open the sentence file %s: %w", *parseFlags.sentence, err)
			}
			defer f.Close()
			src = f
		}
		toks, err = spec.ParseSentence(src)
		if err != nil {
			return err
		}
	}

	result := p.Parse(toks)
	writeResult(os.Stdout, result, class, *parseFlags.tree, *parseFlags.derivation)
	return nil
}

func writeResult(w io.Writer, result *driver.Result, class grammar.Class, tree, derivation bool) {
	writeTrace(w, result, class != grammar.ClassLL1)

	if !result.Accepted() {
		pterm.Error.Println(result.Reason.Error())
		return
	}
	pterm.Success.Printfln("accepted by the %v parser", class.Title())
	if tree {
		fmt.Fprintln(w)
		driver.PrintTree(w, result.Tree)
	}
	if derivation {
		fmt.Fprintln(w)
		writeDerivation(w, result.Derivation())
	}
}
