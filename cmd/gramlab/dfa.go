package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nihei9/gramlab/envconfig"
	"github.com/nihei9/gramlab/grammar"
	spec "github.com/nihei9/gramlab/spec/grammar"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dfaExportFlags = struct {
	class *string
	all   *bool
	out   *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "dfa",
		Short: "Export LR automata and compare them",
	}

	exportCmd := &cobra.Command{
		Use:   "export <grammar file path>",
		Short: "Write the automaton of an LR class to <output directory>/dfa_<class>.json",
		Example: `  gramlab dfa export expr.txt --class lalr1
  gramlab dfa export expr.txt --all --out dfa`,
		Args: cobra.ExactArgs(1),
		RunE: runDFAExport,
	}
	dfaExportFlags.class = addClassFlag(exportCmd.Flags(), grammar.ClassLALR1)
	dfaExportFlags.all = exportCmd.Flags().Bool("all", false, "export the automata of all LR classes")
	dfaExportFlags.out = exportCmd.Flags().StringP("out", "o", "", "output directory (default $GRAMLAB_DFA_DIR or output/dfa_data)")
	cmd.AddCommand(exportCmd)

	compareCmd := &cobra.Command{
		Use:     "compare <DFA file path> <DFA file path>...",
		Short:   "Check whether automata are isomorphic to the first one",
		Example: `  gramlab dfa compare dfa_lalr1.json other_lalr1.json`,
		Args:    cobra.MinimumNArgs(2),
		RunE:    runDFACompare,
	}
	cmd.AddCommand(compareCmd)

	rootCmd.AddCommand(cmd)
}

func runDFAExport(cmd *cobra.Command, args []string) error {
	classes := grammar.LRClasses
	if !*dfaExportFlags.all {
		class, err := grammar.ParseClass(*dfaExportFlags.class)
		if err != nil {
			return err
		}
		if class == grammar.ClassLL1 {
			return fmt.Errorf("an LL(1) parser has no automaton")
		}
		classes = []grammar.Class{class}
	}

	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	dir := *dfaExportFlags.out
	if dir == "" {
		dir = envconfig.DFADir
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	for _, class := range classes {
		tab, err := grammar.GenParsingTable(gram, class)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("dfa_%v.json", class))
		err = writeDFAFile(path, grammar.GenDFA(tab.Automaton(), class))
		if err != nil {
			return fmt.Errorf("Cannot write a DFA: %w", err)
		}
		pterm.Success.Printfln("%v: %v states", path, tab.StateCount())
	}
	return nil
}

func writeDFAFile(path string, d *spec.DFA) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return spec.WriteDFA(f, d)
}

func readDFAFile(path string) (*spec.DFA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the DFA %s: %w", path, err)
	}
	defer f.Close()
	d, err := spec.ReadDFA(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func runDFACompare(cmd *cobra.Command, args []string) error {
	base, err := readDFAFile(args[0])
	if err != nil {
		return err
	}
	for _, path := range args[1:] {
		d, err := readDFAFile(path)
		if err != nil {
			return err
		}
		err = writeComparison(os.Stdout, args[0], base, path, d)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeComparison(w io.Writer, path1 string, d1 *spec.DFA, path2 string, d2 *spec.DFA) error {
	c := spec.Compare(d1, d2)
	fmt.Fprintf(w, "%v (%v states) vs %v (%v states)\n", path1, c.StateCounts[0], path2, c.StateCounts[1])
	if c.Isomorphic {
		fp, err := spec.Fingerprint(d1, true)
		if err != nil {
			return err
		}
		pterm.Success.Printfln("isomorphic (fingerprint %v)", fp)
		return nil
	}
	pterm.Warning.Println("not isomorphic")
	for _, diff := range c.Differences {
		fmt.Fprintf(w, "%v\n", diff)
	}
	return nil
}
