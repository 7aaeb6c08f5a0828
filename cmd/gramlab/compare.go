package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/gramlab/grammar"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	cmd := &cobra.Command{
		Use:     "compare <grammar file path>",
		Short:   "Build the tables of all classes and compare their sizes and conflicts",
		Example: `  gramlab compare expr.txt`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompare,
	}
	rootCmd.AddCommand(cmd)
}

type classSummary struct {
	class       grammar.Class
	states      int
	srConflicts int
	rrConflicts int
	size        *grammar.TableSize
}

func runCompare(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	summaries, err := summarizeClasses(cmd.Context(), gram)
	if err != nil {
		return err
	}
	llConflicts, err := countLL1Conflicts(gram)
	if err != nil {
		return err
	}
	writeSummaries(os.Stdout, summaries, llConflicts)
	return nil
}

// summarizeClasses builds the LR tables of a grammar concurrently. A grammar is read-only once
// built, so the builders can share it.
func summarizeClasses(ctx context.Context, gram *grammar.Grammar) ([]*classSummary, error) {
	summaries := make([]*classSummary, len(grammar.LRClasses))
	g, ctx := errgroup.WithContext(ctx)
	for i, class := range grammar.LRClasses {
		i, class := i, class
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tab, err := grammar.GenParsingTable(gram, class)
			if err != nil {
				return fmt.Errorf("%v: %w", class.Title(), err)
			}
			size, err := tab.Size()
			if err != nil {
				return fmt.Errorf("%v: %w", class.Title(), err)
			}
			s := &classSummary{
				class:  class,
				states: tab.StateCount(),
				size:   size,
			}
			for _, c := range tab.Conflicts() {
				switch c.(type) {
				case *grammar.ShiftReduceConflict:
					s.srConflicts++
				case *grammar.ReduceReduceConflict:
					s.rrConflicts++
				}
			}
			summaries[i] = s
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func countLL1Conflicts(gram *grammar.Grammar) (int, error) {
	sets, err := grammar.ComputeSets(gram)
	if err != nil {
		return 0, err
	}
	tab, err := grammar.GenLL1Table(gram, sets)
	if err != nil {
		return 0, err
	}
	return len(tab.Conflicts()), nil
}

func writeSummaries(w io.Writer, summaries []*classSummary, llConflicts int) {
	table := newTable(w, []string{"CLASS", "STATES", "SHIFT/REDUCE", "REDUCE/REDUCE", "DENSE", "COMPRESSED", "VERDICT"})
	table.Append([]string{grammar.ClassLL1.Title(), "-", "-", "-", "-", "-", verdict(llConflicts)})
	for _, s := range summaries {
		table.Append([]string{
			s.class.Title(),
			fmt.Sprint(s.states),
			fmt.Sprint(s.srConflicts),
			fmt.Sprint(s.rrConflicts),
			fmt.Sprint(s.size.Dense),
			fmt.Sprint(s.size.Compressed),
			verdict(s.srConflicts + s.rrConflicts),
		})
	}
	table.Render()
}

func verdict(conflicts int) string {
	if conflicts == 0 {
		return "OK"
	}
	return countConflicts(conflicts)
}
