package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/nihei9/gramlab/envconfig"
	"github.com/nihei9/gramlab/logutil"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
)

var rootFlags = struct {
	debug *bool
}{}

var rootCmd = &cobra.Command{
	Use:   "gramlab",
	Short: "Analyze a context-free grammar and build its parsing tables",
	Long: `gramlab provides the following features:
- Computes NULLABLE, FIRST, and FOLLOW of a grammar.
- Builds LL(1), LR(0), SLR(1), LALR(1), and LR(1) parsing tables and reports their conflicts.
- Parses a sentence with a table and prints each step of the parser.
- Exports LR automata and compares them.

A grammar is written one production per line, like 'E -> E + T | T'.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.debug = rootCmd.PersistentFlags().Bool("debug", false, "print debug logs")
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + envHelp())
}

func envHelp() string {
	vars := envconfig.AsMap()
	names := maps.Keys(vars)
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "\nEnvironment Variables:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "      %-20s %v\n", name, vars[name].Description)
	}
	return b.String()
}

func setUp(cmd *cobra.Command, args []string) error {
	level := envconfig.LogLevel()
	if *rootFlags.debug && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	slog.SetDefault(logutil.NewLogger(os.Stderr, level))
	slog.Debug("configuration", "env", envconfig.Values())

	if envconfig.NoColor {
		pterm.DisableColor()
	}
	return nil
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
