package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/nihei9/gramlab/driver"
	"github.com/nihei9/gramlab/envconfig"
	"github.com/nihei9/gramlab/grammar"
	"github.com/nihei9/gramlab/spec"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var replFlags = struct {
	class *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "repl <grammar file path>",
		Short: "Parse sentences entered interactively",
		Long: `repl reads a sentence per line and parses it. The following commands are available:
  :class <class>  switch the class of the parsing table
  :tree           toggle printing parse trees
  :derivation     toggle printing derivations
  :quit           quit (or <ctrl>D)`,
		Example: `  gramlab repl expr.txt --class ll1`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	replFlags.class = addClassFlag(cmd.Flags(), grammar.ClassLALR1)
	rootCmd.AddCommand(cmd)
}

type repl struct {
	gram       *grammar.Grammar
	class      grammar.Class
	parser     driver.Parser
	tree       bool
	derivation bool
	w          io.Writer
}

func runREPL(cmd *cobra.Command, args []string) error {
	class, err := grammar.ParseClass(*replFlags.class)
	if err != nil {
		return err
	}
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	r := &repl{
		gram: gram,
		w:    os.Stdout,
	}
	err = r.switchClass(class)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gramlab> ",
		HistoryFile:     envconfig.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Printfln("Parsing sentences with the %v table of %v. Quit with <ctrl>D.", r.class.Title(), args[0])
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		quit := r.eval(line)
		if quit {
			break
		}
	}
	return nil
}

func (r *repl) switchClass(class grammar.Class) error {
	p, err := genParser(r.gram, class)
	if err != nil {
		return err
	}
	r.class = class
	r.parser = p
	return nil
}

// eval runs a line and reports whether the REPL should quit.
func (r *repl) eval(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		result := r.parser.Parse(spec.SplitSentence(line))
		writeResult(r.w, result, r.class, r.tree, r.derivation)
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q":
		return true
	case ":tree":
		r.tree = !r.tree
		pterm.Info.Printfln("parse trees: %v", onOff(r.tree))
	case ":derivation":
		r.derivation = !r.derivation
		pterm.Info.Printfln("derivations: %v", onOff(r.derivation))
	case ":class":
		if len(fields) != 2 {
			pterm.Error.Println("usage: :class <class>")
			return false
		}
		class, err := grammar.ParseClass(fields[1])
		if err != nil {
			pterm.Error.Println(err)
			return false
		}
		err = r.switchClass(class)
		if err != nil {
			pterm.Error.Println(err)
			return false
		}
		pterm.Info.Printfln("switched to %v", class.Title())
	default:
		pterm.Error.Printfln("unknown command: %v", fields[0])
	}
	return false
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
