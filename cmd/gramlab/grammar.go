package main

import (
	"errors"
	"fmt"
	"os"

	verr "github.com/nihei9/gramlab/error"
	"github.com/nihei9/gramlab/driver"
	"github.com/nihei9/gramlab/grammar"
	"github.com/nihei9/gramlab/spec"
	"github.com/spf13/pflag"
)

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	gram, err := func() (*grammar.Grammar, error) {
		ast, err := spec.Parse(f)
		if err != nil {
			return nil, err
		}
		b := grammar.GrammarBuilder{
			AST: ast,
		}
		return b.Build()
	}()
	if err != nil {
		return nil, withSourceName(err, path)
	}
	return gram, nil
}

// withSourceName makes errors in a grammar file print the file name and the erroneous line.
func withSourceName(err error, path string) error {
	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		for _, e := range specErrs {
			e.FilePath = path
			e.SourceName = path
		}
		return err
	}
	var specErr *verr.SpecError
	if errors.As(err, &specErr) {
		specErr.FilePath = path
		specErr.SourceName = path
	}
	return err
}

func addClassFlag(flags *pflag.FlagSet, def grammar.Class) *string {
	return flags.StringP("class", "c", def.String(), "class of a parsing table: ll1, lr0, slr1, lalr1, or lr1")
}

// genParser builds the table of a class and a parser driven by it.
func genParser(gram *grammar.Grammar, class grammar.Class) (driver.Parser, error) {
	if class == grammar.ClassLL1 {
		sets, err := grammar.ComputeSets(gram)
		if err != nil {
			return nil, err
		}
		tab, err := grammar.GenLL1Table(gram, sets)
		if err != nil {
			return nil, err
		}
		return driver.NewLL1Parser(tab), nil
	}
	tab, err := grammar.GenParsingTable(gram, class)
	if err != nil {
		return nil, err
	}
	return driver.NewLRParser(tab), nil
}
