package driver

import (
	"fmt"
	"strings"

	"github.com/nihei9/gramlab/grammar"
)

type Status string

const (
	StatusRunning  = Status("running")
	StatusAccepted = Status("accepted")
	StatusRejected = Status("rejected")
)

// Step is a configuration of a parser and the action the parser takes in it. An LR parser fills
// Stack with the state stack and Symbols with the symbol stack. An LL(1) parser fills Stack with
// the symbol stack and leaves Symbols empty. The top of a stack is the last element, and Input
// ends with $.
type Step struct {
	Num     int
	Stack   []string
	Symbols []string
	Input   []string
	Action  string
}

// RejectReason tells why a parser rejected its input. Position is the index of Token in the input;
// the position of $ is the number of tokens. State is the LR state the parser was in, or -1 for
// an LL(1) parser.
type RejectReason struct {
	State    int
	Token    string
	Position int
	Message  string
}

func (r *RejectReason) Error() string {
	return fmt.Sprintf("rejected at %v (%v): %v", r.Position, r.Token, r.Message)
}

type Result struct {
	Status Status
	Trace  []*Step
	Tree   *Node
	Reason *RejectReason

	derivation [][]string
}

func (r *Result) Accepted() bool {
	return r.Status == StatusAccepted
}

// Derivation returns the sentential forms from the start symbol to the sentence. An LL(1) parser
// gives the leftmost derivation and an LR parser gives the rightmost one. A rejected result has no
// derivation.
func (r *Result) Derivation() [][]string {
	return r.derivation
}

// Parser runs a parsing table over a sentence. A sentence is a list of terminal names and must not
// contain $.
type Parser interface {
	Parse(tokens []string) *Result
}

// The trace of a parser holds its stacks as copies.
func copyStrings(s []string) []string {
	return append([]string{}, s...)
}

func inputWithEOF(tokens []string) []string {
	input := make([]string, 0, len(tokens)+1)
	input = append(input, tokens...)
	return append(input, grammar.SymbolEOF.String())
}

func describeProduction(prod *grammar.Production) string {
	return fmt.Sprintf("(%v) %v", prod.Num, prod)
}

// isKnownToken reports whether a token can appear in the input of a grammar. $ is known only at
// the end of the input.
func isKnownToken(gram *grammar.Grammar, tok string, last bool) bool {
	if last {
		return tok == grammar.SymbolEOF.String()
	}
	return gram.IsTerminal(grammar.Symbol(tok))
}

func joinActions(acts []grammar.Action) string {
	strs := make([]string, len(acts))
	for i, act := range acts {
		strs[i] = act.String()
	}
	return strings.Join(strs, "/")
}
