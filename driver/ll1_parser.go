package driver

import (
	"fmt"
	"log/slog"

	"github.com/nihei9/gramlab/grammar"
)

// LL1Parser is a predictive parser driven by an LL(1) table.
type LL1Parser struct {
	tab       *grammar.LL1Table
	conflicts map[ll1Cell][]int
}

type ll1Cell struct {
	nonTerm grammar.Symbol
	term    grammar.Symbol
}

func NewLL1Parser(tab *grammar.LL1Table) *LL1Parser {
	conflicts := map[ll1Cell][]int{}
	for _, c := range tab.Conflicts() {
		cell := ll1Cell{
			nonTerm: c.NonTerminal,
			term:    c.Terminal,
		}
		if len(conflicts[cell]) == 0 {
			conflicts[cell] = []int{c.Production1}
		}
		conflicts[cell] = append(conflicts[cell], c.Production2)
	}
	return &LL1Parser{
		tab:       tab,
		conflicts: conflicts,
	}
}

var _ Parser = &LL1Parser{}

type ll1Frame struct {
	sym  grammar.Symbol
	node *Node
}

// expansion is a non-terminal expanded at an input position. It stays open while the symbols it
// was replaced with remain on the stack.
type expansion struct {
	sym   grammar.Symbol
	pos   int
	depth int
}

type ll1Run struct {
	parser  *LL1Parser
	gram    *grammar.Grammar
	input   []string
	pos     int
	stack   []*ll1Frame
	open    []*expansion
	applied []*grammar.Production
	result  *Result
}

func (p *LL1Parser) Parse(tokens []string) *Result {
	gram := p.tab.Grammar()
	root := &Node{
		KindName: gram.Start().String(),
	}
	r := &ll1Run{
		parser: p,
		gram:   gram,
		input:  inputWithEOF(tokens),
		stack: []*ll1Frame{
			{sym: grammar.SymbolEOF},
			{sym: gram.Start(), node: root},
		},
		result: &Result{
			Status: StatusRunning,
		},
	}
	r.run()

	if r.result.Accepted() {
		r.result.Tree = root
		r.result.derivation = derive(gram, gram.Start(), r.applied, false)
	}

	slog.Debug("parsed a sentence", "class", grammar.ClassLL1, "status", r.result.Status, "steps", len(r.result.Trace))

	return r.result
}

func (r *ll1Run) run() {
	for r.result.Status == StatusRunning {
		top := r.stack[len(r.stack)-1]
		tok := r.input[r.pos]
		last := r.pos == len(r.input)-1

		if !isKnownToken(r.gram, tok, last) {
			r.reject(fmt.Sprintf("error: unknown token %v", tok))
			return
		}

		switch {
		case top.sym == grammar.SymbolEOF:
			if tok != grammar.SymbolEOF.String() {
				r.reject("error: input not finished")
				return
			}
			r.record("accept")
			r.result.Status = StatusAccepted
		case r.gram.IsTerminal(top.sym):
			if top.sym.String() != tok {
				r.reject(fmt.Sprintf("error: expected %v, got %v", top.sym, tok))
				return
			}
			r.record(fmt.Sprintf("match %v", tok))
			r.pop()
			r.pos++
		default:
			prod, ok := r.parser.tab.Lookup(top.sym, grammar.Symbol(tok))
			if !ok {
				r.reject(fmt.Sprintf("error: M[%v][%v] is empty", top.sym, tok))
				return
			}
			for _, e := range r.open {
				if e.sym == top.sym && e.pos == r.pos {
					r.reject(fmt.Sprintf("error: %v derives itself without consuming input", top.sym))
					return
				}
			}

			var note string
			if prods, ok := r.parser.conflicts[ll1Cell{nonTerm: top.sym, term: grammar.Symbol(tok)}]; ok {
				note = fmt.Sprintf(" (conflict %v; the first production is used)", joinNums(prods))
			}
			r.record(fmt.Sprintf("use production %v%v", describeProduction(prod), note))
			r.expand(top, prod)
		}
	}
}

// expand replaces the top of the stack with the RHS of a production and grows the parse tree.
func (r *ll1Run) expand(top *ll1Frame, prod *grammar.Production) {
	r.pop()
	r.open = append(r.open, &expansion{
		sym:   prod.LHS,
		pos:   r.pos,
		depth: len(r.stack),
	})
	r.applied = append(r.applied, prod)

	if prod.IsEmpty() {
		top.node.Children = []*Node{newEpsilonLeaf()}
		r.closeExpansions()
		return
	}

	children := make([]*Node, len(prod.RHS))
	for i, sym := range prod.RHS {
		if r.gram.IsTerminal(sym) {
			children[i] = newLeaf(sym.String())
		} else {
			children[i] = &Node{
				KindName: sym.String(),
			}
		}
	}
	top.node.Children = children
	for i := len(prod.RHS) - 1; i >= 0; i-- {
		r.stack = append(r.stack, &ll1Frame{
			sym:  prod.RHS[i],
			node: children[i],
		})
	}
}

func (r *ll1Run) pop() {
	r.stack = r.stack[:len(r.stack)-1]
	r.closeExpansions()
}

// closeExpansions drops the expansions whose symbols have all left the stack.
func (r *ll1Run) closeExpansions() {
	open := r.open[:0]
	for _, e := range r.open {
		if len(r.stack) > e.depth {
			open = append(open, e)
		}
	}
	r.open = open
}

func (r *ll1Run) record(action string) {
	stack := make([]string, len(r.stack))
	for i, f := range r.stack {
		stack[i] = f.sym.String()
	}
	r.result.Trace = append(r.result.Trace, &Step{
		Num:    len(r.result.Trace) + 1,
		Stack:  stack,
		Input:  copyStrings(r.input[r.pos:]),
		Action: action,
	})
}

func (r *ll1Run) reject(message string) {
	r.record(message)
	r.result.Status = StatusRejected
	r.result.Reason = &RejectReason{
		State:    -1,
		Token:    r.input[r.pos],
		Position: r.pos,
		Message:  message,
	}
}

func joinNums(nums []int) string {
	s := ""
	for i, n := range nums {
		if i > 0 {
			s += "/"
		}
		s += fmt.Sprintf("(%v)", n)
	}
	return s
}
