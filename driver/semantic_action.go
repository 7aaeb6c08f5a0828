package driver

import (
	"fmt"
	"io"

	"github.com/nihei9/gramlab/grammar"
)

// Node is a node of a parse tree. A leaf is a terminal or ε and has no children.
type Node struct {
	KindName string
	Text     string
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" && node.Text != node.KindName {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

func newLeaf(tok string) *Node {
	return &Node{
		KindName: tok,
		Text:     tok,
	}
}

func newEpsilonLeaf() *Node {
	return &Node{
		KindName: grammar.SymbolEpsilon.String(),
	}
}

// semanticActionSet receives the actions of an LR parser.
type semanticActionSet interface {
	shift(tok string)
	reduce(prod *grammar.Production)
	accept()
}

var (
	_ semanticActionSet = &syntaxTreeActionSet{}
	_ semanticActionSet = &derivationActionSet{}
)

// syntaxTreeActionSet builds a parse tree bottom-up.
type syntaxTreeActionSet struct {
	semStack []*Node
	tree     *Node
}

func (a *syntaxTreeActionSet) shift(tok string) {
	a.semStack = append(a.semStack, newLeaf(tok))
}

func (a *syntaxTreeActionSet) reduce(prod *grammar.Production) {
	// When an alternative is empty, `n` will be 0, and the node gets an ε leaf.
	n := len(prod.RHS)
	handle := a.semStack[len(a.semStack)-n:]

	children := make([]*Node, len(handle))
	copy(children, handle)
	if n == 0 {
		children = []*Node{newEpsilonLeaf()}
	}

	a.semStack = a.semStack[:len(a.semStack)-n]
	a.semStack = append(a.semStack, &Node{
		KindName: prod.LHS.String(),
		Children: children,
	})
}

func (a *syntaxTreeActionSet) accept() {
	if len(a.semStack) > 0 {
		a.tree = a.semStack[len(a.semStack)-1]
	}
}

// derivationActionSet records reductions and turns them into a rightmost derivation.
type derivationActionSet struct {
	start      grammar.Symbol
	gram       *grammar.Grammar
	reductions []*grammar.Production
	derivation [][]string
}

func (a *derivationActionSet) shift(tok string) {
}

func (a *derivationActionSet) reduce(prod *grammar.Production) {
	a.reductions = append(a.reductions, prod)
}

func (a *derivationActionSet) accept() {
	prods := make([]*grammar.Production, len(a.reductions))
	for i, prod := range a.reductions {
		prods[len(prods)-1-i] = prod
	}
	a.derivation = derive(a.gram, a.start, prods, true)
}

// derive applies productions to the start symbol. Each production rewrites the leftmost
// non-terminal, or the rightmost one when rightmost is true.
func derive(gram *grammar.Grammar, start grammar.Symbol, prods []*grammar.Production, rightmost bool) [][]string {
	form := []grammar.Symbol{start}
	derivation := [][]string{symbolsToStrings(form)}
	for _, prod := range prods {
		pos := -1
		for i := range form {
			j := i
			if rightmost {
				j = len(form) - 1 - i
			}
			if gram.IsNonTerminal(form[j]) {
				pos = j
				break
			}
		}
		if pos < 0 || form[pos] != prod.LHS {
			return derivation
		}
		next := make([]grammar.Symbol, 0, len(form)-1+len(prod.RHS))
		next = append(next, form[:pos]...)
		next = append(next, prod.RHS...)
		next = append(next, form[pos+1:]...)
		form = next
		derivation = append(derivation, symbolsToStrings(form))
	}
	return derivation
}

func symbolsToStrings(syms []grammar.Symbol) []string {
	strs := make([]string, len(syms))
	for i, sym := range syms {
		strs[i] = sym.String()
	}
	return strs
}
