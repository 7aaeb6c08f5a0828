package grammar

import (
	"fmt"

	verr "github.com/nihei9/gramlab/error"
	"github.com/nihei9/gramlab/spec"
)

// Grammar is a context-free grammar. It is read-only once built, so a grammar can be shared by
// any number of analyses.
type Grammar struct {
	start       Symbol
	symbolTable *symbolTable
	prods       *productionSet

	// When augmented is true, startProd is the production `S' → S` whose LHS is the start symbol.
	// Reducing the production means accepting a sentence.
	augmented bool
	startProd *Production
}

func (g *Grammar) Start() Symbol {
	return g.start
}

// Terminals returns the terminals in order of declaration or first appearance. The result
// doesn't contain EOF.
func (g *Grammar) Terminals() []Symbol {
	return append([]Symbol{}, g.symbolTable.terms...)
}

// NonTerminals returns the non-terminals in order of first appearance as an LHS.
func (g *Grammar) NonTerminals() []Symbol {
	return append([]Symbol{}, g.symbolTable.nonTerms...)
}

// Productions returns all productions ordered by their numbers.
func (g *Grammar) Productions() []*Production {
	return append([]*Production{}, g.prods.getAllProductions()...)
}

func (g *Grammar) ProductionsOf(lhs Symbol) []*Production {
	prods, _ := g.prods.findByLHS(lhs)
	return append([]*Production{}, prods...)
}

func (g *Grammar) Production(num int) (*Production, bool) {
	return g.prods.findByNum(num)
}

// IsTerminal reports whether a symbol is a terminal. EOF isn't a terminal of any grammar.
func (g *Grammar) IsTerminal(sym Symbol) bool {
	kind, ok := g.symbolTable.kind(sym)
	return ok && kind == symbolKindTerminal
}

func (g *Grammar) IsNonTerminal(sym Symbol) bool {
	kind, ok := g.symbolTable.kind(sym)
	return ok && kind == symbolKindNonTerminal
}

// IsAugmented reports whether the grammar has a start production `S' → S` whose LHS appears on
// no RHS.
func (g *Grammar) IsAugmented() bool {
	return g.augmented
}

// StartProduction returns the production `S' → S` of an augmented grammar.
func (g *Grammar) StartProduction() (*Production, bool) {
	if !g.augmented {
		return nil, false
	}
	return g.startProd, true
}

// Augment returns a grammar having a new start symbol S' and a production `S' → S` numbered 0.
// The other productions are renumbered from 1. When the grammar already has the form, Augment
// returns the grammar itself.
func (g *Grammar) Augment() *Grammar {
	if g.augmented {
		return g
	}

	newStart := g.start + "'"
	for {
		if _, ok := g.symbolTable.kind(newStart); !ok {
			break
		}
		newStart = newStart + "'"
	}

	symTab := newSymbolTable()
	symTab.registerNonTerminal(newStart)
	for _, sym := range g.symbolTable.nonTerms {
		symTab.registerNonTerminal(sym)
	}
	for _, sym := range g.symbolTable.terms {
		symTab.registerTerminal(sym)
	}

	prods := newProductionSet()
	startProd, _ := newProduction(newStart, []Symbol{g.start})
	prods.append(startProd)
	for _, p := range g.prods.getAllProductions() {
		prod, _ := newProduction(p.LHS, p.RHS)
		prods.append(prod)
	}

	return &Grammar{
		start:       newStart,
		symbolTable: symTab,
		prods:       prods,
		augmented:   true,
		startProd:   startProd,
	}
}

func (g *Grammar) String() string {
	var s string
	for _, prod := range g.prods.getAllProductions() {
		s += fmt.Sprintf("(%v) %v\n", prod.Num, prod)
	}
	return s
}

// GrammarBuilder builds a grammar from productions read from grammar text (AST) and productions
// added by AddProduction. The start symbol is Start or, when Start is empty, the LHS of the first
// production. Terminals and NonTerminals optionally declare symbol kinds; when Terminals is empty,
// terminals are inferred from the symbols used in RHSs.
type GrammarBuilder struct {
	AST          *spec.RootNode
	Start        string
	Terminals    []string
	NonTerminals []string

	defs []*productionDef
	errs verr.SpecErrors
}

type productionDef struct {
	lhs    string
	rhs    []string
	pos    spec.Position
	hasPos bool
}

// AddProduction adds a production. An RHS that is empty or consists of ε only means the empty
// string.
func (b *GrammarBuilder) AddProduction(lhs string, rhs ...string) {
	b.defs = append(b.defs, &productionDef{
		lhs: lhs,
		rhs: rhs,
	})
}

func (b *GrammarBuilder) Build() (*Grammar, error) {
	defs := b.collectProductionDefs()
	if len(defs) == 0 {
		return nil, &verr.SpecError{
			Cause: semErrNoProduction,
		}
	}

	declaredTerms := map[string]struct{}{}
	for _, name := range b.Terminals {
		declaredTerms[name] = struct{}{}
	}
	declaredNonTerms := map[string]struct{}{}
	for _, name := range b.NonTerminals {
		declaredNonTerms[name] = struct{}{}
		if _, ok := declaredTerms[name]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: name,
			})
		}
	}

	symTab := newSymbolTable()

	// Every LHS is a non-terminal.
	for _, def := range defs {
		if isReservedName(def.lhs) {
			b.appendError(semErrReservedSymbol, def.lhs, def)
			continue
		}
		if _, ok := declaredTerms[def.lhs]; ok {
			b.appendError(semErrDuplicateName, def.lhs, def)
			continue
		}
		symTab.registerNonTerminal(Symbol(def.lhs))
	}

	for _, name := range b.Terminals {
		if isReservedName(name) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedSymbol,
				Detail: name,
			})
			continue
		}
		if _, ok := symTab.nonTermNums[Symbol(name)]; ok {
			continue
		}
		symTab.registerTerminal(Symbol(name))
	}

	for _, def := range defs {
		for _, name := range def.rhs {
			if name == SymbolEpsilon.String() {
				continue
			}
			if name == SymbolEOF.String() {
				b.appendError(semErrReservedSymbol, name, def)
				continue
			}
			if _, ok := symTab.kind(Symbol(name)); ok {
				continue
			}
			if _, ok := declaredNonTerms[name]; ok {
				b.appendError(semErrUndefinedSym, name, def)
				continue
			}
			if len(b.Terminals) > 0 {
				b.appendError(semErrUndefinedSym, name, def)
				continue
			}
			if len(b.NonTerminals) == 0 && spec.IsNonTerminalName(name) {
				b.appendError(semErrUndefinedSym, name, def)
				continue
			}
			symTab.registerTerminal(Symbol(name))
		}
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	prods := newProductionSet()
	for _, def := range defs {
		rhs := []Symbol{}
		for _, name := range def.rhs {
			if name == SymbolEpsilon.String() {
				continue
			}
			rhs = append(rhs, Symbol(name))
		}
		prod, err := newProduction(Symbol(def.lhs), rhs)
		if err != nil {
			return nil, err
		}
		if !prods.append(prod) {
			b.appendError(semErrDuplicateProduction, prod.String(), def)
		}
	}

	start := Symbol(b.Start)
	if start.isNil() {
		start = Symbol(defs[0].lhs)
	}
	if _, ok := prods.findByLHS(start); !ok {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrNoStartProduction,
			Detail: start.String(),
		})
	}
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	g := &Grammar{
		start:       start,
		symbolTable: symTab,
		prods:       prods,
	}
	g.augmented, g.startProd = findStartProduction(g)

	return g, nil
}

func (b *GrammarBuilder) collectProductionDefs() []*productionDef {
	var defs []*productionDef
	if b.AST != nil {
		for _, prod := range b.AST.Productions {
			for _, alt := range prod.RHS {
				rhs := make([]string, len(alt.Elements))
				for i, elem := range alt.Elements {
					rhs[i] = elem.ID
				}
				defs = append(defs, &productionDef{
					lhs:    prod.LHS,
					rhs:    rhs,
					pos:    alt.Pos,
					hasPos: true,
				})
			}
		}
	}
	return append(defs, b.defs...)
}

func (b *GrammarBuilder) appendError(cause error, detail string, def *productionDef) {
	specErr := &verr.SpecError{
		Cause:  cause,
		Detail: detail,
	}
	if def.hasPos {
		specErr.Row = def.pos.Row
		specErr.Col = def.pos.Col
	}
	b.errs = append(b.errs, specErr)
}

func isReservedName(name string) bool {
	return name == "" || Symbol(name).isReserved()
}

// findStartProduction reports whether a grammar is already augmented: the start symbol has a single
// production `S → X` where X is a non-terminal, and S appears on no RHS.
func findStartProduction(g *Grammar) (bool, *Production) {
	prods, _ := g.prods.findByLHS(g.start)
	if len(prods) != 1 {
		return false, nil
	}
	prod := prods[0]
	if len(prod.RHS) != 1 || !g.IsNonTerminal(prod.RHS[0]) || prod.RHS[0] == g.start {
		return false, nil
	}
	for _, p := range g.prods.getAllProductions() {
		for _, sym := range p.RHS {
			if sym == g.start {
				return false, nil
			}
		}
	}
	return true, prod
}
