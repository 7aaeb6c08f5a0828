package grammar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

type productionID [32]byte

func (id productionID) String() string {
	return hex.EncodeToString(id[:])
}

func genProductionID(lhs Symbol, rhs []Symbol) productionID {
	seq := []byte(lhs)
	seq = append(seq, 0)
	for _, sym := range rhs {
		seq = append(seq, []byte(sym)...)
		seq = append(seq, 0)
	}
	return productionID(sha256.Sum256(seq))
}

// Production is an immutable pair of a non-terminal and a sequence of symbols. An empty RHS
// means ε. Num is the index of the production in its grammar.
type Production struct {
	Num int
	LHS Symbol
	RHS []Symbol

	id productionID
}

func newProduction(lhs Symbol, rhs []Symbol) (*Production, error) {
	if lhs.isNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, sym := range rhs {
		if sym.isNil() {
			return nil, fmt.Errorf("a symbol of RHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
		}
	}

	return &Production{
		LHS: lhs,
		RHS: rhs,
		id:  genProductionID(lhs, rhs),
	}, nil
}

func (p *Production) IsEmpty() bool {
	return len(p.RHS) == 0
}

func (p *Production) equals(q *Production) bool {
	return q.id == p.id
}

func (p *Production) String() string {
	if p.IsEmpty() {
		return fmt.Sprintf("%v → %v", p.LHS, SymbolEpsilon)
	}
	return fmt.Sprintf("%v → %v", p.LHS, joinSymbols(p.RHS))
}

func joinSymbols(syms []Symbol) string {
	var b strings.Builder
	for i, sym := range syms {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sym.String())
	}
	return b.String()
}

type productionSet struct {
	lhs2Prods map[Symbol][]*Production
	id2Prod   map[productionID]*Production
	prods     []*Production
}

func newProductionSet() *productionSet {
	return &productionSet{
		lhs2Prods: map[Symbol][]*Production{},
		id2Prod:   map[productionID]*Production{},
	}
}

// append numbers a production in order of addition. It returns false when the set already has
// the same production.
func (ps *productionSet) append(prod *Production) bool {
	if _, ok := ps.id2Prod[prod.id]; ok {
		return false
	}

	prod.Num = len(ps.prods)
	ps.prods = append(ps.prods, prod)
	ps.lhs2Prods[prod.LHS] = append(ps.lhs2Prods[prod.LHS], prod)
	ps.id2Prod[prod.id] = prod

	return true
}

func (ps *productionSet) findByLHS(lhs Symbol) ([]*Production, bool) {
	if lhs.isNil() {
		return nil, false
	}

	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) findByNum(num int) (*Production, bool) {
	if num < 0 || num >= len(ps.prods) {
		return nil, false
	}
	return ps.prods[num], true
}

func (ps *productionSet) getAllProductions() []*Production {
	return ps.prods
}
