package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
)

type lrItemID [32]byte

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", id.num())
}

func (id lrItemID) num() uint32 {
	return binary.LittleEndian.Uint32(id[:])
}

// lrItem is a production with a dot. The id of an item identifies its core, that is, the
// production and the dot. Look-ahead symbols don't affect the id.
type lrItem struct {
	id   lrItemID
	prod *Production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol Symbol

	// When initial is true, the LHS of the production is the augmented start symbol and dot is 0.
	// It looks like S' →・S.
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When kernel is true, the item is kernel item.
	kernel bool

	// lookAhead stores look-ahead symbols, and they are terminal symbols or EOF.
	// The item is reducible only when the look-ahead symbols appear as the next input symbol.
	lookAhead map[Symbol]struct{}
}

func newLRItem(gram *Grammar, prod *Production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}

	if dot < 0 || dot > len(prod.RHS) {
		return nil, fmt.Errorf("dot must be between 0 and %v", len(prod.RHS))
	}

	dottedSymbol := symbolNil
	if dot < len(prod.RHS) {
		dottedSymbol = prod.RHS[dot]
	}

	initial := false
	if prod.LHS == gram.start && dot == 0 {
		initial = true
	}

	return &lrItem{
		id:           genLRItemID(prod, dot),
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		initial:      initial,
		reducible:    dot == len(prod.RHS),
		kernel:       initial || dot > 0,
		lookAhead:    map[Symbol]struct{}{},
	}, nil
}

func genLRItemID(prod *Production, dot int) lrItemID {
	b := []byte{}
	b = append(b, prod.id[:]...)
	bDot := make([]byte, 8)
	binary.LittleEndian.PutUint64(bDot, uint64(dot))
	b = append(b, bDot...)
	return sha256.Sum256(b)
}

// advance returns the item whose dot moves over the dotted symbol. The look-ahead symbols are
// carried over.
func (item *lrItem) advance(gram *Grammar) (*lrItem, error) {
	next, err := newLRItem(gram, item.prod, item.dot+1)
	if err != nil {
		return nil, err
	}
	next.addLookAhead(item.lookAhead)
	return next, nil
}

func (item *lrItem) addLookAhead(syms map[Symbol]struct{}) bool {
	changed := false
	for sym := range syms {
		if _, ok := item.lookAhead[sym]; ok {
			continue
		}
		item.lookAhead[sym] = struct{}{}
		changed = true
	}
	return changed
}

func (item *lrItem) clone() *lrItem {
	c := *item
	c.lookAhead = map[Symbol]struct{}{}
	c.addLookAhead(item.lookAhead)
	return &c
}

// sortedLookAhead returns the look-ahead symbols in lexical order.
func (item *lrItem) sortedLookAhead() []Symbol {
	set := treeset.NewWithStringComparator()
	for sym := range item.lookAhead {
		set.Add(sym.String())
	}
	syms := make([]Symbol, 0, set.Size())
	for _, v := range set.Values() {
		syms = append(syms, Symbol(v.(string)))
	}
	return syms
}

func (item *lrItem) less(other *lrItem) bool {
	if item.prod.Num != other.prod.Num {
		return item.prod.Num < other.prod.Num
	}
	return item.dot < other.dot
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// kernel is a set of kernel items identifying a state. When withLookAhead is true, the id includes
// the look-ahead symbols of the items, so kernels having the same core but different look-ahead
// symbols are different kernels. coreID never includes the look-ahead symbols.
type kernel struct {
	id     kernelID
	coreID kernelID
	items  []*lrItem
}

func newKernel(items []*lrItem, withLookAhead bool) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}

	// Merge items having the same core.
	var sortedItems []*lrItem
	{
		m := map[lrItemID]*lrItem{}
		for _, item := range items {
			if !item.kernel {
				return nil, fmt.Errorf("not a kernel item: %v", item.prod)
			}
			if known, ok := m[item.id]; ok {
				known.addLookAhead(item.lookAhead)
				continue
			}
			m[item.id] = item.clone()
		}
		sortedItems = []*lrItem{}
		for _, item := range m {
			sortedItems = append(sortedItems, item)
		}
		sort.Slice(sortedItems, func(i, j int) bool {
			return sortedItems[i].less(sortedItems[j])
		})
	}

	var id, coreID kernelID
	{
		core := []byte{}
		full := []byte{}
		for _, item := range sortedItems {
			core = append(core, item.id[:]...)
			full = append(full, item.id[:]...)
			if withLookAhead {
				for _, sym := range item.sortedLookAhead() {
					full = append(full, []byte(sym)...)
					full = append(full, 0)
				}
				full = append(full, 0)
			}
		}
		coreID = sha256.Sum256(core)
		id = sha256.Sum256(full)
	}

	return &kernel{
		id:     id,
		coreID: coreID,
		items:  sortedItems,
	}, nil
}

// Item is an LR item exported for rendering. LookAhead is empty in LR(0) automata.
type Item struct {
	Production *Production
	Dot        int
	LookAhead  []Symbol
	Kernel     bool
}

func (item *lrItem) export() *Item {
	return &Item{
		Production: item.prod,
		Dot:        item.dot,
		LookAhead:  item.sortedLookAhead(),
		Kernel:     item.kernel,
	}
}

// String renders an item like `E → E・+ T` or, with look-ahead symbols, `E → E・+ T, $/+`.
func (item *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", item.Production.LHS)
	for i, sym := range item.Production.RHS {
		if i == item.Dot {
			b.WriteString(" ・")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(sym.String())
	}
	if item.Dot == len(item.Production.RHS) {
		if item.Production.IsEmpty() {
			b.WriteString(" ・ε")
		} else {
			b.WriteString("・")
		}
	}
	if len(item.LookAhead) > 0 {
		la := make([]string, len(item.LookAhead))
		for i, sym := range item.LookAhead {
			la[i] = sym.String()
		}
		fmt.Fprintf(&b, ", %v", strings.Join(la, "/"))
	}
	return b.String()
}
