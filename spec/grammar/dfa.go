package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cnf/structhash"
	"golang.org/x/exp/maps"
)

// DFA is the JSON document of an LR automaton.
//
//	{
//	  "algorithm": "lalr1",
//	  "states": [
//	    {
//	      "id": 0,
//	      "items": [{"lhs": "S'", "rhs": ["S"], "dot": 0, "lookahead": ["$"]}],
//	      "transitions": {"S": 1}
//	    }
//	  ]
//	}
type DFA struct {
	Algorithm string      `json:"algorithm,omitempty"`
	States    []*DFAState `json:"states"`
}

type DFAState struct {
	ID          int            `json:"id"`
	Items       []*DFAItem     `json:"items"`
	Transitions map[string]int `json:"transitions"`
}

// DFAItem is an item of a state. The RHS of an empty production is ["ε"] with dot 0. LookAhead is
// an empty list in LR(0) automata.
type DFAItem struct {
	LHS       string   `json:"lhs"`
	RHS       []string `json:"rhs"`
	Dot       int      `json:"dot"`
	LookAhead []string `json:"lookahead"`
}

const epsilon = "ε"

// Core returns the item without its look-ahead symbols like `E -> E + T @ 1`.
func (item *DFAItem) Core() string {
	return fmt.Sprintf("%v -> %v @ %v", item.LHS, strings.Join(item.RHS, " "), item.Dot)
}

func (item *DFAItem) rhsLen() int {
	if len(item.RHS) == 1 && item.RHS[0] == epsilon {
		return 0
	}
	return len(item.RHS)
}

func ReadDFA(r io.Reader) (*DFA, error) {
	d := &DFA{}
	err := json.NewDecoder(r).Decode(d)
	if err != nil {
		return nil, fmt.Errorf("failed to decode a DFA: %w", err)
	}
	err = Validate(d)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func WriteDFA(w io.Writer, d *DFA) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

var (
	errNoState = errors.New("a DFA needs at least one state")
)

// Validate checks a DFA has the fields every state and item needs, unique state IDs, transitions
// to existing states, and dots within the RHSs.
func Validate(d *DFA) error {
	if d == nil || len(d.States) == 0 {
		return errNoState
	}
	ids := map[int]struct{}{}
	for _, s := range d.States {
		if s == nil {
			return fmt.Errorf("a state must be an object")
		}
		if _, ok := ids[s.ID]; ok {
			return fmt.Errorf("duplicate state id: %v", s.ID)
		}
		ids[s.ID] = struct{}{}
	}
	for _, s := range d.States {
		if s.Items == nil {
			return fmt.Errorf("state %v: items are missing", s.ID)
		}
		if s.Transitions == nil {
			return fmt.Errorf("state %v: transitions are missing", s.ID)
		}
		for i, item := range s.Items {
			if item == nil {
				return fmt.Errorf("state %v: item %v must be an object", s.ID, i)
			}
			if item.LHS == "" {
				return fmt.Errorf("state %v: item %v: lhs is missing", s.ID, i)
			}
			if item.RHS == nil {
				return fmt.Errorf("state %v: item %v: rhs is missing", s.ID, i)
			}
			if item.LookAhead == nil {
				return fmt.Errorf("state %v: item %v: lookahead is missing", s.ID, i)
			}
			if item.Dot < 0 || item.Dot > item.rhsLen() {
				return fmt.Errorf("state %v: item %v: dot must be between 0 and %v: %v", s.ID, i, item.rhsLen(), item.Dot)
			}
		}
		for sym, to := range s.Transitions {
			if _, ok := ids[to]; !ok {
				return fmt.Errorf("state %v: the transition on %v goes to an unknown state: %v", s.ID, sym, to)
			}
		}
	}
	return nil
}

// startState returns the state having the lowest ID.
func (d *DFA) startState() *DFAState {
	var start *DFAState
	for _, s := range d.States {
		if start == nil || s.ID < start.ID {
			start = s
		}
	}
	return start
}

func (d *DFA) stateMap() map[int]*DFAState {
	m := map[int]*DFAState{}
	for _, s := range d.States {
		m[s.ID] = s
	}
	return m
}

type DifferenceKind string

const (
	DifferenceKindStateCount = DifferenceKind("state_count")
	DifferenceKindStructure  = DifferenceKind("structure")
	DifferenceKindLookAhead  = DifferenceKind("lookahead")
)

type Difference struct {
	Kind        DifferenceKind
	Description string
	State1      int
	State2      int
	Details     []string
}

func (d *Difference) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %v", d.Kind, d.Description)
	for _, detail := range d.Details {
		fmt.Fprintf(&b, "\n    %v", detail)
	}
	return b.String()
}

type Comparison struct {
	StateCounts [2]int
	Isomorphic  bool
	Differences []*Difference

	// Mapping maps the IDs of the states of the first DFA to those of the second one. It is nil when
	// no mapping was found.
	Mapping map[int]int
}

// Compare checks whether two DFAs are isomorphic. The DFAs must have the same number of states, and
// a breadth-first walk from the start states (the states having the lowest IDs) must map the states
// one-to-one so that mapped states have the same item cores and transitions on the same symbols
// to mapped states. Look-ahead symbols of mapped items are compared afterward.
func Compare(d1, d2 *DFA) *Comparison {
	c := &Comparison{
		StateCounts: [2]int{len(d1.States), len(d2.States)},
		Isomorphic:  true,
	}
	if len(d1.States) != len(d2.States) {
		c.Isomorphic = false
		c.Differences = append(c.Differences, &Difference{
			Kind:        DifferenceKindStateCount,
			Description: fmt.Sprintf("the numbers of states differ: %v and %v", len(d1.States), len(d2.States)),
		})
		return c
	}
	if len(d1.States) == 0 {
		return c
	}

	mapping, diff := findStateMapping(d1, d2)
	if diff != nil {
		c.Isomorphic = false
		c.Differences = append(c.Differences, diff)
		return c
	}
	c.Mapping = mapping

	states1 := d1.stateMap()
	states2 := d2.stateMap()
	ids := make([]int, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id1 := range ids {
		id2 := mapping[id1]
		details := compareLookAhead(states1[id1].Items, states2[id2].Items)
		if len(details) == 0 {
			continue
		}
		c.Isomorphic = false
		c.Differences = append(c.Differences, &Difference{
			Kind:        DifferenceKindLookAhead,
			Description: fmt.Sprintf("look-ahead symbols of state %v and state %v differ", id1, id2),
			State1:      id1,
			State2:      id2,
			Details:     details,
		})
	}

	return c
}

func findStateMapping(d1, d2 *DFA) (map[int]int, *Difference) {
	states1 := d1.stateMap()
	states2 := d2.stateMap()
	start1 := d1.startState()
	start2 := d2.startState()

	mapping := map[int]int{
		start1.ID: start2.ID,
	}
	mapped := map[int]int{
		start2.ID: start1.ID,
	}
	queue := [][2]int{{start1.ID, start2.ID}}
	for len(queue) > 0 {
		id1, id2 := queue[0][0], queue[0][1]
		queue = queue[1:]
		s1 := states1[id1]
		s2 := states2[id2]

		if !sameCores(s1.Items, s2.Items) {
			return nil, &Difference{
				Kind:        DifferenceKindStructure,
				Description: fmt.Sprintf("state %v and state %v have different items", id1, id2),
				State1:      id1,
				State2:      id2,
				Details:     diffCores(s1.Items, s2.Items),
			}
		}

		syms := sortedKeys(s1.Transitions)
		if strings.Join(syms, "\x00") != strings.Join(sortedKeys(s2.Transitions), "\x00") {
			return nil, &Difference{
				Kind:        DifferenceKindStructure,
				Description: fmt.Sprintf("state %v and state %v have transitions on different symbols", id1, id2),
				State1:      id1,
				State2:      id2,
				Details: []string{
					fmt.Sprintf("%v", syms),
					fmt.Sprintf("%v", sortedKeys(s2.Transitions)),
				},
			}
		}
		for _, sym := range syms {
			to1 := s1.Transitions[sym]
			to2 := s2.Transitions[sym]
			known, ok1 := mapping[to1]
			rev, ok2 := mapped[to2]
			if ok1 || ok2 {
				if known != to2 || rev != to1 {
					return nil, &Difference{
						Kind:        DifferenceKindStructure,
						Description: fmt.Sprintf("the transitions of state %v and state %v on %v go to states that don't correspond", id1, id2, sym),
						State1:      id1,
						State2:      id2,
					}
				}
				continue
			}
			mapping[to1] = to2
			mapped[to2] = to1
			queue = append(queue, [2]int{to1, to2})
		}
	}
	if len(mapping) != len(d1.States) {
		return nil, &Difference{
			Kind:        DifferenceKindStructure,
			Description: fmt.Sprintf("only %v of %v states are reachable from the start state", len(mapping), len(d1.States)),
		}
	}
	return mapping, nil
}

func coreSet(items []*DFAItem) map[string]struct{} {
	cores := map[string]struct{}{}
	for _, item := range items {
		cores[item.Core()] = struct{}{}
	}
	return cores
}

func sameCores(items1, items2 []*DFAItem) bool {
	cores1 := coreSet(items1)
	cores2 := coreSet(items2)
	if len(cores1) != len(cores2) {
		return false
	}
	for core := range cores1 {
		if _, ok := cores2[core]; !ok {
			return false
		}
	}
	return true
}

func diffCores(items1, items2 []*DFAItem) []string {
	cores1 := coreSet(items1)
	cores2 := coreSet(items2)
	var details []string
	for _, core := range sortedKeys(cores1) {
		if _, ok := cores2[core]; !ok {
			details = append(details, fmt.Sprintf("only in the first: %v", core))
		}
	}
	for _, core := range sortedKeys(cores2) {
		if _, ok := cores1[core]; !ok {
			details = append(details, fmt.Sprintf("only in the second: %v", core))
		}
	}
	return details
}

func lookAheadByCore(items []*DFAItem) map[string]map[string]struct{} {
	m := map[string]map[string]struct{}{}
	for _, item := range items {
		core := item.Core()
		if _, ok := m[core]; !ok {
			m[core] = map[string]struct{}{}
		}
		for _, a := range item.LookAhead {
			m[core][a] = struct{}{}
		}
	}
	return m
}

func compareLookAhead(items1, items2 []*DFAItem) []string {
	la1 := lookAheadByCore(items1)
	la2 := lookAheadByCore(items2)
	var details []string
	for _, core := range sortedKeys(la1) {
		var only1, only2 []string
		for _, a := range sortedKeys(la1[core]) {
			if _, ok := la2[core][a]; !ok {
				only1 = append(only1, a)
			}
		}
		for _, a := range sortedKeys(la2[core]) {
			if _, ok := la1[core][a]; !ok {
				only2 = append(only2, a)
			}
		}
		if len(only1) == 0 && len(only2) == 0 {
			continue
		}
		details = append(details, fmt.Sprintf("%v: only in the first: %v, only in the second: %v", core, only1, only2))
	}
	return details
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}

type canonicalDFA struct {
	States []*canonicalState
}

type canonicalState struct {
	Items       []string
	Transitions []string
}

// Fingerprint returns a hash of a DFA that doesn't depend on the IDs of states, the order of items,
// or the order of look-ahead symbols. Isomorphic DFAs have the same fingerprint. The states are
// renumbered in breadth-first order from the start state following the transitions in order of
// their symbols. When withLookAhead is false, look-ahead symbols are ignored.
func Fingerprint(d *DFA, withLookAhead bool) (string, error) {
	err := Validate(d)
	if err != nil {
		return "", err
	}

	states := d.stateMap()
	order := []int{}
	nums := map[int]int{}
	queue := []int{d.startState().ID}
	nums[queue[0]] = 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		s := states[id]
		for _, sym := range sortedKeys(s.Transitions) {
			to := s.Transitions[sym]
			if _, ok := nums[to]; ok {
				continue
			}
			nums[to] = len(nums)
			queue = append(queue, to)
		}
	}
	// Unreachable states follow in order of their IDs.
	var rest []int
	for id := range states {
		if _, ok := nums[id]; !ok {
			rest = append(rest, id)
		}
	}
	sort.Ints(rest)
	for _, id := range rest {
		nums[id] = len(nums)
		order = append(order, id)
	}

	canon := &canonicalDFA{}
	for _, id := range order {
		s := states[id]
		cs := &canonicalState{}
		if withLookAhead {
			la := lookAheadByCore(s.Items)
			for _, core := range sortedKeys(la) {
				cs.Items = append(cs.Items, fmt.Sprintf("%v [%v]", core, strings.Join(sortedKeys(la[core]), " ")))
			}
		} else {
			cs.Items = sortedKeys(coreSet(s.Items))
		}
		for _, sym := range sortedKeys(s.Transitions) {
			cs.Transitions = append(cs.Transitions, fmt.Sprintf("%v:%v", sym, nums[s.Transitions[sym]]))
		}
		canon.States = append(canon.States, cs)
	}

	return structhash.Hash(canon, 1)
}
