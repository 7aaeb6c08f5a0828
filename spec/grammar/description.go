package grammar

type Terminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type NonTerminal struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

type Production struct {
	Number int      `json:"number"`
	LHS    string   `json:"lhs"`
	RHS    []string `json:"rhs"`
}

type Item struct {
	Production int      `json:"production"`
	Dot        int      `json:"dot"`
	LookAhead  []string `json:"look_ahead,omitempty"`
}

type Transition struct {
	Symbol string `json:"symbol"`
	State  int    `json:"state"`
}

type Reduce struct {
	LookAhead  []string `json:"look_ahead"`
	Production int      `json:"production"`
}

type SRConflict struct {
	Symbol     string `json:"symbol"`
	State      int    `json:"state"`
	Production int    `json:"production"`
}

type RRConflict struct {
	Symbol      string `json:"symbol"`
	Production1 int    `json:"production_1"`
	Production2 int    `json:"production_2"`
}

type State struct {
	Number     int           `json:"number"`
	Kernel     []*Item       `json:"kernel"`
	Shift      []*Transition `json:"shift"`
	Reduce     []*Reduce     `json:"reduce"`
	GoTo       []*Transition `json:"goto"`
	Accept     bool          `json:"accept"`
	SRConflict []*SRConflict `json:"sr_conflict"`
	RRConflict []*RRConflict `json:"rr_conflict"`
}

// Report describes an LR parsing table and its automaton. Productions are those of the augmented
// grammar.
type Report struct {
	Class        string         `json:"class"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}
