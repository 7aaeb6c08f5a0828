package driver

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/nihei9/gramlab/grammar"
)

// LRParser is a shift-reduce parser driven by an ACTION/GOTO table of any LR class.
type LRParser struct {
	tab *grammar.ParsingTable
}

func NewLRParser(tab *grammar.ParsingTable) *LRParser {
	return &LRParser{
		tab: tab,
	}
}

var _ Parser = &LRParser{}

type lrRun struct {
	tab        *grammar.ParsingTable
	gram       *grammar.Grammar
	input      []string
	pos        int
	stateStack []int
	symStack   []string
	actions    []semanticActionSet
	result     *Result
}

func (p *LRParser) Parse(tokens []string) *Result {
	gram := p.tab.Grammar()
	startProd, _ := gram.StartProduction()

	tree := &syntaxTreeActionSet{}
	deriv := &derivationActionSet{
		start: startProd.RHS[0],
		gram:  gram,
	}
	r := &lrRun{
		tab:        p.tab,
		gram:       gram,
		input:      inputWithEOF(tokens),
		stateStack: []int{p.tab.InitialState},
		symStack:   []string{},
		actions:    []semanticActionSet{tree, deriv},
		result: &Result{
			Status: StatusRunning,
		},
	}
	r.run()

	if r.result.Accepted() {
		r.result.Tree = tree.tree
		r.result.derivation = deriv.derivation
	}

	slog.Debug("parsed a sentence", "class", p.tab.Class(), "status", r.result.Status, "steps", len(r.result.Trace))

	return r.result
}

func (r *lrRun) run() {
	maxReductions := r.reductionLimit()
	reductions := 0

	for r.result.Status == StatusRunning {
		state := r.top()
		tok := r.input[r.pos]
		last := r.pos == len(r.input)-1

		if !isKnownToken(r.gram, tok, last) {
			r.reject(fmt.Sprintf("error: unknown token %v", tok))
			return
		}

		acts := r.tab.Action(state, grammar.Symbol(tok))
		if len(acts) == 0 {
			r.reject(fmt.Sprintf("error: ACTION[%v][%v] is empty", state, tok))
			return
		}
		act := acts[0]
		var note string
		if len(acts) > 1 {
			note = fmt.Sprintf(" (conflict %v; the first action is used)", joinActions(acts))
		}

		switch act.Type {
		case grammar.ActionTypeShift:
			r.record(fmt.Sprintf("shift to state %v%v", act.State, note))
			r.stateStack = append(r.stateStack, act.State)
			r.symStack = append(r.symStack, tok)
			for _, a := range r.actions {
				a.shift(tok)
			}
			r.pos++
			reductions = 0
			maxReductions = r.reductionLimit()
		case grammar.ActionTypeReduce:
			prod, ok := r.gram.Production(act.Production)
			if !ok {
				r.reject(fmt.Sprintf("error: production %v is not found", act.Production))
				return
			}
			reductions++
			if reductions > maxReductions {
				r.reject("error: the parser keeps reducing without consuming input")
				return
			}

			n := len(prod.RHS)
			below := r.stateStack[len(r.stateStack)-1-n]
			next, ok := r.tab.GoTo(below, prod.LHS)
			if !ok {
				message := fmt.Sprintf("error: GOTO[%v][%v] is empty", below, prod.LHS)
				r.record(message)
				r.rejectWithoutStep(below, message)
				return
			}
			r.record(fmt.Sprintf("reduce by %v%v", describeProduction(prod), note))
			r.stateStack = append(r.stateStack[:len(r.stateStack)-n], next)
			r.symStack = append(r.symStack[:len(r.symStack)-n], prod.LHS.String())
			for _, a := range r.actions {
				a.reduce(prod)
			}
		case grammar.ActionTypeAccept:
			r.record("accept" + note)
			for _, a := range r.actions {
				a.accept()
			}
			r.result.Status = StatusAccepted
		}
	}
}

// reductionLimit bounds the reductions between two shifts. The limit grows with the stack because
// a right-recursive grammar reduces once per stacked symbol at the end of its input. Exceeding it
// means the table loops, which a conflicting cell resolved by its first action can cause.
func (r *lrRun) reductionLimit() int {
	n := r.tab.StateCount() * len(r.gram.Productions())
	return n * (len(r.stateStack) + n + 1)
}

func (r *lrRun) top() int {
	return r.stateStack[len(r.stateStack)-1]
}

func (r *lrRun) record(action string) {
	stack := make([]string, len(r.stateStack))
	for i, s := range r.stateStack {
		stack[i] = strconv.Itoa(s)
	}
	r.result.Trace = append(r.result.Trace, &Step{
		Num:     len(r.result.Trace) + 1,
		Stack:   stack,
		Symbols: copyStrings(r.symStack),
		Input:   copyStrings(r.input[r.pos:]),
		Action:  action,
	})
}

func (r *lrRun) reject(message string) {
	r.record(message)
	r.rejectWithoutStep(r.top(), message)
}

func (r *lrRun) rejectWithoutStep(state int, message string) {
	r.result.Status = StatusRejected
	r.result.Reason = &RejectReason{
		State:    state,
		Token:    r.input[r.pos],
		Position: r.pos,
		Message:  message,
	}
}
