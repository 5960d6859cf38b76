// Package automaton models the limit-deterministic Büchi automaton (LDBA)
// produced by the external LTL translator, and the guard-label expansion
// that turns a transition's propositional label into a constraint tree
// over the polynomial algebra layer.
package automaton

import (
	"fmt"
	"sort"

	"github.com/kmallik/polycert/internal/algebra"
)

// Transition is one labeled edge of the automaton: a destination state id,
// a propositional label over atomic propositions, and the set of
// acceptance marks it carries.
type Transition struct {
	From       int
	To         int
	Label      Label
	AcceptSets []int
}

// LDBA is a limit-deterministic Büchi automaton: states identified by
// ascending integer id, labeled transitions, a start state, a set of
// accepting state ids, and a predicate lookup table mapping an atomic
// proposition name to the list of polynomial inequalities defining the
// region where it holds.
type LDBA struct {
	NumStates   int
	Start       int
	Accepting   map[int]struct{}
	transitions map[int][]Transition
	Predicates  map[string][]algebra.Inequality
}

// New builds an empty LDBA with the given number of states.
func New(numStates, start int) *LDBA {
	return &LDBA{
		NumStates:   numStates,
		Start:       start,
		Accepting:   map[int]struct{}{},
		transitions: map[int][]Transition{},
		Predicates:  map[string][]algebra.Inequality{},
	}
}

// AddTransition appends a transition from state q, preserving insertion
// order for deterministic iteration.
func (a *LDBA) AddTransition(t Transition) {
	a.transitions[t.From] = append(a.transitions[t.From], t)
}

// MarkAccepting records state q as a member of the Büchi acceptance set.
func (a *LDBA) MarkAccepting(q int) {
	a.Accepting[q] = struct{}{}
}

// IsAccepting reports whether q is in the accepting set.
func (a *LDBA) IsAccepting(q int) bool {
	_, ok := a.Accepting[q]
	return ok
}

// IsRejecting reports whether q has no outgoing transitions at all, the
// standard LDBA notion of a dead/rejecting sink.
func (a *LDBA) IsRejecting(q int) bool {
	return len(a.transitions[q]) == 0
}

// States returns every state id, 0..NumStates-1, in ascending order.
func (a *LDBA) States() []int {
	out := make([]int, a.NumStates)
	for i := range out {
		out[i] = i
	}
	return out
}

// AcceptingStates returns every accepting state id in ascending order.
func (a *LDBA) AcceptingStates() []int {
	out := make([]int, 0, len(a.Accepting))
	for q := range a.Accepting {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

// TransitionsFrom returns the transitions leaving q in HOA body insertion
// order.
func (a *LDBA) TransitionsFrom(q int) []Transition {
	return a.transitions[q]
}

// Lookup returns the inequalities defining the region where proposition
// name holds, in declared order.
func (a *LDBA) Lookup(name string) ([]algebra.Inequality, bool) {
	ineqs, ok := a.Predicates[name]
	return ineqs, ok
}

// SetPredicate registers the region for an atomic proposition.
func (a *LDBA) SetPredicate(name string, ineqs []algebra.Inequality) {
	a.Predicates[name] = ineqs
}

func (a *LDBA) String() string {
	return fmt.Sprintf("LDBA{states=%d, start=%d, accepting=%v}", a.NumStates, a.Start, a.AcceptingStates())
}
