// Package constraint defines the primitives shared by the automaton's
// guard expansion and every constraint generator: SubConstraint trees,
// guarded inequalities, and the universally-quantified implications that
// make up the solver's input.
package constraint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kmallik/polycert/internal/algebra"
)

// Op is the Boolean aggregator joining the children of a SubConstraint.
type Op int

const (
	And Op = iota
	Or
)

func (o Op) String() string {
	if o == Or {
		return "or"
	}
	return "and"
}

// SubConstraint is a tree of inequalities aggregated by ∧ or ∨. A leaf
// (Op unset, Inequalities non-empty, Children empty) is an implicit
// conjunction of its inequalities; an internal node aggregates its
// Children by Op.
type SubConstraint struct {
	Op           Op
	Inequalities []algebra.Inequality
	Children     []SubConstraint
}

// Leaf builds a conjunctive SubConstraint from a flat list of inequalities.
func Leaf(ineqs ...algebra.Inequality) SubConstraint {
	return SubConstraint{Op: And, Inequalities: ineqs}
}

// True is the trivially-satisfied SubConstraint (empty conjunction), used
// by the fake invariant template and by guard expansion when a label
// region covers the whole space.
func True() SubConstraint {
	return SubConstraint{Op: And}
}

// IsTrivial reports whether the SubConstraint has no inequalities and no
// children, i.e. is the trivially-true ⊤ constraint.
func (s SubConstraint) IsTrivial() bool {
	return len(s.Inequalities) == 0 && len(s.Children) == 0
}

// And2 combines a and b by conjunction.
func And2(a, b SubConstraint) SubConstraint {
	return SubConstraint{Op: And, Children: []SubConstraint{a, b}}
}

// Or combines a and b by disjunction.
func Or2(a, b SubConstraint) SubConstraint {
	return SubConstraint{Op: Or, Children: []SubConstraint{a, b}}
}

// Flatten returns every inequality appearing anywhere in the tree, in a
// deterministic depth-first, left-to-right order.
func (s SubConstraint) Flatten() []algebra.Inequality {
	out := append([]algebra.Inequality{}, s.Inequalities...)
	for _, c := range s.Children {
		out = append(out, c.Flatten()...)
	}
	return out
}

// Substitute applies subs to every inequality in the tree, preserving
// structure.
func (s SubConstraint) Substitute(subs map[string]algebra.Equation) SubConstraint {
	out := SubConstraint{Op: s.Op}
	for _, ineq := range s.Inequalities {
		out.Inequalities = append(out.Inequalities, ineq.Substitute(subs))
	}
	for _, c := range s.Children {
		out.Children = append(out.Children, c.Substitute(subs))
	}
	return out
}

func (s SubConstraint) String() string {
	var parts []string
	for _, ineq := range s.Inequalities {
		parts = append(parts, ineq.String())
	}
	for _, c := range s.Children {
		parts = append(parts, "("+c.String()+")")
	}
	if len(parts) == 0 {
		return "true"
	}
	sep := " " + s.Op.String() + " "
	return strings.Join(parts, sep)
}

// GuardedInequality is an inequality whose applicability is conditioned on
// a propositional guard over named predicates; the guard is expanded
// through the automaton's predicate lookup into a SubConstraint before it
// can be used in an implication.
type GuardedInequality struct {
	Guard      SubConstraint
	Inequality algebra.Inequality
}

// ConstraintImplication is ∀ vars. lhs ⇒ rhs, the unit the solver bridge
// serializes.
type ConstraintImplication struct {
	Vars []string
	LHS  SubConstraint
	RHS  SubConstraint
}

// NewImplication builds an implication, sorting Vars for deterministic
// serialization regardless of the order callers happened to collect them.
func NewImplication(vars map[string]struct{}, lhs, rhs SubConstraint) ConstraintImplication {
	names := make([]string, 0, len(vars))
	for v := range vars {
		names = append(names, v)
	}
	sort.Strings(names)
	return ConstraintImplication{Vars: names, LHS: lhs, RHS: rhs}
}

func (ci ConstraintImplication) String() string {
	return fmt.Sprintf("forall %s. (%s) => (%s)", strings.Join(ci.Vars, ", "), ci.LHS.String(), ci.RHS.String())
}

// ConstraintConstant is an inequality over only synthesis parameters, with
// no universally quantified state variables.
type ConstraintConstant struct {
	Inequality algebra.Inequality
}

func (cc ConstraintConstant) String() string {
	return cc.Inequality.String()
}
