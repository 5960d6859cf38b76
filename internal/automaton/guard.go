package automaton

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
	"github.com/kmallik/polycert/internal/polyerr"
)

// Label is a Boolean combination of atomic propositions, as produced by
// parsing an HOA transition label. It mirrors HOA's own label grammar:
// conjunction, disjunction, negation, atoms (by AP index), and the
// literal constants true/false.
type Label struct {
	kind     labelKind
	apIndex  int
	children []Label
}

type labelKind int

const (
	labelTrue labelKind = iota
	labelFalse
	labelAtom
	labelAnd
	labelOr
	labelNot
)

// AtomLabel builds a label referencing the AP at the given index.
func AtomLabel(apIndex int) Label { return Label{kind: labelAtom, apIndex: apIndex} }

// TrueLabel is the label satisfied unconditionally.
func TrueLabel() Label { return Label{kind: labelTrue} }

// FalseLabel is the label never satisfied.
func FalseLabel() Label { return Label{kind: labelFalse} }

// AndLabel conjoins two labels.
func AndLabel(a, b Label) Label { return Label{kind: labelAnd, children: []Label{a, b}} }

// OrLabel disjoins two labels.
func OrLabel(a, b Label) Label { return Label{kind: labelOr, children: []Label{a, b}} }

// NotLabel negates a label.
func NotLabel(a Label) Label { return Label{kind: labelNot, children: []Label{a}} }

// ErrUnsatisfiable is returned by ExpandGuard when the label can never
// hold (the literal "f" label, or an equivalent reduction). Callers
// should treat the owning guarded inequality as trivially true and elide
// it, rather than treating this as a fatal error.
var ErrUnsatisfiable = polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", "false", "label is unsatisfiable in every region; caller should elide the guarded inequality")

// ExpandGuard substitutes each atomic proposition in the label by its
// region from the predicate lookup table (keyed by AP name, resolved via
// apNames) and distributes the Boolean structure into a SubConstraint
// tree: AND becomes conjunction of regions, OR becomes disjunction.
// Negation is only supported directly over an atom, by flipping the
// relation of every inequality in that atom's region (De Morgan's over
// the implicit conjunction); negation of a non-atomic region (a nested
// AND, OR, or NOT) is rejected as an unsupported label form.
func (a *LDBA) ExpandGuard(label Label, apNames []string) (constraint.SubConstraint, error) {
	return a.expand(label, apNames)
}

func (a *LDBA) expand(l Label, apNames []string) (constraint.SubConstraint, error) {
	switch l.kind {
	case labelTrue:
		return constraint.True(), nil
	case labelFalse:
		return constraint.SubConstraint{}, ErrUnsatisfiable
	case labelAtom:
		return a.expandAtom(l.apIndex, apNames)
	case labelAnd:
		left, err := a.expand(l.children[0], apNames)
		if err != nil {
			return constraint.SubConstraint{}, err
		}
		right, err := a.expand(l.children[1], apNames)
		if err != nil {
			return constraint.SubConstraint{}, err
		}
		return constraint.And2(left, right), nil
	case labelOr:
		left, err := a.expand(l.children[0], apNames)
		if err != nil {
			return constraint.SubConstraint{}, err
		}
		right, err := a.expand(l.children[1], apNames)
		if err != nil {
			return constraint.SubConstraint{}, err
		}
		return constraint.Or2(left, right), nil
	case labelNot:
		inner := l.children[0]
		if inner.kind != labelAtom {
			return constraint.SubConstraint{}, polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", "!", "negation of a non-atomic guard region is not supported")
		}
		return a.expandNegatedAtom(inner.apIndex, apNames)
	default:
		return constraint.SubConstraint{}, polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", "", "unrecognized label kind")
	}
}

func (a *LDBA) expandAtom(apIndex int, apNames []string) (constraint.SubConstraint, error) {
	name, err := apName(apIndex, apNames)
	if err != nil {
		return constraint.SubConstraint{}, err
	}
	region, ok := a.Lookup(name)
	if !ok {
		return constraint.SubConstraint{}, polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", name, "no predicate lookup entry for atomic proposition")
	}
	return constraint.Leaf(region...), nil
}

func (a *LDBA) expandNegatedAtom(apIndex int, apNames []string) (constraint.SubConstraint, error) {
	name, err := apName(apIndex, apNames)
	if err != nil {
		return constraint.SubConstraint{}, err
	}
	region, ok := a.Lookup(name)
	if !ok {
		return constraint.SubConstraint{}, polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", name, "no predicate lookup entry for atomic proposition")
	}

	// De Morgan over the region's implicit conjunction: negating
	// ineq1 ∧ ineq2 ∧ ... becomes ¬ineq1 ∨ ¬ineq2 ∨ ..., each negated
	// inequality obtained by flipping its relation.
	negated := make([]constraint.SubConstraint, 0, len(region))
	for _, ineq := range region {
		flipped, err := negateRelation(ineq)
		if err != nil {
			return constraint.SubConstraint{}, err
		}
		negated = append(negated, constraint.Leaf(flipped))
	}
	if len(negated) == 0 {
		return constraint.True(), nil
	}
	out := negated[0]
	for _, n := range negated[1:] {
		out = constraint.Or2(out, n)
	}
	return out, nil
}

func negateRelation(ineq algebra.Inequality) (algebra.Inequality, error) {
	var flipped algebra.Relation
	switch ineq.Relation {
	case algebra.GE:
		flipped = algebra.LT
	case algebra.LE:
		flipped = algebra.GT
	case algebra.GT:
		flipped = algebra.LE
	case algebra.LT:
		flipped = algebra.GE
	default:
		return algebra.Inequality{}, polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", ineq.Relation.String(), "cannot negate an equality relation; no disequality relation is representable")
	}
	return algebra.NewInequality(ineq.LHS, flipped, ineq.RHS), nil
}

func apName(index int, apNames []string) (string, error) {
	if index < 0 || index >= len(apNames) {
		return "", polyerr.New(polyerr.Model, "GENERATE_CONSTRAINTS", "", "atomic proposition index out of range")
	}
	return apNames[index], nil
}
