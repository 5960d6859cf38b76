// Package certificate builds the parametric polynomial templates used by
// the constraint generators: one certificate polynomial per automaton
// state (reach and, for the reach-avoid variant, safe), the scalar
// synthesis parameters that accompany them, and the invariant template
// (real or the trivially-true fake variant).
package certificate

import (
	"fmt"

	"github.com/kmallik/polycert/internal/algebra"
)

// Type distinguishes the certificate families a Template can build.
type Type int

const (
	Reach Type = iota
	Safe
	// Inv is the type of the per-state invariant template, kept distinct
	// so its coefficients never share names with a certificate's.
	Inv
)

// Signature returns the coefficient-name prefix for this template type,
// e.g. "V_reach", "V_safe" or "V_inv".
func (t Type) Signature() string {
	switch t {
	case Safe:
		return "V_safe"
	case Inv:
		return "V_inv"
	default:
		return "V_reach"
	}
}

func (t Type) String() string {
	switch t {
	case Safe:
		return "Safe "
	case Inv:
		return "Inv  "
	default:
		return "Reach"
	}
}

// Template is a family of per-automaton-state polynomials of a single
// type, each built from the same fixed-order monomial enumeration with
// fresh coefficients. InstanceID distinguishes multiple simultaneous
// heads of the same type (unused by the reach-only variant, which has
// exactly one REACH head at instance 0).
type Template struct {
	StateDimension          int
	AbstractionDimension    int
	MaximalPolynomialDegree int
	VariableGenerators      []string
	Type                    Type
	InstanceID              *int

	perState           map[int]algebra.Equation
	generatedConstants map[string]struct{}
}

// New builds a Template: one polynomial per automaton state id
// 0..abstractionDimension-1, each a linear combination of every monomial
// of total degree <= maximalPolynomialDegree over variableGenerators,
// scaled by a freshly named coefficient.
func New(stateDimension, abstractionDimension, maximalPolynomialDegree int, variableGenerators []string, typ Type, instanceID *int) *Template {
	tpl := &Template{
		StateDimension:          stateDimension,
		AbstractionDimension:    abstractionDimension,
		MaximalPolynomialDegree: maximalPolynomialDegree,
		VariableGenerators:      variableGenerators,
		Type:                    typ,
		InstanceID:              instanceID,
		perState:                map[int]algebra.Equation{},
		generatedConstants:      map[string]struct{}{},
	}
	tpl.build()
	return tpl
}

func (t *Template) signature() string {
	sig := t.Type.Signature()
	if t.InstanceID != nil {
		sig = fmt.Sprintf("%s%d", sig, *t.InstanceID)
	}
	return sig
}

func (t *Template) build() {
	monos := algebra.EnumerateMonomials(t.VariableGenerators, t.MaximalPolynomialDegree)
	sig := t.signature()

	for q := 0; q < t.AbstractionDimension; q++ {
		prefix := fmt.Sprintf("%s_%d", sig, q)
		terms := make([]algebra.Monomial, 0, len(monos))
		for k, m := range monos {
			coeffName := fmt.Sprintf("%s_%d", prefix, k)
			t.generatedConstants[coeffName] = struct{}{}

			powers := append(append([]algebra.VarPower{}, m.Powers...), algebra.VarPower{Name: coeffName, Power: 1})
			terms = append(terms, algebra.NewMonomial(1, powers...))
		}
		t.perState[q] = algebra.New(terms...)
	}
}

// At returns the certificate polynomial for automaton state q.
func (t *Template) At(q int) algebra.Equation {
	return t.perState[q]
}

// GeneratedConstants returns the set of coefficient names this template
// introduced.
func (t *Template) GeneratedConstants() map[string]struct{} {
	out := make(map[string]struct{}, len(t.generatedConstants))
	for k := range t.generatedConstants {
		out[k] = struct{}{}
	}
	return out
}

func (t *Template) String() string {
	return fmt.Sprintf("Template(V=%s, |S|=%d, |Q|=%d, |C|=%d, deg=%d)",
		t.Type, t.StateDimension, t.AbstractionDimension, len(t.generatedConstants), t.MaximalPolynomialDegree)
}
