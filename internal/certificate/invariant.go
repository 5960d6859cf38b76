package certificate

import "github.com/kmallik/polycert/internal/algebra"

// Invariant is the auxiliary non-negative polynomial carried through the
// initial and inductive constraints to strengthen the Positivstellensatz
// deduction. It is queried per automaton state, exactly like a Template,
// but is allowed a trivial ⊤ implementation when invariants are disabled.
type Invariant interface {
	// At returns the invariant polynomial for automaton state q.
	At(q int) algebra.Equation
	// Enabled reports whether this is a real invariant (true) or the
	// fake ⊤ template (false).
	Enabled() bool
	// GeneratedConstants returns the coefficient names this invariant
	// introduced; empty for the fake template.
	GeneratedConstants() map[string]struct{}
}

// realInvariant wraps a per-state Template of type Inv used as an
// invariant; the Inv type gives its coefficients the "V_inv" prefix, so
// they never collide with the reach certificate's "V_reach" names. Only
// its per-state polynomials and coefficients are consulted.
type realInvariant struct {
	tpl *Template
}

// NewInvariant builds a real invariant template: one polynomial per
// automaton state, same degree-bounded shape as a certificate template.
func NewInvariant(stateDimension, abstractionDimension, maximalPolynomialDegree int, variableGenerators []string) Invariant {
	return &realInvariant{tpl: New(stateDimension, abstractionDimension, maximalPolynomialDegree, variableGenerators, Inv, nil)}
}

func (r *realInvariant) At(q int) algebra.Equation { return r.tpl.At(q) }
func (r *realInvariant) Enabled() bool             { return true }
func (r *realInvariant) GeneratedConstants() map[string]struct{} {
	return r.tpl.GeneratedConstants()
}

// fakeInvariant is the trivially-true invariant used when
// enable_linear_invariants is false: every query returns the empty
// constraint ⊤ (represented here as the zero polynomial, which every
// non-negativity generator treats as "0 >= 0", a tautology), and it owns
// no coefficients.
type fakeInvariant struct{}

// NewFakeInvariant builds the disabled-invariant stand-in.
func NewFakeInvariant() Invariant { return fakeInvariant{} }

func (fakeInvariant) At(q int) algebra.Equation               { return algebra.Zero() }
func (fakeInvariant) Enabled() bool                           { return false }
func (fakeInvariant) GeneratedConstants() map[string]struct{} { return map[string]struct{}{} }
