// Package constraintgen turns a fully assembled synthesis context (system
// model, automaton, control policy, certificate template, invariant) into
// the finite list of ConstraintImplication values the solver bridge will
// serialize. Each generator below realizes one clause of spec section
// 4.5: controller bounds, non-negativity, strict expected decrease,
// invariant initiality/inductiveness, and variable sanity.
package constraintgen

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/certificate"
	"github.com/kmallik/polycert/internal/constraint"
	"github.com/kmallik/polycert/internal/model"
	"github.com/kmallik/polycert/internal/policy"
)

// Context bundles every already-constructed piece the generators read
// from. It owns nothing and mutates nothing; generators are pure
// functions of a Context.
type Context struct {
	SystemSpace  model.Space
	InitialSpace model.Space
	Dynamics     model.Dynamics
	Noise        model.Noise

	Automaton *automaton.LDBA
	APNames   []string

	ControlPolicy *policy.Decomposed
	Certificate   *certificate.Template
	Invariant     certificate.Invariant
	Variables     *certificate.ReachVariables

	// ReachAvoid carries the safety-template pieces used only when
	// --reach-avoid synthesis is requested (SPEC_FULL.md 4.5.7); nil in
	// the default reach-only pipeline.
	ReachAvoid *ReachAvoidContext
}

// ReachAvoidContext bundles the additional template and scalar
// parameters the reach-avoid constraint generators consume.
type ReachAvoidContext struct {
	SafeCertificate *certificate.Template
	Variables       *certificate.ReachAvoidVariables
	DeltaSafe       float64
}

// spaceConstraint renders a Space as a conjunctive SubConstraint leaf.
func spaceConstraint(s model.Space) constraint.SubConstraint {
	return constraint.Leaf(s.Inequalities...)
}

// invariantAt renders Inv(S, q) >= 0 as a SubConstraint, or the trivial
// True() constraint when invariants are disabled.
func invariantAt(inv certificate.Invariant, q int) constraint.SubConstraint {
	if !inv.Enabled() {
		return constraint.True()
	}
	return constraint.Leaf(algebra.NewInequality(inv.At(q), algebra.GE, algebra.FromFloat(0)))
}

// reachPolicyAction evaluates the sole reach policy symbolically at the
// current state, returning the "A1".."Am" substitution map the dynamics
// consume. Action dimension 0 yields the empty map.
func reachPolicyAction(cp *policy.Decomposed) (map[string]algebra.Equation, error) {
	p, err := cp.GetPolicy(policy.Reach)
	if err != nil {
		return nil, err
	}
	return p.Apply(map[string]algebra.Equation{}), nil
}

// nextStateUnderAction substitutes the given action assignment into every
// state-variable transform of branch, leaving state and noise generators
// symbolic. The result maps each state generator name to its next-state
// equation over S1..Sn and D1..Dk.
func nextStateUnderAction(stateVars []string, branch model.ConditionalDynamics, action map[string]algebra.Equation) map[string]algebra.Equation {
	out := make(map[string]algebra.Equation, len(stateVars))
	for _, sv := range stateVars {
		eq, ok := branch.NextState(sv, action)
		if !ok {
			continue
		}
		out[sv] = eq
	}
	return out
}

// collectVars computes the variable set carried on a ConstraintImplication:
// state generators, noise generators, and every coefficient name
// appearing in lhs or rhs.
func collectVars(stateVars, noiseVars []string, lhs, rhs constraint.SubConstraint) map[string]struct{} {
	out := make(map[string]struct{}, len(stateVars)+len(noiseVars))
	for _, v := range stateVars {
		out[v] = struct{}{}
	}
	for _, v := range noiseVars {
		out[v] = struct{}{}
	}
	for _, ineq := range lhs.Flatten() {
		for name := range ineq.SymbolicConstants() {
			out[name] = struct{}{}
		}
	}
	for _, ineq := range rhs.Flatten() {
		for name := range ineq.SymbolicConstants() {
			out[name] = struct{}{}
		}
	}
	return out
}
