package constraintgen

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
)

// SafetyNonNegativity implements the reach-avoid counterpart of 4.5.2
// ([ADD], SPEC_FULL.md 4.5.7): for every automaton state q,
//
//	forall S in SystemSpace and Inv(S, q) => V_safe_q(S) >= 0
//
// Only meaningful, and only called, when ctx.ReachAvoid is set.
func SafetyNonNegativity(ctx Context) []constraint.ConstraintImplication {
	ra := ctx.ReachAvoid
	out := make([]constraint.ConstraintImplication, 0, len(ctx.Automaton.States()))
	stateVars := ctx.Dynamics.StateVars()

	for _, q := range ctx.Automaton.States() {
		lhs := constraint.And2(spaceConstraint(ctx.SystemSpace), invariantAt(ctx.Invariant, q))
		rhs := constraint.Leaf(algebra.NewInequality(ra.SafeCertificate.At(q), algebra.GE, algebra.FromFloat(0)))
		vars := collectVars(stateVars, nil, lhs, rhs)
		out = append(out, constraint.NewImplication(vars, lhs, rhs))
	}
	return out
}

// SafetyBoundedExpectedIncrease implements the reach-avoid counterpart
// of strict expected decrease ([ADD], SPEC_FULL.md 4.5.7): the safety
// certificate is allowed to increase in expectation, but only up to the
// synthesis parameter eta_safe, for every dynamics block and every
// transition of the automaton:
//
//	forall S in SystemSpace and Inv(S, q) =>
//	   E[V_safe_q'(Succ(S, pi(S), w))] - V_safe_q(S) <= eta_safe
func SafetyBoundedExpectedIncrease(ctx Context) ([]constraint.ConstraintImplication, error) {
	ra := ctx.ReachAvoid
	var out []constraint.ConstraintImplication
	stateVars := ctx.Dynamics.StateVars()
	noiseVars := ctx.Noise.Names()
	expectations := ctx.Noise.Expectations()

	action, err := reachPolicyAction(ctx.ControlPolicy)
	if err != nil {
		return nil, err
	}

	for _, branch := range ctx.Dynamics.Branches {
		for _, q := range ctx.Automaton.States() {
			lhs := constraint.And2(spaceConstraint(ctx.SystemSpace), invariantAt(ctx.Invariant, q))

			for _, tr := range ctx.Automaton.TransitionsFrom(q) {
				nextState := nextStateUnderAction(stateVars, branch, action)
				nextV := ra.SafeCertificate.At(tr.To).Substitute(nextState)
				expectedNextV := nextV.Substitute(expectations)

				increase := expectedNextV.Sub(ra.SafeCertificate.At(q)).Sub(ra.Variables.EtaSafe)
				rhs := constraint.Leaf(algebra.NewInequality(increase, algebra.LE, algebra.FromFloat(0)))

				vars := collectVars(stateVars, noiseVars, lhs, rhs)
				out = append(out, constraint.NewImplication(vars, lhs, rhs))
			}
		}
	}
	return out, nil
}

// SafetyVariableSanity extends variable sanity with the reach-avoid
// scalars: epsilon_safe >= 1e-15, eta_safe <= 0, and
// eta_safe*epsilon_safe <= the closed-form upper bound computed from the
// probability threshold and delta_safe.
func SafetyVariableSanity(ctx Context) []constraint.ConstraintConstant {
	ra := ctx.ReachAvoid
	v := ra.Variables
	return []constraint.ConstraintConstant{
		{Inequality: algebra.NewInequality(v.EpsilonSafe, algebra.GE, v.AlmostZeroEq)},
		{Inequality: algebra.NewInequality(v.EtaSafe, algebra.LE, v.ZeroEq)},
		{Inequality: algebra.NewInequality(v.EtaEpsilonEq, algebra.LE, v.EtaEpsilonUpperBoundEq)},
	}
}
