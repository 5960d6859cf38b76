package constraintgen

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
)

// StrictExpectedDecrease implements 4.5.3. For every conditional dynamics
// block, every non-accepting non-rejecting state q, every accepting
// component id q_acc, and every transition (q -> q'):
//
//	forall S in SystemSpace and Inv(S, q_acc) =>
//	   V_reach_q(S) - epsilon_reach - E[V_reach_q'(Succ(S, pi(S), w))] >= 0
//
// The lhs invariant is looked up at q_acc, the accepting-component id,
// not at q, the state the transition is actually taken from — this
// mismatch is carried over deliberately from the source this generator
// is grounded on and is pinned by a dedicated test.
func StrictExpectedDecrease(ctx Context) ([]constraint.ConstraintImplication, error) {
	var out []constraint.ConstraintImplication
	stateVars := ctx.Dynamics.StateVars()
	noiseVars := ctx.Noise.Names()
	expectations := ctx.Noise.Expectations()

	action, err := reachPolicyAction(ctx.ControlPolicy)
	if err != nil {
		return nil, err
	}

	acceptingIDs := ctx.Automaton.AcceptingStates()

	for _, branch := range ctx.Dynamics.Branches {
		for _, q := range ctx.Automaton.States() {
			if ctx.Automaton.IsAccepting(q) || ctx.Automaton.IsRejecting(q) {
				continue
			}
			for _, qAcc := range acceptingIDs {
				lhs := constraint.And2(spaceConstraint(ctx.SystemSpace), invariantAt(ctx.Invariant, qAcc))

				for _, tr := range ctx.Automaton.TransitionsFrom(q) {
					nextState := nextStateUnderAction(stateVars, branch, action)
					nextV := ctx.Certificate.At(tr.To).Substitute(nextState)
					expectedNextV := nextV.Substitute(expectations)

					currentV := ctx.Certificate.At(q)
					decrease := currentV.Sub(ctx.Variables.EpsilonReach).Sub(expectedNextV)

					rhs := constraint.Leaf(algebra.NewInequality(decrease, algebra.GE, algebra.FromFloat(0)))
					vars := collectVars(stateVars, noiseVars, lhs, rhs)
					out = append(out, constraint.NewImplication(vars, lhs, rhs))
				}
			}
		}
	}
	return out, nil
}
