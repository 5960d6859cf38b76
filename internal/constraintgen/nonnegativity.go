package constraintgen

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
)

// NonNegativity implements 4.5.2: for every automaton state q,
//
//	forall S in SystemSpace and Inv(S, q) => V_reach_q(S) >= 0
func NonNegativity(ctx Context) []constraint.ConstraintImplication {
	out := make([]constraint.ConstraintImplication, 0, len(ctx.Automaton.States()))
	stateVars := ctx.Dynamics.StateVars()

	for _, q := range ctx.Automaton.States() {
		lhs := constraint.And2(spaceConstraint(ctx.SystemSpace), invariantAt(ctx.Invariant, q))
		rhs := constraint.Leaf(algebra.NewInequality(ctx.Certificate.At(q), algebra.GE, algebra.FromFloat(0)))
		vars := collectVars(stateVars, nil, lhs, rhs)
		out = append(out, constraint.NewImplication(vars, lhs, rhs))
	}
	return out
}
