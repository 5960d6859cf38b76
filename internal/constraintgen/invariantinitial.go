package constraintgen

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
)

// InvariantInitial implements 4.5.4, the optional initiality clause:
//
//	forall S in SystemSpace and InitialSpace => Inv(S, q_start) >= 0
//
// Emits nothing when invariants are disabled (the fake ⊤ invariant),
// since the clause would be a vacuous "0 >= 0" carrying no information.
func InvariantInitial(ctx Context) []constraint.ConstraintImplication {
	if !ctx.Invariant.Enabled() {
		return nil
	}

	stateVars := ctx.Dynamics.StateVars()
	lhs := constraint.And2(spaceConstraint(ctx.SystemSpace), spaceConstraint(ctx.InitialSpace))
	rhs := constraint.Leaf(algebra.NewInequality(ctx.Invariant.At(ctx.Automaton.Start), algebra.GE, algebra.FromFloat(0)))
	vars := collectVars(stateVars, nil, lhs, rhs)
	return []constraint.ConstraintImplication{constraint.NewImplication(vars, lhs, rhs)}
}
