package constraintgen

import (
	"fmt"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
	"github.com/kmallik/polycert/internal/policy"
)

// ControllerBounds implements 4.5.1: for every policy transition, emit
//
//	forall S in SystemSpace => (transition(S) >= min) and (transition(S) <= max)
//
// one implication per action dimension, whose rhs carries one inequality
// per configured limit. A policy with no limits configured on either side
// contributes no constraints.
func ControllerBounds(ctx Context) ([]constraint.ConstraintImplication, error) {
	p, err := ctx.ControlPolicy.GetPolicy(policy.Reach)
	if err != nil {
		return nil, err
	}

	var out []constraint.ConstraintImplication
	action := p.Apply(map[string]algebra.Equation{})
	stateVars := ctx.Dynamics.StateVars()
	limits := ctx.ControlPolicy.Limits

	for i := 1; i <= p.ActionDimension; i++ {
		transition := action[fmt.Sprintf("A%d", i)]
		ineqs := boundsForTransition(transition, limits)
		if len(ineqs) == 0 {
			continue
		}
		lhs := spaceConstraint(ctx.SystemSpace)
		rhs := constraint.Leaf(ineqs...)
		vars := collectVars(stateVars, nil, lhs, rhs)
		out = append(out, constraint.NewImplication(vars, lhs, rhs))
	}
	return out, nil
}

func boundsForTransition(transition algebra.Equation, limits policy.Limits) []algebra.Inequality {
	var ineqs []algebra.Inequality
	if limits.Min != nil {
		ineqs = append(ineqs, algebra.NewInequality(transition, algebra.GE, algebra.FromFloat(*limits.Min)))
	}
	if limits.Max != nil {
		ineqs = append(ineqs, algebra.NewInequality(transition, algebra.LE, algebra.FromFloat(*limits.Max)))
	}
	return ineqs
}
