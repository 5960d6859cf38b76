package constraintgen

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
)

// VariableSanity implements 4.5.6 for the reach variant: the single
// scalar synthesis parameter epsilon_reach must be strictly (almost)
// positive, epsilon_reach >= 1e-15.
func VariableSanity(ctx Context) []constraint.ConstraintConstant {
	return []constraint.ConstraintConstant{
		{Inequality: algebra.NewInequality(ctx.Variables.EpsilonReach, algebra.GE, ctx.Variables.AlmostZeroEq)},
	}
}
