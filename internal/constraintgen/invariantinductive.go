package constraintgen

import (
	"errors"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/constraint"
)

// InvariantInductive implements 4.5.5, the optional inductiveness clause.
// For every state q, every conditional dynamics block, and every
// transition (q -> q') labeled L:
//
//	forall S, w in SystemSpace and noise-bounds and D.guard(S, pi(S), w)
//	   and L(q -> q') and Inv(S, q) >= 0
//	   => Inv(Succ(S, pi(S), w), q') >= 0
//
// Transitions whose label can never hold are elided rather than treated
// as an error. Emits nothing when invariants are disabled.
func InvariantInductive(ctx Context) ([]constraint.ConstraintImplication, error) {
	if !ctx.Invariant.Enabled() {
		return nil, nil
	}

	var out []constraint.ConstraintImplication
	stateVars := ctx.Dynamics.StateVars()
	noiseVars := ctx.Noise.Names()
	noiseBounds := constraint.Leaf(ctx.Noise.Bounds()...)

	action, err := reachPolicyAction(ctx.ControlPolicy)
	if err != nil {
		return nil, err
	}

	for _, branch := range ctx.Dynamics.Branches {
		guard := constraint.Leaf(branch.Guard...)

		for _, q := range ctx.Automaton.States() {
			currentInv := invariantAt(ctx.Invariant, q)

			for _, tr := range ctx.Automaton.TransitionsFrom(q) {
				label, err := ctx.Automaton.ExpandGuard(tr.Label, ctx.APNames)
				if errors.Is(err, automaton.ErrUnsatisfiable) {
					continue
				}
				if err != nil {
					return nil, err
				}

				lhs := constraint.And2(
					constraint.And2(spaceConstraint(ctx.SystemSpace), noiseBounds),
					constraint.And2(guard, constraint.And2(label, currentInv)),
				)

				nextState := nextStateUnderAction(stateVars, branch, action)
				nextInv := ctx.Invariant.At(tr.To).Substitute(nextState)
				rhs := constraint.Leaf(algebra.NewInequality(nextInv, algebra.GE, algebra.FromFloat(0)))

				vars := collectVars(stateVars, noiseVars, lhs, rhs)
				out = append(out, constraint.NewImplication(vars, lhs, rhs))
			}
		}
	}
	return out, nil
}
