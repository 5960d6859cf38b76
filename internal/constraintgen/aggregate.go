package constraintgen

import "github.com/kmallik/polycert/internal/constraint"

// Result is the full set of constraints GENERATE_CONSTRAINTS hands to
// the solver bridge: the universally-quantified implications and the
// constant (parameter-only) inequalities.
type Result struct {
	Implications []constraint.ConstraintImplication
	Constants    []constraint.ConstraintConstant
}

// Generate runs every constraint generator named in spec section 4.5, in
// the fixed order controller bounds, non-negativity, strict expected
// decrease, invariant initiality, invariant inductiveness, variable
// sanity, and (when ctx.ReachAvoid is set) the reach-avoid safety
// generators of section 4.5.7.
func Generate(ctx Context) (Result, error) {
	var res Result

	bounds, err := ControllerBounds(ctx)
	if err != nil {
		return Result{}, err
	}
	res.Implications = append(res.Implications, bounds...)

	res.Implications = append(res.Implications, NonNegativity(ctx)...)

	sed, err := StrictExpectedDecrease(ctx)
	if err != nil {
		return Result{}, err
	}
	res.Implications = append(res.Implications, sed...)

	res.Implications = append(res.Implications, InvariantInitial(ctx)...)

	inductive, err := InvariantInductive(ctx)
	if err != nil {
		return Result{}, err
	}
	res.Implications = append(res.Implications, inductive...)

	res.Constants = append(res.Constants, VariableSanity(ctx)...)

	if ctx.ReachAvoid != nil {
		res.Implications = append(res.Implications, SafetyNonNegativity(ctx)...)

		increase, err := SafetyBoundedExpectedIncrease(ctx)
		if err != nil {
			return Result{}, err
		}
		res.Implications = append(res.Implications, increase...)

		res.Constants = append(res.Constants, SafetyVariableSanity(ctx)...)
	}

	return res, nil
}
