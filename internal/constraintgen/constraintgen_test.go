package constraintgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/certificate"
	"github.com/kmallik/polycert/internal/model"
	"github.com/kmallik/polycert/internal/policy"
)

const sampleHOA = `HOA: v1
States: 2
Start: 0
AP: 1 "safe"
acc-name: Buchi
Acceptance: 1 Inf(0)
--BODY--
State: 0
[0] 0
[!0] 1
State: 1
[t] 1 {0}
--END--
`

func buildContext(t *testing.T, enableInvariant bool) Context {
	t.Helper()

	a, apNames, err := automaton.ParseHOA(sampleHOA)
	require.NoError(t, err)
	a.SetPredicate("safe", []algebra.Inequality{
		algebra.NewInequality(algebra.FromSymbol("S1"), algebra.GE, algebra.FromFloat(0)),
	})

	sys, err := model.NewSpace("CONSTRUCT_SYSTEM_STATES", []string{"S1 >= 0", "S1 <= 10"})
	require.NoError(t, err)
	initial, err := model.NewSpace("CONSTRUCT_SYSTEM_STATES", []string{"S1 >= 0", "S1 <= 1"})
	require.NoError(t, err)

	dyn, err := model.NewDynamics(1, []model.ConditionalDynamicsSpec{
		{Guard: nil, Transform: map[string]string{"S1": "S1 + A1 + D1"}},
	})
	require.NoError(t, err)

	noise, err := model.NewNoise([]model.NoiseSpec{
		{Min: -0.1, Max: 0.1, Expectation: "0"},
	})
	require.NoError(t, err)

	cp := policy.NewSynthesizedDecomposed(1, 1, 1, a.NumStates, policy.Limits{})

	cert := certificate.New(1, a.NumStates, 2, []string{"S1"}, certificate.Reach, nil)

	var inv certificate.Invariant
	if enableInvariant {
		inv = certificate.NewInvariant(1, a.NumStates, 1, []string{"S1"})
	} else {
		inv = certificate.NewFakeInvariant()
	}

	vars := certificate.NewReachVariables(0.9)

	return Context{
		SystemSpace:   sys,
		InitialSpace:  initial,
		Dynamics:      dyn,
		Noise:         noise,
		Automaton:     a,
		APNames:       apNames,
		ControlPolicy: cp,
		Certificate:   cert,
		Invariant:     inv,
		Variables:     vars,
	}
}

func TestControllerBounds_OneImplicationPerActionWithEveryConfiguredLimit(t *testing.T) {
	ctx := buildContext(t, false)
	min, max := -1.0, 1.0
	ctx.ControlPolicy.Limits = policy.Limits{Min: &min, Max: &max}

	implications, err := ControllerBounds(ctx)
	require.NoError(t, err)
	assert.Len(t, implications, 1)
	assert.Len(t, implications[0].RHS.Inequalities, 2)
}

func TestControllerBounds_NoLimitsYieldsNoConstraints(t *testing.T) {
	ctx := buildContext(t, false)
	implications, err := ControllerBounds(ctx)
	require.NoError(t, err)
	assert.Empty(t, implications)
}

func TestNonNegativity_OnePerState(t *testing.T) {
	ctx := buildContext(t, false)
	implications := NonNegativity(ctx)
	assert.Len(t, implications, ctx.Automaton.NumStates)
}

func TestStrictDecrease_AmbiguousInvariantIndex(t *testing.T) {
	ctx := buildContext(t, true)

	implications, err := StrictExpectedDecrease(ctx)
	require.NoError(t, err)
	// state 0 is the only non-accepting, non-rejecting state; it has two
	// outgoing transitions, and there is exactly one accepting
	// component id (state 1) to cross with.
	require.Len(t, implications, 2)

	wantLHS := constraintLeafString(t, invariantAt(ctx.Invariant, 1))
	for _, ci := range implications {
		gotLHS := constraintLeafString(t, ci.LHS)
		assert.Contains(t, gotLHS, wantLHS, "lhs invariant must be indexed by the accepting component id, not the transition's source state")
	}
}

func constraintLeafString(t *testing.T, sc interface{ String() string }) string {
	t.Helper()
	return sc.String()
}

func TestInvariantInitial_DisabledWhenInvariantIsFake(t *testing.T) {
	ctx := buildContext(t, false)
	assert.Empty(t, InvariantInitial(ctx))
}

func TestInvariantInitial_EmittedWhenEnabled(t *testing.T) {
	ctx := buildContext(t, true)
	implications := InvariantInitial(ctx)
	require.Len(t, implications, 1)
}

func TestInvariantInductive_OneImplicationPerSatisfiableTransition(t *testing.T) {
	ctx := buildContext(t, true)
	implications, err := InvariantInductive(ctx)
	require.NoError(t, err)
	// state 0 -> 0 (guard "safe") and state 0 -> 1 (guard !safe); state
	// 1 -> 1 ("t"); none of these labels reduce to the literal false
	// label, so all three transitions contribute one implication each.
	assert.Len(t, implications, 3)
}

func TestVariableSanity_EmitsEpsilonReachBound(t *testing.T) {
	ctx := buildContext(t, false)
	constants := VariableSanity(ctx)
	require.Len(t, constants, 1)
	assert.Equal(t, algebra.GE, constants[0].Inequality.Relation)
}

func TestGenerate_ProducesDeterministicVarOrdering(t *testing.T) {
	ctx := buildContext(t, false)
	result, err := Generate(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.Implications)

	for _, ci := range result.Implications {
		for i := 1; i < len(ci.Vars); i++ {
			assert.LessOrEqual(t, ci.Vars[i-1], ci.Vars[i])
		}
	}
}
