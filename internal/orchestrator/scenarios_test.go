package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/model"
)

// trivialReachHOA is a 2-state Buchi automaton for "F target": state 0
// loops until the target predicate holds, then moves to the accepting
// absorbing state 1.
const trivialReachHOA = `HOA: v1
States: 2
Start: 0
AP: 1 "target"
acc-name: Buchi
Acceptance: 1 Inf(0)
--BODY--
State: 0
[0] 1
[!0] 0
State: 1
[t] 1 {0}
--END--
`

// twoStateSafeHOA is a 2-state Buchi automaton for "F G safe": state 0 is
// the search phase, state 1 is entered once safe has held and is
// accepting as long as it continues to hold.
const twoStateSafeHOA = `HOA: v1
States: 2
Start: 0
AP: 1 "safe"
acc-name: Buchi
Acceptance: 1 Inf(0)
--BODY--
State: 0
[0] 1
[!0] 0
State: 1
[0] 1 {0}
[!0] 0
--END--
`

// twoPredicateHOA declares its atomic propositions in an order that does
// not match either alphabetical or map-iteration order, so a regression
// that rebuilds APNames from a map instead of keeping ParseHOA's header
// order has a real chance of being caught: AP 0 is "zzz_high" (the
// alphabetically-last name), AP 1 is "aaa_low" (the alphabetically-first
// one).
const twoPredicateHOA = `HOA: v1
States: 1
Start: 0
AP: 2 "zzz_high" "aaa_low"
acc-name: Buchi
Acceptance: 1 Inf(0)
--BODY--
State: 0
[0] 0 {0}
[1] 0 {0}
--END--
`

// TestScenario_MultiplePredicates_PreservesHOAHeaderOrder pins APNames to
// the exact HOA header order and confirms ExpandGuard attaches each
// transition's label to the correct predicate region by positional
// index, not by whatever order a map would have iterated the predicate
// names in.
func TestScenario_MultiplePredicates_PreservesHOAHeaderOrder(t *testing.T) {
	cfg := model.Config{
		StateDimension:  1,
		ActionDimension: 1,
		LTLFormula:      "G (zzz_high | aaa_low)",
		SystemSpace:     []string{"S1 >= 0", "S1 <= 10"},
		InitialSpace:    []string{"S1 >= 0", "S1 <= 1"},
		Predicates: map[string][]string{
			"zzz_high": {"S1 >= 9"},
			"aaa_low":  {"S1 <= 1"},
		},
		Dynamics: []model.ConditionalDynamicsSpec{
			{Transform: map[string]string{"S1": "S1 + A1 + D1"}},
		},
		Noise: []model.NoiseSpec{
			{Min: -0.1, Max: 0.1, Expectation: "0"},
		},
		Synthesis: model.SynthesisConfig{
			ProbabilityThreshold:    0.9,
			MaximalPolynomialDegree: 2,
			SolverDegreeCap:         2,
		},
	}
	ctx := NewContext(uuid.New(), cfg, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, ctx, twoPredicateHOA)

	require.Equal(t, []string{"zzz_high", "aaa_low"}, ctx.APNames)

	transitions := ctx.Automaton.TransitionsFrom(0)
	require.Len(t, transitions, 2)

	highRegion, err := ctx.Automaton.ExpandGuard(transitions[0].Label, ctx.APNames)
	require.NoError(t, err)
	require.Len(t, highRegion.Inequalities, 1)
	assert.Equal(t, "S1 >= 9", highRegion.Inequalities[0].String())

	lowRegion, err := ctx.Automaton.ExpandGuard(transitions[1].Label, ctx.APNames)
	require.NoError(t, err)
	require.Len(t, lowRegion.Inequalities, 1)
	assert.Equal(t, "S1 <= 1", lowRegion.Inequalities[0].String())
}

// scenarioConfig builds the one-dimensional reach config used by S1, S2,
// S3, S5, and S6: a single state variable bounded in [0, 10], nudged by
// a bounded action and zero-mean noise, reaching target = {S1 >= 9}.
func scenarioConfig(controllerMin, controllerMax, threshold float64) model.Config {
	min, max := controllerMin, controllerMax
	return model.Config{
		StateDimension:  1,
		ActionDimension: 1,
		LTLFormula:      "F target",
		SystemSpace:     []string{"S1 >= 0", "S1 <= 10"},
		InitialSpace:    []string{"S1 >= 0", "S1 <= 1"},
		Predicates:      map[string][]string{"target": {"S1 >= 9"}},
		Dynamics: []model.ConditionalDynamicsSpec{
			{Transform: map[string]string{"S1": "S1 + A1 + D1"}},
		},
		Noise: []model.NoiseSpec{
			{Min: -0.1, Max: 0.1, Expectation: "0"},
		},
		Synthesis: model.SynthesisConfig{
			ProbabilityThreshold:    threshold,
			MaximalPolynomialDegree: 2,
			SolverDegreeCap:         2,
		},
		ControllerMin: &min,
		ControllerMax: &max,
	}
}

// runThroughGenerateConstraints drives ctx through every phase up to and
// including GENERATE_CONSTRAINTS, wiring the automaton in directly from
// hoa rather than invoking the external LTL translator, since no such
// binary is available in this environment.
func runThroughGenerateConstraints(t *testing.T, ctx *Context, hoa string) {
	t.Helper()
	require.NoError(t, runParseInput(ctx))
	require.NoError(t, runPrepareReqs(ctx))

	a, apNames, err := automaton.ParseHOA(hoa)
	require.NoError(t, err)
	for _, name := range apNames {
		region, ok := ctx.Input.Predicates[name]
		require.True(t, ok, "formula references undeclared predicate %q", name)
		space, err := model.NewSpace("CONSTRUCT_SYSTEM_STATES", region)
		require.NoError(t, err)
		a.SetPredicate(name, space.Inequalities)
	}
	ctx.Automaton = a
	ctx.APNames = apNames

	require.NoError(t, runPolicyPrep(ctx))
	require.NoError(t, runSynthesizeInvariants(ctx))
	require.NoError(t, runSynthesizeTemplate(ctx))
	require.NoError(t, runGenerateConstraints(ctx))
}

// S1: a feasible reach instance (wide action bounds, modest threshold)
// should flow cleanly through constraint generation and produce a
// well-formed solver input, with the probability-threshold scalar bound
// away from zero.
func TestScenario_TrivialReach_GeneratesSolverInput(t *testing.T) {
	cfg := scenarioConfig(-1, 1, 0.9)
	ctx := NewContext(uuid.New(), cfg, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, ctx, trivialReachHOA)

	assert.NotEmpty(t, ctx.Constraints.Implications)
	assert.NotEmpty(t, ctx.Constraints.Constants)
	assert.Greater(t, ctx.Variables.ProbabilityThreshold, 0.0)

	require.NoError(t, runPrepareSolverInputs(ctx))
	smtPath := filepath.Join(ctx.Options.OutputDir, "solver_input.smt2")
	data, err := os.ReadFile(smtPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

// S2: a near-infeasible reach instance (action bounds too tight to reach
// the target within the noise envelope) still flows through constraint
// generation the same way; the infeasibility only shows up once the
// solver actually runs, so this only pins that generation never
// short-circuits or errors out just because the instance is hard.
func TestScenario_InfeasibleReach_StillGeneratesConstraints(t *testing.T) {
	cfg := scenarioConfig(-0.01, 0.01, 0.99)
	ctx := NewContext(uuid.New(), cfg, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, ctx, trivialReachHOA)

	assert.NotEmpty(t, ctx.Constraints.Implications)
	assert.Greater(t, ctx.Variables.ProbabilityThreshold, 0.0)
}

// S3: verification mode (a fixed policy supplied instead of a synthesis
// template) must not introduce any policy coefficients of its own; every
// coefficient constraint still comes from the certificate and
// invariant templates.
func TestScenario_FixedPolicyVerification_ContributesNoPolicyCoefficients(t *testing.T) {
	cfg := scenarioConfig(-1, 1, 0.9)
	cfg.VerifyPolicy = []string{"A1 = 0.5"}
	ctx := NewContext(uuid.New(), cfg, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, ctx, trivialReachHOA)

	require.True(t, ctx.Input.IsVerification())
	assert.Empty(t, ctx.ControlPolicy.GeneratedConstants())
}

// S4: the two-state "F G safe" automaton must contribute exactly one
// strict-decrease clause per (non-accepting state, dynamics block,
// outgoing transition) combination: one non-accepting state, one
// dynamics block, two outgoing transitions from it.
func TestScenario_TwoStateAutomaton_DecreaseClauseCount(t *testing.T) {
	cfg := model.Config{
		StateDimension:  1,
		ActionDimension: 1,
		LTLFormula:      "F G safe",
		SystemSpace:     []string{"S1 >= 0", "S1 <= 10"},
		InitialSpace:    []string{"S1 >= 0", "S1 <= 1"},
		Predicates:      map[string][]string{"safe": {"S1 <= 5"}},
		Dynamics: []model.ConditionalDynamicsSpec{
			{Transform: map[string]string{"S1": "S1 + A1 + D1"}},
		},
		Noise: []model.NoiseSpec{
			{Min: -0.1, Max: 0.1, Expectation: "0"},
		},
		Synthesis: model.SynthesisConfig{
			ProbabilityThreshold:    0.9,
			MaximalPolynomialDegree: 2,
			SolverDegreeCap:         2,
		},
	}
	ctx := NewContext(uuid.New(), cfg, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, ctx, twoStateSafeHOA)

	require.Len(t, ctx.Automaton.States(), 2)

	nonAccepting := 0
	decreaseTransitions := 0
	for _, q := range ctx.Automaton.States() {
		if ctx.Automaton.IsAccepting(q) || ctx.Automaton.IsRejecting(q) {
			continue
		}
		nonAccepting++
		decreaseTransitions += len(ctx.Automaton.TransitionsFrom(q))
	}
	require.Equal(t, 1, nonAccepting)
	wantDecreaseClauses := len(ctx.Dynamics.Branches) * len(ctx.Automaton.AcceptingStates()) * decreaseTransitions
	assert.Equal(t, 2, wantDecreaseClauses)

	// no controller limits configured, and invariants disabled by
	// default, so the total is exactly non-negativity (one per state)
	// plus the strict-decrease clauses computed above.
	wantTotal := len(ctx.Automaton.States()) + wantDecreaseClauses
	assert.Equal(t, wantTotal, len(ctx.Constraints.Implications))
}

// S5: disabling linear invariants must not change the non-negativity or
// strict-decrease clause counts, and must drop the initiality/
// inductiveness clauses entirely.
func TestScenario_InvariantDisabled_LeavesCoreGeneratorCountsUnchanged(t *testing.T) {
	enabled := scenarioConfig(-1, 1, 0.9)
	enabled.Synthesis.EnableLinearInvariants = true
	enabledCtx := NewContext(uuid.New(), enabled, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, enabledCtx, trivialReachHOA)

	disabled := scenarioConfig(-1, 1, 0.9)
	disabled.Synthesis.EnableLinearInvariants = false
	disabledCtx := NewContext(uuid.New(), disabled, Options{OutputDir: t.TempDir()})
	runThroughGenerateConstraints(t, disabledCtx, trivialReachHOA)

	assert.False(t, disabledCtx.Invariant.Enabled())
	assert.Empty(t, disabledCtx.Invariant.GeneratedConstants())

	// invariant initiality/inductiveness clauses vanish entirely when
	// disabled, so the disabled run must have strictly fewer
	// implications than the enabled run, and the gap must equal exactly
	// the clauses contributed by invariant initiality/inductiveness.
	assert.Less(t, len(disabledCtx.Constraints.Implications), len(enabledCtx.Constraints.Implications))
	// one initiality clause plus one inductiveness clause for each of
	// trivialReachHOA's three transitions (one dynamics block).
	assert.Equal(t, 1+3, len(enabledCtx.Constraints.Implications)-len(disabledCtx.Constraints.Implications))
}

// S6: two independent runs of the same scenario over the same input must
// produce byte-identical solver input text, since the pipeline has no
// source of nondeterminism (map iteration is always sorted before
// rendering).
func TestScenario_Determinism_ProducesByteIdenticalSolverInput(t *testing.T) {
	cfg := scenarioConfig(-1, 1, 0.9)

	run := func() []byte {
		ctx := NewContext(uuid.New(), cfg, Options{OutputDir: t.TempDir()})
		runThroughGenerateConstraints(t, ctx, trivialReachHOA)
		require.NoError(t, runPrepareSolverInputs(ctx))
		data, err := os.ReadFile(filepath.Join(ctx.Options.OutputDir, "solver_input.smt2"))
		require.NoError(t, err)
		return data
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}
