package orchestrator

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/model"
)

func sampleConfig() model.Config {
	min, max := -1.0, 1.0
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
			ProbabilityThreshold:    0.9,
			MaximalPolynomialDegree: 2,
			SolverDegreeCap:         2,
		},
		ControllerMin: &min,
		ControllerMax: &max,
	}
}

func TestStage_StringNamesMatchSpec(t *testing.T) {
	cases := map[Stage]string{
		ParseInput:           "PARSE_INPUT",
		PrepareReqs:          "PREPARE_REQS",
		ConstructStates:      "CONSTRUCT_STATES",
		PolicyPrep:           "POLICY_PREP",
		SynthesizeInvariants: "SYNTHESIZE_INVARIANTS",
		SynthesizeTemplate:   "SYNTHESIZE_TEMPLATE",
		GenerateConstraints:  "GENERATE_CONSTRAINTS",
		PrepareSolverInputs:  "PREPARE_SOLVER_INPUTS",
		RunSolver:            "RUN_SOLVER",
		Done:                 "DONE",
	}
	for stage, want := range cases {
		assert.Equal(t, want, stage.String())
	}
}

func TestRunParseInput_RejectsInvalidConfig(t *testing.T) {
	ctx := NewContext(uuid.New(), model.Config{}, Options{})
	err := runParseInput(ctx)
	assert.Error(t, err)
}

func TestRunPrepareReqs_BuildsSpacesAndDynamics(t *testing.T) {
	ctx := NewContext(uuid.New(), sampleConfig(), Options{})
	require.NoError(t, runPrepareReqs(ctx))
	assert.Len(t, ctx.SystemSpace.Inequalities, 2)
	assert.Len(t, ctx.Dynamics.Branches, 1)
	assert.Equal(t, 1, ctx.Noise.Dimension())
}

func TestRunPolicyPrep_SynthesisMode(t *testing.T) {
	ctx := NewContext(uuid.New(), sampleConfig(), Options{})
	require.NoError(t, runPrepareReqs(ctx))
	a, _, err := automaton.ParseHOA(sampleHOAForOrchestrator)
	require.NoError(t, err)
	ctx.Automaton = a

	require.NoError(t, runPolicyPrep(ctx))
	p, err := ctx.ControlPolicy.GetPolicy(0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ActionDimension)
}

func TestRunSynthesizeInvariants_DefaultsToFake(t *testing.T) {
	ctx := NewContext(uuid.New(), sampleConfig(), Options{})
	require.NoError(t, runSynthesizeInvariants(ctx))
	assert.False(t, ctx.Invariant.Enabled())
}

func TestRunSynthesizeTemplate_BuildsReachCertificate(t *testing.T) {
	ctx := NewContext(uuid.New(), sampleConfig(), Options{})
	require.NoError(t, runPrepareReqs(ctx))
	a, _, err := automaton.ParseHOA(sampleHOAForOrchestrator)
	require.NoError(t, err)
	ctx.Automaton = a

	require.NoError(t, runSynthesizeTemplate(ctx))
	assert.NotEmpty(t, ctx.Certificate.GeneratedConstants())
	assert.NotEmpty(t, ctx.Variables.GeneratedConstants())
	assert.Nil(t, ctx.SafeCertificate, "reach-avoid mode is off by default")
}

func TestRecord_CapturesFatalErrorAsIsSAT(t *testing.T) {
	ctx := NewContext(uuid.New(), sampleConfig(), Options{OutputDir: "/tmp/run"})
	ctx.Stage = GenerateConstraints
	ctx.StartedAt = time.Now()
	ctx.Err = assert.AnError

	rec := Record(ctx, "deadbeef")
	assert.Equal(t, "error", rec.IsSAT)
	assert.Equal(t, "GENERATE_CONSTRAINTS", rec.Stage)
}

const sampleHOAForOrchestrator = `HOA: v1
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
