// Package orchestrator drives the constraint-synthesis pipeline through
// its ten phases, from a parsed input configuration to a solved (or
// infeasible) coefficient model.
package orchestrator

import (
	"time"

	"github.com/google/uuid"

	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/certificate"
	"github.com/kmallik/polycert/internal/constraintgen"
	"github.com/kmallik/polycert/internal/model"
	"github.com/kmallik/polycert/internal/policy"
	"github.com/kmallik/polycert/internal/solverbridge"
)

// Stage identifies one of the ten pipeline phases, in execution order.
type Stage int

const (
	ParseInput Stage = iota
	PrepareReqs
	ConstructStates
	PolicyPrep
	SynthesizeInvariants
	SynthesizeTemplate
	GenerateConstraints
	PrepareSolverInputs
	RunSolver
	Done
)

func (s Stage) String() string {
	switch s {
	case ParseInput:
		return "PARSE_INPUT"
	case PrepareReqs:
		return "PREPARE_REQS"
	case ConstructStates:
		return "CONSTRUCT_STATES"
	case PolicyPrep:
		return "POLICY_PREP"
	case SynthesizeInvariants:
		return "SYNTHESIZE_INVARIANTS"
	case SynthesizeTemplate:
		return "SYNTHESIZE_TEMPLATE"
	case GenerateConstraints:
		return "GENERATE_CONSTRAINTS"
	case PrepareSolverInputs:
		return "PREPARE_SOLVER_INPUTS"
	case RunSolver:
		return "RUN_SOLVER"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN_STAGE"
	}
}

// Options carries everything a Run needs beyond the parsed input
// configuration: the output directory to scope this run's artifacts
// under, and the external collaborator binaries.
type Options struct {
	OutputDir              string
	LTLTranslatorPath      string
	SolverPath             string
	PositivstellensatzMode string

	// ReachAvoidMode switches on the additional safety certificate and
	// its non-negativity/bounded-expected-increase generators (spec.md
	// reach-only by default; this flag is not present in the distilled
	// spec.md, see SPEC_FULL.md 4.3/4.5.7).
	ReachAvoidMode bool
}

// Context is the orchestrator's shared, single-owner state: every phase
// reads from and writes to it, in the fixed stage order. It remains
// readable after a fatal error for diagnostics, per the stage-failure
// contract.
type Context struct {
	RunID     uuid.UUID
	Input     model.Config
	Options   Options
	Stage     Stage
	StartedAt time.Time
	EndedAt   time.Time

	// APNames is the HOA header's atomic-proposition list, in the order
	// automaton.ParseHOA returned it. Transition labels reference APs by
	// positional index into this slice, so it must never be rebuilt from
	// a map.
	APNames []string

	SystemSpace  model.Space
	InitialSpace model.Space
	Dynamics     model.Dynamics
	Noise        model.Noise

	Automaton *automaton.LDBA

	ControlPolicy *policy.Decomposed
	Certificate   *certificate.Template
	Invariant     certificate.Invariant
	Variables     *certificate.ReachVariables

	// SafeCertificate and ReachAvoidVariables are only populated when
	// Options.ReachAvoidMode is set.
	SafeCertificate     *certificate.Template
	ReachAvoidVariables *certificate.ReachAvoidVariables

	Constraints constraintgen.Result

	SolverResult solverbridge.Result
	FinalModel   map[string]float64

	Err error
}

// NewContext builds a fresh Context for one run of the pipeline.
func NewContext(runID uuid.UUID, input model.Config, opts Options) *Context {
	return &Context{
		RunID:   runID,
		Input:   input,
		Options: opts,
		Stage:   ParseInput,
	}
}
