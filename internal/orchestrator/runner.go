package orchestrator

import (
	"log"
	"time"

	"github.com/google/uuid"
)

// RunRecord is the persisted summary of one orchestrator invocation,
// written to the run-history store after RUN_SOLVER or on a fatal error.
type RunRecord struct {
	RunID       uuid.UUID
	InputDigest string
	StartedAt   time.Time
	EndedAt     time.Time
	Stage       string
	IsSAT       string
	OutputPath  string
}

// Runner holds the stage dispatch table, built once, and drives a
// Context through every phase in order. It carries no mutable state of
// its own beyond the dispatch table: every run gets its own Context.
type Runner struct {
	stages map[Stage]func(*Context) error
	order  []Stage
}

// New builds a Runner with the fixed ten-phase dispatch table.
func New() *Runner {
	order := []Stage{
		ParseInput,
		PrepareReqs,
		ConstructStates,
		PolicyPrep,
		SynthesizeInvariants,
		SynthesizeTemplate,
		GenerateConstraints,
		PrepareSolverInputs,
		RunSolver,
		Done,
	}
	return &Runner{
		stages: map[Stage]func(*Context) error{
			ParseInput:           runParseInput,
			PrepareReqs:          runPrepareReqs,
			ConstructStates:      runConstructStates,
			PolicyPrep:           runPolicyPrep,
			SynthesizeInvariants: runSynthesizeInvariants,
			SynthesizeTemplate:   runSynthesizeTemplate,
			GenerateConstraints:  runGenerateConstraints,
			PrepareSolverInputs:  runPrepareSolverInputs,
			RunSolver:            runRunSolver,
			Done:                 runDone,
		},
		order: order,
	}
}

// Run executes every phase of ctx in order, stopping at the first
// failing stage. ctx.Stage always names the last stage attempted, so a
// fatal error leaves ctx readable for diagnostics. Run never panics on a
// stage error; it records it on ctx.Err and returns it.
func (r *Runner) Run(ctx *Context) error {
	ctx.StartedAt = time.Now()
	defer func() { ctx.EndedAt = time.Now() }()

	for _, stage := range r.order {
		ctx.Stage = stage
		fn := r.stages[stage]
		if err := fn(ctx); err != nil {
			ctx.Err = err
			log.Printf("ERROR run %s: stage %s failed: %s", ctx.RunID, stage, err.Error())
			return err
		}
		log.Printf("DEBUG run %s: stage %s complete", ctx.RunID, stage)
	}
	return nil
}

// Record builds the RunRecord to persist for ctx, whether the run
// succeeded, failed solving, or errored fatally.
func Record(ctx *Context, inputDigest string) RunRecord {
	isSAT := ctx.SolverResult.IsSAT
	if ctx.Err != nil {
		isSAT = "error"
	}
	return RunRecord{
		RunID:       ctx.RunID,
		InputDigest: inputDigest,
		StartedAt:   ctx.StartedAt,
		EndedAt:     ctx.EndedAt,
		Stage:       ctx.Stage.String(),
		IsSAT:       isSAT,
		OutputPath:  ctx.Options.OutputDir,
	}
}
