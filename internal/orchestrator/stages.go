package orchestrator

import (
	"github.com/kmallik/polycert/internal/automaton"
	"github.com/kmallik/polycert/internal/certificate"
	"github.com/kmallik/polycert/internal/constraintgen"
	"github.com/kmallik/polycert/internal/ltltranslator"
	"github.com/kmallik/polycert/internal/model"
	"github.com/kmallik/polycert/internal/policy"
	"github.com/kmallik/polycert/internal/polyerr"
	"github.com/kmallik/polycert/internal/solverbridge"
)

// runParseInput validates the already-loaded input configuration. Actual
// file reading happens before the orchestrator is constructed
// (model.LoadConfig); this stage only re-validates so a caller that built
// a Config by hand still gets the same guarantees.
func runParseInput(ctx *Context) error {
	return ctx.Input.Validate()
}

// runPrepareReqs builds the system space, initial space, dynamics, and
// noise model from the input configuration.
func runPrepareReqs(ctx *Context) error {
	sys, err := model.NewSpace("PREPARE_REQS", ctx.Input.SystemSpace)
	if err != nil {
		return err
	}
	initial, err := model.NewSpace("PREPARE_REQS", ctx.Input.InitialSpace)
	if err != nil {
		return err
	}
	dyn, err := model.NewDynamics(ctx.Input.StateDimension, ctx.Input.Dynamics)
	if err != nil {
		return err
	}
	noise, err := model.NewNoise(ctx.Input.Noise)
	if err != nil {
		return err
	}

	ctx.SystemSpace = sys
	ctx.InitialSpace = initial
	ctx.Dynamics = dyn
	ctx.Noise = noise
	return nil
}

// runConstructStates translates the LTL formula into HOA text via the
// external translator, parses it into an LDBA, and wires each atomic
// proposition name to its predicate region.
func runConstructStates(ctx *Context) error {
	predicateNames := make(map[string]struct{}, len(ctx.Input.Predicates))
	for name := range ctx.Input.Predicates {
		predicateNames[name] = struct{}{}
	}

	hoa, err := ltltranslator.Translate(ctx.Options.LTLTranslatorPath, ctx.Options.OutputDir, ctx.Input.LTLFormula, predicateNames)
	if err != nil {
		return err
	}

	a, apNames, err := automaton.ParseHOA(hoa)
	if err != nil {
		return err
	}

	for _, name := range apNames {
		region, ok := ctx.Input.Predicates[name]
		if !ok {
			return polyerr.New(polyerr.Config, "CONSTRUCT_STATES", name, "LTL formula references an atomic proposition with no predicate region configured")
		}
		space, err := model.NewSpace("CONSTRUCT_STATES", region)
		if err != nil {
			return err
		}
		a.SetPredicate(name, space.Inequalities)
	}

	ctx.Automaton = a
	ctx.APNames = apNames
	return nil
}

// runPolicyPrep builds the decomposed control policy: a freshly
// synthesized per-action template in synthesis mode, or a parsed fixed
// policy in verification mode.
func runPolicyPrep(ctx *Context) error {
	limits := policy.Limits{Min: ctx.Input.ControllerMin, Max: ctx.Input.ControllerMax}

	if ctx.Input.IsVerification() {
		cp, err := policy.NewVerifiedDecomposed(ctx.Input.StateDimension, ctx.Automaton.NumStates, ctx.Input.VerifyPolicy, limits)
		if err != nil {
			return err
		}
		ctx.ControlPolicy = cp
		return nil
	}

	ctx.ControlPolicy = policy.NewSynthesizedDecomposed(
		ctx.Input.ActionDimension,
		ctx.Input.StateDimension,
		ctx.Input.Synthesis.MaximalPolynomialDegree,
		ctx.Automaton.NumStates,
		limits,
	)
	return nil
}

// runSynthesizeInvariants builds the invariant template: a real one if
// enable_linear_invariants is set, or the trivially-true stand-in
// otherwise.
func runSynthesizeInvariants(ctx *Context) error {
	if !ctx.Input.Synthesis.EnableLinearInvariants {
		ctx.Invariant = certificate.NewFakeInvariant()
		return nil
	}
	ctx.Invariant = certificate.NewInvariant(
		ctx.Input.StateDimension,
		ctx.Automaton.NumStates,
		1,
		ctx.Dynamics.StateVars(),
	)
	return nil
}

// runSynthesizeTemplate builds the reach certificate template and the
// reach-variant scalar synthesis parameters.
func runSynthesizeTemplate(ctx *Context) error {
	ctx.Certificate = certificate.New(
		ctx.Input.StateDimension,
		ctx.Automaton.NumStates,
		ctx.Input.Synthesis.MaximalPolynomialDegree,
		ctx.Dynamics.StateVars(),
		certificate.Reach,
		nil,
	)
	ctx.Variables = certificate.NewReachVariables(ctx.Input.Synthesis.ProbabilityThreshold)

	if ctx.Options.ReachAvoidMode {
		ctx.SafeCertificate = certificate.New(
			ctx.Input.StateDimension,
			ctx.Automaton.NumStates,
			ctx.Input.Synthesis.MaximalPolynomialDegree,
			ctx.Dynamics.StateVars(),
			certificate.Safe,
			nil,
		)
		ctx.ReachAvoidVariables = certificate.NewReachAvoidVariables(
			ctx.Input.Synthesis.ProbabilityThreshold,
			ctx.Input.Synthesis.DeltaSafe,
		)
	}
	return nil
}

// runGenerateConstraints runs every constraint generator against the
// assembled context.
func runGenerateConstraints(ctx *Context) error {
	gctx := constraintgen.Context{
		SystemSpace:   ctx.SystemSpace,
		InitialSpace:  ctx.InitialSpace,
		Dynamics:      ctx.Dynamics,
		Noise:         ctx.Noise,
		Automaton:     ctx.Automaton,
		APNames:       ctx.APNames,
		ControlPolicy: ctx.ControlPolicy,
		Certificate:   ctx.Certificate,
		Invariant:     ctx.Invariant,
		Variables:     ctx.Variables,
	}

	if ctx.Options.ReachAvoidMode {
		gctx.ReachAvoid = &constraintgen.ReachAvoidContext{
			SafeCertificate: ctx.SafeCertificate,
			Variables:       ctx.ReachAvoidVariables,
			DeltaSafe:       ctx.Input.Synthesis.DeltaSafe,
		}
	}

	result, err := constraintgen.Generate(gctx)
	if err != nil {
		return err
	}
	ctx.Constraints = result
	return nil
}

// runPrepareSolverInputs serializes the constraint system and writes the
// solver input and configuration files under the run's output directory.
func runPrepareSolverInputs(ctx *Context) error {
	constants := make(map[string]struct{})
	for k := range ctx.ControlPolicy.GeneratedConstants() {
		constants[k] = struct{}{}
	}
	for k := range ctx.Certificate.GeneratedConstants() {
		constants[k] = struct{}{}
	}
	for k := range ctx.Invariant.GeneratedConstants() {
		constants[k] = struct{}{}
	}
	for k := range ctx.Variables.GeneratedConstants() {
		constants[k] = struct{}{}
	}
	if ctx.Options.ReachAvoidMode {
		for k := range ctx.SafeCertificate.GeneratedConstants() {
			constants[k] = struct{}{}
		}
		for k := range ctx.ReachAvoidVariables.GeneratedConstants() {
			constants[k] = struct{}{}
		}
	}

	smtText := solverbridge.BuildInput(ctx.Constraints, constants)
	cfg := solverbridge.NewConfig(
		ctx.Input.Synthesis.MaximalPolynomialDegree,
		ctx.Input.Synthesis.SolverDegreeCap,
		ctx.Options.PositivstellensatzMode,
		ctx.Options.OutputDir,
	)
	return solverbridge.Dump(ctx.Options.OutputDir, solverbridge.Input{SMTText: smtText, Config: cfg})
}

// runRunSolver invokes the external solver, parses its result, and
// normalizes the policy coefficient names onto their per-state keys.
func runRunSolver(ctx *Context) error {
	result, err := solverbridge.Run(ctx.Options.SolverPath, ctx.Options.OutputDir)
	if err != nil {
		ctx.SolverResult = solverbridge.Result{IsSAT: "unsat", Diagnostic: err.Error()}
		return nil
	}
	ctx.SolverResult = result
	if result.IsSAT == "sat" {
		ctx.FinalModel = solverbridge.FixModelOutput(result.Model, ctx.Automaton)
	}
	return nil
}

// runDone is a no-op terminal stage; its presence keeps the dispatch
// table total over every Stage value.
func runDone(ctx *Context) error {
	return nil
}
