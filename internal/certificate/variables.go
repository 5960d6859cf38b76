package certificate

import (
	"math"

	"github.com/kmallik/polycert/internal/algebra"
)

// ReachVariables holds the scalar synthesis parameters for the reach-only
// variant: a single strictly-positive decrease margin, epsilon_reach.
type ReachVariables struct {
	ProbabilityThreshold float64

	ZeroEq       algebra.Equation
	AlmostZeroEq algebra.Equation
	EpsilonReach algebra.Equation

	generatedConstants map[string]struct{}
}

// NewReachVariables builds the reach variant's scalar parameters. Panics
// if probabilityThreshold is outside [0, 1), mirroring the fatal
// precondition the original enforces at construction time; callers parse
// and validate the threshold earlier, at PARSE_INPUT, so this is never
// reached with user-controlled input.
func NewReachVariables(probabilityThreshold float64) *ReachVariables {
	if probabilityThreshold < 0 || probabilityThreshold >= 1 {
		panic("probability threshold must be in [0, 1)")
	}
	return &ReachVariables{
		ProbabilityThreshold: probabilityThreshold,
		ZeroEq:               algebra.FromFloat(0),
		AlmostZeroEq:         algebra.FromFloat(1e-15),
		EpsilonReach:         algebra.FromSymbol("Epsilon_reach"),
		generatedConstants:   map[string]struct{}{"Epsilon_reach": {}},
	}
}

// GeneratedConstants returns the coefficient names these variables own.
func (v *ReachVariables) GeneratedConstants() map[string]struct{} {
	out := make(map[string]struct{}, len(v.generatedConstants))
	for k := range v.generatedConstants {
		out[k] = struct{}{}
	}
	return out
}

// ReachAvoidVariables holds the scalar synthesis parameters for the
// reach-avoid variant: epsilon_reach plus the safety parameters
// epsilon_safe, beta_safe, eta_safe, delta_safe, and their bound.
type ReachAvoidVariables struct {
	ProbabilityThreshold float64
	DeltaSafe            float64

	ZeroEq                 algebra.Equation
	AlmostZeroEq           algebra.Equation
	EpsilonReach           algebra.Equation
	EpsilonSafe            algebra.Equation
	BetaSafe               algebra.Equation
	EtaSafe                algebra.Equation
	DeltaSafeEq            algebra.Equation
	EtaEpsilonEq           algebra.Equation
	EtaEpsilonUpperBoundEq algebra.Equation

	generatedConstants map[string]struct{}
}

// NewReachAvoidVariables builds the reach-avoid variant's scalar
// parameters. The upper bound on eta*epsilon, 1e-15 + delta^2*ln(1-tau)/8,
// is a closed-form numeric constant and is evaluated eagerly in double
// precision here rather than carried symbolically (spec.md §9).
func NewReachAvoidVariables(probabilityThreshold, deltaSafe float64) *ReachAvoidVariables {
	if deltaSafe <= 0 {
		panic("delta_safe must be greater than 0")
	}
	if probabilityThreshold < 0 || probabilityThreshold >= 1 {
		panic("probability threshold must be in [0, 1)")
	}

	upperBound := 1e-15 + deltaSafe*deltaSafe*math.Log(1-probabilityThreshold)/8

	names := []string{"Epsilon_safe", "Epsilon_reach", "Beta_safe", "Eta_safe"}
	consts := make(map[string]struct{}, len(names))
	for _, n := range names {
		consts[n] = struct{}{}
	}

	return &ReachAvoidVariables{
		ProbabilityThreshold:   probabilityThreshold,
		DeltaSafe:              deltaSafe,
		ZeroEq:                 algebra.FromFloat(0),
		AlmostZeroEq:           algebra.FromFloat(1e-15),
		EpsilonReach:           algebra.FromSymbol("Epsilon_reach"),
		EpsilonSafe:            algebra.FromSymbol("Epsilon_safe"),
		BetaSafe:               algebra.FromSymbol("Beta_safe"),
		EtaSafe:                algebra.FromSymbol("Eta_safe"),
		DeltaSafeEq:            algebra.FromFloat(deltaSafe),
		EtaEpsilonEq:           algebra.FromSymbol("Eta_safe").Mul(algebra.FromSymbol("Epsilon_safe")),
		EtaEpsilonUpperBoundEq: algebra.FromFloat(upperBound),
		generatedConstants:     consts,
	}
}

// GeneratedConstants returns the coefficient names these variables own.
func (v *ReachAvoidVariables) GeneratedConstants() map[string]struct{} {
	out := make(map[string]struct{}, len(v.generatedConstants))
	for k := range v.generatedConstants {
		out[k] = struct{}{}
	}
	return out
}
