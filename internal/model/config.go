package model

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kmallik/polycert/internal/polyerr"
)

// SynthesisConfig holds the tunable scalar parameters of the synthesis
// run: the required reach probability threshold, the polynomial degree
// budgets for the certificate and policy templates, and the solver
// engine's own degree caps.
type SynthesisConfig struct {
	ProbabilityThreshold    float64 `yaml:"probability_threshold" json:"probability_threshold"`
	MaximalPolynomialDegree int     `yaml:"maximal_polynomial_degree" json:"maximal_polynomial_degree"`
	SolverDegreeCap         int     `yaml:"solver_degree_cap" json:"solver_degree_cap"`
	EnableLinearInvariants  bool    `yaml:"enable_linear_invariants" json:"enable_linear_invariants"`
	DeltaSafe               float64 `yaml:"delta_safe" json:"delta_safe"`
}

// Validate returns an error if the SynthesisConfig has out-of-range or
// missing fields.
func (c SynthesisConfig) Validate() error {
	if c.ProbabilityThreshold < 0 || c.ProbabilityThreshold >= 1 {
		return polyerr.New(polyerr.Config, "PARSE_INPUT", "probability_threshold", "must be in [0, 1)")
	}
	if c.MaximalPolynomialDegree < 1 {
		return polyerr.New(polyerr.Config, "PARSE_INPUT", "maximal_polynomial_degree", "must be at least 1")
	}
	return nil
}

// Config is the full, caller-supplied synthesis input: dimensions, the
// system and initial spaces, the piecewise dynamics, the additive noise,
// the LTL reach specification and its atomic-proposition predicates, and
// the synthesis tuning parameters.
type Config struct {
	StateDimension  int    `yaml:"state_dimension" json:"state_dimension"`
	ActionDimension int    `yaml:"action_dimension" json:"action_dimension"`
	LTLFormula      string `yaml:"ltl_formula" json:"ltl_formula"`

	SystemSpace  []string `yaml:"system_space" json:"system_space"`
	InitialSpace []string `yaml:"initial_space" json:"initial_space"`

	// Predicates maps each atomic proposition name used in LTLFormula to
	// the region it denotes, given as a conjunction of printable
	// inequality strings over S1..Sn.
	Predicates map[string][]string `yaml:"predicates" json:"predicates"`

	Dynamics []ConditionalDynamicsSpec `yaml:"dynamics" json:"dynamics"`
	Noise    []NoiseSpec               `yaml:"noise" json:"noise"`

	Synthesis SynthesisConfig `yaml:"synthesis" json:"synthesis"`

	// ControllerMin and ControllerMax bound each action generator
	// A1..Am, if the controller is being synthesized rather than
	// verified. Either may be left nil to mean unbounded on that side.
	ControllerMin *float64 `yaml:"controller_min" json:"controller_min"`
	ControllerMax *float64 `yaml:"controller_max" json:"controller_max"`

	// VerifyPolicy, if non-empty, supplies one printable equation per
	// action generator (bare, or written as "A<i> = ...") and switches the run from synthesis mode to
	// verification mode for the control policy.
	VerifyPolicy []string `yaml:"verify_policy" json:"verify_policy"`
}

// LoadConfig reads and parses a Config from a YAML or JSON file, chosen by
// the file's extension (".json" for JSON, anything else for YAML).
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, polyerr.Wrap(polyerr.Config, "PARSE_INPUT", path, "failed to read config file", err)
	}

	var cfg Config
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, polyerr.Wrap(polyerr.Config, "PARSE_INPUT", path, "failed to parse JSON config", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, polyerr.Wrap(polyerr.Config, "PARSE_INPUT", path, "failed to parse YAML config", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks dimension consistency and delegates to the nested
// SynthesisConfig's own validation.
func (c Config) Validate() error {
	if c.StateDimension < 1 {
		return polyerr.New(polyerr.Config, "PARSE_INPUT", "state_dimension", "must be at least 1")
	}
	if c.ActionDimension < 0 {
		return polyerr.New(polyerr.Config, "PARSE_INPUT", "action_dimension", "must not be negative")
	}
	if c.LTLFormula == "" {
		return polyerr.New(polyerr.Config, "PARSE_INPUT", "ltl_formula", "must not be empty")
	}
	if len(c.VerifyPolicy) > 0 && len(c.VerifyPolicy) != c.ActionDimension {
		return polyerr.New(polyerr.Config, "PARSE_INPUT", "verify_policy", fmt.Sprintf("expected %d entries, one per action generator, got %d", c.ActionDimension, len(c.VerifyPolicy)))
	}
	return c.Synthesis.Validate()
}

// IsVerification reports whether the config specifies a fixed control
// policy to verify rather than one to synthesize.
func (c Config) IsVerification() bool {
	return len(c.VerifyPolicy) > 0
}
