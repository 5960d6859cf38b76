package model

import (
	"fmt"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/polyerr"
)

// NoiseVariable is one named additive noise term D_i, with bounded
// support and a symbolic expectation substituted into decrease
// conditions.
type NoiseVariable struct {
	Name        string
	Min         float64
	Max         float64
	Expectation algebra.Equation
}

// NoiseSpec is the raw, YAML/JSON-facing description of one noise
// variable before it is assigned its positional name D1..Dk.
type NoiseSpec struct {
	Min         float64 `yaml:"min" json:"min"`
	Max         float64 `yaml:"max" json:"max"`
	Expectation string  `yaml:"expectation" json:"expectation"`
}

// Noise is the set of named noise variables D1..Dk for a system.
type Noise struct {
	Variables []NoiseVariable
}

// NewNoise builds a Noise from raw specs, assigning positional names
// D1..Dk in the order given.
func NewNoise(specs []NoiseSpec) (Noise, error) {
	vars := make([]NoiseVariable, 0, len(specs))
	for i, s := range specs {
		name := fmt.Sprintf("D%d", i+1)
		if s.Min > s.Max {
			return Noise{}, polyerr.New(polyerr.Config, "PREPARE_REQS", name, "noise variable min must not exceed max")
		}
		expEq, err := algebra.Parse(s.Expectation)
		if err != nil {
			return Noise{}, polyerr.Wrap(polyerr.Parse, "PREPARE_REQS", s.Expectation, "failed to parse noise expectation", err)
		}
		vars = append(vars, NoiseVariable{Name: name, Min: s.Min, Max: s.Max, Expectation: expEq})
	}
	return Noise{Variables: vars}, nil
}

// Dimension returns the number of noise variables, k.
func (n Noise) Dimension() int { return len(n.Variables) }

// Names returns every noise variable name, in declared order.
func (n Noise) Names() []string {
	out := make([]string, len(n.Variables))
	for i, v := range n.Variables {
		out[i] = v.Name
	}
	return out
}

// Bounds returns the min/max support inequalities for every noise
// variable, in declared order: D_i >= min, D_i <= max.
func (n Noise) Bounds() []algebra.Inequality {
	out := make([]algebra.Inequality, 0, 2*len(n.Variables))
	for _, v := range n.Variables {
		sym := algebra.FromSymbol(v.Name)
		out = append(out, algebra.NewInequality(sym, algebra.GE, algebra.FromFloat(v.Min)))
		out = append(out, algebra.NewInequality(sym, algebra.LE, algebra.FromFloat(v.Max)))
	}
	return out
}

// Expectations returns the substitution mapping D_i -> E[D_i], used to
// replace noise symbols by their declared expectation in decrease
// conditions.
func (n Noise) Expectations() map[string]algebra.Equation {
	out := make(map[string]algebra.Equation, len(n.Variables))
	for _, v := range n.Variables {
		out[v.Name] = v.Expectation
	}
	return out
}
