package model

import (
	"fmt"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/polyerr"
)

// ConditionalDynamics is one piecewise branch of the system's dynamics: a
// guard over the state generators S1..Sn, active whenever the guard holds,
// together with the next-state transform for that branch. The transform
// maps each state generator name to an equation over the current state
// generators S1..Sn, action generators A1..Am, and noise generators
// D1..Dk.
type ConditionalDynamics struct {
	Guard     []algebra.Inequality
	Transform map[string]algebra.Equation
}

// ConditionalDynamicsSpec is the raw YAML/JSON-facing form of one branch.
type ConditionalDynamicsSpec struct {
	Guard     []string          `yaml:"guard" json:"guard"`
	Transform map[string]string `yaml:"transform" json:"transform"`
}

// Dynamics is the full piecewise-defined stochastic dynamical system:
// an ordered list of conditional branches, evaluated in declaration order.
// Per spec, the branches' guards partition the system space; the first
// matching branch at a given state governs the transition there.
type Dynamics struct {
	StateDimension int
	Branches       []ConditionalDynamics
}

// NewDynamics parses raw branch specs into a Dynamics, validating that
// every branch's transform assigns each state generator
// S1..stateDimension; transform keys beyond those are ignored.
func NewDynamics(stateDimension int, specs []ConditionalDynamicsSpec) (Dynamics, error) {
	branches := make([]ConditionalDynamics, 0, len(specs))
	for i, s := range specs {
		guard := make([]algebra.Inequality, 0, len(s.Guard))
		for _, g := range s.Guard {
			ineq, err := algebra.ParseInequality(g)
			if err != nil {
				return Dynamics{}, polyerr.Wrap(polyerr.Parse, "PREPARE_REQS", g, fmt.Sprintf("branch %d: failed to parse guard", i), err)
			}
			guard = append(guard, ineq)
		}

		transform := make(map[string]algebra.Equation, len(s.Transform))
		for j := 1; j <= stateDimension; j++ {
			name := fmt.Sprintf("S%d", j)
			expr, ok := s.Transform[name]
			if !ok {
				return Dynamics{}, polyerr.New(polyerr.Config, "PREPARE_REQS", name, fmt.Sprintf("branch %d: missing next-state transform for %s", i, name))
			}
			eq, err := algebra.Parse(expr)
			if err != nil {
				return Dynamics{}, polyerr.Wrap(polyerr.Parse, "PREPARE_REQS", expr, fmt.Sprintf("branch %d: failed to parse transform for %s", i, name), err)
			}
			transform[name] = eq
		}

		branches = append(branches, ConditionalDynamics{Guard: guard, Transform: transform})
	}
	return Dynamics{StateDimension: stateDimension, Branches: branches}, nil
}

// NextState returns this branch's next-state equation for stateVar with
// subs (any generator assignment, e.g. the policy's action map)
// substituted into it. The guard is not evaluated: the caller selects the
// branch; this only applies its transform.
func (c ConditionalDynamics) NextState(stateVar string, subs map[string]algebra.Equation) (algebra.Equation, bool) {
	eq, ok := c.Transform[stateVar]
	if !ok {
		return algebra.Equation{}, false
	}
	return eq.Substitute(subs), true
}

// StateVars returns the state generator names S1..Sn in order.
func (d Dynamics) StateVars() []string {
	out := make([]string, d.StateDimension)
	for i := range out {
		out[i] = fmt.Sprintf("S%d", i+1)
	}
	return out
}
