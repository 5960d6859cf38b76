// Package model holds the input data model: system/initial space, the
// stochastic dynamical system, additive noise, and synthesis
// configuration, plus the YAML/JSON parsing that builds them from the
// caller-supplied input file.
package model

import (
	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/polyerr"
)

// Space is a conjunction of polynomial inequalities over state generators
// S1..Sn, used for both the system space and the initial space.
type Space struct {
	Inequalities []algebra.Inequality
}

// NewSpace parses a list of printable inequality strings into a Space.
func NewSpace(stage string, exprs []string) (Space, error) {
	ineqs := make([]algebra.Inequality, 0, len(exprs))
	for _, e := range exprs {
		ineq, err := algebra.ParseInequality(e)
		if err != nil {
			return Space{}, polyerr.Wrap(polyerr.Parse, stage, e, "failed to parse space inequality", err)
		}
		ineqs = append(ineqs, ineq)
	}
	return Space{Inequalities: ineqs}, nil
}
