// Package policy builds the control-policy templates consumed by the
// constraint generators: a fresh polynomial template per action
// dimension in synthesis mode, or a fixed parsed policy in verification
// mode, grouped into a decomposed policy keyed by reach/Büchi head.
package policy

import (
	"fmt"
	"strings"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/polyerr"
)

// Mode distinguishes whether a Policy's transitions are freshly
// synthesized (with fresh coefficients) or were supplied for
// verification (parsed, no coefficients introduced).
type Mode int

const (
	Synthesis Mode = iota
	Verification
)

func (m Mode) String() string {
	if m == Verification {
		return "verification"
	}
	return "synthesis"
}

// Head identifies which part of the decomposed certificate a Policy
// belongs to. The reach-only variant this pipeline implements has
// exactly one head, Reach.
type Head int

const (
	Reach Head = iota
)

func (h Head) String() string { return "reach" }

// Policy is a per-action-dimension polynomial template: one equation per
// action A_1..A_m, either freshly built with coefficients named
// "<prefix>_<i>_<k>" (synthesis mode) or parsed from caller-supplied
// printable equations (verification mode, no coefficients).
type Policy struct {
	ActionDimension int
	StateDimension  int
	MaximalDegree   int
	Prefix          string
	Type            Head
	Mode            Mode

	transitions        map[int]algebra.Equation // keyed 1..ActionDimension
	generatedConstants map[string]struct{}
}

// NewSynthesized builds a Policy in synthesis mode: a fresh polynomial
// template per action dimension, over state generators S1..StateDimension,
// up to MaximalDegree, with coefficients named "<prefix>_<i>_<k>".
func NewSynthesized(actionDimension, stateDimension, maximalDegree int, prefix string, typ Head) *Policy {
	p := &Policy{
		ActionDimension:    actionDimension,
		StateDimension:     stateDimension,
		MaximalDegree:      maximalDegree,
		Prefix:             prefix,
		Type:               typ,
		Mode:               Synthesis,
		transitions:        map[int]algebra.Equation{},
		generatedConstants: map[string]struct{}{},
	}
	p.initializeSynthesized()
	return p
}

// NewVerified builds a Policy in verification mode: each transition is
// parsed from its printable form, either a bare equation ("0.5") or an
// assignment to its own action generator ("A1 = 0.5"), and no fresh
// coefficients are introduced.
func NewVerified(stateDimension int, transitions []string, typ Head) (*Policy, error) {
	p := &Policy{
		ActionDimension:    len(transitions),
		StateDimension:     stateDimension,
		Type:               typ,
		Mode:               Verification,
		transitions:        map[int]algebra.Equation{},
		generatedConstants: map[string]struct{}{},
	}
	for i, s := range transitions {
		expr := s
		if lhs, rhs, found := strings.Cut(s, "="); found {
			if strings.TrimSpace(lhs) != fmt.Sprintf("A%d", i+1) {
				return nil, polyerr.New(polyerr.Parse, "POLICY_PREP", s, fmt.Sprintf("verification-mode policy transition %d must assign A%d", i+1, i+1))
			}
			expr = rhs
		}
		eq, err := algebra.Parse(expr)
		if err != nil {
			return nil, polyerr.Wrap(polyerr.Parse, "POLICY_PREP", s, "failed to parse verification-mode policy transition", err)
		}
		p.transitions[i+1] = eq
	}
	return p, nil
}

func (p *Policy) stateVars() []string {
	vars := make([]string, p.StateDimension)
	for i := range vars {
		vars[i] = fmt.Sprintf("S%d", i+1)
	}
	return vars
}

func (p *Policy) initializeSynthesized() {
	if p.ActionDimension == 0 {
		return
	}
	vars := p.stateVars()
	monos := algebra.EnumerateMonomials(vars, p.MaximalDegree)

	for i := 1; i <= p.ActionDimension; i++ {
		prefix := fmt.Sprintf("%s_%d", p.Prefix, i)
		terms := make([]algebra.Monomial, 0, len(monos))
		for k, m := range monos {
			coeffName := fmt.Sprintf("%s_%d", prefix, k)
			p.generatedConstants[coeffName] = struct{}{}
			powers := append(append([]algebra.VarPower{}, m.Powers...), algebra.VarPower{Name: coeffName, Power: 1})
			terms = append(terms, algebra.NewMonomial(1, powers...))
		}
		p.transitions[i] = algebra.New(terms...)
	}
}

// Apply substitutes subs into every action transition and returns the
// result keyed by action-generator name ("A1".."Am"), the mapping the
// dynamics substitute into Succ. If the policy has action dimension 0,
// Apply returns an empty mapping.
func (p *Policy) Apply(subs map[string]algebra.Equation) map[string]algebra.Equation {
	out := make(map[string]algebra.Equation, p.ActionDimension)
	for i := 1; i <= p.ActionDimension; i++ {
		out[fmt.Sprintf("A%d", i)] = p.transitions[i].Substitute(subs)
	}
	return out
}

// GeneratedConstants returns the coefficient names this policy
// introduced; empty in verification mode.
func (p *Policy) GeneratedConstants() map[string]struct{} {
	out := make(map[string]struct{}, len(p.generatedConstants))
	for k := range p.generatedConstants {
		out[k] = struct{}{}
	}
	return out
}

func (p *Policy) String() string {
	return fmt.Sprintf("%s: %d -> %d (%s)", p.Type, p.StateDimension, p.ActionDimension, p.Mode)
}
