package policy

import "github.com/kmallik/polycert/internal/polyerr"

// Limits is the controller-bounds record: an optional minimum and
// maximum applied to every action transition by the controller-bounds
// constraint generator. A nil pointer means that bound is not configured
// and no constraint is emitted for it.
type Limits struct {
	Min *float64
	Max *float64
}

// Decomposed groups one Policy per certificate head. The reach-only
// variant this pipeline implements has exactly one head, Reach, so
// GetPolicy(Reach) is the only supported lookup.
type Decomposed struct {
	ActionDimension      int
	StateDimension       int
	MaximalDegree        int
	AbstractionDimension int
	Limits               Limits

	heads              map[Head]*Policy
	generatedConstants map[string]struct{}
}

// NewSynthesizedDecomposed builds the decomposed policy for synthesis
// mode: a single REACH head, prefixed "Pa" to match the solver-model
// normalization the bridge later applies (Pa_<k> -> P_<q>_<k> per
// non-accepting state).
func NewSynthesizedDecomposed(actionDimension, stateDimension, maximalDegree, abstractionDimension int, limits Limits) *Decomposed {
	d := &Decomposed{
		ActionDimension:      actionDimension,
		StateDimension:       stateDimension,
		MaximalDegree:        maximalDegree,
		AbstractionDimension: abstractionDimension,
		Limits:               limits,
		heads:                map[Head]*Policy{},
		generatedConstants:   map[string]struct{}{},
	}
	if actionDimension == 0 {
		return d
	}
	reach := NewSynthesized(actionDimension, stateDimension, maximalDegree, "Pa", Reach)
	d.heads[Reach] = reach
	for k := range reach.GeneratedConstants() {
		d.generatedConstants[k] = struct{}{}
	}
	return d
}

// NewVerifiedDecomposed builds the decomposed policy for verification
// mode from caller-supplied printable transitions.
func NewVerifiedDecomposed(stateDimension, abstractionDimension int, transitions []string, limits Limits) (*Decomposed, error) {
	d := &Decomposed{
		ActionDimension:      len(transitions),
		StateDimension:       stateDimension,
		AbstractionDimension: abstractionDimension,
		Limits:               limits,
		heads:                map[Head]*Policy{},
		generatedConstants:   map[string]struct{}{},
	}
	if len(transitions) == 0 {
		return d, nil
	}
	reach, err := NewVerified(stateDimension, transitions, Reach)
	if err != nil {
		return nil, err
	}
	d.heads[Reach] = reach
	return d, nil
}

// GetPolicy returns the Policy for the given head. Only Reach is
// supported by the reach-only variant.
func (d *Decomposed) GetPolicy(h Head) (*Policy, error) {
	p, ok := d.heads[h]
	if !ok {
		return nil, polyerr.New(polyerr.Config, "POLICY_PREP", h.String(), "no policy registered for this head")
	}
	return p, nil
}

// GeneratedConstants returns the union of coefficient names across every
// head.
func (d *Decomposed) GeneratedConstants() map[string]struct{} {
	out := make(map[string]struct{}, len(d.generatedConstants))
	for k := range d.generatedConstants {
		out[k] = struct{}{}
	}
	return out
}
