package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmallik/polycert/internal/algebra"
)

func TestNewSynthesized_OneTransitionPerActionDimension(t *testing.T) {
	p := NewSynthesized(2, 1, 1, "Pa", Reach)
	applied := p.Apply(map[string]algebra.Equation{})
	assert.Len(t, applied, 2)
	assert.Contains(t, applied, "A1")
	assert.Contains(t, applied, "A2")
}

func TestNewSynthesized_ZeroActionDimensionYieldsEmptyMapping(t *testing.T) {
	p := NewSynthesized(0, 1, 1, "Pa", Reach)
	applied := p.Apply(map[string]algebra.Equation{})
	assert.Empty(t, applied)
	assert.Empty(t, p.GeneratedConstants())
}

func TestNewVerified_NoCoefficientsIntroduced(t *testing.T) {
	p, err := NewVerified(1, []string{"0.5"}, Reach)
	require.NoError(t, err)
	assert.Empty(t, p.GeneratedConstants())
	applied := p.Apply(map[string]algebra.Equation{})
	v, ok := applied["A1"].ConstantValue()
	require.True(t, ok)
	assert.Equal(t, 0.5, v)
}

func TestDecomposed_GetPolicy_OnlyReachSupported(t *testing.T) {
	d := NewSynthesizedDecomposed(1, 1, 1, 2, Limits{})
	p, err := d.GetPolicy(Reach)
	require.NoError(t, err)
	assert.Equal(t, Reach, p.Type)
}

func TestDecomposed_ZeroActionDimension_NoConstants(t *testing.T) {
	d := NewSynthesizedDecomposed(0, 1, 1, 2, Limits{})
	assert.Empty(t, d.GeneratedConstants())
	_, err := d.GetPolicy(Reach)
	assert.Error(t, err)
}
