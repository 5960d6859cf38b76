// Package algebra implements the canonical polynomial representation shared
// by every stage of the constraint-synthesis pipeline: monomials, equations
// (polynomials), and inequalities over named variable generators (state
// generators S1..Sn, noise generators D1..Dk, action generators A1..Am, and
// synthesis coefficient generators).
package algebra

import (
	"fmt"
	"sort"
	"strings"
)

// VarPower is one (generator name, power) pair inside a Monomial.
type VarPower struct {
	Name  string
	Power int
}

// Monomial is a coefficient times a product of named generators raised to
// powers. Zero-power variables are never retained: constructing a Monomial
// always normalizes them away.
type Monomial struct {
	Coeff  float64
	Powers []VarPower
}

// NewMonomial builds a Monomial from a coefficient and a set of (name,
// power) pairs, dropping any pair whose power is zero and sorting the
// remaining pairs by name so that two monomials over the same variable set
// always compare equal regardless of construction order.
func NewMonomial(coeff float64, powers ...VarPower) Monomial {
	kept := make([]VarPower, 0, len(powers))
	for _, p := range powers {
		if p.Power == 0 {
			continue
		}
		kept = append(kept, p)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	return Monomial{Coeff: coeff, Powers: kept}
}

// Constant returns a Monomial with no variable generators, i.e. a bare
// numeric literal.
func Constant(v float64) Monomial {
	return Monomial{Coeff: v}
}

// Degree returns the total degree of the monomial (sum of powers).
func (m Monomial) Degree() int {
	d := 0
	for _, p := range m.Powers {
		d += p.Power
	}
	return d
}

// likeKey returns a string uniquely identifying the variable-power
// multiset of the monomial, ignoring the coefficient. Two monomials are
// like terms iff their likeKey values are equal.
func (m Monomial) likeKey() string {
	var sb strings.Builder
	for _, p := range m.Powers {
		fmt.Fprintf(&sb, "%s^%d|", p.Name, p.Power)
	}
	return sb.String()
}

// LikeTerms reports whether m and other have the same variable-power
// multiset.
func (m Monomial) LikeTerms(other Monomial) bool {
	return m.likeKey() == other.likeKey()
}

// Scale returns a copy of m with its coefficient multiplied by f.
func (m Monomial) Scale(f float64) Monomial {
	cp := m.copyPowers()
	return Monomial{Coeff: m.Coeff * f, Powers: cp}
}

// Negate returns a copy of m with its coefficient negated.
func (m Monomial) Negate() Monomial {
	return m.Scale(-1)
}

func (m Monomial) copyPowers() []VarPower {
	cp := make([]VarPower, len(m.Powers))
	copy(cp, m.Powers)
	return cp
}

// Multiply returns the product of two monomials: coefficients multiply,
// and powers of like-named generators add.
func Multiply(a, b Monomial) Monomial {
	powers := map[string]int{}
	order := []string{}
	for _, p := range a.Powers {
		if _, ok := powers[p.Name]; !ok {
			order = append(order, p.Name)
		}
		powers[p.Name] += p.Power
	}
	for _, p := range b.Powers {
		if _, ok := powers[p.Name]; !ok {
			order = append(order, p.Name)
		}
		powers[p.Name] += p.Power
	}
	vp := make([]VarPower, 0, len(order))
	for _, name := range order {
		if powers[name] == 0 {
			continue
		}
		vp = append(vp, VarPower{Name: name, Power: powers[name]})
	}
	return NewMonomial(a.Coeff*b.Coeff, vp...)
}

// SymbolicConstants returns the set of generator names appearing in the
// monomial. Callers distinguish synthesis coefficients from structural
// variables by naming convention at a higher layer; this just enumerates
// the names present.
func (m Monomial) SymbolicConstants() map[string]struct{} {
	out := make(map[string]struct{}, len(m.Powers))
	for _, p := range m.Powers {
		out[p.Name] = struct{}{}
	}
	return out
}

func (m Monomial) String() string {
	if len(m.Powers) == 0 {
		return formatFloat(m.Coeff)
	}

	sorted := m.copyPowers()
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var parts []string
	for _, p := range sorted {
		if p.Power == 1 {
			parts = append(parts, p.Name)
		} else {
			parts = append(parts, fmt.Sprintf("%s^%d", p.Name, p.Power))
		}
	}
	term := strings.Join(parts, "*")

	if m.Coeff == 1 {
		return term
	}
	if m.Coeff == -1 {
		return "-" + term
	}
	return formatFloat(m.Coeff) + "*" + term
}
