package algebra

import (
	"sort"
	"strconv"
	"strings"
)

// Equation is a polynomial: an ordered collection of monomials with like
// terms combined. The zero polynomial is represented as Equation with no
// monomials.
type Equation struct {
	Monomials []Monomial
}

// Zero is the zero polynomial.
func Zero() Equation {
	return Equation{}
}

// FromFloat builds a constant equation.
func FromFloat(v float64) Equation {
	if v == 0 {
		return Zero()
	}
	return Equation{Monomials: []Monomial{Constant(v)}}
}

// FromSymbol builds an equation consisting of a single bare generator name
// with coefficient 1.
func FromSymbol(name string) Equation {
	return Equation{Monomials: []Monomial{NewMonomial(1, VarPower{Name: name, Power: 1})}}
}

// New builds an Equation from raw monomials, combining like terms and
// dropping any that cancel to a zero coefficient.
func New(monomials ...Monomial) Equation {
	return combine(monomials)
}

// combine merges like terms, in order of first appearance, and drops any
// term whose combined coefficient is exactly zero. It never mutates its
// input.
func combine(monomials []Monomial) Equation {
	keyOrder := make([]string, 0, len(monomials))
	byKey := make(map[string]Monomial, len(monomials))

	for _, m := range monomials {
		k := m.likeKey()
		if existing, ok := byKey[k]; ok {
			existing.Coeff += m.Coeff
			byKey[k] = existing
		} else {
			byKey[k] = m
			keyOrder = append(keyOrder, k)
		}
	}

	out := make([]Monomial, 0, len(keyOrder))
	for _, k := range keyOrder {
		m := byKey[k]
		if m.Coeff == 0 {
			continue
		}
		out = append(out, m)
	}
	return Equation{Monomials: out}
}

// Add returns a new Equation equal to a + b. It does not mutate a or b.
func Add(a, b Equation) Equation {
	merged := make([]Monomial, 0, len(a.Monomials)+len(b.Monomials))
	merged = append(merged, a.Monomials...)
	merged = append(merged, b.Monomials...)
	return combine(merged)
}

// Sub returns a new Equation equal to a - b. It does not mutate a or b.
func Sub(a, b Equation) Equation {
	return Add(a, b.Negate())
}

// Negate returns -e without mutating e.
func (e Equation) Negate() Equation {
	negated := make([]Monomial, len(e.Monomials))
	for i, m := range e.Monomials {
		negated[i] = m.Negate()
	}
	return Equation{Monomials: negated}
}

// Add returns e + other.
func (e Equation) Add(other Equation) Equation { return Add(e, other) }

// Sub returns e - other.
func (e Equation) Sub(other Equation) Equation { return Sub(e, other) }

// Mul returns e * other, distributing over every pair of monomials.
func (e Equation) Mul(other Equation) Equation {
	out := make([]Monomial, 0, len(e.Monomials)*len(other.Monomials))
	for _, a := range e.Monomials {
		for _, b := range other.Monomials {
			out = append(out, Multiply(a, b))
		}
	}
	return combine(out)
}

// IsConstant reports whether the equation has no variable generators, i.e.
// it is a bare numeric literal (possibly zero).
func (e Equation) IsConstant() bool {
	for _, m := range e.Monomials {
		if len(m.Powers) > 0 {
			return false
		}
	}
	return true
}

// ConstantValue returns the numeric value of a constant equation. The
// second return value is false if the equation is not constant.
func (e Equation) ConstantValue() (float64, bool) {
	if !e.IsConstant() {
		return 0, false
	}
	var total float64
	for _, m := range e.Monomials {
		total += m.Coeff
	}
	return total, true
}

// Div returns e / other. Per spec, division is only retained symbolically
// when one of the two operands is a constant; dividing two non-constant
// equations is rejected by the parser before this is ever called on
// structural polynomials (see parse.go), but as a defensive algebraic
// operation Div only supports dividing by a constant divisor.
func (e Equation) Div(divisor Equation) (Equation, bool) {
	c, ok := divisor.ConstantValue()
	if !ok || c == 0 {
		return Equation{}, false
	}
	out := make([]Monomial, len(e.Monomials))
	for i, m := range e.Monomials {
		out[i] = m.Scale(1 / c)
	}
	return combine(out), true
}

// Substitute replaces every occurrence of each named generator in subs with
// its corresponding replacement equation, distributing across sums and
// products and recombining like terms. Substitution is simultaneous: every
// name in subs is replaced using the original equation, not a partially
// substituted intermediate.
func (e Equation) Substitute(subs map[string]Equation) Equation {
	var out Equation
	for _, m := range e.Monomials {
		out = Add(out, substituteMonomial(m, subs))
	}
	return out
}

// SubstituteValue replaces every occurrence of name with the numeric
// literal val.
func (e Equation) SubstituteValue(name string, val float64) Equation {
	return e.Substitute(map[string]Equation{name: FromFloat(val)})
}

// SubstituteEquation replaces every occurrence of name with repl.
func (e Equation) SubstituteEquation(name string, repl Equation) Equation {
	return e.Substitute(map[string]Equation{name: repl})
}

func substituteMonomial(m Monomial, subs map[string]Equation) Equation {
	acc := Equation{Monomials: []Monomial{Constant(m.Coeff)}}
	for _, p := range m.Powers {
		repl, ok := subs[p.Name]
		if !ok {
			acc = acc.Mul(Equation{Monomials: []Monomial{NewMonomial(1, VarPower{Name: p.Name, Power: p.Power})}})
			continue
		}
		factor := repl
		for i := 1; i < p.Power; i++ {
			factor = factor.Mul(repl)
		}
		acc = acc.Mul(factor)
	}
	return acc
}

// SymbolicConstants returns the set of generator names appearing anywhere
// in the equation.
func (e Equation) SymbolicConstants() map[string]struct{} {
	out := map[string]struct{}{}
	for _, m := range e.Monomials {
		for name := range m.SymbolicConstants() {
			out[name] = struct{}{}
		}
	}
	return out
}

// canonicalOrder sorts monomials into a deterministic order: ascending
// total degree, then lexicographically by their like-term key (the
// variable names and powers, coefficient omitted) so that two
// semantically equal polynomials always
// produce the same monomial ordering regardless of how they were built.
func canonicalOrder(monomials []Monomial) []Monomial {
	out := make([]Monomial, len(monomials))
	copy(out, monomials)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Degree(), out[j].Degree()
		if di != dj {
			return di < dj
		}
		return out[i].likeKey() < out[j].likeKey()
	})
	return out
}

// String renders the canonical printable infix form of the equation. Two
// semantically equal polynomials print identically after normalization.
func (e Equation) String() string {
	if len(e.Monomials) == 0 {
		return "0"
	}

	ordered := canonicalOrder(e.Monomials)
	var sb strings.Builder
	for i, m := range ordered {
		s := m.String()
		if i == 0 {
			sb.WriteString(s)
			continue
		}
		if strings.HasPrefix(s, "-") {
			sb.WriteString(" - ")
			sb.WriteString(s[1:])
		} else {
			sb.WriteString(" + ")
			sb.WriteString(s)
		}
	}
	return sb.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
