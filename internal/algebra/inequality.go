package algebra

import (
	"fmt"
	"strings"
)

// Relation is a comparison operator between two equations.
type Relation int

const (
	GE Relation = iota // >=
	LE                 // <=
	EQ                 // =
	GT                 // >
	LT                 // <
)

func (r Relation) String() string {
	switch r {
	case GE:
		return ">="
	case LE:
		return "<="
	case EQ:
		return "="
	case GT:
		return ">"
	case LT:
		return "<"
	default:
		return "?"
	}
}

// Inequality is a triple (lhs, relation, rhs) of polynomial equations.
type Inequality struct {
	LHS      Equation
	Relation Relation
	RHS      Equation
}

// NewInequality builds an Inequality.
func NewInequality(lhs Equation, rel Relation, rhs Equation) Inequality {
	return Inequality{LHS: lhs, Relation: rel, RHS: rhs}
}

// Substitute applies the same generator substitutions to both sides.
func (ineq Inequality) Substitute(subs map[string]Equation) Inequality {
	return Inequality{LHS: ineq.LHS.Substitute(subs), Relation: ineq.Relation, RHS: ineq.RHS.Substitute(subs)}
}

// SymbolicConstants returns the generator names appearing on either side.
func (ineq Inequality) SymbolicConstants() map[string]struct{} {
	out := ineq.LHS.SymbolicConstants()
	for k := range ineq.RHS.SymbolicConstants() {
		out[k] = struct{}{}
	}
	return out
}

func (ineq Inequality) String() string {
	return fmt.Sprintf("%s %s %s", ineq.LHS.String(), ineq.Relation.String(), ineq.RHS.String())
}

// relationTokens is checked longest-first so ">=" is not mistaken for ">"
// followed by a stray "=".
var relationTokens = []struct {
	text string
	rel  Relation
}{
	{">=", GE},
	{"<=", LE},
	{">", GT},
	{"<", LT},
	{"=", EQ},
}

// ParseInequality parses a printable "lhs REL rhs" string, where REL is
// one of >=, <=, =, >, <, into an Inequality.
func ParseInequality(input string) (Inequality, error) {
	for _, tok := range relationTokens {
		idx := strings.Index(input, tok.text)
		if idx == -1 {
			continue
		}
		lhsStr := input[:idx]
		rhsStr := input[idx+len(tok.text):]
		lhs, err := Parse(lhsStr)
		if err != nil {
			return Inequality{}, err
		}
		rhs, err := Parse(rhsStr)
		if err != nil {
			return Inequality{}, err
		}
		return NewInequality(lhs, tok.rel, rhs), nil
	}
	return Inequality{}, &ParseError{Input: input, Token: input, Position: 0, Reason: "no relational operator (>=, <=, =, >, <) found"}
}
