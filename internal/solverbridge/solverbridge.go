// Package solverbridge serializes the generated constraints into the
// external Horn-clause solver's input grammar, invokes the solver as a
// child process, and parses and normalizes its result.
package solverbridge

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kmallik/polycert/internal/algebra"
	"github.com/kmallik/polycert/internal/constraint"
	"github.com/kmallik/polycert/internal/constraintgen"
)

// BuildInput renders the union of every generated constraint and every
// coefficient declaration into the solver's SMT-LIB-flavored input
// grammar: one declare-const per coefficient, one assert per
// implication (a universally-quantified => over the implication's own
// variable list) and one assert per bare constant inequality.
func BuildInput(result constraintgen.Result, constants map[string]struct{}) string {
	var sb strings.Builder

	names := make([]string, 0, len(constants))
	for n := range constants {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&sb, "(declare-const %s Real)\n", n)
	}

	for _, ci := range result.Implications {
		sb.WriteString(renderImplication(ci))
		sb.WriteString("\n")
	}
	for _, cc := range result.Constants {
		fmt.Fprintf(&sb, "(assert %s)\n", renderInequality(cc.Inequality))
	}

	return sb.String()
}

func renderImplication(ci constraint.ConstraintImplication) string {
	sortedVars := append([]string{}, ci.Vars...)
	sort.Strings(sortedVars)

	boundVars := make([]string, len(sortedVars))
	for i, v := range sortedVars {
		boundVars[i] = fmt.Sprintf("(%s Real)", v)
	}

	lhs := renderSubConstraint(ci.LHS)
	rhs := renderSubConstraint(ci.RHS)
	return fmt.Sprintf("(assert (forall (%s) (=> %s %s)))", strings.Join(boundVars, " "), lhs, rhs)
}

func renderSubConstraint(sc constraint.SubConstraint) string {
	var parts []string
	for _, ineq := range sc.Inequalities {
		parts = append(parts, renderInequality(ineq))
	}
	for _, child := range sc.Children {
		parts = append(parts, renderSubConstraint(child))
	}
	if len(parts) == 0 {
		return "true"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	op := "and"
	if sc.Op == constraint.Or {
		op = "or"
	}
	return fmt.Sprintf("(%s %s)", op, strings.Join(parts, " "))
}

// relationSymbols maps an algebra.Relation to its SMT-LIB operator.
var relationSymbols = map[algebra.Relation]string{
	algebra.GE: ">=",
	algebra.LE: "<=",
	algebra.EQ: "=",
	algebra.GT: ">",
	algebra.LT: "<",
}

func renderInequality(ineq algebra.Inequality) string {
	return fmt.Sprintf("(%s %s %s)", relationSymbols[ineq.Relation], renderEquation(ineq.LHS), renderEquation(ineq.RHS))
}

// renderEquation renders a polynomial as an SMT-LIB prefix expression: a
// sum of monomials, each a product of its coefficient and its generators
// raised to their powers (expanded as repeated multiplication rather than
// an exponentiation operator, since not every solver's Real arithmetic
// theory carries one). A coefficient of 1 on a non-constant monomial is
// omitted.
func renderEquation(eq algebra.Equation) string {
	if len(eq.Monomials) == 0 {
		return "0"
	}
	if len(eq.Monomials) == 1 {
		return renderMonomial(eq.Monomials[0])
	}
	terms := make([]string, len(eq.Monomials))
	for i, m := range eq.Monomials {
		terms[i] = renderMonomial(m)
	}
	return fmt.Sprintf("(+ %s)", strings.Join(terms, " "))
}

func renderMonomial(m algebra.Monomial) string {
	var factors []string
	if m.Coeff != 1 || len(m.Powers) == 0 {
		factors = append(factors, formatCoefficient(m.Coeff))
	}
	for _, p := range m.Powers {
		for i := 0; i < p.Power; i++ {
			factors = append(factors, p.Name)
		}
	}
	if len(factors) == 1 {
		return factors[0]
	}
	return fmt.Sprintf("(* %s)", strings.Join(factors, " "))
}

func formatCoefficient(v float64) string {
	if v < 0 {
		return fmt.Sprintf("(- %s)", strconv.FormatFloat(-v, 'g', -1, 64))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
