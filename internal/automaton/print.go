package automaton

import (
	"fmt"
	"strconv"
	"strings"
)

// PrintHOA renders the automaton back into HOA 1.0 text. The header
// carries the fields the core itself depends on (States, Start, AP) plus
// a fixed "acc-name: Buchi" / "Acceptance: 1 Inf(0)" pair; this is
// sufficient for the round-trip property (parse(print(parse(hoa)))
// equals parse(hoa)) since ParseHOA never reads any other header field.
func PrintHOA(a *LDBA, apNames []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HOA: v1\n")
	fmt.Fprintf(&sb, "States: %d\n", a.NumStates)
	fmt.Fprintf(&sb, "Start: %d\n", a.Start)
	fmt.Fprintf(&sb, "AP: %d", len(apNames))
	for _, n := range apNames {
		fmt.Fprintf(&sb, " %q", n)
	}
	sb.WriteString("\n")
	sb.WriteString("acc-name: Buchi\n")
	sb.WriteString("Acceptance: 1 Inf(0)\n")
	sb.WriteString("--BODY--\n")

	for _, q := range a.States() {
		fmt.Fprintf(&sb, "State: %d\n", q)
		for _, t := range a.TransitionsFrom(q) {
			sb.WriteString(printEdge(t))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("--END--\n")
	return sb.String()
}

func printEdge(t Transition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d", t.Label.String(), t.To)
	if len(t.AcceptSets) > 0 {
		sets := make([]string, len(t.AcceptSets))
		for i, s := range t.AcceptSets {
			sets[i] = strconv.Itoa(s)
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(sets, " "))
	}
	return sb.String()
}

func (l Label) String() string {
	switch l.kind {
	case labelTrue:
		return "t"
	case labelFalse:
		return "f"
	case labelAtom:
		return strconv.Itoa(l.apIndex)
	case labelAnd:
		return "(" + l.children[0].String() + " & " + l.children[1].String() + ")"
	case labelOr:
		return "(" + l.children[0].String() + " | " + l.children[1].String() + ")"
	case labelNot:
		return "!" + l.children[0].String()
	default:
		return "?"
	}
}

// Equal reports structural equality between two labels.
func (l Label) Equal(other Label) bool {
	if l.kind != other.kind {
		return false
	}
	switch l.kind {
	case labelAtom:
		return l.apIndex == other.apIndex
	case labelAnd, labelOr:
		return l.children[0].Equal(other.children[0]) && l.children[1].Equal(other.children[1])
	case labelNot:
		return l.children[0].Equal(other.children[0])
	default:
		return true
	}
}
