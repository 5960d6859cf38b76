package automaton

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"

	"github.com/kmallik/polycert/internal/polyerr"
)

// ParseHOA parses HOA 1.0 text (as produced by the external LTL→LDBA
// translator) into an LDBA. Only the header fields States, Start and AP
// are read (Acceptance and acc-name are skipped; acceptance comes from
// the body's acceptance marks), plus the body's State entries and their
// labeled, acceptance-tagged transitions. The predicate lookup
// table is populated separately by the caller once the AP names are
// known (ExpandGuard resolves AP names against the list returned here).
func ParseHOA(hoa string) (*LDBA, []string, error) {
	h, err := parseHOAHeader(hoa)
	if err != nil {
		return nil, nil, err
	}

	a := New(h.numStates, h.start)
	if err := parseHOABody(a, hoa, len(h.apNames)); err != nil {
		return nil, nil, err
	}
	return a, h.apNames, nil
}

type hoaHeader struct {
	numStates int
	start     int
	apNames   []string
}

func parseHOAHeader(hoa string) (hoaHeader, error) {
	var h hoaHeader
	sc := bufio.NewScanner(strings.NewReader(hoa))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "--BODY--" {
			break
		}
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "States:"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "States:")))
			if err != nil {
				return h, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", line, "malformed States header", err)
			}
			h.numStates = n
		case strings.HasPrefix(line, "Start:"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Start:")))
			if err != nil {
				return h, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", line, "malformed Start header", err)
			}
			h.start = n
		case strings.HasPrefix(line, "AP:"):
			names, err := parseAPHeader(strings.TrimSpace(strings.TrimPrefix(line, "AP:")))
			if err != nil {
				return h, err
			}
			h.apNames = names
		}
		// Acceptance and acc-name are read only for informational
		// purposes by higher layers; the parser itself derives
		// acceptance membership directly from body acceptance sets.
	}
	if err := sc.Err(); err != nil {
		return h, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", "", "failed reading HOA text", err)
	}
	return h, nil
}

// parseAPHeader parses `AP: 2 "safe" "target"` into ["safe", "target"].
func parseAPHeader(rest string) ([]string, error) {
	fields := splitTopLevel(rest)
	if len(fields) == 0 {
		return nil, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", rest, "malformed AP header")
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", fields[0], "AP header count is not an integer", err)
	}
	names := fields[1:]
	if len(names) != count {
		return nil, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", rest, "AP header count does not match the number of quoted names")
	}
	for i, n := range names {
		names[i] = strings.Trim(n, `"`)
	}
	return names, nil
}

// splitTopLevel splits on whitespace, keeping quoted strings intact.
func splitTopLevel(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func parseHOABody(a *LDBA, hoa string, numAPs int) error {
	sc := bufio.NewScanner(strings.NewReader(hoa))
	inBody := false
	current := -1

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "--BODY--" {
			inBody = true
			continue
		}
		if line == "--END--" {
			break
		}
		if !inBody {
			continue
		}

		switch {
		case strings.HasPrefix(line, "State:"):
			rest := strings.TrimSpace(strings.TrimPrefix(line, "State:"))
			fields := splitTopLevel(rest)
			if len(fields) == 0 {
				return polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", line, "malformed State entry")
			}
			id, err := strconv.Atoi(fields[0])
			if err != nil {
				return polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", fields[0], "State id is not an integer", err)
			}
			current = id
			for _, f := range fields[1:] {
				if strings.HasPrefix(f, "{") {
					sets, err := parseAcceptanceSets(f)
					if err != nil {
						return err
					}
					if len(sets) > 0 {
						a.MarkAccepting(current)
					}
				}
			}
		default:
			if current == -1 {
				return polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", line, "transition line appears before any State entry")
			}
			t, err := parseEdgeLine(current, line, numAPs)
			if err != nil {
				return err
			}
			a.AddTransition(t)
			if len(t.AcceptSets) > 0 {
				a.MarkAccepting(current)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", "", "failed reading HOA body", err)
	}
	return nil
}

// parseEdgeLine parses a single body edge of the form:
//
//	[label] dest {acc-set acc-set ...}
//
// where the label and acceptance-set suffix are both optional.
func parseEdgeLine(from int, line string, numAPs int) (Transition, error) {
	label := TrueLabel()
	rest := line

	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end == -1 {
			return Transition{}, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", line, "unterminated label bracket")
		}
		labelText := rest[1:end]
		lbl, err := parseLabel(labelText, numAPs)
		if err != nil {
			return Transition{}, err
		}
		label = lbl
		rest = strings.TrimSpace(rest[end+1:])
	}

	fields := splitTopLevel(rest)
	if len(fields) == 0 {
		return Transition{}, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", line, "edge line missing destination state")
	}
	dest, err := strconv.Atoi(fields[0])
	if err != nil {
		return Transition{}, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", fields[0], "edge destination is not an integer", err)
	}

	var accSets []int
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "{") {
			sets, err := parseAcceptanceSets(f)
			if err != nil {
				return Transition{}, err
			}
			accSets = sets
		}
	}

	return Transition{From: from, To: dest, Label: label, AcceptSets: accSets}, nil
}

func parseAcceptanceSets(field string) ([]int, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(field, "{"), "}")
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return nil, nil
	}
	parts := strings.Fields(trimmed)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", p, "malformed acceptance set index", err)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseLabel parses HOA's Boolean label expression grammar:
//
//	label := disj
//	disj  := conj ('|' conj)*
//	conj  := unary ('&' unary)*
//	unary := '!' unary | atom
//	atom  := 't' | 'f' | NUMBER | '(' label ')'
func parseLabel(s string, numAPs int) (Label, error) {
	p := &labelParser{input: s, runes: []rune(s)}
	lbl, err := p.parseDisj()
	if err != nil {
		return Label{}, err
	}
	p.skipSpace()
	if p.pos != len(p.runes) {
		return Label{}, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", s, "unexpected trailing characters in label")
	}
	return lbl, nil
}

type labelParser struct {
	input string
	runes []rune
	pos   int
}

func (p *labelParser) skipSpace() {
	for p.pos < len(p.runes) && unicode.IsSpace(p.runes[p.pos]) {
		p.pos++
	}
}

func (p *labelParser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.runes) {
		return 0
	}
	return p.runes[p.pos]
}

func (p *labelParser) parseDisj() (Label, error) {
	lhs, err := p.parseConj()
	if err != nil {
		return Label{}, err
	}
	for p.peek() == '|' {
		p.pos++
		rhs, err := p.parseConj()
		if err != nil {
			return Label{}, err
		}
		lhs = OrLabel(lhs, rhs)
	}
	return lhs, nil
}

func (p *labelParser) parseConj() (Label, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return Label{}, err
	}
	for p.peek() == '&' {
		p.pos++
		rhs, err := p.parseUnary()
		if err != nil {
			return Label{}, err
		}
		lhs = AndLabel(lhs, rhs)
	}
	return lhs, nil
}

func (p *labelParser) parseUnary() (Label, error) {
	if p.peek() == '!' {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return Label{}, err
		}
		return NotLabel(inner), nil
	}
	return p.parseAtom()
}

func (p *labelParser) parseAtom() (Label, error) {
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		inner, err := p.parseDisj()
		if err != nil {
			return Label{}, err
		}
		if p.peek() != ')' {
			return Label{}, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", p.input, "expected closing parenthesis in label")
		}
		p.pos++
		return inner, nil
	case c == 't':
		p.pos++
		return TrueLabel(), nil
	case c == 'f':
		p.pos++
		return FalseLabel(), nil
	case unicode.IsDigit(c):
		start := p.pos
		for p.pos < len(p.runes) && unicode.IsDigit(p.runes[p.pos]) {
			p.pos++
		}
		n, err := strconv.Atoi(string(p.runes[start:p.pos]))
		if err != nil {
			return Label{}, polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", string(p.runes[start:p.pos]), "malformed AP index in label", err)
		}
		return AtomLabel(n), nil
	default:
		return Label{}, polyerr.New(polyerr.Parse, "CONSTRUCT_STATES", p.input, "unexpected character in label")
	}
}
