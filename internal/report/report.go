// Package report renders human-readable summaries of a synthesis run:
// per-phase constraint counts and the solver's returned coefficient
// model, formatted as wrapped, indented tables.
package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kmallik/polycert/internal/constraintgen"
)

const tableWidth = 88

// PhaseSummary renders the constraint counts produced by Generate as a
// headed table: universally-quantified implications, parameter-only
// constants, and their total.
func PhaseSummary(result constraintgen.Result) string {
	data := [][]string{
		{"Generator output", "Count"},
		{"implications", strconv.Itoa(len(result.Implications))},
		{"constants", strconv.Itoa(len(result.Constants))},
		{"total", strconv.Itoa(len(result.Implications) + len(result.Constants))},
	}

	opts := rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}
	return rosed.Edit("").InsertTableOpts(0, data, tableWidth, opts).String()
}

// Model renders a solved coefficient model as a headed, sorted table
// with locale-appropriate decimal formatting.
func Model(values map[string]float64, tag language.Tag) string {
	p := message.NewPrinter(tag)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	data := [][]string{{"Variable", "Value"}}
	for _, name := range names {
		data = append(data, []string{name, p.Sprintf("%.6f", values[name])})
	}

	opts := rosed.Options{TableHeaders: true, NoTrailingLineSeparators: true}
	return rosed.Edit("").InsertTableOpts(0, data, tableWidth, opts).String()
}

// Diagnostic wraps a long single-line diagnostic message (e.g. a solver
// failure reason) to a readable width.
func Diagnostic(msg string) string {
	return rosed.Edit(strings.TrimSpace(msg)).Wrap(tableWidth).String()
}

