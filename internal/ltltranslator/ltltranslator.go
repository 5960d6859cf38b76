// Package ltltranslator invokes the external LTL→LDBA translator: a
// child process that receives an LTL formula and its atomic-proposition
// names and returns HOA 1.0 text describing the limit-deterministic
// Büchi automaton for that formula.
package ltltranslator

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/kmallik/polycert/internal/polyerr"
)

const hoaFileName = "ltl2ldba.hoa"

// Translate invokes binary with the LTL formula and the predicate names
// it references (sorted, for a deterministic argument list), and returns
// the HOA text it prints to stdout. The HOA text is also persisted to
// dir/ltl2ldba.hoa, one of the run's scoped output artifacts.
func Translate(binary, dir, formula string, predicateNames map[string]struct{}) (string, error) {
	names := make([]string, 0, len(predicateNames))
	for n := range predicateNames {
		names = append(names, n)
	}
	sort.Strings(names)

	args := append([]string{formula}, names...)
	cmd := exec.Command(binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", binary, "LTL translator process: "+stderr.String(), err)
	}

	hoa := stdout.String()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", dir, "create output directory", err)
	}
	if err := os.WriteFile(filepath.Join(dir, hoaFileName), []byte(hoa), 0o644); err != nil {
		return "", polyerr.Wrap(polyerr.Parse, "CONSTRUCT_STATES", hoaFileName, "persist translator output", err)
	}
	return hoa, nil
}
