package solverbridge

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kmallik/polycert/internal/polyerr"
)

// Input is everything PREPARE_SOLVER_INPUTS writes to the output
// directory before RUN_SOLVER invokes the solver binary.
type Input struct {
	SMTText string
	Config  Config
}

// Result is the parsed contents of solver_result.json: the
// satisfiability verdict and, when sat, the coefficient model. When the
// solver could not be run or its result could not be read, RUN_SOLVER
// records IsSAT "unsat" with the failure message in Diagnostic.
type Result struct {
	IsSAT      string             `json:"is_sat"`
	Model      map[string]float64 `json:"model"`
	Diagnostic string             `json:"diagnostic,omitempty"`
}

const (
	smtFileName    = "solver_input.smt2"
	configFileName = "solver_config.json"
	resultFileName = "solver_result.json"
)

// Dump writes the solver input text and configuration record to dir,
// creating it if necessary.
func Dump(dir string, in Input) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return polyerr.Wrap(polyerr.Solver, "PREPARE_SOLVER_INPUTS", dir, "create output directory", err)
	}
	if err := os.WriteFile(filepath.Join(dir, smtFileName), []byte(in.SMTText), 0o644); err != nil {
		return polyerr.Wrap(polyerr.Solver, "PREPARE_SOLVER_INPUTS", smtFileName, "write solver input", err)
	}
	cfgBytes, err := json.MarshalIndent(in.Config, "", "  ")
	if err != nil {
		return polyerr.Wrap(polyerr.Solver, "PREPARE_SOLVER_INPUTS", configFileName, "marshal solver config", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFileName), cfgBytes, 0o644); err != nil {
		return polyerr.Wrap(polyerr.Solver, "PREPARE_SOLVER_INPUTS", configFileName, "write solver config", err)
	}
	return nil
}

// Run invokes the external solver binary against the dumped input, reads
// back solver_result.json, and returns the parsed Result. A non-zero exit
// status or an unparseable result file is reported through err rather
// than panicking; callers surface this as an unsatisfiable run with a
// diagnostic attached, per the RUN_SOLVER stage contract.
func Run(binary, dir string) (Result, error) {
	cmd := exec.Command(binary, smtFileName, configFileName)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Result{}, polyerr.Wrap(polyerr.Solver, "RUN_SOLVER", binary, "solver process: "+stderr.String(), err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, resultFileName))
	if err != nil {
		return Result{}, polyerr.Wrap(polyerr.Solver, "RUN_SOLVER", resultFileName, "read solver result", err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, polyerr.Wrap(polyerr.Solver, "RUN_SOLVER", resultFileName, "parse solver result", err)
	}
	return result, nil
}
