/*
Polycert synthesizes (or verifies) polynomial control policies and reach
certificates for discrete-time stochastic systems against LTL reach
specifications.

Usage:

	polycert run [flags] CONFIG_FILE
	polycert repl
	polycert serve [flags]

The "run" subcommand loads a synthesis config (YAML or JSON, selected by
file extension) and drives it through every pipeline phase, printing a
constraint-count summary and, if the solver reports sat, the solved
coefficient model.

The flags for "run" are:

	-o, --output DIR
		Directory to write the LTL translator's HOA output and the
		solver's SMT input/config/result files under. Defaults to a
		temporary directory.

	--ltl-translator PATH
		Path to the external LTL-to-LDBA translator binary.

	--solver PATH
		Path to the external Horn-clause solver binary.

	--reach-avoid
		Enable the reach-avoid safety certificate and its additional
		constraint generators.

	--db PATH
		Record the run in a sqlite run-history database at PATH.

The "repl" subcommand starts an interactive session for parsing and
printing polynomial equations and inequalities.

The "serve" subcommand starts the HTTP API. Its flags are:

	-l, --listen ADDRESS
		Address to listen on. Defaults to localhost:8080.

	--db PATH
		Path to the sqlite run-history database. Defaults to an
		in-process temporary file.

	--token TOKEN
		Bearer token required on every /v1/runs request. If not given,
		the API is left unauthenticated, suitable only for local use.
*/
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/kmallik/polycert/internal/httpapi"
	"github.com/kmallik/polycert/internal/ledger"
	"github.com/kmallik/polycert/internal/model"
	"github.com/kmallik/polycert/internal/orchestrator"
	"github.com/kmallik/polycert/internal/replshell"
	"github.com/kmallik/polycert/internal/report"
	"github.com/kmallik/polycert/internal/runstore"
	"github.com/kmallik/polycert/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad flags or arguments.
	ExitUsageError

	// ExitRunError indicates the pipeline could not complete (not a
	// solver-reported "unsat", which is a normal, successful result).
	ExitRunError
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: polycert run|repl|serve [flags]\nDo -h for help.")
		return ExitUsageError
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "run":
		return runSynthesis(rest)
	case "repl":
		return runRepl(rest)
	case "serve":
		return runServe(rest)
	case "-v", "--version":
		fmt.Printf("polycert %s\n", version.Current)
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\nDo -h for help.\n", sub)
		return ExitUsageError
	}
}

func runSynthesis(args []string) int {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	outputDir := fs.StringP("output", "o", "", "Directory for translator/solver artifacts")
	ltlTranslator := fs.String("ltl-translator", "", "Path to the LTL-to-LDBA translator binary")
	solverPath := fs.String("solver", "", "Path to the Horn-clause solver binary")
	reachAvoid := fs.Bool("reach-avoid", false, "Enable the reach-avoid safety certificate")
	dbPath := fs.String("db", "", "Record the run in a sqlite run-history database")
	ledgerDir := fs.String("ledger", "", "Short-circuit repeated inputs using a rezi-encoded ledger at DIR")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one CONFIG_FILE argument\nDo -h for help.")
		return ExitUsageError
	}

	cfg, err := model.LoadConfig(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitRunError
	}

	digest := ""
	if raw, readErr := os.ReadFile(fs.Arg(0)); readErr == nil {
		sum := sha256.Sum256(raw)
		digest = hex.EncodeToString(sum[:])
	}

	var runLedger *ledger.Ledger
	if *ledgerDir != "" {
		runLedger, err = ledger.Open(*ledgerDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return ExitRunError
		}
		if entry, found, ledgerErr := runLedger.Get(digest); ledgerErr == nil && found {
			fmt.Printf("is_sat: %s (from ledger, %d coefficients)\n", entry.IsSAT, entry.CoefficientCount)
			return ExitSuccess
		}
	}

	dir := *outputDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "polycert-run-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not create output directory: %s\n", err.Error())
			return ExitRunError
		}
	}

	opts := orchestrator.Options{
		OutputDir:         dir,
		LTLTranslatorPath: *ltlTranslator,
		SolverPath:        *solverPath,
		ReachAvoidMode:    *reachAvoid,
	}

	runID := uuid.New()
	ctx := orchestrator.NewContext(runID, cfg, opts)
	runErr := orchestrator.New().Run(ctx)

	if ctx.Constraints.Implications != nil || ctx.Constraints.Constants != nil {
		fmt.Println(report.PhaseSummary(ctx.Constraints))
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: stage %s: %s\n", ctx.Stage, runErr.Error())
	} else {
		fmt.Printf("is_sat: %s\n", ctx.SolverResult.IsSAT)
		if len(ctx.FinalModel) > 0 {
			fmt.Println(report.Model(ctx.FinalModel, language.English))
		}
		if runLedger != nil {
			if ledgerErr := runLedger.Put(ledger.Entry{
				InputDigest:      digest,
				CoefficientCount: len(ctx.FinalModel),
				IsSAT:            ctx.SolverResult.IsSAT,
			}); ledgerErr != nil {
				fmt.Fprintf(os.Stderr, "ERROR: could not update ledger: %s\n", ledgerErr.Error())
			}
		}
	}

	if *dbPath != "" {
		store, openErr := runstore.Open(*dbPath)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not open run-history database: %s\n", openErr.Error())
			return ExitRunError
		}
		defer store.Close()

		rec := orchestrator.Record(ctx, digest)
		if putErr := store.Put(context.Background(), rec); putErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not record run: %s\n", putErr.Error())
			return ExitRunError
		}
	}

	if runErr != nil {
		return ExitRunError
	}
	return ExitSuccess
}

func runRepl(args []string) int {
	fs := pflag.NewFlagSet("repl", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	shell, err := replshell.New(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitRunError
	}
	defer shell.Close()

	if err := shell.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitRunError
	}
	return ExitSuccess
}

func runServe(args []string) int {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	listen := fs.StringP("listen", "l", "localhost:8080", "Address to listen on")
	dbPath := fs.String("db", "", "Path to the sqlite run-history database")
	token := fs.String("token", "", "Bearer token required on every request")
	maxConcurrent := fs.Int("max-concurrent-runs", 4, "Maximum number of synthesis runs executing at once")
	outputDir := fs.StringP("output", "o", "", "Base directory for each run's translator/solver artifacts")
	ltlTranslator := fs.String("ltl-translator", "", "Path to the LTL-to-LDBA translator binary")
	solverPath := fs.String("solver", "", "Path to the Horn-clause solver binary")
	ledgerDir := fs.String("ledger", "", "Short-circuit repeated inputs using a rezi-encoded ledger at DIR")
	if err := fs.Parse(args); err != nil {
		return ExitUsageError
	}

	var runLedger *ledger.Ledger
	if *ledgerDir != "" {
		l, err := ledger.Open(*ledgerDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not open ledger: %s\n", err.Error())
			return ExitRunError
		}
		runLedger = l
	}

	dbFile := *dbPath
	if dbFile == "" {
		tmp, err := os.MkdirTemp("", "polycert-serve-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not create run-history directory: %s\n", err.Error())
			return ExitRunError
		}
		dbFile = tmp + "/runs.db"
	}

	store, err := runstore.Open(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not open run-history database: %s\n", err.Error())
		return ExitRunError
	}
	defer store.Close()

	var auth httpapi.TokenAuth
	if *token != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*token), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not hash token: %s\n", err.Error())
			return ExitRunError
		}
		auth = httpapi.NewTokenAuth(hash)
	} else {
		log.Printf("WARN  no --token given; the API is unauthenticated")
	}

	api := &httpapi.API{
		Runner: orchestrator.New(),
		Store:  store,
		Auth:   auth,
		Options: orchestrator.Options{
			OutputDir:         *outputDir,
			LTLTranslatorPath: *ltlTranslator,
			SolverPath:        *solverPath,
		},
		Ledger:            runLedger,
		MaxConcurrentRuns: *maxConcurrent,
	}

	log.Printf("DEBUG polycert %s listening on %s", version.Current, *listen)
	if err := http.ListenAndServe(*listen, api.Routes()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		return ExitRunError
	}
	return ExitSuccess
}
