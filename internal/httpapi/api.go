package httpapi

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kmallik/polycert/internal/ledger"
	"github.com/kmallik/polycert/internal/model"
	"github.com/kmallik/polycert/internal/orchestrator"
	"github.com/kmallik/polycert/internal/runstore"
)

// API wires the orchestrator, the run-history store, and the worker cap
// into chi handlers. It holds no per-request state; every submitted job
// gets its own Context and runs in its own goroutine.
type API struct {
	Runner  *orchestrator.Runner
	Store   *runstore.Store
	Auth    TokenAuth
	Options orchestrator.Options

	// Ledger, if set, lets a resubmission of an input already seen
	// short-circuit straight to its recorded verdict instead of
	// re-running the pipeline and the external solver.
	Ledger *ledger.Ledger

	// MaxConcurrentRuns bounds how many orchestrator runs execute at
	// once (a slot is held for the whole pipeline, not only RUN_SOLVER),
	// since each run spawns a solver child process. Zero means unbounded.
	MaxConcurrentRuns int

	sem chan struct{}
}

// Routes builds the chi router for the API's endpoints.
func (a *API) Routes() chi.Router {
	if a.MaxConcurrentRuns > 0 && a.sem == nil {
		a.sem = make(chan struct{}, a.MaxConcurrentRuns)
	}

	r := chi.NewRouter()
	r.Get("/healthz", asHandler(a.handleHealthz))
	r.Post("/v1/runs", asHandler(a.Auth.require(a.handleSubmitRun)))
	r.Get("/v1/runs", asHandler(a.Auth.require(a.handleListRuns)))
	r.Get("/v1/runs/{id}", asHandler(a.Auth.require(a.handleGetRun)))
	return r
}

func (a *API) handleHealthz(req *http.Request) result {
	return ok(map[string]string{"status": "ok"}, "healthz")
}

// runSummary is the JSON shape returned for a submitted or polled run.
type runSummary struct {
	RunID       string `json:"run_id"`
	InputDigest string `json:"input_digest"`
	Stage       string `json:"stage"`
	IsSAT       string `json:"is_sat"`
	StartedAt   string `json:"started_at,omitempty"`
	EndedAt     string `json:"ended_at,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
}

func toSummary(rec orchestrator.RunRecord) runSummary {
	s := runSummary{
		RunID:       rec.RunID.String(),
		InputDigest: rec.InputDigest,
		Stage:       rec.Stage,
		IsSAT:       rec.IsSAT,
		OutputPath:  rec.OutputPath,
	}
	if !rec.StartedAt.IsZero() {
		s.StartedAt = rec.StartedAt.Format(time.RFC3339)
	}
	if !rec.EndedAt.IsZero() {
		s.EndedAt = rec.EndedAt.Format(time.RFC3339)
	}
	return s
}

func (a *API) handleSubmitRun(req *http.Request) result {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return badRequest("could not read request body: " + err.Error())
	}
	defer req.Body.Close()

	var cfg model.Config
	if err := json.Unmarshal(body, &cfg); err != nil {
		return badRequest("malformed JSON body: " + err.Error())
	}

	runID := uuid.New()
	digest := inputDigest(body)

	if a.Ledger != nil {
		if entry, found, err := a.Ledger.Get(digest); err == nil && found {
			return created(runSummary{
				RunID:       runID.String(),
				InputDigest: digest,
				Stage:       orchestrator.Done.String(),
				IsSAT:       entry.IsSAT,
			}, "short-circuited on a previously seen input digest")
		}
	}

	opts := a.Options
	if opts.OutputDir != "" {
		opts.OutputDir = filepath.Join(opts.OutputDir, runID.String())
	}
	octx := orchestrator.NewContext(runID, cfg, opts)

	initial := orchestrator.RunRecord{
		RunID:       runID,
		InputDigest: digest,
		StartedAt:   time.Now(),
		Stage:       orchestrator.ParseInput.String(),
		IsSAT:       "queued",
		OutputPath:  opts.OutputDir,
	}
	if err := a.Store.Put(req.Context(), initial); err != nil {
		return internalServerError("could not record queued run: " + err.Error())
	}
	queued := toSummary(initial)

	go a.execute(octx, digest)

	return created(queued, "queued run "+runID.String())
}

// execute runs the full pipeline for ctx and persists the final record,
// acquiring a worker slot first if the API was configured with a bound.
func (a *API) execute(ctx *orchestrator.Context, digest string) {
	if a.sem != nil {
		a.sem <- struct{}{}
		defer func() { <-a.sem }()
	}

	_ = a.Runner.Run(ctx)

	storeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	rec := orchestrator.Record(ctx, digest)
	_ = a.Store.Put(storeCtx, rec)

	if a.Ledger != nil {
		_ = a.Ledger.Put(ledger.Entry{
			InputDigest:      digest,
			CoefficientCount: len(ctx.FinalModel),
			IsSAT:            rec.IsSAT,
		})
	}
}

func (a *API) handleGetRun(req *http.Request) result {
	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		return badRequest("run id is not a valid UUID")
	}
	rec, err := a.Store.Get(req.Context(), id)
	if err != nil {
		if err == runstore.ErrNotFound {
			return notFound("no run with id " + id.String())
		}
		return internalServerError(err.Error())
	}
	return ok(toSummary(rec), "fetched run "+id.String())
}

func (a *API) handleListRuns(req *http.Request) result {
	var before uuid.UUID
	if q := req.URL.Query().Get("before"); q != "" {
		parsed, err := uuid.Parse(q)
		if err != nil {
			return badRequest("before must be a valid UUID")
		}
		before = parsed
	}

	limit := 50
	recs, err := a.Store.List(req.Context(), before, limit)
	if err != nil {
		return internalServerError(err.Error())
	}

	summaries := make([]runSummary, len(recs))
	for i, rec := range recs {
		summaries[i] = toSummary(rec)
	}
	return ok(summaries, "listed runs")
}

func inputDigest(body []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(body))
	return hex.EncodeToString(sum[:])
}
