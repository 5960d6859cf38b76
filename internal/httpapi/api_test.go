package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmallik/polycert/internal/ledger"
	"github.com/kmallik/polycert/internal/orchestrator"
	"github.com/kmallik/polycert/internal/runstore"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	store, err := runstore.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return &API{
		Runner: orchestrator.New(),
		Store:  store,
	}
}

func sampleConfigJSON() []byte {
	body := map[string]interface{}{
		"state_dimension":  1,
		"action_dimension": 1,
		"ltl_formula":      "F target",
		"system_space":     []string{"S1 >= 0", "S1 <= 10"},
		"initial_space":    []string{"S1 >= 0", "S1 <= 1"},
		"predicates":       map[string][]string{"target": {"S1 >= 9"}},
		"dynamics": []map[string]interface{}{
			{"transform": map[string]string{"S1": "S1 + A1 + D1"}},
		},
		"noise": []map[string]interface{}{
			{"min": -0.1, "max": 0.1, "expectation": "0"},
		},
		"synthesis": map[string]interface{}{
			"probability_threshold":     0.9,
			"maximal_polynomial_degree": 2,
			"solver_degree_cap":         2,
		},
	}
	data, _ := json.Marshal(body)
	return data
}

func TestHealthz_IsUnauthenticated(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitRun_RejectsMissingToken(t *testing.T) {
	api := newTestAPI(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-token"), bcrypt.MinCost)
	require.NoError(t, err)
	api.Auth = NewTokenAuth(hash)

	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(sampleConfigJSON()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitRun_RejectsMalformedBody(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRun_QueuesAndIsThenGettable(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(sampleConfigJSON()))
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var submitted runSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	assert.Equal(t, "queued", submitted.IsSAT)
	assert.NotEmpty(t, submitted.RunID)

	getReq := httptest.NewRequest(http.MethodGet, "/v1/runs/"+submitted.RunID, nil)
	getW := httptest.NewRecorder()
	api.Routes().ServeHTTP(getW, getReq)
	assert.Equal(t, http.StatusOK, getW.Code)
}

func TestGetRun_UnknownIDReturns404(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/00000000-0000-0000-0000-000000000000", nil)
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRun_RejectsNonUUID(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitRun_ShortCircuitsOnLedgerHit(t *testing.T) {
	api := newTestAPI(t)
	l, err := ledger.Open(filepath.Join(t.TempDir(), "ledger"))
	require.NoError(t, err)
	api.Ledger = l

	body := sampleConfigJSON()
	digest := inputDigest(body)
	require.NoError(t, l.Put(ledger.Entry{InputDigest: digest, CoefficientCount: 4, IsSAT: "sat"}))

	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(body))
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var submitted runSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))
	assert.Equal(t, "sat", submitted.IsSAT)
	assert.Equal(t, "DONE", submitted.Stage)
}

func TestListRuns_ReturnsMostRecentFirst(t *testing.T) {
	api := newTestAPI(t)
	ctx := httptest.NewRequest(http.MethodGet, "/v1/runs", nil).Context()
	base := time.Now().Truncate(time.Second)
	for i := 0; i < 2; i++ {
		rec := orchestrator.RunRecord{
			RunID:     uuid.New(),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Stage:     "DONE",
			IsSAT:     "sat",
		}
		require.NoError(t, api.Store.Put(ctx, rec))
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/runs", nil)
	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var list []runSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Greater(t, list[0].StartedAt, list[1].StartedAt)
}
