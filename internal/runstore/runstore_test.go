package runstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmallik/polycert/internal/orchestrator"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutAndGet_RoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := orchestrator.RunRecord{
		RunID:       uuid.New(),
		InputDigest: "abc123",
		StartedAt:   time.Now().Add(-time.Minute).Truncate(time.Second),
		EndedAt:     time.Now().Truncate(time.Second),
		Stage:       "DONE",
		IsSAT:       "sat",
		OutputPath:  "/tmp/run-1",
	}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, rec.RunID)
	require.NoError(t, err)
	assert.Equal(t, rec.RunID, got.RunID)
	assert.Equal(t, rec.InputDigest, got.InputDigest)
	assert.Equal(t, rec.Stage, got.Stage)
	assert.Equal(t, rec.IsSAT, got.IsSAT)
	assert.True(t, rec.StartedAt.Equal(got.StartedAt))
}

func TestGet_UnknownIDReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_OrdersMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().Truncate(time.Second)
	ids := make([]uuid.UUID, 3)
	for i := 0; i < 3; i++ {
		ids[i] = uuid.New()
		require.NoError(t, s.Put(ctx, orchestrator.RunRecord{
			RunID:     ids[i],
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			EndedAt:   base.Add(time.Duration(i) * time.Minute),
			Stage:     "DONE",
			IsSAT:     "sat",
		}))
	}

	recs, err := s.List(ctx, uuid.Nil, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, ids[2], recs[0].RunID)
	assert.Equal(t, ids[0], recs[2].RunID)
}

func TestPut_ReplacesExistingRecord(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, s.Put(ctx, orchestrator.RunRecord{RunID: id, Stage: "RUN_SOLVER", IsSAT: "running"}))
	require.NoError(t, s.Put(ctx, orchestrator.RunRecord{RunID: id, Stage: "DONE", IsSAT: "sat"}))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "DONE", got.Stage)
	assert.Equal(t, "sat", got.IsSAT)
}
