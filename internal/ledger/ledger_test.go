package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet_RoundTrips(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "ledger"))
	require.NoError(t, err)

	entry := Entry{InputDigest: "abc123", CoefficientCount: 7, IsSAT: "sat"}
	require.NoError(t, l.Put(entry))

	got, found, err := l.Get("abc123")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entry, got)
}

func TestGet_UnknownDigestIsNotFoundWithoutError(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "ledger"))
	require.NoError(t, err)

	_, found, err := l.Get("never-seen")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPut_OverwritesExistingEntry(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "ledger"))
	require.NoError(t, err)

	require.NoError(t, l.Put(Entry{InputDigest: "x", CoefficientCount: 1, IsSAT: "running"}))
	require.NoError(t, l.Put(Entry{InputDigest: "x", CoefficientCount: 3, IsSAT: "sat"}))

	got, found, err := l.Get("x")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, got.CoefficientCount)
	assert.Equal(t, "sat", got.IsSAT)
}
