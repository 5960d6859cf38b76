// Package ledger keeps a compact, rezi-encoded record of each run's
// input digest, solved coefficient count, and satisfiability verdict,
// so a repeated invocation of the same synthesis config can
// short-circuit rather than re-running the full pipeline and the
// external solver.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
)

// Entry is one ledger record, rezi-encoded as-is: rezi walks its
// exported fields directly, the same way the teacher encodes its game
// save state.
type Entry struct {
	InputDigest      string
	CoefficientCount int
	IsSAT            string
}

// Ledger is a directory of rezi-encoded entry files, one per input
// digest. It is not a replacement for the run-history store: it holds
// only enough to decide whether a new submission duplicates a past
// one, not the full run record.
type Ledger struct {
	dir string
}

// Open returns a Ledger rooted at dir, creating dir if necessary.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	return &Ledger{dir: dir}, nil
}

func (l *Ledger) pathFor(digest string) string {
	return filepath.Join(l.dir, digest+".rezi")
}

// Put records entry, overwriting any prior entry for the same digest.
func (l *Ledger) Put(entry Entry) error {
	data := rezi.EncBinary(entry)
	if err := os.WriteFile(l.pathFor(entry.InputDigest), data, 0o644); err != nil {
		return fmt.Errorf("write ledger entry for %s: %w", entry.InputDigest, err)
	}
	return nil
}

// Get returns the entry previously recorded for digest, if any. The
// second return value is false (with a zero Entry and nil error) when
// no entry has been recorded yet.
func (l *Ledger) Get(digest string) (Entry, bool, error) {
	data, err := os.ReadFile(l.pathFor(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read ledger entry for %s: %w", digest, err)
	}

	var entry Entry
	n, err := rezi.DecBinary(data, &entry)
	if err != nil {
		return Entry{}, false, fmt.Errorf("decode ledger entry for %s: %w", digest, err)
	}
	if n != len(data) {
		return Entry{}, false, fmt.Errorf("ledger entry for %s: decoded %d/%d bytes", digest, n, len(data))
	}
	return entry, true, nil
}
