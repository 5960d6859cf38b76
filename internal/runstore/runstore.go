// Package runstore persists orchestrator run records to a sqlite
// database, backing both the CLI's run subcommand and the HTTP API's
// job handler with the same history.
package runstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"

	"github.com/kmallik/polycert/internal/orchestrator"
)

// ErrNotFound is returned when a run id has no matching record.
var ErrNotFound = errors.New("run not found")

// Store is a sqlite-backed table of run records.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at file and
// ensures the runs table exists.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		input_digest TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL,
		stage TEXT NOT NULL,
		is_sat TEXT NOT NULL,
		output_path TEXT NOT NULL
	);`)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the record for rec.RunID.
func (s *Store) Put(ctx context.Context, rec orchestrator.RunRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs
		(id, input_digest, started_at, ended_at, stage, is_sat, output_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID.String(), rec.InputDigest, rec.StartedAt.Unix(), rec.EndedAt.Unix(),
		rec.Stage, rec.IsSAT, rec.OutputPath,
	)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Get returns the record for id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (orchestrator.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, input_digest, started_at, ended_at, stage, is_sat, output_path
		FROM runs WHERE id = ?`, id.String())
	return scanRecord(row)
}

// List returns up to limit records ordered most-recent-first, optionally
// starting strictly before beforeID for pagination (beforeID may be the
// zero UUID to start from the most recent record).
func (s *Store) List(ctx context.Context, beforeID uuid.UUID, limit int) ([]orchestrator.RunRecord, error) {
	var rows *sql.Rows
	var err error
	if beforeID == uuid.Nil {
		rows, err = s.db.QueryContext(ctx, `SELECT id, input_digest, started_at, ended_at, stage, is_sat, output_path
			FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	} else {
		anchor, anchorErr := s.Get(ctx, beforeID)
		if anchorErr != nil {
			return nil, anchorErr
		}
		rows, err = s.db.QueryContext(ctx, `SELECT id, input_digest, started_at, ended_at, stage, is_sat, output_path
			FROM runs WHERE started_at < ? ORDER BY started_at DESC LIMIT ?`, anchor.StartedAt.Unix(), limit)
	}
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var out []orchestrator.RunRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, wrapDBError(rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (orchestrator.RunRecord, error) {
	var rec orchestrator.RunRecord
	var id string
	var started, ended int64

	if err := row.Scan(&id, &rec.InputDigest, &started, &ended, &rec.Stage, &rec.IsSAT, &rec.OutputPath); err != nil {
		return rec, wrapDBError(err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return rec, fmt.Errorf("stored run id %q is invalid: %w", id, err)
	}
	rec.RunID = parsed
	rec.StartedAt = time.Unix(started, 0)
	rec.EndedAt = time.Unix(ended, 0)
	return rec, nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
