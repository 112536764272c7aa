package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// ErrNoRuns is returned when a destination was never generated into.
var ErrNoRuns = errors.New("no generate run recorded")

// Run is one recorded generate invocation.
type Run struct {
	ID          string
	Seq         int64
	CreatedAt   time.Time
	Source      string
	Destination string
	Files       []File
}

// File is a generated file and its content hash at generation time.
type File struct {
	Path   string
	SHA256 string
}

// FileState classifies a recorded file against the file system.
type FileState string

const (
	Unchanged FileState = "unchanged"
	Modified  FileState = "modified"
	Missing   FileState = "missing"
)

// FileStatus is the state of one recorded file.
type FileStatus struct {
	Path  string    `json:"path"`
	State FileState `json:"state"`
}

// HashFile returns the hex SHA-256 of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RecordRun hashes paths and stores them as a new run of source into
// destination. Paths are stored as given.
func (s *Store) RecordRun(ctx context.Context, source, destination string, paths []string) (*Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	run := &Run{
		ID:          id.String(),
		CreatedAt:   s.now().UTC(),
		Source:      source,
		Destination: destination,
	}
	for _, p := range paths {
		sum, err := HashFile(p)
		if err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		run.Files = append(run.Files, File{Path: p, SHA256: sum})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, source, destination)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UnixNano(), run.Source, run.Destination)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	if run.Seq, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	for _, f := range run.Files {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO files (run_id, path, sha256)
			VALUES (?, ?, ?)
			ON CONFLICT(run_id, path) DO UPDATE SET sha256 = excluded.sha256
		`, run.ID, f.Path, f.SHA256); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recent run into destination with its files
// ordered by path. Returns ErrNoRuns if there is none.
func (s *Store) LatestRun(ctx context.Context, destination string) (*Run, error) {
	run := &Run{Destination: destination}
	var created int64
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, id, created_at, source
		FROM runs
		WHERE destination = ?
		ORDER BY seq DESC
		LIMIT 1
	`, destination).Scan(&run.Seq, &run.ID, &created, &run.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	run.CreatedAt = time.Unix(0, created).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, sha256
		FROM files
		WHERE run_id = ?
		ORDER BY path COLLATE BINARY ASC
	`, run.ID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f File
		if err := rows.Scan(&f.Path, &f.SHA256); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		run.Files = append(run.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return run, nil
}

// Status compares the files of the latest run into destination with their
// current content.
func (s *Store) Status(ctx context.Context, destination string) (*Run, []FileStatus, error) {
	run, err := s.LatestRun(ctx, destination)
	if err != nil {
		return nil, nil, err
	}

	statuses := make([]FileStatus, 0, len(run.Files))
	for _, f := range run.Files {
		st := FileStatus{Path: f.Path, State: Unchanged}
		sum, err := HashFile(f.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			st.State = Missing
		case err != nil:
			return nil, nil, fmt.Errorf("status: %w", err)
		case sum != f.SHA256:
			st.State = Modified
		}
		statuses = append(statuses, st)
	}
	return run, statuses, nil
}
