// ABOUTME: SQLite-backed artifact index recording every generated workflow for lookup and dedup.
// ABOUTME: Provides record, find-by-hash, list, and prune operations; the index is rebuildable from the output dir.
package store

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Artifact is one generated workflow: where it was written, what produced
// it, and its content-derived version hash.
type Artifact struct {
	ID          string // ulid, assigned on record
	ConfigName  string
	BaseHash    string
	Hash        string
	Path        string
	ActionCount int
	Warnings    int
	CreatedAt   time.Time
}

// Index is a SQLite-backed artifact index. It is a queryable cache, not the
// source of truth: the artifacts themselves live as hash-named files in the
// output directory, and the index can always be rebuilt from them.
type Index struct {
	db *sql.DB
}

// Open opens or creates an artifact index database at the given path and
// ensures the schema is up to date.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS artifacts (
			artifact_id TEXT PRIMARY KEY,
			config_name TEXT NOT NULL,
			base_hash TEXT NOT NULL,
			hash TEXT NOT NULL,
			path TEXT NOT NULL,
			action_count INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_artifacts_hash ON artifacts(hash);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Record inserts an artifact row. Assigns a fresh ULID and timestamp if the
// artifact doesn't carry them, and returns the assigned id.
func (ix *Index) Record(a *Artifact) (string, error) {
	if a.ID == "" {
		a.ID = ulid.MustNew(ulid.Now(), rand.Reader).String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := ix.db.Exec(`
		INSERT INTO artifacts (artifact_id, config_name, base_hash, hash, path, action_count, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ConfigName, a.BaseHash, a.Hash, a.Path, a.ActionCount, a.Warnings,
		a.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("record artifact: %w", err)
	}
	return a.ID, nil
}

// FindByHash returns the most recently recorded artifact with the given
// version hash, or nil if none exists. Callers use this to skip
// re-generating a workflow that already exists on disk.
func (ix *Index) FindByHash(hash string) (*Artifact, error) {
	row := ix.db.QueryRow(`
		SELECT artifact_id, config_name, base_hash, hash, path, action_count, warnings, created_at
		FROM artifacts WHERE hash = ? ORDER BY created_at DESC LIMIT 1`, hash)

	a, err := scanArtifact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find artifact: %w", err)
	}
	return a, nil
}

// List returns up to limit artifacts, newest first. limit <= 0 means all.
func (ix *Index) List(limit int) ([]Artifact, error) {
	query := `
		SELECT artifact_id, config_name, base_hash, hash, path, action_count, warnings, created_at
		FROM artifacts ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := ix.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, *a)
	}
	return artifacts, rows.Err()
}

// Prune deletes artifact rows older than the given duration ago and returns
// the number deleted. Only the index rows are removed, never the files.
func (ix *Index) Prune(olderThan time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	res, err := ix.db.Exec(`DELETE FROM artifacts WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune artifacts: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(s scanner) (*Artifact, error) {
	var a Artifact
	var createdAt string
	if err := s.Scan(&a.ID, &a.ConfigName, &a.BaseHash, &a.Hash, &a.Path,
		&a.ActionCount, &a.Warnings, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	a.CreatedAt = t
	return &a, nil
}
