// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists resolution outcomes and the catalog
// crosswalk table in a local SQLite database. History is bookkeeping:
// the engine itself never consults it, but the crosswalk mode does, and
// operators use it to audit how listings resolved over time.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/fragmapper/pkg/types"
)

const dbFile = "fragmapper.db"

// Store manages the history SQLite database.
type Store struct {
	db      *sql.DB
	maxList int
}

// Record is one persisted resolution outcome.
type Record struct {
	Fingerprint  string    `json:"fingerprint" yaml:"fingerprint"`
	Mode         string    `json:"mode" yaml:"mode"`
	Input        string    `json:"input" yaml:"input"`
	Status       string    `json:"status" yaml:"status"`
	URL          string    `json:"url,omitempty" yaml:"url,omitempty"`
	Confidence   float64   `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Candidates   []string  `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	RulesVersion string    `json:"rules_version" yaml:"rules_version"`
	ResolvedAt   time.Time `json:"resolved_at" yaml:"resolved_at"`
}

// Fingerprint identifies one (mode, normalized input) pair. Later
// resolutions of the same listing overwrite the earlier record.
func Fingerprint(mode, normalized string) string {
	h := sha256.Sum256([]byte(mode + "\x00" + normalized))
	return fmt.Sprintf("%x", h[:16])
}

// NewStore opens or creates the history database at dir/fragmapper.db
// and creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	maxList := cfg.MaxList
	if maxList <= 0 {
		maxList = 20
	}

	s := &Store{db: db, maxList: maxList}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			fingerprint TEXT NOT NULL,
			mode TEXT NOT NULL,
			input TEXT NOT NULL,
			status TEXT NOT NULL,
			url TEXT,
			confidence REAL,
			candidates TEXT,
			rules_version TEXT,
			resolved_at TEXT NOT NULL,
			PRIMARY KEY (fingerprint, mode)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_resolved_at ON resolutions(resolved_at)`,
		`CREATE TABLE IF NOT EXISTS crosswalk (
			source_url TEXT PRIMARY KEY,
			target_url TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record upserts one resolution outcome.
func (s *Store) Record(ctx context.Context, rec Record) error {
	candidatesJSON, _ := json.Marshal(rec.Candidates)
	if rec.ResolvedAt.IsZero() {
		rec.ResolvedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (fingerprint, mode, input, status, url, confidence, candidates, rules_version, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(fingerprint, mode) DO UPDATE SET
			input=excluded.input, status=excluded.status, url=excluded.url,
			confidence=excluded.confidence, candidates=excluded.candidates,
			rules_version=excluded.rules_version, resolved_at=excluded.resolved_at`,
		rec.Fingerprint, rec.Mode, rec.Input, rec.Status, rec.URL,
		rec.Confidence, string(candidatesJSON), rec.RulesVersion,
		rec.ResolvedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording resolution: %w", err)
	}
	return nil
}

// Lookup returns the stored outcome for one fingerprint and mode, or
// nil when the listing has not been resolved before.
func (s *Store) Lookup(ctx context.Context, fingerprint, mode string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, mode, input, status, url, confidence, candidates, rules_version, resolved_at
		 FROM resolutions WHERE fingerprint = ? AND mode = ?`, fingerprint, mode)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up resolution: %w", err)
	}
	return rec, nil
}

// Recent returns the latest resolutions, newest first. A limit of 0
// uses the configured page size.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = s.maxList
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint, mode, input, status, url, confidence, candidates, rules_version, resolved_at
		 FROM resolutions ORDER BY resolved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing resolutions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Clear deletes all resolution records, keeping the crosswalk table.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resolutions`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var candidatesJSON, resolvedAt string
	var url, rulesVersion sql.NullString
	var confidence sql.NullFloat64

	err := row.Scan(&rec.Fingerprint, &rec.Mode, &rec.Input, &rec.Status,
		&url, &confidence, &candidatesJSON, &rulesVersion, &resolvedAt)
	if err != nil {
		return nil, err
	}

	rec.URL = url.String
	rec.Confidence = confidence.Float64
	rec.RulesVersion = rulesVersion.String
	if candidatesJSON != "" {
		json.Unmarshal([]byte(candidatesJSON), &rec.Candidates)
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, resolvedAt); parseErr == nil {
		rec.ResolvedAt = t
	}
	return &rec, nil
}

// RecordCrosswalk stores a source-to-target page mapping in both
// directions so either side resolves the other.
func (s *Store) RecordCrosswalk(ctx context.Context, sourceURL, targetURL string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, pair := range [][2]string{{sourceURL, targetURL}, {targetURL, sourceURL}} {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO crosswalk (source_url, target_url, recorded_at) VALUES (?, ?, ?)
			 ON CONFLICT(source_url) DO UPDATE SET target_url=excluded.target_url, recorded_at=excluded.recorded_at`,
			pair[0], pair[1], now)
		if err != nil {
			return fmt.Errorf("recording crosswalk: %w", err)
		}
	}
	return nil
}

// LookupCrosswalk returns the mapped page for sourceURL, or "" when the
// pair has never been resolved.
func (s *Store) LookupCrosswalk(ctx context.Context, sourceURL string) (string, error) {
	var target string
	err := s.db.QueryRowContext(ctx,
		`SELECT target_url FROM crosswalk WHERE source_url = ?`, sourceURL).Scan(&target)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up crosswalk: %w", err)
	}
	return target, nil
}
