// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a history of analyses in SQLite so earlier results
// can be listed, inspected, and exported.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-analyzer/pkg/types"
)

const (
	defaultDir = "analyses"
	dbFile     = "history.db"

	// timeLayout is fixed-width so created_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when no analysis matches.
var ErrNotFound = errors.New("analysis not found")

// Store manages the history database.
type Store struct {
	db  *sql.DB
	dir string
}

// Open opens or creates the database at cfg.Dir/history.db and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source_path TEXT,
			content_hash TEXT NOT NULL,
			metadata_source TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			journal TEXT,
			year TEXT,
			doi TEXT,
			citations TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_content_hash ON analyses(content_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save inserts rec, assigning an ID and timestamp when they are unset, and
// returns the stored record.
func (s *Store) Save(ctx context.Context, rec types.AnalysisRecord) (types.AnalysisRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	citations, err := json.Marshal(rec.Citations)
	if err != nil {
		return rec, fmt.Errorf("marshaling citations: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, source_path, content_hash, metadata_source,
			title, authors, journal, year, doi, citations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.Format(timeLayout), rec.SourcePath, rec.ContentHash,
		string(rec.MetadataSource), rec.Metadata.Title, rec.Metadata.Authors,
		rec.Metadata.Journal, rec.Metadata.Year, rec.Metadata.DOI, string(citations),
	)
	if err != nil {
		return rec, fmt.Errorf("inserting analysis %s: %w", rec.ID, err)
	}
	return rec, nil
}

const selectColumns = `SELECT id, created_at, source_path, content_hash, metadata_source,
	title, authors, journal, year, doi, citations FROM analyses`

// Get returns the analysis with the given ID.
func (s *Store) Get(ctx context.Context, id string) (types.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// FindByHash returns the most recent analysis of text with the given hash.
func (s *Store) FindByHash(ctx context.Context, hash string) (types.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE content_hash = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, hash)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("%w: hash %s", ErrNotFound, hash)
	}
	return rec, err
}

// List returns up to limit analyses, newest first. A limit of zero or less
// returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]types.AnalysisRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var records []types.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (types.AnalysisRecord, error) {
	var (
		rec                   types.AnalysisRecord
		createdAt, source     string
		sourcePath, citations sql.NullString
		title, authors        sql.NullString
		journal, year, doi    sql.NullString
	)
	err := sc.Scan(&rec.ID, &createdAt, &sourcePath, &rec.ContentHash, &source,
		&title, &authors, &journal, &year, &doi, &citations)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning analysis: %w", err)
	}

	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return rec, fmt.Errorf("parsing created_at of %s: %w", rec.ID, err)
	}
	rec.SourcePath = sourcePath.String
	rec.MetadataSource = types.MetadataSource(source)
	rec.Metadata = types.PaperMetadata{
		Title:   title.String,
		Authors: authors.String,
		Journal: journal.String,
		Year:    year.String,
		DOI:     doi.String,
	}
	if err := json.Unmarshal([]byte(citations.String), &rec.Citations); err != nil {
		return rec, fmt.Errorf("parsing citations of %s: %w", rec.ID, err)
	}
	return rec, nil
}
