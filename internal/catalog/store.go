// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records pipeline runs in a SQLite database: per-run
// counts, the chapters that went into the corpus and the accepted
// flashcards. The latest deck can be exported as YAML or JSON.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/slidenotes/pkg/types"
)

// ErrNoRuns is returned when the catalog holds no run.
var ErrNoRuns = errors.New("catalog has no runs")

// Chapter is one corpus chapter as recorded for a run.
type Chapter struct {
	Stem     string        `json:"stem" yaml:"stem"`
	Variant  types.Variant `json:"variant" yaml:"variant"`
	Slides   int           `json:"slides" yaml:"slides"`
	HasNotes bool          `json:"has_notes" yaml:"has_notes"`
	Checksum string        `json:"checksum" yaml:"checksum"`
}

// Run is one recorded pipeline run.
type Run struct {
	Summary    types.RunSummary
	StartedAt  time.Time
	FinishedAt time.Time
	Chapters   []Chapter
	Cards      []types.Flashcard
}

// Store manages the catalog database.
type Store struct {
	db        *sql.DB
	exportDir string
}

// Open opens or creates the catalog database at dbPath. Exports are written
// to exportDir.
func Open(dbPath, exportDir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, exportDir: exportDir}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			containers INTEGER NOT NULL DEFAULT 0,
			converted INTEGER NOT NULL DEFAULT 0,
			conversion_failed INTEGER NOT NULL DEFAULT 0,
			extracted INTEGER NOT NULL DEFAULT 0,
			extraction_failed INTEGER NOT NULL DEFAULT 0,
			flashcards INTEGER NOT NULL DEFAULT 0,
			generator TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chapters (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			stem TEXT NOT NULL,
			variant TEXT NOT NULL,
			slides INTEGER NOT NULL DEFAULT 0,
			has_notes INTEGER NOT NULL DEFAULT 0,
			checksum TEXT,
			PRIMARY KEY (run_id, stem)
		)`,
		`CREATE TABLE IF NOT EXISTS flashcards (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			term TEXT NOT NULL,
			definition TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores run in one transaction and returns its ID. A run
// without an ID gets a new time-ordered UUID.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	id := run.Summary.RunID
	if id == "" {
		u, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating run id: %w", err)
		}
		id = u.String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	sum := run.Summary
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, containers, converted, conversion_failed,
			extracted, extraction_failed, flashcards, generator)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, formatTime(run.StartedAt), formatTime(run.FinishedAt), sum.Containers, sum.Converted,
		sum.ConversionFailed, sum.Extracted, sum.ExtractionFailed, len(run.Cards), string(sum.Guide),
	); err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for i, ch := range run.Chapters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chapters (run_id, position, stem, variant, slides, has_notes, checksum)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, ch.Stem, string(ch.Variant), ch.Slides, ch.HasNotes, ch.Checksum,
		); err != nil {
			return "", fmt.Errorf("inserting chapter %s: %w", ch.Stem, err)
		}
	}

	for i, c := range run.Cards {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flashcards (run_id, position, term, definition) VALUES (?, ?, ?, ?)`,
			id, i, c.Term, c.Definition,
		); err != nil {
			return "", fmt.Errorf("inserting flashcard %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs returns up to limit runs, newest first, without chapters or cards.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, containers, converted, conversion_failed,
			extracted, extraction_failed, flashcards, generator,
			(SELECT COUNT(*) FROM chapters c WHERE c.run_id = runs.id)
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished, generator string
		sum := &r.Summary
		if err := rows.Scan(&sum.RunID, &started, &finished, &sum.Containers, &sum.Converted,
			&sum.ConversionFailed, &sum.Extracted, &sum.ExtractionFailed, &sum.Flashcards, &generator, &sum.Chapters); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.Guide = types.GuideSource(generator)
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the newest run with its chapters and cards.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	runs, err := s.Runs(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNoRuns
	}
	run := runs[0]

	if run.Chapters, err = s.Chapters(ctx, run.Summary.RunID); err != nil {
		return nil, err
	}
	if run.Cards, err = s.Flashcards(ctx, run.Summary.RunID, ""); err != nil {
		return nil, err
	}
	return &run, nil
}

// Chapters returns the chapters of a run in corpus order.
func (s *Store) Chapters(ctx context.Context, runID string) ([]Chapter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT stem, variant, slides, has_notes, COALESCE(checksum, '')
		FROM chapters WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying chapters: %w", err)
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var c Chapter
		var variant string
		if err := rows.Scan(&c.Stem, &variant, &c.Slides, &c.HasNotes, &c.Checksum); err != nil {
			return nil, fmt.Errorf("scanning chapter: %w", err)
		}
		c.Variant = types.Variant(variant)
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// Flashcards returns the cards of a run in study-guide order. A non-empty
// filter keeps cards whose term or definition contains it, ignoring ASCII
// case.
func (s *Store) Flashcards(ctx context.Context, runID, filter string) ([]types.Flashcard, error) {
	query := `SELECT term, definition FROM flashcards WHERE run_id = ?`
	args := []any{runID}
	if filter != "" {
		query += ` AND (term LIKE ? ESCAPE '\' OR definition LIKE ? ESCAPE '\')`
		pattern := "%" + escapeLike(filter) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying flashcards: %w", err)
	}
	defer rows.Close()

	var cards []types.Flashcard
	for rows.Next() {
		var c types.Flashcard
		if err := rows.Scan(&c.Term, &c.Definition); err != nil {
			return nil, fmt.Errorf("scanning flashcard: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Checksum returns the hex SHA-256 of the file at path.
func Checksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
