// Package history records merge runs in a SQLite database so past runs can
// be listed and inspected from the CLI.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/sheetmerge/internal/models"
)

var (
	// ErrRunNotFound is returned when no run matches an ID
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousID is returned when an ID prefix matches several runs
	ErrAmbiguousID = errors.New("run id prefix is ambiguous")
)

// RunSummary is one row of the run listing
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	Duration   time.Duration
	Status     string
	FileCount  int
	Rows       int
	OutputPath string
	Error      string
}

// Stats aggregates every recorded run
type Stats struct {
	TotalRuns  int
	Succeeded  int
	Failed     int
	TotalRows  int
	TotalFiles int
}

// Store manages the run history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath and applies
// pending migrations. ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun stores a finished run and its per-file statistics.
func (s *Store) RecordRun(ctx context.Context, run *models.RunResult) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("record run: missing run id")
	}

	columnsJSON, err := json.Marshal(run.Columns)
	if err != nil {
		return fmt.Errorf("marshal columns: %w", err)
	}
	if run.Columns == nil {
		columnsJSON = []byte("[]")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO runs
		(id, started_at, duration_ms, input_dir, output_dir, output_filename, output_path, row_count, columns, message, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
		run.InputDir,
		run.OutputDir,
		run.OutputFilename,
		run.OutputPath,
		run.Rows,
		string(columnsJSON),
		run.Message,
		run.Status,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, f := range run.Files {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO run_files (run_id, position, path, row_count, column_count) VALUES (?, ?, ?, ?, ?)`,
			run.ID, i, f.Path, f.Rows, f.Columns)
		if err != nil {
			return fmt.Errorf("insert run file %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*RunSummary, error) {
	query := `SELECT r.id, r.started_at, r.duration_ms, r.status, r.row_count, r.output_path, r.error_message,
			(SELECT COUNT(*) FROM run_files f WHERE f.run_id = r.id)
		FROM runs r
		ORDER BY r.started_at DESC, r.rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]*RunSummary, 0)
	for rows.Next() {
		var sum RunSummary
		var durationMs int64
		if err := rows.Scan(&sum.ID, &sum.StartedAt, &durationMs, &sum.Status, &sum.Rows,
			&sum.OutputPath, &sum.Error, &sum.FileCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		sum.Duration = time.Duration(durationMs) * time.Millisecond
		summaries = append(summaries, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return summaries, nil
}

// GetRun loads one run by full ID or unique ID prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*models.RunResult, error) {
	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	run := &models.RunResult{ID: fullID}
	var durationMs int64
	var columnsJSON string
	err = s.db.QueryRowContext(ctx,
		`SELECT started_at, duration_ms, input_dir, output_dir, output_filename, output_path, row_count, columns, message, status, error_message
		FROM runs WHERE id = ?`, fullID).Scan(
		&run.StartedAt, &durationMs, &run.InputDir, &run.OutputDir, &run.OutputFilename,
		&run.OutputPath, &run.Rows, &columnsJSON, &run.Message, &run.Status, &run.Error)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", fullID, err)
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond
	if err := json.Unmarshal([]byte(columnsJSON), &run.Columns); err != nil {
		return nil, fmt.Errorf("unmarshal columns: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, row_count, column_count FROM run_files WHERE run_id = ? ORDER BY position ASC`, fullID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	run.Files = make([]models.FileStat, 0)
	for rows.Next() {
		var f models.FileStat
		if err := rows.Scan(&f.Path, &f.Rows, &f.Columns); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		run.Files = append(run.Files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run files: %w", err)
	}
	return run, nil
}

func (s *Store) resolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrRunNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE substr(id, 1, ?) = ? LIMIT 2`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("query run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate run ids: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// GetStats aggregates every recorded run.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(row_count), 0)
		FROM runs`, models.RunSucceeded, models.RunFailed).Scan(
		&stats.TotalRuns, &stats.Succeeded, &stats.Failed, &stats.TotalRows)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_files`).Scan(&stats.TotalFiles); err != nil {
		return nil, fmt.Errorf("query file count: %w", err)
	}
	return stats, nil
}
