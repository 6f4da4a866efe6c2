package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/spider/internal/model"
)

// FileName is the name of the database file inside the database directory.
const FileName = "spider.db"

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// Failure kinds stored in the failures table.
const (
	kindFetch = "fetch"
	kindSkip  = "skip"
)

// HistoryDB records finished runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if they
	// don't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file; mode=rwc creates it.
	// Foreign keys are enabled per connection so that deleting a run
	// cascades to its rows.
	dsn := dbPath + "?mode=rw&_pragma=foreign_keys(1)"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed TEXT NOT NULL,
		domain TEXT NOT NULL DEFAULT '',
		recursive INTEGER NOT NULL DEFAULT 0,
		max_level INTEGER NOT NULL DEFAULT 0,
		output_dir TEXT NOT NULL DEFAULT '',
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		status TEXT NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		resources INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS artifacts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		source_url TEXT NOT NULL,
		filename TEXT NOT NULL,
		path TEXT NOT NULL,
		mime TEXT NOT NULL,
		extension TEXT NOT NULL,
		size INTEGER NOT NULL,
		digest TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_artifacts_run ON artifacts(run_id);
	CREATE INDEX IF NOT EXISTS idx_artifacts_digest ON artifacts(digest);

	CREATE TABLE IF NOT EXISTS failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		url TEXT NOT NULL,
		reason TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_failures_run ON failures(run_id);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is one row of the run history.
type RunSummary struct {
	ID         int64
	Seed       string
	Domain     string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Pages      int
	Resources  int
	Artifacts  int
	Failures   int
}

// SaveRun stores report with its artifacts and failures in a single
// transaction, sets report.ID and returns it.
func (h *HistoryDB) SaveRun(ctx context.Context, report *model.RunReport) (int64, error) {
	if report.Error != nil && report.ErrorMessage == "" {
		report.ErrorMessage = report.Error.Error()
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (seed, domain, recursive, max_level, output_dir, started_at, finished_at,
		status, pages, resources, error, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.Seed,
		report.Domain,
		report.Recursive,
		report.MaxLevel,
		report.OutputDir,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.Status(),
		len(report.Pages),
		len(report.Resources),
		report.ErrorMessage,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, a := range report.Artifacts {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO artifacts (run_id, source_url, filename, path, mime, extension, size, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, a.SourceURL, a.Filename, a.Path, a.MIME, a.Extension, a.Size, a.Digest); err != nil {
			return 0, fmt.Errorf("failed to insert artifact: %w", err)
		}
	}

	insertFailure := func(kind, url, reason string) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO failures (run_id, kind, url, reason) VALUES (?, ?, ?, ?)`,
			id, kind, url, reason)
		return err
	}
	for _, f := range report.Failures {
		if err := insertFailure(kindFetch, f.URL, f.Reason); err != nil {
			return 0, fmt.Errorf("failed to insert failure: %w", err)
		}
	}
	for _, s := range report.Skipped {
		if err := insertFailure(kindSkip, s.URL, s.Reason); err != nil {
			return 0, fmt.Errorf("failed to insert failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	report.ID = id
	return id, nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT r.id, r.seed, r.domain, r.started_at, r.finished_at, r.status, r.pages, r.resources,
		(SELECT COUNT(*) FROM artifacts a WHERE a.run_id = r.id),
		(SELECT COUNT(*) FROM failures f WHERE f.run_id = r.id AND f.kind = ?)
	FROM runs r
	ORDER BY r.id DESC
	`
	args := []any{kindFetch}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunSummary, 0)
	for rows.Next() {
		var s RunSummary
		var started, finished string
		if err := rows.Scan(&s.ID, &s.Seed, &s.Domain, &started, &finished, &s.Status,
			&s.Pages, &s.Resources, &s.Artifacts, &s.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.StartedAt = parseTimestamp(started)
		s.FinishedAt = parseTimestamp(finished)
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetRun returns the stored report of run id.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.RunReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	report.ID = id
	return &report, nil
}

// ArtifactsForRun returns the files saved by run id in the order they were
// written.
func (h *HistoryDB) ArtifactsForRun(ctx context.Context, id int64) ([]model.Artifact, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT source_url, filename, path, mime, extension, size, digest
	FROM artifacts
	WHERE run_id = ?
	ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := make([]model.Artifact, 0)
	for rows.Next() {
		var a model.Artifact
		if err := rows.Scan(&a.SourceURL, &a.Filename, &a.Path, &a.MIME, &a.Extension, &a.Size, &a.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}

	return artifacts, rows.Err()
}

// DeleteRun removes run id together with its artifacts and failures.
func (h *HistoryDB) DeleteRun(ctx context.Context, id int64) error {
	result, err := h.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a stored timestamp, returning the zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
