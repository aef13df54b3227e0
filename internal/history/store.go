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

	_ "modernc.org/sqlite"

	"keywordtagger/internal/config"
)

// Run summarizes one tagging invocation.
type Run struct {
	ID            string
	Target        string
	StartedAt     time.Time
	FinishedAt    time.Time
	Records       int
	Updated       int
	KeywordsAdded int
	Failures      int
}

// Finished reports whether the run recorded its totals.
func (r Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// FileEntry records the outcome for a single NFO file.
type FileEntry struct {
	Path       string
	IMDbID     string
	Added      []string
	Error      string
	RecordedAt time.Time
}

// Store manages the run journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at cfg.HistoryPath().
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("history: config required")
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath initializes or connects to the history database at dbPath.
func OpenPath(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("history: database path required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun inserts a run row with its start time.
func (s *Store) BeginRun(ctx context.Context, id, target string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("run id required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, target, started_at) VALUES (?, ?, ?)`,
		id, target, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFile appends a file outcome to the run.
func (s *Store) RecordFile(ctx context.Context, runID string, entry FileEntry) error {
	var added any
	if len(entry.Added) > 0 {
		data, err := json.Marshal(entry.Added)
		if err != nil {
			return fmt.Errorf("marshal added keywords: %w", err)
		}
		added = string(data)
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (run_id, path, imdb_id, added_json, error_message, recorded_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID, entry.Path, entry.IMDbID, added, nullableString(entry.Error), formatTime(recordedAt),
	)
	if err != nil {
		return fmt.Errorf("insert file entry: %w", err)
	}
	return nil
}

// FinishRun stores the run totals and completion time.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, records = ?, updated = ?, keywords_added = ?, failures = ?
         WHERE id = ?`,
		formatTime(finished), run.Records, run.Updated, run.KeywordsAdded, run.Failures, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run: %q not found", run.ID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, started_at, finished_at, records, updated, keywords_added, failures
         FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run      Run
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Target, &started, &finished,
			&run.Records, &run.Updated, &run.KeywordsAdded, &run.Failures); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = parseTime(started)
		if finished.Valid {
			run.FinishedAt = parseTime(finished.String)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// RunFiles returns the file entries recorded for runID in insertion order.
func (s *Store) RunFiles(ctx context.Context, runID string) ([]FileEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, imdb_id, added_json, error_message, recorded_at
         FROM files WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var (
			entry      FileEntry
			added      sql.NullString
			errMessage sql.NullString
			recorded   string
		)
		if err := rows.Scan(&entry.Path, &entry.IMDbID, &added, &errMessage, &recorded); err != nil {
			return nil, fmt.Errorf("scan file entry: %w", err)
		}
		if added.Valid && added.String != "" {
			if err := json.Unmarshal([]byte(added.String), &entry.Added); err != nil {
				return nil, fmt.Errorf("decode added keywords: %w", err)
			}
		}
		entry.Error = errMessage.String
		entry.RecordedAt = parseTime(recorded)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return entries, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
