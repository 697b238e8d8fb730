// Package history persists per-scan summary rows in sqlite. Only
// aggregate numbers are stored; extracted type definitions never touch
// disk.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// ScanRecord summarizes one extraction run.
type ScanRecord struct {
	ProjectKey string
	Timestamp  time.Time
	FileCount  int
	TypeCount  int
	DurationMS int64
	Truncated  bool
	LimitHit   string
}

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *Store) SaveScan(rec ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ProjectKey = strings.TrimSpace(rec.ProjectKey)
	if rec.ProjectKey == "" {
		rec.ProjectKey = "default"
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO scans (project_key, ts_utc, file_count, type_count, duration_ms, truncated, limit_hit)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(project_key, ts_utc) DO UPDATE SET
  file_count=excluded.file_count,
  type_count=excluded.type_count,
  duration_ms=excluded.duration_ms,
  truncated=excluded.truncated,
  limit_hit=excluded.limit_hit
`
	return s.withRetry("save scan", func() error {
		_, err := s.db.Exec(
			query,
			rec.ProjectKey,
			rec.Timestamp.UTC().Format(time.RFC3339Nano),
			rec.FileCount,
			rec.TypeCount,
			rec.DurationMS,
			rec.Truncated,
			rec.LimitHit,
		)
		return err
	})
}

func (s *Store) LoadScans(projectKey string, since time.Time) ([]ScanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectKey = strings.TrimSpace(projectKey)
	if projectKey == "" {
		projectKey = "default"
	}

	query := `
SELECT project_key, ts_utc, file_count, type_count, duration_ms, truncated, limit_hit
FROM scans
WHERE project_key = ?`
	args := []any{projectKey}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(time.RFC3339Nano))
	}
	query += " ORDER BY ts_utc ASC"

	var rows *sql.Rows
	err := s.withRetry("load scans", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]ScanRecord, 0)
	for rows.Next() {
		var (
			tsRaw string
			rec   ScanRecord
		)
		if err := rows.Scan(
			&rec.ProjectKey,
			&tsRaw,
			&rec.FileCount,
			&rec.TypeCount,
			&rec.DurationMS,
			&rec.Truncated,
			&rec.LimitHit,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}

		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse scan timestamp %q: %w", tsRaw, err)
		}
		rec.Timestamp = ts.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return records, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS scans (
  project_key TEXT NOT NULL DEFAULT 'default',
  ts_utc TEXT NOT NULL,
  file_count INTEGER NOT NULL,
  type_count INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  truncated INTEGER NOT NULL DEFAULT 0,
  limit_hit TEXT NOT NULL DEFAULT '',
  created_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP),
  PRIMARY KEY (project_key, ts_utc)
);
CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(ts_utc);
CREATE INDEX IF NOT EXISTS idx_scans_project_key ON scans(project_key);
`)
	if err != nil {
		return fmt.Errorf("create scans table: %w", err)
	}
	return nil
}
