package reportlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// Store archives generated performance reports so past runs can be inspected
// over HTTP. It runs on its own lightweight SQLite handle, separate from the
// main gorm store.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Record is one archived report.
type Record struct {
	ID        int64  `json:"id"`
	TraceID   string `json:"trace_id"`
	Period    string `json:"period"`
	StartUnix int64  `json:"start_ts"`
	EndUnix   int64  `json:"end_ts"`
	Payload   string `json:"payload"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// Open creates (if needed) and migrates the archive database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("report log: path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    trace_id   TEXT NOT NULL,
    period     TEXT NOT NULL,
    start_ts   INTEGER NOT NULL,
    end_ts     INTEGER NOT NULL,
    payload    TEXT NOT NULL,
    text       TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_period_created ON reports(period, created_at);
`
	_, err := s.db.Exec(schema)
	return err
}

// Insert archives one report.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("nil report record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (trace_id, period, start_ts, end_ts, payload, text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.TraceID, rec.Period, rec.StartUnix, rec.EndUnix, rec.Payload, rec.Text, rec.CreatedAt)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// ListRecent returns the newest archived reports, optionally filtered by
// period.
func (s *Store) ListRecent(ctx context.Context, period string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	query := `SELECT id, trace_id, period, start_ts, end_ts, payload, text, created_at
	          FROM reports`
	args := []any{}
	if period = strings.TrimSpace(period); period != "" {
		query += ` WHERE period = ?`
		args = append(args, period)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.TraceID, &rec.Period, &rec.StartUnix,
			&rec.EndUnix, &rec.Payload, &rec.Text, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the archive handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
