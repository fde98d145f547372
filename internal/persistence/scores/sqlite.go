// Package scores is the high-score persistence collaborator: it records one
// row per completed run and serves the ranked top-N list. It owns its own
// storage lifecycle and never touches simulation state.
package scores

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

type Entry struct {
	Player   string
	Score    int
	Duration time.Duration
	EndedAt  time.Time
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_rank ON runs(score DESC, duration_ms ASC);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun appends one finished run. Run volume is one row per game over,
// so writes are synchronous; there is no batching writer here.
func (s *Store) RecordRun(e Entry) error {
	if s == nil {
		return nil
	}
	endedAt := e.EndedAt
	if endedAt.IsZero() {
		endedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs(player, score, duration_ms, ended_at) VALUES(?,?,?,?)`,
		e.Player, e.Score, e.Duration.Milliseconds(), endedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Top returns up to n entries ranked by score descending, ties broken by
// shorter duration.
func (s *Store) Top(n int) ([]Entry, error) {
	if s == nil || n <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT player, score, duration_ms, ended_at FROM runs
		 ORDER BY score DESC, duration_ms ASC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			ms      int64
			endedAt string
		)
		if err := rows.Scan(&e.Player, &e.Score, &ms, &endedAt); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, endedAt); err == nil {
			e.EndedAt = ts
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
