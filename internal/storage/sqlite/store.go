// Package sqlite provides a SQLite-backed run snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/district-runner/internal/game"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS run_snapshots (
	run_id   TEXT PRIMARY KEY,
	version  INTEGER NOT NULL,
	saved_at INTEGER NOT NULL,
	data     BLOB NOT NULL
)`

// Store persists run snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ game.SnapshotStore = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite snapshot store and creates its table.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts a run snapshot.
func (s *Store) Save(ctx context.Context, snap game.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	runID := strings.TrimSpace(snap.RunID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO run_snapshots (run_id, version, saved_at, data)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
		   version = excluded.version,
		   saved_at = excluded.saved_at,
		   data = excluded.data`,
		runID,
		snap.Version,
		toMillis(snap.SavedAt),
		data,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the latest snapshot of a run.
func (s *Store) Load(ctx context.Context, runID string) (game.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return game.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return game.Snapshot{}, fmt.Errorf("storage is not configured")
	}

	var data []byte
	row := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM run_snapshots WHERE run_id = ?`, strings.TrimSpace(runID))
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.Snapshot{}, game.ErrRunNotFound
		}
		return game.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}

// List returns the ids of saved runs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT run_id FROM run_snapshots ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return ids, nil
}
