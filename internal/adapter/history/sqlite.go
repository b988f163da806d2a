package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entity_states (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ts TEXT NOT NULL,
	entity_key TEXT NOT NULL,
	state TEXT,
	available INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entity_states_ts ON entity_states (ts);
CREATE INDEX IF NOT EXISTS idx_entity_states_key_ts ON entity_states (entity_key, ts);
`

const pruneCheckInterval = 1 * time.Hour

// SQLiteSink appends entity snapshots to a local SQLite file. Rows older
// than the retention window are pruned opportunistically after inserts.
type SQLiteSink struct {
	db        *sql.DB
	retention time.Duration
	lastPrune time.Time
}

func NewSQLiteSink(cfg config.SQLiteConfig) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
		return nil, fmt.Errorf("history database directory: %w", err)
	}
	connStr := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", cfg.Path)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// sqlite only supports a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing history schema: %w", err)
	}
	return &SQLiteSink{
		db:        db,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	}, nil
}

func (s *SQLiteSink) Name() string {
	return "sqlite"
}

func (s *SQLiteSink) Record(ctx context.Context, snapshots []entity.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting history transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO entity_states (ts, entity_key, state, available) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	for i := range snapshots {
		snapshot := &snapshots[i]
		var stateValue any
		if snapshot.State != nil {
			encoded, err := json.Marshal(snapshot.State)
			if err != nil {
				return fmt.Errorf("encoding state of %s: %w", snapshot.Key, err)
			}
			stateValue = string(encoded)
		}
		ts := snapshot.TakenAt.UTC().Format(time.RFC3339)
		if _, err := stmt.ExecContext(ctx, ts, snapshot.Key, stateValue, snapshot.Available); err != nil {
			return fmt.Errorf("inserting state of %s: %w", snapshot.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history transaction: %w", err)
	}
	return s.prune(ctx)
}

// prune drops rows beyond the retention window, at most once per
// pruneCheckInterval.
func (s *SQLiteSink) prune(ctx context.Context) error {
	if s.retention <= 0 || time.Since(s.lastPrune) < pruneCheckInterval {
		return nil
	}
	s.lastPrune = time.Now()
	cutoff := time.Now().UTC().Add(-s.retention).Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entity_states WHERE ts < ?", cutoff); err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
