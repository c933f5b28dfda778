// Package repositories holds the PostgreSQL data access for MolViz.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/database/postgres"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

// queryExecutor abstracts sql.DB and sql.Tx
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// HistoryEntry is one stored visualization.
type HistoryEntry struct {
	EventID    string    `json:"event_id"`
	SessionID  string    `json:"session_id"`
	SMILES     string    `json:"smiles"`
	Formula    string    `json:"formula"`
	AtomCount  int       `json:"atom_count"`
	HeavyAtoms int       `json:"heavy_atoms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// HistorySummary aggregates the whole table.
type HistorySummary struct {
	Events    int64 `json:"events"`
	Molecules int64 `json:"molecules"`
	Sessions  int64 `json:"sessions"`
}

// HistoryRepository persists visualized events. Inserts are idempotent on
// the event id.
type HistoryRepository struct {
	exec   queryExecutor
	logger logging.Logger
}

// NewHistoryRepository creates a repository over conn.
func NewHistoryRepository(conn *postgres.Connection, log logging.Logger) *HistoryRepository {
	return &HistoryRepository{exec: conn.DB(), logger: log}
}

const historyColumns = `event_id, session_id, smiles, formula, atom_count, heavy_atoms, occurred_at`

// Record stores ev. It reports false when the event id is already present.
// Events without an id get a fresh one.
func (r *HistoryRepository) Record(ctx context.Context, ev *session.VisualizedEvent) (bool, error) {
	if ev == nil || ev.SMILES == "" {
		return false, errors.New(errors.CodeInvalidParam, "event has no SMILES")
	}
	id := ev.ID
	if id == "" {
		id = uuid.New().String()
	}
	occurred := ev.Timestamp
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	res, err := r.exec.ExecContext(ctx, `
		INSERT INTO visualizations (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING`,
		id, ev.SessionID, ev.SMILES, ev.Formula, ev.AtomCount, ev.HeavyAtoms, occurred,
	)
	if err != nil {
		return false, errors.Wrap(err, errors.CodeDatabaseError, "failed to insert visualization")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, errors.CodeDatabaseError, "failed to read insert result")
	}
	if n == 0 {
		r.logger.Debug("visualization already stored", logging.String("event_id", id))
	}
	return n > 0, nil
}

// Recent returns the latest limit visualizations, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.exec.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM visualizations
		ORDER BY occurred_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query history")
	}
	return collect(rows)
}

// BySession returns the latest limit visualizations of one session.
func (r *HistoryRepository) BySession(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.exec.QueryContext(ctx, `
		SELECT `+historyColumns+`
		FROM visualizations
		WHERE session_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to query session history")
	}
	return collect(rows)
}

// Summary counts events, distinct molecules and distinct sessions.
func (r *HistoryRepository) Summary(ctx context.Context) (*HistorySummary, error) {
	var s HistorySummary
	err := r.exec.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT smiles), COUNT(DISTINCT session_id)
		FROM visualizations`).Scan(&s.Events, &s.Molecules, &s.Sessions)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to summarise history")
	}
	return &s, nil
}

func collect(rows *sql.Rows) ([]HistoryEntry, error) {
	defer rows.Close()
	var out []HistoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to iterate history")
	}
	return out, nil
}

func scanEntry(s scanner) (*HistoryEntry, error) {
	var e HistoryEntry
	if err := s.Scan(&e.EventID, &e.SessionID, &e.SMILES, &e.Formula, &e.AtomCount, &e.HeavyAtoms, &e.OccurredAt); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan history row")
	}
	return &e, nil
}

//Personal.AI order the ending
