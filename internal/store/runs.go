// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// RefreshRun is one persisted orchestrator run.
type RefreshRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	ElapsedMs  int64
	TotalAdded int64
	Failed     int64
}

// RefreshRunSource is one source line of a run.
type RefreshRunSource struct {
	ID          int64
	RunID       string
	Position    int64
	SourceName  string
	Outcome     string
	Ok          int64
	Found       int64
	Merged      int64
	Added       int64
	Deleted     int64
	Duplicates  string
	ForeignCity int64
	ElapsedMs   int64
	Note        string
	Error       string
}

const createRun = `INSERT INTO refresh_runs (id, started_at, finished_at, elapsed_ms, total_added, failed)
VALUES (?, ?, ?, ?, ?, ?)`

// CreateRun inserts a run header.
func (q *Queries) CreateRun(ctx context.Context, arg RefreshRun) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID, arg.StartedAt.UTC(), arg.FinishedAt.UTC(), arg.ElapsedMs, arg.TotalAdded, arg.Failed)
	return err
}

const createRunSource = `INSERT INTO refresh_run_sources (
	run_id, position, source_name, outcome, ok, found, merged, added, deleted,
	duplicates, foreign_city, elapsed_ms, note, error
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateRunSource inserts one source line of a run.
func (q *Queries) CreateRunSource(ctx context.Context, arg RefreshRunSource) error {
	_, err := q.db.ExecContext(ctx, createRunSource,
		arg.RunID, arg.Position, arg.SourceName, arg.Outcome, arg.Ok, arg.Found, arg.Merged,
		arg.Added, arg.Deleted, arg.Duplicates, arg.ForeignCity, arg.ElapsedMs, arg.Note, arg.Error)
	return err
}

const getLatestRun = `SELECT id, started_at, finished_at, elapsed_ms, total_added, failed
FROM refresh_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`

// GetLatestRun returns the most recent run or sql.ErrNoRows.
func (q *Queries) GetLatestRun(ctx context.Context) (RefreshRun, error) {
	row := q.db.QueryRowContext(ctx, getLatestRun)
	var r RefreshRun
	err := row.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.ElapsedMs, &r.TotalAdded, &r.Failed)
	return r, err
}

const listRunSources = `SELECT id, run_id, position, source_name, outcome, ok, found, merged,
	added, deleted, duplicates, foreign_city, elapsed_ms, note, error
FROM refresh_run_sources WHERE run_id = ? ORDER BY position`

// ListRunSources returns a run's source lines in refresh order.
func (q *Queries) ListRunSources(ctx context.Context, runID string) ([]RefreshRunSource, error) {
	rows, err := q.db.QueryContext(ctx, listRunSources, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []RefreshRunSource
	for rows.Next() {
		var i RefreshRunSource
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.Position,
			&i.SourceName,
			&i.Outcome,
			&i.Ok,
			&i.Found,
			&i.Merged,
			&i.Added,
			&i.Deleted,
			&i.Duplicates,
			&i.ForeignCity,
			&i.ElapsedMs,
			&i.Note,
			&i.Error,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
