// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikbelko/Minsk-event/internal/refresh"
	"github.com/nikbelko/Minsk-event/internal/store"
	"github.com/nikbelko/Minsk-event/internal/util"
)

// ErrorExcerptLen bounds the error text kept per source, in runes.
const ErrorExcerptLen = 300

// SourceReport is one source's line in a run report.
type SourceReport struct {
	Source      string          `json:"source"`
	OK          bool            `json:"ok"`
	Outcome     refresh.Outcome `json:"outcome"`
	Found       int             `json:"found"`
	Merged      int             `json:"merged"`
	Added       int             `json:"added"`
	Deleted     int             `json:"deleted"`
	Duplicates  map[string]int  `json:"duplicates,omitempty"`
	ForeignCity int             `json:"foreign_city"`
	ElapsedMs   int64           `json:"elapsed_ms"`
	Note        string          `json:"note,omitempty"`
	Error       string          `json:"error,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// DuplicateTotal sums the duplicates skipped across tiers.
func (s SourceReport) DuplicateTotal() int {
	n := 0
	for _, c := range s.Duplicates {
		n += c
	}
	return n
}

// Report summarises one orchestrator run.
type Report struct {
	ID         string         `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	ElapsedMs  int64          `json:"elapsed_ms"`
	TotalAdded int            `json:"total_added"`
	Failed     int            `json:"failed"`
	Sources    []SourceReport `json:"sources"`
}

func newSourceReport(res refresh.Result, err error) SourceReport {
	sr := SourceReport{
		Source:      res.Source,
		OK:          err == nil && res.Outcome.OK(),
		Outcome:     res.Outcome,
		Found:       res.Found,
		Merged:      res.Merged,
		Added:       res.Added,
		Deleted:     res.Deleted,
		Duplicates:  res.Duplicates,
		ForeignCity: res.Foreign,
		ElapsedMs:   res.Elapsed.Milliseconds(),
		Note:        res.Note,
	}
	if err != nil {
		sr.Error = excerpt(err.Error(), ErrorExcerptLen)
	}
	return sr
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// SaveReport persists a run and its source lines in one transaction.
func SaveReport(ctx context.Context, db *sql.DB, rep Report) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(db).WithTx(tx)
	if err := q.CreateRun(ctx, store.RefreshRun{
		ID:         rep.ID,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		ElapsedMs:  rep.ElapsedMs,
		TotalAdded: int64(rep.TotalAdded),
		Failed:     int64(rep.Failed),
	}); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	for i, s := range rep.Sources {
		dups, err := json.Marshal(s.Duplicates)
		if err != nil {
			return fmt.Errorf("encoding duplicates of %s: %w", s.Source, err)
		}
		if err := q.CreateRunSource(ctx, store.RefreshRunSource{
			RunID:       rep.ID,
			Position:    int64(i),
			SourceName:  s.Source,
			Outcome:     string(s.Outcome),
			Ok:          util.BoolToInt64(s.OK),
			Found:       int64(s.Found),
			Merged:      int64(s.Merged),
			Added:       int64(s.Added),
			Deleted:     int64(s.Deleted),
			Duplicates:  string(dups),
			ForeignCity: int64(s.ForeignCity),
			ElapsedMs:   s.ElapsedMs,
			Note:        s.Note,
			Error:       s.Error,
		}); err != nil {
			return fmt.Errorf("saving run source %s: %w", s.Source, err)
		}
	}

	return tx.Commit()
}

// LoadLatestReport reads the most recent persisted run. It returns
// sql.ErrNoRows when no run was saved yet.
func LoadLatestReport(ctx context.Context, q *store.Queries) (Report, error) {
	run, err := q.GetLatestRun(ctx)
	if err != nil {
		return Report{}, err
	}
	lines, err := q.ListRunSources(ctx, run.ID)
	if err != nil {
		return Report{}, fmt.Errorf("loading run sources: %w", err)
	}

	rep := Report{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		ElapsedMs:  run.ElapsedMs,
		TotalAdded: int(run.TotalAdded),
		Failed:     int(run.Failed),
		Sources:    make([]SourceReport, 0, len(lines)),
	}
	for _, l := range lines {
		var dups map[string]int
		if err := json.Unmarshal([]byte(l.Duplicates), &dups); err != nil {
			return Report{}, fmt.Errorf("decoding duplicates of %s: %w", l.SourceName, err)
		}
		if len(dups) == 0 {
			dups = nil
		}
		rep.Sources = append(rep.Sources, SourceReport{
			Source:      l.SourceName,
			OK:          l.Ok != 0,
			Outcome:     refresh.Outcome(l.Outcome),
			Found:       int(l.Found),
			Merged:      int(l.Merged),
			Added:       int(l.Added),
			Deleted:     int(l.Deleted),
			Duplicates:  dups,
			ForeignCity: int(l.ForeignCity),
			ElapsedMs:   l.ElapsedMs,
			Note:        l.Note,
			Error:       l.Error,
		})
	}
	return rep, nil
}
