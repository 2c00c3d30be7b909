// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package refresh replaces one source's contribution to the catalog.
//
// A refresh collects the source, merges its drafts, drops candidates that
// other sources already hold and swaps the source's rows inside a single
// transaction. Nothing is committed once the context is done.
package refresh

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikbelko/Minsk-event/internal/dedup"
	"github.com/nikbelko/Minsk-event/internal/merge"
	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/source"
	"github.com/nikbelko/Minsk-event/internal/store"
)

// Options configure a Refresher.
type Options struct {
	Policy   Policy
	City     string
	Location *time.Location
	Now      func() time.Time
}

// Refresher runs source refreshes against the catalog.
type Refresher struct {
	db      *sql.DB
	queries *store.Queries
	opts    Options
	logger  *slog.Logger
}

// New creates a Refresher.
func New(db *sql.DB, opts Options, logger *slog.Logger) *Refresher {
	if opts.Policy == "" {
		opts.Policy = PolicyPreserve
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Refresher{
		db:      db,
		queries: store.New(db),
		opts:    opts,
		logger:  logger,
	}
}

// Today returns the current date in the catalog's time zone.
func (r *Refresher) Today() time.Time {
	return r.opts.Now().In(r.opts.Location)
}

// Refresh replaces src's rows with its current listing. The returned
// Result is filled in for every outcome; err is non-nil unless the outcome
// is OutcomeOK.
func (r *Refresher) Refresh(ctx context.Context, src source.Source) (Result, error) {
	started := time.Now()
	name := src.Name()
	logger := r.logger.With("source", name)
	res := Result{Source: name, Duplicates: make(map[string]int)}

	h, err := src.Collect(ctx, r.Today())
	if err != nil {
		res.Outcome = OutcomeFetchFailed
		if errors.Is(err, context.DeadlineExceeded) {
			res.Outcome = OutcomeTimeout
		}
		res.Elapsed = time.Since(started)
		return res, fmt.Errorf("collecting %s: %w", name, err)
	}
	res.Stats = h.Stats
	res.Found = len(h.Drafts)
	res.Foreign = h.Stats.ForeignCity

	if len(h.Drafts) == 0 {
		res.Outcome = OutcomeEmpty
		res.Note = emptyNote(h.Stats)
		if r.opts.Policy == PolicyWipe {
			if err := r.replace(ctx, name, nil, &res, logger); err != nil {
				res.Outcome = storeOutcome(err)
				res.Elapsed = time.Since(started)
				return res, err
			}
			res.Note += "; prior rows wiped"
		} else {
			res.Note += "; prior rows kept"
		}
		logger.Warn("empty harvest", "note", res.Note, "blocks", h.Stats.Blocks)
		res.Elapsed = time.Since(started)
		return res, ErrEmptyHarvest
	}

	events := merge.Merge(h.Drafts, r.opts.City)
	res.Merged = len(events)

	if err := r.replace(ctx, name, events, &res, logger); err != nil {
		res.Outcome = storeOutcome(err)
		res.Elapsed = time.Since(started)
		return res, err
	}

	res.Outcome = OutcomeOK
	res.Elapsed = time.Since(started)
	logger.Info("source refreshed",
		"found", res.Found,
		"merged", res.Merged,
		"added", res.Added,
		"deleted", res.Deleted,
		"duplicates", res.DuplicateTotal(),
		"invalid", res.Invalid,
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// replace deletes name's rows and inserts the accepted events in one
// transaction. Candidates are compared against other sources' rows of the
// same date as they stand inside the transaction. Counters reach res only
// once the transaction commits.
func (r *Refresher) replace(ctx context.Context, name string, events []model.Event, res *Result, logger *slog.Logger) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := r.queries.WithTx(tx)

	deleted, err := q.DeleteEventsBySource(ctx, name)
	if err != nil {
		return fmt.Errorf("deleting rows of %s: %w", name, err)
	}

	var (
		others     = make(map[string][]model.Event)
		duplicates = make(map[string]int)
		added      int
		invalid    int
	)
	for _, e := range events {
		if err := e.Validate(); err != nil {
			invalid++
			logger.Warn("invalid event skipped", "title", e.Title, "error", err)
			continue
		}

		existing, ok := others[e.EventDate]
		if !ok {
			existing, err = q.ListEventsOnDateExcludingSource(ctx, e.EventDate, name)
			if err != nil {
				return fmt.Errorf("loading rows on %s: %w", e.EventDate, err)
			}
			others[e.EventDate] = existing
		}
		if m, dup := dedup.Check(e, existing); dup {
			duplicates[m.Tier.String()]++
			logger.Debug("duplicate skipped",
				"title", e.Title,
				"date", e.EventDate,
				"tier", m.Tier.String(),
				"owner", m.Existing.SourceName,
			)
			continue
		}

		if _, err := q.CreateEvent(ctx, e); err != nil {
			return fmt.Errorf("inserting %q: %w", e.Title, err)
		}
		added++
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh of %s aborted before commit: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	res.Deleted = int(deleted)
	res.Added = added
	res.Invalid = invalid
	res.Duplicates = duplicates
	return nil
}

func storeOutcome(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	return OutcomeStoreFailed
}
