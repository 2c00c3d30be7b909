// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the read side of the catalog: date, window,
// weekend and title queries, cached between refreshes.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nikbelko/Minsk-event/internal/cache"
	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/scheduler"
	"github.com/nikbelko/Minsk-event/internal/store"
)

// Query bounds.
const (
	MaxUpcomingDays    = 31
	DefaultSearchLimit = 50
	MaxSearchLimit     = 200
	MinSearchLen       = 2
)

// ErrInvalidQuery is returned for query arguments outside their bounds.
var ErrInvalidQuery = errors.New("invalid query")

// ErrNoRuns is returned by LatestRun before the first run was saved.
var ErrNoRuns = errors.New("no refresh runs recorded")

// Catalog answers catalog queries.
type Catalog struct {
	queries *store.Queries
	events  *cache.TypedCache[[]model.Event]
	logger  *slog.Logger
}

// NewCatalog creates a catalog reader. Results are cached in c for ttl.
func NewCatalog(db *sql.DB, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *Catalog {
	return &Catalog{
		queries: store.New(db),
		events:  cache.NewTypedCache[[]model.Event](c, ttl),
		logger:  logger,
	}
}

// OnDate returns the events of one day, optionally of one category.
func (c *Catalog) OnDate(ctx context.Context, date time.Time, category model.Category) ([]model.Event, error) {
	day := date.Format(model.DateLayout)
	key := fmt.Sprintf("date:%s:%s", day, category)
	return c.cached(ctx, key, func() ([]model.Event, error) {
		return c.queries.ListEventsOnDate(ctx, day, category)
	})
}

// Upcoming returns the events dated in [from, from+days).
func (c *Catalog) Upcoming(ctx context.Context, from time.Time, days int, category model.Category) ([]model.Event, error) {
	if days < 1 || days > MaxUpcomingDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidQuery, MaxUpcomingDays)
	}
	return c.between(ctx, from, from.AddDate(0, 0, days), category)
}

// Weekend returns the Saturday and Sunday events of today's weekend when
// today is Saturday, otherwise of the next one.
func (c *Catalog) Weekend(ctx context.Context, today time.Time, category model.Category) ([]model.Event, error) {
	sat := WeekendStart(today)
	return c.between(ctx, sat, sat.AddDate(0, 0, 2), category)
}

// WeekendStart returns the Saturday Weekend reads from.
func WeekendStart(today time.Time) time.Time {
	offset := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, offset)
}

func (c *Catalog) between(ctx context.Context, from, to time.Time, category model.Category) ([]model.Event, error) {
	arg := store.ListEventsBetweenParams{
		From:     from.Format(model.DateLayout),
		To:       to.Format(model.DateLayout),
		Category: category,
	}
	key := fmt.Sprintf("range:%s:%s:%s", arg.From, arg.To, category)
	return c.cached(ctx, key, func() ([]model.Event, error) {
		return c.queries.ListEventsBetween(ctx, arg)
	})
}

// SearchTitle matches upcoming events whose title contains needle,
// ignoring case. A limit of zero uses DefaultSearchLimit.
func (c *Catalog) SearchTitle(ctx context.Context, needle string, from time.Time, limit int) ([]model.Event, error) {
	needle = strings.TrimSpace(needle)
	if utf8.RuneCountInString(needle) < MinSearchLen {
		return nil, fmt.Errorf("%w: search needs at least %d characters", ErrInvalidQuery, MinSearchLen)
	}
	switch {
	case limit == 0:
		limit = DefaultSearchLimit
	case limit < 0 || limit > MaxSearchLimit:
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidQuery, MaxSearchLimit)
	}

	arg := store.SearchEventsParams{
		Needle: needle,
		From:   from.Format(model.DateLayout),
		Limit:  limit,
	}
	key := fmt.Sprintf("search:%s:%s:%d", arg.From, strings.ToLower(needle), limit)
	return c.cached(ctx, key, func() ([]model.Event, error) {
		return c.queries.SearchEventsByTitle(ctx, arg)
	})
}

// LatestRun returns the most recent persisted run report.
func (c *Catalog) LatestRun(ctx context.Context) (scheduler.Report, error) {
	rep, err := scheduler.LoadLatestReport(ctx, c.queries)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduler.Report{}, ErrNoRuns
	}
	return rep, err
}

// SourceCounts returns the catalog rows held per source.
func (c *Catalog) SourceCounts(ctx context.Context) ([]store.SourceCount, error) {
	return c.queries.CountEventsBySource(ctx)
}

// Invalidate drops every cached result. It is called after a refresh commits.
func (c *Catalog) Invalidate(ctx context.Context) {
	if err := c.events.Clear(ctx); err != nil {
		c.logger.Warn("failed to clear query cache", "error", err)
	}
}

func (c *Catalog) cached(ctx context.Context, key string, load func() ([]model.Event, error)) ([]model.Event, error) {
	events, err := c.events.GetOrSet(ctx, key, load)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}
