// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the catalog refresh: the Runner sequences source
// refreshes into a report and the Scheduler triggers it on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers a job on a cron schedule. A trigger that fires while
// the previous run is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	expr   string
	job    func(context.Context)
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// ParseSchedule validates a standard five-field cron expression.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", expr, err)
	}
	return sched, nil
}

// New creates a scheduler running job at the cron expression expr in loc.
func New(expr string, loc *time.Location, job func(context.Context), logger *slog.Logger) (*Scheduler, error) {
	if _, err := ParseSchedule(expr); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		expr:   expr,
		job:    job,
		logger: logger,
	}, nil
}

// Start schedules the job. Jobs run with a context derived from ctx that is
// cancelled by Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	_, err := s.cron.AddFunc(s.expr, func() {
		s.job(s.ctx)
	})
	if err != nil {
		s.cancel()
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedule", s.expr, "next", s.Next())
	return nil
}

// Next returns the next activation time, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
