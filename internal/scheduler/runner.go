// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nikbelko/Minsk-event/internal/logging"
	"github.com/nikbelko/Minsk-event/internal/refresh"
	"github.com/nikbelko/Minsk-event/internal/source"
)

// DefaultSourceTimeout bounds one source refresh when none is configured.
const DefaultSourceTimeout = 5 * time.Minute

// Refresher refreshes a single source.
type Refresher interface {
	Refresh(ctx context.Context, src source.Source) (refresh.Result, error)
}

// RunnerOptions configure a Runner.
type RunnerOptions struct {
	// Timeout bounds each source refresh.
	Timeout time.Duration
	// Warnings, when set, supplies the warnings logged per source.
	Warnings *logging.WarningLog
	// OnSource is called after every source refresh.
	OnSource []func(refresh.Result)
	// OnReport is called once with the finished report. Hook errors are
	// logged and never fail the run.
	OnReport []func(context.Context, Report) error
}

// Runner executes source refreshes one after another.
type Runner struct {
	refresher Refresher
	opts      RunnerOptions
	logger    *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(refresher Refresher, opts RunnerOptions, logger *slog.Logger) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSourceTimeout
	}
	return &Runner{refresher: refresher, opts: opts, logger: logger}
}

// Run refreshes sources in the given order. A failing, slow or panicking
// source is recorded and the run moves on to the next one.
func (r *Runner) Run(ctx context.Context, sources []source.Source) Report {
	rep := Report{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Sources:   make([]SourceReport, 0, len(sources)),
	}
	r.logger.Info("refresh run started", "run_id", rep.ID, "sources", len(sources))

	for _, src := range sources {
		name := src.Name()
		if r.opts.Warnings != nil {
			r.opts.Warnings.Take(name)
		}

		var (
			res refresh.Result
			err error
		)
		if ctx.Err() != nil {
			res = refresh.Result{Source: name, Outcome: refresh.OutcomeFailed}
			err = fmt.Errorf("run cancelled: %w", ctx.Err())
		} else {
			res, err = r.runOne(ctx, src)
		}

		for _, fn := range r.opts.OnSource {
			fn(res)
		}

		sr := newSourceReport(res, err)
		if r.opts.Warnings != nil {
			sr.Warnings = r.opts.Warnings.Take(name)
		}
		if !sr.OK {
			rep.Failed++
			r.logger.Warn("source refresh failed",
				"source", name,
				"outcome", res.Outcome,
				"error", sr.Error,
			)
		}
		rep.TotalAdded += sr.Added
		rep.Sources = append(rep.Sources, sr)
	}

	rep.FinishedAt = time.Now().UTC()
	rep.ElapsedMs = rep.FinishedAt.Sub(rep.StartedAt).Milliseconds()
	r.logger.Info("refresh run finished",
		"run_id", rep.ID,
		"added", rep.TotalAdded,
		"failed", rep.Failed,
		"elapsed_ms", rep.ElapsedMs,
	)

	// Hooks get their own context so a cancelled run can still be recorded.
	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
	defer cancel()
	for _, fn := range r.opts.OnReport {
		if err := fn(hookCtx, rep); err != nil {
			r.logger.Error("report hook failed", "run_id", rep.ID, "error", err)
		}
	}
	return rep
}

func (r *Runner) runOne(ctx context.Context, src source.Source) (res refresh.Result, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			res = refresh.Result{Source: src.Name(), Outcome: refresh.OutcomeFailed}
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	res, err = r.refresher.Refresh(ctx, src)
	if res.Source == "" {
		res.Source = src.Name()
	}
	return res, err
}
