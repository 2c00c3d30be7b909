// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the process logger and a slog handler that keeps
// the warnings emitted on behalf of each source so a run report can show
// them next to the source's outcome.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// SourceKey is the attribute that tags a record with its source.
const SourceKey = "source"

// DefaultWarningLimit bounds the warnings kept per source.
const DefaultWarningLimit = 20

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the process logger writing text or JSON to w. When warnings is
// non-nil, WARN and ERROR records tagged with a source are also kept there.
func New(level slog.Level, format string, w io.Writer, warnings *WarningLog) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if format == "json" {
		inner = slog.NewJSONHandler(w, opts)
	} else {
		inner = slog.NewTextHandler(w, opts)
	}
	if warnings == nil {
		return slog.New(inner)
	}
	return slog.New(NewSourceHandler(inner, warnings))
}

// WarningLog keeps a bounded list of warning lines per source.
type WarningLog struct {
	mu    sync.Mutex
	limit int
	lines map[string][]string
}

// NewWarningLog creates a log keeping at most limit lines per source.
func NewWarningLog(limit int) *WarningLog {
	if limit <= 0 {
		limit = DefaultWarningLimit
	}
	return &WarningLog{limit: limit, lines: make(map[string][]string)}
}

// Record appends line for source, dropping it once the limit is reached.
func (w *WarningLog) Record(source, line string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.lines[source]) >= w.limit {
		return
	}
	w.lines[source] = append(w.lines[source], line)
}

// Take returns and clears the lines kept for source.
func (w *WarningLog) Take(source string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	lines := w.lines[source]
	delete(w.lines, source)
	return lines
}

// SourceHandler is a slog.Handler that wraps another handler and also keeps
// WARN and ERROR records carrying a source attribute in a WarningLog.
type SourceHandler struct {
	inner    slog.Handler
	warnings *WarningLog
	source   string
	level    slog.Level
}

// NewSourceHandler wraps inner. Records at WARN and above are kept.
func NewSourceHandler(inner slog.Handler, warnings *WarningLog) *SourceHandler {
	return &SourceHandler{
		inner:    inner,
		warnings: warnings,
		level:    slog.LevelWarn,
	}
}

// Enabled implements slog.Handler.
func (h *SourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level < h.level {
		return nil
	}
	source := h.source
	var detail string
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case SourceKey:
			source = a.Value.String()
		case "error":
			detail = a.Value.String()
		}
		return true
	})
	if source == "" {
		return nil
	}

	line := r.Message
	if detail != "" {
		line += ": " + detail
	}
	h.warnings.Record(source, line)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	source := h.source
	for _, a := range attrs {
		if a.Key == SourceKey {
			source = a.Value.String()
		}
	}
	return &SourceHandler{
		inner:    h.inner.WithAttrs(attrs),
		warnings: h.warnings,
		source:   source,
		level:    h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *SourceHandler) WithGroup(name string) slog.Handler {
	return &SourceHandler{
		inner:    h.inner.WithGroup(name),
		warnings: h.warnings,
		source:   h.source,
		level:    h.level,
	}
}
