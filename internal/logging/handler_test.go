// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestSourceHandler_KeepsWarningsPerSource(t *testing.T) {
	warnings := NewWarningLog(10)
	logger := slog.New(NewSourceHandler(discardHandler{}, warnings))

	kino := logger.With(SourceKey, "relax.by/kino")
	kino.Info("listing extracted")
	kino.Warn("fetch attempt failed", "attempt", 1, "error", errors.New("timeout"))
	logger.Error("refresh failed", SourceKey, "ticketpro.by")
	logger.Warn("no source here")

	got := warnings.Take("relax.by/kino")
	if len(got) != 1 || got[0] != "fetch attempt failed: timeout" {
		t.Errorf("kino warnings = %q", got)
	}
	if got := warnings.Take("ticketpro.by"); len(got) != 1 || got[0] != "refresh failed" {
		t.Errorf("ticketpro warnings = %q", got)
	}
	if got := warnings.Take("relax.by/kino"); len(got) != 0 {
		t.Errorf("Take should clear, got %q", got)
	}
}

func TestSourceHandler_WithGroupKeepsSource(t *testing.T) {
	warnings := NewWarningLog(10)
	logger := slog.New(NewSourceHandler(discardHandler{}, warnings)).
		With(SourceKey, "relax.by/expo").
		WithGroup("fetch")
	logger.Warn("slow page")

	if got := warnings.Take("relax.by/expo"); len(got) != 1 {
		t.Errorf("warnings = %q, want one line", got)
	}
}

func TestWarningLog_Limit(t *testing.T) {
	warnings := NewWarningLog(2)
	for i := 0; i < 5; i++ {
		warnings.Record("s", "line")
	}
	if got := warnings.Take("s"); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestNew_Format(t *testing.T) {
	var buf bytes.Buffer
	New(slog.LevelInfo, "json", &buf, nil).Info("hello", "k", "v")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	New(slog.LevelWarn, "text", &buf, NewWarningLog(0)).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info record written at warn level: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
