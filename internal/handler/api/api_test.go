// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/scheduler"
	"github.com/nikbelko/Minsk-event/internal/service"
	"github.com/nikbelko/Minsk-event/internal/testutil"
)

// fakeCatalog records the arguments of the last call.
type fakeCatalog struct {
	events   []model.Event
	err      error
	report   scheduler.Report
	runErr   error
	date     time.Time
	days     int
	category model.Category
	needle   string
	limit    int
}

func (f *fakeCatalog) OnDate(_ context.Context, date time.Time, c model.Category) ([]model.Event, error) {
	f.date, f.category = date, c
	return f.events, f.err
}

func (f *fakeCatalog) Upcoming(_ context.Context, from time.Time, days int, c model.Category) ([]model.Event, error) {
	f.date, f.days, f.category = from, days, c
	if days < 1 {
		return nil, fmt.Errorf("%w: days", service.ErrInvalidQuery)
	}
	return f.events, f.err
}

func (f *fakeCatalog) Weekend(_ context.Context, today time.Time, c model.Category) ([]model.Event, error) {
	f.date, f.category = today, c
	return f.events, f.err
}

func (f *fakeCatalog) SearchTitle(_ context.Context, needle string, from time.Time, limit int) ([]model.Event, error) {
	f.needle, f.date, f.limit = needle, from, limit
	return f.events, f.err
}

func (f *fakeCatalog) LatestRun(context.Context) (scheduler.Report, error) {
	return f.report, f.runErr
}

func newTestServer(t *testing.T, cat *fakeCatalog) *httptest.Server {
	t.Helper()
	h := NewHandler(cat, time.UTC, testutil.TestLoggerSilent())
	// Wednesday 2025-03-12, 23:30 UTC is already Thursday in Minsk.
	h.now = func() time.Time { return time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC) }
	h.loc = time.FixedZone("MSK", 3*3600)

	r := chi.NewRouter()
	r.Route("/api/v1", h.Routes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type listResponse struct {
	Data []model.Event `json:"data"`
	Meta Meta          `json:"meta"`
}

func TestListEventsOnDate(t *testing.T) {
	cat := &fakeCatalog{events: []model.Event{{Title: "Гамлет", EventDate: "2025-03-15"}}}
	srv := newTestServer(t, cat)

	var resp listResponse
	code := get(t, srv, "/api/v1/events?date=2025-03-15&category=theater", &resp)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "2025-03-15", cat.date.Format(model.DateLayout))
	assert.Equal(t, model.CategoryTheatre, cat.category)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Гамлет", resp.Data[0].Title)
	assert.Equal(t, Meta{Total: 1, From: "2025-03-15", To: "2025-03-15", Category: "theatre"}, resp.Meta)
}

func TestListEventsDefaultsToLocalToday(t *testing.T) {
	cat := &fakeCatalog{events: []model.Event{}}
	srv := newTestServer(t, cat)

	code := get(t, srv, "/api/v1/events", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "2025-03-13", cat.date.Format(model.DateLayout))
	assert.Equal(t, model.Category(""), cat.category)
}

func TestBadParameters(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{})

	tests := []struct {
		path string
		code string
	}{
		{"/api/v1/events?date=15.03.2025", "bad_request"},
		{"/api/v1/events?category=opera", "bad_request"},
		{"/api/v1/events/upcoming?days=week", "bad_request"},
		{"/api/v1/events/upcoming?days=0", "bad_request"},
		{"/api/v1/events/search?q=hamlet&limit=ten", "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var resp ErrorResponse
			status := get(t, srv, tt.path, &resp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestListUpcomingEvents(t *testing.T) {
	cat := &fakeCatalog{events: []model.Event{}}
	srv := newTestServer(t, cat)

	var resp listResponse
	code := get(t, srv, "/api/v1/events/upcoming?from=2025-03-10&days=3", &resp)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 3, cat.days)
	assert.Equal(t, "2025-03-10", resp.Meta.From)
	assert.Equal(t, "2025-03-12", resp.Meta.To)
	assert.NotNil(t, resp.Data)

	get(t, srv, "/api/v1/events/upcoming", nil)
	assert.Equal(t, DefaultUpcomingDays, cat.days)
	assert.Equal(t, "2025-03-13", cat.date.Format(model.DateLayout))
}

func TestListWeekendEvents(t *testing.T) {
	cat := &fakeCatalog{events: []model.Event{}}
	srv := newTestServer(t, cat)

	var resp listResponse
	code := get(t, srv, "/api/v1/events/weekend?category=concert", &resp)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "2025-03-13", cat.date.Format(model.DateLayout))
	assert.Equal(t, "2025-03-15", resp.Meta.From)
	assert.Equal(t, "2025-03-16", resp.Meta.To)
}

func TestSearchEvents(t *testing.T) {
	cat := &fakeCatalog{events: []model.Event{}}
	srv := newTestServer(t, cat)

	code := get(t, srv, "/api/v1/events/search?q=%D0%B3%D0%B0%D0%BC%D0%BB%D0%B5%D1%82&limit=5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "гамлет", cat.needle)
	assert.Equal(t, 5, cat.limit)
	assert.Equal(t, "2025-03-13", cat.date.Format(model.DateLayout))
}

func TestQueryFailureIsInternalError(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{err: errors.New("disk I/O error")})

	var resp ErrorResponse
	code := get(t, srv, "/api/v1/events", &resp)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal_error", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "disk")
}

func TestLatestRun(t *testing.T) {
	cat := &fakeCatalog{runErr: service.ErrNoRuns}
	srv := newTestServer(t, cat)

	code := get(t, srv, "/api/v1/runs/latest", nil)
	assert.Equal(t, http.StatusNotFound, code)

	cat.runErr = nil
	cat.report = scheduler.Report{ID: "run-1", TotalAdded: 12}
	var resp struct {
		Data scheduler.Report `json:"data"`
	}
	code = get(t, srv, "/api/v1/runs/latest", &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "run-1", resp.Data.ID)
	assert.Equal(t, 12, resp.Data.TotalAdded)
}

func TestListCategories(t *testing.T) {
	srv := newTestServer(t, &fakeCatalog{})

	var resp struct {
		Data []model.Category `json:"data"`
	}
	code := get(t, srv, "/api/v1/categories", &resp)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, model.Categories(), resp.Data)
}
