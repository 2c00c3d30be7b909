// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/service"
)

// DefaultUpcomingDays is the window used when days is not given.
const DefaultUpcomingDays = 7

// ListEventsOnDate handles GET /api/v1/events?date=&category=
func (h *Handler) ListEventsOnDate(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r)
	if !ok {
		return
	}
	date, ok := h.parseDate(w, r, "date")
	if !ok {
		return
	}

	events, err := h.catalog.OnDate(r.Context(), date, category)
	if err != nil {
		h.queryFailed(w, r, err)
		return
	}
	day := date.Format(model.DateLayout)
	WriteSuccess(w, events, &Meta{Total: len(events), From: day, To: day, Category: string(category)})
}

// ListUpcomingEvents handles GET /api/v1/events/upcoming?from=&days=&category=
func (h *Handler) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r)
	if !ok {
		return
	}
	from, ok := h.parseDate(w, r, "from")
	if !ok {
		return
	}
	days := DefaultUpcomingDays
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			WriteBadRequest(w, "Invalid days", map[string]string{"days": "must be an integer"})
			return
		}
		days = n
	}

	events, err := h.catalog.Upcoming(r.Context(), from, days, category)
	if err != nil {
		h.queryFailed(w, r, err)
		return
	}
	WriteSuccess(w, events, &Meta{
		Total:    len(events),
		From:     from.Format(model.DateLayout),
		To:       from.AddDate(0, 0, days-1).Format(model.DateLayout),
		Category: string(category),
	})
}

// ListWeekendEvents handles GET /api/v1/events/weekend?category=
func (h *Handler) ListWeekendEvents(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(w, r)
	if !ok {
		return
	}
	today := h.today()

	events, err := h.catalog.Weekend(r.Context(), today, category)
	if err != nil {
		h.queryFailed(w, r, err)
		return
	}
	sat := service.WeekendStart(today)
	WriteSuccess(w, events, &Meta{
		Total:    len(events),
		From:     sat.Format(model.DateLayout),
		To:       sat.AddDate(0, 0, 1).Format(model.DateLayout),
		Category: string(category),
	})
}

// SearchEvents handles GET /api/v1/events/search?q=&limit=
func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			WriteBadRequest(w, "Invalid limit", map[string]string{"limit": "must be an integer"})
			return
		}
		limit = n
	}
	from := h.today()

	events, err := h.catalog.SearchTitle(r.Context(), q, from, limit)
	if err != nil {
		h.queryFailed(w, r, err)
		return
	}
	WriteSuccess(w, events, &Meta{Total: len(events), From: from.Format(model.DateLayout)})
}

// ListCategories handles GET /api/v1/categories
func (h *Handler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	cats := model.Categories()
	WriteSuccess(w, cats, &Meta{Total: len(cats)})
}

func parseCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	s := r.URL.Query().Get("category")
	if s == "" {
		return "", true
	}
	c, err := model.ParseCategory(s)
	if err != nil {
		WriteBadRequest(w, "Invalid category", map[string]string{"category": err.Error()})
		return "", false
	}
	return c, true
}

// parseDate reads a YYYY-MM-DD query parameter, defaulting to today.
func (h *Handler) parseDate(w http.ResponseWriter, r *http.Request, param string) (time.Time, bool) {
	s := r.URL.Query().Get(param)
	if s == "" {
		return h.today(), true
	}
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		WriteBadRequest(w, "Invalid "+param, map[string]string{param: "expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

func (h *Handler) queryFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrInvalidQuery) {
		WriteBadRequest(w, err.Error(), nil)
		return
	}
	h.logger.Error("catalog query failed", "path", r.URL.Path, "error", err)
	WriteInternalError(w, "Failed to query events")
}
