// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/normalize"
	"github.com/nikbelko/Minsk-event/internal/util"
)

const eventColumns = `id, title, details, description, event_date, show_time, place,
	location, price, category, source_url, source_name`

const eventOrder = ` ORDER BY event_date, show_time, title, id`

const createEvent = `INSERT INTO events (
	title, title_fold, details, description, event_date, show_time, place,
	location, price, category, source_url, source_name
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateEvent inserts e and returns its id.
func (q *Queries) CreateEvent(ctx context.Context, e model.Event) (int64, error) {
	res, err := q.db.ExecContext(ctx, createEvent,
		e.Title,
		normalize.Fold(e.Title),
		e.Details,
		e.Description,
		e.EventDate,
		e.ShowTime,
		util.NullStringFromValue(e.Place),
		e.Location,
		e.Price,
		string(e.Category),
		e.SourceURL,
		e.SourceName,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const deleteEventsBySource = `DELETE FROM events WHERE source_name = ?`

// DeleteEventsBySource removes every row of a source and reports how many.
func (q *Queries) DeleteEventsBySource(ctx context.Context, sourceName string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteEventsBySource, sourceName)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listEventsOnDateExcludingSource = `SELECT ` + eventColumns + `
FROM events WHERE event_date = ? AND source_name <> ?` + eventOrder

// ListEventsOnDateExcludingSource returns the rows other sources hold for a date.
func (q *Queries) ListEventsOnDateExcludingSource(ctx context.Context, eventDate, sourceName string) ([]model.Event, error) {
	return q.listEvents(ctx, listEventsOnDateExcludingSource, eventDate, sourceName)
}

const listEventsBySource = `SELECT ` + eventColumns + `
FROM events WHERE source_name = ?` + eventOrder

// ListEventsBySource returns a source's rows.
func (q *Queries) ListEventsBySource(ctx context.Context, sourceName string) ([]model.Event, error) {
	return q.listEvents(ctx, listEventsBySource, sourceName)
}

const listEventsOnDate = `SELECT ` + eventColumns + `
FROM events WHERE event_date = ? AND (? = '' OR category = ?)` + eventOrder

// ListEventsOnDate returns the rows on an exact date. An empty category
// matches all.
func (q *Queries) ListEventsOnDate(ctx context.Context, eventDate string, category model.Category) ([]model.Event, error) {
	return q.listEvents(ctx, listEventsOnDate, eventDate, string(category), string(category))
}

// ListEventsBetweenParams bounds a date range; To is exclusive.
type ListEventsBetweenParams struct {
	From     string
	To       string
	Category model.Category
}

const listEventsBetween = `SELECT ` + eventColumns + `
FROM events WHERE event_date >= ? AND event_date < ? AND (? = '' OR category = ?)` + eventOrder

// ListEventsBetween returns the rows dated in [From, To).
func (q *Queries) ListEventsBetween(ctx context.Context, arg ListEventsBetweenParams) ([]model.Event, error) {
	return q.listEvents(ctx, listEventsBetween, arg.From, arg.To, string(arg.Category), string(arg.Category))
}

// SearchEventsParams selects upcoming rows by title substring.
type SearchEventsParams struct {
	Needle string
	From   string
	Limit  int
}

const searchEventsByTitle = `SELECT ` + eventColumns + `
FROM events WHERE title_fold LIKE ? ESCAPE '\' AND event_date >= ?` + eventOrder + ` LIMIT ?`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchEventsByTitle matches the folded title against the folded needle.
func (q *Queries) SearchEventsByTitle(ctx context.Context, arg SearchEventsParams) ([]model.Event, error) {
	pattern := "%" + likeEscaper.Replace(normalize.Fold(arg.Needle)) + "%"
	return q.listEvents(ctx, searchEventsByTitle, pattern, arg.From, arg.Limit)
}

// SourceCount is the number of catalog rows one source holds.
type SourceCount struct {
	SourceName string
	Count      int64
}

const countEventsBySource = `SELECT source_name, COUNT(*) FROM events GROUP BY source_name ORDER BY source_name`

// CountEventsBySource returns row counts per source.
func (q *Queries) CountEventsBySource(ctx context.Context) ([]SourceCount, error) {
	rows, err := q.db.QueryContext(ctx, countEventsBySource)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []SourceCount
	for rows.Next() {
		var i SourceCount
		if err := rows.Scan(&i.SourceName, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) listEvents(ctx context.Context, query string, args ...interface{}) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []model.Event
	for rows.Next() {
		var (
			e        model.Event
			place    sql.NullString
			category string
		)
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Details,
			&e.Description,
			&e.EventDate,
			&e.ShowTime,
			&place,
			&e.Location,
			&e.Price,
			&category,
			&e.SourceURL,
			&e.SourceName,
		); err != nil {
			return nil, err
		}
		e.Place = util.StringFromNull(place)
		e.Category = model.Category(category)
		items = append(items, e)
	}
	return items, rows.Err()
}
