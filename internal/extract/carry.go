// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"time"

	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/normalize"
)

// MinTitleLen is the shortest accepted title, in characters.
const MinTitleLen = 3

// Sighting is one item as it appears on a listing page, before the venue
// carry-over is applied. A zero Date means no header resolved for it.
type Sighting struct {
	Title    string
	URL      string
	Details  string
	Date     time.Time
	Venue    string
	Location string
	ShowTime string
	Price    string
}

// Tag is stamped on every draft produced from one page.
type Tag struct {
	Category model.Category
	Source   string
	// City is the default location for drafts without an address.
	City string
	// Carry lets items without their own venue inherit the last venue seen
	// on the same date. Sources that print a venue on every item leave it
	// off, so an item with a missing or placeholder venue is discarded.
	Carry bool
}

// carryState is the accumulator of Fold: the active date and the venue
// last seen on it.
type carryState struct {
	date     time.Time
	venue    string
	location string
}

// Fold turns page-ordered sightings into drafts. With tag.Carry set, items
// that do not name their own venue inherit the last venue seen on the same
// date, and the inherited venue is dropped whenever the date changes. Items
// without a date or any venue are discarded and counted in the returned
// stats, as are items located in another city.
func Fold(sightings []Sighting, tag Tag) ([]model.Draft, Stats) {
	var (
		acc    carryState
		stats  Stats
		drafts []model.Draft
	)

	for _, s := range sightings {
		title := Text(s.Title)
		switch {
		case len([]rune(title)) < MinTitleLen:
			stats.NoTitle++
			continue
		case Denylisted(title):
			stats.Denylisted++
			continue
		case s.Date.IsZero():
			stats.NoDate++
			continue
		}

		if !tag.Carry || !s.Date.Equal(acc.date) {
			acc = carryState{date: s.Date}
		}

		raw := Text(s.Venue)
		location := Text(s.Location)
		if normalize.ForeignCity(raw + " " + location) {
			stats.ForeignCity++
			continue
		}
		if raw != "" {
			if venue, ok := normalize.Venue(raw); ok {
				acc.venue = venue
				acc.location = location
			}
		}
		if acc.venue == "" {
			stats.NoVenue++
			continue
		}

		loc := acc.location
		if loc == "" {
			loc = tag.City
		}
		drafts = append(drafts, model.Draft{
			Title:      title,
			Details:    Text(s.Details),
			EventDate:  s.Date.Format(model.DateLayout),
			ShowTime:   s.ShowTime,
			Place:      acc.venue,
			Location:   loc,
			Price:      s.Price,
			Category:   tag.Category,
			SourceURL:  s.URL,
			SourceName: tag.Source,
		})
	}

	stats.Drafts = len(drafts)
	return drafts, stats
}
