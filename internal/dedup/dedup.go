// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dedup decides whether a candidate event is already in the
// catalog under another source.
//
// Rules are tried in tier order over every eligible existing record; the
// first tier with any match wins.
package dedup

import (
	"strings"
	"unicode/utf8"

	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/normalize"
)

// Thresholds for the title tiers, in runes of the normalized title.
const (
	ContainMinLen  = 10
	ContainMaxDiff = 30
	BaseMinLen     = 8
)

// Tier identifies the rule that matched.
type Tier int

// Tiers in evaluation order.
const (
	TierNone Tier = iota
	TierExact
	TierTitle
	TierContainment
	TierBase
)

// Tiers lists the matching tiers in evaluation order.
func Tiers() []Tier {
	return []Tier{TierExact, TierTitle, TierContainment, TierBase}
}

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierTitle:
		return "title"
	case TierContainment:
		return "containment"
	case TierBase:
		return "base_title"
	default:
		return "none"
	}
}

// Match describes a duplicate hit.
type Match struct {
	Tier     Tier
	Existing model.Event
}

type entry struct {
	event model.Event
	venue string
	title string
	base  string
	n     int
}

func newEntry(e model.Event) entry {
	title := normalize.Title(e.Title)
	return entry{
		event: e,
		venue: normalize.VenueKey(e.Place),
		title: title,
		base:  normalize.BaseTitle(title),
		n:     utf8.RuneCountInString(title),
	}
}

// Check compares candidate against existing. Only records on the same date
// from other sources are considered.
func Check(candidate model.Event, existing []model.Event) (Match, bool) {
	c := newEntry(candidate)
	pool := make([]entry, 0, len(existing))
	for _, e := range existing {
		if e.EventDate != candidate.EventDate || e.SourceName == candidate.SourceName {
			continue
		}
		pool = append(pool, newEntry(e))
	}

	for _, tier := range Tiers() {
		for _, e := range pool {
			if matches(tier, c, e) {
				return Match{Tier: tier, Existing: e.event}, true
			}
		}
	}
	return Match{}, false
}

func matches(tier Tier, c, e entry) bool {
	switch tier {
	case TierExact:
		return c.event.Category == e.event.Category &&
			c.venue != "" && c.venue == e.venue &&
			c.event.ShowTime != "" && c.event.ShowTime == e.event.ShowTime
	case TierTitle:
		return c.title != "" && c.title == e.title
	case TierContainment:
		if c.n <= ContainMinLen || e.n <= ContainMinLen {
			return false
		}
		if !strings.Contains(c.title, e.title) && !strings.Contains(e.title, c.title) {
			return false
		}
		return abs(c.n-e.n) < ContainMaxDiff
	case TierBase:
		return utf8.RuneCountInString(c.base) > BaseMinLen && c.base == e.base
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
