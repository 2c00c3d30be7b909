// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package merge folds repeated sightings of one event on a source's page
// into a single record.
package merge

import (
	"github.com/nikbelko/Minsk-event/internal/model"
)

type key struct {
	title, date, place string
}

// Merge groups drafts by (title, date, place). The first draft of a group
// is the base; later drafts only fill its empty show time, price and
// details. Groups keep first-seen order. Empty locations default to city.
func Merge(drafts []model.Draft, city string) []model.Event {
	index := make(map[key]int, len(drafts))
	merged := make([]model.Draft, 0, len(drafts))

	for _, d := range drafts {
		k := key{d.Title, d.EventDate, d.Place}
		i, ok := index[k]
		if !ok {
			index[k] = len(merged)
			merged = append(merged, d)
			continue
		}
		base := &merged[i]
		fill(&base.ShowTime, d.ShowTime)
		fill(&base.Price, d.Price)
		fill(&base.Details, d.Details)
		fill(&base.Location, d.Location)
	}

	events := make([]model.Event, 0, len(merged))
	for _, d := range merged {
		if d.Location == "" {
			d.Location = city
		}
		events = append(events, model.FromDraft(d))
	}
	return events
}

func fill(dst *string, v string) {
	if *dst == "" && v != "" {
		*dst = v
	}
}
