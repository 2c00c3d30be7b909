// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package extract turns listing markup into draft event records: date,
// time and price recovery from free text, date-header lookup in the
// markup tree, and the venue carry-over fold.
package extract

import (
	"github.com/nikbelko/Minsk-event/internal/model"
	"github.com/nikbelko/Minsk-event/internal/normalize"
)

// Stats counts what happened to the candidate blocks of one harvest.
type Stats struct {
	Blocks      int `json:"blocks"`
	Drafts      int `json:"drafts"`
	NoTitle     int `json:"no_title"`
	Denylisted  int `json:"denylisted"`
	NoDate      int `json:"no_date"`
	NoVenue     int `json:"no_venue"`
	ForeignCity int `json:"foreign_city"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Blocks += other.Blocks
	s.Drafts += other.Drafts
	s.NoTitle += other.NoTitle
	s.Denylisted += other.Denylisted
	s.NoDate += other.NoDate
	s.NoVenue += other.NoVenue
	s.ForeignCity += other.ForeignCity
}

// Drift reports whether the page showed none of the expected structure.
func (s Stats) Drift() bool {
	return s.Blocks == 0
}

// Harvest is the output of one source collection.
type Harvest struct {
	Drafts []model.Draft
	Stats  Stats
}

// Append merges another page's harvest into h.
func (h *Harvest) Append(other Harvest) {
	h.Drafts = append(h.Drafts, other.Drafts...)
	h.Stats.Add(other.Stats)
}

// navigationLabels are link texts that look like titles but are site navigation.
var navigationLabels = map[string]bool{}

func init() {
	for _, l := range []string{
		"подробнее", "купить билет", "купить", "афиша", "вся афиша", "расписание",
		"кино", "спектакли", "квесты", "концерты", "события", "выставки",
		"детская афиша", "вечеринки", "stand up", "популярное", "сегодня",
		"завтра", "премьеры", "кинотеатры", "фильмы", "экскурсии", "обучение",
		"спорт", "хоккей", "бесплатные мероприятия",
		"details", "more", "buy ticket", "buy tickets", "tickets",
	} {
		navigationLabels[normalize.Fold(l)] = true
	}
}

// Denylisted reports whether title is a navigation label rather than an event.
func Denylisted(title string) bool {
	return navigationLabels[normalize.Fold(title)]
}
