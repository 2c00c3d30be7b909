// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nikbelko/Minsk-event/internal/extract"
	"github.com/nikbelko/Minsk-event/internal/model"
)

const (
	kinoPlaceSelector = "div.schedule__place--fill, div.schedule__place--empty"
	kinoItemSelector  = "div.schedule__item.table_by_place"
)

// Kino adapts the cinema schedule: a cinema header block followed by the
// films it shows, each with seances carrying an explicit date.
type Kino struct {
	url    string
	deps   Deps
	logger *slog.Logger
}

// NewKino creates the cinema schedule adapter.
func NewKino(url string, deps Deps) *Kino {
	return &Kino{url: url, deps: deps, logger: deps.Logger.With("source", NameKino)}
}

// Name implements Source.
func (k *Kino) Name() string {
	return NameKino
}

// Collect implements Source.
func (k *Kino) Collect(ctx context.Context, today time.Time) (extract.Harvest, error) {
	body, err := k.deps.Fetcher.Fetch(ctx, k.url)
	if err != nil {
		return extract.Harvest{}, err
	}
	doc, err := parse(body)
	if err != nil {
		return extract.Harvest{}, err
	}

	h := k.Extract(doc, today)
	k.logger.Info("schedule extracted", "blocks", h.Stats.Blocks, "drafts", h.Stats.Drafts)
	return h, nil
}

// Extract reads a parsed schedule page. Seances without a date attribute
// fall back to today. Films listed under a cinema header with no usable
// name are discarded rather than attributed to the previous cinema.
func (k *Kino) Extract(doc *goquery.Document, today time.Time) extract.Harvest {
	var (
		sightings       []extract.Sighting
		cinema, address string
		items           int
	)

	doc.Find(kinoPlaceSelector + ", " + kinoItemSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Is(kinoPlaceSelector) {
			cinema = s.Find("a.js-schedule__place-link").First().Text()
			address = s.Find("span.schedule__place-link").First().Text()
			return
		}
		items++

		link := s.Find("a.js-schedule__event-link").First()
		title := link.Text()
		url := extract.AbsURL(relaxBase, link.AttrOr("href", ""))
		details := s.Find("a.schedule__event-dscr").First().Text()

		s.Find("div.schedule__seance").Each(func(_ int, seance *goquery.Selection) {
			timeLink := seance.Find("a.schedule__seance-time").First()
			showTime := extract.ShowTime(timeLink.Text())
			if showTime == "" {
				return
			}
			date, ok := extract.SlashDate(timeLink.AttrOr("data-date-format", ""))
			if !ok {
				date = midnight(today)
			}
			priceText := extract.Text(seance.Find("span.seance-price").First().Text())
			price := extract.Price(priceText)
			if price == "" {
				price = priceText
			}
			sightings = append(sightings, extract.Sighting{
				Title:    title,
				URL:      url,
				Details:  details,
				Date:     date,
				Venue:    cinema,
				Location: address,
				ShowTime: showTime,
				Price:    price,
			})
		})
	})

	drafts, stats := extract.Fold(sightings, extract.Tag{
		Category: model.CategoryFilm,
		Source:   NameKino,
		City:     k.deps.City,
	})
	stats.Blocks = items
	return extract.Harvest{Drafts: drafts, Stats: stats}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
