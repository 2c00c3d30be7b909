// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nikbelko/Minsk-event/internal/extract"
	"github.com/nikbelko/Minsk-event/internal/model"
)

// defaultMaxPages caps pagination when Deps.MaxPages is unset.
const defaultMaxPages = 50

// TicketproCategory is one paginated category listing.
type TicketproCategory struct {
	Path     string
	Category model.Category
}

// DefaultTicketproCategories returns the listings collected in production.
func DefaultTicketproCategories() []TicketproCategory {
	return []TicketproCategory{
		{Path: "/bilety-na-sportivnye-meropriyatiya/", Category: model.CategorySport},
		{Path: "/bilety-na-koncert/", Category: model.CategoryConcert},
		{Path: "/bilety-v-teatr/", Category: model.CategoryTheatre},
		{Path: "/detskie-meropriyatiya/", Category: model.CategoryKids},
	}
}

// Ticketpro adapts the ticket vendor's paginated category listings. Every
// box carries its own date, venue and price, so no carry-over applies.
type Ticketpro struct {
	base       string
	categories []TicketproCategory
	deps       Deps
	logger     *slog.Logger
}

// NewTicketpro creates the ticket vendor adapter.
func NewTicketpro(base string, categories []TicketproCategory, deps Deps) *Ticketpro {
	if deps.MaxPages <= 0 {
		deps.MaxPages = defaultMaxPages
	}
	return &Ticketpro{
		base:       strings.TrimRight(base, "/"),
		categories: categories,
		deps:       deps,
		logger:     deps.Logger.With("source", NameTicketpro),
	}
}

// Name implements Source.
func (t *Ticketpro) Name() string {
	return NameTicketpro
}

// Collect implements Source. A failed page fails the whole collection so a
// truncated listing never replaces a complete one.
func (t *Ticketpro) Collect(ctx context.Context, today time.Time) (extract.Harvest, error) {
	var total extract.Harvest
	for _, cat := range t.categories {
		h, pages, err := t.collectCategory(ctx, cat)
		if err != nil {
			return extract.Harvest{}, fmt.Errorf("category %s: %w", cat.Category, err)
		}
		t.logger.Info("category extracted",
			"category", cat.Category,
			"pages", pages,
			"blocks", h.Stats.Blocks,
			"drafts", h.Stats.Drafts,
			"foreign_city", h.Stats.ForeignCity,
		)
		total.Append(h)
	}
	return total, nil
}

func (t *Ticketpro) collectCategory(ctx context.Context, cat TicketproCategory) (extract.Harvest, int, error) {
	var (
		h     extract.Harvest
		pages int
	)
	for page := 1; page <= t.deps.MaxPages; page++ {
		url := t.base + cat.Path
		if page > 1 {
			url = fmt.Sprintf("%s?page=%d", url, page)
		}
		body, err := t.deps.Fetcher.Fetch(ctx, url)
		if err != nil {
			return extract.Harvest{}, pages, err
		}
		doc, err := parse(body)
		if err != nil {
			return extract.Harvest{}, pages, err
		}
		pages++

		ph := t.ExtractPage(doc, cat.Category)
		if ph.Stats.Blocks == 0 {
			break
		}
		h.Append(ph)
		if !HasNextPage(doc) {
			break
		}
	}
	return h, pages, nil
}

// ExtractPage reads one parsed category page.
func (t *Ticketpro) ExtractPage(doc *goquery.Document, category model.Category) extract.Harvest {
	boxes := doc.Find("div.event-box")
	sightings := make([]extract.Sighting, 0, boxes.Length())
	boxes.Each(func(_ int, box *goquery.Selection) {
		dateText := extract.Text(box.Find("div.event-box__date").First().Text())
		date, _ := extract.DottedDate(dateText)
		href := box.Find("a.btn-pink[href]").First().AttrOr("href", "")

		sightings = append(sightings, extract.Sighting{
			Title:    box.Find("div.event-box__title").First().Text(),
			URL:      extract.AbsURL(t.base, href),
			Date:     date,
			Venue:    box.Find("div.event-box__place").First().Text(),
			ShowTime: extract.ShowTime(dateText),
			Price:    extract.Price(box.Find("div.event-box__price").First().Text()),
		})
	})

	drafts, stats := extract.Fold(sightings, extract.Tag{
		Category: category,
		Source:   NameTicketpro,
		City:     t.deps.City,
	})
	stats.Blocks = boxes.Length()
	return extract.Harvest{Drafts: drafts, Stats: stats}
}

// HasNextPage reports whether the pagination block links to a further page.
func HasNextPage(doc *goquery.Document) bool {
	next := doc.Find("div.pagination a.page-next").First()
	return next.Length() > 0 && !next.HasClass("disabled")
}
