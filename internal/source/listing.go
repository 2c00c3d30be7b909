// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package source

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nikbelko/Minsk-event/internal/extract"
	"github.com/nikbelko/Minsk-event/internal/model"
)

var (
	blockClass    = regexp.MustCompile(`event|schema|item`)
	venueClass    = regexp.MustCompile(`place|theatre|location`)
	locationClass = regexp.MustCompile(`address|street|metro`)
	detailsClass  = regexp.MustCompile(`genre|dscr|desc|type`)
)

// ListingConfig describes one dated listing page.
type ListingConfig struct {
	Name     string
	URL      string
	Section  string
	Category model.Category
}

// Listing adapts the dated-listing layout: date headers (h5) followed by
// event blocks that may or may not repeat their venue.
type Listing struct {
	cfg     ListingConfig
	deps    Deps
	titleRe *regexp.Regexp
	logger  *slog.Logger
}

// NewListing creates a dated-listing adapter.
func NewListing(cfg ListingConfig, deps Deps) *Listing {
	return &Listing{
		cfg:     cfg,
		deps:    deps,
		titleRe: regexp.MustCompile(`/event/|/` + regexp.QuoteMeta(cfg.Section) + `/`),
		logger:  deps.Logger.With("source", cfg.Name),
	}
}

// Name implements Source.
func (l *Listing) Name() string {
	return l.cfg.Name
}

// Collect implements Source.
func (l *Listing) Collect(ctx context.Context, today time.Time) (extract.Harvest, error) {
	body, err := l.deps.Fetcher.Fetch(ctx, l.cfg.URL)
	if err != nil {
		return extract.Harvest{}, err
	}
	doc, err := parse(body)
	if err != nil {
		return extract.Harvest{}, err
	}

	h := l.Extract(doc, today)
	l.logger.Info("listing extracted",
		"blocks", h.Stats.Blocks,
		"drafts", h.Stats.Drafts,
		"no_date", h.Stats.NoDate,
		"no_venue", h.Stats.NoVenue,
		"foreign_city", h.Stats.ForeignCity,
	)
	return h, nil
}

// Extract reads a parsed listing page.
func (l *Listing) Extract(doc *goquery.Document, today time.Time) extract.Harvest {
	blocks := doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return blockClass.MatchString(class)
	})
	if blocks.Length() == 0 {
		blocks = doc.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return l.titleRe.MatchString(s.AttrOr("href", ""))
		})
	}

	headers := extract.NewHeaderIndex(doc, "h5")
	sightings := make([]extract.Sighting, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		sightings = append(sightings, l.sighting(block, headers, today))
	})

	drafts, stats := extract.Fold(sightings, extract.Tag{
		Category: l.cfg.Category,
		Source:   l.cfg.Name,
		City:     l.deps.City,
		Carry:    true,
	})
	stats.Blocks = blocks.Length()
	return extract.Harvest{Drafts: drafts, Stats: stats}
}

func (l *Listing) sighting(block *goquery.Selection, headers *extract.HeaderIndex, today time.Time) extract.Sighting {
	link := block
	if goquery.NodeName(block) != "a" {
		link = block.Find("a[href]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return l.titleRe.MatchString(s.AttrOr("href", ""))
		}).First()
	}
	if link.Length() == 0 {
		return extract.Sighting{}
	}

	date, _ := extract.ResolveDate(block, headers, today)
	text := extract.Text(block.Text())
	return extract.Sighting{
		Title:    link.Text(),
		URL:      extract.AbsURL(relaxBase, link.AttrOr("href", "")),
		Details:  extract.FirstByClass(block, "div, span", detailsClass).Text(),
		Date:     date,
		Venue:    extract.FirstByClass(block, "a, span, div", venueClass).Text(),
		Location: extract.FirstByClass(block, "span, div", locationClass).Text(),
		ShowTime: extract.ShowTime(text),
		Price:    extract.Price(text),
	}
}
