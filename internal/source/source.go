// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package source holds the listing-site adapters. Each adapter fetches its
// pages, extracts sightings from the markup and folds them into drafts
// tagged with its own category and source name.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nikbelko/Minsk-event/internal/extract"
	"github.com/nikbelko/Minsk-event/internal/fetch"
	"github.com/nikbelko/Minsk-event/internal/model"
)

// Source names, used as source_name in the catalog.
const (
	NameKino      = "relax.by/kino"
	NameTheatre   = "relax.by/theatre"
	NameConcert   = "relax.by/concert"
	NameExpo      = "relax.by/expo"
	NameKids      = "relax.by/kids"
	NameFree      = "relax.by/free"
	NameTicketpro = "ticketpro.by"
)

const (
	relaxBase     = "https://afisha.relax.by"
	ticketproBase = "https://www.ticketpro.by"
)

// Source is one listing site adapter.
type Source interface {
	Name() string
	// Collect fetches and extracts the source's current listing. today is
	// the run date in the target city's time zone.
	Collect(ctx context.Context, today time.Time) (extract.Harvest, error)
}

// Deps are shared by all adapters.
type Deps struct {
	Fetcher  fetch.Fetcher
	Logger   *slog.Logger
	City     string
	MaxPages int
}

// Names returns every known source in refresh order.
func Names() []string {
	return []string{NameKino, NameTheatre, NameConcert, NameExpo, NameKids, NameFree, NameTicketpro}
}

// New builds the adapter registered under name.
func New(name string, deps Deps) (Source, error) {
	switch name {
	case NameKino:
		return NewKino(relaxBase+"/kino/minsk/", deps), nil
	case NameTheatre:
		return NewListing(ListingConfig{Name: name, URL: relaxBase + "/theatre/minsk/", Section: "theatre", Category: model.CategoryTheatre}, deps), nil
	case NameConcert:
		return NewListing(ListingConfig{Name: name, URL: relaxBase + "/conserts/minsk/", Section: "conserts", Category: model.CategoryConcert}, deps), nil
	case NameExpo:
		return NewListing(ListingConfig{Name: name, URL: relaxBase + "/expo/minsk/", Section: "expo", Category: model.CategoryExhibition}, deps), nil
	case NameKids:
		return NewListing(ListingConfig{Name: name, URL: relaxBase + "/kids/minsk/", Section: "kids", Category: model.CategoryKids}, deps), nil
	case NameFree:
		return NewListing(ListingConfig{Name: name, URL: relaxBase + "/free/minsk/", Section: "free", Category: model.CategoryFreeEntry}, deps), nil
	case NameTicketpro:
		return NewTicketpro(ticketproBase, DefaultTicketproCategories(), deps), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

// Build creates adapters for names, keeping the declared refresh order
// regardless of the order names are given in. An empty list selects all.
func Build(names []string, deps Deps) ([]Source, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !Known(n) {
			return nil, fmt.Errorf("unknown source %q", n)
		}
		wanted[n] = true
	}

	var out []Source
	for _, n := range Names() {
		if len(wanted) > 0 && !wanted[n] {
			continue
		}
		src, err := New(n, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// Known reports whether name is a registered source.
func Known(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

func parse(body string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing markup: %w", err)
	}
	return doc, nil
}
