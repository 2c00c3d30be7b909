// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of event kinds carried by every catalog row.
type Category string

// Event categories.
const (
	CategoryFilm       Category = "film"
	CategoryConcert    Category = "concert"
	CategoryTheatre    Category = "theatre"
	CategoryExhibition Category = "exhibition"
	CategoryKids       Category = "kids"
	CategorySport      Category = "sport"
	CategoryFreeEntry  Category = "free-entry"
)

var categories = []Category{
	CategoryFilm,
	CategoryConcert,
	CategoryTheatre,
	CategoryExhibition,
	CategoryKids,
	CategorySport,
	CategoryFreeEntry,
}

// categoryAliases maps spellings seen on listing sites and in older
// databases onto the canonical values.
var categoryAliases = map[string]Category{
	"cinema":  CategoryFilm,
	"movie":   CategoryFilm,
	"theater": CategoryTheatre,
	"expo":    CategoryExhibition,
	"free":    CategoryFreeEntry,
}

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts user or storage input into a Category.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c := Category(key); c.Valid() {
		return c, nil
	}
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
