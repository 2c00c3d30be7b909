// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package normalize

import (
	"regexp"
	"strings"
)

const (
	// minVenueLen is the shortest accepted raw venue text.
	minVenueLen = 3
	// maxPasses bounds every fixpoint loop in this package.
	maxPasses = 16
)

var (
	cityPrefix = regexp.MustCompile(`(?i)^(?:г\.\s*)?минск\s*,\s*`)
	// streetToken matches an address abbreviation followed by one token,
	// e.g. "ул. Ленина", "пр-т Независимости", "пл. Свободы", "пер. Кривой".
	streetToken = regexp.MustCompile(`(?i)(^|[^\p{L}])(?:ул|пр-?т|просп|пл|пер|бул)(?:\.\s*|\s+)[\p{L}\p{N}-]+`)
	quotes      = strings.NewReplacer("«", "", "»", "", "\"", "", "„", "", "“", "", "”", "")
)

// Venue returns the canonical display form of a venue name. The second
// result is false when the text does not name a usable venue: empty, too
// short, or a bare placeholder such as "Театр".
//
// Known venues are resolved through the alias table by substring match on
// the folded text. Anything else keeps its own spelling with address
// abbreviations stripped.
func Venue(raw string) (string, bool) {
	s := collapse(raw)
	if s == "" {
		return "", false
	}
	if canonical, ok := lookupVenue(s); ok {
		return canonical, true
	}
	if runeLen(s) < minVenueLen || placeholderKeys[Fold(s)] {
		return "", false
	}

	for range maxPasses {
		next := cleanVenue(s)
		if next == s {
			break
		}
		s = next
	}

	if canonical, ok := lookupVenue(s); ok {
		return canonical, true
	}
	if runeLen(s) <= minVenueLen || placeholderKeys[Fold(s)] {
		return "", false
	}
	return s, true
}

// VenueKey is the comparison key for two already canonical venue names.
func VenueKey(place string) string {
	return Fold(place)
}

func lookupVenue(s string) (string, bool) {
	key := Fold(quotes.Replace(s))
	for _, a := range venueAliases {
		if strings.Contains(key, a.match) {
			return a.canonical, true
		}
	}
	return "", false
}

func cleanVenue(s string) string {
	s = cityPrefix.ReplaceAllString(s, "")
	s = quotes.Replace(s)
	s = streetToken.ReplaceAllString(s, "$1")
	s = collapse(s)
	return strings.Trim(s, " ,;")
}
