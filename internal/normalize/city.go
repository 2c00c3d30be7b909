// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
)

var foreignCityKeys = foldAll(otherCitiesCyrillic)

func foldAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, Fold(w))
	}
	return out
}

// ForeignCity reports whether venue or address text names a city other
// than the target one. Both the text and its Latin transliteration are
// checked, so "Гомель" and "Gomel" are caught by either list.
func ForeignCity(text string) bool {
	key := Fold(text)
	if key == "" {
		return false
	}
	if containsWordPrefix(key, foreignCityKeys) {
		return true
	}
	latin := strings.ToLower(unidecode.Unidecode(key))
	return containsWordPrefix(latin, otherCitiesLatin)
}

// containsWordPrefix reports whether any needle occurs in s starting at a
// word boundary. "лида" matches "г. Лида" but not "солидарность".
func containsWordPrefix(s string, needles []string) bool {
	for _, n := range needles {
		from := 0
		for {
			i := strings.Index(s[from:], n)
			if i < 0 {
				break
			}
			at := from + i
			prev, _ := utf8.DecodeLastRuneInString(s[:at])
			if at == 0 || !isWordRune(prev) {
				return true
			}
			from = at + len(n)
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
