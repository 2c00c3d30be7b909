// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package normalize

import (
	"regexp"
	"strings"
)

var (
	leadingGenre  = genrePattern(`^(?:%s)(?::\s*|\s+)`, leadingGenreWords)
	trailingGenre = genrePattern(`\s+(?:%s)$`, trailingGenreWords)

	titleQuotes   = regexp.MustCompile("[«»\"'`„“”]")
	ellipsis      = regexp.MustCompile(`…|\.{2,}`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	andWord       = regexp.MustCompile(`\s+(?:и|and)\s+`)
	ampersand     = regexp.MustCompile(`\s*&\s*`)
	dashes        = regexp.MustCompile(`[‐‑‒–—―-]`)
	titleResidue  = regexp.MustCompile(`[^\p{L}\p{N}\s&-]`)
	baseSeparator = "-:«\""
)

func genrePattern(format string, words []string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(Fold(w)))
	}
	return regexp.MustCompile(strings.Replace(format, "%s", strings.Join(quoted, "|"), 1))
}

// Title reduces a display title to the form used for duplicate detection.
// The result is never shown to users. Title is idempotent.
func Title(s string) string {
	s = Fold(s)
	for range maxPasses {
		next := titlePass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func titlePass(s string) string {
	s = leadingGenre.ReplaceAllString(s, "")
	s = trailingGenre.ReplaceAllString(s, "")
	s = titleQuotes.ReplaceAllString(s, "")
	s = ellipsis.ReplaceAllString(s, "")
	s = trailingDots.ReplaceAllString(s, "")
	s = andWord.ReplaceAllString(s, " & ")
	s = ampersand.ReplaceAllString(s, " & ")
	s = dashes.ReplaceAllString(s, "-")
	s = titleResidue.ReplaceAllString(s, "")
	return collapse(s)
}

// BaseTitle returns the part of a normalized title before its first
// separator (dash, colon or opening quote).
func BaseTitle(normalized string) string {
	if i := strings.IndexAny(normalized, baseSeparator); i >= 0 {
		normalized = normalized[:i]
	}
	return strings.TrimSpace(normalized)
}
