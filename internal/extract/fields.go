// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// timeRules are tried in order; the first rule yielding a valid clock time wins.
var timeRules = []*regexp.Regexp{
	regexp.MustCompile(`(\d{2})[:.](\d{2})`),
	regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?:в|at)\s*(\d{1,2})[:.](\d{2})`),
	regexp.MustCompile(`(?i)начало\s*в\s*(\d{1,2})[:.](\d{2})`),
	regexp.MustCompile(`(?i)(\d{1,2})[:.](\d{2})\s*ч`),
}

// priceRules are tried in order; the first match is returned verbatim.
var priceRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(от\s*\d+[.,]?\d*\s*(?:руб|byn|р\.))`),
	regexp.MustCompile(`(?i)(\d+[.,]?\d*\s*руб)`),
	regexp.MustCompile(`(?i)(\d+[.,]?\d*\s*р\.)`),
	regexp.MustCompile(`(\d+[.,]?\d*\s*₽)`),
	regexp.MustCompile(`(?i)(\d+[.,]?\d*\s*byn)`),
	regexp.MustCompile(`(?i)(вход\s*свободный)`),
	regexp.MustCompile(`(?i)(бесплатно)`),
	regexp.MustCompile(`(?i)(free entry|free admission)`),
}

// ShowTime returns the first valid time of day in text as "HH:MM", or ""
// when none is present. Candidates glued to other digits or shaped like
// part of a date ("01.03.2025") are skipped.
func ShowTime(text string) string {
	for _, rule := range timeRules {
		for _, idx := range rule.FindAllStringSubmatchIndex(text, -1) {
			hs, he, ms, me := idx[2], idx[3], idx[4], idx[5]
			if !clockBoundary(text, hs, me) {
				continue
			}
			hour, _ := strconv.Atoi(text[hs:he])
			minute, _ := strconv.Atoi(text[ms:me])
			if hour > 23 || minute > 59 {
				continue
			}
			return fmt.Sprintf("%02d:%02d", hour, minute)
		}
	}
	return ""
}

func clockBoundary(text string, start, end int) bool {
	if before, _ := utf8.DecodeLastRuneInString(text[:start]); start > 0 {
		if unicode.IsDigit(before) {
			return false
		}
		if (before == '.' || before == ':' || before == '/') && start > 1 {
			if prev, _ := utf8.DecodeLastRuneInString(text[:start-1]); unicode.IsDigit(prev) {
				return false
			}
		}
	}
	if end < len(text) {
		after, size := utf8.DecodeRuneInString(text[end:])
		if unicode.IsDigit(after) {
			return false
		}
		if after == '.' || after == ':' || after == '/' {
			if next, _ := utf8.DecodeRuneInString(text[end+size:]); unicode.IsDigit(next) {
				return false
			}
		}
	}
	return true
}

// Price returns the first price-like fragment of text, or "" when unknown.
func Price(text string) string {
	for _, rule := range priceRules {
		if m := rule.FindStringSubmatch(text); m != nil {
			return collapse(m[1])
		}
	}
	return ""
}

// Text collapses all whitespace runs of s, including non-breaking spaces.
func Text(s string) string {
	return collapse(s)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
