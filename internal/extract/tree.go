// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HeaderLevels is how many enclosing elements are tried when looking for
// the date header of an item.
const HeaderLevels = 5

// HeaderIndex locates date-section headers by document position.
type HeaderIndex struct {
	position map[*html.Node]int
	headers  []header
}

type header struct {
	pos  int
	text string
}

// NewHeaderIndex records the document order of every element and the
// positions of those matching selector.
func NewHeaderIndex(doc *goquery.Document, selector string) *HeaderIndex {
	idx := &HeaderIndex{position: make(map[*html.Node]int)}
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		idx.position[s.Get(0)] = i
		if s.Is(selector) {
			idx.headers = append(idx.headers, header{pos: i, text: Text(s.Text())})
		}
	})
	return idx
}

// Preceding returns the text of the nearest header that starts before n in
// document order.
func (h *HeaderIndex) Preceding(n *html.Node) (string, bool) {
	pos, ok := h.position[n]
	if !ok {
		return "", false
	}
	i := sort.Search(len(h.headers), func(i int) bool { return h.headers[i].pos >= pos })
	if i == 0 {
		return "", false
	}
	return h.headers[i-1].text, true
}

// ResolveDate walks up from item through at most HeaderLevels ancestors and
// returns the first preceding header that parses as a date.
func ResolveDate(item *goquery.Selection, idx *HeaderIndex, today time.Time) (time.Time, bool) {
	parent := item.Parent()
	for range HeaderLevels {
		if parent.Length() == 0 {
			break
		}
		if text, ok := idx.Preceding(parent.Get(0)); ok {
			if d, ok := HeaderDate(text, today); ok {
				return d, true
			}
		}
		parent = parent.Parent()
	}
	return time.Time{}, false
}

// FirstByClass returns the first descendant of s among tags whose class
// attribute matches re.
func FirstByClass(s *goquery.Selection, tags string, re *regexp.Regexp) *goquery.Selection {
	return s.Find(tags).FilterFunction(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		return re.MatchString(class)
	}).First()
}

// AbsURL resolves href against base. An empty href yields base.
func AbsURL(base, href string) string {
	href = strings.TrimSpace(href)
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return base
	}
	return b.ResolveReference(ref).String()
}
