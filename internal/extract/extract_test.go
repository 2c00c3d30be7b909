// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestHeaderDate(t *testing.T) {
	today := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		header string
		today  time.Time
		want   string
	}{
		{"15 марта", today, "2025-03-15"},
		{"15 Марта, суббота", today, "2025-03-15"},
		{"10 марта", today, "2025-03-10"},
		{"5 марта", today, "2026-03-05"},
		{"1 января", today, "2026-01-01"},
		{"31 декабря", today, "2025-12-31"},
		{"29 февраля", today, ""},
		{"29 февраля", time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC), "2028-02-29"},
		{"31 апреля", today, ""},
		{"1 янв", today, ""},
		{"Сегодня", today, ""},
		{"", today, ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := HeaderDate(tt.header, tt.today)
			if tt.want == "" {
				if ok {
					t.Errorf("HeaderDate(%q) = %v, want unresolved", tt.header, got)
				}
				return
			}
			if !ok || !got.Equal(day(tt.want)) {
				t.Errorf("HeaderDate(%q) = (%v, %v), want %s", tt.header, got, ok, tt.want)
			}
		})
	}
}

func TestExplicitDates(t *testing.T) {
	if d, ok := SlashDate("03/15/2025"); !ok || !d.Equal(day("2025-03-15")) {
		t.Errorf("SlashDate = (%v, %v), want 2025-03-15", d, ok)
	}
	if _, ok := SlashDate("13/45/2025"); ok {
		t.Error("SlashDate accepted month 13")
	}
	if d, ok := DottedDate("15.03.2025 19:00"); !ok || !d.Equal(day("2025-03-15")) {
		t.Errorf("DottedDate = (%v, %v), want 2025-03-15", d, ok)
	}
	if _, ok := DottedDate("31.04.2025"); ok {
		t.Error("DottedDate accepted 31 April")
	}
}

func TestShowTime(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Начало в 19:00", "19:00"},
		{"сбор гостей 18.30, вход свободный", "18:30"},
		{"в 9:30 утра", "09:30"},
		{"at 7.15 pm", "07:15"},
		{"начало в 9.00", "09:00"},
		{"9:00 ч", "09:00"},
		{"15.03.2025 19:00", "19:00"},
		{"15.03.2025", ""},
		{"99:99 или 20:00", "20:00"},
		{"цена 1200 руб", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShowTime(tt.text); got != tt.want {
			t.Errorf("ShowTime(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestPrice(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Билеты от 25 руб.", "от 25 руб"},
		{"от 40 BYN", "от 40 BYN"},
		{"15,50 руб", "15,50 руб"},
		{"стоимость 20 р.", "20 р."},
		{"500 ₽", "500 ₽"},
		{"30 BYN", "30 BYN"},
		{"Вход свободный", "Вход свободный"},
		{"БЕСПЛАТНО для всех", "БЕСПЛАТНО"},
		{"19:00", ""},
	}
	for _, tt := range tests {
		if got := Price(tt.text); got != tt.want {
			t.Errorf("Price(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestResolveDate(t *testing.T) {
	page := `<html><body>
<h5>15 марта</h5>
<div class="list"><div class="row"><div class="item" id="a">A</div></div></div>
<h5>Афиша</h5>
<div class="list"><div class="item" id="b">B</div></div>
<div class="l1"><div class="l2"><div class="l3"><div class="l4"><div class="l5"><div class="l6"><div class="item" id="deep">D</div></div></div></div></div></div></div>
</body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	idx := NewHeaderIndex(doc, "h5")
	today := day("2025-03-01")

	d, ok := ResolveDate(doc.Find("#a"), idx, today)
	if !ok || !d.Equal(day("2025-03-15")) {
		t.Errorf("ResolveDate(#a) = (%v, %v), want 2025-03-15", d, ok)
	}

	// The nearest header does not parse; ancestors still precede it.
	if d, ok := ResolveDate(doc.Find("#b"), idx, today); ok {
		t.Errorf("ResolveDate(#b) = %v, want unresolved", d)
	}

	if d, ok := ResolveDate(doc.Find("#deep"), idx, today); ok {
		t.Errorf("ResolveDate(#deep) = %v, want unresolved", d)
	}
}

func TestAbsURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://afisha.relax.by", "/event/1/", "https://afisha.relax.by/event/1/"},
		{"https://afisha.relax.by/theatre/minsk/", "https://other.by/x", "https://other.by/x"},
		{"https://www.ticketpro.by", "", "https://www.ticketpro.by"},
	}
	for _, tt := range tests {
		if got := AbsURL(tt.base, tt.href); got != tt.want {
			t.Errorf("AbsURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}
