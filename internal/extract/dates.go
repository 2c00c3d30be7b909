// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// months maps genitive (and a few nominative) Russian month names.
var months = map[string]time.Month{
	"января": time.January, "январь": time.January,
	"февраля": time.February, "февраль": time.February,
	"марта": time.March, "март": time.March,
	"апреля": time.April, "апрель": time.April,
	"мая": time.May, "май": time.May,
	"июня": time.June, "июнь": time.June,
	"июля": time.July, "июль": time.July,
	"августа": time.August, "август": time.August,
	"сентября": time.September, "сентябрь": time.September,
	"октября": time.October, "октябрь": time.October,
	"ноября": time.November, "ноябрь": time.November,
	"декабря": time.December, "декабрь": time.December,
}

var (
	headerDate = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)`)
	slashDate  = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
	dottedDate = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)
)

// HeaderDate resolves a "day month-name" section header such as
// "15 марта, суббота" against today. A day and month that already passed
// this year roll into the next year.
func HeaderDate(text string, today time.Time) (time.Time, bool) {
	m := headerDate.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := months[m[2]]
	if !ok {
		return time.Time{}, false
	}

	today = midnight(today)
	year := today.Year()
	if d, ok := civilDate(year, month, day); ok && !d.Before(today) {
		return d, true
	}
	return civilDate(year+1, month, day)
}

// SlashDate parses an explicit MM/DD/YYYY date.
func SlashDate(text string) (time.Time, bool) {
	m := slashDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return atoiDate(m[3], m[1], m[2])
}

// DottedDate parses an explicit DD.MM.YYYY date.
func DottedDate(text string) (time.Time, bool) {
	m := dottedDate.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	return atoiDate(m[3], m[2], m[1])
}

func atoiDate(y, m, d string) (time.Time, bool) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return civilDate(year, time.Month(month), day)
}

// civilDate builds a UTC calendar date, rejecting days that do not exist
// in that month (31 April, 29 February outside leap years).
func civilDate(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
