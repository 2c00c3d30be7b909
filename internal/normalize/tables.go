// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package normalize

import (
	"sort"
	"strings"
)

// venueGroups lists every canonical venue with the spellings that resolve to it.
// A multi-word canonical form is matched as well; a single word is too
// generic and resolves only through its aliases.
var venueGroups = []struct {
	canonical string
	aliases   []string
}{
	{"КЗ Минск", []string{"кз минск", "концертный зал минск"}},
	{"Дворец спорта", []string{"дворец спорта"}},
	{"Минск-Арена", []string{"минск-арена", "минск арена"}},
	{"Чижовка-Арена", []string{"чижовка-арена", "чижовка арена"}},
	{"Белорусская государственная филармония", []string{"белгосфилармония", "филармония"}},
	{"Молодёжный театр эстрады", []string{"молодежный театр эстрады"}},
	{"Молодёжный театр", []string{"молодежный театр"}},
	{"Дворец Республики", []string{"дворец республики"}},
	{"Дворец Профсоюзов", []string{"дворец профсоюзов"}},
	{"Центральный дом офицеров", []string{"дом офицеров"}},
	{"Дом литератора", []string{"дом литератора"}},
	{"Музыкальный театр", []string{"музыкальный театр"}},
	{"ТЮЗ", []string{"театр юного зрителя", "тюз"}},
	{"Театр им. Горького", []string{"театр имени горького", "театр им. горького", "театр им.горького"}},
	{"Театр им. Янки Купалы", []string{"театр имени янки купалы", "театр им. янки купалы", "купаловский"}},
	{"Большой театр оперы и балета", []string{"большой театр", "театр оперы и балета"}},
	{"Новый драматический театр", []string{"новый драматический театр", "новый театр"}},
	{"Театр-студия киноактёра", []string{"театр-студия киноактера", "театр киноактера"}},
	{"Falcon Club Arena", []string{"falcon club"}},
	{"Prime Hall", []string{"prime hall", "прайм холл"}},
	{"ДК МАЗ", []string{"дк маз"}},
	{"Концертный зал Верхний город", []string{"верхний город"}},
	{"SKYLINE Cinema", []string{"skyline"}},
	{"mooon в ТРЦ Dana Mall", []string{"mooon", "dana mall"}},
	{"Центральный", []string{"кинотеатр центральный"}},
}

// venuePlaceholders are category words sites print where the venue is unknown.
var venuePlaceholders = []string{
	"театр",
	"площадка",
	"кинотеатр",
	"концертный зал",
	"место проведения",
	"минск",
}

// Genre words stripped from the start and end of titles before comparison.
// Longer phrases come first so the alternation prefers them.
var (
	leadingGenreWords = []string{
		"эстрадный караоке-спектакль",
		"концертная программа",
		"юбилейный концерт",
		"сольный концерт",
		"праздничный концерт",
		"отчетный концерт",
		"гала-концерт",
		"концерт",
		"спектакль",
		"шоу",
		"performance",
		"concert",
		"show",
	}
	trailingGenreWords = []string{
		"концерт",
		"спектакль",
		"шоу",
		"программа",
		"фестиваль",
		"concert",
		"show",
	}
)

// otherCities holds cities of the region that are not the target city, in
// Cyrillic and Latin spelling. Matching happens at the start of a word.
var (
	otherCitiesCyrillic = []string{
		"гомель", "витебск", "могилев", "гродно", "брест", "бобруйск",
		"солигорск", "орша", "пинск", "лида", "новополоцк", "полоцк",
		"молодечно", "кобрин", "жодино", "речица", "береза", "мозырь",
		"борисов", "барановичи", "несвиж", "дзержинск", "пружаны",
	}
	otherCitiesLatin = []string{
		"gomel", "homel", "vitebsk", "mogilev", "mogilyov", "grodno", "hrodna",
		"brest", "bobruisk", "babruysk", "soligorsk", "salihorsk", "orsha",
		"pinsk", "lida", "novopolotsk", "polotsk", "molodechno", "kobrin",
		"zhodino", "rechitsa", "bereza", "mozyr", "borisov", "baranovichi",
		"nesvizh", "dzerzhinsk", "pruzhany",
	}
)

// venueAlias is one folded spelling mapped to its canonical display form.
type venueAlias struct {
	match     string
	canonical string
}

var (
	venueAliases    = buildVenueAliases()
	placeholderKeys = buildKeySet(venuePlaceholders)
)

// buildVenueAliases folds every spelling and orders them longest first so
// the most specific alias wins when several occur in the same text.
func buildVenueAliases() []venueAlias {
	var out []venueAlias
	seen := make(map[string]bool)
	add := func(match, canonical string) {
		key := Fold(match)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, venueAlias{match: key, canonical: canonical})
	}
	for _, g := range venueGroups {
		if strings.Contains(g.canonical, " ") {
			add(g.canonical, g.canonical)
		}
		for _, a := range g.aliases {
			add(a, g.canonical)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return runeLen(out[i].match) > runeLen(out[j].match)
	})
	return out
}

func buildKeySet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[Fold(w)] = true
	}
	return set
}

// CanonicalVenues returns the canonical display form of every known venue.
func CanonicalVenues() []string {
	out := make([]string, 0, len(venueGroups))
	for _, g := range venueGroups {
		out = append(out, g.canonical)
	}
	return out
}
