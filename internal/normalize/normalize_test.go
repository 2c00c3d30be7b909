// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package normalize

import (
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Молодёжный  Театр", "молодежныи театр"},
		{"  КЗ Минск ", "кз минск"},
		{"CAFÉ", "cafe"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.input); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVenue(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"alias with city prefix", "Минск, КЗ «Минск»", "КЗ Минск", true},
		{"alias with g. prefix", "г. Минск, Дворец спорта", "Дворец спорта", true},
		{"yo spelling", "Молодежный театр эстрады, ул. Мясникова 85", "Молодёжный театр эстрады", true},
		{"most specific alias wins", "Центральный дом офицеров", "Центральный дом офицеров", true},
		{"short alias", "ТЮЗ", "ТЮЗ", true},
		{"cinema alias", "Кинотеатр «Центральный»", "Центральный", true},
		{"generic word inside another venue", "Центральный ботанический сад", "Центральный ботанический сад", true},
		{"latin alias", "Prime Hall (ТЦ Prime)", "Prime Hall", true},
		{"street stripped", "Арт-пространство Ok16 ул. Октябрьская", "Арт-пространство Ok16", true},
		{"avenue stripped", "Галерея Ў, пр-т Независимости 37", "Галерея Ў, 37", true},
		{"placeholder theatre", "Театр", "", false},
		{"placeholder case insensitive", "ПЛОЩАДКА", "", false},
		{"too short", "ДК", "", false},
		{"only street", "ул. Ленина", "", false},
		{"empty", "   ", "", false},
		{"word starting like abbreviation kept", "Площадь Победы арт", "Площадь Победы арт", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Venue(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Venue(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestVenueCanonicalFormsMapToThemselves(t *testing.T) {
	for _, c := range CanonicalVenues() {
		got, ok := Venue(c)
		if !ok || got != c {
			t.Errorf("Venue(%q) = (%q, %v), want canonical form unchanged", c, got, ok)
		}
	}
}

func TestVenueIdempotent(t *testing.T) {
	inputs := []string{
		"Минск, КЗ «Минск»",
		"Галерея Ў, пр-т Независимости 37",
		"Арт-пространство Ok16 ул. Октябрьская",
		"  Клуб   \"Re:Public\" , пл. Свободы  ",
		"Музей современного искусства пер. Кривой ул. Фабрициуса",
		"Театр",
		"Минск",
		"Prime Hall",
	}
	for _, in := range inputs {
		once, ok := Venue(in)
		if !ok {
			continue
		}
		twice, ok2 := Venue(once)
		if !ok2 || twice != once {
			t.Errorf("Venue(Venue(%q)) = (%q, %v), want (%q, true)", in, twice, ok2, once)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Концерт: Orchestra Night", "orchestra night"},
		{"Orchestra Night — gala", "orchestra night - gala"},
		{"Сольный концерт «Ляпис Трубецкой»", "ляпис трубецкои"},
		{"Щелкунчик. Спектакль", "щелкунчик"},
		{"Иван и Мария", "иван & мария"},
		{"Rock&Roll Show", "rock & roll"},
		{"Время приключений...", "время приключении"},
		{"Лебединое озеро!", "лебединое озеро"},
		{"Гала-концерт Звёзды – детям", "звезды - детям"},
		{"Концерт", "концерт"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Title(tt.input); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Концерт: Orchestra Night",
		"Юбилейный концерт концерт группы «Песняры» шоу",
		"A & B и C and D",
		"«Три сестры» — спектакль...",
		"Spectacle: 'Hamlet' — part 2.",
		"   ",
		"Концерт",
	}
	for _, in := range inputs {
		once := Title(in)
		if twice := Title(once); twice != once {
			t.Errorf("Title(Title(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestBaseTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"orchestra night - gala", "orchestra night"},
		{"щелкунчик", "щелкунчик"},
		{"-", ""},
	}
	for _, tt := range tests {
		if got := BaseTitle(tt.input); got != tt.want {
			t.Errorf("BaseTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestForeignCity(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Гомель, Ледовый дворец", true},
		{"г. Брест, ДК профсоюзов", true},
		{"Могилёв, Драмтеатр", true},
		{"Gomel Arena", true},
		{"Бобруйск", true},
		{"Минск, Дворец спорта", false},
		{"Центр Солидарности", false},
		{"КЗ Минск", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ForeignCity(tt.input); got != tt.want {
			t.Errorf("ForeignCity(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
