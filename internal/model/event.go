// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the event records that flow through the ingestion
// pipeline and end up in the catalog.
package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Layouts used for the textual date and time columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ErrInvalidEvent is returned when a record fails validation at the insert boundary.
var ErrInvalidEvent = errors.New("invalid event")

// Draft is an extracted event candidate before merging.
// EventDate is already resolved to an absolute date and Place to a canonical venue.
type Draft struct {
	Title      string
	Details    string
	EventDate  string
	ShowTime   string
	Place      string
	Location   string
	Price      string
	Category   Category
	SourceURL  string
	SourceName string
}

// Event is a catalog row.
type Event struct {
	ID          int64    `json:"id,omitempty"`
	Title       string   `json:"title" validate:"required,min=3"`
	Details     string   `json:"details,omitempty"`
	Description string   `json:"description"`
	EventDate   string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	ShowTime    string   `json:"show_time" validate:"omitempty,datetime=15:04"`
	Place       string   `json:"place,omitempty"`
	Location    string   `json:"location"`
	Price       string   `json:"price"`
	Category    Category `json:"category" validate:"category"`
	SourceURL   string   `json:"source_url" validate:"required,url"`
	SourceName  string   `json:"source_name" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks the record before it is written to the catalog.
func (e Event) Validate() error {
	if err := validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidEvent, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return nil
}

// FromDraft converts a draft into a catalog record and derives its description.
func FromDraft(d Draft) Event {
	return Event{
		Title:       d.Title,
		Details:     d.Details,
		Description: Describe(d.Title, d.Details, d.Location, d.Price),
		EventDate:   d.EventDate,
		ShowTime:    d.ShowTime,
		Place:       d.Place,
		Location:    d.Location,
		Price:       d.Price,
		Category:    d.Category,
		SourceURL:   d.SourceURL,
		SourceName:  d.SourceName,
	}
}

// Describe builds the plain display text of an event: title, details,
// location and price, one per line, skipping empty fields.
func Describe(title, details, location, price string) string {
	lines := make([]string, 0, 4)
	for _, field := range []string{title, details, location, price} {
		if field = strings.TrimSpace(field); field != "" {
			lines = append(lines, field)
		}
	}
	return strings.Join(lines, "\n")
}
