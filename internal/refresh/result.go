// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package refresh

import (
	"errors"
	"fmt"
	"time"

	"github.com/nikbelko/Minsk-event/internal/extract"
)

// Policy decides what a refresh does with a source that yielded nothing.
type Policy string

// Empty-harvest policies.
const (
	// PolicyPreserve leaves the source's rows untouched.
	PolicyPreserve Policy = "preserve"
	// PolicyWipe treats the empty harvest as real and deletes the rows.
	PolicyWipe Policy = "wipe"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyPreserve, PolicyWipe:
		return p, nil
	default:
		return "", fmt.Errorf("unknown empty policy %q", s)
	}
}

// Outcome classifies how a source refresh ended.
type Outcome string

// Outcomes.
const (
	OutcomeOK          Outcome = "ok"
	OutcomeEmpty       Outcome = "empty"
	OutcomeFetchFailed Outcome = "fetch_failed"
	OutcomeTimeout     Outcome = "timeout"
	OutcomeStoreFailed Outcome = "store_failed"
	OutcomeFailed      Outcome = "failed"
)

// OK reports whether the outcome committed fresh data.
func (o Outcome) OK() bool {
	return o == OutcomeOK
}

// ErrEmptyHarvest is returned when a source produced no drafts.
var ErrEmptyHarvest = errors.New("source yielded no events")

// Result describes one source refresh.
type Result struct {
	Source     string         `json:"source"`
	Outcome    Outcome        `json:"outcome"`
	Found      int            `json:"found"`
	Merged     int            `json:"merged"`
	Added      int            `json:"added"`
	Deleted    int            `json:"deleted"`
	Invalid    int            `json:"invalid"`
	Foreign    int            `json:"foreign_city"`
	Duplicates map[string]int `json:"duplicates,omitempty"`
	Note       string         `json:"note,omitempty"`
	Stats      extract.Stats  `json:"stats"`
	Elapsed    time.Duration  `json:"elapsed"`
}

// DuplicateTotal sums the duplicates skipped across tiers.
func (r Result) DuplicateTotal() int {
	n := 0
	for _, c := range r.Duplicates {
		n += c
	}
	return n
}

func emptyNote(s extract.Stats) string {
	if s.Drift() {
		return "structural drift: no event blocks found on the page"
	}
	return fmt.Sprintf("no valid events in %d blocks (no date %d, no venue %d, foreign %d, denylisted %d)",
		s.Blocks, s.NoDate, s.NoVenue, s.ForeignCity, s.Denylisted)
}
