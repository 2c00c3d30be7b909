// Copyright (c) 2025-2026 nikbelko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestBanner(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc1234",
		BuildTime: "2025-01-30T12:00:00Z",
	}

	want := "afisha v1.0.0 (commit: abc1234, built: 2025-01-30T12:00:00Z)"
	if got := info.Banner("afisha"); got != want {
		t.Errorf("Banner() = %q, want %q", got, want)
	}
}

func TestInfoZeroValue(t *testing.T) {
	// Zero value is what a plain go build produces.
	var info Info

	if got := info.String(); got != "dev" {
		t.Errorf("String() = %q, want %q", got, "dev")
	}
	want := "afisha dev (commit: unknown, built: unknown)"
	if got := info.Banner("afisha"); got != want {
		t.Errorf("Banner() = %q, want %q", got, want)
	}
}
