// ABOUTME: Tests for the sample dice command helpers
// ABOUTME: Uses a deterministic number source for roll output

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec      string
		wantCount int
		wantSides int
		wantErr   bool
	}{
		{"2d6", 2, 6, false},
		{"d20", 1, 20, false},
		{" 3D8 ", 3, 8, false},
		{"six", 0, 0, true},
		{"2x6", 0, 0, true},
		{"0d6", 0, 0, true},
		{"101d6", 0, 0, true},
		{"1d1", 0, 0, true},
		{"1d", 0, 0, true},
	}
	for _, tt := range tests {
		count, sides, err := parseDice(tt.spec)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDice(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
			continue
		}
		if count != tt.wantCount || sides != tt.wantSides {
			t.Errorf("parseDice(%q) = %d, %d; want %d, %d", tt.spec, count, sides, tt.wantCount, tt.wantSides)
		}
	}
}

func TestRollAndFormat(t *testing.T) {
	t.Parallel()

	next := 0
	fixed := func(n int) int {
		next = (next + 2) % n
		return next
	}

	rolls := roll(3, 6, fixed)
	if diff := cmp.Diff([]int{3, 5, 1}, rolls); diff != "" {
		t.Errorf("roll mismatch (-want +got):\n%s", diff)
	}
	if got := formatRolls(rolls); got != "3 + 5 + 1 = 9" {
		t.Errorf("formatRolls = %q", got)
	}
	if got := formatRolls([]int{4}); got != "4" {
		t.Errorf("formatRolls single = %q", got)
	}
}
