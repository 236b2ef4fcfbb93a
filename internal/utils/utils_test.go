package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "hello world",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "hello",
			limit:  10,
			expect: "hello",
		},
		{
			name:   "truncates and adds ellipsis",
			input:  "hello world",
			limit:  5,
			expect: "hello...",
		},
		{
			name:   "trims surrounding whitespace",
			input:  "  spaced  ",
			limit:  5,
			expect: "space...",
		},
		{
			name:   "counts runes not bytes",
			input:  "développeur",
			limit:  3,
			expect: "dév...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFormatScore(t *testing.T) {
	t.Parallel()

	score := 72.46
	if got := FormatScore(&score); got != "72.5" {
		t.Fatalf("expected 72.5, got %q", got)
	}
	if got := FormatScore(nil); got != "-" {
		t.Fatalf("expected dash for a missing score, got %q", got)
	}
}

func TestFormatDelta(t *testing.T) {
	t.Parallel()

	for delta, expect := range map[float64]string{10: "+10", -15: "-15", 2.5: "+2.5"} {
		if got := FormatDelta(delta); got != expect {
			t.Fatalf("expected %q, got %q", expect, got)
		}
	}
}
