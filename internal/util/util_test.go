package util

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "sub-second", duration: 350 * time.Millisecond, expected: "350ms"},
		{name: "under one minute", duration: 45 * time.Second, expected: "45s"},
		{name: "rounded second to minute", duration: 59*time.Second + 500*time.Millisecond, expected: "1m0s"},
		{name: "minutes and seconds", duration: 2*time.Minute + 30*time.Second, expected: "2m30s"},
		{name: "hours and minutes", duration: time.Hour + 30*time.Minute, expected: "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDuration(tt.duration); got != tt.expected {
				t.Fatalf("FormatDuration(%s) = %s, want %s", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestFormatRate(t *testing.T) {
	t.Parallel()

	if got := FormatRate(300, 2*time.Second); got != "150.0 rec/s" {
		t.Fatalf("FormatRate = %s", got)
	}
	if got := FormatRate(10, 0); got != "-" {
		t.Fatalf("FormatRate with no elapsed time = %s", got)
	}
}
