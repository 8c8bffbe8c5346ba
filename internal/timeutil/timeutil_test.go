package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %v, got %v", want, parsed)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 4 {
		t.Fatalf("expected 4 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -4 {
		t.Fatalf("expected -4 days, got %d", got)
	}
}
