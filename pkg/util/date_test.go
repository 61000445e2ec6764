package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-03-15")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"", "15-03-2024", "2024/03/15", "not a date"} {
		if _, ok := ParseDate(bad); ok {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	orig := "2020-02-29"
	d, ok := ParseDate(orig)
	if !ok {
		t.Fatal("parse failed")
	}
	if got := FormatDate(d); got != orig {
		t.Fatalf("got %q, want %q", got, orig)
	}
}

func TestDayFromUnix(t *testing.T) {
	// 2024-06-01 13:30:00 UTC
	ts := int64(1717248600)
	got := DayFromUnix(ts)
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestParseFloat(t *testing.T) {
	if v, ok := ParseFloat("3.25"); !ok || v != 3.25 {
		t.Fatalf("got (%v, %v)", v, ok)
	}
	for _, bad := range []string{"", ".", "n/a"} {
		if _, ok := ParseFloat(bad); ok {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}
