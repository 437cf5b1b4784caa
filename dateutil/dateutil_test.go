package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseLocalDateInKeepsCalendarDay(t *testing.T) {
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC-7", -7*3600),
		time.FixedZone("UTC+9", 9*3600),
	}
	for _, loc := range zones {
		got, err := ParseLocalDateIn("2026-01-19", loc)
		if err != nil {
			t.Fatalf("ParseLocalDateIn in %v: %v", loc, err)
		}
		y, m, d := got.Date()
		if y != 2026 || m != time.January || d != 19 {
			t.Errorf("zone %v: got %v, want 2026-01-19", loc, got)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Errorf("zone %v: expected midnight, got %v", loc, got)
		}
	}
}

func TestParseLocalDateRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "19-01-2026", "2026-1-19", "2026-02-30", "2026-13-01", "not a date"} {
		if _, err := ParseLocalDateIn(s, time.UTC); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("ParseLocalDateIn(%q) err = %v, want ErrInvalidFormat", s, err)
		}
	}
}

func TestFormatClockTime(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"00:05", "12:05 AM"},
		{"09:00", "9:00 AM"},
		{"12:00", "12:00 PM"},
		{"18:30", "6:30 PM"},
		{"23:59", "11:59 PM"},
	}
	for _, c := range cases {
		got, err := FormatClockTime(c.in)
		if err != nil {
			t.Fatalf("FormatClockTime(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("FormatClockTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	for _, s := range []string{"24:00", "12:60", "noonish"} {
		if _, err := FormatClockTime(s); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("FormatClockTime(%q) err = %v, want ErrInvalidFormat", s, err)
		}
	}
}

func TestFormatTimeRange(t *testing.T) {
	got, err := FormatTimeRange("18:30", "20:00")
	if err != nil || got != "6:30 PM - 8:00 PM" {
		t.Errorf("FormatTimeRange = %q, %v", got, err)
	}
	got, err = FormatTimeRange("18:30", "")
	if err != nil || got != "6:30 PM" {
		t.Errorf("FormatTimeRange open-ended = %q, %v", got, err)
	}
	got, err = FormatTimeRange("", "20:00")
	if err != nil || got != "" {
		t.Errorf("FormatTimeRange without start = %q, %v", got, err)
	}
}

func TestDurationBetween(t *testing.T) {
	cases := []struct{ start, end, want string }{
		{"18:00", "18:30", "30 min"},
		{"10:00", "10:00", "0 min"},
		{"10:00", "12:00", "2 hr"},
		{"09:00", "11:30", "2 hr 30 min"},
		{"12:00", "11:30", "-30 min"},
		{"", "18:00", ""},
		{"18:00", "", ""},
	}
	for _, c := range cases {
		got, err := DurationBetween(c.start, c.end)
		if err != nil {
			t.Fatalf("DurationBetween(%q, %q): %v", c.start, c.end, err)
		}
		if got != c.want {
			t.Errorf("DurationBetween(%q, %q) = %q, want %q", c.start, c.end, got, c.want)
		}
	}
}

func TestRelativeDateLabel(t *testing.T) {
	now := time.Date(2026, time.January, 19, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		d    time.Time
		want string
	}{
		{time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC), "Today"},
		{time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), "Tomorrow"},
		{now.AddDate(0, 0, 3), "in 3 days"},
		{now.AddDate(0, 0, 45), "in 1 month"},
		{now.AddDate(0, 0, 400), "in 1 year"},
		{now.AddDate(0, 0, -2), "2 days ago"},
		{now.AddDate(0, 0, -65), "2 months ago"},
	}
	for _, c := range cases {
		if got := RelativeDateLabel(c.d, now); got != c.want {
			t.Errorf("RelativeDateLabel(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestIsUpcoming(t *testing.T) {
	now := time.Date(2026, time.January, 19, 15, 0, 0, 0, time.UTC)
	if !IsUpcoming(time.Date(2026, time.January, 19, 8, 0, 0, 0, time.UTC), now) {
		t.Error("earlier the same day should still count as upcoming")
	}
	if !IsUpcoming(now.AddDate(0, 0, 5), now) {
		t.Error("a future date should be upcoming")
	}
	if IsUpcoming(now.AddDate(0, 0, -1), now) {
		t.Error("yesterday should not be upcoming")
	}
}

func TestCountdown(t *testing.T) {
	now := time.Date(2026, time.January, 19, 0, 0, 0, 0, time.UTC)
	target := now.Add(2*24*time.Hour + 3*time.Hour + 4*time.Minute + 5*time.Second)

	got := Countdown(target, now)
	want := CountdownParts{Days: 2, Hours: 3, Minutes: 4, Seconds: 5}
	if got != want {
		t.Errorf("Countdown = %+v, want %+v", got, want)
	}

	past := Countdown(now.Add(-time.Minute), now)
	if !past.IsPast || past.Days != 0 || past.Seconds != 0 {
		t.Errorf("past countdown = %+v, want zeroed IsPast", past)
	}
}

func TestNextOccurrence(t *testing.T) {
	anniversary := time.Date(2020, time.February, 14, 0, 0, 0, 0, time.UTC)

	now := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	if got := NextOccurrence(anniversary, now); got.Year() != 2026 || got.Month() != time.February || got.Day() != 14 {
		t.Errorf("before this year's date: got %v", got)
	}

	now = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if got := NextOccurrence(anniversary, now); got.Year() != 2027 {
		t.Errorf("after this year's date: got %v, want rollover to 2027", got)
	}

	// the day itself still counts as this year's occurrence
	now = time.Date(2026, time.February, 14, 18, 0, 0, 0, time.UTC)
	if got := NextOccurrence(anniversary, now); got.Year() != 2026 {
		t.Errorf("on the day: got %v, want 2026", got)
	}

	// a milestone that has not happened yet is its own next occurrence,
	// not this year's month/day stand-in
	future := time.Date(2027, time.June, 1, 0, 0, 0, 0, time.UTC)
	now = time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	if got := NextOccurrence(future, now); !got.Equal(future) {
		t.Errorf("future first date: got %v, want %v", got, future)
	}
}
