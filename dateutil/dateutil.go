// Package dateutil holds the pure date and time helpers behind the
// journal's display logic: local-date parsing, clock formatting,
// relative labels, countdowns and the calendar export link.
package dateutil

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidFormat is returned for malformed date or time strings.
var ErrInvalidFormat = errors.New("invalid format")

var (
	dateRe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	clockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseLocalDate parses "YYYY-MM-DD" as midnight in the process local
// timezone. See ParseLocalDateIn.
func ParseLocalDate(s string) (time.Time, error) {
	return ParseLocalDateIn(s, time.Local)
}

// ParseLocalDateIn builds midnight of the given calendar day in loc by
// parsing the components directly. Running the string through a
// UTC-based parser shifts the displayed day for anyone west of UTC,
// which is exactly the bug this avoids.
func ParseLocalDateIn(s string, loc *time.Location) (time.Time, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, s)
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes out-of-range components; a changed day means
	// the input named a day that doesn't exist (e.g. 2026-02-30)
	y2, m2, d2 := t.Date()
	if y2 != year || int(m2) != month || d2 != day {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidFormat, s)
	}
	return t, nil
}

// FormatLongDate renders e.g. "Monday, January 19, 2026".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// FormatShortDate renders e.g. "Jan 19, 2026".
func FormatShortDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func parseClock(s string) (int, int, error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: time %q", ErrInvalidFormat, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return 0, 0, fmt.Errorf("%w: time %q", ErrInvalidFormat, s)
	}
	return h, min, nil
}

// FormatClockTime converts "HH:MM" to 12-hour display ("6:30 PM").
// Empty input means "unset" and yields an empty string, not an error.
func FormatClockTime(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	h, min, err := parseClock(s)
	if err != nil {
		return "", err
	}
	ampm := "AM"
	if h >= 12 {
		ampm = "PM"
	}
	hour12 := h % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, min, ampm), nil
}

// FormatTimeRange renders "6:30 PM - 8:00 PM", or just the start when
// the end is unset.
func FormatTimeRange(start, end string) (string, error) {
	if start == "" {
		return "", nil
	}
	from, err := FormatClockTime(start)
	if err != nil {
		return "", err
	}
	if end == "" {
		return from, nil
	}
	to, err := FormatClockTime(end)
	if err != nil {
		return "", err
	}
	return from + " - " + to, nil
}

// DurationBetween renders the span between two HH:MM times as
// "30 min", "2 hr" or "2 hr 30 min". A negative span (end before
// start) passes through unchanged, it is not wrapped to the next day.
// Either side empty yields an empty string.
func DurationBetween(start, end string) (string, error) {
	if start == "" || end == "" {
		return "", nil
	}
	sh, sm, err := parseClock(start)
	if err != nil {
		return "", err
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return "", err
	}

	diff := (eh*60 + em) - (sh*60 + sm)
	if diff < 60 {
		return fmt.Sprintf("%d min", diff), nil
	}
	hours := diff / 60
	mins := diff % 60
	if mins == 0 {
		return fmt.Sprintf("%d hr", hours), nil
	}
	return fmt.Sprintf("%d hr %d min", hours, mins), nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// calendarDay maps a time to a day count that ignores clock time and
// DST shifts, for whole-day distances.
func calendarDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Unix() / 86400)
}

func humanizeDays(days int) string {
	switch {
	case days <= 1:
		return "1 day"
	case days < 30:
		return fmt.Sprintf("%d days", days)
	case days < 60:
		return "1 month"
	case days < 365:
		return fmt.Sprintf("%d months", days/30)
	case days < 730:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", days/365)
	}
}

// RelativeDateLabel renders a date relative to now: "Today",
// "Tomorrow", "in 3 days", "2 months ago". Now is injected so callers
// and tests never depend on the ambient clock.
func RelativeDateLabel(d, now time.Time) string {
	if sameDay(d, now) {
		return "Today"
	}
	if sameDay(d, now.AddDate(0, 0, 1)) {
		return "Tomorrow"
	}
	days := calendarDay(d) - calendarDay(now)
	if days > 0 {
		return "in " + humanizeDays(days)
	}
	return humanizeDays(-days) + " ago"
}

// IsUpcoming reports whether d is today or in the future.
func IsUpcoming(d, now time.Time) bool {
	return sameDay(d, now) || d.After(now)
}

// CountdownParts is the decomposed time left until a target instant.
type CountdownParts struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	IsPast  bool `json:"isPast"`
}

// Countdown splits the span from now to target into days, hours,
// minutes and seconds. Once the target has passed only IsPast is set.
func Countdown(target, now time.Time) CountdownParts {
	diff := target.Sub(now)
	if diff <= 0 {
		return CountdownParts{IsPast: true}
	}
	total := int(diff / time.Second)
	return CountdownParts{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// NextOccurrence returns the next yearly occurrence of the given
// anniversary date on or after today. A date that has not happened yet
// is its own next occurrence; the yearly cycle starts only after the
// first one.
func NextOccurrence(date, now time.Time) time.Time {
	if IsUpcoming(date, now) {
		return date
	}
	_, m, d := date.Date()
	candidate := time.Date(now.Year(), m, d, 0, 0, 0, 0, now.Location())
	if !IsUpcoming(candidate, now) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate
}
