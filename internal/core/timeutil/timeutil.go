// Package timeutil provides the clock abstraction and duration arithmetic
// shared by the store, tracker, and aggregation engine.
package timeutil

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Clock supplies the current instant. Core components take an injected Clock
// so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

// FormatISO renders a timestamp in RFC 3339, the format used by the CSV
// export and remote payloads.
func FormatISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseISO parses timestamps written by FormatISO, tolerating a few common
// variants seen in hand-edited data.
func ParseISO(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %q", s)
}

// WholeMinutes rounds a duration to whole minutes. Negative durations
// (corrupted intervals) collapse to zero.
func WholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d.Round(time.Minute) / time.Minute)
}

// ParseInstant resolves a user-supplied instant: natural language first
// ("10 minutes ago", "yesterday 9am"), then standard timestamp formats.
func ParseInstant(s string, base time.Time) (time.Time, error) {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	if result, err := w.Parse(s, base); err == nil && result != nil {
		return result.Time, nil
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"15:04",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			// Bare times resolve against the base date
			if format == "15:04" {
				return time.Date(base.Year(), base.Month(), base.Day(),
					t.Hour(), t.Minute(), 0, 0, base.Location()), nil
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse time %q", s)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
