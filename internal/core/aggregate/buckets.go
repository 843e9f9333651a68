// Package aggregate turns a session collection into calendar-aligned
// duration buckets for charting. Sessions that cross bucket boundaries
// contribute to each bucket proportionally by wall-clock overlap; nothing is
// double-counted.
package aggregate

import (
	"fmt"
	"time"

	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

// Granularity selects the calendar window and its sub-bucket rule.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	Year
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	}
	return "unknown"
}

// ParseGranularity parses the CLI spelling of a granularity.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "day":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	case "year":
		return Year, nil
	}
	return Day, fmt.Errorf("unknown granularity %q (want day, week, month, or year)", s)
}

// Bucket is one calendar-aligned slice of the window. Never persisted.
type Bucket struct {
	Label        string
	Start        time.Time
	End          time.Time // exclusive
	TotalMinutes int
	ByCategory   map[string]int
}

// Report is the aggregation output for one window.
type Report struct {
	Granularity Granularity
	WindowStart time.Time
	WindowEnd   time.Time // exclusive
	Buckets     []Bucket
	// Pie holds per-category minute totals over the whole window, computed
	// directly from window overlaps rather than by summing buckets.
	Pie map[string]int
}

// TotalMinutes sums the pie.
func (r Report) TotalMinutes() int {
	total := 0
	for _, minutes := range r.Pie {
		total += minutes
	}
	return total
}

// Window returns the calendar window for a granularity anchored at now:
// day is that calendar day, week the trailing 7 days ending today, month the
// current calendar month, year the current calendar year.
func Window(now time.Time, g Granularity) (time.Time, time.Time) {
	day := timeutil.StartOfDay(now)
	switch g {
	case Day:
		return day, day.AddDate(0, 0, 1)
	case Week:
		return day.AddDate(0, 0, -6), day.AddDate(0, 0, 1)
	case Month:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0)
	case Year:
		first := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(1, 0, 0)
	}
	return day, day.AddDate(0, 0, 1)
}

// Build computes the bucket report for a session collection. Active sessions
// are treated as running until now; sessions whose end precedes their start
// contribute nothing.
func Build(sessions []models.Session, now time.Time, g Granularity) Report {
	windowStart, windowEnd := Window(now, g)

	report := Report{
		Granularity: g,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Buckets:     partition(windowStart, windowEnd, now, g),
		Pie:         make(map[string]int),
	}

	for _, s := range sessions {
		start, end, ok := effectiveInterval(s, now)
		if !ok {
			continue
		}

		if minutes := overlapMinutes(start, end, windowStart, windowEnd); minutes > 0 {
			report.Pie[s.Category] += minutes
		}

		for i := range report.Buckets {
			b := &report.Buckets[i]
			minutes := overlapMinutes(start, end, b.Start, b.End)
			if minutes == 0 {
				continue
			}
			b.ByCategory[s.Category] += minutes
			b.TotalMinutes += minutes
		}
	}

	return report
}

// effectiveInterval resolves a session to a concrete interval. Active
// sessions run until now; corrupted intervals are dropped.
func effectiveInterval(s models.Session, now time.Time) (time.Time, time.Time, bool) {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end.Before(s.StartTime) {
		return time.Time{}, time.Time{}, false
	}
	return s.StartTime, end, true
}

// overlapMinutes returns the whole-minute length of the intersection of
// [start, end] with [bStart, bEnd). Zero-length overlaps are dropped.
func overlapMinutes(start, end, bStart, bEnd time.Time) int {
	if start.Before(bStart) {
		start = bStart
	}
	if end.After(bEnd) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return timeutil.WholeMinutes(end.Sub(start))
}

// partition slices the window per the granularity's bucketing rule.
func partition(windowStart, windowEnd, now time.Time, g Granularity) []Bucket {
	switch g {
	case Day:
		// A single bucket; the day view is category pie only
		return []Bucket{newBucket(now.Format("Jan 2"), windowStart, windowEnd)}
	case Week:
		buckets := make([]Bucket, 0, 7)
		for d := windowStart; d.Before(windowEnd); d = d.AddDate(0, 0, 1) {
			buckets = append(buckets, newBucket(d.Format("Mon"), d, d.AddDate(0, 0, 1)))
		}
		return buckets
	case Month:
		return monthWeekBuckets(windowStart, windowEnd)
	case Year:
		buckets := make([]Bucket, 0, 12)
		for m := windowStart; m.Before(windowEnd); m = m.AddDate(0, 1, 0) {
			buckets = append(buckets, newBucket(m.Format("Jan"), m, m.AddDate(0, 1, 0)))
		}
		return buckets
	}
	return nil
}

// monthWeekBuckets slices a calendar month at ISO week boundaries (Mondays),
// clipping the first and last slice to the month.
func monthWeekBuckets(monthStart, monthEnd time.Time) []Bucket {
	var buckets []Bucket
	sliceStart := monthStart
	for sliceStart.Before(monthEnd) {
		sliceEnd := nextMonday(sliceStart)
		if sliceEnd.After(monthEnd) {
			sliceEnd = monthEnd
		}
		_, isoWeek := sliceStart.ISOWeek()
		buckets = append(buckets, newBucket(fmt.Sprintf("W%d", isoWeek), sliceStart, sliceEnd))
		sliceStart = sliceEnd
	}
	return buckets
}

func nextMonday(t time.Time) time.Time {
	days := (8 - int(t.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return timeutil.StartOfDay(t).AddDate(0, 0, days)
}

func newBucket(label string, start, end time.Time) Bucket {
	return Bucket{
		Label:      label,
		Start:      start,
		End:        end,
		ByCategory: make(map[string]int),
	}
}
