package timeutil

import (
	"testing"
	"time"
)

func TestWholeMinutes(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want int
	}{
		{"exact hours", 2 * time.Hour, 120},
		{"rounds up past half minute", 121 * time.Second, 2},
		{"half minute rounds away from zero", 90 * time.Second, 2},
		{"rounds down under half minute", 89 * time.Second, 1},
		{"zero", 0, 0},
		{"negative collapses to zero", -time.Hour, 0},
		{"sub-minute", 20 * time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WholeMinutes(tt.d); got != tt.want {
				t.Errorf("WholeMinutes(%v) = %d, want %d", tt.d, got, tt.want)
			}
		})
	}
}

func TestFormatParseISO(t *testing.T) {
	orig := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s := FormatISO(orig)

	parsed, err := ParseISO(s)
	if err != nil {
		t.Fatalf("ParseISO(%q) error = %v", s, err)
	}
	if !parsed.Equal(orig) {
		t.Errorf("round trip = %v, want %v", parsed, orig)
	}
}

func TestParseISOVariants(t *testing.T) {
	for _, s := range []string{
		"2026-03-14T09:30:00Z",
		"2026-03-14 09:30:00",
		"2026-03-14T09:30:00",
	} {
		if _, err := ParseISO(s); err != nil {
			t.Errorf("ParseISO(%q) error = %v", s, err)
		}
	}

	if _, err := ParseISO("not a time"); err == nil {
		t.Error("ParseISO accepted garbage")
	}
}

func TestParseInstant(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	got, err := ParseInstant("10 minutes ago", base)
	if err != nil {
		t.Fatalf("ParseInstant error = %v", err)
	}
	if want := base.Add(-10 * time.Minute); !got.Equal(want) {
		t.Errorf("ParseInstant = %v, want %v", got, want)
	}

	got, err = ParseInstant("2026-03-01T08:00:00Z", base)
	if err != nil {
		t.Fatalf("ParseInstant error = %v", err)
	}
	if got.Day() != 1 || got.Hour() != 8 {
		t.Errorf("ParseInstant = %v, want Mar 1 08:00", got)
	}

	if _, err := ParseInstant("gibberish \x00", base); err == nil {
		t.Error("ParseInstant accepted garbage")
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("X", 3600)
	in := time.Date(2026, 3, 14, 23, 59, 59, 0, loc)
	got := StartOfDay(in)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := FixedClock{T: at}
	if !c.Now().Equal(at) {
		t.Errorf("FixedClock.Now() = %v, want %v", c.Now(), at)
	}
}
