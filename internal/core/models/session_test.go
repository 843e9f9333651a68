package models

import (
	"testing"
	"time"
)

func TestSessionValidate(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-time.Hour)
	muchEarlier := now.Add(-2 * time.Hour)

	tests := []struct {
		name    string
		session Session
		wantErr bool
	}{
		{
			name: "valid active session",
			session: Session{
				ID:        "abc-123",
				Category:  "Work",
				StartTime: earlier,
			},
			wantErr: false,
		},
		{
			name: "valid completed session",
			session: Session{
				ID:        "abc-123",
				Category:  "Work",
				StartTime: muchEarlier,
				EndTime:   &earlier,
			},
			wantErr: false,
		},
		{
			name: "missing category",
			session: Session{
				ID:        "abc-123",
				StartTime: earlier,
			},
			wantErr: true,
		},
		{
			name: "start in the future",
			session: Session{
				ID:        "abc-123",
				Category:  "Work",
				StartTime: now.Add(time.Minute),
			},
			wantErr: true,
		},
		{
			name: "end before start",
			session: Session{
				ID:        "abc-123",
				Category:  "Work",
				StartTime: earlier,
				EndTime:   &muchEarlier,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.session.Validate(now)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionDuration(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	start := now.Add(-30 * time.Minute)

	active := Session{ID: "a", Category: "Work", StartTime: start}
	if got := active.Duration(now); got != 30*time.Minute {
		t.Errorf("active Duration() = %v, want 30m", got)
	}

	end := start.Add(10 * time.Minute)
	stopped := Session{ID: "b", Category: "Work", StartTime: start, EndTime: &end}
	if got := stopped.Duration(now); got != 10*time.Minute {
		t.Errorf("stopped Duration() = %v, want 10m", got)
	}

	// End before start is corrupted input, not an error
	badEnd := start.Add(-time.Minute)
	corrupted := Session{ID: "c", Category: "Work", StartTime: start, EndTime: &badEnd}
	if got := corrupted.Duration(now); got != 0 {
		t.Errorf("corrupted Duration() = %v, want 0", got)
	}
}

func TestSessionStatus(t *testing.T) {
	now := time.Now()
	s := Session{ID: "a", Category: "Work", StartTime: now.Add(-time.Hour)}
	if s.Status() != "Active" {
		t.Errorf("Status() = %q, want Active", s.Status())
	}
	s.EndTime = &now
	if s.Status() != "Completed" {
		t.Errorf("Status() = %q, want Completed", s.Status())
	}
}
