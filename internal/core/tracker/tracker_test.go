package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/punchcard-dev/punchcard/internal/core/db"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/store"
)

// stepClock is a clock the test can advance by hand.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	return c.t
}

func (c *stepClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func setup(t *testing.T) (*Tracker, *store.Store, *stepClock) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "punchcard.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })

	clock := &stepClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	s := store.New(database, nil, clock)
	return New(s, ""), s, clock
}

func TestStartStopsPrevious(t *testing.T) {
	tr, s, clock := setup(t)
	ctx := context.Background()

	// Example scenario: Work at 09:00, switch to Exercise at 09:30
	a, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatalf("Start(Work) error = %v", err)
	}

	clock.advance(30 * time.Minute)

	b, err := tr.Start(ctx, "Exercise")
	if err != nil {
		t.Fatalf("Start(Exercise) error = %v", err)
	}

	gotA, err := s.Get(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotA.Active() {
		t.Error("previous session still active after Start")
	}
	wantEnd := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if !gotA.EndTime.Equal(wantEnd) {
		t.Errorf("previous end = %v, want %v", gotA.EndTime, wantEnd)
	}
	if gotA.EndTime.After(b.StartTime) {
		t.Errorf("previous.end %v exceeds new.start %v", gotA.EndTime, b.StartTime)
	}
	if !b.StartTime.Equal(wantEnd) {
		t.Errorf("new start = %v, want %v", b.StartTime, wantEnd)
	}

	sessions, err := s.LoadAll(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("LoadAll() returned %d sessions, want 2", len(sessions))
	}
	if sessions[0].ID != b.ID {
		t.Errorf("newest-first ordering violated: first = %s", sessions[0].ID)
	}
}

func TestStartAtBackdatedStopsPreviousAtSameInstant(t *testing.T) {
	tr, s, clock := setup(t)
	ctx := context.Background()

	// Work starts at 09:00; at 10:00 the user notices they switched to
	// Exercise twenty minutes ago.
	a, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatalf("Start(Work) error = %v", err)
	}

	clock.advance(time.Hour)
	at := clock.Now().Add(-20 * time.Minute)

	b, err := tr.StartAt(ctx, "Exercise", at)
	if err != nil {
		t.Fatalf("StartAt(Exercise) error = %v", err)
	}
	if !b.StartTime.Equal(at) {
		t.Errorf("new start = %v, want %v", b.StartTime, at)
	}

	gotA, err := s.Get(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotA.Active() {
		t.Error("previous session still active after StartAt")
	}
	if !gotA.EndTime.Equal(at) {
		t.Errorf("previous end = %v, want the backdated instant %v", gotA.EndTime, at)
	}
	if gotA.EndTime.After(b.StartTime) {
		t.Errorf("previous.end %v exceeds new.start %v", gotA.EndTime, b.StartTime)
	}

	active, err := s.Active("")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != b.ID {
		t.Errorf("want exactly the new session active, got %d", len(active))
	}
}

func TestSingleActiveInvariant(t *testing.T) {
	tr, s, clock := setup(t)
	ctx := context.Background()

	categories := []string{"Work", "Exercise", "Reading", "Work", "Chores"}
	for _, c := range categories {
		if _, err := tr.Start(ctx, c); err != nil {
			t.Fatalf("Start(%s) error = %v", c, err)
		}
		clock.advance(7 * time.Minute)

		active, err := s.Active("")
		if err != nil {
			t.Fatal(err)
		}
		if len(active) != 1 {
			t.Fatalf("after Start(%s): %d active sessions, want 1", c, len(active))
		}
	}
}

func TestStopIsNoOpWhenMissingOrStopped(t *testing.T) {
	tr, _, clock := setup(t)
	ctx := context.Background()

	// Missing id
	got, err := tr.Stop(ctx, "nope")
	if err != nil {
		t.Fatalf("Stop(missing) error = %v", err)
	}
	if got != nil {
		t.Errorf("Stop(missing) = %+v, want nil", got)
	}

	session, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}
	clock.advance(time.Minute)

	stopped, err := tr.Stop(ctx, session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stopped == nil || stopped.Active() {
		t.Fatalf("Stop() = %+v, want stopped session", stopped)
	}

	// Second stop is a no-op
	again, err := tr.Stop(ctx, session.ID)
	if err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if again != nil {
		t.Errorf("second Stop() = %+v, want nil", again)
	}
}

func TestEditRejectsEndBeforeStart(t *testing.T) {
	tr, s, _ := setup(t)
	ctx := context.Background()

	session, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}

	newStart := session.StartTime
	badEnd := newStart.Add(-time.Hour)
	_, err = tr.Edit(ctx, session.ID, newStart, &badEnd)
	if err == nil {
		t.Fatal("Edit() accepted end before start")
	}
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("Edit() error = %T, want *models.ValidationError", err)
	}

	// Rejected before mutation: original state unchanged
	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Active() {
		t.Error("rejected edit mutated the session")
	}
}

func TestEditSetsStopped(t *testing.T) {
	tr, s, clock := setup(t)
	ctx := context.Background()

	session, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}
	clock.advance(time.Hour)

	newStart := session.StartTime.Add(5 * time.Minute)
	newEnd := newStart.Add(20 * time.Minute)
	edited, err := tr.Edit(ctx, session.ID, newStart, &newEnd)
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if edited.Active() {
		t.Error("session with an end time should be stopped")
	}

	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.StartTime.Equal(newStart) || got.EndTime == nil || !got.EndTime.Equal(newEnd) {
		t.Errorf("edit not persisted: %+v", got)
	}
}

func TestEditReopenStopsOtherActive(t *testing.T) {
	tr, s, clock := setup(t)
	ctx := context.Background()

	first, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}
	clock.advance(30 * time.Minute)
	if _, err := tr.Stop(ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	second, err := tr.Start(ctx, "Exercise")
	if err != nil {
		t.Fatal(err)
	}
	clock.advance(10 * time.Minute)

	// Re-open the first session by clearing its end time
	if _, err := tr.Edit(ctx, first.ID, first.StartTime, nil); err != nil {
		t.Fatalf("Edit() reopen error = %v", err)
	}

	active, err := s.Active("")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("%d active sessions after reopen, want 1", len(active))
	}
	if active[0].ID != first.ID {
		t.Errorf("active session = %s, want the reopened one", active[0].ID)
	}

	gotSecond, err := s.Get(second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gotSecond.Active() {
		t.Error("other active session not stopped by reopening edit")
	}
}

func TestDeleteUnconditional(t *testing.T) {
	tr, s, _ := setup(t)
	ctx := context.Background()

	session, err := tr.Start(ctx, "Work")
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	active, err := s.Active("")
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 0 {
		t.Errorf("deleting the active session left %d active", len(active))
	}

	// Deleting again is fine
	if err := tr.Delete(ctx, session.ID); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
}
