// Package tracker implements the session state machine: Start, Stop, Edit,
// Delete. It enforces the single-focus rule — at most one session per owner
// is ever running.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/store"
)

// Tracker drives session lifecycle transitions through a Store.
type Tracker struct {
	store *store.Store
	owner string
}

// New creates a Tracker for one owner's collection.
func New(s *store.Store, owner string) *Tracker {
	return &Tracker{store: s, owner: owner}
}

// Start begins tracking a category. Any currently running session is stopped
// first, at the same instant the new one starts, so the previous end time
// never exceeds the new start time.
func (t *Tracker) Start(ctx context.Context, category string) (models.Session, error) {
	return t.StartAt(ctx, category, t.store.Clock().Now())
}

// StartAt begins tracking a category at the given instant. A running session
// is stopped at that same instant, so a backdated start keeps the previous
// end time at or before the new start time.
func (t *Tracker) StartAt(ctx context.Context, category string, at time.Time) (models.Session, error) {
	if category == "" {
		return models.Session{}, &models.ValidationError{Field: "category", Reason: "category is required"}
	}

	if err := t.stopActive(ctx, at, ""); err != nil {
		return models.Session{}, err
	}

	session := t.store.Create(category, t.owner)
	session.StartTime = at
	if err := t.store.Save(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("persist new session: %w", err)
	}
	return session, nil
}

// Stop closes the session with the given id. A missing or already-stopped
// session is a no-op; the returned session is nil in that case.
func (t *Tracker) Stop(ctx context.Context, id string) (*models.Session, error) {
	session, err := t.store.Get(id)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.Active() {
		return nil, nil
	}

	now := t.store.Clock().Now()
	session.EndTime = &now
	if err := t.store.Save(ctx, *session); err != nil {
		return nil, fmt.Errorf("persist stop: %w", err)
	}
	return session, nil
}

// StopActive closes whichever session is currently running, if any.
func (t *Tracker) StopActive(ctx context.Context) (*models.Session, error) {
	active, err := t.store.Active(t.owner)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}
	return t.Stop(ctx, active[0].ID)
}

// Edit retroactively corrects a session's interval. A nil newEnd re-activates
// the session; in that case any other running session is stopped at the edit
// instant so the single-active rule survives manual corrections.
func (t *Tracker) Edit(ctx context.Context, id string, newStart time.Time, newEnd *time.Time) (*models.Session, error) {
	if newEnd != nil && newEnd.Before(newStart) {
		return nil, &models.ValidationError{Field: "end_time", Reason: "end time precedes start time"}
	}

	session, err := t.store.Get(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &models.ValidationError{Field: "id", Reason: fmt.Sprintf("no session %s", id)}
	}

	if newEnd == nil {
		now := t.store.Clock().Now()
		if err := t.stopActive(ctx, now, id); err != nil {
			return nil, err
		}
	}

	session.StartTime = newStart
	session.EndTime = newEnd
	if err := t.store.Save(ctx, *session); err != nil {
		return nil, fmt.Errorf("persist edit: %w", err)
	}
	return session, nil
}

// Delete removes a session unconditionally. It never resurrects a previously
// stopped session.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	return t.store.Delete(ctx, id)
}

// stopActive closes every running session except the one with skipID, all at
// the same instant.
func (t *Tracker) stopActive(ctx context.Context, at time.Time, skipID string) error {
	active, err := t.store.Active(t.owner)
	if err != nil {
		return err
	}
	for _, session := range active {
		if session.ID == skipID {
			continue
		}
		end := at
		session.EndTime = &end
		if err := t.store.Save(ctx, session); err != nil {
			return fmt.Errorf("stop session %s: %w", session.ID, err)
		}
	}
	return nil
}
