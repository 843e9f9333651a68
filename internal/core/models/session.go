package models

import (
	"fmt"
	"time"
)

// Session represents one timed interval of tracked activity. A nil EndTime
// means the session is still running.
type Session struct {
	ID        string
	Owner     string // empty when running without remote sync
	Category  string
	StartTime time.Time
	EndTime   *time.Time
	Synced    bool // last local mutation acknowledged by the remote store
}

// Active reports whether the session is still open.
func (s *Session) Active() bool {
	return s.EndTime == nil
}

// Status returns the export status label for the session.
func (s *Session) Status() string {
	if s.Active() {
		return "Active"
	}
	return "Completed"
}

// Duration returns the elapsed time of a completed session, or the elapsed
// time up to now for an active one. Corrupted sessions whose end precedes
// their start count as zero.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end.Before(s.StartTime) {
		return 0
	}
	return end.Sub(s.StartTime)
}

// Validate checks the session against creation-time rules.
func (s *Session) Validate(now time.Time) error {
	if s.ID == "" {
		return &ValidationError{Field: "id", Reason: "id is required"}
	}
	if s.Category == "" {
		return &ValidationError{Field: "category", Reason: "category is required"}
	}
	if s.StartTime.IsZero() {
		return &ValidationError{Field: "start_time", Reason: "start time is required"}
	}
	if s.StartTime.After(now) {
		return &ValidationError{Field: "start_time", Reason: "start time cannot be in the future"}
	}
	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		return &ValidationError{Field: "end_time", Reason: "end time precedes start time"}
	}
	return nil
}

// Category is a named activity bucket sessions are attributed to. Icon is an
// opaque symbol resolved only at the presentation boundary; removing a
// category never deletes or reattributes the sessions referencing it.
type Category struct {
	ID    string
	Owner string
	Name  string
	Icon  string
}

// ValidationError reports input rejected before any state was mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SyncError reports a remote read or write failure. Local state is unaffected
// and remains authoritative.
type SyncError struct {
	Op  string // "fetch", "upsert", "delete"
	ID  string // session id, empty for collection-level operations
	Err error
}

func (e *SyncError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("sync %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("sync %s: %v", e.Op, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
