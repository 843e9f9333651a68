// Package remote defines the optional replica backend: an opaque record
// store keyed by session id, reachable over network calls that may fail.
// The store selects one implementation at startup; call sites never branch
// on whether a remote is configured.
package remote

import (
	"context"
	"errors"

	"github.com/punchcard-dev/punchcard/internal/core/models"
)

// ErrNotConfigured marks the absence of a remote backend. It is not an error
// state for the user; it selects local-only mode.
var ErrNotConfigured = errors.New("remote backend not configured")

// Backend is the capability interface for the remote session replica.
type Backend interface {
	// FetchAll returns the owner's sessions ordered by start time descending.
	FetchAll(ctx context.Context, owner string) ([]models.Session, error)

	// Upsert writes one session record keyed by its id.
	Upsert(ctx context.Context, s models.Session) error

	// Delete removes the record with the given id. Deleting an absent id
	// succeeds.
	Delete(ctx context.Context, id string) error
}

// Disabled is the no-op backend selected when no remote is configured.
type Disabled struct{}

func (Disabled) FetchAll(ctx context.Context, owner string) ([]models.Session, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Upsert(ctx context.Context, s models.Session) error {
	return ErrNotConfigured
}

func (Disabled) Delete(ctx context.Context, id string) error {
	return ErrNotConfigured
}
