// Package store owns the canonical session collection: a durable local
// SQLite cache plus an optional remote replica. Local mutations are
// synchronous and authoritative; remote writes happen on background
// goroutines and never block or roll back a local change.
package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/punchcard-dev/punchcard/internal/core/db"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/remote"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

// Store maintains the authoritative session collection. Construct one per
// process with New and pass it by reference; there are no ambient singletons.
type Store struct {
	db        *db.DB
	remote    remote.Backend
	hasRemote bool
	clock     timeutil.Clock

	wg       sync.WaitGroup
	syncErrs chan *models.SyncError
}

// New creates a Store over the given local cache. A nil backend selects
// local-only mode.
func New(database *db.DB, backend remote.Backend, clock timeutil.Clock) *Store {
	hasRemote := backend != nil
	if !hasRemote {
		backend = remote.Disabled{}
	}
	if clock == nil {
		clock = timeutil.SystemClock{}
	}
	return &Store{
		db:        database,
		remote:    backend,
		hasRemote: hasRemote,
		clock:     clock,
		syncErrs:  make(chan *models.SyncError, 64),
	}
}

// Clock returns the store's clock, shared with components that must agree on
// "now".
func (s *Store) Clock() timeutil.Clock {
	return s.clock
}

// SyncErrors delivers remote failures after the fact. A full channel drops
// further reports rather than blocking a sync goroutine; each failure is
// surfaced at most once and never retried.
func (s *Store) SyncErrors() <-chan *models.SyncError {
	return s.syncErrs
}

// Create constructs a new active session for a category. Pure factory; the
// caller persists it with Save.
func (s *Store) Create(category, owner string) models.Session {
	return models.Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		Category:  category,
		StartTime: s.clock.Now(),
	}
}

// LoadAll returns the owner's sessions, newest start time first. When a
// remote is configured and reachable, the fetched set overwrites the local
// cache; any remote failure degrades to the local cache instead of
// propagating.
func (s *Store) LoadAll(ctx context.Context, owner string) ([]models.Session, error) {
	if s.hasRemote {
		fetched, err := s.remote.FetchAll(ctx, owner)
		if err == nil {
			if err := s.db.ReplaceSessions(owner, fetched); err != nil {
				return nil, fmt.Errorf("replace local cache: %w", err)
			}
			return fetched, nil
		}
		s.report(&models.SyncError{Op: "fetch", Err: err})
	}

	return s.db.ListSessions(owner)
}

// Save writes the session to the local cache immediately, then upserts the
// remote copy asynchronously. The returned error covers only the local
// write; remote failures arrive on SyncErrors.
func (s *Store) Save(ctx context.Context, session models.Session) error {
	session.Synced = !s.hasRemote
	if err := s.db.UpsertSession(session); err != nil {
		return err
	}

	if s.hasRemote {
		s.spawn(func() {
			if err := s.remote.Upsert(context.Background(), session); err != nil {
				s.report(&models.SyncError{Op: "upsert", ID: session.ID, Err: err})
				return
			}
			if err := s.db.MarkSynced(session.ID); err != nil {
				log.Printf("mark synced %s: %v", session.ID, err)
			}
		})
	}
	return nil
}

// Delete removes the session locally, then remotely in the background. Both
// sides treat an absent id as a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.DeleteSession(id); err != nil {
		return err
	}

	if s.hasRemote {
		s.spawn(func() {
			if err := s.remote.Delete(context.Background(), id); err != nil {
				s.report(&models.SyncError{Op: "delete", ID: id, Err: err})
			}
		})
	}
	return nil
}

// Get returns one session from the local cache, or nil if absent.
func (s *Store) Get(id string) (*models.Session, error) {
	return s.db.GetSession(id)
}

// Active returns the owner's open sessions from the local cache.
func (s *Store) Active(owner string) ([]models.Session, error) {
	return s.db.ListActiveSessions(owner)
}

// PendingSync returns the number of local mutations not yet acknowledged by
// the remote store. Always zero in local-only mode.
func (s *Store) PendingSync(owner string) (int, error) {
	if !s.hasRemote {
		return 0, nil
	}
	return s.db.CountUnsynced(owner)
}

// Flush waits for in-flight remote writes. CLI commands call it before
// process exit so fire-and-forget syncs get a chance to land.
func (s *Store) Flush() {
	s.wg.Wait()
}

func (s *Store) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Store) report(err *models.SyncError) {
	log.Printf("%v", err)
	select {
	case s.syncErrs <- err:
	default:
	}
}
