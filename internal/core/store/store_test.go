package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/punchcard-dev/punchcard/internal/core/db"
	"github.com/punchcard-dev/punchcard/internal/core/models"
	"github.com/punchcard-dev/punchcard/internal/core/timeutil"
)

// fakeBackend records calls and can be told to fail.
type fakeBackend struct {
	mu       sync.Mutex
	fail     bool
	sessions map[string]models.Session
	fetched  []models.Session
	deletes  []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sessions: make(map[string]models.Session)}
}

func (f *fakeBackend) FetchAll(ctx context.Context, owner string) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("network down")
	}
	return f.fetched, nil
}

func (f *fakeBackend) Upsert(ctx context.Context, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("network down")
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeBackend) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("network down")
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func testStore(t *testing.T, backend *fakeBackend) *Store {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "punchcard.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = database.Close() })

	clock := timeutil.FixedClock{T: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	if backend == nil {
		return New(database, nil, clock)
	}
	return New(database, backend, clock)
}

func TestCreate(t *testing.T) {
	s := testStore(t, nil)

	session := s.Create("Work", "neil")
	if session.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if session.Category != "Work" || session.Owner != "neil" {
		t.Errorf("Create() = %+v", session)
	}
	if !session.Active() {
		t.Error("new session should be active")
	}
	if !session.StartTime.Equal(s.Clock().Now()) {
		t.Errorf("StartTime = %v, want clock now", session.StartTime)
	}

	// Pure factory: nothing persisted
	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("Create() persisted the session")
	}
}

func TestSaveLoadAll_LocalOnly(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()

	session := s.Create("Work", "")
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	sessions, err := s.LoadAll(ctx, "")
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Fatalf("LoadAll() = %+v, want the saved session", sessions)
	}
	if !sessions[0].Synced {
		t.Error("local-only sessions should report synced")
	}
}

func TestLoadAll_RemoteWins(t *testing.T) {
	backend := newFakeBackend()
	s := testStore(t, backend)
	ctx := context.Background()

	// Something stale in the local cache
	stale := s.Create("Work", "neil")
	if err := s.Save(ctx, stale); err != nil {
		t.Fatal(err)
	}
	s.Flush()

	now := s.Clock().Now()
	backend.mu.Lock()
	backend.fetched = []models.Session{
		{ID: "remote-1", Owner: "neil", Category: "Reading", StartTime: now.Add(-time.Hour), Synced: true},
	}
	backend.mu.Unlock()

	sessions, err := s.LoadAll(ctx, "neil")
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "remote-1" {
		t.Fatalf("LoadAll() = %+v, want remote set", sessions)
	}

	// Local cache was overwritten too
	got, err := s.Get("remote-1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Error("remote session missing from local cache after LoadAll")
	}
	if got2, _ := s.Get(stale.ID); got2 != nil {
		t.Error("stale local session survived remote overwrite")
	}
}

func TestLoadAll_RemoteFailureFallsBack(t *testing.T) {
	backend := newFakeBackend()
	s := testStore(t, backend)
	ctx := context.Background()

	session := s.Create("Work", "neil")
	if err := s.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	s.Flush()

	backend.mu.Lock()
	backend.fail = true
	backend.mu.Unlock()

	sessions, err := s.LoadAll(ctx, "neil")
	if err != nil {
		t.Fatalf("LoadAll() with unreachable remote error = %v, want nil", err)
	}
	if len(sessions) != 1 || sessions[0].ID != session.ID {
		t.Fatalf("LoadAll() = %+v, want local cache contents", sessions)
	}

	select {
	case syncErr := <-s.SyncErrors():
		if syncErr.Op != "fetch" {
			t.Errorf("SyncError.Op = %s, want fetch", syncErr.Op)
		}
	default:
		t.Error("expected a fetch SyncError to be reported")
	}
}

func TestSave_RemoteAckMarksSynced(t *testing.T) {
	backend := newFakeBackend()
	s := testStore(t, backend)
	ctx := context.Background()

	session := s.Create("Work", "neil")
	if err := s.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	s.Flush()

	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || !got.Synced {
		t.Errorf("session not marked synced after remote ack: %+v", got)
	}

	backend.mu.Lock()
	_, upserted := backend.sessions[session.ID]
	backend.mu.Unlock()
	if !upserted {
		t.Error("remote never received the upsert")
	}
}

func TestSave_RemoteFailureKeepsLocalWrite(t *testing.T) {
	backend := newFakeBackend()
	backend.fail = true
	s := testStore(t, backend)
	ctx := context.Background()

	session := s.Create("Work", "neil")
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save() error = %v, local write must not fail on remote errors", err)
	}
	s.Flush()

	got, err := s.Get(session.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("local write rolled back on remote failure")
	}
	if got.Synced {
		t.Error("session marked synced despite remote failure")
	}

	pending, err := s.PendingSync("neil")
	if err != nil {
		t.Fatal(err)
	}
	if pending != 1 {
		t.Errorf("PendingSync() = %d, want 1", pending)
	}

	select {
	case syncErr := <-s.SyncErrors():
		if syncErr.Op != "upsert" || syncErr.ID != session.ID {
			t.Errorf("SyncError = %+v", syncErr)
		}
	default:
		t.Error("expected an upsert SyncError")
	}
}

func TestDelete_RemoteAndIdempotent(t *testing.T) {
	backend := newFakeBackend()
	s := testStore(t, backend)
	ctx := context.Background()

	session := s.Create("Work", "neil")
	if err := s.Save(ctx, session); err != nil {
		t.Fatal(err)
	}
	s.Flush()

	if err := s.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Second delete is a no-op
	if err := s.Delete(ctx, session.ID); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	s.Flush()

	sessions, err := s.LoadAll(ctx, "neil")
	if err != nil {
		t.Fatal(err)
	}
	for _, got := range sessions {
		if got.ID == session.ID {
			t.Error("deleted session still present")
		}
	}

	backend.mu.Lock()
	deletes := len(backend.deletes)
	backend.mu.Unlock()
	if deletes != 2 {
		t.Errorf("remote saw %d deletes, want 2", deletes)
	}
}

func TestSave_ConcurrentWritesKeyedByID(t *testing.T) {
	s := testStore(t, nil)
	ctx := context.Background()

	// Back-to-back saves for distinct ids, as a Start transition issues
	a := s.Create("Work", "")
	b := s.Create("Exercise", "")
	if err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, b); err != nil {
		t.Fatal(err)
	}
	// Re-save a with identical content; still exactly one row per id
	if err := s.Save(ctx, a); err != nil {
		t.Fatal(err)
	}

	sessions, err := s.LoadAll(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Errorf("LoadAll() returned %d sessions, want 2", len(sessions))
	}
}
