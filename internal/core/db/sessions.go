package db

import (
	"database/sql"
	"fmt"

	"github.com/punchcard-dev/punchcard/internal/core/models"
)

// UpsertSession writes a session to the local cache, replacing any existing
// row with the same id. Last write wins.
func (db *DB) UpsertSession(s models.Session) error {
	var end interface{}
	if s.EndTime != nil {
		end = *s.EndTime
	}
	_, err := db.conn.Exec(`
		INSERT INTO sessions (id, owner, category, start_time, end_time, synced, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			owner = excluded.owner,
			category = excluded.category,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			synced = excluded.synced,
			updated_at = CURRENT_TIMESTAMP
	`, s.ID, s.Owner, s.Category, s.StartTime, end, s.Synced)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", s.ID, err)
	}
	return nil
}

// GetSession returns the session with the given id, or nil if absent.
func (db *DB) GetSession(id string) (*models.Session, error) {
	row := db.conn.QueryRow(`
		SELECT id, owner, category, start_time, end_time, synced
		FROM sessions WHERE id = ?
	`, id)

	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return s, nil
}

// DeleteSession removes a session from the local cache. Deleting an id that
// is not present is a no-op.
func (db *DB) DeleteSession(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

// ListSessions returns all cached sessions for an owner, newest start time
// first.
func (db *DB) ListSessions(owner string) ([]models.Session, error) {
	rows, err := db.conn.Query(`
		SELECT id, owner, category, start_time, end_time, synced
		FROM sessions
		WHERE owner = ?
		ORDER BY start_time DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListActiveSessions returns the owner's open sessions. Under normal
// operation this is at most one row, but the query does not assume it.
func (db *DB) ListActiveSessions(owner string) ([]models.Session, error) {
	rows, err := db.conn.Query(`
		SELECT id, owner, category, start_time, end_time, synced
		FROM sessions
		WHERE owner = ? AND end_time IS NULL
		ORDER BY start_time DESC
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ReplaceSessions overwrites the owner's cached collection with the given
// set, in one transaction. Used when a remote fetch succeeds.
func (db *DB) ReplaceSessions(owner string, sessions []models.Session) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sessions WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	for _, s := range sessions {
		var end interface{}
		if s.EndTime != nil {
			end = *s.EndTime
		}
		_, err := tx.Exec(`
			INSERT INTO sessions (id, owner, category, start_time, end_time, synced)
			VALUES (?, ?, ?, ?, ?, 1)
		`, s.ID, s.Owner, s.Category, s.StartTime, end)
		if err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// MarkSynced records that the remote store acknowledged the session's last
// local mutation.
func (db *DB) MarkSynced(id string) error {
	if _, err := db.conn.Exec(`UPDATE sessions SET synced = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark synced %s: %w", id, err)
	}
	return nil
}

// CountUnsynced returns how many local rows still await remote
// acknowledgment.
func (db *DB) CountUnsynced(owner string) (int, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM sessions WHERE owner = ? AND synced = 0
	`, owner).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unsynced: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.Session, error) {
	var s models.Session
	var end sql.NullTime
	if err := row.Scan(&s.ID, &s.Owner, &s.Category, &s.StartTime, &end, &s.Synced); err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		s.EndTime = &t
	}
	return &s, nil
}

func collectSessions(rows *sql.Rows) ([]models.Session, error) {
	var sessions []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}
