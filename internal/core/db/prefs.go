package db

import (
	"database/sql"
	"fmt"
)

const ThemeKey = "theme"

// GetPref returns a stored preference value, or the fallback when unset.
func (db *DB) GetPref(key, fallback string) (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM prefs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get pref %s: %w", key, err)
	}
	return value, nil
}

// SetPref stores a preference value.
func (db *DB) SetPref(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO prefs (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set pref %s: %w", key, err)
	}
	return nil
}
