package db

import "database/sql"

func (db *DB) initSchema() error {
	schema := `
	-- Sessions table: the durable local cache, keyed by the session UUID
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		synced BOOLEAN NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_owner ON sessions(owner);
	CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time);
	CREATE INDEX IF NOT EXISTS idx_sessions_category ON sessions(category);
	CREATE INDEX IF NOT EXISTS idx_sessions_active ON sessions(owner) WHERE end_time IS NULL;

	-- Categories table; names are unique per owner, case-insensitively
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		owner TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_owner_name
		ON categories(owner, LOWER(name));

	-- Preferences: single-row key/value records (theme, etc.)
	CREATE TABLE IF NOT EXISTS prefs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// migrate applies schema changes for databases created by older versions.
func (db *DB) migrate() error {
	if err := db.migration001AddSyncedColumn(); err != nil {
		return err
	}
	return nil
}

// migration001AddSyncedColumn backfills the synced flag for caches created
// before remote sync existed.
func (db *DB) migration001AddSyncedColumn() error {
	var name string
	err := db.conn.QueryRow(`
		SELECT name FROM pragma_table_info('sessions') WHERE name = 'synced'
	`).Scan(&name)
	if err == sql.ErrNoRows {
		_, err = db.conn.Exec(`ALTER TABLE sessions ADD COLUMN synced BOOLEAN NOT NULL DEFAULT 0`)
		return err
	}
	return err
}
