package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	Path string
}

const schema = `
CREATE TABLE IF NOT EXISTS persons (
	id TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	surname TEXT,
	sex TEXT NOT NULL DEFAULT 'unspecified',
	father_id TEXT,
	mother_id TEXT,
	birth_date TEXT,
	death_date TEXT,
	birth_place TEXT,
	region TEXT,
	owner_id TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS persons_father ON persons(father_id);
CREATE INDEX IF NOT EXISTS persons_mother ON persons(mother_id);
CREATE UNIQUE INDEX IF NOT EXISTS persons_owner ON persons(owner_id) WHERE owner_id IS NOT NULL;
CREATE TABLE IF NOT EXISTS spouses (
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	spouse_id TEXT NOT NULL,
	PRIMARY KEY (person_id, spouse_id)
);
`

// OpenDB opens a SQLite database with WAL mode and foreign keys enabled
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// every connection to ":memory:" is a distinct database
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return &DB{conn: conn, Path: path}, nil
}

// EnsureSchema creates the persons and spouses tables if missing
func (d *DB) EnsureSchema() error {
	if _, err := d.conn.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn returns the underlying sql.DB for custom queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}
