package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &DB{db}, nil
}

// Only the chat's deck binding is stored, never hands or outcomes.
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS seats (
		chat_id INTEGER PRIMARY KEY,
		deck_id TEXT NOT NULL,
		remaining INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_seats_updated_at ON seats(updated_at);
	`

	_, err := db.Exec(schema)
	return err
}
