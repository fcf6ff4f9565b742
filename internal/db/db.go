// Package db persists evaluation runs in SQLite. Schema is managed by
// golang-migrate with migration files embedded in the binary.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// OpenDB opens the database without touching the schema. Use this for
// migration commands where golang-migrate owns the schema.
func OpenDB(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{sqldb}, nil
}

// NewDB opens the database and brings the schema up to date.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
