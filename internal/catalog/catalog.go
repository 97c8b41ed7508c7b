// Package catalog provides SQLite metadata storage for collected clips.
// The on-disk video tree owned by clipstore remains the source of truth
// for clip indices; the catalog records per-clip quality statistics for
// the later offline extraction phase.
package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Catalog represents a SQLite database connection for storing recording
// sessions and clip metadata.
type Catalog struct {
	db   *sql.DB
	path string
}

// New creates a new Catalog with the given database path.
// It opens the database connection, enables foreign keys, and runs migrations.
func New(dbPath string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	c := &Catalog{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection.
func (c *Catalog) DB() *sql.DB {
	return c.db
}
