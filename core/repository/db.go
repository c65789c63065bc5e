package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // Postgres driver
)

// DB wraps the SQL connection shared by the repositories
type DB struct {
	*sql.DB
}

// NewDB opens a Postgres connection and verifies it
func NewDB(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}
