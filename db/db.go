package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const dbDriver = "sqlite3"

// Open opens the SQLite database at path and creates the tables if they
// don't exist.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open(dbDriver, path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer keeps saves to the same store in order.
	conn.SetMaxOpenConns(1)

	// createTables is defined in migrate.go
	if err := createTables(conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("Database %s initialized successfully.", path)
	return conn, nil
}
