package db

import (
	"database/sql"
	"fmt"
)

// createTables 如果数据库中不存在必要的表，则创建它们
func createTables(conn *sql.DB) error {
	// 'submissions' 表: one row per submission, keyed by store and message id
	createSubmissionsTableSQL := `
	CREATE TABLE IF NOT EXISTS submissions (
		store TEXT NOT NULL,
		id TEXT NOT NULL,
		position INTEGER NOT NULL,
		record TEXT NOT NULL,
		author_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (store, id)
	);`

	if _, err := conn.Exec(createSubmissionsTableSQL); err != nil {
		return fmt.Errorf("failed to create submissions table: %w", err)
	}

	createAuthorIndexSQL := `CREATE INDEX IF NOT EXISTS idx_submissions_author ON submissions (store, author_id);`
	if _, err := conn.Exec(createAuthorIndexSQL); err != nil {
		return fmt.Errorf("failed to create submissions author index: %w", err)
	}

	return nil
}
