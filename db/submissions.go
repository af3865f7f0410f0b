package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/TheFungusAmongUs/GeoBot/model"
)

// LoadRecords returns the records of one store in insertion order.
func LoadRecords(ctx context.Context, conn *sql.DB, store string) ([]model.Record, error) {
	rows, err := conn.QueryContext(ctx, `SELECT id, record FROM submissions WHERE store = ? ORDER BY position`, store)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []model.Record
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var rec model.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decoding submission %s: %w", id, err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// UpsertRecord inserts rec at the end of the store or replaces the row with
// the same id in place.
func UpsertRecord(ctx context.Context, conn *sql.DB, store string, rec model.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Rollback on error

	_, err = tx.ExecContext(ctx, `INSERT INTO submissions (store, id, position, record, author_id, status, updated_at)
		VALUES (?, ?, (SELECT IFNULL(MAX(position), 0) + 1 FROM submissions WHERE store = ?), ?, ?, ?, ?)
		ON CONFLICT (store, id) DO UPDATE SET
			record = excluded.record,
			author_id = excluded.author_id,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		store, string(rec.ID), store, string(raw), string(rec.Author), rec.Status, time.Now().Unix(),
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}
