package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TheFungusAmongUs/GeoBot/db"
	"github.com/TheFungusAmongUs/GeoBot/model"
)

// SQLiteStore keeps one store as rows of the shared submissions table.
type SQLiteStore struct {
	memory
	conn        *sql.DB
	name        string
	defaultKind model.Kind
}

func NewSQLiteStore(conn *sql.DB, name string, defaultKind model.Kind) *SQLiteStore {
	return &SQLiteStore{conn: conn, name: name, defaultKind: defaultKind}
}

func (s *SQLiteStore) Name() string { return s.name }

func (s *SQLiteStore) Load(ctx context.Context, dir model.UserDirectory) ([]*model.Submission, error) {
	recs, err := db.LoadRecords(ctx, s.conn, s.name)
	if err != nil {
		return nil, fmt.Errorf("reading store %s: %w", s.name, err)
	}

	subs, err := resolveRecords(ctx, recs, s.defaultKind, dir)
	if err != nil {
		return nil, fmt.Errorf("loading store %s: %w", s.name, err)
	}

	s.mu.Lock()
	s.replace(subs)
	s.mu.Unlock()
	return subs, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sub *model.Submission) error {
	if err := sub.CheckIDs(); err != nil {
		return fmt.Errorf("saving to store %s: %w", s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(sub)
	if err := db.UpsertRecord(ctx, s.conn, s.name, sub.ToRecord()); err != nil {
		return &PersistenceError{Store: s.name, ID: sub.ID, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Get(id string) (*model.Submission, bool) { return s.get(id) }

func (s *SQLiteStore) FindByAuthor(authorID string) []*model.Submission {
	return s.findByAuthor(authorID)
}

func (s *SQLiteStore) All() []*model.Submission { return s.all() }
