// Package store persists submissions, one store per submission family.
package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/TheFungusAmongUs/GeoBot/db"
	"github.com/TheFungusAmongUs/GeoBot/model"
)

// Store holds every submission of one family. All methods are safe for
// concurrent use. Returned submissions are copies.
type Store interface {
	Name() string
	// Load replaces the contents with what is persisted, resolving every
	// author through dir. It fails as a whole if any author fails.
	Load(ctx context.Context, dir model.UserDirectory) ([]*model.Submission, error)
	// Save replaces the submission with the same id or appends it, then
	// persists the whole store. On *PersistenceError the in-memory change
	// is kept.
	Save(ctx context.Context, sub *model.Submission) error
	Get(id string) (*model.Submission, bool)
	FindByAuthor(authorID string) []*model.Submission
	All() []*model.Submission
}

// PersistenceError means a Save updated memory but could not reach disk.
type PersistenceError struct {
	Store string
	ID    string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting %s to store %s: %v", e.ID, e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Definition names one store, its JSON file and the kind assumed for
// records without a type field.
type Definition struct {
	Name string
	File string
	Kind model.Kind
}

var Definitions = []Definition{
	{Name: "posts", File: "posts.json", Kind: model.KindFeedback},
	{Name: "questions", File: "data.json", Kind: model.KindQuestion},
	{Name: "tickets", File: "tickets.json", Kind: model.KindTicket},
}

// Set is the collection of stores the bot runs with.
type Set struct {
	order  []Store
	byName map[string]Store
	close  func() error
}

func NewSet(stores ...Store) *Set {
	s := &Set{byName: make(map[string]Store)}
	for _, st := range stores {
		s.order = append(s.order, st)
		s.byName[st.Name()] = st
	}
	return s
}

// Open builds the stores for the configured backend.
func Open(cfg model.Storage) (*Set, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "json":
		var stores []Store
		for _, def := range Definitions {
			stores = append(stores, NewJSONStore(def.Name, filepath.Join(dataDir, def.File), def.Kind))
		}
		return NewSet(stores...), nil
	case "sqlite", "sqlite3":
		path := cfg.SQLitePath
		if path == "" {
			path = filepath.Join(dataDir, "geobot.db")
		}
		conn, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		var stores []Store
		for _, def := range Definitions {
			stores = append(stores, NewSQLiteStore(conn, def.Name, def.Kind))
		}
		set := NewSet(stores...)
		set.close = conn.Close
		return set, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// For returns the store a kind is persisted in.
func (s *Set) For(kind model.Kind) Store {
	return s.byName[kind.Spec().Store]
}

func (s *Set) Named(name string) (Store, bool) {
	st, ok := s.byName[name]
	return st, ok
}

func (s *Set) All() []Store {
	return append([]Store(nil), s.order...)
}

// FindByAuthor collects one author's submissions across every store.
func (s *Set) FindByAuthor(authorID string) []*model.Submission {
	var out []*model.Submission
	for _, st := range s.order {
		out = append(out, st.FindByAuthor(authorID)...)
	}
	return out
}

// Get looks a submission up by id in every store.
func (s *Set) Get(id string) (*model.Submission, bool) {
	for _, st := range s.order {
		if sub, ok := st.Get(id); ok {
			return sub, true
		}
	}
	return nil, false
}

func (s *Set) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// memory is the in-memory list shared by the backends. Callers hold mu.
type memory struct {
	mu   sync.Mutex
	subs []*model.Submission
}

func (m *memory) put(sub *model.Submission) {
	c := sub.Clone()
	for i, s := range m.subs {
		if s.ID == c.ID {
			m.subs[i] = c
			return
		}
	}
	m.subs = append(m.subs, c)
}

func (m *memory) replace(subs []*model.Submission) {
	m.subs = make([]*model.Submission, 0, len(subs))
	for _, s := range subs {
		m.subs = append(m.subs, s.Clone())
	}
}

func (m *memory) records() []model.Record {
	recs := make([]model.Record, 0, len(m.subs))
	for _, s := range m.subs {
		recs = append(recs, s.ToRecord())
	}
	return recs
}

func (m *memory) get(id string) (*model.Submission, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return nil, false
}

func (m *memory) findByAuthor(authorID string) []*model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Submission
	for _, s := range m.subs {
		if s.Author.ID == authorID {
			out = append(out, s.Clone())
		}
	}
	return out
}

func (m *memory) all() []*model.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Submission, 0, len(m.subs))
	for _, s := range m.subs {
		out = append(out, s.Clone())
	}
	return out
}
