package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/TheFungusAmongUs/GeoBot/model"
	"github.com/TheFungusAmongUs/GeoBot/utils"
)

// JSONStore keeps one store in a single JSON array file, rewritten in full on
// every save.
type JSONStore struct {
	memory
	name        string
	path        string
	defaultKind model.Kind
}

func NewJSONStore(name, path string, defaultKind model.Kind) *JSONStore {
	return &JSONStore{name: name, path: path, defaultKind: defaultKind}
}

func (s *JSONStore) Name() string { return s.name }

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Load(ctx context.Context, dir model.UserDirectory) ([]*model.Submission, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.replace(nil)
			s.mu.Unlock()
			return nil, nil
		}
		return nil, fmt.Errorf("reading store %s: %w", s.name, err)
	}

	var recs []model.Record
	if len(data) > 0 {
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("decoding store %s: %w", s.name, err)
		}
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

func (s *JSONStore) Save(_ context.Context, sub *model.Submission) error {
	if err := sub.CheckIDs(); err != nil {
		return fmt.Errorf("saving to store %s: %w", s.name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(sub)
	data, err := json.MarshalIndent(s.records(), "", "  ")
	if err != nil {
		return &PersistenceError{Store: s.name, ID: sub.ID, Err: err}
	}
	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return &PersistenceError{Store: s.name, ID: sub.ID, Err: err}
	}
	return nil
}

func (s *JSONStore) Get(id string) (*model.Submission, bool) { return s.get(id) }

func (s *JSONStore) FindByAuthor(authorID string) []*model.Submission {
	return s.findByAuthor(authorID)
}

func (s *JSONStore) All() []*model.Submission { return s.all() }
