package store

import (
	"context"
	"sync"

	cerrors "github.com/edp1096/circuit-analyzer/pkg/errors"
)

type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "record has no id")
	}
	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeNotFound, "analysis %s not found", id)
	}
	return rec, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
