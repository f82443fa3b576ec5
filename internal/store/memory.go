package store

import (
	"context"
	"sort"
	"sync"

	"github.com/i474232898/walkd/internal/walk"
)

// MemoryStore is a concurrency-safe in-memory walk store.
type MemoryStore struct {
	mu sync.RWMutex

	// records in insertion order
	records []walk.Record
	lastID  int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Migrate is a no-op; the in-memory store has no schema.
func (s *MemoryStore) Migrate(ctx context.Context) error {
	return nil
}

// Insert assigns the next id and appends the record.
func (s *MemoryStore) Insert(ctx context.Context, rec walk.Record) (walk.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ids are never reused, even after the highest one is deleted.
	s.lastID++
	rec.ID = s.lastID
	s.records = append(s.records, rec)
	return rec, nil
}

// List returns a copy of all records, newest date first.
func (s *MemoryStore) List(ctx context.Context) ([]walk.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(), nil
}

// Latest returns the record with the greatest date.
func (s *MemoryStore) Latest(ctx context.Context) (walk.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return walk.Record{}, walk.ErrNotFound
	}
	return s.sorted()[0], nil
}

// Delete removes the record with the given id.
func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return walk.ErrNotFound
}

// Ping always succeeds.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// sorted must be called with s.mu held.
func (s *MemoryStore) sorted() []walk.Record {
	out := make([]walk.Record, len(s.records))
	copy(out, s.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

var _ walk.Store = (*MemoryStore)(nil)
