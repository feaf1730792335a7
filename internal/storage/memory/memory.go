// Package memory provides a process-local implementation of storage.Store.
// Records live in an ordered slice; data is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

// Store keeps records in insertion order. Every find-then-mutate sequence
// runs under the write lock so concurrent updates and deletes of the same
// id cannot interleave.
type Store[T types.Entity[T]] struct {
	mu      sync.RWMutex
	records []T
	ids     id.Generator
}

// New returns an empty Store that allocates identifiers from ids.
func New[T types.Entity[T]](ids id.Generator) *Store[T] {
	return &Store[T]{
		records: make([]T, 0),
		ids:     ids,
	}
}

func (s *Store[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.records[i], nil
	}
	var zero T
	return zero, fmt.Errorf("memory.Get %q: %w", id, storage.ErrNotFound)
}

func (s *Store[T]) Create(_ context.Context, candidateID string, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recID := candidateID
	if recID == "" {
		// Skip values a caller already claimed explicitly.
		for recID = s.ids.NewID(); s.indexOf(recID) >= 0; recID = s.ids.NewID() {
		}
	} else if s.indexOf(recID) >= 0 {
		var zero T
		return zero, fmt.Errorf("memory.Create %q: %w", recID, storage.ErrAlreadyExists)
	}

	rec = rec.WithID(recID)
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *Store[T]) Update(_ context.Context, id string, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("memory.Update %q: %w", id, storage.ErrNotFound)
	}

	rec = rec.WithID(id)
	s.records[i] = rec
	return rec, nil
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("memory.Delete %q: %w", id, storage.ErrNotFound)
	}

	// Survivors keep their relative order.
	s.records = append(s.records[:i], s.records[i+1:]...)
	return nil
}

// indexOf must be called with s.mu held.
func (s *Store[T]) indexOf(id string) int {
	for i, r := range s.records {
		if r.GetID() == id {
			return i
		}
	}
	return -1
}

var _ storage.Store[types.User] = (*Store[types.User])(nil)
