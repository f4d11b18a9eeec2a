// Package memory provides an in-memory implementation of storage.Store,
// used by tests and as an offline backend. Documents are kept as detached
// copies so callers never alias the store's state.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store with a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]models.Entity
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{docs: make(map[uuid.UUID]models.Entity)}
}

// Put inserts or replaces the document with the entity's id.
func (s *Store) Put(ctx context.Context, e models.Entity) error {
	detached, err := models.CloneDocument(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[e.UUID()] = detached
	return nil
}

// Get retrieves a document by id.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (models.Entity, error) {
	s.mu.RLock()
	e, ok := s.docs[id]
	s.mu.RUnlock()

	if !ok {
		return nil, models.NewDocumentError("get", id, models.ErrNotFound)
	}
	return models.CloneDocument(e)
}

// Delete removes a document by id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return models.NewDocumentError("delete", id, models.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// ListByKind retrieves all documents of one kind, optionally narrowed to an
// owner id.
func (s *Store) ListByKind(ctx context.Context, kind models.Kind, owner uuid.UUID) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entities []models.Entity
	for _, e := range s.docs {
		if e.Kind() != kind {
			continue
		}
		if owner != uuid.Nil && models.Owner(e) != owner {
			continue
		}
		detached, err := models.CloneDocument(e)
		if err != nil {
			return nil, err
		}
		entities = append(entities, detached)
	}
	return entities, nil
}

// ListAll retrieves every document in the store.
func (s *Store) ListAll(ctx context.Context) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entities := make([]models.Entity, 0, len(s.docs))
	for _, e := range s.docs {
		detached, err := models.CloneDocument(e)
		if err != nil {
			return nil, err
		}
		entities = append(entities, detached)
	}
	return entities, nil
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }
