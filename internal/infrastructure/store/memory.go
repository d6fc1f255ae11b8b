package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/pharmalink/backend/internal/domain/shared"
)

// MemoryStore implements shared.KeyedStore in process memory.
// Each namespace owns its own container, so listing never scans other kinds.
// Entities are held in encoded form; every read decodes a fresh copy.
type MemoryStore[T shared.Entity] struct {
	namespace string
	codec     codec[T]

	mu    sync.RWMutex
	ids   []string
	items map[string][]byte
}

// NewMemoryStore creates an empty memory store for a namespace.
// newEntity must return a fresh, zero-valued entity to decode into.
func NewMemoryStore[T shared.Entity](namespace string, newEntity func() T) *MemoryStore[T] {
	return &MemoryStore[T]{
		namespace: namespace,
		codec:     codec[T]{newEntity: newEntity},
		items:     make(map[string][]byte),
	}
}

// Get returns the entity stored under id, active or not
func (s *MemoryStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	data, ok := s.items[id]
	s.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false, nil
	}
	entity, err := s.codec.decode(data)
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

// GetAll returns every active entity in insertion order
func (s *MemoryStore[T]) GetAll(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.ids))
	for _, id := range s.ids {
		entity, err := s.codec.decode(s.items[id])
		if err != nil {
			return nil, err
		}
		if entity.IsActive() {
			result = append(result, entity)
		}
	}
	return result, nil
}

// Insert stores a new entity, assigning an id when it has none
func (s *MemoryStore[T]) Insert(ctx context.Context, entity T) (T, error) {
	var zero T
	prepareInsert(entity, clock())

	data, err := s.codec.encode(entity)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := entity.GetID()
	if _, exists := s.items[id]; exists {
		return zero, fmt.Errorf("%w: %s", shared.ErrEntityAlreadyExists, Key(s.namespace, id))
	}
	s.items[id] = data
	s.ids = append(s.ids, id)
	return entity, nil
}

// Update overwrites the stored entity and bumps its update timestamp
func (s *MemoryStore[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	id := entity.GetID()
	if id == "" {
		return zero, fmt.Errorf("%w: update without id in %s", shared.ErrDbOperationFailure, s.namespace)
	}
	entity.Touch(clock(), false)

	data, err := s.codec.encode(entity)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.items[id] = data
	return entity, nil
}

// Delete soft deletes an active entity
func (s *MemoryStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrEntityNotFound, Key(s.namespace, id))
	}
	entity, err := s.codec.decode(data)
	if err != nil {
		return err
	}
	if !entity.IsActive() {
		return fmt.Errorf("%w: %s", shared.ErrEntityNotFound, Key(s.namespace, id))
	}

	entity.Deactivate()
	entity.Touch(clock(), false)
	data, err = s.codec.encode(entity)
	if err != nil {
		return err
	}
	s.items[id] = data
	return nil
}

// Len returns the number of stored entities including inactive ones
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

var _ shared.KeyedStore[shared.Entity] = (*MemoryStore[shared.Entity])(nil)
