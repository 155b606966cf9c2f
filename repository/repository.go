package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned when no entity exists under an id.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateID is returned when adding an entity under a taken id.
	ErrDuplicateID = errors.New("duplicate entity id")
)

// Repository is a generic collection of entities addressed by id.
type Repository[ID comparable, T any] interface {
	// Add stores a new entity. Fails with ErrDuplicateID when the id
	// is taken.
	Add(ctx context.Context, id ID, entity T) error

	// Get returns the entity stored under id, or ErrNotFound.
	Get(ctx context.Context, id ID) (T, error)

	// Update replaces an existing entity, or fails with ErrNotFound.
	Update(ctx context.Context, id ID, entity T) error

	// Remove deletes an entity, or fails with ErrNotFound.
	Remove(ctx context.Context, id ID) error

	// List returns every entity in insertion order.
	List(ctx context.Context) ([]T, error)

	// Len returns the number of stored entities.
	Len(ctx context.Context) (int, error)
}

// InMemoryRepository is a map-backed Repository. It preserves
// insertion order for List and is safe for concurrent use.
type InMemoryRepository[ID comparable, T any] struct {
	mu       sync.RWMutex
	entities map[ID]T
	order    []ID
}

// NewInMemoryRepository creates an empty in-memory repository.
func NewInMemoryRepository[ID comparable, T any]() *InMemoryRepository[ID, T] {
	return &InMemoryRepository[ID, T]{
		entities: make(map[ID]T),
	}
}

// Add stores a new entity under id.
func (r *InMemoryRepository[ID, T]) Add(ctx context.Context, id ID, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateID, id)
	}

	r.entities[id] = entity
	r.order = append(r.order, id)
	return nil
}

// Get returns the entity stored under id.
func (r *InMemoryRepository[ID, T]) Get(ctx context.Context, id ID) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, exists := r.entities[id]
	if !exists {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	return entity, nil
}

// Update replaces the entity stored under id, keeping its position in
// insertion order.
func (r *InMemoryRepository[ID, T]) Update(ctx context.Context, id ID, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; !exists {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	r.entities[id] = entity
	return nil
}

// Remove deletes the entity stored under id.
func (r *InMemoryRepository[ID, T]) Remove(ctx context.Context, id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; !exists {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}

	delete(r.entities, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns every entity in the order it was added.
func (r *InMemoryRepository[ID, T]) List(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entities[id])
	}
	return result, nil
}

// Len returns the number of stored entities.
func (r *InMemoryRepository[ID, T]) Len(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities), nil
}

// snapshot captures the repository state for atomic apply.
func (r *InMemoryRepository[ID, T]) snapshot() (map[ID]T, []ID) {
	entities := make(map[ID]T, len(r.entities))
	for id, entity := range r.entities {
		entities[id] = entity
	}
	order := make([]ID, len(r.order))
	copy(order, r.order)
	return entities, order
}
