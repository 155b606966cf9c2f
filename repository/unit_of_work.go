package repository

import (
	"context"
	"fmt"
	"sync"
)

// UnitOfWork stages mutations and applies them together.
type UnitOfWork interface {
	// Commit applies every staged mutation, all or nothing.
	Commit(ctx context.Context) error

	// Rollback discards the staged mutations.
	Rollback() error
}

type mutationKind int

const (
	stageAdd mutationKind = iota
	stageUpdate
	stageRemove
)

type mutation[ID comparable, T any] struct {
	kind   mutationKind
	id     ID
	entity T
}

// MemoryUnitOfWork stages add, update and remove mutations against an
// InMemoryRepository. Nothing touches the repository until Commit, which
// applies the staged mutations in order, all of them or none when any
// would fail.
type MemoryUnitOfWork[ID comparable, T any] struct {
	mu        sync.Mutex
	repo      *InMemoryRepository[ID, T]
	staged    []mutation[ID, T]
	committed bool
}

// NewMemoryUnitOfWork creates a unit of work over a repository.
func NewMemoryUnitOfWork[ID comparable, T any](repo *InMemoryRepository[ID, T]) *MemoryUnitOfWork[ID, T] {
	return &MemoryUnitOfWork[ID, T]{repo: repo}
}

// Add stages a new entity.
func (u *MemoryUnitOfWork[ID, T]) Add(id ID, entity T) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged = append(u.staged, mutation[ID, T]{kind: stageAdd, id: id, entity: entity})
}

// Update stages a replacement for an existing entity.
func (u *MemoryUnitOfWork[ID, T]) Update(id ID, entity T) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged = append(u.staged, mutation[ID, T]{kind: stageUpdate, id: id, entity: entity})
}

// Remove stages the removal of an entity.
func (u *MemoryUnitOfWork[ID, T]) Remove(id ID) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.staged = append(u.staged, mutation[ID, T]{kind: stageRemove, id: id})
}

// Pending returns the number of staged mutations.
func (u *MemoryUnitOfWork[ID, T]) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.staged)
}

// Commit applies the staged mutations in order. When any mutation
// would fail the repository is left untouched and the error names the
// offending mutation.
func (u *MemoryUnitOfWork[ID, T]) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.committed {
		return fmt.Errorf("unit of work already committed")
	}

	repo := u.repo
	repo.mu.Lock()
	defer repo.mu.Unlock()

	entities, order := repo.snapshot()
	for _, m := range u.staged {
		switch m.kind {
		case stageAdd:
			if _, exists := entities[m.id]; exists {
				return fmt.Errorf("commit add %v: %w", m.id, ErrDuplicateID)
			}
			entities[m.id] = m.entity
			order = append(order, m.id)
		case stageUpdate:
			if _, exists := entities[m.id]; !exists {
				return fmt.Errorf("commit update %v: %w", m.id, ErrNotFound)
			}
			entities[m.id] = m.entity
		case stageRemove:
			if _, exists := entities[m.id]; !exists {
				return fmt.Errorf("commit remove %v: %w", m.id, ErrNotFound)
			}
			delete(entities, m.id)
			for i, existing := range order {
				if existing == m.id {
					order = append(order[:i], order[i+1:]...)
					break
				}
			}
		}
	}

	repo.entities = entities
	repo.order = order
	u.staged = nil
	u.committed = true
	return nil
}

// Rollback discards the staged mutations. Rolling back an already
// empty unit of work is a no-op; rolling back after a commit is an
// error.
func (u *MemoryUnitOfWork[ID, T]) Rollback() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.committed {
		return fmt.Errorf("unit of work already committed")
	}

	u.staged = nil
	return nil
}

// Execute runs fn against a unit of work, committing on success and
// rolling back when fn returns an error or panics. Panics are rolled
// back and re-raised.
func Execute[U UnitOfWork](ctx context.Context, uow U, fn func(U) error) error {
	defer func() {
		if r := recover(); r != nil {
			uow.Rollback()
			panic(r)
		}
	}()

	if err := fn(uow); err != nil {
		if rollbackErr := uow.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rollbackErr)
		}
		return err
	}

	return uow.Commit(ctx)
}
