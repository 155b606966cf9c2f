// Package repository provides a generic in-memory entity store and a
// unit of work for applying staged mutations atomically.
//
// A Repository holds entities addressed by a comparable id and lists
// them in insertion order. The MemoryUnitOfWork stages add, update and
// remove mutations and applies them on Commit, all of them or none when
// any would conflict. Execute wires the two together with
// commit-on-success, rollback-on-error semantics:
//
//	repo := repository.NewInMemoryRepository[string, Order]()
//	uow := repository.NewMemoryUnitOfWork(repo)
//
//	err := repository.Execute(ctx, uow, func(u *repository.MemoryUnitOfWork[string, Order]) error {
//	    u.Add("ORD-1", order)
//	    u.Update("ORD-2", amended)
//	    return nil
//	})
//
// Handlers use repositories as their state store when reacting to
// dispatched messages; the greeting example keeps one per recipient.
package repository
