// Package singleton provides a small container for lazily constructed
// shared instances.
//
// A Lazy[T] builds its value on first use and hands the same instance
// to every caller afterwards. Reset discards the instance so the next
// Get constructs a fresh one, which keeps tests that share package
// state independent:
//
//	var store = singleton.NewLazy(func() *Cache { return NewCache() })
//
//	func lookup(key string) (string, bool) {
//	    return store.Get().Lookup(key)
//	}
package singleton

import "sync"

// Lazy holds one shared instance of T, constructed on first Get.
type Lazy[T any] struct {
	mu       sync.Mutex
	newFn    func() T
	instance T
	built    bool
}

// NewLazy creates a container that builds its instance with newFn.
// The constructor must not be nil.
func NewLazy[T any](newFn func() T) *Lazy[T] {
	if newFn == nil {
		panic("singleton: constructor cannot be nil")
	}
	return &Lazy[T]{newFn: newFn}
}

// Get returns the shared instance, constructing it on the first call.
// Concurrent callers all receive the same instance.
func (l *Lazy[T]) Get() T {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.built {
		l.instance = l.newFn()
		l.built = true
	}
	return l.instance
}

// Reset discards the current instance. The next Get constructs a new
// one.
func (l *Lazy[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	var zero T
	l.instance = zero
	l.built = false
}
