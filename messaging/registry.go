package messaging

import (
	"fmt"
	"reflect"
	"sync"
)

// HandlerRegistry maps message type tags to ordered handler sequences.
// It is safe for concurrent use; the zero value is not usable, construct
// with NewHandlerRegistry.
type HandlerRegistry struct {
	handlers map[string][]MessageHandler
	mu       sync.RWMutex
}

// NewHandlerRegistry creates an empty handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]MessageHandler),
	}
}

// Add registers handlers for messageType, appending in argument order.
// Registering a (type, handler) pair that is already present is a silent
// no-op, so Add is idempotent. Returns an error on an empty type tag or a
// nil handler; in that case nothing is registered.
func (r *HandlerRegistry) Add(messageType string, handlers ...MessageHandler) error {
	if messageType == "" {
		return fmt.Errorf("messageType cannot be empty")
	}
	for _, handler := range handlers {
		if handler == nil {
			return fmt.Errorf("handler cannot be nil")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, handler := range handlers {
		if r.containsLocked(messageType, handler) {
			continue
		}
		r.handlers[messageType] = append(r.handlers[messageType], handler)
	}

	return nil
}

// Remove removes the handler registered for messageType, preserving the
// order of the remaining handlers. Returns false if the handler was not
// registered for that type.
func (r *HandlerRegistry) Remove(messageType string, handler MessageHandler) bool {
	if handler == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := r.handlers[messageType]
	for i, existing := range handlers {
		if sameHandler(existing, handler) {
			r.handlers[messageType] = append(handlers[:i], handlers[i+1:]...)
			if len(r.handlers[messageType]) == 0 {
				delete(r.handlers, messageType)
			}
			return true
		}
	}

	return false
}

// RemoveAll removes every handler registered for messageType and returns
// them in registration order. Returns nil if none were registered.
func (r *HandlerRegistry) RemoveAll(messageType string) []MessageHandler {
	r.mu.Lock()
	defer r.mu.Unlock()

	handlers := r.handlers[messageType]
	delete(r.handlers, messageType)
	return handlers
}

// Get returns the handlers registered for messageType in registration
// order. Returns nil if none are registered. The returned slice is a copy;
// mutating it does not affect the registry.
func (r *HandlerRegistry) Get(messageType string) []MessageHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handlers, exists := r.handlers[messageType]
	if !exists {
		return nil
	}

	result := make([]MessageHandler, len(handlers))
	copy(result, handlers)
	return result
}

// Contains reports whether handler is registered for messageType
func (r *HandlerRegistry) Contains(messageType string, handler MessageHandler) bool {
	if handler == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.containsLocked(messageType, handler)
}

// Clear removes all registrations
func (r *HandlerRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = make(map[string][]MessageHandler)
}

// Len returns the total number of registrations across all types
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, handlers := range r.handlers {
		n += len(handlers)
	}
	return n
}

// Types returns all message types with at least one registered handler,
// in no particular order.
func (r *HandlerRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.handlers))
	for messageType := range r.handlers {
		types = append(types, messageType)
	}
	return types
}

func (r *HandlerRegistry) containsLocked(messageType string, handler MessageHandler) bool {
	for _, existing := range r.handlers[messageType] {
		if sameHandler(existing, handler) {
			return true
		}
	}
	return false
}

// sameHandler reports whether two handlers are the same registration.
// Handlers of comparable types (pointers, comparable structs) compare by
// interface equality. Function handlers compare by code pointer, so two
// closures built from the same function literal count as the same handler.
// Handlers of uncomparable non-func types never match.
func sameHandler(a, b MessageHandler) bool {
	if a == nil || b == nil {
		return a == b
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Kind() == reflect.Func || vb.Kind() == reflect.Func {
		return va.Kind() == reflect.Func && vb.Kind() == reflect.Func && va.Pointer() == vb.Pointer()
	}
	if va.Type() != vb.Type() || !va.Type().Comparable() {
		return false
	}
	return a == b
}
