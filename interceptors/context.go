package interceptors

import (
	"context"
	"sync"

	"github.com/glimte/busmate-go/contracts"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

// interceptorContextKey carries the shared InterceptorContext through a
// dispatch
const interceptorContextKey contextKey = "busmate:interceptor:context"

// InterceptorContext holds values shared between the interceptors of one
// dispatch. It rides in the context.Context, so later interceptors and the
// handlers themselves see the same instance.
type InterceptorContext struct {
	values map[string]interface{}
	mu     sync.RWMutex
}

// NewInterceptorContext creates an empty interceptor context
func NewInterceptorContext() *InterceptorContext {
	return &InterceptorContext{
		values: make(map[string]interface{}),
	}
}

// Set stores a value under key
func (ic *InterceptorContext) Set(key string, value interface{}) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.values[key] = value
}

// Get retrieves the value stored under key
func (ic *InterceptorContext) Get(key string) (interface{}, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	value, exists := ic.values[key]
	return value, exists
}

// GetString retrieves a string value. Returns false if the key is absent
// or holds a non-string.
func (ic *InterceptorContext) GetString(key string) (string, bool) {
	value, exists := ic.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt retrieves an int value. Returns false if the key is absent or
// holds a non-int.
func (ic *InterceptorContext) GetInt(key string) (int, bool) {
	value, exists := ic.Get(key)
	if !exists {
		return 0, false
	}
	i, ok := value.(int)
	return i, ok
}

// Delete removes the value stored under key
func (ic *InterceptorContext) Delete(key string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.values, key)
}

// Clear removes all values
func (ic *InterceptorContext) Clear() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.values = make(map[string]interface{})
}

// Copy creates an independent copy of the interceptor context
func (ic *InterceptorContext) Copy() *InterceptorContext {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	copied := NewInterceptorContext()
	for k, v := range ic.values {
		copied.values[k] = v
	}
	return copied
}

// GetInterceptorContext retrieves the interceptor context from ctx
func GetInterceptorContext(ctx context.Context) (*InterceptorContext, bool) {
	value := ctx.Value(interceptorContextKey)
	if value == nil {
		return nil, false
	}
	ic, ok := value.(*InterceptorContext)
	return ic, ok
}

// WithInterceptorContext returns a context carrying ic
func WithInterceptorContext(ctx context.Context, ic *InterceptorContext) context.Context {
	return context.WithValue(ctx, interceptorContextKey, ic)
}

// EnsureInterceptorContext returns ctx's interceptor context, creating and
// attaching one if none is present.
func EnsureInterceptorContext(ctx context.Context) (context.Context, *InterceptorContext) {
	ic, exists := GetInterceptorContext(ctx)
	if !exists {
		ic = NewInterceptorContext()
		ctx = WithInterceptorContext(ctx, ic)
	}
	return ctx, ic
}

// ContextEnrichmentInterceptor attaches an interceptor context to the
// dispatch and lets an enricher populate it from the message before the
// rest of the chain runs.
type ContextEnrichmentInterceptor struct {
	enricher ContextEnricher
}

// ContextEnricher populates the interceptor context from a message
type ContextEnricher interface {
	Enrich(ctx context.Context, ic *InterceptorContext, msg contracts.Message) error
}

// ContextEnricherFunc is a function adapter for ContextEnricher
type ContextEnricherFunc func(ctx context.Context, ic *InterceptorContext, msg contracts.Message) error

// Enrich implements ContextEnricher
func (f ContextEnricherFunc) Enrich(ctx context.Context, ic *InterceptorContext, msg contracts.Message) error {
	return f(ctx, ic, msg)
}

// NewContextEnrichmentInterceptor creates a new context enrichment interceptor
func NewContextEnrichmentInterceptor(enricher ContextEnricher) *ContextEnrichmentInterceptor {
	return &ContextEnrichmentInterceptor{enricher: enricher}
}

// Intercept implements Interceptor
func (i *ContextEnrichmentInterceptor) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error {
	ctx, ic := EnsureInterceptorContext(ctx)

	if err := i.enricher.Enrich(ctx, ic, msg); err != nil {
		return err
	}

	return next.Handle(ctx, msg)
}

// Name implements Interceptor
func (i *ContextEnrichmentInterceptor) Name() string {
	return "ContextEnrichmentInterceptor"
}
