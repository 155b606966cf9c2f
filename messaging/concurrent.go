package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glimte/busmate-go/contracts"
	"golang.org/x/sync/errgroup"
)

// ConcurrentBus runs the handlers registered for a message type in parallel
// instead of the sequential broadcast MessageBus performs. It is an explicit
// opt-in: there is no ordering guarantee between handlers, Dispatch returns
// the first handler error, and the remaining handlers observe a cancelled
// context. Handlers invoked through a ConcurrentBus must be safe for
// concurrent use.
type ConcurrentBus struct {
	registry       *HandlerRegistry
	logger         *slog.Logger
	limit          int
	allowUnhandled bool
}

// ConcurrentBusOption configures the ConcurrentBus
type ConcurrentBusOption func(*ConcurrentBus)

// WithConcurrencyLimit caps the number of handlers running at once
// (0 = unlimited)
func WithConcurrencyLimit(limit int) ConcurrentBusOption {
	return func(b *ConcurrentBus) {
		b.limit = limit
	}
}

// WithConcurrentBusLogger sets the logger
func WithConcurrentBusLogger(logger *slog.Logger) ConcurrentBusOption {
	return func(b *ConcurrentBus) {
		b.logger = logger
	}
}

// WithConcurrentAllowUnhandled controls the no-handler policy, matching
// WithAllowUnhandled on MessageBus.
func WithConcurrentAllowUnhandled(allow bool) ConcurrentBusOption {
	return func(b *ConcurrentBus) {
		b.allowUnhandled = allow
	}
}

// NewConcurrentBus creates a concurrent bus over the given registry. A nil
// registry gets a fresh one; passing a registry shared with a MessageBus
// lets callers pick dispatch semantics per call site.
func NewConcurrentBus(registry *HandlerRegistry, options ...ConcurrentBusOption) *ConcurrentBus {
	b := &ConcurrentBus{
		registry: registry,
		logger:   slog.Default(),
	}
	if b.registry == nil {
		b.registry = NewHandlerRegistry()
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// Registry returns the bus's handler registry
func (b *ConcurrentBus) Registry() *HandlerRegistry {
	return b.registry
}

// Dispatch runs every handler registered for the message's type tag in
// parallel and waits for all of them. The first error is returned unchanged;
// once a handler fails the context passed to the others is cancelled.
func (b *ConcurrentBus) Dispatch(ctx context.Context, msg contracts.Message) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	messageType := msg.GetType()
	if messageType == "" {
		return fmt.Errorf("message type cannot be empty")
	}

	handlers := b.registry.Get(messageType)
	if len(handlers) == 0 {
		if b.allowUnhandled {
			b.logger.Debug("no handlers registered, message dropped",
				"messageType", messageType,
				"messageId", msg.GetID(),
			)
			return nil
		}
		b.logger.Warn("no handlers registered for message type", "messageType", messageType)
		return &contracts.NoHandlersFoundError{MessageType: messageType}
	}

	g, gctx := errgroup.WithContext(ctx)
	if b.limit > 0 {
		g.SetLimit(b.limit)
	}

	for _, handler := range handlers {
		handler := handler
		g.Go(func() error {
			return handler.Handle(gctx, msg)
		})
	}

	if err := g.Wait(); err != nil {
		b.logger.Error("handler failed",
			"messageType", messageType,
			"messageId", msg.GetID(),
			"error", err,
		)
		return err
	}

	b.logger.Debug("message dispatched",
		"messageType", messageType,
		"messageId", msg.GetID(),
		"handlerCount", len(handlers),
	)

	return nil
}

// Handle implements MessageHandler by dispatching on this bus
func (b *ConcurrentBus) Handle(ctx context.Context, msg contracts.Message) error {
	return b.Dispatch(ctx, msg)
}
