package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glimte/busmate-go/contracts"
)

// MessageBus routes messages to the handlers registered for their type tag.
// Dispatch is a synchronous broadcast: every registered handler runs in
// registration order on the caller's goroutine, and the first handler error
// aborts the rest. The bus owns one HandlerRegistry; several buses may
// share a registry by passing it via WithRegistry.
type MessageBus struct {
	registry       *HandlerRegistry
	logger         *slog.Logger
	middleware     []MiddlewareFunc
	allowUnhandled bool
}

// BusOption configures the MessageBus
type BusOption func(*MessageBus)

// WithBusLogger sets the logger
func WithBusLogger(logger *slog.Logger) BusOption {
	return func(b *MessageBus) {
		b.logger = logger
	}
}

// WithMiddleware adds middleware wrapping every handler invocation
func WithMiddleware(middleware ...MiddlewareFunc) BusOption {
	return func(b *MessageBus) {
		b.middleware = append(b.middleware, middleware...)
	}
}

// WithAllowUnhandled controls the policy for messages whose type has no
// registered handlers. The default (false) treats an unrouted message as a
// configuration bug and Dispatch returns NoHandlersFoundError; with true
// the message is dropped with a debug log.
func WithAllowUnhandled(allow bool) BusOption {
	return func(b *MessageBus) {
		b.allowUnhandled = allow
	}
}

// WithRegistry sets the handler registry, allowing buses to share one
func WithRegistry(registry *HandlerRegistry) BusOption {
	return func(b *MessageBus) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// NewMessageBus creates a new message bus
func NewMessageBus(options ...BusOption) *MessageBus {
	b := &MessageBus{
		registry: NewHandlerRegistry(),
		logger:   slog.Default(),
	}

	for _, opt := range options {
		opt(b)
	}

	return b
}

// Registry returns the bus's handler registry
func (b *MessageBus) Registry() *HandlerRegistry {
	return b.registry
}

// Register registers handlers for a message type
func (b *MessageBus) Register(messageType string, handlers ...MessageHandler) error {
	if err := b.registry.Add(messageType, handlers...); err != nil {
		return err
	}

	b.logger.Info("registered message handler",
		"messageType", messageType,
		"handlerCount", len(handlers),
	)
	return nil
}

// RegisterFunc registers a function as a handler for a message type
func (b *MessageBus) RegisterFunc(messageType string, handler MessageHandlerFunc) error {
	return b.Register(messageType, handler)
}

// Unregister removes a handler for a message type. Returns false if the
// handler was not registered.
func (b *MessageBus) Unregister(messageType string, handler MessageHandler) bool {
	removed := b.registry.Remove(messageType, handler)
	if removed {
		b.logger.Info("unregistered message handler", "messageType", messageType)
	}
	return removed
}

// Dispatch sends a message to all handlers registered for its type tag, in
// registration order. The first handler error aborts the remaining handlers
// and is returned to the caller unchanged; the bus never wraps handler
// errors. With no handlers registered Dispatch returns NoHandlersFoundError
// unless the bus was built with WithAllowUnhandled(true).
func (b *MessageBus) Dispatch(ctx context.Context, msg contracts.Message) error {
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

	for _, registered := range handlers {
		handler := wrapMiddleware(b.middleware, registered)

		if err := handler.Handle(ctx, msg); err != nil {
			b.logger.Error("handler failed",
				"messageType", messageType,
				"messageId", msg.GetID(),
				"error", err,
			)
			return err
		}
	}

	b.logger.Debug("message dispatched",
		"messageType", messageType,
		"messageId", msg.GetID(),
		"handlerCount", len(handlers),
	)

	return nil
}

// Handle implements MessageHandler by dispatching on this bus. Registering
// one bus as a handler on another forwards messages across buses.
func (b *MessageBus) Handle(ctx context.Context, msg contracts.Message) error {
	return b.Dispatch(ctx, msg)
}
