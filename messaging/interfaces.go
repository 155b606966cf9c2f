package messaging

import (
	"context"

	"github.com/glimte/busmate-go/contracts"
)

// MessageHandler processes a specific message type
type MessageHandler interface {
	Handle(ctx context.Context, msg contracts.Message) error
}

// MessageHandlerFunc is a function adapter for MessageHandler
type MessageHandlerFunc func(ctx context.Context, msg contracts.Message) error

// Handle implements MessageHandler
func (f MessageHandlerFunc) Handle(ctx context.Context, msg contracts.Message) error {
	return f(ctx, msg)
}

// Dispatcher routes a message to the handlers registered for its type tag.
// MessageBus and ConcurrentBus both implement it.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg contracts.Message) error
}
