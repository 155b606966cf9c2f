// Package messaging provides the in-process dispatch core for the busmate
// framework.
//
// This package implements the primary dispatch patterns:
//   - HandlerRegistry: Ordered, idempotent handler registration keyed by
//     message type tag
//   - MessageBus: Synchronous broadcast dispatch with fail-fast error
//     propagation and middleware support
//   - ConcurrentBus: Opt-in parallel dispatch over the same registry
//   - Chain: Explicit sequential handler composition with opt-in
//     continuation
//   - Handler interfaces: Type-safe handlers for Commands, Events, Queries,
//     and Replies
//
// Key behaviors:
//   - Routing is by the explicit type tag a message carries (GetType), not
//     by runtime reflection
//   - Dispatch invokes every handler registered for the tag, in
//     registration order; the first handler error aborts the rest and is
//     returned to the caller unchanged
//   - Dispatching a tag with no handlers returns NoHandlersFoundError
//     unless the bus allows unhandled messages
//   - A bus is itself a MessageHandler, so registering bus B on bus A
//     forwards messages across buses
//
// Example usage:
//
//	// Create a bus and register handlers
//	bus := messaging.NewMessageBus()
//	err := bus.RegisterFunc("UserCreated", func(ctx context.Context, msg contracts.Message) error {
//		// Handle the message
//		return nil
//	})
//
//	// Dispatch a message
//	evt := &UserCreated{BaseMessage: contracts.NewBaseMessage("UserCreated")}
//	err = bus.Dispatch(ctx, evt)
//
//	// Compose a pipeline and register it as a single handler
//	pipeline := messaging.Chain(validateStage, logStage, messaging.Stage(storeHandler))
//	err = bus.Register("OrderPlaced", pipeline)
//
// The messaging package integrates with the interceptors package to provide
// cross-cutting concerns like logging, metrics, and validation.
package messaging
