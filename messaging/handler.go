package messaging

import (
	"context"
	"fmt"

	"github.com/glimte/busmate-go/contracts"
)

// Specialized handler interfaces for different message types

// CommandHandler handles command messages
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd contracts.Command) error
}

// EventHandler handles event messages
type EventHandler interface {
	HandleEvent(ctx context.Context, event contracts.Event) error
}

// QueryHandler handles query messages and returns responses
type QueryHandler interface {
	HandleQuery(ctx context.Context, query contracts.Query) (contracts.Reply, error)
}

// ReplyHandler handles reply messages
type ReplyHandler interface {
	HandleReply(ctx context.Context, reply contracts.Reply) error
}

// Handler adapters that implement MessageHandler interface

// CommandHandlerAdapter adapts CommandHandler to MessageHandler
type CommandHandlerAdapter struct {
	handler CommandHandler
}

// NewCommandHandlerAdapter creates a new command handler adapter
func NewCommandHandlerAdapter(handler CommandHandler) *CommandHandlerAdapter {
	return &CommandHandlerAdapter{handler: handler}
}

// Handle implements MessageHandler
func (a *CommandHandlerAdapter) Handle(ctx context.Context, msg contracts.Message) error {
	cmd, ok := msg.(contracts.Command)
	if !ok {
		return fmt.Errorf("expected Command, got %T", msg)
	}
	return a.handler.HandleCommand(ctx, cmd)
}

// EventHandlerAdapter adapts EventHandler to MessageHandler
type EventHandlerAdapter struct {
	handler EventHandler
}

// NewEventHandlerAdapter creates a new event handler adapter
func NewEventHandlerAdapter(handler EventHandler) *EventHandlerAdapter {
	return &EventHandlerAdapter{handler: handler}
}

// Handle implements MessageHandler
func (a *EventHandlerAdapter) Handle(ctx context.Context, msg contracts.Message) error {
	event, ok := msg.(contracts.Event)
	if !ok {
		return fmt.Errorf("expected Event, got %T", msg)
	}
	return a.handler.HandleEvent(ctx, event)
}

// QueryHandlerAdapter adapts QueryHandler to MessageHandler. Replies are
// dispatched on the adapter's bus under the query's ReplyTo tag with the
// query's correlation ID, so a reply handler registered under that tag
// receives them within the same dispatch call stack.
type QueryHandlerAdapter struct {
	handler QueryHandler
	bus     Dispatcher
}

// NewQueryHandlerAdapter creates a new query handler adapter
func NewQueryHandlerAdapter(handler QueryHandler, bus Dispatcher) *QueryHandlerAdapter {
	return &QueryHandlerAdapter{
		handler: handler,
		bus:     bus,
	}
}

// Handle implements MessageHandler
func (a *QueryHandlerAdapter) Handle(ctx context.Context, msg contracts.Message) error {
	query, ok := msg.(contracts.Query)
	if !ok {
		return fmt.Errorf("expected Query, got %T", msg)
	}

	reply, err := a.handler.HandleQuery(ctx, query)
	if err != nil {
		if a.bus != nil && query.GetReplyTo() != "" {
			errorReply := contracts.NewErrorReply(
				query.GetReplyTo(),
				query.GetCorrelationID(),
				"QUERY_HANDLER_ERROR",
				err.Error(),
			)
			return a.bus.Dispatch(ctx, errorReply)
		}
		return err
	}

	if reply != nil && a.bus != nil && query.GetReplyTo() != "" {
		reply.SetCorrelationID(query.GetCorrelationID())
		return a.bus.Dispatch(ctx, reply)
	}

	return nil
}

// ReplyHandlerAdapter adapts ReplyHandler to MessageHandler
type ReplyHandlerAdapter struct {
	handler ReplyHandler
}

// NewReplyHandlerAdapter creates a new reply handler adapter
func NewReplyHandlerAdapter(handler ReplyHandler) *ReplyHandlerAdapter {
	return &ReplyHandlerAdapter{handler: handler}
}

// Handle implements MessageHandler
func (a *ReplyHandlerAdapter) Handle(ctx context.Context, msg contracts.Message) error {
	reply, ok := msg.(contracts.Reply)
	if !ok {
		return fmt.Errorf("expected Reply, got %T", msg)
	}
	return a.handler.HandleReply(ctx, reply)
}

// Function-based handlers

// CommandHandlerFunc is a function adapter for CommandHandler
type CommandHandlerFunc func(ctx context.Context, cmd contracts.Command) error

// HandleCommand implements CommandHandler
func (f CommandHandlerFunc) HandleCommand(ctx context.Context, cmd contracts.Command) error {
	return f(ctx, cmd)
}

// EventHandlerFunc is a function adapter for EventHandler
type EventHandlerFunc func(ctx context.Context, event contracts.Event) error

// HandleEvent implements EventHandler
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event contracts.Event) error {
	return f(ctx, event)
}

// QueryHandlerFunc is a function adapter for QueryHandler
type QueryHandlerFunc func(ctx context.Context, query contracts.Query) (contracts.Reply, error)

// HandleQuery implements QueryHandler
func (f QueryHandlerFunc) HandleQuery(ctx context.Context, query contracts.Query) (contracts.Reply, error) {
	return f(ctx, query)
}

// ReplyHandlerFunc is a function adapter for ReplyHandler
type ReplyHandlerFunc func(ctx context.Context, reply contracts.Reply) error

// HandleReply implements ReplyHandler
func (f ReplyHandlerFunc) HandleReply(ctx context.Context, reply contracts.Reply) error {
	return f(ctx, reply)
}
