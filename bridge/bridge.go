package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/glimte/busmate-go/contracts"
	"github.com/glimte/busmate-go/messaging"
	"github.com/google/uuid"
)

// Bus is the dispatch surface the requester needs: handler registration plus
// synchronous dispatch. *messaging.MessageBus satisfies it.
type Bus interface {
	Register(messageType string, handlers ...messaging.MessageHandler) error
	Unregister(messageType string, handler messaging.MessageHandler) bool
	Dispatch(ctx context.Context, msg contracts.Message) error
}

// Requestable is a message that names a reply route. Commands and queries
// built on contracts.BaseCommand or contracts.BaseQuery both qualify.
type Requestable interface {
	contracts.Message
	GetReplyTo() string
}

// Requester turns a dispatch into a synchronous request-reply call. It
// registers a one-shot handler under the request's replyTo tag, dispatches
// the request, and returns the reply that came back correlated with it.
// Because dispatch delivers every message on the caller's goroutine, the
// reply is captured before Request returns; there is nothing to wait on.
type Requester struct {
	bus    Bus
	logger *slog.Logger
}

// RequesterOption configures the Requester
type RequesterOption func(*Requester)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) RequesterOption {
	return func(r *Requester) {
		r.logger = logger
	}
}

// NewRequester creates a requester on the given bus
func NewRequester(bus Bus, options ...RequesterOption) (*Requester, error) {
	if bus == nil {
		return nil, fmt.Errorf("bus cannot be nil")
	}

	r := &Requester{
		bus:    bus,
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(r)
	}

	return r, nil
}

// Request dispatches req and returns the reply sent back under its replyTo
// tag. A request without a correlation ID is stamped with a fresh one before
// dispatch; a caller-supplied correlation ID is kept. The reply handler is
// registered only for the duration of the call, and replies correlated with
// other requests on the same tag are left for their own requesters.
//
// Handler errors from the dispatch pass through unchanged. A dispatch that
// succeeds without any handler sending a correlated reply is an error.
func (r *Requester) Request(ctx context.Context, req Requestable) (contracts.Reply, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	replyTo := req.GetReplyTo()
	if replyTo == "" {
		return nil, fmt.Errorf("request %q has no replyTo tag", req.GetType())
	}

	if req.GetCorrelationID() == "" {
		req.SetCorrelationID(uuid.New().String())
	}
	correlationID := req.GetCorrelationID()

	capture := &replyCapture{correlationID: correlationID}
	if err := r.bus.Register(replyTo, capture); err != nil {
		return nil, fmt.Errorf("failed to register reply handler: %w", err)
	}
	defer r.bus.Unregister(replyTo, capture)

	r.logger.Debug("sending request",
		"messageType", req.GetType(),
		"replyTo", replyTo,
		"correlationId", correlationID,
	)

	if err := r.bus.Dispatch(ctx, req); err != nil {
		return nil, err
	}

	reply := capture.captured()
	if reply == nil {
		return nil, fmt.Errorf("no reply received for %s (correlation %s)", req.GetType(), correlationID)
	}

	r.logger.Debug("captured reply",
		"messageType", req.GetType(),
		"replyType", reply.GetType(),
		"correlationId", correlationID,
	)
	return reply, nil
}

// replyCapture is a one-shot reply handler. Every Request registers its own
// instance, so handler identity keeps concurrent requests on the same reply
// tag apart and Unregister removes exactly this capture.
type replyCapture struct {
	correlationID string

	mu    sync.Mutex
	reply contracts.Reply
}

// Handle implements messaging.MessageHandler. Messages that are not replies,
// or that are correlated with a different request, are ignored rather than
// failing the dispatch that delivered them.
func (c *replyCapture) Handle(ctx context.Context, msg contracts.Message) error {
	reply, ok := msg.(contracts.Reply)
	if !ok || msg.GetCorrelationID() != c.correlationID {
		return nil
	}

	c.mu.Lock()
	if c.reply == nil {
		c.reply = reply
	}
	c.mu.Unlock()
	return nil
}

func (c *replyCapture) captured() contracts.Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reply
}
