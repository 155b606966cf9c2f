package messaging

import (
	"context"

	"github.com/glimte/busmate-go/contracts"
)

// ChainFunc is one stage of an explicit handler pipeline. The stage decides
// whether to invoke next; returning without calling next stops the rest of
// the chain.
type ChainFunc func(ctx context.Context, msg contracts.Message, next MessageHandler) error

// terminal ends every chain: it accepts the message and does nothing.
var terminal MessageHandler = MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
	return nil
})

// Chain composes stages into a single handler. The first stage receives a
// successor representing the remaining stages; the last stage's successor is
// a no-op pass-through. The composition is stateless and evaluated once per
// invocation. Chain is distinct from bus dispatch: the pipeline runs only
// when invoked, though it may itself be registered as a handler.
//
// Chain with no stages returns the no-op handler.
func Chain(stages ...ChainFunc) MessageHandler {
	next := terminal
	for i := len(stages) - 1; i >= 0; i-- {
		stage := stages[i]
		successor := next
		next = MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			return stage(ctx, msg, successor)
		})
	}
	return next
}

// Stage adapts a plain handler into a chain stage that runs the handler
// and, when it succeeds, continues with the rest of the chain.
func Stage(handler MessageHandler) ChainFunc {
	return func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
		if err := handler.Handle(ctx, msg); err != nil {
			return err
		}
		return next.Handle(ctx, msg)
	}
}

// StageFunc adapts a plain handler function into a chain stage
func StageFunc(handler MessageHandlerFunc) ChainFunc {
	return Stage(handler)
}

// MiddlewareFunc processes messages before they reach handlers
type MiddlewareFunc func(ctx context.Context, msg contracts.Message, next MessageHandler) error

// wrapMiddleware builds the middleware execution chain around a handler,
// in reverse order so the first middleware runs outermost.
func wrapMiddleware(middleware []MiddlewareFunc, handler MessageHandler) MessageHandler {
	if len(middleware) == 0 {
		return handler
	}

	result := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := result
		result = MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			return mw(ctx, msg, next)
		})
	}

	return result
}
