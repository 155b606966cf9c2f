package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/glimte/busmate-go/contracts"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	recordingStage := func(order *[]string, name string) ChainFunc {
		return func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			*order = append(*order, name)
			return next.Handle(ctx, msg)
		}
	}

	t.Run("Chain invokes stages in order", func(t *testing.T) {
		var order []string

		pipeline := Chain(
			recordingStage(&order, "a"),
			recordingStage(&order, "b"),
			recordingStage(&order, "c"),
		)

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, order)
	})

	t.Run("stage that skips its successor stops the chain", func(t *testing.T) {
		var order []string

		first := func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			order = append(order, "a")
			return nil
		}

		pipeline := Chain(first, recordingStage(&order, "b"), recordingStage(&order, "c"))

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"a"}, order)
	})

	t.Run("last stage gets a no-op successor", func(t *testing.T) {
		var order []string

		pipeline := Chain(recordingStage(&order, "only"))

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"only"}, order)
	})

	t.Run("Chain with no stages is a no-op handler", func(t *testing.T) {
		pipeline := Chain()

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
	})

	t.Run("stage error propagates to caller", func(t *testing.T) {
		stageErr := errors.New("stage failed")
		var reached bool

		failing := func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			return stageErr
		}
		after := func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			reached = true
			return next.Handle(ctx, msg)
		}

		pipeline := Chain(failing, after)

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.Equal(t, stageErr, err)
		assert.False(t, reached)
	})

	t.Run("stage wraps pre and post processing", func(t *testing.T) {
		var order []string

		wrapping := func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			order = append(order, "before")
			err := next.Handle(ctx, msg)
			order = append(order, "after")
			return err
		}

		pipeline := Chain(wrapping, recordingStage(&order, "inner"))

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"before", "inner", "after"}, order)
	})

	t.Run("chained pipeline registers as a single handler", func(t *testing.T) {
		bus := NewMessageBus()
		var order []string

		pipeline := Chain(
			recordingStage(&order, "validate"),
			recordingStage(&order, "store"),
		)

		assert.NoError(t, bus.Register("TestEvent", pipeline))
		assert.Len(t, bus.Registry().Get("TestEvent"), 1)

		err := bus.Dispatch(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"validate", "store"}, order)
	})
}

func TestStage(t *testing.T) {
	t.Run("Stage runs handler then continues", func(t *testing.T) {
		var order []string

		handler := MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			order = append(order, "handler")
			return nil
		})
		tail := func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			order = append(order, "tail")
			return next.Handle(ctx, msg)
		}

		pipeline := Chain(Stage(handler), tail)

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.Equal(t, []string{"handler", "tail"}, order)
	})

	t.Run("Stage stops chain when handler fails", func(t *testing.T) {
		handlerErr := errors.New("handler failed")
		var reached bool

		handler := MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			return handlerErr
		})
		tail := func(ctx context.Context, msg contracts.Message, next MessageHandler) error {
			reached = true
			return next.Handle(ctx, msg)
		}

		pipeline := Chain(Stage(handler), tail)

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.Equal(t, handlerErr, err)
		assert.False(t, reached)
	})

	t.Run("StageFunc adapts a handler function", func(t *testing.T) {
		called := false

		pipeline := Chain(StageFunc(func(ctx context.Context, msg contracts.Message) error {
			called = true
			return nil
		}))

		err := pipeline.Handle(context.Background(), newTestEvent("chained"))

		assert.NoError(t, err)
		assert.True(t, called)
	})
}
