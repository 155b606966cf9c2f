package messaging

import (
	"context"
	"testing"

	"github.com/glimte/busmate-go/contracts"
	"github.com/stretchr/testify/assert"
)

// noopHandler instances compare by pointer, giving each its own
// registration identity.
type noopHandler struct {
	name string
}

func (h *noopHandler) Handle(ctx context.Context, msg contracts.Message) error {
	return nil
}

func namedHandler(ctx context.Context, msg contracts.Message) error {
	return nil
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("NewHandlerRegistry creates empty registry", func(t *testing.T) {
		registry := NewHandlerRegistry()

		assert.NotNil(t, registry)
		assert.Equal(t, 0, registry.Len())
		assert.Empty(t, registry.Types())
	})

	t.Run("Add registers handlers in order", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}
		h2 := &noopHandler{name: "h2"}
		h3 := &noopHandler{name: "h3"}

		assert.NoError(t, registry.Add("TestEvent", h1))
		assert.NoError(t, registry.Add("TestEvent", h2))
		assert.NoError(t, registry.Add("TestEvent", h3))

		got := registry.Get("TestEvent")
		assert.Equal(t, []MessageHandler{h1, h2, h3}, got)
	})

	t.Run("Add accepts several handlers in argument order", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}
		h2 := &noopHandler{name: "h2"}

		err := registry.Add("TestEvent", h1, h2)

		assert.NoError(t, err)
		assert.Equal(t, []MessageHandler{h1, h2}, registry.Get("TestEvent"))
	})

	t.Run("Add is idempotent for the same handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := &noopHandler{name: "h"}

		assert.NoError(t, registry.Add("TestEvent", handler))
		assert.NoError(t, registry.Add("TestEvent", handler))

		assert.Len(t, registry.Get("TestEvent"), 1)
	})

	t.Run("Add deduplicates function handlers by code pointer", func(t *testing.T) {
		registry := NewHandlerRegistry()

		assert.NoError(t, registry.Add("TestEvent", MessageHandlerFunc(namedHandler)))
		assert.NoError(t, registry.Add("TestEvent", MessageHandlerFunc(namedHandler)))

		assert.Len(t, registry.Get("TestEvent"), 1)
	})

	t.Run("Add fails with empty message type", func(t *testing.T) {
		registry := NewHandlerRegistry()

		err := registry.Add("", &noopHandler{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "messageType cannot be empty")
	})

	t.Run("Add fails with nil handler", func(t *testing.T) {
		registry := NewHandlerRegistry()

		err := registry.Add("TestEvent", nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "handler cannot be nil")
	})

	t.Run("Add with a nil handler registers nothing", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}

		err := registry.Add("TestEvent", h1, nil)

		assert.Error(t, err)
		assert.Empty(t, registry.Get("TestEvent"))
	})

	t.Run("Get returns nil for unregistered type", func(t *testing.T) {
		registry := NewHandlerRegistry()

		assert.Nil(t, registry.Get("Unknown"))
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}
		h2 := &noopHandler{name: "h2"}
		assert.NoError(t, registry.Add("TestEvent", h1))

		got := registry.Get("TestEvent")
		got[0] = h2

		assert.Equal(t, []MessageHandler{h1}, registry.Get("TestEvent"))
	})

	t.Run("Remove removes handler and preserves order", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}
		h2 := &noopHandler{name: "h2"}
		h3 := &noopHandler{name: "h3"}
		assert.NoError(t, registry.Add("TestEvent", h1, h2, h3))

		removed := registry.Remove("TestEvent", h2)

		assert.True(t, removed)
		assert.Equal(t, []MessageHandler{h1, h3}, registry.Get("TestEvent"))
	})

	t.Run("Remove returns false for absent handler", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}
		assert.NoError(t, registry.Add("TestEvent", h1))

		removed := registry.Remove("TestEvent", &noopHandler{name: "other"})

		assert.False(t, removed)
		assert.Equal(t, []MessageHandler{h1}, registry.Get("TestEvent"))
	})

	t.Run("Remove returns false for unregistered type", func(t *testing.T) {
		registry := NewHandlerRegistry()

		assert.False(t, registry.Remove("Unknown", &noopHandler{}))
	})

	t.Run("Remove drops type when last handler removed", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := &noopHandler{}
		assert.NoError(t, registry.Add("TestEvent", handler))

		removed := registry.Remove("TestEvent", handler)

		assert.True(t, removed)
		assert.Empty(t, registry.Types())
	})

	t.Run("RemoveAll returns handlers in registration order", func(t *testing.T) {
		registry := NewHandlerRegistry()
		h1 := &noopHandler{name: "h1"}
		h2 := &noopHandler{name: "h2"}
		assert.NoError(t, registry.Add("TestEvent", h1, h2))

		removed := registry.RemoveAll("TestEvent")

		assert.Equal(t, []MessageHandler{h1, h2}, removed)
		assert.Nil(t, registry.Get("TestEvent"))
	})

	t.Run("RemoveAll returns nil for unregistered type", func(t *testing.T) {
		registry := NewHandlerRegistry()

		assert.Nil(t, registry.RemoveAll("Unknown"))
	})

	t.Run("Contains reports registration", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := &noopHandler{}
		assert.NoError(t, registry.Add("TestEvent", handler))

		assert.True(t, registry.Contains("TestEvent", handler))
		assert.False(t, registry.Contains("TestEvent", &noopHandler{}))
		assert.False(t, registry.Contains("Unknown", handler))
	})

	t.Run("Clear removes all registrations", func(t *testing.T) {
		registry := NewHandlerRegistry()
		assert.NoError(t, registry.Add("TestEvent", &noopHandler{name: "h1"}))
		assert.NoError(t, registry.Add("OtherEvent", &noopHandler{name: "h2"}))

		registry.Clear()

		assert.Equal(t, 0, registry.Len())
		assert.Nil(t, registry.Get("TestEvent"))
		assert.Nil(t, registry.Get("OtherEvent"))
	})

	t.Run("Len counts registrations across types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		assert.NoError(t, registry.Add("TestEvent", &noopHandler{name: "h1"}, &noopHandler{name: "h2"}))
		assert.NoError(t, registry.Add("OtherEvent", &noopHandler{name: "h3"}))

		assert.Equal(t, 3, registry.Len())
	})

	t.Run("Types lists registered tags", func(t *testing.T) {
		registry := NewHandlerRegistry()
		assert.NoError(t, registry.Add("TestEvent", &noopHandler{name: "h1"}))
		assert.NoError(t, registry.Add("OtherEvent", &noopHandler{name: "h2"}))

		assert.ElementsMatch(t, []string{"TestEvent", "OtherEvent"}, registry.Types())
	})
}
