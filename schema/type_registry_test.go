package schema

import (
	"testing"
	"time"

	"github.com/glimte/busmate-go/contracts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type RestockCommand struct {
	contracts.BaseCommand
	SKU    string `json:"sku"`
	Amount int    `json:"amount"`
}

func TestTypeRegistry(t *testing.T) {
	t.Run("Register stores a type under an explicit tag", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.Register("OrderPlaced", OrderPlaced{})

		assert.NoError(t, err)
		assert.True(t, registry.Contains("OrderPlaced"))

		registered, ok := registry.Get("OrderPlaced")
		assert.True(t, ok)
		assert.Equal(t, "OrderPlaced", registered.Name())
	})

	t.Run("Register accepts pointer templates", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.Register("OrderPlaced", &OrderPlaced{})

		assert.NoError(t, err)
		assert.True(t, registry.Contains("OrderPlaced"))
	})

	t.Run("Register fails with empty tag", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.Register("", OrderPlaced{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "messageType cannot be empty")
	})

	t.Run("Register fails with nil template", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.Register("OrderPlaced", nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "template cannot be nil")
	})

	t.Run("Register fails with non-struct template", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.Register("OrderPlaced", 42)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be a struct")
	})

	t.Run("Register fails when the type is not a message", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.Register("InventoryItem", InventoryItem{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not implement contracts.Message")
	})

	t.Run("registering the same type twice is a no-op", func(t *testing.T) {
		registry := NewTypeRegistry()

		assert.NoError(t, registry.Register("OrderPlaced", OrderPlaced{}))
		assert.NoError(t, registry.Register("OrderPlaced", OrderPlaced{}))
		assert.Len(t, registry.Types(), 1)
	})

	t.Run("registering a different type under a taken tag fails", func(t *testing.T) {
		registry := NewTypeRegistry()

		assert.NoError(t, registry.Register("OrderPlaced", OrderPlaced{}))

		err := registry.Register("OrderPlaced", RestockCommand{})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("RegisterType uses the struct name as tag", func(t *testing.T) {
		registry := NewTypeRegistry()

		err := registry.RegisterType(RestockCommand{})

		assert.NoError(t, err)
		assert.True(t, registry.Contains("RestockCommand"))
	})

	t.Run("TypeName finds the tag for a registered value", func(t *testing.T) {
		registry := NewTypeRegistry()
		registry.Register("OrderPlaced", OrderPlaced{})

		name, ok := registry.TypeName(&OrderPlaced{})
		assert.True(t, ok)
		assert.Equal(t, "OrderPlaced", name)

		_, ok = registry.TypeName(&RestockCommand{})
		assert.False(t, ok)
	})

	t.Run("Types lists every registered tag", func(t *testing.T) {
		registry := NewTypeRegistry()
		registry.Register("OrderPlaced", OrderPlaced{})
		registry.Register("RestockCommand", RestockCommand{})

		assert.ElementsMatch(t, []string{"OrderPlaced", "RestockCommand"}, registry.Types())
	})
}

func TestNewInstance(t *testing.T) {
	t.Run("NewInstance constructs a ready-to-dispatch message", func(t *testing.T) {
		registry := NewTypeRegistry()
		registry.Register("OrderPlaced", OrderPlaced{})

		msg, err := registry.NewInstance("OrderPlaced")

		assert.NoError(t, err)
		assert.IsType(t, &OrderPlaced{}, msg)
		assert.Equal(t, "OrderPlaced", msg.GetType())
		assert.WithinDuration(t, time.Now().UTC(), msg.GetTimestamp(), time.Second)

		_, err = uuid.Parse(msg.GetID())
		assert.NoError(t, err)
	})

	t.Run("NewInstance assigns a distinct identity every call", func(t *testing.T) {
		registry := NewTypeRegistry()
		registry.Register("OrderPlaced", OrderPlaced{})

		first, err := registry.NewInstance("OrderPlaced")
		assert.NoError(t, err)
		second, err := registry.NewInstance("OrderPlaced")
		assert.NoError(t, err)

		assert.NotEqual(t, first.GetID(), second.GetID())
	})

	t.Run("NewInstance stamps bases embedded through other bases", func(t *testing.T) {
		registry := NewTypeRegistry()
		registry.Register("RestockCommand", RestockCommand{})

		msg, err := registry.NewInstance("RestockCommand")

		assert.NoError(t, err)
		command, ok := msg.(*RestockCommand)
		assert.True(t, ok)
		assert.Equal(t, "RestockCommand", command.GetType())
		assert.NotEmpty(t, command.GetID())
	})

	t.Run("NewInstance fails for unregistered tags", func(t *testing.T) {
		registry := NewTypeRegistry()

		_, err := registry.NewInstance("Unknown")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not registered")
	})
}
