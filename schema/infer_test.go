package schema

import (
	"context"
	"testing"
	"time"

	"github.com/glimte/busmate-go/contracts"
	"github.com/stretchr/testify/assert"
)

type InventoryItem struct {
	SKU   string  `json:"sku"`
	Price float64 `json:"price"`
}

type InventoryUpdated struct {
	contracts.BaseMessage
	Warehouse string          `json:"warehouse"`
	Items     []InventoryItem `json:"items"`
	Partial   bool            `json:"partial,omitempty"`
	CheckedAt time.Time       `json:"checkedAt"`
	Count     int             `json:"count" description:"number of items counted"`
	internal  string
	Skipped   string `json:"-"`
}

func TestInferSchema(t *testing.T) {
	t.Run("InferSchema maps struct fields to properties", func(t *testing.T) {
		schema, err := InferSchema(InventoryUpdated{})

		assert.NoError(t, err)
		assert.Equal(t, "object", schema.Type)

		assert.Equal(t, "string", schema.Properties["warehouse"].Type)
		assert.Equal(t, "boolean", schema.Properties["partial"].Type)
		assert.Equal(t, "integer", schema.Properties["count"].Type)
		assert.Equal(t, "number of items counted", schema.Properties["count"].Description)

		items := schema.Properties["items"]
		assert.Equal(t, "array", items.Type)
		assert.Equal(t, "object", items.Items.Type)
		assert.Equal(t, "string", items.Items.Properties["sku"].Type)
		assert.Equal(t, "number", items.Items.Properties["price"].Type)
		assert.ElementsMatch(t, []string{"sku", "price"}, items.Items.Required)
	})

	t.Run("InferSchema flattens embedded message bases", func(t *testing.T) {
		schema, err := InferSchema(&InventoryUpdated{})

		assert.NoError(t, err)
		assert.Equal(t, "string", schema.Properties["id"].Type)
		assert.Equal(t, "string", schema.Properties["type"].Type)
		assert.Equal(t, "string", schema.Properties["timestamp"].Type)
		assert.Equal(t, "date-time", schema.Properties["timestamp"].Format)

		assert.Contains(t, schema.Required, "id")
		assert.NotContains(t, schema.Required, "correlationId")
	})

	t.Run("InferSchema marks omitempty fields optional", func(t *testing.T) {
		schema, err := InferSchema(InventoryUpdated{})

		assert.NoError(t, err)
		assert.Contains(t, schema.Required, "warehouse")
		assert.Contains(t, schema.Required, "items")
		assert.NotContains(t, schema.Required, "partial")
	})

	t.Run("InferSchema skips unexported and ignored fields", func(t *testing.T) {
		schema, err := InferSchema(InventoryUpdated{})

		assert.NoError(t, err)
		assert.NotContains(t, schema.Properties, "internal")
		assert.NotContains(t, schema.Properties, "Skipped")
		assert.NotContains(t, schema.Properties, "skipped")
	})

	t.Run("InferSchema maps time.Time to date-time strings", func(t *testing.T) {
		schema, err := InferSchema(InventoryUpdated{})

		assert.NoError(t, err)
		assert.Equal(t, "string", schema.Properties["checkedAt"].Type)
		assert.Equal(t, "date-time", schema.Properties["checkedAt"].Format)
	})

	t.Run("InferSchema rejects non-struct samples", func(t *testing.T) {
		_, err := InferSchema(42)
		assert.Error(t, err)

		_, err = InferSchema(nil)
		assert.Error(t, err)
	})

	t.Run("inferred schemas validate real messages", func(t *testing.T) {
		schema, err := InferSchema(InventoryUpdated{})
		assert.NoError(t, err)

		validator := NewMessageValidator()
		validator.RegisterSchema("InventoryUpdated", schema)

		msg := &InventoryUpdated{
			BaseMessage: contracts.NewBaseMessage("InventoryUpdated"),
			Warehouse:   "north",
			Items:       []InventoryItem{{SKU: "SKU-1", Price: 4.5}},
			CheckedAt:   time.Now().UTC(),
			Count:       1,
		}

		assert.NoError(t, validator.Validate(context.Background(), msg))
	})
}
