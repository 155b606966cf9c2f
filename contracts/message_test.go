package contracts

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseMessage(t *testing.T) {
	t.Run("NewBaseMessage creates valid message", func(t *testing.T) {
		// Act
		msg := NewBaseMessage("TestMessage")

		// Assert
		assert.NotEmpty(t, msg.ID)
		assert.Equal(t, "TestMessage", msg.Type)
		assert.Equal(t, "TestMessage", msg.GetType())
		assert.WithinDuration(t, time.Now().UTC(), msg.Timestamp, time.Second)
		assert.Empty(t, msg.CorrelationID)

		// Verify ID is a valid UUID
		_, err := uuid.Parse(msg.ID)
		assert.NoError(t, err)
	})

	t.Run("NewBaseMessage assigns distinct IDs", func(t *testing.T) {
		first := NewBaseMessage("TestMessage")
		second := NewBaseMessage("TestMessage")

		assert.NotEqual(t, first.GetID(), second.GetID())
	})

	t.Run("NewBaseMessage uses UTC timestamps", func(t *testing.T) {
		msg := NewBaseMessage("TestMessage")

		assert.Equal(t, time.UTC, msg.Timestamp.Location())
	})
}

func TestBaseMessage_Getters(t *testing.T) {
	t.Run("getters return field values", func(t *testing.T) {
		now := time.Now().UTC()
		msg := BaseMessage{
			ID:            "test-id",
			Timestamp:     now,
			Type:          "TestType",
			CorrelationID: "corr-123",
		}

		assert.Equal(t, "test-id", msg.GetID())
		assert.Equal(t, now, msg.GetTimestamp())
		assert.Equal(t, "TestType", msg.GetType())
		assert.Equal(t, "corr-123", msg.GetCorrelationID())
	})

	t.Run("SetCorrelationID updates correlation ID", func(t *testing.T) {
		msg := NewBaseMessage("TestMessage")

		msg.SetCorrelationID("corr-456")

		assert.Equal(t, "corr-456", msg.GetCorrelationID())
	})
}

func TestEqual(t *testing.T) {
	t.Run("messages with same ID are equal", func(t *testing.T) {
		a := &BaseMessage{ID: "same-id", Type: "TypeA"}
		b := &BaseMessage{ID: "same-id", Type: "TypeB"}

		assert.True(t, Equal(a, b))
	})

	t.Run("messages with different IDs are not equal", func(t *testing.T) {
		a := NewBaseMessage("TestMessage")
		b := NewBaseMessage("TestMessage")

		assert.False(t, Equal(&a, &b))
	})

	t.Run("nil messages are never equal", func(t *testing.T) {
		msg := NewBaseMessage("TestMessage")

		assert.False(t, Equal(nil, &msg))
		assert.False(t, Equal(&msg, nil))
		assert.False(t, Equal(nil, nil))
	})
}

func TestNewBaseCommand(t *testing.T) {
	t.Run("NewBaseCommand creates valid command", func(t *testing.T) {
		cmd := NewBaseCommand("TestCommand")

		assert.NotEmpty(t, cmd.GetID())
		assert.Equal(t, "TestCommand", cmd.GetType())
		assert.Empty(t, cmd.GetReplyTo())
	})

	t.Run("command reply tag round trips", func(t *testing.T) {
		cmd := NewBaseCommand("TestCommand")
		cmd.ReplyTo = "TestCommand.Reply"

		assert.Equal(t, "TestCommand.Reply", cmd.GetReplyTo())
	})
}

func TestBaseEvent(t *testing.T) {
	t.Run("event exposes aggregate ID and sequence", func(t *testing.T) {
		evt := BaseEvent{
			BaseMessage: NewBaseMessage("OrderCreated"),
			AggregateID: "order-123",
			Sequence:    7,
		}

		assert.Equal(t, "order-123", evt.GetAggregateID())
		assert.Equal(t, int64(7), evt.GetSequence())
	})
}

func TestNewBaseReply(t *testing.T) {
	t.Run("NewBaseReply creates successful correlated reply", func(t *testing.T) {
		reply := NewBaseReply("TestReply", "corr-789")

		assert.NotEmpty(t, reply.GetID())
		assert.Equal(t, "TestReply", reply.GetType())
		assert.Equal(t, "corr-789", reply.GetCorrelationID())
		assert.True(t, reply.IsSuccess())
		assert.NoError(t, reply.GetError())
	})
}

func TestMessageInterfaces(t *testing.T) {
	t.Run("base types satisfy message interfaces", func(t *testing.T) {
		base := NewBaseMessage("TestMessage")
		command := NewBaseCommand("TestCommand")
		event := BaseEvent{BaseMessage: NewBaseMessage("TestEvent")}
		query := BaseQuery{BaseMessage: NewBaseMessage("TestQuery")}
		reply := NewBaseReply("TestReply", "")

		var msg Message = &base
		var cmd Command = &command
		var evt Event = &event
		var qry Query = &query
		var rpl Reply = &reply

		assert.NotNil(t, msg)
		assert.NotNil(t, cmd)
		assert.NotNil(t, evt)
		assert.NotNil(t, qry)
		assert.NotNil(t, rpl)
	})
}
