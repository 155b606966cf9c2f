package contracts

import (
	"time"

	"github.com/google/uuid"
)

// BaseMessage provides common fields for all message types
type BaseMessage struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type"`
	CorrelationID string    `json:"correlationId,omitempty"`
}

// NewBaseMessage creates a new base message with generated ID and current timestamp.
// The identifier is assigned exactly once, here; nothing in the library
// mutates it afterwards.
func NewBaseMessage(messageType string) BaseMessage {
	return BaseMessage{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Type:      messageType,
	}
}

// GetID returns the message ID
func (m BaseMessage) GetID() string {
	return m.ID
}

// GetTimestamp returns the message timestamp
func (m BaseMessage) GetTimestamp() time.Time {
	return m.Timestamp
}

// GetType returns the message type tag used as the registry key
func (m BaseMessage) GetType() string {
	return m.Type
}

// GetCorrelationID returns the correlation ID
func (m BaseMessage) GetCorrelationID() string {
	return m.CorrelationID
}

// SetCorrelationID sets the correlation ID
func (m *BaseMessage) SetCorrelationID(correlationID string) {
	m.CorrelationID = correlationID
}

// BaseCommand provides common fields for command messages
type BaseCommand struct {
	BaseMessage
	ReplyTo string `json:"replyTo,omitempty"`
}

// GetReplyTo returns the message type tag replies to this command are
// dispatched under. Empty means fire-and-forget.
func (c BaseCommand) GetReplyTo() string {
	return c.ReplyTo
}

// BaseEvent provides common fields for event messages
type BaseEvent struct {
	BaseMessage
	AggregateID string `json:"aggregateId"`
	Sequence    int64  `json:"sequence"`
	Source      string `json:"source,omitempty"`
}

// GetAggregateID returns the aggregate ID
func (e BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

// GetSequence returns the event sequence number
func (e BaseEvent) GetSequence() int64 {
	return e.Sequence
}

// BaseQuery provides common fields for query messages
type BaseQuery struct {
	BaseMessage
	ReplyTo string `json:"replyTo"`
}

// GetReplyTo returns the message type tag the reply is dispatched under
func (q BaseQuery) GetReplyTo() string {
	return q.ReplyTo
}

// BaseReply provides common fields for reply messages
type BaseReply struct {
	BaseMessage
	Success bool `json:"success"`
}

// IsSuccess returns whether the reply indicates success
func (r BaseReply) IsSuccess() bool {
	return r.Success
}

// GetError returns nil for successful replies (can be overridden)
func (r BaseReply) GetError() error {
	return nil
}

// NewBaseCommand creates a new command with generated ID and current timestamp
func NewBaseCommand(messageType string) BaseCommand {
	return BaseCommand{
		BaseMessage: NewBaseMessage(messageType),
	}
}

// NewBaseReply creates a new successful reply dispatched under messageType
// and correlated with the originating request.
func NewBaseReply(messageType, correlationID string) BaseReply {
	reply := BaseReply{
		BaseMessage: NewBaseMessage(messageType),
		Success:     true,
	}
	reply.SetCorrelationID(correlationID)
	return reply
}
