package contracts

import (
	"errors"
	"fmt"
)

// ErrMessaging is the base error all library errors wrap. Callers can match
// the whole family with errors.Is(err, ErrMessaging) and narrow to a
// specific kind with errors.As.
var ErrMessaging = errors.New("messaging error")

// NoHandlersFoundError indicates a message was dispatched with no handler
// registered under its type tag.
type NoHandlersFoundError struct {
	MessageType string
}

// Error implements the error interface
func (e *NoHandlersFoundError) Error() string {
	return fmt.Sprintf("no handlers found for message type %q", e.MessageType)
}

// Unwrap returns the base messaging error
func (e *NoHandlersFoundError) Unwrap() error {
	return ErrMessaging
}

// FieldError describes a single field that failed validation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}

// ValidationError indicates a message failed schema validation before
// dispatch. Fields holds one entry per failing property.
type ValidationError struct {
	MessageType string
	Fields      []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	switch len(e.Fields) {
	case 0:
		return fmt.Sprintf("validation failed for message type %q", e.MessageType)
	case 1:
		return fmt.Sprintf("validation failed for message type %q: %s", e.MessageType, e.Fields[0].Error())
	default:
		return fmt.Sprintf("validation failed for message type %q: %s (and %d more)", e.MessageType, e.Fields[0].Error(), len(e.Fields)-1)
	}
}

// Unwrap returns the base messaging error
func (e *ValidationError) Unwrap() error {
	return ErrMessaging
}

// ErrorReply is a reply indicating the request failed
type ErrorReply struct {
	BaseReply
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// NewErrorReply creates a failed reply dispatched under messageType and
// correlated with the originating request.
func NewErrorReply(messageType, correlationID, errorCode, errorMessage string) *ErrorReply {
	reply := &ErrorReply{
		BaseReply:    NewBaseReply(messageType, correlationID),
		ErrorCode:    errorCode,
		ErrorMessage: errorMessage,
	}
	reply.Success = false
	return reply
}

// IsSuccess always returns false for error replies
func (r *ErrorReply) IsSuccess() bool {
	return false
}

// GetError returns the error represented by this reply
func (r *ErrorReply) GetError() error {
	return fmt.Errorf("%s: %s", r.ErrorCode, r.ErrorMessage)
}
