// Package contracts provides the core message types and interfaces for the busmate library.
//
// This package defines the base contracts for messages that flow through an
// in-process bus:
//   - Message: Base interface for all messages
//   - Command: Represents an action to be performed
//   - Event: Represents something that has happened
//   - Query: Represents a request for information
//   - Reply: Represents a response to a request
//
// Every message carries an identifier assigned exactly once at construction
// and an explicit type tag used as the routing key by the handler registry.
// Reply routing is in-process: a ReplyTo value names the message type tag a
// reply is dispatched under, not a queue.
//
// The package also defines the error taxonomy shared by the library:
// ErrMessaging is the base error, with NoHandlersFoundError and
// ValidationError as the specific kinds callers are expected to match.
package contracts
