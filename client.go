// Copyright 2025 Busmate Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package busmate

import (
	"context"
	"log/slog"

	"github.com/glimte/busmate-go/bridge"
	"github.com/glimte/busmate-go/contracts"
	"github.com/glimte/busmate-go/interceptors"
	"github.com/glimte/busmate-go/messaging"
	"github.com/glimte/busmate-go/schema"
)

// Client provides the main entry point for busmate-go. It wires a message
// bus, an optional schema validator, and an interceptor chain into one
// dispatch surface: every message sent through Dispatch or Request crosses
// the chain before it reaches the bus, with the validator (when configured)
// running last, immediately before the handlers.
type Client struct {
	bus       *messaging.MessageBus
	validator *schema.MessageValidator
	chain     *interceptors.InterceptorChain
	requester *bridge.Requester
	logger    *slog.Logger
}

// NewClient creates a new busmate client
func NewClient(options ...ClientOption) (*Client, error) {
	cfg := &clientConfig{
		logger: slog.Default(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	bus := messaging.NewMessageBus(
		messaging.WithBusLogger(cfg.logger),
		messaging.WithAllowUnhandled(cfg.allowUnhandled),
	)

	chain := interceptors.NewInterceptorChain(cfg.logger)
	for _, interceptor := range cfg.interceptors {
		chain.Add(interceptor)
	}
	if cfg.validator != nil {
		chain.Add(interceptors.NewValidationInterceptor(cfg.validator))
	}

	client := &Client{
		bus:       bus,
		validator: cfg.validator,
		chain:     chain,
		logger:    cfg.logger,
	}

	// The requester dispatches through the client, not the bare bus, so
	// requests cross the interceptor chain like any other message.
	requester, err := bridge.NewRequester(client, bridge.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}
	client.requester = requester

	return client, nil
}

// Bus returns the underlying message bus
func (c *Client) Bus() *messaging.MessageBus {
	return c.bus
}

// Validator returns the schema validator, or nil if none was configured
func (c *Client) Validator() *schema.MessageValidator {
	return c.validator
}

// Register registers handlers for a message type
func (c *Client) Register(messageType string, handlers ...messaging.MessageHandler) error {
	return c.bus.Register(messageType, handlers...)
}

// RegisterFunc registers a function as a handler for a message type
func (c *Client) RegisterFunc(messageType string, handler messaging.MessageHandlerFunc) error {
	return c.bus.RegisterFunc(messageType, handler)
}

// Unregister removes a handler for a message type. Returns false if the
// handler was not registered.
func (c *Client) Unregister(messageType string, handler messaging.MessageHandler) bool {
	return c.bus.Unregister(messageType, handler)
}

// Dispatch sends a message through the interceptor chain to the bus. Errors
// from interceptors and handlers are returned as the bus produced them; the
// validator reports *contracts.ValidationError for messages that fail their
// registered schema.
func (c *Client) Dispatch(ctx context.Context, msg contracts.Message) error {
	return c.chain.Execute(ctx, msg, c.bus)
}

// Request dispatches req through the interceptor chain and returns the
// reply sent back under its replyTo tag. See bridge.Requester.Request.
func (c *Client) Request(ctx context.Context, req bridge.Requestable) (contracts.Reply, error) {
	return c.requester.Request(ctx, req)
}

// clientConfig holds client configuration
type clientConfig struct {
	logger         *slog.Logger
	validator      *schema.MessageValidator
	interceptors   []interceptors.Interceptor
	allowUnhandled bool
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

// WithLogger sets the logger for all components
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// WithValidator sets the schema validator. Messages dispatched through the
// client are validated before they reach the bus; message types without a
// registered schema pass through unchecked.
func WithValidator(validator *schema.MessageValidator) ClientOption {
	return func(cfg *clientConfig) {
		cfg.validator = validator
	}
}

// WithInterceptors appends interceptors to the dispatch chain, in order
func WithInterceptors(ics ...interceptors.Interceptor) ClientOption {
	return func(cfg *clientConfig) {
		cfg.interceptors = append(cfg.interceptors, ics...)
	}
}

// WithAllowUnhandled controls the unrouted-message policy of the underlying
// bus; see messaging.WithAllowUnhandled.
func WithAllowUnhandled(allow bool) ClientOption {
	return func(cfg *clientConfig) {
		cfg.allowUnhandled = allow
	}
}
