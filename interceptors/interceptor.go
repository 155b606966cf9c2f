package interceptors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glimte/busmate-go/contracts"
)

// MessageHandler represents a message handler in the interceptor chain
type MessageHandler interface {
	Handle(ctx context.Context, msg contracts.Message) error
}

// MessageHandlerFunc is a function adapter for MessageHandler
type MessageHandlerFunc func(ctx context.Context, msg contracts.Message) error

// Handle implements MessageHandler
func (f MessageHandlerFunc) Handle(ctx context.Context, msg contracts.Message) error {
	return f(ctx, msg)
}

// Interceptor processes messages before they reach the final handler
type Interceptor interface {
	// Intercept processes a message and calls the next handler in the chain
	Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc struct {
	name string
	fn   func(ctx context.Context, msg contracts.Message, next MessageHandler) error
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc(name string, fn func(ctx context.Context, msg contracts.Message, next MessageHandler) error) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor
func (i *InterceptorFunc) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error {
	return i.fn(ctx, msg, next)
}

// Name implements Interceptor
func (i *InterceptorFunc) Name() string {
	return i.name
}

// InterceptorChain manages a chain of interceptors
type InterceptorChain struct {
	interceptors []Interceptor
	logger       *slog.Logger
}

// NewInterceptorChain creates a new interceptor chain
func NewInterceptorChain(logger *slog.Logger) *InterceptorChain {
	if logger == nil {
		logger = slog.Default()
	}

	return &InterceptorChain{
		interceptors: make([]Interceptor, 0),
		logger:       logger,
	}
}

// Add adds an interceptor to the chain
func (c *InterceptorChain) Add(interceptor Interceptor) *InterceptorChain {
	c.interceptors = append(c.interceptors, interceptor)
	return c
}

// Len returns the number of interceptors in the chain
func (c *InterceptorChain) Len() int {
	return len(c.interceptors)
}

// Execute executes the interceptor chain
func (c *InterceptorChain) Execute(ctx context.Context, msg contracts.Message, finalHandler MessageHandler) error {
	if len(c.interceptors) == 0 {
		return finalHandler.Handle(ctx, msg)
	}

	// Build the chain in reverse order
	handler := finalHandler
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		interceptor := c.interceptors[i]
		currentHandler := handler
		handler = MessageHandlerFunc(func(ctx context.Context, msg contracts.Message) error {
			return interceptor.Intercept(ctx, msg, currentHandler)
		})
	}

	return handler.Handle(ctx, msg)
}

// Built-in interceptors

// LoggingInterceptor logs message processing
type LoggingInterceptor struct {
	logger *slog.Logger
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &LoggingInterceptor{logger: logger}
}

// Intercept implements Interceptor
func (i *LoggingInterceptor) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error {
	start := time.Now()

	i.logger.Info("processing message",
		"messageId", msg.GetID(),
		"messageType", msg.GetType(),
		"correlationId", msg.GetCorrelationID(),
	)

	err := next.Handle(ctx, msg)
	duration := time.Since(start)

	if err != nil {
		i.logger.Error("message processing failed",
			"messageId", msg.GetID(),
			"messageType", msg.GetType(),
			"duration", duration,
			"error", err,
		)
	} else {
		i.logger.Info("message processed successfully",
			"messageId", msg.GetID(),
			"messageType", msg.GetType(),
			"duration", duration,
		)
	}

	return err
}

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// MetricsInterceptor collects metrics about message processing
type MetricsInterceptor struct {
	collector MetricsCollector
}

// MetricsCollector defines the interface for collecting metrics
type MetricsCollector interface {
	IncrementMessageCount(messageType string)
	RecordProcessingTime(messageType string, duration time.Duration)
	IncrementErrorCount(messageType string, errorType string)
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Intercept implements Interceptor
func (i *MetricsInterceptor) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error {
	start := time.Now()
	messageType := msg.GetType()

	i.collector.IncrementMessageCount(messageType)

	err := next.Handle(ctx, msg)
	duration := time.Since(start)

	i.collector.RecordProcessingTime(messageType, duration)

	if err != nil {
		i.collector.IncrementErrorCount(messageType, "processing_error")
	}

	return err
}

// Name implements Interceptor
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}

// InMemoryMetricsCollector accumulates counters in memory. Suitable for
// single-process deployments and tests.
type InMemoryMetricsCollector struct {
	mu              sync.Mutex
	messageCounts   map[string]int64
	errorCounts     map[string]map[string]int64
	processingTime  map[string]time.Duration
	processingCount map[string]int64
}

// NewInMemoryMetricsCollector creates a new in-memory collector
func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return &InMemoryMetricsCollector{
		messageCounts:   make(map[string]int64),
		errorCounts:     make(map[string]map[string]int64),
		processingTime:  make(map[string]time.Duration),
		processingCount: make(map[string]int64),
	}
}

// IncrementMessageCount implements MetricsCollector
func (c *InMemoryMetricsCollector) IncrementMessageCount(messageType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messageCounts[messageType]++
}

// RecordProcessingTime implements MetricsCollector
func (c *InMemoryMetricsCollector) RecordProcessingTime(messageType string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processingTime[messageType] += duration
	c.processingCount[messageType]++
}

// IncrementErrorCount implements MetricsCollector
func (c *InMemoryMetricsCollector) IncrementErrorCount(messageType string, errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errorCounts[messageType] == nil {
		c.errorCounts[messageType] = make(map[string]int64)
	}
	c.errorCounts[messageType][errorType]++
}

// MessageCount returns how many messages of messageType were processed
func (c *InMemoryMetricsCollector) MessageCount(messageType string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messageCounts[messageType]
}

// ErrorCount returns how many errors of errorType occurred for messageType
func (c *InMemoryMetricsCollector) ErrorCount(messageType, errorType string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errorCounts[messageType][errorType]
}

// AverageProcessingTime returns the mean processing time for messageType,
// zero if none were recorded.
func (c *InMemoryMetricsCollector) AverageProcessingTime(messageType string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := c.processingCount[messageType]
	if count == 0 {
		return 0
	}
	return c.processingTime[messageType] / time.Duration(count)
}

// ValidationInterceptor validates messages before processing
type ValidationInterceptor struct {
	validator MessageValidator
}

// MessageValidator defines the interface for message validation
type MessageValidator interface {
	Validate(ctx context.Context, msg contracts.Message) error
}

// NewValidationInterceptor creates a new validation interceptor
func NewValidationInterceptor(validator MessageValidator) *ValidationInterceptor {
	return &ValidationInterceptor{validator: validator}
}

// Intercept implements Interceptor
func (i *ValidationInterceptor) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error {
	if err := i.validator.Validate(ctx, msg); err != nil {
		return fmt.Errorf("message validation failed: %w", err)
	}

	return next.Handle(ctx, msg)
}

// Name implements Interceptor
func (i *ValidationInterceptor) Name() string {
	return "ValidationInterceptor"
}

// RecoveryInterceptor converts handler panics into errors so a panicking
// handler cannot take down the dispatching goroutine
type RecoveryInterceptor struct {
	logger *slog.Logger
}

// NewRecoveryInterceptor creates a new recovery interceptor
func NewRecoveryInterceptor(logger *slog.Logger) *RecoveryInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &RecoveryInterceptor{logger: logger}
}

// Intercept implements Interceptor
func (i *RecoveryInterceptor) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("panic recovered during message processing",
				"messageId", msg.GetID(),
				"messageType", msg.GetType(),
				"panic", r,
			)
			err = fmt.Errorf("panic during message processing: %v", r)
		}
	}()

	return next.Handle(ctx, msg)
}

// Name implements Interceptor
func (i *RecoveryInterceptor) Name() string {
	return "RecoveryInterceptor"
}

// ErrorHandlingInterceptor handles errors and provides recovery
type ErrorHandlingInterceptor struct {
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// ErrorHandler defines the interface for error handling
type ErrorHandler interface {
	HandleError(ctx context.Context, msg contracts.Message, err error) error
}

// ErrorHandlerFunc is a function adapter for ErrorHandler
type ErrorHandlerFunc func(ctx context.Context, msg contracts.Message, err error) error

// HandleError implements ErrorHandler
func (f ErrorHandlerFunc) HandleError(ctx context.Context, msg contracts.Message, err error) error {
	return f(ctx, msg, err)
}

// NewErrorHandlingInterceptor creates a new error handling interceptor
func NewErrorHandlingInterceptor(errorHandler ErrorHandler, logger *slog.Logger) *ErrorHandlingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	return &ErrorHandlingInterceptor{
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Intercept implements Interceptor
func (i *ErrorHandlingInterceptor) Intercept(ctx context.Context, msg contracts.Message, next MessageHandler) error {
	err := next.Handle(ctx, msg)
	if err != nil {
		i.logger.Error("message processing error",
			"messageId", msg.GetID(),
			"messageType", msg.GetType(),
			"error", err,
		)

		// Let error handler decide how to handle the error
		return i.errorHandler.HandleError(ctx, msg, err)
	}

	return nil
}

// Name implements Interceptor
func (i *ErrorHandlingInterceptor) Name() string {
	return "ErrorHandlingInterceptor"
}

// Default interceptor chain builder

// DefaultInterceptorChainBuilder builds a common interceptor chain
type DefaultInterceptorChainBuilder struct {
	chain  *InterceptorChain
	logger *slog.Logger
}

// NewDefaultInterceptorChainBuilder creates a new builder
func NewDefaultInterceptorChainBuilder(logger *slog.Logger) *DefaultInterceptorChainBuilder {
	if logger == nil {
		logger = slog.Default()
	}

	return &DefaultInterceptorChainBuilder{
		chain:  NewInterceptorChain(logger),
		logger: logger,
	}
}

// WithRecovery adds panic recovery
func (b *DefaultInterceptorChainBuilder) WithRecovery() *DefaultInterceptorChainBuilder {
	b.chain.Add(NewRecoveryInterceptor(b.logger))
	return b
}

// WithLogging adds logging interceptor
func (b *DefaultInterceptorChainBuilder) WithLogging() *DefaultInterceptorChainBuilder {
	b.chain.Add(NewLoggingInterceptor(b.logger))
	return b
}

// WithMetrics adds metrics interceptor
func (b *DefaultInterceptorChainBuilder) WithMetrics(collector MetricsCollector) *DefaultInterceptorChainBuilder {
	b.chain.Add(NewMetricsInterceptor(collector))
	return b
}

// WithValidation adds validation interceptor
func (b *DefaultInterceptorChainBuilder) WithValidation(validator MessageValidator) *DefaultInterceptorChainBuilder {
	b.chain.Add(NewValidationInterceptor(validator))
	return b
}

// WithFiltering adds filtering interceptor
func (b *DefaultInterceptorChainBuilder) WithFiltering(filter MessageFilter, skipBehavior SkipBehavior) *DefaultInterceptorChainBuilder {
	b.chain.Add(NewFilteringInterceptor(filter, skipBehavior))
	return b
}

// WithErrorHandling adds error handling interceptor
func (b *DefaultInterceptorChainBuilder) WithErrorHandling(errorHandler ErrorHandler) *DefaultInterceptorChainBuilder {
	b.chain.Add(NewErrorHandlingInterceptor(errorHandler, b.logger))
	return b
}

// WithCustom adds a custom interceptor
func (b *DefaultInterceptorChainBuilder) WithCustom(interceptor Interceptor) *DefaultInterceptorChainBuilder {
	b.chain.Add(interceptor)
	return b
}

// Build returns the built interceptor chain
func (b *DefaultInterceptorChainBuilder) Build() *InterceptorChain {
	return b.chain
}
