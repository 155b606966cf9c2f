package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/glimte/busmate-go/contracts"
	"github.com/google/uuid"
)

// Schema describes the expected shape of a message type.
//
// Required lists the property names that must be present. Rules holds
// message-level checks that run after the property checks; each rule
// receives the decoded message as a map so it can inspect several
// fields at once.
type Schema struct {
	Type       string                  `json:"type"`
	Properties map[string]*PropertyDef `json:"properties,omitempty"`
	Required   []string                `json:"required,omitempty"`
	Rules      []ValidationRule        `json:"-"`
}

// PropertyDef defines the validation constraints for a single property.
type PropertyDef struct {
	Type        string                  `json:"type"`
	Format      string                  `json:"format,omitempty"`
	Pattern     string                  `json:"pattern,omitempty"`
	MinLength   *int                    `json:"minLength,omitempty"`
	MaxLength   *int                    `json:"maxLength,omitempty"`
	Minimum     *float64                `json:"minimum,omitempty"`
	Maximum     *float64                `json:"maximum,omitempty"`
	Enum        []interface{}           `json:"enum,omitempty"`
	Description string                  `json:"description,omitempty"`
	Items       *PropertyDef            `json:"items,omitempty"`
	Properties  map[string]*PropertyDef `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
	Rules       []string                `json:"rules,omitempty"`
}

// ValidationRule is a named check applied to a value during validation.
// Returning nil means the value passed.
type ValidationRule interface {
	Name() string
	Validate(ctx context.Context, field string, value interface{}) *contracts.FieldError
}

// RuleFunc adapts a function to the ValidationRule interface.
type RuleFunc struct {
	name string
	fn   func(ctx context.Context, field string, value interface{}) *contracts.FieldError
}

// NewRule creates a named validation rule from a function.
func NewRule(name string, fn func(ctx context.Context, field string, value interface{}) *contracts.FieldError) *RuleFunc {
	return &RuleFunc{name: name, fn: fn}
}

func (r *RuleFunc) Name() string {
	return r.name
}

func (r *RuleFunc) Validate(ctx context.Context, field string, value interface{}) *contracts.FieldError {
	return r.fn(ctx, field, value)
}

// MessageValidator validates messages against registered schemas.
//
// Validation is opt-in: a message whose type tag has no registered
// schema passes unchanged. Failures are reported as a
// *contracts.ValidationError carrying every field error found, so
// callers see the whole picture in one pass rather than the first
// problem only.
type MessageValidator struct {
	schemas map[string]*Schema
	rules   map[string]ValidationRule
	mu      sync.RWMutex
}

// NewMessageValidator creates a validator with the built-in rules
// ("non-empty" and "positive") already registered.
func NewMessageValidator() *MessageValidator {
	v := &MessageValidator{
		schemas: make(map[string]*Schema),
		rules:   make(map[string]ValidationRule),
	}
	v.registerBuiltInRules()
	return v
}

// RegisterSchema registers a schema for a message type tag. Registering
// again for the same tag replaces the previous schema.
func (v *MessageValidator) RegisterSchema(messageType string, schema *Schema) error {
	if messageType == "" {
		return fmt.Errorf("messageType cannot be empty")
	}
	if schema == nil {
		return fmt.Errorf("schema cannot be nil")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.schemas[messageType] = schema
	return nil
}

// RegisterRule registers a named rule so schemas can reference it from
// PropertyDef.Rules.
func (v *MessageValidator) RegisterRule(rule ValidationRule) error {
	if rule == nil {
		return fmt.Errorf("rule cannot be nil")
	}
	if rule.Name() == "" {
		return fmt.Errorf("rule name cannot be empty")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.rules[rule.Name()] = rule
	return nil
}

// Rule returns the registered rule with the given name.
func (v *MessageValidator) Rule(name string) (ValidationRule, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	rule, ok := v.rules[name]
	return rule, ok
}

// GetSchema returns the schema registered for a message type tag.
func (v *MessageValidator) GetSchema(messageType string) (*Schema, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	schema, ok := v.schemas[messageType]
	return schema, ok
}

// Validate checks a message against the schema registered for its type
// tag. It returns nil when the message is valid or no schema is
// registered, and a *contracts.ValidationError listing every failed
// field otherwise.
func (v *MessageValidator) Validate(ctx context.Context, msg contracts.Message) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	messageType := msg.GetType()
	schema, ok := v.GetSchema(messageType)
	if !ok {
		return nil
	}

	return v.ValidateWithSchema(ctx, msg, schema)
}

// ValidateWithSchema checks a message against an explicit schema,
// bypassing the registry lookup.
func (v *MessageValidator) ValidateWithSchema(ctx context.Context, msg contracts.Message, schema *Schema) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}
	if schema == nil {
		return fmt.Errorf("schema cannot be nil")
	}

	var fields []contracts.FieldError

	data, err := messageToMap(msg)
	if err != nil {
		fields = append(fields, contracts.FieldError{
			Field:   "message",
			Message: fmt.Sprintf("failed to decode message: %v", err),
			Code:    "CONVERSION_ERROR",
		})
		return &contracts.ValidationError{MessageType: msg.GetType(), Fields: fields}
	}

	v.validateObject(ctx, "", data, schema.Properties, schema.Required, &fields)

	for _, rule := range schema.Rules {
		if fieldErr := rule.Validate(ctx, "message", data); fieldErr != nil {
			fields = append(fields, *fieldErr)
		}
	}

	if len(fields) > 0 {
		return &contracts.ValidationError{MessageType: msg.GetType(), Fields: fields}
	}
	return nil
}

// validateObject checks required fields and then each present property
// against its definition.
func (v *MessageValidator) validateObject(ctx context.Context, fieldPath string, data map[string]interface{}, properties map[string]*PropertyDef, required []string, fields *[]contracts.FieldError) {
	for _, name := range required {
		if _, exists := data[name]; !exists {
			*fields = append(*fields, contracts.FieldError{
				Field:   buildFieldPath(fieldPath, name),
				Message: "required field is missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for name, value := range data {
		if propDef, exists := properties[name]; exists {
			v.validateProperty(ctx, buildFieldPath(fieldPath, name), value, propDef, fields)
		}
	}
}

func (v *MessageValidator) validateProperty(ctx context.Context, fieldPath string, value interface{}, propDef *PropertyDef, fields *[]contracts.FieldError) {
	if value == nil {
		return
	}

	if propDef.Type != "" && !validateType(value, propDef.Type) {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("expected type %s, got %T", propDef.Type, value),
			Code:    "TYPE_MISMATCH",
		})
		return
	}

	if str, ok := value.(string); ok {
		validateString(fieldPath, str, propDef, fields)
	}

	if num, ok := value.(float64); ok {
		validateNumber(fieldPath, num, propDef, fields)
	}

	if arr, ok := value.([]interface{}); ok && propDef.Items != nil {
		for i, item := range arr {
			v.validateProperty(ctx, fmt.Sprintf("%s[%d]", fieldPath, i), item, propDef.Items, fields)
		}
	}

	if obj, ok := value.(map[string]interface{}); ok && propDef.Properties != nil {
		v.validateObject(ctx, fieldPath, obj, propDef.Properties, propDef.Required, fields)
	}

	if len(propDef.Enum) > 0 {
		validateEnum(fieldPath, value, propDef.Enum, fields)
	}

	if propDef.Format != "" {
		validateFormat(fieldPath, value, propDef.Format, fields)
	}

	if propDef.Pattern != "" {
		validatePattern(fieldPath, value, propDef.Pattern, fields)
	}

	for _, name := range propDef.Rules {
		rule, ok := v.Rule(name)
		if !ok {
			*fields = append(*fields, contracts.FieldError{
				Field:   fieldPath,
				Message: fmt.Sprintf("validation rule %q is not registered", name),
				Code:    "UNKNOWN_RULE",
			})
			continue
		}
		if fieldErr := rule.Validate(ctx, fieldPath, value); fieldErr != nil {
			*fields = append(*fields, *fieldErr)
		}
	}
}

// validateType checks a decoded JSON value against a schema type name.
// Unknown type names pass.
func validateType(value interface{}, expectedType string) bool {
	switch expectedType {
	case "string":
		_, ok := value.(string)
		return ok
	case "number":
		_, ok := value.(float64)
		return ok
	case "integer":
		f, ok := value.(float64)
		return ok && f == math.Trunc(f)
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]interface{})
		return ok
	case "object":
		_, ok := value.(map[string]interface{})
		return ok
	default:
		return true
	}
}

func validateString(fieldPath, value string, propDef *PropertyDef, fields *[]contracts.FieldError) {
	if propDef.MinLength != nil && len(value) < *propDef.MinLength {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("string length %d is less than minimum %d", len(value), *propDef.MinLength),
			Code:    "MIN_LENGTH_VIOLATION",
		})
	}

	if propDef.MaxLength != nil && len(value) > *propDef.MaxLength {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("string length %d exceeds maximum %d", len(value), *propDef.MaxLength),
			Code:    "MAX_LENGTH_VIOLATION",
		})
	}
}

func validateNumber(fieldPath string, value float64, propDef *PropertyDef, fields *[]contracts.FieldError) {
	if propDef.Minimum != nil && value < *propDef.Minimum {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("value %v is less than minimum %v", value, *propDef.Minimum),
			Code:    "MINIMUM_VIOLATION",
		})
	}

	if propDef.Maximum != nil && value > *propDef.Maximum {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("value %v exceeds maximum %v", value, *propDef.Maximum),
			Code:    "MAXIMUM_VIOLATION",
		})
	}
}

func validateEnum(fieldPath string, value interface{}, enum []interface{}, fields *[]contracts.FieldError) {
	for _, allowed := range enum {
		if reflect.DeepEqual(value, allowed) {
			return
		}
	}

	*fields = append(*fields, contracts.FieldError{
		Field:   fieldPath,
		Message: fmt.Sprintf("value is not in allowed enum values: %v", enum),
		Code:    "ENUM_VIOLATION",
	})
}

func validateFormat(fieldPath string, value interface{}, format string, fields *[]contracts.FieldError) {
	str, ok := value.(string)
	if !ok {
		return
	}

	var valid bool
	var errorMsg string

	switch format {
	case "email":
		valid, errorMsg = validEmail(str)
	case "uri":
		valid, errorMsg = validURI(str)
	case "uuid":
		valid, errorMsg = validUUID(str)
	case "date":
		valid, errorMsg = validDate(str)
	case "date-time":
		valid, errorMsg = validDateTime(str)
	default:
		return
	}

	if !valid {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: errorMsg,
			Code:    "FORMAT_VIOLATION",
		})
	}
}

func validatePattern(fieldPath string, value interface{}, pattern string, fields *[]contracts.FieldError) {
	str, ok := value.(string)
	if !ok {
		return
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("invalid regex pattern: %s", pattern),
			Code:    "INVALID_PATTERN",
		})
		return
	}

	if !regex.MatchString(str) {
		*fields = append(*fields, contracts.FieldError{
			Field:   fieldPath,
			Message: fmt.Sprintf("value does not match pattern: %s", pattern),
			Code:    "PATTERN_VIOLATION",
		})
	}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validEmail(value string) (bool, string) {
	if !emailRegex.MatchString(value) {
		return false, "invalid email format"
	}
	return true, ""
}

func validURI(value string) (bool, string) {
	if !strings.Contains(value, "://") {
		return false, "invalid URI format"
	}
	return true, ""
}

func validUUID(value string) (bool, string) {
	if _, err := uuid.Parse(value); err != nil {
		return false, "invalid UUID format"
	}
	return true, ""
}

func validDate(value string) (bool, string) {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return false, "invalid date format (expected YYYY-MM-DD)"
	}
	return true, ""
}

func validDateTime(value string) (bool, string) {
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return false, "invalid date-time format (expected RFC 3339)"
	}
	return true, ""
}

func buildFieldPath(parent, field string) string {
	if parent == "" {
		return field
	}
	return fmt.Sprintf("%s.%s", parent, field)
}

// messageToMap decodes a message through its JSON form so validation
// sees the same field names and value types the wire representation
// would carry.
func messageToMap(msg contracts.Message) (map[string]interface{}, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return result, nil
}

func (v *MessageValidator) registerBuiltInRules() {
	v.rules["non-empty"] = NewRule("non-empty", func(ctx context.Context, field string, value interface{}) *contracts.FieldError {
		if str, ok := value.(string); ok && strings.TrimSpace(str) == "" {
			return &contracts.FieldError{
				Field:   field,
				Message: "value cannot be empty",
				Code:    "NON_EMPTY_VIOLATION",
			}
		}
		return nil
	})

	v.rules["positive"] = NewRule("positive", func(ctx context.Context, field string, value interface{}) *contracts.FieldError {
		if num, ok := value.(float64); ok && num <= 0 {
			return &contracts.FieldError{
				Field:   field,
				Message: "value must be positive",
				Code:    "POSITIVE_VIOLATION",
			}
		}
		return nil
	})
}
