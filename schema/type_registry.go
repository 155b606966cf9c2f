package schema

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/glimte/busmate-go/contracts"
)

var (
	messageInterface = reflect.TypeOf((*contracts.Message)(nil)).Elem()
	baseMessageType  = reflect.TypeOf(contracts.BaseMessage{})
)

// TypeRegistry maps message type tags to Go types so messages can be
// constructed from their tag alone.
type TypeRegistry struct {
	types map[string]reflect.Type
	names map[reflect.Type]string
	mu    sync.RWMutex
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[string]reflect.Type),
		names: make(map[reflect.Type]string),
	}
}

// Register registers a message type under an explicit tag. The
// template may be a struct or a pointer to one, and its pointer type
// must implement contracts.Message. Registering the same type under
// the same tag again is a no-op; registering a different type under a
// taken tag is an error.
func (r *TypeRegistry) Register(messageType string, template interface{}) error {
	if messageType == "" {
		return fmt.Errorf("messageType cannot be empty")
	}
	if template == nil {
		return fmt.Errorf("template cannot be nil")
	}

	t := reflect.TypeOf(template)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("template must be a struct, got %v", t.Kind())
	}
	if !reflect.PointerTo(t).Implements(messageInterface) {
		return fmt.Errorf("*%v does not implement contracts.Message", t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.types[messageType]; exists {
		if existing == t {
			return nil
		}
		return fmt.Errorf("messageType %q already registered to %v", messageType, existing)
	}

	r.types[messageType] = t
	r.names[t] = messageType
	return nil
}

// RegisterType registers a message type under its struct name.
func (r *TypeRegistry) RegisterType(template interface{}) error {
	if template == nil {
		return fmt.Errorf("template cannot be nil")
	}

	t := reflect.TypeOf(template)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return fmt.Errorf("cannot determine type name for %v", t)
	}

	return r.Register(t.Name(), template)
}

// Get returns the Go type registered under a tag.
func (r *TypeRegistry) Get(messageType string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[messageType]
	return t, ok
}

// TypeName returns the tag a value's type was registered under.
func (r *TypeRegistry) TypeName(msg interface{}) (string, bool) {
	if msg == nil {
		return "", false
	}

	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.names[t]
	return name, ok
}

// Contains reports whether a tag is registered.
func (r *TypeRegistry) Contains(messageType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.types[messageType]
	return ok
}

// Types returns all registered tags in no particular order.
func (r *TypeRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.types))
	for messageType := range r.types {
		types = append(types, messageType)
	}
	return types
}

// NewInstance constructs a fresh instance of the type registered under
// a tag. When the type embeds contracts.BaseMessage the embedded base
// is initialized with a new identity and the registered tag, so the
// returned message is ready to dispatch. Types without an embedded
// base are returned zero-valued.
func (r *TypeRegistry) NewInstance(messageType string) (contracts.Message, error) {
	t, ok := r.Get(messageType)
	if !ok {
		return nil, fmt.Errorf("messageType %q is not registered", messageType)
	}

	instance := reflect.New(t)
	if base := instance.Elem().FieldByName("BaseMessage"); base.IsValid() && base.Type() == baseMessageType && base.CanSet() {
		base.Set(reflect.ValueOf(contracts.NewBaseMessage(messageType)))
	}

	return instance.Interface().(contracts.Message), nil
}
