package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const keySeparator = "."

// Configuration is a thread-safe nested key/value store. Keys address
// nested settings with dot separators ("owner.name"); setting a
// map[string]interface{} converts it to a nested section, and setting
// through a dotted key creates intermediate sections as needed.
type Configuration struct {
	mu      sync.RWMutex
	storage map[string]interface{}
}

// New creates an empty configuration.
func New() *Configuration {
	return &Configuration{storage: make(map[string]interface{})}
}

// FromMap creates a configuration from nested map data.
func FromMap(data map[string]interface{}) *Configuration {
	c := New()
	for key, value := range data {
		c.Set(key, value)
	}
	return c
}

func splitKey(key string) (string, string) {
	if i := strings.Index(key, keySeparator); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// Get returns the value stored under a key. Sections are returned as
// *Configuration.
func (c *Configuration) Get(key string) (interface{}, bool) {
	if key == "" {
		return nil, false
	}

	head, rest := splitKey(key)

	c.mu.RLock()
	value, ok := c.storage[head]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if rest == "" {
		return value, true
	}

	section, ok := value.(*Configuration)
	if !ok {
		return nil, false
	}
	return section.Get(rest)
}

// GetString returns a string setting. The second result is false when
// the key is unset or holds a different type.
func (c *Configuration) GetString(key string) (string, bool) {
	value, ok := c.Get(key)
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt returns an integer setting. Whole float64 values, as produced
// by JSON decoding, convert cleanly.
func (c *Configuration) GetInt(key string) (int, bool) {
	value, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

// GetFloat returns a floating-point setting; integer values convert.
func (c *Configuration) GetFloat(key string) (float64, bool) {
	value, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// GetBool returns a boolean setting.
func (c *Configuration) GetBool(key string) (bool, bool) {
	value, ok := c.Get(key)
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Section returns the nested configuration stored under a key.
func (c *Configuration) Section(key string) (*Configuration, bool) {
	value, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	section, ok := value.(*Configuration)
	return section, ok
}

// Set stores a value under a key. Map values become nested sections;
// setting below a non-section value replaces it with a section.
func (c *Configuration) Set(key string, value interface{}) {
	if key == "" {
		return
	}

	head, rest := splitKey(key)
	if m, ok := value.(map[string]interface{}); ok {
		value = FromMap(m)
	}

	c.mu.Lock()
	if c.storage == nil {
		c.storage = make(map[string]interface{})
	}
	if rest == "" {
		c.storage[head] = value
		c.mu.Unlock()
		return
	}

	section, ok := c.storage[head].(*Configuration)
	if !ok {
		section = New()
		c.storage[head] = section
	}
	c.mu.Unlock()

	section.Set(rest, value)
}

// Delete removes a key and reports whether it was present.
func (c *Configuration) Delete(key string) bool {
	if key == "" {
		return false
	}

	head, rest := splitKey(key)
	if rest == "" {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.storage[head]; !ok {
			return false
		}
		delete(c.storage, head)
		return true
	}

	c.mu.RLock()
	section, ok := c.storage[head].(*Configuration)
	c.mu.RUnlock()
	if !ok {
		return false
	}
	return section.Delete(rest)
}

// Has reports whether a key is set.
func (c *Configuration) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Keys returns the top-level keys in sorted order.
func (c *Configuration) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.storage))
	for key := range c.storage {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top-level entries.
func (c *Configuration) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.storage)
}

// Clear removes every setting.
func (c *Configuration) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storage = make(map[string]interface{})
}

// Copy returns a deep copy; later changes to either configuration do
// not affect the other.
func (c *Configuration) Copy() *Configuration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copied := New()
	for key, value := range c.storage {
		if section, ok := value.(*Configuration); ok {
			copied.storage[key] = section.Copy()
		} else {
			copied.storage[key] = value
		}
	}
	return copied
}

// Update sets every entry from values. Keys may be dotted.
func (c *Configuration) Update(values map[string]interface{}) {
	for key, value := range values {
		c.Set(key, value)
	}
}

// ToMap converts the configuration to nested plain maps.
func (c *Configuration) ToMap() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]interface{}, len(c.storage))
	for key, value := range c.storage {
		if section, ok := value.(*Configuration); ok {
			result[key] = section.ToMap()
		} else {
			result[key] = value
		}
	}
	return result
}

// MarshalJSON implements json.Marshaler.
func (c *Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// UnmarshalJSON implements json.Unmarshaler, replacing the current
// contents.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}

	c.Clear()
	c.Update(values)
	return nil
}

// Save writes the configuration to a file, encoded as YAML when the
// path ends in .yaml or .yml and as indented JSON otherwise.
func (c *Configuration) Save(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c.ToMap())
	default:
		data, err = json.MarshalIndent(c.ToMap(), "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

// LoadFile reads a configuration from a file, decoding YAML or JSON by
// extension the same way Save encodes it.
func LoadFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	var values map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &values)
	default:
		err = json.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return FromMap(values), nil
}
