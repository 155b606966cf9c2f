package config

import (
	"encoding/json"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// FromEnv builds a struct of type T from environment variables using
// its env tags.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// BindEnv parses environment variables into target and stores the
// resulting values as a section under key. Field names inside the
// section follow the target's json tags.
func (c *Configuration) BindEnv(key string, target interface{}) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}

	if err := env.Parse(target); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	data, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("failed to encode environment values: %w", err)
	}
	var values map[string]interface{}
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to decode environment values: %w", err)
	}

	c.Set(key, values)
	return nil
}
