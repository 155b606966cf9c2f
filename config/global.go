package config

import (
	"github.com/glimte/busmate-go/singleton"
)

// The package-level functions operate on one shared configuration,
// constructed empty on first use.
var global = singleton.NewLazy(New)

// Get returns a setting from the global configuration.
func Get(key string) (interface{}, bool) {
	return global.Get().Get(key)
}

// GetDefault returns a setting from the global configuration, or
// fallback when it is unset.
func GetDefault(key string, fallback interface{}) interface{} {
	if value, ok := global.Get().Get(key); ok {
		return value
	}
	return fallback
}

// Set stores a setting in the global configuration.
func Set(key string, value interface{}) {
	global.Get().Set(key, value)
}

// Load replaces the global configuration with the contents of a file.
func Load(path string) error {
	loaded, err := LoadFile(path)
	if err != nil {
		return err
	}

	cfg := global.Get()
	cfg.Clear()
	cfg.Update(loaded.ToMap())
	return nil
}

// Save writes the global configuration to a file.
func Save(path string) error {
	return global.Get().Save(path)
}

// Clear discards the global configuration. The next access starts from
// an empty one.
func Clear() {
	global.Reset()
}

// Temp applies settings to the global configuration and returns a
// restore function that puts the previous settings back. Intended for
// scoped overrides in tests:
//
//	restore := config.Temp(map[string]interface{}{"owner.name": "liz"})
//	defer restore()
func Temp(settings map[string]interface{}) func() {
	cfg := global.Get()
	snapshot := cfg.Copy()

	for key, value := range settings {
		cfg.Set(key, value)
	}

	return func() {
		cfg.Clear()
		cfg.Update(snapshot.ToMap())
	}
}
