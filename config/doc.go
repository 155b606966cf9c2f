// Package config provides a thread-safe nested configuration store
// with dot-separated key addressing, file round-trips and environment
// binding.
//
// Key features:
//   - Nested settings addressed as "owner.name"; maps become sections
//   - Typed getters (GetString, GetInt, GetFloat, GetBool)
//   - JSON and YAML file round-trips, chosen by file extension
//   - Environment overlay via env-tagged structs
//   - A lazily constructed global store with scoped Temp overrides
//
// Basic usage:
//
//	cfg := config.New()
//	cfg.Set("owner.name", "liz")
//	cfg.Set("bus.allowUnhandled", true)
//
//	name, _ := cfg.GetString("owner.name")
//
//	if err := cfg.Save("busmate.yaml"); err != nil {
//	    log.Fatal(err)
//	}
//
// The package-level functions mirror the Configuration methods against
// one shared instance, so libraries and tests can agree on settings
// without threading a value through every constructor.
package config
