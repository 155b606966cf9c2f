package main

import (
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/glimte/busmate-go/config"
	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliEnv holds settings picked up from the environment
type cliEnv struct {
	Verbose bool `env:"BUSMATE_VERBOSE"`
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "busmate",
		Short: "Inspect and manage busmate configuration",
		Long: `Busmate is the CLI companion for the busmate-go messaging library.
It reads, queries, and rewrites the configuration files the library loads.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildTime),
	}

	// Global flags
	var (
		configPath string
		verbose    bool
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "busmate.yaml", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// BUSMATE_VERBOSE turns verbose on without the flag, flag wins.
		if env, err := config.FromEnv[cliEnv](); err == nil && env.Verbose {
			verbose = true
		}
	}

	// Config command
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit configuration files",
		Long:  "Read, query, and rewrite YAML or JSON configuration files using dotted keys",
	}

	// Config show command
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show every setting as dotted keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			printSettings(cfg, verbose)
			return nil
		},
	}

	// Config get command
	configGetCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under a dotted key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			value, ok := cfg.Get(args[0])
			if !ok {
				return fmt.Errorf("key %q not found in %s", args[0], configPath)
			}

			fmt.Println(formatValue(value))
			return nil
		},
	}

	// Config set command
	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value under a dotted key and save the file",
		Long:  "Values that parse as booleans or numbers are stored as such; everything else is stored as a string.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			cfg.Set(args[0], parseScalar(args[1]))
			if err := cfg.Save(configPath); err != nil {
				return err
			}

			if verbose {
				fmt.Printf("wrote %s\n", configPath)
			}
			return nil
		},
	}

	// Config convert command
	configConvertCmd := &cobra.Command{
		Use:   "convert <output-path>",
		Short: "Rewrite the configuration in the format the output extension names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}

			if err := cfg.Save(args[0]); err != nil {
				return err
			}

			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configConvertCmd)
	rootCmd.AddCommand(configCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// Output formatting functions

func printSettings(cfg *config.Configuration, verbose bool) {
	settings := flatten("", cfg.ToMap())
	if len(settings) == 0 {
		fmt.Println("No settings found")
		return
	}

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if verbose {
		fmt.Printf("%-40s %-10s %s\n", "Key", "Type", "Value")
		fmt.Println(strings.Repeat("-", 70))
		for _, key := range keys {
			fmt.Printf("%-40s %-10T %s\n", truncate(key, 40), settings[key], formatValue(settings[key]))
		}
		return
	}

	for _, key := range keys {
		fmt.Printf("%-40s %s\n", truncate(key, 40), formatValue(settings[key]))
	}
}

// flatten turns nested maps into dotted keys
func flatten(prefix string, values map[string]interface{}) map[string]interface{} {
	flat := make(map[string]interface{})
	for key, value := range values {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if section, ok := value.(map[string]interface{}); ok {
			for k, v := range flatten(full, section) {
				flat[k] = v
			}
			continue
		}
		flat[full] = value
	}
	return flat
}

func formatValue(value interface{}) string {
	return fmt.Sprintf("%v", value)
}

// parseScalar interprets a CLI argument as bool, int, or float before
// falling back to a plain string.
func parseScalar(raw string) interface{} {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
