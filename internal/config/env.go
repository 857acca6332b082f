// Package config provides configuration parsing for wmstatus-go.
// This file implements environment variable expansion support for configuration values.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references in configuration values.
// Supports formats:
//   - ${VAR_NAME} - standard shell-like format
//   - ${VAR_NAME:-default} - with default value if unset or empty
//   - $VAR_NAME - simple format (word characters only)
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in a string.
// It supports the following formats:
//   - ${VAR_NAME} - replaced with value of VAR_NAME
//   - ${VAR_NAME:-default} - replaced with VAR_NAME's value, or "default" if unset/empty
//   - $VAR_NAME - replaced with value of VAR_NAME (simple format)
//
// Unknown or unset variables without defaults are replaced with empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Check for ${VAR} or ${VAR:-default} format
		if strings.HasPrefix(match, "${") && strings.HasSuffix(match, "}") {
			inner := match[2 : len(match)-1]

			// Check for default value syntax: VAR:-default
			if idx := strings.Index(inner, ":-"); idx >= 0 {
				varName := inner[:idx]
				defaultVal := inner[idx+2:]
				if val := os.Getenv(varName); val != "" {
					return val
				}
				return defaultVal
			}

			// Simple variable reference
			return os.Getenv(inner)
		}

		// Handle $VAR format (simple variable)
		if strings.HasPrefix(match, "$") {
			varName := match[1:]
			return os.Getenv(varName)
		}

		return match
	})
}

// ExpandEnvConfig expands environment variables in configuration values that
// name external resources. It modifies the Config in place, expanding ${VAR}
// and $VAR patterns in:
//   - Thermal path and monitor names
//   - Battery path and power supply names
//   - Network interface names
//   - Time zone names
//
// Zone labels and time layouts are left untouched.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Thermal.Path = ExpandEnv(cfg.Thermal.Path)
	for i, name := range cfg.Thermal.Monitors {
		cfg.Thermal.Monitors[i] = ExpandEnv(name)
	}

	cfg.Battery.Path = ExpandEnv(cfg.Battery.Path)
	for i, name := range cfg.Battery.Names {
		cfg.Battery.Names[i] = ExpandEnv(name)
	}

	for i, name := range cfg.Net.Interfaces {
		cfg.Net.Interfaces[i] = ExpandEnv(name)
	}

	for i, zone := range cfg.Clock.Zones {
		cfg.Clock.Zones[i].Name = ExpandEnv(zone.Name)
	}
}
