// Package config provides configuration parsing and validation for wmstatus-go.
// This file implements validation for configuration values, including time
// zone resolution.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues (e.g., relative sysfs paths).
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Validator provides comprehensive configuration validation.
type Validator struct {
	// strictMode promotes warnings to errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{
		strictMode: false,
	}
}

// WithStrictMode enables strict validation where warnings become errors.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs comprehensive validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateRefresh(cfg, result)
	v.validateThermal(&cfg.Thermal, result)
	v.validateBattery(&cfg.Battery, result)
	v.validateNet(&cfg.Net, result)
	v.validateClock(&cfg.Clock, result)

	return result
}

// warn records a non-fatal issue, or an error in strict mode.
func (v *Validator) warn(result *ValidationResult, field, message string) {
	if v.strictMode {
		result.AddError(field, message)
		return
	}
	result.AddWarning(field, message)
}

// validateRefresh validates the refresh loop and composition settings.
func (v *Validator) validateRefresh(cfg *Config, result *ValidationResult) {
	if cfg.Interval <= 0 {
		result.AddError("interval",
			fmt.Sprintf("must be positive, got %v", cfg.Interval))
	}

	// Warn on very fast refresh intervals (< 100ms)
	if cfg.Interval > 0 && cfg.Interval < 100*time.Millisecond {
		v.warn(result, "interval",
			fmt.Sprintf("very fast interval %v may cause high CPU usage", cfg.Interval))
	}

	// Warn on very slow refresh intervals (> 1 hour)
	if cfg.Interval > time.Hour {
		v.warn(result, "interval",
			fmt.Sprintf("very slow interval %v", cfg.Interval))
	}

	if cfg.Placeholder == "" {
		v.warn(result, "placeholder",
			"empty placeholder hides failed readouts")
	}
}

// validateThermal validates ThermalConfig settings.
func (v *Validator) validateThermal(tc *ThermalConfig, result *ValidationResult) {
	v.validateSysfsDir(tc.Path, "thermal.path", result)
	v.validateDeviceNames(tc.Monitors, "thermal.monitors", result)
}

// validateBattery validates BatteryConfig settings.
func (v *Validator) validateBattery(bc *BatteryConfig, result *ValidationResult) {
	v.validateSysfsDir(bc.Path, "battery.path", result)
	v.validateDeviceNames(bc.Names, "battery.names", result)
}

// validateNet validates NetConfig settings.
func (v *Validator) validateNet(nc *NetConfig, result *ValidationResult) {
	for i, name := range nc.Interfaces {
		if name == "" {
			result.AddError("net.interfaces",
				fmt.Sprintf("empty interface name at index %d", i))
			continue
		}
		if strings.ContainsAny(name, "/ \t") {
			result.AddError("net.interfaces",
				fmt.Sprintf("invalid interface name %q at index %d", name, i))
		}
	}
}

// validateClock validates ClockConfig settings.
func (v *Validator) validateClock(cc *ClockConfig, result *ValidationResult) {
	if cc.LocalFormat == "" {
		result.AddError("clock.local_format", "must not be empty")
	}
	if cc.ZoneFormat == "" && len(cc.Zones) > 0 {
		result.AddError("clock.zone_format", "must not be empty when zones are configured")
	}

	for i, zone := range cc.Zones {
		if zone.Label == "" {
			result.AddError(fmt.Sprintf("clock.zones[%d].label", i),
				"must not be empty")
		} else if utf8.RuneCountInString(zone.Label) > 1 {
			v.warn(result, fmt.Sprintf("clock.zones[%d].label", i),
				fmt.Sprintf("label %q is wider than one character", zone.Label))
		}

		if zone.Name == "" {
			result.AddError(fmt.Sprintf("clock.zones[%d].zone", i),
				"must not be empty")
			continue
		}
		if _, err := time.LoadLocation(zone.Name); err != nil {
			result.AddError(fmt.Sprintf("clock.zones[%d].zone", i),
				fmt.Sprintf("unknown time zone %q", zone.Name))
		}
	}
}

// validateSysfsDir validates a sysfs directory path.
// An empty path is valid; the readout falls back to its built-in default.
func (v *Validator) validateSysfsDir(path, field string, result *ValidationResult) {
	if path == "" {
		return
	}
	if !filepath.IsAbs(path) {
		v.warn(result, field,
			fmt.Sprintf("relative path %q", path))
	}
}

// validateDeviceNames validates a list of sysfs device names.
func (v *Validator) validateDeviceNames(names []string, field string, result *ValidationResult) {
	for i, name := range names {
		if name == "" {
			result.AddError(field,
				fmt.Sprintf("empty device name at index %d", i))
			continue
		}
		if strings.ContainsRune(name, '/') {
			result.AddError(field,
				fmt.Sprintf("device name %q at index %d must not contain a path separator", name, i))
		}
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	validator := NewValidator()
	result := validator.Validate(cfg)
	return result.Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
// Warnings such as relative sysfs paths are treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	validator := NewValidator().WithStrictMode(true)
	result := validator.Validate(cfg)
	return result.Error()
}
