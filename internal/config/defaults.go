package config

import (
	"time"

	"github.com/opd-ai/go-wmstatus/internal/readout"
)

// Default values for configuration options.
const (
	// DefaultInterval is the default time between refreshes (1 second).
	DefaultInterval = time.Second
	// DefaultSeparator is the default separator between sections.
	DefaultSeparator = readout.DefaultSeparator
	// DefaultPlaceholder is the default text for failed readouts.
	DefaultPlaceholder = readout.DefaultPlaceholder
	// DefaultThermalPath is the default hwmon sysfs directory.
	DefaultThermalPath = readout.DefaultThermalPath
	// DefaultBatteryPath is the default power supply sysfs directory.
	DefaultBatteryPath = readout.DefaultBatteryPath
	// DefaultLocalFormat is the default local time layout.
	DefaultLocalFormat = readout.DefaultLocalFormat
	// DefaultZoneFormat is the default zone time layout.
	DefaultZoneFormat = readout.DefaultZoneFormat
)

// DefaultConfig returns a Config with sensible default values.
// The defaults read every hwmon and BAT* device, total every non-loopback
// interface, and render the local time with no extra zones.
func DefaultConfig() Config {
	return Config{
		Interval:    DefaultInterval,
		Separator:   DefaultSeparator,
		Placeholder: DefaultPlaceholder,
		Thermal: ThermalConfig{
			Path: DefaultThermalPath,
		},
		Battery: BatteryConfig{
			Path: DefaultBatteryPath,
		},
		Clock: ClockConfig{
			LocalFormat: DefaultLocalFormat,
			ZoneFormat:  DefaultZoneFormat,
		},
	}
}

// DefaultThermalConfig returns a ThermalConfig with default values.
func DefaultThermalConfig() ThermalConfig {
	return DefaultConfig().Thermal
}

// DefaultBatteryConfig returns a BatteryConfig with default values.
func DefaultBatteryConfig() BatteryConfig {
	return DefaultConfig().Battery
}

// DefaultClockConfig returns a ClockConfig with default values.
func DefaultClockConfig() ClockConfig {
	return DefaultConfig().Clock
}
