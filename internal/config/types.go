// Package config provides configuration data structures for wmstatus-go.
// It defines types for both Lua and YAML configuration formats, enabling
// parsing and validation of status line settings.
package config

import "time"

// Config represents the complete wmstatus-go configuration.
// It aggregates the refresh loop, line composition, and per-readout settings.
type Config struct {
	// Interval is the time between status line refreshes.
	Interval time.Duration
	// Separator is placed between status line sections.
	Separator string
	// Placeholder is rendered in place of a readout whose sensor failed.
	Placeholder string
	// Thermal contains temperature readout settings.
	Thermal ThermalConfig
	// Battery contains battery readout settings.
	Battery BatteryConfig
	// Net contains network throughput readout settings.
	Net NetConfig
	// Clock contains clock readout settings.
	Clock ClockConfig
}

// ThermalConfig holds temperature readout settings.
type ThermalConfig struct {
	// Path is the hwmon sysfs directory scanned for monitors.
	Path string
	// Monitors restricts the readout to the named hwmon entries.
	// When empty, every hwmon* entry under Path is read.
	Monitors []string
}

// BatteryConfig holds battery readout settings.
type BatteryConfig struct {
	// Path is the power supply sysfs directory scanned for batteries.
	Path string
	// Names restricts the readout to the named power supply entries.
	// When empty, every BAT* entry under Path is read.
	Names []string
}

// NetConfig holds network throughput readout settings.
type NetConfig struct {
	// Interfaces restricts throughput totals to the named interfaces.
	// When empty, every interface except the loopback is totalled.
	Interfaces []string
}

// ClockConfig holds clock readout settings.
type ClockConfig struct {
	// Zones lists additional time zones rendered before the local time.
	Zones []Zone
	// LocalFormat is the time layout for the local clock.
	LocalFormat string
	// ZoneFormat is the time layout for each zone clock.
	ZoneFormat string
}

// Zone names a time zone and the label it is rendered under.
type Zone struct {
	// Label prefixes the rendered zone time (e.g. "B" for "B:14:05").
	Label string
	// Name is the IANA time zone name (e.g. "Europe/Berlin").
	Name string
}
