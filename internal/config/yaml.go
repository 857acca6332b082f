// Package config provides configuration parsing for wmstatus-go.
// This file implements the YAML configuration parser.

package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlConfig mirrors Config with optional fields so absent keys fall back
// to defaults rather than zero values. The interval is given in seconds.
type yamlConfig struct {
	Interval    *float64 `yaml:"interval"`
	Separator   *string  `yaml:"separator"`
	Placeholder *string  `yaml:"placeholder"`
	Thermal     struct {
		Path     *string  `yaml:"path"`
		Monitors []string `yaml:"monitors"`
	} `yaml:"thermal"`
	Battery struct {
		Path  *string  `yaml:"path"`
		Names []string `yaml:"names"`
	} `yaml:"battery"`
	Net struct {
		Interfaces []string `yaml:"interfaces"`
	} `yaml:"net"`
	Clock struct {
		Zones []struct {
			Label string `yaml:"label"`
			Zone  string `yaml:"zone"`
		} `yaml:"zones"`
		LocalFormat *string `yaml:"local_format"`
		ZoneFormat  *string `yaml:"zone_format"`
	} `yaml:"clock"`
}

// YAMLParser parses YAML configuration files.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse parses a YAML configuration from content bytes.
// Keys absent from the document keep their default values.
func (p *YAMLParser) Parse(content []byte) (*Config, error) {
	var raw yamlConfig
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	cfg := DefaultConfig()

	if raw.Interval != nil {
		cfg.Interval = time.Duration(*raw.Interval * float64(time.Second))
	}
	if raw.Separator != nil {
		cfg.Separator = *raw.Separator
	}
	if raw.Placeholder != nil {
		cfg.Placeholder = *raw.Placeholder
	}

	if raw.Thermal.Path != nil {
		cfg.Thermal.Path = *raw.Thermal.Path
	}
	if raw.Thermal.Monitors != nil {
		cfg.Thermal.Monitors = raw.Thermal.Monitors
	}

	if raw.Battery.Path != nil {
		cfg.Battery.Path = *raw.Battery.Path
	}
	if raw.Battery.Names != nil {
		cfg.Battery.Names = raw.Battery.Names
	}

	if raw.Net.Interfaces != nil {
		cfg.Net.Interfaces = raw.Net.Interfaces
	}

	if raw.Clock.LocalFormat != nil {
		cfg.Clock.LocalFormat = *raw.Clock.LocalFormat
	}
	if raw.Clock.ZoneFormat != nil {
		cfg.Clock.ZoneFormat = *raw.Clock.ZoneFormat
	}
	for _, z := range raw.Clock.Zones {
		cfg.Clock.Zones = append(cfg.Clock.Zones, Zone{Label: z.Label, Name: z.Zone})
	}

	return &cfg, nil
}
