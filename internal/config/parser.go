// Package config provides configuration parsing for wmstatus-go.
// This file implements the unified parser that auto-detects the configuration format.

package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
)

// Parser provides a unified interface for parsing configuration files.
// It automatically detects whether a file uses Lua or YAML format.
type Parser struct {
	luaParser  *LuaConfigParser
	yamlParser *YAMLParser
}

// NewParser creates a new Parser that can handle both Lua and YAML configurations.
func NewParser() (*Parser, error) {
	luaParser, err := NewLuaConfigParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create Lua parser: %w", err)
	}

	return &Parser{
		luaParser:  luaParser,
		yamlParser: NewYAMLParser(),
	}, nil
}

// ParseFile reads and parses a configuration file, auto-detecting the format.
// Returns a Config on success or an error if parsing fails.
func (p *Parser) ParseFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return p.Parse(content)
}

// Parse parses configuration content, auto-detecting the format.
// It uses the presence of a "wmstatus.config =" assignment to detect Lua
// format and treats everything else as YAML. Environment variable
// references in the parsed values are expanded.
func (p *Parser) Parse(content []byte) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if isLuaConfig(content) {
		cfg, err = p.luaParser.Parse(content)
	} else {
		cfg, err = p.yamlParser.Parse(content)
	}
	if err != nil {
		return nil, err
	}

	ExpandEnvConfig(cfg)
	return cfg, nil
}

// luaConfigPattern matches "wmstatus.config" followed by optional whitespace
// and "=" at the start of a line (not inside a comment).
// This pattern identifies Lua configuration format and reduces false positives
// from YAML documents that might mention "wmstatus.config".
var luaConfigPattern = regexp.MustCompile(`(?m)^\s*wmstatus\.config\s*=`)

// isLuaConfig determines if the content is a Lua configuration.
// It uses a regex pattern to match "wmstatus.config =" at the start of a line,
// which is the Lua format marker.
func isLuaConfig(content []byte) bool {
	return luaConfigPattern.Match(content)
}

// ParseFromFS reads and parses a configuration file from a filesystem.
// It auto-detects the format (Lua or YAML) based on content.
func (p *Parser) ParseFromFS(fsys fs.FS, path string) (*Config, error) {
	content, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS %s: %w", path, err)
	}

	return p.Parse(content)
}

// ParseReader parses configuration from an io.Reader.
// The format parameter must be "lua" or "yaml".
// Use this for dynamically generated configurations.
func (p *Parser) ParseReader(r io.Reader, format string) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg *Config
	switch format {
	case "lua":
		cfg, err = p.luaParser.Parse(content)
	case "yaml":
		cfg, err = p.yamlParser.Parse(content)
	default:
		return nil, fmt.Errorf("unknown format: %s (expected 'lua' or 'yaml')", format)
	}
	if err != nil {
		return nil, err
	}

	ExpandEnvConfig(cfg)
	return cfg, nil
}

// Close releases resources associated with the parser.
func (p *Parser) Close() error {
	if p.luaParser != nil {
		return p.luaParser.Close()
	}
	return nil
}
