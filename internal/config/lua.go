// Package config provides configuration parsing for wmstatus-go.
// This file implements the Lua configuration parser.

package config

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/arnodel/golua/lib"
	rt "github.com/arnodel/golua/runtime"
)

// LuaConfigParser parses Lua configuration files.
// It uses the Golua runtime to execute Lua code and extract configuration
// values from the wmstatus.config table.
type LuaConfigParser struct {
	runtime *rt.Runtime
	cleanup func()
	mu      sync.Mutex
}

// NewLuaConfigParser creates a new LuaConfigParser with a fresh Lua runtime.
func NewLuaConfigParser() (*LuaConfigParser, error) {
	return NewLuaConfigParserWithOutput(io.Discard)
}

// NewLuaConfigParserWithOutput creates a LuaConfigParser whose Lua print
// output goes to stdout.
func NewLuaConfigParserWithOutput(stdout io.Writer) (*LuaConfigParser, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	runtime := rt.New(stdout)
	cleanup := lib.LoadAll(runtime)

	return &LuaConfigParser{
		runtime: runtime,
		cleanup: cleanup,
	}, nil
}

// Parse parses a Lua configuration from content bytes.
// It executes the Lua code and extracts configuration from wmstatus.config.
func (p *LuaConfigParser) Parse(content []byte) (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Initialize wmstatus global table
	p.initGlobal()

	// Compile and execute the Lua configuration
	closure, err := p.runtime.CompileAndLoadLuaChunk(
		"config",
		content,
		rt.TableValue(p.runtime.GlobalEnv()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile Lua configuration: %w", err)
	}

	// Execute with resource limits
	ctx := rt.RuntimeContextDef{
		HardLimits: rt.RuntimeResources{
			Cpu:    10_000_000,
			Memory: 50 * 1024 * 1024, // 50 MB
		},
	}
	p.runtime.PushContext(ctx)
	defer p.runtime.PopContext()

	thread := p.runtime.MainThread()
	_, err = rt.Call1(thread, rt.FunctionValue(closure))
	if err != nil {
		return nil, fmt.Errorf("failed to execute Lua configuration: %w", err)
	}

	// Extract configuration from wmstatus.config table
	return p.extractConfig()
}

// initGlobal initializes the wmstatus global table for configuration parsing.
func (p *LuaConfigParser) initGlobal() {
	statusTable := rt.NewTable()

	// Initialize empty config table
	configTable := rt.NewTable()
	statusTable.Set(rt.StringValue("config"), rt.TableValue(configTable))

	p.runtime.GlobalEnv().Set(rt.StringValue("wmstatus"), rt.TableValue(statusTable))
}

// extractConfig extracts configuration values from the wmstatus global table.
func (p *LuaConfigParser) extractConfig() (*Config, error) {
	cfg := DefaultConfig()

	// Get wmstatus global
	statusVal := p.runtime.GlobalEnv().Get(rt.StringValue("wmstatus"))
	if statusVal == rt.NilValue {
		return &cfg, nil // Return defaults if no wmstatus table
	}

	statusTable, ok := statusVal.TryTable()
	if !ok {
		return nil, fmt.Errorf("wmstatus is not a table")
	}

	// Extract wmstatus.config table
	configVal := statusTable.Get(rt.StringValue("config"))
	if configTable, ok := configVal.TryTable(); ok {
		if err := p.extractConfigTable(&cfg, configTable); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// extractConfigTable extracts configuration values from the wmstatus.config table.
func (p *LuaConfigParser) extractConfigTable(cfg *Config, table *rt.Table) error {
	// Top-level settings
	if val := getTableFloat(table, "interval"); val != nil {
		cfg.Interval = time.Duration(*val * float64(time.Second))
	}
	if val := getTableString(table, "separator"); val != nil {
		cfg.Separator = *val
	}
	if val := getTableString(table, "placeholder"); val != nil {
		cfg.Placeholder = *val
	}

	// Per-readout tables
	if sub, ok := getTableTable(table, "thermal"); ok {
		if val := getTableString(sub, "path"); val != nil {
			cfg.Thermal.Path = *val
		}
		if vals := getTableStringList(sub, "monitors"); vals != nil {
			cfg.Thermal.Monitors = vals
		}
	}

	if sub, ok := getTableTable(table, "battery"); ok {
		if val := getTableString(sub, "path"); val != nil {
			cfg.Battery.Path = *val
		}
		if vals := getTableStringList(sub, "names"); vals != nil {
			cfg.Battery.Names = vals
		}
	}

	if sub, ok := getTableTable(table, "net"); ok {
		if vals := getTableStringList(sub, "interfaces"); vals != nil {
			cfg.Net.Interfaces = vals
		}
	}

	if sub, ok := getTableTable(table, "clock"); ok {
		if val := getTableString(sub, "local_format"); val != nil {
			cfg.Clock.LocalFormat = *val
		}
		if val := getTableString(sub, "zone_format"); val != nil {
			cfg.Clock.ZoneFormat = *val
		}
		zones, err := extractZones(sub)
		if err != nil {
			return err
		}
		if zones != nil {
			cfg.Clock.Zones = zones
		}
	}

	return nil
}

// extractZones reads the clock.zones array of {label, zone} tables.
func extractZones(table *rt.Table) ([]Zone, error) {
	val := table.Get(rt.StringValue("zones"))
	if val == rt.NilValue {
		return nil, nil
	}

	zonesTable, ok := val.TryTable()
	if !ok {
		return nil, fmt.Errorf("clock.zones is not a table")
	}

	var zones []Zone
	for i := int64(1); ; i++ {
		entry := zonesTable.Get(rt.IntValue(i))
		if entry == rt.NilValue {
			break
		}

		entryTable, ok := entry.TryTable()
		if !ok {
			return nil, fmt.Errorf("clock.zones[%d] is not a table", i)
		}

		label := getTableString(entryTable, "label")
		name := getTableString(entryTable, "zone")
		if label == nil || name == nil {
			return nil, fmt.Errorf("clock.zones[%d] requires label and zone strings", i)
		}
		zones = append(zones, Zone{Label: *label, Name: *name})
	}

	return zones, nil
}

// Close releases resources associated with the parser's Lua runtime.
func (p *LuaConfigParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleanup != nil {
		p.cleanup()
		p.cleanup = nil
	}
	return nil
}

// getTableTable retrieves a nested table from a Lua table.
// The second return is false if the key doesn't exist or is not a table.
func getTableTable(table *rt.Table, key string) (*rt.Table, bool) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, false
	}
	return val.TryTable()
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist or is not a string.
func getTableString(table *rt.Table, key string) *string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if s, ok := val.TryString(); ok {
		return &s
	}

	return nil
}

// getTableFloat retrieves a float64 value from a Lua table.
// Returns nil if the key doesn't exist or is not a number.
func getTableFloat(table *rt.Table, key string) *float64 {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	if n, ok := val.TryFloat(); ok {
		return &n
	}

	// Try int conversion
	if n, ok := val.TryInt(); ok {
		f := float64(n)
		return &f
	}

	return nil
}

// getTableStringList retrieves an array of strings from a Lua table.
// Returns nil if the key doesn't exist or is not a table; entries that
// are not strings are skipped.
func getTableStringList(table *rt.Table, key string) []string {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil
	}

	listTable, ok := val.TryTable()
	if !ok {
		return nil
	}

	var items []string
	for i := int64(1); ; i++ {
		entry := listTable.Get(rt.IntValue(i))
		if entry == rt.NilValue {
			break
		}
		if s, ok := entry.TryString(); ok {
			items = append(items, s)
		}
	}

	return items
}
