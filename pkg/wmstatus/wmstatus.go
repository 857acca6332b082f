package wmstatus

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"

	"github.com/opd-ai/go-wmstatus/internal/config"
)

// Configuration format constants for use with NewFromReader.
const (
	// FormatLua indicates the Lua configuration format.
	FormatLua = "lua"
	// FormatYAML indicates the YAML configuration format.
	FormatYAML = "yaml"
)

// WMStatus represents an embedded go-wmstatus instance with full lifecycle control.
// It is safe for concurrent use from multiple goroutines.
type WMStatus interface {
	// Start begins the refresh loop.
	// It returns immediately after starting; collection and delivery run in
	// background goroutines. The first line is composed right away rather
	// than after the first interval.
	// Returns an error if already running or if initialization fails.
	Start() error

	// Stop gracefully shuts down the instance.
	// It waits for all goroutines to complete before returning.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// Restart performs a stop followed by a start.
	// Configuration is reloaded from the original source.
	// Returns an error if restart fails; the instance will be in a stopped state.
	Restart() error

	// ReloadConfig reloads the configuration in-place without stopping.
	// This provides seamless hot-reload capability: the refresh loop continues
	// uninterrupted while configuration changes take effect.
	// Returns an error if configuration reload fails; the previous config remains active.
	ReloadConfig() error

	// Render collects one reading and returns the composed status line.
	// It works whether or not the instance is running and never touches the
	// output. Failed readouts render as the configured placeholder; the
	// returned error describes them, and the line is usable either way.
	Render() (string, error)

	// IsRunning returns true if the instance is currently running.
	IsRunning() bool

	// Status returns detailed status information about the instance.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously; do not block in the handler.
	// Implementations of WMStatus MUST recover from panics in the handler so
	// that a buggy handler cannot crash the embedding application.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Health returns a health check result for the instance.
	// This can be used for monitoring, alerting, and debugging.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	// Use Metrics().Snapshot() for a point-in-time copy of all metrics.
	// Use Metrics().RegisterExpvar() to expose metrics via /debug/vars.
	Metrics() *Metrics
}

// New creates a new WMStatus instance from a configuration file on disk.
// The configuration file can be in either Lua or YAML format.
// The instance is created but not started; call Start() to begin operation.
//
// Example:
//
//	s, err := wmstatus.New("/home/user/.config/wmstatus/wmstatus.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Stop()
//	if err := s.Start(); err != nil {
//		log.Fatal(err)
//	}
func New(configPath string, opts *Options) (WMStatus, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, err
		}
		defer p.Close()
		return loadValidated(p.ParseFile(configPath))
	}

	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &statusImpl{
		cfg:          cfg,
		opts:         *opts,
		configSource: configPath,
		configPath:   configPath,
		configLoader: loader,
	}, nil
}

// NewFromFS creates a new WMStatus instance using configuration from an
// embedded filesystem. This enables bundling configuration files within the
// application binary using Go's embed package.
//
// The fsys parameter should contain the configuration files, and configPath
// is the path within the filesystem to the main configuration file.
//
// Example:
//
//	//go:embed configs/*
//	var configFS embed.FS
//
//	s, err := wmstatus.NewFromFS(configFS, "configs/wmstatus.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
func NewFromFS(fsys fs.FS, configPath string, opts *Options) (WMStatus, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, err
		}
		defer p.Close()
		return loadValidated(p.ParseFromFS(fsys, configPath))
	}

	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config from FS: %w", err)
	}

	return &statusImpl{
		cfg:          cfg,
		opts:         *opts,
		configSource: "embedded:" + configPath,
		configLoader: loader,
	}, nil
}

// NewFromReader creates a new WMStatus instance from configuration content
// provided as an io.Reader. The format parameter specifies whether the
// content is "lua" or "yaml" format. This is useful for dynamically
// generated configurations.
//
// Example:
//
//	config := strings.NewReader(`
//		wmstatus.config = { interval = 2 }
//	`)
//	s, err := wmstatus.NewFromReader(config, wmstatus.FormatLua, nil)
func NewFromReader(r io.Reader, format string, opts *Options) (WMStatus, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	if format != FormatLua && format != FormatYAML {
		return nil, fmt.Errorf("invalid format: %s (expected '%s' or '%s')", format, FormatLua, FormatYAML)
	}

	// Read content once (can't re-read a Reader)
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	loader := func() (*config.Config, error) {
		p, err := config.NewParser()
		if err != nil {
			return nil, err
		}
		defer p.Close()
		return loadValidated(p.ParseReader(bytes.NewReader(content), format))
	}

	cfg, err := loader()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &statusImpl{
		cfg:          cfg,
		opts:         *opts,
		configSource: "reader",
		configLoader: loader,
	}, nil
}

// loadValidated passes a freshly parsed configuration through validation so
// that broken configurations are rejected at construction and on reload,
// never mid-refresh.
func loadValidated(cfg *config.Config, err error) (*config.Config, error) {
	if err != nil {
		return nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
