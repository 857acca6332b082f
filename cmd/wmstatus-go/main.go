// Package main provides the entry point for the wmstatus-go status line
// daemon. It composes a single line of system readouts (battery, network
// throughput, temperature, load average, clocks) and publishes it to the
// X root window name, which minimalist window managers such as dwm
// render as their status bar.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/opd-ai/go-wmstatus/internal/profiling"
	"github.com/opd-ai/go-wmstatus/pkg/wmstatus"
)

// Version is the current version of wmstatus-go.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("wmstatus-go", pflag.ContinueOnError)
	configPath := flags.StringP("config", "c", "", "path to configuration file (Lua or YAML)")
	toStdout := flags.BoolP("stdout", "s", false, "write status lines to stdout instead of the X root window")
	oneshot := flags.BoolP("oneshot", "1", false, "render a single status line to stdout and exit")
	interval := flags.DurationP("interval", "i", 0, "override the configured refresh interval (e.g. 2s)")
	watch := flags.BoolP("watch", "w", false, "reload the configuration when the file changes on disk")
	debug := flags.Bool("debug", false, "enable debug logging and runtime memory tracking")
	version := flags.BoolP("version", "v", false, "print version and exit")
	cpuProfile := flags.String("cpuprofile", "", "write a CPU profile to this file")
	memProfile := flags.String("memprofile", "", "write a heap profile to this file on exit")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, `wmstatus-go publishes a status line to the X root window name.

Without --config, $XDG_CONFIG_HOME/wmstatus/wmstatus.lua is used when it
exists; otherwise built-in defaults apply.

Usage:
  wmstatus-go [flags]

Flags:
`)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "wmstatus-go: %v\n", err)
		return 2
	}

	if *version {
		fmt.Printf("wmstatus-go version %s\n", Version)
		return 0
	}

	if rest := flags.Args(); len(rest) > 0 {
		fmt.Fprintf(os.Stderr, "wmstatus-go: unexpected argument: %s\n", rest[0])
		return 2
	}

	// Initialize profiling if requested.
	profCfg := profiling.Config{CPUProfile: *cpuProfile, MemProfile: *memProfile}
	if profCfg.Enabled() {
		prof := profiling.New(profCfg)
		if err := prof.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "wmstatus-go: start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := prof.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "wmstatus-go: stop profiling: %v\n", err)
			}
		}()
	}

	opts := wmstatus.DefaultOptions()
	opts.Interval = *interval
	opts.WatchConfig = *watch
	if *debug {
		opts.Logger = wmstatus.DebugLogger()
	} else {
		opts.Logger = wmstatus.DefaultLogger()
	}
	if *toStdout {
		out := wmstatus.NewWriterOutput(os.Stdout)
		defer out.Close()
		opts.Output = out
	}
	logger := opts.Logger

	path := *configPath
	if path == "" {
		path = defaultConfigPath()
	} else if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "wmstatus-go: configuration file not found: %s\n", path)
		} else {
			fmt.Fprintf(os.Stderr, "wmstatus-go: access configuration file %s: %v\n", path, err)
		}
		return 1
	}
	if path == "" && *watch {
		logger.Warn("--watch ignored: no configuration file to watch")
	}

	s, err := newInstance(path, &opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wmstatus-go: %v\n", err)
		return 1
	}

	if *oneshot {
		line, err := s.Render()
		if err != nil {
			fmt.Fprintf(os.Stderr, "wmstatus-go: %v\n", err)
		}
		fmt.Println(line)
		return 0
	}

	s.SetErrorHandler(func(err error) {
		logger.Warn("runtime error", "error", err)
	})
	if *debug {
		s.SetEventHandler(func(e wmstatus.Event) {
			logger.Debug("lifecycle event", "type", e.Type.String(), "message", e.Message)
		})

		memWatch := profiling.NewMemoryWatch(profiling.DefaultWatchConfig())
		memWatch.OnSuspect(func(g profiling.Growth) {
			logger.Warn("possible memory leak", "growth", g.String())
		})
		if err := memWatch.Start(); err != nil {
			logger.Warn("memory watch not started", "error", err)
		} else {
			defer memWatch.Stop()
		}
	}

	if err := s.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "wmstatus-go: failed to start: %v\n", err)
		return 1
	}
	logger.Info("wmstatus-go started", "version", Version, "config", describeSource(path))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting")
			if err := s.Restart(); err != nil {
				logger.Error("restart failed", "error", err)
			}
		default:
			logger.Info("shutting down", "signal", sig.String())
			if err := s.Stop(); err != nil {
				fmt.Fprintf(os.Stderr, "wmstatus-go: stop error: %v\n", err)
				return 1
			}
			return 0
		}
	}

	return 0
}

// newInstance builds the WMStatus instance. An empty path means no
// configuration file was found, so built-in defaults apply.
func newInstance(path string, opts *wmstatus.Options) (wmstatus.WMStatus, error) {
	if path != "" {
		return wmstatus.New(path, opts)
	}
	return wmstatus.NewFromReader(strings.NewReader(""), wmstatus.FormatYAML, opts)
}

// defaultConfigPath locates the user configuration following the XDG
// base directory convention. Returns empty when no file exists there.
func defaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	path := filepath.Join(base, "wmstatus", "wmstatus.lua")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func describeSource(path string) string {
	if path == "" {
		return "built-in defaults"
	}
	return path
}
