package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/go-wmstatus/pkg/wmstatus"
)

func TestVersionNotEmpty(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

// writeTestConfig writes a Lua configuration whose sysfs paths point at
// empty locations so tests do not depend on host hardware.
func writeTestConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "wmstatus.lua")
	content := fmt.Sprintf(`wmstatus.config = {
	interval = 1,
	thermal = { path = %q },
	battery = { path = %q },
	clock = { zones = { { label = "U", zone = "UTC" } } },
}
`, filepath.Join(dir, "hwmon"), filepath.Join(dir, "power_supply"))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunVersionFlag(t *testing.T) {
	if got := run([]string{"--version"}); got != 0 {
		t.Errorf("run(--version) = %d, want 0", got)
	}
	if got := run([]string{"-v"}); got != 0 {
		t.Errorf("run(-v) = %d, want 0", got)
	}
}

func TestRunHelpFlag(t *testing.T) {
	if got := run([]string{"--help"}); got != 0 {
		t.Errorf("run(--help) = %d, want 0", got)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	if got := run([]string{"--no-such-flag"}); got != 2 {
		t.Errorf("run(--no-such-flag) = %d, want 2", got)
	}
}

func TestRunUnexpectedArgument(t *testing.T) {
	if got := run([]string{"extra"}); got != 2 {
		t.Errorf("run(extra) = %d, want 2", got)
	}
}

func TestRunMissingConfigFile(t *testing.T) {
	if got := run([]string{"-c", "/nonexistent/wmstatus.lua", "-1"}); got != 1 {
		t.Errorf("run with missing config = %d, want 1", got)
	}
}

func TestRunInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte("wmstatus.config = {"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if got := run([]string{"-c", path, "-1"}); got != 1 {
		t.Errorf("run with broken config = %d, want 1", got)
	}
}

func TestRunOneshotWithConfig(t *testing.T) {
	path := writeTestConfig(t)

	if got := run([]string{"-c", path, "-1"}); got != 0 {
		t.Errorf("run oneshot = %d, want 0", got)
	}
}

func TestRunOneshotBuiltinDefaults(t *testing.T) {
	// Point XDG_CONFIG_HOME at an empty directory so no user
	// configuration is picked up and built-in defaults apply.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if got := run([]string{"-1"}); got != 0 {
		t.Errorf("run oneshot with defaults = %d, want 0", got)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got := defaultConfigPath(); got != "" {
		t.Errorf("defaultConfigPath() with no file = %q, want empty", got)
	}

	cfgDir := filepath.Join(dir, "wmstatus")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfgPath := filepath.Join(cfgDir, "wmstatus.lua")
	if err := os.WriteFile(cfgPath, []byte("wmstatus.config = { interval = 1 }\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if got := defaultConfigPath(); got != cfgPath {
		t.Errorf("defaultConfigPath() = %q, want %q", got, cfgPath)
	}
}

func TestDescribeSource(t *testing.T) {
	if got := describeSource(""); got != "built-in defaults" {
		t.Errorf("describeSource(\"\") = %q", got)
	}
	if got := describeSource("/etc/wmstatus.lua"); got != "/etc/wmstatus.lua" {
		t.Errorf("describeSource(path) = %q", got)
	}
}

func TestNewInstanceDefaults(t *testing.T) {
	opts := wmstatus.DefaultOptions()
	opts.Logger = wmstatus.NopLogger()
	opts.Metrics = wmstatus.NewMetrics()
	opts.ErrorTracker = wmstatus.NewErrorTracker(wmstatus.ErrorTrackerConfig{})

	s, err := newInstance("", &opts)
	if err != nil {
		t.Fatalf("newInstance(\"\") failed: %v", err)
	}
	if got := s.Status().ConfigSource; got != "reader" {
		t.Errorf("ConfigSource = %q, want %q", got, "reader")
	}
}

func TestNewInstanceFromFile(t *testing.T) {
	path := writeTestConfig(t)

	opts := wmstatus.DefaultOptions()
	opts.Logger = wmstatus.NopLogger()
	opts.Metrics = wmstatus.NewMetrics()
	opts.ErrorTracker = wmstatus.NewErrorTracker(wmstatus.ErrorTrackerConfig{})

	s, err := newInstance(path, &opts)
	if err != nil {
		t.Fatalf("newInstance(%q) failed: %v", path, err)
	}
	if got := s.Status().ConfigSource; got != path {
		t.Errorf("ConfigSource = %q, want %q", got, path)
	}
}
