package readout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeSystem builds a sysfs/procfs tree with one hwmon monitor, one
// battery, a loadavg file and a net/dev file, and returns Settings
// pointing at it.
func fakeSystem(t *testing.T) (Settings, string) {
	t.Helper()
	tmpDir := t.TempDir()

	hwmonDir := filepath.Join(tmpDir, "hwmon")
	hwmon0 := filepath.Join(hwmonDir, "hwmon0")
	if err := os.MkdirAll(hwmon0, 0o755); err != nil {
		t.Fatalf("failed to create hwmon0: %v", err)
	}
	writeFile(t, hwmon0, "temp1_input", "42300")

	powerDir := filepath.Join(tmpDir, "power_supply")
	bat0 := filepath.Join(powerDir, "BAT0")
	if err := os.MkdirAll(bat0, 0o755); err != nil {
		t.Fatalf("failed to create BAT0: %v", err)
	}
	writeFile(t, bat0, "present", "1")
	writeFile(t, bat0, "charge_full_design", "4000000")
	writeFile(t, bat0, "charge_now", "3000000")
	writeFile(t, bat0, "status", "Discharging")

	loadavg := filepath.Join(tmpDir, "loadavg")
	if err := os.WriteFile(loadavg, []byte("0.52 0.48 0.41 2/1234 5678\n"), 0o644); err != nil {
		t.Fatalf("failed to write loadavg: %v", err)
	}

	netdev := filepath.Join(tmpDir, "netdev")
	writeNetDev(t, netdev, netDevLine("eth0", 1000, 500))

	settings := Settings{
		ThermalPath:     hwmonDir,
		BatteryPath:     powerDir,
		Zones:           []Zone{{Label: "U", Name: "UTC"}},
		procNetDevPath:  netdev,
		procLoadavgPath: loadavg,
	}
	return settings, tmpDir
}

func TestCollectorCollect(t *testing.T) {
	settings, _ := fakeSystem(t)
	collector := NewCollector(settings)

	reading, err := collector.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if len(reading.Temps) != 1 {
		t.Fatalf("Temps count = %d, want 1", len(reading.Temps))
	}
	if !reading.Temps[0].OK {
		t.Error("Temps[0].OK = false, want true")
	}
	if reading.Temps[0].Text != "42.3°C" {
		t.Errorf("Temps[0].Text = %q, want %q", reading.Temps[0].Text, "42.3°C")
	}
	if reading.Temps[0].Celsius != 42.3 {
		t.Errorf("Temps[0].Celsius = %v, want 42.3", reading.Temps[0].Celsius)
	}

	if !reading.Load.OK {
		t.Error("Load.OK = false, want true")
	}

	if len(reading.Batteries) != 1 {
		t.Fatalf("Batteries count = %d, want 1", len(reading.Batteries))
	}
	if reading.Batteries[0].Text != " 75%-" {
		t.Errorf("Batteries[0].Text = %q, want %q", reading.Batteries[0].Text, " 75%-")
	}

	if !reading.Net.OK {
		t.Error("Net.OK = false, want true")
	}
	if reading.Net.RxBytes != 1000 {
		t.Errorf("Net.RxBytes = %d, want 1000", reading.Net.RxBytes)
	}

	if len(reading.Clock.Zones) != 1 {
		t.Fatalf("Clock.Zones count = %d, want 1", len(reading.Clock.Zones))
	}
	if !strings.HasPrefix(reading.Clock.Zones[0].Text, "U:") {
		t.Errorf("Clock.Zones[0].Text = %q, want U: prefix", reading.Clock.Zones[0].Text)
	}
	if reading.Clock.Local == "" {
		t.Error("Clock.Local is empty")
	}

	if reading.Taken.IsZero() {
		t.Error("Taken is zero")
	}
}

func TestCollectorCompose(t *testing.T) {
	settings, _ := fakeSystem(t)
	collector := NewCollector(settings)

	line, err := collector.CollectLine()
	if err != nil {
		t.Fatalf("CollectLine() error = %v", err)
	}

	for _, section := range []string{"T:42.3°C", "L:", "B: 75%-", "N:↓", "U:"} {
		if !strings.Contains(line, section) {
			t.Errorf("CollectLine() = %q, missing %q", line, section)
		}
	}
}

func TestCollectorMissingSensorYieldsPlaceholder(t *testing.T) {
	settings, _ := fakeSystem(t)
	// Name a monitor that has no temp1_input behind it.
	settings.Monitors = []string{"hwmon9"}
	collector := NewCollector(settings)

	reading, err := collector.Collect()
	if err == nil {
		t.Fatal("Collect() error = nil, want CollectError for missing monitor")
	}

	ce := AsCollectError(err)
	if ce == nil {
		t.Fatalf("Collect() error = %v, want *CollectError", err)
	}
	if !ce.HasSource(SourceThermal) {
		t.Errorf("CollectError sources = %v, want thermal", ce.Readouts)
	}

	if len(reading.Temps) != 1 {
		t.Fatalf("Temps count = %d, want 1", len(reading.Temps))
	}
	if reading.Temps[0].OK {
		t.Error("Temps[0].OK = true, want false")
	}
	if reading.Temps[0].Text != DefaultPlaceholder {
		t.Errorf("Temps[0].Text = %q, want %q", reading.Temps[0].Text, DefaultPlaceholder)
	}

	// The rest of the line still renders.
	line := collector.Compose(reading)
	if !strings.Contains(line, "T:"+DefaultPlaceholder) {
		t.Errorf("Compose() = %q, missing placeholder temp section", line)
	}
	if !strings.Contains(line, "B: 75%-") {
		t.Errorf("Compose() = %q, missing battery section", line)
	}
}

func TestCollectorAbsentHardwareOmitsSections(t *testing.T) {
	settings, _ := fakeSystem(t)
	settings.ThermalPath = filepath.Join(t.TempDir(), "empty-hwmon")
	settings.BatteryPath = filepath.Join(t.TempDir(), "empty-power")
	collector := NewCollector(settings)

	reading, err := collector.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	line := collector.Compose(reading)
	if strings.Contains(line, "T:") {
		t.Errorf("Compose() = %q, want no temperature section", line)
	}
	if strings.Contains(line, "B:") {
		t.Errorf("Compose() = %q, want no battery section", line)
	}
	if !strings.Contains(line, "L:") {
		t.Errorf("Compose() = %q, want load section", line)
	}
	if !strings.Contains(line, "N:") {
		t.Errorf("Compose() = %q, want net section", line)
	}
}

func TestCollectorFailedBatteryKeepsLine(t *testing.T) {
	settings, tmpDir := fakeSystem(t)
	bat0 := filepath.Join(tmpDir, "power_supply", "BAT0")
	if err := os.Remove(filepath.Join(bat0, "charge_now")); err != nil {
		t.Fatalf("failed to remove charge_now: %v", err)
	}

	collector := NewCollector(settings)
	reading, err := collector.Collect()
	if err == nil {
		t.Fatal("Collect() error = nil, want CollectError")
	}

	ce := AsCollectError(err)
	if ce == nil {
		t.Fatalf("Collect() error = %v, want *CollectError", err)
	}
	if !ce.HasSource(SourceBattery) {
		t.Error("CollectError missing battery source")
	}
	if ce.HasSource(SourceThermal) {
		t.Error("CollectError has thermal source, want battery only")
	}

	if len(reading.Batteries) != 1 {
		t.Fatalf("Batteries count = %d, want 1", len(reading.Batteries))
	}
	if reading.Batteries[0].Text != DefaultPlaceholder {
		t.Errorf("Batteries[0].Text = %q, want %q", reading.Batteries[0].Text, DefaultPlaceholder)
	}

	line := collector.Compose(reading)
	if !strings.Contains(line, "T:42.3°C") {
		t.Errorf("Compose() = %q, temperature section lost after battery failure", line)
	}
}

func TestCollectorNotPresentBattery(t *testing.T) {
	settings, tmpDir := fakeSystem(t)
	bat0 := filepath.Join(tmpDir, "power_supply", "BAT0")
	writeFile(t, bat0, "present", "0")

	collector := NewCollector(settings)
	_, err := collector.Collect()
	if err == nil {
		t.Fatal("Collect() error = nil, want CollectError")
	}
	if !errors.Is(err, ErrNotPresent) {
		t.Errorf("Collect() error = %v, want wrapped ErrNotPresent", err)
	}
}

func TestCollectorInvalidZonePlaceholder(t *testing.T) {
	settings, _ := fakeSystem(t)
	settings.Zones = []Zone{{Label: "X", Name: "Not/AZone"}}
	collector := NewCollector(settings)

	reading, err := collector.Collect()
	if err == nil {
		t.Fatal("Collect() error = nil, want CollectError for invalid zone")
	}
	if !IsReadoutError(err, SourceClock) {
		t.Errorf("Collect() error = %v, want clock readout error", err)
	}

	if len(reading.Clock.Zones) != 1 {
		t.Fatalf("Clock.Zones count = %d, want 1", len(reading.Clock.Zones))
	}
	want := "X:" + DefaultPlaceholder
	if reading.Clock.Zones[0].Text != want {
		t.Errorf("Clock.Zones[0].Text = %q, want %q", reading.Clock.Zones[0].Text, want)
	}
}

func TestCollectorSeparator(t *testing.T) {
	settings, _ := fakeSystem(t)
	settings.Separator = " | "
	collector := NewCollector(settings)

	line, err := collector.CollectLine()
	if err != nil {
		t.Fatalf("CollectLine() error = %v", err)
	}
	if !strings.Contains(line, " | ") {
		t.Errorf("CollectLine() = %q, want custom separator", line)
	}
}

func TestCollectorReadingIsFresh(t *testing.T) {
	settings, tmpDir := fakeSystem(t)
	collector := NewCollector(settings)

	first, err := collector.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	hwmon0 := filepath.Join(tmpDir, "hwmon", "hwmon0")
	writeFile(t, hwmon0, "temp1_input", "51200")
	time.Sleep(5 * time.Millisecond)

	second, err := collector.Collect()
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	if second.Temps[0].Millidegrees != 51200 {
		t.Errorf("second Temps[0].Millidegrees = %d, want 51200", second.Temps[0].Millidegrees)
	}
	if first.Temps[0].Millidegrees != 42300 {
		t.Errorf("first reading mutated: Millidegrees = %d, want 42300", first.Temps[0].Millidegrees)
	}
	if !second.Taken.After(first.Taken) {
		t.Errorf("second.Taken = %v, want after %v", second.Taken, first.Taken)
	}
}
