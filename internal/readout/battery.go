package readout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// batteryReader reads battery state from /sys/class/power_supply.
type batteryReader struct {
	powerSupplyPath string
	names           []string
}

// newBatteryReader creates a batteryReader for the given base path. An
// explicit name list disables autodiscovery; an empty list scans
// powerSupplyPath for BAT* entries.
func newBatteryReader(powerSupplyPath string, names []string) *batteryReader {
	if powerSupplyPath == "" {
		powerSupplyPath = DefaultBatteryPath
	}
	return &batteryReader{
		powerSupplyPath: powerSupplyPath,
		names:           names,
	}
}

// Batteries returns the battery entries to read: the configured list
// when one was given, otherwise a sorted scan of powerSupplyPath. A
// missing base directory yields an empty list, not an error.
func (r *batteryReader) Batteries() ([]string, error) {
	if len(r.names) > 0 {
		return append([]string(nil), r.names...), nil
	}
	return scanEntries(r.powerSupplyPath, "BAT")
}

// ReadBattery reads the charge percentage and status indicator of one
// battery entry. The percentage is relative to the design capacity.
// Charge-based and energy-based batteries are both handled; a battery
// whose present flag is 0 yields an error wrapping ErrNotPresent.
func (r *batteryReader) ReadBattery(name string) (float64, BatteryStatus, error) {
	dir := filepath.Join(r.powerSupplyPath, name)

	present, err := readStringFile(filepath.Join(dir, "present"))
	if err != nil {
		return 0, StatusUnknown, fmt.Errorf("reading %s: %w", filepath.Join(dir, "present"), err)
	}
	if !strings.HasPrefix(present, "1") {
		return 0, StatusUnknown, fmt.Errorf("%s: %w", name, ErrNotPresent)
	}

	full, err := readFirstUint64(
		filepath.Join(dir, "charge_full_design"),
		filepath.Join(dir, "energy_full_design"),
	)
	if err != nil {
		return 0, StatusUnknown, fmt.Errorf("reading %s design capacity: %w", name, err)
	}
	if full == 0 {
		return 0, StatusUnknown, fmt.Errorf("%s: zero design capacity", name)
	}

	now, err := readFirstUint64(
		filepath.Join(dir, "charge_now"),
		filepath.Join(dir, "energy_now"),
	)
	if err != nil {
		return 0, StatusUnknown, fmt.Errorf("reading %s remaining capacity: %w", name, err)
	}

	// An unreadable status file is reported as unknown, not an error.
	status := StatusUnknown
	if text, err := readStringFile(filepath.Join(dir, "status")); err == nil {
		switch text {
		case "Full":
			status = StatusFull
		case "Discharging":
			status = StatusDischarging
		case "Charging":
			status = StatusCharging
		}
	}

	return float64(now) / float64(full) * 100, status, nil
}

// readFirstUint64 reads the first of the given sysfs files that exists.
func readFirstUint64(paths ...string) (uint64, error) {
	var err error
	for _, path := range paths {
		var val uint64
		val, err = readUint64File(path)
		if err == nil {
			return val, nil
		}
	}
	return 0, err
}

// readStringFile reads a trimmed string value from a sysfs file.
func readStringFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readInt64File reads an integer value from a sysfs file.
func readInt64File(path string) (int64, error) {
	str, err := readStringFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(str, 10, 64)
}

// readUint64File reads an unsigned integer value from a sysfs file.
func readUint64File(path string) (uint64, error) {
	str, err := readStringFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(str, 10, 64)
}
