package readout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// thermalReader reads temperatures from hwmon monitors under sysfs.
type thermalReader struct {
	hwmonPath string
	monitors  []string
}

// newThermalReader creates a thermalReader for the given base path. An
// explicit monitor list disables autodiscovery; an empty list scans
// hwmonPath for hwmon* entries.
func newThermalReader(hwmonPath string, monitors []string) *thermalReader {
	if hwmonPath == "" {
		hwmonPath = DefaultThermalPath
	}
	return &thermalReader{
		hwmonPath: hwmonPath,
		monitors:  monitors,
	}
}

// Monitors returns the hwmon entries to read: the configured list when
// one was given, otherwise a sorted scan of hwmonPath. A missing base
// directory yields an empty list, not an error.
func (r *thermalReader) Monitors() ([]string, error) {
	if len(r.monitors) > 0 {
		return append([]string(nil), r.monitors...), nil
	}
	return scanEntries(r.hwmonPath, "hwmon")
}

// ReadTemp reads the temp1_input value of one monitor entry, in
// millidegrees Celsius.
func (r *thermalReader) ReadTemp(monitor string) (int64, error) {
	path := filepath.Join(r.hwmonPath, monitor, "temp1_input")
	val, err := readInt64File(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return val, nil
}

// scanEntries lists basePath entries whose name starts with prefix,
// sorted by name. Entries are matched by name only so that the sysfs
// symlink layout under class directories is handled the same way as a
// plain directory tree.
func scanEntries(basePath, prefix string) ([]string, error) {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", basePath, err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
