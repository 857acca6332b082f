package readout

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadReader reads the 1, 5 and 15 minute load averages. The sysinfo
// syscall is preferred; /proc/loadavg is the fallback when the syscall
// is unavailable or fails.
type loadReader struct {
	procLoadavgPath string
}

// newLoadReader creates a loadReader with the default /proc path.
func newLoadReader(procLoadavgPath string) *loadReader {
	if procLoadavgPath == "" {
		procLoadavgPath = defaultProcLoadavg
	}
	return &loadReader{
		procLoadavgPath: procLoadavgPath,
	}
}

// ReadLoadAvgs returns the three load averages.
func (r *loadReader) ReadLoadAvgs() (LoadReading, error) {
	if load1, load5, load15, ok := sysinfoLoadAvgs(); ok {
		return LoadReading{Load1: load1, Load5: load5, Load15: load15}, nil
	}

	load1, load5, load15, err := r.readProcLoadavg()
	if err != nil {
		return LoadReading{}, err
	}
	return LoadReading{Load1: load1, Load5: load5, Load15: load15}, nil
}

// readProcLoadavg parses the first three fields of /proc/loadavg.
func (r *loadReader) readProcLoadavg() (load1, load5, load15 float64, err error) {
	file, err := os.Open(r.procLoadavgPath)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("opening %s: %w", r.procLoadavgPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, 0, 0, fmt.Errorf("scanning %s: %w", r.procLoadavgPath, err)
		}
		return 0, 0, 0, fmt.Errorf("reading %s: empty file", r.procLoadavgPath)
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("parsing %s: got %d fields, need 3", r.procLoadavgPath, len(fields))
	}

	if load1, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("parsing load1: %w", err)
	}
	if load5, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return load1, 0, 0, fmt.Errorf("parsing load5: %w", err)
	}
	if load15, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return load1, load5, 0, fmt.Errorf("parsing load15: %w", err)
	}

	return load1, load5, load15, nil
}
