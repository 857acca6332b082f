package readout

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// netReader reads interface byte counters from /proc/net/dev and
// derives transfer rates from the delta between two samples.
type netReader struct {
	mu             sync.Mutex
	procNetDevPath string
	interfaces     map[string]bool
	prevRx         uint64
	prevTx         uint64
	prevTime       time.Time
	primed         bool
}

// newNetReader creates a netReader for the given /proc/net/dev path. An
// explicit interface list restricts the sum to those interfaces; an
// empty list selects every interface except the loopback.
func newNetReader(procNetDevPath string, interfaces []string) *netReader {
	if procNetDevPath == "" {
		procNetDevPath = defaultProcNetDev
	}
	var selected map[string]bool
	if len(interfaces) > 0 {
		selected = make(map[string]bool, len(interfaces))
		for _, name := range interfaces {
			selected[name] = true
		}
	}
	return &netReader{
		procNetDevPath: procNetDevPath,
		interfaces:     selected,
	}
}

// Read returns the current counter sums and the rates since the
// previous sample. Rates are zero on the first sample, when no time
// has elapsed, and when a counter wrapped.
func (r *netReader) Read() (NetReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rx, tx, err := r.readCounters()
	if err != nil {
		return NetReading{}, err
	}

	now := time.Now()
	reading := NetReading{
		RxBytes: rx,
		TxBytes: tx,
	}

	if r.primed {
		elapsed := now.Sub(r.prevTime).Seconds()
		reading.RxBytesPerSec = calculateRate(r.prevRx, rx, elapsed)
		reading.TxBytesPerSec = calculateRate(r.prevTx, tx, elapsed)
	}

	r.prevRx = rx
	r.prevTx = tx
	r.prevTime = now
	r.primed = true

	return reading, nil
}

// readCounters parses /proc/net/dev and sums the rx/tx byte counters
// over the selected interfaces.
func (r *netReader) readCounters() (rx, tx uint64, err error) {
	file, err := os.Open(r.procNetDevPath)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", r.procNetDevPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		// The first two lines are column headers.
		if lineNum <= 2 {
			continue
		}

		name, ifRx, ifTx, err := parseNetDevLine(scanner.Text())
		if err != nil {
			continue
		}
		if !r.selected(name) {
			continue
		}

		rx += ifRx
		tx += ifTx
	}

	if err := scanner.Err(); err != nil {
		return 0, 0, fmt.Errorf("scanning %s: %w", r.procNetDevPath, err)
	}

	return rx, tx, nil
}

// selected reports whether an interface contributes to the counter sum.
func (r *netReader) selected(name string) bool {
	if r.interfaces == nil {
		return name != "lo"
	}
	return r.interfaces[name]
}

// parseNetDevLine parses a single interface line from /proc/net/dev and
// returns the received and transmitted byte counters. The line format
// is "iface: rxbytes rxpackets ... (8 rx fields) txbytes ... (8 tx
// fields)".
func parseNetDevLine(line string) (string, uint64, uint64, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return "", 0, 0, fmt.Errorf("invalid line format: no colon separator")
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return "", 0, 0, fmt.Errorf("empty interface name")
	}

	fields := strings.Fields(parts[1])
	if len(fields) < 16 {
		return "", 0, 0, fmt.Errorf("insufficient fields: got %d, need 16", len(fields))
	}

	rx, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("parsing rx bytes: %w", err)
	}
	tx, err := strconv.ParseUint(fields[8], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("parsing tx bytes: %w", err)
	}

	return name, rx, tx, nil
}

// calculateRate calculates the rate of change per second. Returns 0
// when the counter wrapped around (curr < prev) and when no time has
// elapsed.
func calculateRate(prev, curr uint64, elapsed float64) float64 {
	if curr < prev {
		return 0.0
	}
	if elapsed <= 0 {
		return 0.0
	}
	return float64(curr-prev) / elapsed
}
