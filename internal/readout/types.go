package readout

import "time"

// Reading is a single snapshot of every configured readout. It is
// recomputed from scratch on each collection cycle and holds both the
// raw numeric values and their formatted string counterparts. Failed
// readouts carry the collector's placeholder in their Text field.
type Reading struct {
	// Taken is the time the snapshot was collected.
	Taken time.Time
	// Temps holds one entry per thermal monitor, in monitor order.
	// Empty when no monitors are configured or discovered.
	Temps []TempReading
	// Load holds the three load averages.
	Load LoadReading
	// Batteries holds one entry per battery, in battery order.
	// Empty when no batteries are configured or discovered.
	Batteries []BatteryReading
	// Net holds byte counters and transfer rates over the selected
	// network interfaces.
	Net NetReading
	// Clock holds the configured zone times and the local time.
	Clock ClockReading
}

// TempReading is one thermal monitor readout.
type TempReading struct {
	// Monitor is the hwmon entry name (e.g., "hwmon0").
	Monitor string
	// Millidegrees is the raw sensor value in millidegrees Celsius.
	Millidegrees int64
	// Celsius is the sensor value in degrees Celsius.
	Celsius float64
	// Text is the formatted value, or the placeholder on failure.
	Text string
	// OK reports whether the readout succeeded.
	OK bool
}

// LoadReading holds the 1, 5 and 15 minute load averages.
type LoadReading struct {
	Load1  float64
	Load5  float64
	Load15 float64
	// Text is the formatted triple, or the placeholder on failure.
	Text string
	// OK reports whether the readout succeeded.
	OK bool
}

// BatteryStatus is the single-character charge state indicator shown
// after the battery percentage.
type BatteryStatus byte

const (
	StatusFull        BatteryStatus = 'F'
	StatusDischarging BatteryStatus = '-'
	StatusCharging    BatteryStatus = '+'
	StatusUnknown     BatteryStatus = '?'
)

// BatteryReading is one battery readout.
type BatteryReading struct {
	// Name is the power supply entry name (e.g., "BAT0").
	Name string
	// Percent is the remaining charge relative to the design capacity.
	Percent float64
	// Status is the charge state indicator.
	Status BatteryStatus
	// Text is the formatted value, or the placeholder on failure.
	Text string
	// OK reports whether the readout succeeded.
	OK bool
}

// NetReading holds byte counters summed over the selected interfaces
// and the transfer rates derived from the previous sample.
type NetReading struct {
	// RxBytes and TxBytes are the raw counter sums.
	RxBytes uint64
	TxBytes uint64
	// RxBytesPerSec and TxBytesPerSec are the rates since the previous
	// sample. Both are zero on the first sample, when no time has
	// elapsed, and when a counter wrapped.
	RxBytesPerSec float64
	TxBytesPerSec float64
	// Text is the formatted rate pair, or the placeholder on failure.
	Text string
	// OK reports whether the readout succeeded.
	OK bool
}

// ZoneTime is one formatted time zone readout.
type ZoneTime struct {
	// Label is the configured display label.
	Label string
	// Text is "label:time", with the placeholder as the time part when
	// the zone could not be loaded.
	Text string
	// OK reports whether the zone resolved.
	OK bool
}

// ClockReading holds the configured zone times and the local time.
type ClockReading struct {
	Zones []ZoneTime
	Local string
}

// Zone pairs a display label with an IANA time zone name.
type Zone struct {
	Label string
	Name  string
}
