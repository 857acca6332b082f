package readout

import "fmt"

// rateUnits are the scale suffixes for FormatRate, each step 1024
// times the previous.
var rateUnits = []string{"B", "K", "M", "G"}

// FormatTemp renders a temperature in millidegrees Celsius as a
// zero-padded value with one decimal, e.g. "07.0°C" or "42.3°C".
// Output width is constant for temperatures between -9.9 and 99.9
// degrees.
func FormatTemp(millidegrees int64) string {
	return fmt.Sprintf("%04.1f°C", float64(millidegrees)/1000.0)
}

// FormatBattery renders a battery readout as a space-padded percentage
// followed by the status indicator, e.g. " 95%-" or "100%F". Output
// width is constant for percentages between 0 and 999.
func FormatBattery(percent float64, status BatteryStatus) string {
	return fmt.Sprintf("%3.0f%%%c", percent, status)
}

// FormatLoadAvgs renders the three load averages with two decimals
// each, e.g. "0.52 0.48 0.41".
func FormatLoadAvgs(load1, load5, load15 float64) string {
	return fmt.Sprintf("%.2f %.2f %.2f", load1, load5, load15)
}

// FormatRate renders a non-negative transfer rate as a fixed
// four-character cell: three characters of value and a one-letter
// scale suffix, e.g. "0.0B", "847K" or "1.2M". Values are scaled in
// steps of 1024; rates past the last unit render as " ERR".
func FormatRate(bytesPerSec float64) string {
	spd := bytesPerSec
	for _, unit := range rateUnits {
		switch {
		case spd < 9.95:
			return fmt.Sprintf("%1.1f%s", spd, unit)
		case spd < 999.5:
			return fmt.Sprintf("%3.0f%s", spd, unit)
		}
		spd /= 1024
	}
	return " ERR"
}

// FormatThroughput renders the receive/transmit rate pair,
// e.g. "↓847K ↑3.2K".
func FormatThroughput(rxBytesPerSec, txBytesPerSec float64) string {
	return fmt.Sprintf("↓%s ↑%s", FormatRate(rxBytesPerSec), FormatRate(txBytesPerSec))
}
