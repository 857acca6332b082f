// Package readout reads system state from Linux pseudo-files and the
// clock and formats it into the sections of a status line: hwmon
// temperatures, load averages, battery charge, network throughput and
// zone times. Each readout is recomputed from scratch on every
// collection cycle; a failed readout is reported as a typed error and
// rendered as a placeholder, never aborting the rest of the line.
package readout

import (
	"strings"
	"time"
)

// Default paths and formats used when a Settings field is empty.
const (
	DefaultThermalPath = "/sys/class/hwmon"
	DefaultBatteryPath = "/sys/class/power_supply"
	DefaultSeparator   = " "
	DefaultPlaceholder = "n/a"
	DefaultLocalFormat = "Mon 02 Jan 15:04 MST 2006"
	DefaultZoneFormat  = "15:04"

	defaultProcNetDev  = "/proc/net/dev"
	defaultProcLoadavg = "/proc/loadavg"
)

// Settings selects the sources, devices and formats a Collector reads.
// Empty fields fall back to the documented defaults.
type Settings struct {
	// ThermalPath is the hwmon base directory.
	ThermalPath string
	// Monitors is an explicit hwmon entry list; empty means scan
	// ThermalPath for hwmon* entries.
	Monitors []string
	// BatteryPath is the power supply base directory.
	BatteryPath string
	// Batteries is an explicit battery name list; empty means scan
	// BatteryPath for BAT* entries.
	Batteries []string
	// Interfaces is an explicit network interface list; empty means
	// every interface except the loopback.
	Interfaces []string
	// Zones lists the time zones rendered before the local time.
	Zones []Zone
	// LocalFormat is the Go layout for the local time readout.
	LocalFormat string
	// ZoneFormat is the Go layout for the zone time readouts.
	ZoneFormat string
	// Separator joins the sections of the composed line.
	Separator string
	// Placeholder substitutes the value of a failed readout.
	Placeholder string

	// procNetDevPath and procLoadavgPath override the /proc sources.
	procNetDevPath  string
	procLoadavgPath string
}

// Collector aggregates every configured readout into a Reading and
// composes the status line from it.
type Collector struct {
	thermal *thermalReader
	battery *batteryReader
	net     *netReader
	load    *loadReader
	clock   *clockReader

	separator   string
	placeholder string
}

// NewCollector creates a Collector for the given settings.
func NewCollector(s Settings) *Collector {
	if s.Separator == "" {
		s.Separator = DefaultSeparator
	}
	if s.Placeholder == "" {
		s.Placeholder = DefaultPlaceholder
	}
	return &Collector{
		thermal:     newThermalReader(s.ThermalPath, s.Monitors),
		battery:     newBatteryReader(s.BatteryPath, s.Batteries),
		net:         newNetReader(s.procNetDevPath, s.Interfaces),
		load:        newLoadReader(s.procLoadavgPath),
		clock:       newClockReader(s.Zones, s.LocalFormat, s.ZoneFormat),
		separator:   s.Separator,
		placeholder: s.Placeholder,
	}
}

// Placeholder returns the configured placeholder string.
func (c *Collector) Placeholder() string {
	return c.placeholder
}

// Collect takes a fresh snapshot of every configured readout. The
// returned Reading always carries every readout that succeeded; when
// one or more readouts failed, the error is a *CollectError describing
// each failure and the corresponding Text fields hold the placeholder.
func (c *Collector) Collect() (Reading, error) {
	var errs []*ReadoutError
	reading := Reading{Taken: time.Now()}

	c.collectTemps(&reading, &errs)
	c.collectLoad(&reading, &errs)
	c.collectBatteries(&reading, &errs)
	c.collectNet(&reading, &errs)
	c.collectClock(&reading, &errs)

	if len(errs) > 0 {
		return reading, &CollectError{Readouts: errs}
	}
	return reading, nil
}

// Compose renders a Reading into the status line. Sections whose
// hardware is absent (no monitors, no batteries) are omitted; sections
// whose readout failed carry the placeholder.
func (c *Collector) Compose(reading Reading) string {
	sections := make([]string, 0, 4+len(reading.Clock.Zones)+1)

	if len(reading.Temps) > 0 {
		parts := make([]string, len(reading.Temps))
		for i, t := range reading.Temps {
			parts[i] = t.Text
		}
		sections = append(sections, "T:"+strings.Join(parts, "|"))
	}

	sections = append(sections, "L:"+reading.Load.Text)

	if len(reading.Batteries) > 0 {
		parts := make([]string, len(reading.Batteries))
		for i, b := range reading.Batteries {
			parts[i] = b.Text
		}
		sections = append(sections, "B:"+strings.Join(parts, "|"))
	}

	sections = append(sections, "N:"+reading.Net.Text)

	for _, z := range reading.Clock.Zones {
		sections = append(sections, z.Text)
	}
	sections = append(sections, reading.Clock.Local)

	return strings.Join(sections, c.separator)
}

// CollectLine collects a fresh Reading and composes it in one call.
func (c *Collector) CollectLine() (string, error) {
	reading, err := c.Collect()
	return c.Compose(reading), err
}

func (c *Collector) collectTemps(reading *Reading, errs *[]*ReadoutError) {
	monitors, err := c.thermal.Monitors()
	if err != nil {
		*errs = append(*errs, NewReadoutError(SourceThermal, c.thermal.hwmonPath, err))
		return
	}

	for _, monitor := range monitors {
		temp := TempReading{Monitor: monitor}
		milli, err := c.thermal.ReadTemp(monitor)
		if err != nil {
			temp.Text = c.placeholder
			*errs = append(*errs, NewReadoutError(SourceThermal, monitor, err))
		} else {
			temp.Millidegrees = milli
			temp.Celsius = float64(milli) / 1000.0
			temp.Text = FormatTemp(milli)
			temp.OK = true
		}
		reading.Temps = append(reading.Temps, temp)
	}
}

func (c *Collector) collectLoad(reading *Reading, errs *[]*ReadoutError) {
	load, err := c.load.ReadLoadAvgs()
	if err != nil {
		reading.Load.Text = c.placeholder
		*errs = append(*errs, NewReadoutError(SourceLoad, c.load.procLoadavgPath, err))
		return
	}
	reading.Load = load
	reading.Load.Text = FormatLoadAvgs(load.Load1, load.Load5, load.Load15)
	reading.Load.OK = true
}

func (c *Collector) collectBatteries(reading *Reading, errs *[]*ReadoutError) {
	batteries, err := c.battery.Batteries()
	if err != nil {
		*errs = append(*errs, NewReadoutError(SourceBattery, c.battery.powerSupplyPath, err))
		return
	}

	for _, name := range batteries {
		batt := BatteryReading{Name: name}
		percent, status, err := c.battery.ReadBattery(name)
		if err != nil {
			batt.Text = c.placeholder
			*errs = append(*errs, NewReadoutError(SourceBattery, name, err))
		} else {
			batt.Percent = percent
			batt.Status = status
			batt.Text = FormatBattery(percent, status)
			batt.OK = true
		}
		reading.Batteries = append(reading.Batteries, batt)
	}
}

func (c *Collector) collectNet(reading *Reading, errs *[]*ReadoutError) {
	net, err := c.net.Read()
	if err != nil {
		reading.Net.Text = c.placeholder
		*errs = append(*errs, NewReadoutError(SourceNet, c.net.procNetDevPath, err))
		return
	}
	reading.Net = net
	reading.Net.Text = FormatThroughput(net.RxBytesPerSec, net.TxBytesPerSec)
	reading.Net.OK = true
}

func (c *Collector) collectClock(reading *Reading, errs *[]*ReadoutError) {
	for _, zone := range c.clock.Zones() {
		zt := ZoneTime{Label: zone.Label}
		t, err := c.clock.ZoneTime(zone.Name)
		if err != nil {
			zt.Text = zone.Label + ":" + c.placeholder
			*errs = append(*errs, NewReadoutError(SourceClock, zone.Name, err))
		} else {
			zt.Text = c.clock.FormatZone(zone.Label, t)
			zt.OK = true
		}
		reading.Clock.Zones = append(reading.Clock.Zones, zt)
	}
	reading.Clock.Local = c.clock.FormatLocal(c.clock.Local())
}
