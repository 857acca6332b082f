package wmstatus

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics provides application-level metrics collection for go-wmstatus.
// It uses Go's expvar package for exposition, which can be accessed via the
// /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := wmstatus.NewMetrics()
//	metrics.IncrementConfigReloads()
//	metrics.RecordRefreshLatency(15 * time.Millisecond)
//
//	// For HTTP exposition, import expvar's HTTP handler:
//	// import _ "expvar"
//	// This registers /debug/vars automatically.
type Metrics struct {
	// Counters
	starts         atomic.Int64
	stops          atomic.Int64
	restarts       atomic.Int64
	configReloads  atomic.Int64
	refreshCycles  atomic.Int64
	errorsTotal    atomic.Int64
	eventsEmitted  atomic.Int64
	collectErrors  atomic.Int64
	linesDelivered atomic.Int64
	outputErrors   atomic.Int64

	// Latency tracking (stored as nanoseconds)
	refreshLatencyNs    atomic.Int64
	refreshLatencyCount atomic.Int64
	collectLatencyNs    atomic.Int64
	collectLatencyCount atomic.Int64
	outputLatencyNs     atomic.Int64
	outputLatencyCount  atomic.Int64

	// Current state gauges
	currentlyRunning atomic.Int32
	readoutsOK       atomic.Int32

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// This makes metrics available at /debug/vars when an HTTP server is running.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	// Counters
	expvar.Publish("wmstatus_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("wmstatus_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("wmstatus_restarts_total", expvar.Func(func() any { return m.restarts.Load() }))
	expvar.Publish("wmstatus_config_reloads_total", expvar.Func(func() any { return m.configReloads.Load() }))
	expvar.Publish("wmstatus_refresh_cycles_total", expvar.Func(func() any { return m.refreshCycles.Load() }))
	expvar.Publish("wmstatus_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("wmstatus_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))
	expvar.Publish("wmstatus_collect_errors_total", expvar.Func(func() any { return m.collectErrors.Load() }))
	expvar.Publish("wmstatus_lines_delivered_total", expvar.Func(func() any { return m.linesDelivered.Load() }))
	expvar.Publish("wmstatus_output_errors_total", expvar.Func(func() any { return m.outputErrors.Load() }))

	// Gauges
	expvar.Publish("wmstatus_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("wmstatus_readouts_ok", expvar.Func(func() any { return m.readoutsOK.Load() }))

	// Latency averages (milliseconds)
	expvar.Publish("wmstatus_refresh_latency_avg_ms", expvar.Func(func() any {
		count := m.refreshLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.refreshLatencyNs.Load()) / float64(count) / 1e6
	}))
	expvar.Publish("wmstatus_collect_latency_avg_ms", expvar.Func(func() any {
		count := m.collectLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.collectLatencyNs.Load()) / float64(count) / 1e6
	}))
	expvar.Publish("wmstatus_output_latency_avg_ms", expvar.Func(func() any {
		count := m.outputLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.outputLatencyNs.Load()) / float64(count) / 1e6
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	refreshCount := m.refreshLatencyCount.Load()
	collectCount := m.collectLatencyCount.Load()
	outputCount := m.outputLatencyCount.Load()

	return MetricsSnapshot{
		Starts:         m.starts.Load(),
		Stops:          m.stops.Load(),
		Restarts:       m.restarts.Load(),
		ConfigReloads:  m.configReloads.Load(),
		RefreshCycles:  m.refreshCycles.Load(),
		ErrorsTotal:    m.errorsTotal.Load(),
		EventsEmitted:  m.eventsEmitted.Load(),
		CollectErrors:  m.collectErrors.Load(),
		LinesDelivered: m.linesDelivered.Load(),
		OutputErrors:   m.outputErrors.Load(),

		Running:    m.currentlyRunning.Load() > 0,
		ReadoutsOK: int(m.readoutsOK.Load()),

		RefreshLatencyAvg: safeDivide(m.refreshLatencyNs.Load(), refreshCount),
		CollectLatencyAvg: safeDivide(m.collectLatencyNs.Load(), collectCount),
		OutputLatencyAvg:  safeDivide(m.outputLatencyNs.Load(), outputCount),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Counters
	Starts         int64
	Stops          int64
	Restarts       int64
	ConfigReloads  int64
	RefreshCycles  int64
	ErrorsTotal    int64
	EventsEmitted  int64
	CollectErrors  int64
	LinesDelivered int64
	OutputErrors   int64

	// Gauges
	Running    bool
	ReadoutsOK int

	// Latency averages
	RefreshLatencyAvg time.Duration
	CollectLatencyAvg time.Duration
	OutputLatencyAvg  time.Duration
}

// Counter increment methods

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementRestarts records a restart operation.
func (m *Metrics) IncrementRestarts() {
	m.restarts.Add(1)
}

// IncrementConfigReloads records a configuration reload.
func (m *Metrics) IncrementConfigReloads() {
	m.configReloads.Add(1)
}

// IncrementRefreshCycles records a refresh cycle completion.
func (m *Metrics) IncrementRefreshCycles() {
	m.refreshCycles.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// IncrementCollectErrors records a collection cycle with failed readouts.
func (m *Metrics) IncrementCollectErrors() {
	m.collectErrors.Add(1)
}

// IncrementLinesDelivered records a status line delivered to the output.
func (m *Metrics) IncrementLinesDelivered() {
	m.linesDelivered.Add(1)
}

// IncrementOutputErrors records a failed output write.
func (m *Metrics) IncrementOutputErrors() {
	m.outputErrors.Add(1)
}

// Gauge methods

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// SetReadoutsOK updates the gauge of readouts that succeeded in the most
// recent collection cycle.
func (m *Metrics) SetReadoutsOK(count int) {
	m.readoutsOK.Store(int32(count))
}

// Latency recording methods

// RecordRefreshLatency records the duration of a full refresh cycle.
func (m *Metrics) RecordRefreshLatency(d time.Duration) {
	m.refreshLatencyNs.Add(d.Nanoseconds())
	m.refreshLatencyCount.Add(1)
}

// RecordCollectLatency records the duration of a collection pass.
func (m *Metrics) RecordCollectLatency(d time.Duration) {
	m.collectLatencyNs.Add(d.Nanoseconds())
	m.collectLatencyCount.Add(1)
}

// RecordOutputLatency records the duration of an output write.
func (m *Metrics) RecordOutputLatency(d time.Duration) {
	m.outputLatencyNs.Add(d.Nanoseconds())
	m.outputLatencyCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.starts.Store(0)
	m.stops.Store(0)
	m.restarts.Store(0)
	m.configReloads.Store(0)
	m.refreshCycles.Store(0)
	m.errorsTotal.Store(0)
	m.eventsEmitted.Store(0)
	m.collectErrors.Store(0)
	m.linesDelivered.Store(0)
	m.outputErrors.Store(0)

	m.refreshLatencyNs.Store(0)
	m.refreshLatencyCount.Store(0)
	m.collectLatencyNs.Store(0)
	m.collectLatencyCount.Store(0)
	m.outputLatencyNs.Store(0)
	m.outputLatencyCount.Store(0)

	m.currentlyRunning.Store(0)
	m.readoutsOK.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
