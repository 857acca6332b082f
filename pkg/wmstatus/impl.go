package wmstatus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-wmstatus/internal/config"
	"github.com/opd-ai/go-wmstatus/internal/readout"
	"github.com/opd-ai/go-wmstatus/internal/xroot"
)

// statusImpl is the private implementation of the WMStatus interface.
type statusImpl struct {
	// Configuration
	cfg          *config.Config
	opts         Options
	configSource string
	configPath   string // Disk path for hot-reload watching (empty otherwise)
	configLoader func() (*config.Config, error)

	// Components
	collector *readout.Collector
	output    Output
	ownOutput bool // Output opened by Start; closed when the loop exits
	watcher   *configWatcher
	metrics   *Metrics
	tracker   *ErrorTracker

	// State
	running     atomic.Bool
	startTime   time.Time
	updateCount atomic.Uint64
	lastError   atomic.Value // stores error
	lastLine    atomic.Value // stores string

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Synchronization
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	intervalCh chan time.Duration // Interval changes for the running loop
}

// Verify interface implementations at compile time.
var (
	_ WMStatus = (*statusImpl)(nil)
	_ Output   = (*xroot.RootWindow)(nil)
)

// Start begins the refresh loop.
func (s *statusImpl) Start() error {
	s.mu.Lock()

	if s.running.Load() {
		s.mu.Unlock()
		return fmt.Errorf("wmstatus instance already running")
	}

	// Create cancellable context
	s.ctx, s.cancel = context.WithCancel(context.Background())

	// Initialize components
	if err := s.initComponents(); err != nil {
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	interval := s.refreshInterval()
	s.intervalCh = make(chan time.Duration, 1)

	// Set running state BEFORE starting goroutine to avoid race
	s.running.Store(true)
	s.startTime = time.Now()
	s.updateCount.Store(0)

	// Update metrics
	s.metrics.IncrementStarts()
	s.metrics.SetRunning(true)

	// Run the refresh loop in a goroutine (non-blocking)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.cleanup()
		defer s.running.Store(false)
		defer s.metrics.SetRunning(false)

		s.refreshLoop(interval)

		s.emitEvent(EventStopped, "Instance stopped")
	}()

	if s.watcher != nil {
		s.watcher.Start()
	}

	// Release lock before emitting event to avoid deadlock
	s.mu.Unlock()

	s.emitEvent(EventStarted, "Instance started")

	return nil
}

// Stop gracefully shuts down the instance.
func (s *statusImpl) Stop() error {
	if !s.running.Load() {
		return nil // Already stopped
	}

	// Signal stop
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	// Wait for goroutines with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	// Use configured timeout or default
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		s.metrics.IncrementStops()
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: some goroutines did not stop", timeout)
		s.notifyError(NewCategorizedError(err, ErrorCategoryUnknown, SeverityCritical))
		return err
	}
}

// Restart performs a stop followed by a start.
func (s *statusImpl) Restart() error {
	// Stop if running
	if err := s.Stop(); err != nil {
		wrappedErr := fmt.Errorf("stop failed: %w", err)
		s.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryUnknown, SeverityError))
		return wrappedErr
	}

	// Reload configuration
	if s.configLoader != nil {
		cfg, err := s.configLoader()
		if err != nil {
			wrappedErr := fmt.Errorf("config reload failed: %w", err)
			s.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryConfig, SeverityError))
			return wrappedErr
		}
		s.mu.Lock()
		s.cfg = cfg
		s.mu.Unlock()
		s.emitEvent(EventConfigReloaded, "Configuration reloaded")
	}

	// Start again
	if err := s.Start(); err != nil {
		wrappedErr := fmt.Errorf("start failed: %w", err)
		s.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryUnknown, SeverityError))
		return wrappedErr
	}

	s.metrics.IncrementRestarts()
	s.emitEvent(EventRestarted, "Instance restarted")
	return nil
}

// ReloadConfig reloads the configuration in-place without stopping.
// This provides seamless hot-reload: the refresh loop continues
// uninterrupted while configuration changes take effect immediately.
func (s *statusImpl) ReloadConfig() error {
	if !s.running.Load() {
		return fmt.Errorf("wmstatus instance not running")
	}

	if s.configLoader == nil {
		return fmt.Errorf("no config loader available")
	}

	// Load the new configuration
	newCfg, err := s.configLoader()
	if err != nil {
		wrappedErr := fmt.Errorf("config reload failed: %w", err)
		s.notifyError(NewCategorizedError(wrappedErr, ErrorCategoryConfig, SeverityError))
		return wrappedErr
	}

	// Swap the configuration and collector atomically; the next refresh
	// cycle picks them up. A fresh collector also resets the throughput
	// baseline, so the first rates after a reload read as zero.
	s.mu.Lock()
	s.cfg = newCfg
	s.collector = readout.NewCollector(settingsFromConfig(newCfg))
	interval := s.refreshInterval()
	intervalCh := s.intervalCh
	s.mu.Unlock()

	// Hand the (possibly changed) interval to the running loop. Drain any
	// stale value first so the newest one wins.
	if intervalCh != nil {
		select {
		case <-intervalCh:
		default:
		}
		select {
		case intervalCh <- interval:
		default:
		}
	}

	s.metrics.IncrementConfigReloads()
	s.emitEvent(EventConfigReloaded, "Configuration reloaded in-place")
	return nil
}

// Render collects one reading and returns the composed status line.
// A running instance shares its collector, so throughput rates reflect the
// loop's sampling baseline; otherwise a one-shot collector is used and the
// rates read as zero.
func (s *statusImpl) Render() (string, error) {
	s.mu.RLock()
	collector := s.collector
	cfg := s.cfg
	s.mu.RUnlock()

	if collector == nil {
		if cfg == nil {
			return "", fmt.Errorf("configuration is nil")
		}
		collector = readout.NewCollector(settingsFromConfig(cfg))
	}

	reading, err := collector.Collect()
	line := collector.Compose(reading)
	if err != nil {
		return line, err
	}
	return line, nil
}

// IsRunning returns true if the instance is currently running.
func (s *statusImpl) IsRunning() bool {
	return s.running.Load()
}

// Status returns detailed status information about the instance.
func (s *statusImpl) Status() Status {
	s.mu.RLock()
	startTime := s.startTime
	configSource := s.configSource
	s.mu.RUnlock()

	return Status{
		Running:      s.running.Load(),
		StartTime:    startTime,
		UpdateCount:  s.updateCount.Load(),
		LastLine:     s.getLastLine(),
		LastError:    s.getError(),
		ConfigSource: configSource,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (s *statusImpl) SetErrorHandler(handler ErrorHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (s *statusImpl) SetEventHandler(handler EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventHandler = handler
}

// initComponents initializes all components for operation.
// Callers must hold mu.
func (s *statusImpl) initComponents() error {
	// Validate config is not nil (should be guaranteed by factory functions)
	if s.cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	// Initialize metrics and error tracker (use provided or default)
	if s.opts.Metrics != nil {
		s.metrics = s.opts.Metrics
	} else {
		s.metrics = DefaultMetrics()
	}
	if s.opts.ErrorTracker != nil {
		s.tracker = s.opts.ErrorTracker
	} else {
		s.tracker = DefaultErrorTracker()
	}

	s.collector = readout.NewCollector(settingsFromConfig(s.cfg))

	// Resolve the output: an explicit option wins, otherwise connect to
	// the X server and write to the root window name.
	if s.opts.Output != nil {
		s.output = s.opts.Output
	} else {
		rw, err := xroot.Connect()
		if err != nil {
			return fmt.Errorf("open root window output: %w", err)
		}
		s.output = rw
		s.ownOutput = true
	}

	// Watch the configuration file when requested and a disk path exists.
	if s.opts.WatchConfig && s.configPath != "" {
		w, err := newConfigWatcher(s.configPath, s.opts.WatchDebounce, s.reloadFromWatcher, s.watchError)
		if err != nil {
			if s.ownOutput {
				s.output.Close()
			}
			s.output = nil
			s.ownOutput = false
			return fmt.Errorf("watch config: %w", err)
		}
		s.watcher = w
	}

	return nil
}

// refreshInterval resolves the effective refresh interval.
// Callers must hold mu.
func (s *statusImpl) refreshInterval() time.Duration {
	interval := s.cfg.Interval
	if s.opts.Interval > 0 {
		interval = s.opts.Interval
	}
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	return interval
}

// refreshLoop drives collection at the configured interval until the
// context is cancelled. The first refresh happens immediately so the
// status line appears without waiting out a full interval.
func (s *statusImpl) refreshLoop(interval time.Duration) {
	s.mu.RLock()
	intervalCh := s.intervalCh
	s.mu.RUnlock()

	s.refreshOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case d := <-intervalCh:
			if d > 0 && d != interval {
				interval = d
				ticker.Reset(d)
			}
		case <-ticker.C:
			s.refreshOnce()
		}
	}
}

// refreshOnce collects a reading, composes the line, and delivers it to
// the output. A failed readout never aborts the line; it renders as the
// placeholder and is reported through the error handler.
func (s *statusImpl) refreshOnce() {
	start := time.Now()

	s.mu.RLock()
	collector := s.collector
	output := s.output
	logger := s.opts.Logger
	s.mu.RUnlock()

	if collector == nil || output == nil {
		return
	}

	collectStart := time.Now()
	reading, err := collector.Collect()
	s.metrics.RecordCollectLatency(time.Since(collectStart))

	if err != nil {
		s.metrics.IncrementCollectErrors()
		s.notifyError(NewCategorizedError(err, ErrorCategoryCollect, SeverityWarning))
	}
	s.metrics.SetReadoutsOK(countOK(reading))

	line := collector.Compose(reading)
	s.lastLine.Store(line)

	outputStart := time.Now()
	if err := output.Set(line); err != nil {
		s.metrics.IncrementOutputErrors()
		s.notifyError(NewCategorizedError(fmt.Errorf("deliver status line: %w", err), ErrorCategoryOutput, SeverityError))
	} else {
		s.metrics.IncrementLinesDelivered()
	}
	s.metrics.RecordOutputLatency(time.Since(outputStart))

	s.updateCount.Add(1)
	s.metrics.IncrementRefreshCycles()
	s.metrics.RecordRefreshLatency(time.Since(start))

	if logger != nil {
		logger.Debug("status line refreshed", "line", line, "elapsed", time.Since(start))
	}
}

// reloadFromWatcher handles a configuration file change event. Each
// reload gets its own correlation ID so the log entries it produces can
// be traced as one operation.
func (s *statusImpl) reloadFromWatcher() error {
	ctx := EnsureCorrelationID(context.Background())

	s.mu.RLock()
	base := s.opts.Logger
	s.mu.RUnlock()
	logger := NewCorrelatedLogger(ctx, base)

	logger.Info("configuration file changed, reloading", "path", s.configPath)
	if err := s.ReloadConfig(); err != nil {
		logger.Error("configuration reload failed", "error", err)
		return err
	}
	logger.Info("configuration reloaded")
	return nil
}

// watchError reports a file watching error.
func (s *statusImpl) watchError(err error) {
	s.notifyError(NewCategorizedError(fmt.Errorf("config watch: %w", err), ErrorCategoryWatch, SeverityWarning))
}

// cleanup releases resources owned by the refresh loop. The watcher is
// stopped and an output opened by Start is closed; an output supplied via
// Options stays open for the caller to reuse.
func (s *statusImpl) cleanup() {
	s.mu.Lock()
	watcher := s.watcher
	output := s.output
	ownOutput := s.ownOutput
	logger := s.opts.Logger
	s.watcher = nil
	s.output = nil
	s.ownOutput = false
	s.collector = nil
	s.intervalCh = nil
	s.mu.Unlock()

	// Stop outside the lock: the watcher waits for its loop, which may be
	// mid-reload and need the lock itself.
	if watcher != nil {
		watcher.Stop()
	}
	if ownOutput && output != nil {
		if err := output.Close(); err != nil && logger != nil {
			logger.Warn("closing output failed", "error", err)
		}
	}
}

// getError retrieves the last error.
func (s *statusImpl) getError() error {
	if v := s.lastError.Load(); v != nil {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

// getLastLine retrieves the most recently composed status line.
func (s *statusImpl) getLastLine() string {
	if v := s.lastLine.Load(); v != nil {
		if line, ok := v.(string); ok {
			return line
		}
	}
	return ""
}

// notifyError stores an error, records it with the tracker, and invokes
// the error handler if registered.
// This method should be called when runtime errors occur during operation.
func (s *statusImpl) notifyError(err error) {
	// Store the error for Status() retrieval
	s.lastError.Store(err)

	// Update metrics
	if s.metrics != nil {
		s.metrics.IncrementErrors()
	}

	// Track for aggregation and alerting
	if s.tracker != nil {
		if ce, ok := err.(*CategorizedError); ok {
			s.tracker.Record(ce)
		} else {
			s.tracker.Record(NewCategorizedError(err, ErrorCategoryUnknown, SeverityError))
		}
	}

	s.mu.RLock()
	handler := s.errorHandler
	logger := s.opts.Logger
	s.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				// Recover from panics in error handler to prevent crashing
				if r := recover(); r != nil {
					if logger != nil {
						logger.Error("error handler panicked", "panic", r, "original_error", err)
					}
				}
			}()
			handler(err)
		}()
	}

	// Also emit an error event
	s.emitEvent(EventError, err.Error())
}

// emitEvent sends an event to the event handler if configured.
func (s *statusImpl) emitEvent(eventType EventType, message string) {
	// Update metrics
	if s.metrics != nil {
		s.metrics.IncrementEventsEmitted()
	}

	s.mu.RLock()
	handler := s.eventHandler
	s.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					// Recover from panics in the handler to avoid crashing the embedding application.
					s.mu.RLock()
					errHandler := s.errorHandler
					s.mu.RUnlock()
					if errHandler != nil {
						if err, ok := r.(error); ok {
							errHandler(fmt.Errorf("panic in event handler: %w", err))
						} else {
							errHandler(fmt.Errorf("panic in event handler: %v", r))
						}
					}
				}
			}()

			handler(Event{
				Type:      eventType,
				Timestamp: time.Now(),
				Message:   message,
			})
		}()
	}
}

// Health returns a health check result for the instance.
func (s *statusImpl) Health() HealthCheck {
	now := time.Now()
	components := make(map[string]ComponentHealth)

	// Check running state
	running := s.running.Load()

	// Calculate uptime
	var uptime time.Duration
	s.mu.RLock()
	if running && !s.startTime.IsZero() {
		uptime = now.Sub(s.startTime)
	}
	collector := s.collector
	output := s.output
	s.mu.RUnlock()

	// Check instance component
	if running {
		components["instance"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Instance is running",
			LastUpdated: now,
		}
	} else {
		components["instance"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Instance is not running",
			LastUpdated: now,
		}
	}

	// Check collector component
	switch {
	case collector != nil && running:
		components["collector"] = ComponentHealth{
			Status:      HealthOK,
			Message:     fmt.Sprintf("Collector active, %d refresh cycles completed", s.updateCount.Load()),
			LastUpdated: now,
		}
	case collector != nil:
		components["collector"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     "Collector initialized but not active",
			LastUpdated: now,
		}
	default:
		components["collector"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Collector not initialized",
			LastUpdated: now,
		}
	}

	// Check output component
	if output != nil {
		components["output"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Output attached",
			LastUpdated: now,
		}
	} else {
		components["output"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "No output attached",
			LastUpdated: now,
		}
	}

	// Check for errors
	lastErr := s.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     lastErr.Error(),
			LastUpdated: now,
		}
	} else {
		components["errors"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "No recent errors",
			LastUpdated: now,
		}
	}

	// Determine overall status
	overallStatus := HealthOK
	var message string

	switch {
	case !running:
		overallStatus = HealthUnhealthy
		message = "Instance is not running"
	case lastErr != nil:
		overallStatus = HealthDegraded
		message = "Running with recent errors"
	default:
		message = "All components healthy"
	}

	return HealthCheck{
		Status:     overallStatus,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// Metrics returns the metrics collector for this instance.
func (s *statusImpl) Metrics() *Metrics {
	return s.metrics
}

// settingsFromConfig maps a parsed configuration onto collector settings.
func settingsFromConfig(cfg *config.Config) readout.Settings {
	zones := make([]readout.Zone, 0, len(cfg.Clock.Zones))
	for _, z := range cfg.Clock.Zones {
		zones = append(zones, readout.Zone{Label: z.Label, Name: z.Name})
	}

	return readout.Settings{
		ThermalPath: cfg.Thermal.Path,
		Monitors:    cfg.Thermal.Monitors,
		BatteryPath: cfg.Battery.Path,
		Batteries:   cfg.Battery.Names,
		Interfaces:  cfg.Net.Interfaces,
		Zones:       zones,
		LocalFormat: cfg.Clock.LocalFormat,
		ZoneFormat:  cfg.Clock.ZoneFormat,
		Separator:   cfg.Separator,
		Placeholder: cfg.Placeholder,
	}
}

// countOK tallies the readouts that produced a value in a reading.
func countOK(r readout.Reading) int {
	n := 0
	for _, t := range r.Temps {
		if t.OK {
			n++
		}
	}
	if r.Load.OK {
		n++
	}
	for _, b := range r.Batteries {
		if b.OK {
			n++
		}
	}
	if r.Net.OK {
		n++
	}
	for _, z := range r.Clock.Zones {
		if z.OK {
			n++
		}
	}
	if r.Clock.Local != "" {
		n++
	}
	return n
}
