// Package profiling provides optional CPU and heap profiling for wmstatus-go.
// This file implements a lightweight memory watch for the long-running
// refresh daemon: periodic runtime samples with growth analysis so a
// slow heap or goroutine leak surfaces in the logs instead of the RSS.
package profiling

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Byte units for human-readable sizes.
const (
	KB = 1 << 10
	MB = 1 << 20
	GB = 1 << 30
)

// Sample is a point-in-time runtime memory measurement.
type Sample struct {
	Taken       time.Time
	HeapAlloc   uint64 // bytes of live heap objects
	HeapSys     uint64 // bytes of heap obtained from the OS
	HeapObjects uint64 // live heap object count
	Goroutines  int
	NumGC       uint32
}

// ReadSample captures the current runtime memory state.
func ReadSample() Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Sample{
		Taken:       time.Now(),
		HeapAlloc:   ms.HeapAlloc,
		HeapSys:     ms.HeapSys,
		HeapObjects: ms.HeapObjects,
		Goroutines:  runtime.NumGoroutine(),
		NumGC:       ms.NumGC,
	}
}

// Growth describes the change between the oldest and newest retained
// samples. Suspect is set when the change exceeds the configured
// thresholds, with Reason explaining which one.
type Growth struct {
	Window         time.Duration
	HeapDelta      int64 // positive means growth
	ObjectsDelta   int64
	GoroutineDelta int
	BytesPerSec    float64
	Suspect        bool
	Reason         string
}

// String returns a single-line summary suitable for log output.
func (g Growth) String() string {
	return fmt.Sprintf("heap %s over %s (%.1f KB/s), objects %+d, goroutines %+d",
		formatSignedBytes(g.HeapDelta), g.Window.Round(time.Second),
		g.BytesPerSec/KB, g.ObjectsDelta, g.GoroutineDelta)
}

// WatchConfig configures a MemoryWatch.
type WatchConfig struct {
	// Interval between samples.
	Interval time.Duration

	// MaxSamples bounds the retained sample window; older samples are
	// dropped once the limit is reached.
	MaxSamples int

	// GrowthThreshold is the sustained heap growth rate, in bytes per
	// second, above which Growth is flagged as suspect.
	GrowthThreshold int64

	// GoroutineThreshold is the net goroutine increase across the
	// window above which Growth is flagged as suspect.
	GoroutineThreshold int
}

// DefaultWatchConfig returns the watch configuration used by the
// daemon: a thirty-second sample interval with an hour of history.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Interval:           30 * time.Second,
		MaxSamples:         120,
		GrowthThreshold:    512 * KB,
		GoroutineThreshold: 8,
	}
}

// MemoryWatch samples runtime memory on an interval and analyzes the
// retained window for sustained growth.
type MemoryWatch struct {
	cfg       WatchConfig
	samples   []Sample
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	onSuspect func(Growth)
	mu        sync.RWMutex
}

// NewMemoryWatch creates a MemoryWatch. Zero or negative config fields
// fall back to DefaultWatchConfig values.
func NewMemoryWatch(cfg WatchConfig) *MemoryWatch {
	def := DefaultWatchConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxSamples <= 0 {
		cfg.MaxSamples = def.MaxSamples
	}
	if cfg.GrowthThreshold <= 0 {
		cfg.GrowthThreshold = def.GrowthThreshold
	}
	if cfg.GoroutineThreshold <= 0 {
		cfg.GoroutineThreshold = def.GoroutineThreshold
	}

	return &MemoryWatch{
		cfg:     cfg,
		samples: make([]Sample, 0, cfg.MaxSamples),
	}
}

// Sample records a new measurement and returns it. The oldest sample
// is dropped when the window is full.
func (w *MemoryWatch) Sample() Sample {
	s := ReadSample()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples = append(w.samples, s)
	if len(w.samples) > w.cfg.MaxSamples {
		w.samples = w.samples[1:]
	}
	return s
}

// Samples returns a copy of the retained sample window.
func (w *MemoryWatch) Samples() []Sample {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Sample, len(w.samples))
	copy(out, w.samples)
	return out
}

// SampleCount returns the number of retained samples.
func (w *MemoryWatch) SampleCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.samples)
}

// Reset discards all retained samples.
func (w *MemoryWatch) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.samples = w.samples[:0]
}

// Growth compares the oldest and newest retained samples. Returns nil
// when fewer than two samples exist or no time has elapsed between them.
func (w *MemoryWatch) Growth() *Growth {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if len(w.samples) < 2 {
		return nil
	}
	return w.analyze(w.samples[0], w.samples[len(w.samples)-1])
}

func (w *MemoryWatch) analyze(first, last Sample) *Growth {
	window := last.Taken.Sub(first.Taken)
	if window <= 0 {
		return nil
	}

	g := &Growth{
		Window:         window,
		HeapDelta:      int64(last.HeapAlloc) - int64(first.HeapAlloc),
		ObjectsDelta:   int64(last.HeapObjects) - int64(first.HeapObjects),
		GoroutineDelta: last.Goroutines - first.Goroutines,
	}
	g.BytesPerSec = float64(g.HeapDelta) / window.Seconds()

	switch {
	case g.BytesPerSec > float64(w.cfg.GrowthThreshold):
		g.Suspect = true
		g.Reason = fmt.Sprintf("heap growing %.1f KB/s, threshold %.1f KB/s",
			g.BytesPerSec/KB, float64(w.cfg.GrowthThreshold)/KB)
	case g.GoroutineDelta > w.cfg.GoroutineThreshold:
		g.Suspect = true
		g.Reason = fmt.Sprintf("goroutine count up %d, threshold %d",
			g.GoroutineDelta, w.cfg.GoroutineThreshold)
	}

	return g
}

// OnSuspect registers a callback invoked from the sampling loop when
// growth analysis flags a suspect window. Pass nil to clear it.
func (w *MemoryWatch) OnSuspect(fn func(Growth)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onSuspect = fn
}

// Start begins periodic sampling. Returns an error if the watch is
// already running.
func (w *MemoryWatch) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("memory watch is already running")
	}

	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.loop()
	return nil
}

// Stop halts periodic sampling and waits for the sampling goroutine to
// exit. Returns an error if the watch is not running.
func (w *MemoryWatch) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return fmt.Errorf("memory watch is not running")
	}
	close(w.stopCh)
	w.running = false
	done := w.doneCh
	w.mu.Unlock()

	<-done
	return nil
}

// IsRunning reports whether the sampling loop is active.
func (w *MemoryWatch) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

func (w *MemoryWatch) loop() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.Sample()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sample()

			if g := w.Growth(); g != nil && g.Suspect {
				w.mu.RLock()
				fn := w.onSuspect
				w.mu.RUnlock()
				if fn != nil {
					fn(*g)
				}
			}
		}
	}
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n uint64) string {
	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/GB)
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/MB)
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/KB)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func formatSignedBytes(n int64) string {
	if n < 0 {
		return "-" + FormatBytes(uint64(-n))
	}
	return "+" + FormatBytes(uint64(n))
}
