// Package profiling provides optional CPU and heap profiling for
// wmstatus-go. It wraps runtime/pprof so the command line can expose
// profile flags without spreading pprof plumbing through the daemon.
package profiling

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// Config selects which profiles to write. An empty path disables the
// corresponding profile.
type Config struct {
	// CPUProfile is the output path for the CPU profile.
	CPUProfile string

	// MemProfile is the output path for the heap profile written at Stop.
	MemProfile string
}

// Enabled reports whether any profile output is configured.
func (c Config) Enabled() bool {
	return c.CPUProfile != "" || c.MemProfile != ""
}

// Profiler manages a single profiling session. Start begins CPU
// profiling when configured; Stop ends it and writes the heap profile.
type Profiler struct {
	cfg     Config
	cpuFile *os.File
	running bool
	mu      sync.Mutex
}

// New creates a Profiler for the given configuration. The session is
// not started until Start is called.
func New(cfg Config) *Profiler {
	return &Profiler{cfg: cfg}
}

// Start begins the profiling session. When a CPU profile path is
// configured the profile file is created and CPU sampling starts.
// Returns an error if the session is already running or the profile
// file cannot be created.
func (p *Profiler) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return errors.New("profiler is already running")
	}

	if p.cfg.CPUProfile != "" {
		f, err := os.Create(p.cfg.CPUProfile)
		if err != nil {
			return fmt.Errorf("create CPU profile %s: %w", p.cfg.CPUProfile, err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return fmt.Errorf("start CPU profile: %w", err)
		}
		p.cpuFile = f
	}

	p.running = true
	return nil
}

// Stop ends the profiling session. CPU sampling stops and, when a heap
// profile path is configured, the heap profile is written. Returns an
// error if the session is not running or a profile cannot be written.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return errors.New("profiler is not running")
	}
	p.running = false

	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		if err := p.cpuFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close CPU profile: %w", err))
		}
		p.cpuFile = nil
	}

	if p.cfg.MemProfile != "" {
		if err := WriteHeapProfile(p.cfg.MemProfile); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// IsRunning reports whether a profiling session is active.
func (p *Profiler) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// WriteHeapProfile writes a heap profile to path. A garbage collection
// runs first so the profile reflects live objects rather than garbage
// awaiting collection.
func WriteHeapProfile(path string) error {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create heap profile %s: %w", path, err)
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write heap profile: %w", err)
	}
	return nil
}
