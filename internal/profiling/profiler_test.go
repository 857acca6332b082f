package profiling

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(Config{CPUProfile: "/tmp/cpu.prof", MemProfile: "/tmp/mem.prof"})

	if p == nil {
		t.Fatal("New() returned nil")
	}
	if p.IsRunning() {
		t.Error("new profiler should not be running")
	}
}

func TestConfigEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "nothing configured", cfg: Config{}, want: false},
		{name: "CPU only", cfg: Config{CPUProfile: "/tmp/cpu.prof"}, want: true},
		{name: "heap only", cfg: Config{MemProfile: "/tmp/mem.prof"}, want: true},
		{name: "both", cfg: Config{CPUProfile: "/tmp/cpu.prof", MemProfile: "/tmp/mem.prof"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfilerStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	cpuPath := filepath.Join(tmpDir, "cpu.prof")
	memPath := filepath.Join(tmpDir, "mem.prof")

	p := New(Config{CPUProfile: cpuPath, MemProfile: memPath})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.IsRunning() {
		t.Error("IsRunning() should be true after Start()")
	}

	if err := p.Start(); err == nil {
		t.Error("second Start() should fail while running")
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if p.IsRunning() {
		t.Error("IsRunning() should be false after Stop()")
	}

	if _, err := os.Stat(cpuPath); err != nil {
		t.Errorf("CPU profile was not written: %v", err)
	}
	if _, err := os.Stat(memPath); err != nil {
		t.Errorf("heap profile was not written: %v", err)
	}
}

func TestProfilerStopWithoutStart(t *testing.T) {
	p := New(Config{})

	if err := p.Stop(); err == nil {
		t.Error("Stop() should fail when profiler is not running")
	}
}

func TestProfilerCPUOnly(t *testing.T) {
	cpuPath := filepath.Join(t.TempDir(), "cpu.prof")
	p := New(Config{CPUProfile: cpuPath})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	if _, err := os.Stat(cpuPath); err != nil {
		t.Errorf("CPU profile was not written: %v", err)
	}
}

func TestProfilerHeapOnly(t *testing.T) {
	memPath := filepath.Join(t.TempDir(), "mem.prof")
	p := New(Config{MemProfile: memPath})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	info, err := os.Stat(memPath)
	if err != nil {
		t.Fatalf("heap profile was not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("heap profile should not be empty")
	}
}

func TestProfilerNoOutputs(t *testing.T) {
	p := New(Config{})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.IsRunning() {
		t.Error("session should run even with no profiles configured")
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestProfilerInvalidCPUPath(t *testing.T) {
	p := New(Config{CPUProfile: "/nonexistent/directory/cpu.prof"})

	if err := p.Start(); err == nil {
		t.Error("Start() should fail when the CPU profile file cannot be created")
		p.Stop()
	}
	if p.IsRunning() {
		t.Error("failed Start() should leave the profiler stopped")
	}
}

func TestProfilerInvalidMemPath(t *testing.T) {
	p := New(Config{MemProfile: "/nonexistent/directory/mem.prof"})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := p.Stop(); err == nil {
		t.Error("Stop() should fail when the heap profile cannot be written")
	}
}

func TestWriteHeapProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.prof")

	if err := WriteHeapProfile(path); err != nil {
		t.Fatalf("WriteHeapProfile() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("heap profile was not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("heap profile should not be empty")
	}
}

func TestProfilerConcurrentIsRunning(t *testing.T) {
	cpuPath := filepath.Join(t.TempDir(), "cpu.prof")
	p := New(Config{CPUProfile: cpuPath})

	if err := p.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = p.IsRunning()
			}
		}()
	}
	wg.Wait()

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}
