package wmstatus

import (
	"fmt"
	"testing"
	"time"
)

func TestHealthStatusHelpers(t *testing.T) {
	tests := []struct {
		status    HealthStatus
		healthy   bool
		degraded  bool
		unhealthy bool
	}{
		{HealthOK, true, false, false},
		{HealthDegraded, false, true, false},
		{HealthUnhealthy, false, false, true},
	}

	for _, tt := range tests {
		hc := HealthCheck{Status: tt.status}
		if hc.IsHealthy() != tt.healthy {
			t.Errorf("IsHealthy() with %q = %v, want %v", tt.status, hc.IsHealthy(), tt.healthy)
		}
		if hc.IsDegraded() != tt.degraded {
			t.Errorf("IsDegraded() with %q = %v, want %v", tt.status, hc.IsDegraded(), tt.degraded)
		}
		if hc.IsUnhealthy() != tt.unhealthy {
			t.Errorf("IsUnhealthy() with %q = %v, want %v", tt.status, hc.IsUnhealthy(), tt.unhealthy)
		}
	}
}

func TestHealthNotRunning(t *testing.T) {
	s := newHermetic(t, nil)

	hc := s.Health()
	if !hc.IsUnhealthy() {
		t.Errorf("Health().Status = %q before Start, want %q", hc.Status, HealthUnhealthy)
	}
	if hc.Uptime != 0 {
		t.Errorf("Uptime = %v before Start, want 0", hc.Uptime)
	}

	for _, key := range []string{"instance", "collector", "output", "errors"} {
		if _, ok := hc.Components[key]; !ok {
			t.Errorf("Components missing %q", key)
		}
	}
	if hc.Components["instance"].Status != HealthUnhealthy {
		t.Errorf("instance component = %q, want %q", hc.Components["instance"].Status, HealthUnhealthy)
	}
	if hc.Components["collector"].Status != HealthUnhealthy {
		t.Errorf("collector component = %q, want %q", hc.Components["collector"].Status, HealthUnhealthy)
	}
}

func TestHealthRunning(t *testing.T) {
	rec := newLineRecorder()
	s := newHermetic(t, &Options{Output: rec, Metrics: NewMetrics()})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()
	rec.waitLine(t)

	hc := s.Health()
	if !hc.IsHealthy() {
		t.Errorf("Health().Status = %q while running cleanly, want %q (message: %s)",
			hc.Status, HealthOK, hc.Message)
	}
	if hc.Uptime <= 0 {
		t.Errorf("Uptime = %v while running, want positive", hc.Uptime)
	}
	if hc.Components["instance"].Status != HealthOK {
		t.Errorf("instance component = %q, want %q", hc.Components["instance"].Status, HealthOK)
	}
	if hc.Components["collector"].Status != HealthOK {
		t.Errorf("collector component = %q, want %q", hc.Components["collector"].Status, HealthOK)
	}
	if hc.Components["output"].Status != HealthOK {
		t.Errorf("output component = %q, want %q", hc.Components["output"].Status, HealthOK)
	}
	if hc.Components["errors"].Status != HealthOK {
		t.Errorf("errors component = %q, want %q", hc.Components["errors"].Status, HealthOK)
	}
}

func TestHealthDegradedAfterError(t *testing.T) {
	rec := newLineRecorder()
	s := newHermetic(t, &Options{
		Output:       rec,
		Metrics:      NewMetrics(),
		ErrorTracker: NewErrorTracker(DefaultErrorTrackerConfig()),
	})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()
	rec.waitLine(t)

	impl := s.(*statusImpl)
	impl.notifyError(fmt.Errorf("synthetic failure"))

	hc := s.Health()
	if !hc.IsDegraded() {
		t.Errorf("Health().Status = %q with a recent error, want %q", hc.Status, HealthDegraded)
	}
	if hc.Components["errors"].Status != HealthDegraded {
		t.Errorf("errors component = %q, want %q", hc.Components["errors"].Status, HealthDegraded)
	}
}

func TestHealthAfterStop(t *testing.T) {
	rec := newLineRecorder()
	s := newHermetic(t, &Options{Output: rec, Metrics: NewMetrics()})

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	rec.waitLine(t)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	hc := s.Health()
	if !hc.IsUnhealthy() {
		t.Errorf("Health().Status = %q after Stop, want %q", hc.Status, HealthUnhealthy)
	}
	if hc.Uptime != 0 {
		t.Errorf("Uptime = %v after Stop, want 0", hc.Uptime)
	}
}

func TestHealthTimestamp(t *testing.T) {
	s := newHermetic(t, nil)

	before := time.Now()
	hc := s.Health()
	after := time.Now()

	if hc.Timestamp.Before(before) || hc.Timestamp.After(after) {
		t.Errorf("Timestamp = %v, want between %v and %v", hc.Timestamp, before, after)
	}
}
