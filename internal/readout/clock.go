package readout

import (
	"fmt"
	"sync"
	"time"
)

// clockReader renders the configured zone times and the local time.
// Resolved locations are cached across cycles.
type clockReader struct {
	mu          sync.Mutex
	zones       []Zone
	localFormat string
	zoneFormat  string
	locations   map[string]*time.Location
	now         func() time.Time
}

// newClockReader creates a clockReader for the given zones and layouts.
func newClockReader(zones []Zone, localFormat, zoneFormat string) *clockReader {
	if localFormat == "" {
		localFormat = DefaultLocalFormat
	}
	if zoneFormat == "" {
		zoneFormat = DefaultZoneFormat
	}
	return &clockReader{
		zones:       zones,
		localFormat: localFormat,
		zoneFormat:  zoneFormat,
		locations:   make(map[string]*time.Location),
		now:         time.Now,
	}
}

// Zones returns the configured zone list.
func (r *clockReader) Zones() []Zone {
	return r.zones
}

// ZoneTime returns the current time in the named IANA zone.
func (r *clockReader) ZoneTime(name string) (time.Time, error) {
	r.mu.Lock()
	loc, ok := r.locations[name]
	r.mu.Unlock()

	if !ok {
		var err error
		loc, err = time.LoadLocation(name)
		if err != nil {
			return time.Time{}, fmt.Errorf("loading zone %s: %w", name, err)
		}
		r.mu.Lock()
		r.locations[name] = loc
		r.mu.Unlock()
	}

	return r.now().In(loc), nil
}

// Local returns the current local time.
func (r *clockReader) Local() time.Time {
	return r.now()
}

// FormatZone renders a zone readout as "label:time".
func (r *clockReader) FormatZone(label string, t time.Time) string {
	return label + ":" + t.Format(r.zoneFormat)
}

// FormatLocal renders the local time readout.
func (r *clockReader) FormatLocal(t time.Time) string {
	return t.Format(r.localFormat)
}
