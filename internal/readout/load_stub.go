//go:build !linux

package readout

// sysinfoLoadAvgs reports the syscall as unavailable; callers fall
// back to /proc/loadavg.
func sysinfoLoadAvgs() (load1, load5, load15 float64, ok bool) {
	return 0, 0, 0, false
}
