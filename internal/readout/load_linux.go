//go:build linux

package readout

import "golang.org/x/sys/unix"

// sysinfoScale converts the kernel's 16.16 fixed-point load averages.
const sysinfoScale = 1 << 16

// sysinfoLoadAvgs returns the load averages from the sysinfo syscall.
func sysinfoLoadAvgs() (load1, load5, load15 float64, ok bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, 0, 0, false
	}
	return float64(info.Loads[0]) / sysinfoScale,
		float64(info.Loads[1]) / sysinfoScale,
		float64(info.Loads[2]) / sysinfoScale,
		true
}
