//go:build !linux

package discovery

import (
	"path/filepath"
	"runtime"
	"strconv"
)

// EnumeratePorts provides a minimal stdlib-only port listing for
// platforms without a udev equivalent wired in. Kirale's own desktop
// tooling targets Windows and macOS here via COMn/cu.* device globs;
// it cannot distinguish the USB CDC path from the bare UART path the
// way udev's vendor-ID property can, so every candidate is reported
// with IsUSB set and is probed in shell mode only.
func EnumeratePorts() ([]PortCandidate, error) {
	var pattern string
	switch runtime.GOOS {
	case "windows":
		return windowsCOMPorts(), nil
	case "darwin":
		pattern = "/dev/cu.*"
	default:
		pattern = "/dev/ttyUSB*"
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	var out []PortCandidate
	for _, m := range matches {
		out = append(out, PortCandidate{Path: m, IsUSB: true})
	}
	return out, nil
}

func windowsCOMPorts() []PortCandidate {
	var out []PortCandidate
	for i := 1; i <= 32; i++ {
		out = append(out, PortCandidate{Path: `\\.\COM` + strconv.Itoa(i), IsUSB: true})
	}
	return out
}
