// Package discovery enumerates serial ports attached to the host and
// identifies which ones carry a Kirale device, mirroring
// kiserial.py's find_devices.
package discovery

import (
	"context"
	"strings"

	"github.com/KiraleTech/KiTools/kiserial"
)

// Device describes one identified Kirale device, equivalent to the
// original tool's KiDevice.
type Device struct {
	Port    string
	Desc    string
	Serial  string
	SWVer   string
	Mode    kiserial.Mode
}

func (d Device) String() string {
	mode := "KBI"
	if d.Mode == kiserial.ModeShell {
		mode = "KSH"
	}
	return d.Port + "\t" + mode + "\t" + d.SWVer + "\t" + d.Serial + "\t" + d.Desc
}

// Filter narrows a device listing the way find_devices's has_snum/
// has_br/has_uart arguments do.
type Filter struct {
	SerialNumber string // exact match, empty means unfiltered
	BorderRouter *bool  // nil means unfiltered
	UART         *bool  // nil means unfiltered ("true" selects the KBI/UART path)
}

// PortOpener abstracts opening a candidate serial port, letting tests
// substitute a fake transport instead of a real jacobsa/go-serial port.
type PortOpener interface {
	Open(ctx context.Context, port string, isUSB bool) (*kiserial.Transport, error)
}

// Find probes every candidate port returned by ports and keeps the
// ones that answer like a Kirale device and satisfy filter.
func Find(ctx context.Context, ports []PortCandidate, opener PortOpener, filter Filter) ([]Device, error) {
	var devices []Device
	for _, p := range ports {
		tr, err := opener.Open(ctx, p.Path, p.IsUSB)
		if err != nil {
			continue
		}

		lines, err := tr.Command(ctx, "show snum")
		if err != nil || len(lines) == 0 || !strings.HasPrefix(lines[len(lines)-1], "KT") {
			tr.Close()
			continue
		}
		snum := lines[len(lines)-1]

		swLines, _ := tr.Command(ctx, "show swver")
		swver := ""
		if len(swLines) > 0 {
			swver = swLines[len(swLines)-1]
		}

		mode := kiserial.ModeBinary
		if p.IsUSB {
			mode = kiserial.ModeShell
		}
		dev := Device{Port: p.Path, Desc: p.Desc, Serial: snum, SWVer: swver, Mode: mode}

		isBR := false
		if filter.BorderRouter != nil {
			cfgLines, _ := tr.Command(ctx, "config")
			isBR = strings.Contains(strings.Join(cfgLines, " "), "hwmode")
		}
		tr.Close()

		if !matches(dev, isBR, filter) {
			continue
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

func matches(dev Device, isBorderRouter bool, filter Filter) bool {
	if filter.SerialNumber != "" && dev.Serial != filter.SerialNumber {
		return false
	}
	if filter.BorderRouter != nil && *filter.BorderRouter != isBorderRouter {
		return false
	}
	if filter.UART != nil && *filter.UART != (dev.Mode == kiserial.ModeBinary) {
		return false
	}
	return true
}

// PortCandidate is a port worth probing, supplied by a platform-
// specific enumerator (comports(), go-udev, ...).
type PortCandidate struct {
	Path  string
	Desc  string
	IsUSB bool
}
