//go:build linux

package discovery

import (
	"github.com/jochenvg/go-udev"
)

// EnumeratePorts lists every tty device node via udev. Devices with
// Kirale's USB vendor ID (0x2def) are marked IsUSB for the USB CDC
// path; all others, including plain UART-attached devices (which udev
// exposes without a USB vendor property), are listed with IsUSB false.
func EnumeratePorts() ([]PortCandidate, error) {
	u := udev.Udev{}
	enum := u.NewEnumerate()
	if err := enum.AddMatchSubsystem("tty"); err != nil {
		return nil, err
	}
	devices, err := enum.Devices()
	if err != nil {
		return nil, err
	}

	var out []PortCandidate
	for _, d := range devices {
		path := d.Devnode()
		if path == "" {
			continue
		}
		vendor := d.PropertyValue("ID_VENDOR_ID")
		isUSB := vendor == "2def"
		out = append(out, PortCandidate{
			Path:  path,
			Desc:  d.PropertyValue("ID_MODEL"),
			IsUSB: isUSB,
		})
	}
	return out, nil
}
