package dfu

import (
	"fmt"
	"time"

	"github.com/google/gousb"
)

// DFU class-specific control requests, USB DFU 1.1 §3.
const (
	reqDetach    = 0x00
	reqDownload  = 0x01
	reqUpload    = 0x02
	reqGetStatus = 0x03
	reqClrStatus = 0x04
	reqGetState  = 0x05
	reqAbort     = 0x06

	reqTypeSend    = 0x21
	reqTypeReceive = 0xa1
)

// KiraleVID is the USB vendor ID assigned to Kirale devices.
const KiraleVID = 0x2def

// kinosBootPID is the product ID a device enumerates under while
// running its DFU bootloader, rather than its application firmware.
const kinosBootPID = 0x0000

// USBDevice is a Kirale USB-DFU device, wrapping control-transfer
// access to the interface's DFU class requests.
type USBDevice struct {
	dev       *gousb.Device
	intf      *gousb.Interface
	intfNum   int
	closeIntf func()
	Serial    string
	Product   string
	VID, PID  uint16
}

// OpenUSBDevice claims the DFU interface (alternate setting 0) of an
// already-opened gousb device.
func OpenUSBDevice(dev *gousb.Device) (*USBDevice, error) {
	cfg, err := dev.Config(1)
	if err != nil {
		return nil, fmt.Errorf("dfu: selecting config: %w", err)
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		return nil, fmt.Errorf("dfu: claiming interface: %w", err)
	}

	serial, _ := dev.SerialNumber()
	product, _ := dev.Product()

	return &USBDevice{
		dev:     dev,
		intf:    intf,
		intfNum: 0,
		closeIntf: func() {
			intf.Close()
			cfg.Close()
		},
		Serial: serial,
		Product: product,
		VID:     uint16(dev.Desc.Vendor),
		PID:     uint16(dev.Desc.Product),
	}, nil
}

// Close releases the claimed interface and configuration.
func (d *USBDevice) Close() {
	if d.closeIntf != nil {
		d.closeIntf()
	}
}

// IsBoot reports whether the device is currently enumerated as its
// DFU bootloader rather than its application firmware.
func (d *USBDevice) IsBoot() bool {
	return d.PID == kinosBootPID
}

func (d *USBDevice) controlSend(request uint8, value uint16, data []byte) error {
	_, err := d.dev.Control(reqTypeSend, request, value, uint16(d.intfNum), data)
	return err
}

func (d *USBDevice) controlReceive(request uint8, value uint16, length int) ([]byte, error) {
	buf := make([]byte, length)
	n, err := d.dev.Control(reqTypeReceive, request, value, uint16(d.intfNum), buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Detach requests the device leave application mode and enter its
// bootloader, with the given detach timeout in milliseconds.
func (d *USBDevice) Detach(timeoutMs uint16) error {
	return d.controlSend(reqDetach, timeoutMs, nil)
}

// Download sends one firmware block at the given block number.
func (d *USBDevice) Download(blockNum uint16, data []byte) error {
	return d.controlSend(reqDownload, blockNum, data)
}

// Leave signals the end of a download sequence with an empty block,
// transitioning the device into DFU_MANIFEST_SYNC.
func (d *USBDevice) Leave() error {
	return d.controlSend(reqDownload, 0, nil)
}

// GetStatus issues DFU_GETSTATUS and parses the 6-byte reply.
func (d *USBDevice) GetStatus() (DeviceStatus, error) {
	buf, err := d.controlReceive(reqGetStatus, 0, 6)
	if err != nil {
		return DeviceStatus{}, err
	}
	return DeviceStatus{
		Status:      Status(buf[0]),
		PollTimeout: uint32(buf[1]) | uint32(buf[2])<<8 | uint32(buf[3])<<16,
		State:       State(buf[4]),
	}, nil
}

// ClearStatus issues DFU_CLRSTATUS, clearing a latched error.
func (d *USBDevice) ClearStatus() error {
	return d.controlSend(reqClrStatus, 0, nil)
}

// Upload reads size bytes via DFU_UPLOAD at the given block number,
// used here only to read the bootloader version (block 0, 2 bytes).
func (d *USBDevice) Upload(blockNum uint16, size int) ([]byte, error) {
	buf := make([]byte, size)
	n, err := d.dev.Control(reqTypeReceive, reqUpload, blockNum, uint16(d.intfNum), buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// WaitWhileState polls GetStatus until the device leaves the given
// state, sleeping for each status's reported poll timeout.
func (d *USBDevice) WaitWhileState(state State) (DeviceStatus, error) {
	status, err := d.GetStatus()
	if err != nil {
		return status, err
	}
	for status.State == state {
		time.Sleep(time.Duration(status.PollTimeout) * time.Millisecond)
		status, err = d.GetStatus()
		if err != nil {
			return status, err
		}
	}
	return status, nil
}

// BootVersion reads the bootloader version string from a DFU-mode
// device, clearing any latched error first.
func (d *USBDevice) BootVersion() (string, error) {
	if !d.IsBoot() {
		return "", nil
	}
	status, err := d.GetStatus()
	if err != nil {
		return "", err
	}
	if status.State == StateDFUError {
		if err := d.ClearStatus(); err != nil {
			return "", err
		}
	}
	ver, err := d.Upload(0, 2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("v%d.%d", ver[0], ver[1]), nil
}

// FindUSBDevices enumerates connected Kirale USB devices.
func FindUSBDevices(ctx *gousb.Context) ([]*gousb.Device, error) {
	return ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(KiraleVID)
	})
}
