package kiserial

import (
	"io"

	"github.com/jacobsa/go-serial/serial"
)

// Open opens the specified serial port with the line settings KiTools
// nodes expect on both the KBI UART and the KSH USB CDC port.
//
// TODO: expose RTS/CTS control lines for boards that need them.
func Open(path string, baud uint) (io.ReadWriteCloser, error) {
	opts := serial.OpenOptions{
		PortName:              path,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
		MinimumReadSize:       1,
	}
	return serial.Open(opts)
}
