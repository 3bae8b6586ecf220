//go:build linux || darwin

package sniffer

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// FifoSink feeds a Wireshark "extcap" capture via a named FIFO, the
// way UnixFifoHandler does in the original tool.
type FifoSink struct {
	Path    string
	LinkTAP bool

	f *os.File
}

// NewFifoSinkName picks a FIFO path under /tmp unique to this process,
// mirroring the original's "/tmp/Kirale<unix-seconds>" naming.
func NewFifoSinkName() string {
	return fmt.Sprintf("/tmp/Kirale%d", time.Now().Unix())
}

func NewFifoSink(path string, linkTAP bool) *FifoSink {
	return &FifoSink{Path: path, LinkTAP: linkTAP}
}

func (s *FifoSink) Start() error {
	if err := unix.Mkfifo(s.Path, 0600); err != nil {
		return err
	}
	// Retry with O_NONBLOCK until the reader (Wireshark) has opened
	// its end, mirroring the original tool's OSError retry loop.
	for {
		fd, err := unix.Open(s.Path, unix.O_NONBLOCK|unix.O_WRONLY, 0)
		if err == nil {
			s.f = os.NewFile(uintptr(fd), s.Path)
			_, err = s.f.Write(FileHeader(s.LinkTAP))
			return err
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (s *FifoSink) Handle(frame *Frame) error {
	if _, err := s.f.Write(frame.Bytes()); err != nil {
		return nil // original swallows write errors on a dropped reader
	}
	return nil
}

func (s *FifoSink) Stop() error {
	if s.f != nil {
		s.f.Close()
	}
	return os.Remove(s.Path)
}
