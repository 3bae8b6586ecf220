package sniffer

import (
	"os"
)

// Sink receives rendered capture frames, the way kisniffer.py's
// FileHandler/WinPipeHandler/UnixFifoHandler do for Wireshark.
type Sink interface {
	Start() error
	Handle(f *Frame) error
	Stop() error
}

// FileSink writes a capture to a classic libpcap file on disk.
type FileSink struct {
	Path    string
	LinkTAP bool

	f *os.File
}

func NewFileSink(path string, linkTAP bool) *FileSink {
	return &FileSink{Path: path, LinkTAP: linkTAP}
}

func (s *FileSink) Start() error {
	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	s.f = f
	_, err = f.Write(FileHeader(s.LinkTAP))
	return err
}

func (s *FileSink) Handle(frame *Frame) error {
	if _, err := s.f.Write(frame.Bytes()); err != nil {
		return err
	}
	return s.f.Sync()
}

func (s *FileSink) Stop() error {
	return s.f.Close()
}
