//go:build windows

package sniffer

import (
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// PipeSink feeds a Wireshark "extcap" capture via a Windows named
// pipe, the way WinPipeHandler does in the original tool.
type PipeSink struct {
	Path    string
	LinkTAP bool

	listener net.Listener
	conn     net.Conn
}

// NewPipeSinkName mirrors the original's "\\.\pipe\Kirale<unix-seconds>" naming.
func NewPipeSinkName() string {
	return fmt.Sprintf(`\\.\pipe\Kirale%d`, time.Now().Unix())
}

func NewPipeSink(path string, linkTAP bool) *PipeSink {
	return &PipeSink{Path: path, LinkTAP: linkTAP}
}

func (s *PipeSink) Start() error {
	l, err := winio.ListenPipe(s.Path, &winio.PipeConfig{
		InputBufferSize:  65536,
		OutputBufferSize: 65536,
	})
	if err != nil {
		return err
	}
	s.listener = l

	conn, err := l.Accept()
	if err != nil {
		return err
	}
	s.conn = conn
	_, err = conn.Write(FileHeader(s.LinkTAP))
	return err
}

func (s *PipeSink) Handle(frame *Frame) error {
	if _, err := s.conn.Write(frame.Bytes()); err != nil {
		return nil // original swallows write errors on a dropped reader
	}
	return nil
}

func (s *PipeSink) Stop() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return s.listener.Close()
}
