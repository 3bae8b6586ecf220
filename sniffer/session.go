package sniffer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/KiraleTech/KiTools/kiserial"
)

// swVersionMarker is the substring a Kirale Sniffer's "show swver"
// reports, distinguishing it from a plain KiNOS node.
const swVersionMarker = "Sniffer"

// IsSniffer probes an already-open KSH transport and reports whether
// it is running sniffer firmware.
func IsSniffer(ctx context.Context, tr *kiserial.Transport) (bool, error) {
	lines, err := tr.Command(ctx, "show swver")
	if err != nil {
		return false, err
	}
	if len(lines) == 0 {
		return false, nil
	}
	last := lines[len(lines)-1]
	return strings.Contains(last, swVersionMarker), nil
}

// Session drives a single sniffer device: it sets the capture channel,
// brings the radio's promiscuous interface up, and streams decoded
// frames to every registered Sink until Stop is called.
type Session struct {
	tr      *kiserial.Transport
	linkTAP bool
	channel int
	sinks   []Sink
	initTS  uint64

	running  bool
	wg       sync.WaitGroup
	mu       sync.Mutex
	lastErr  error
	stopRecv context.CancelFunc
}

// NewSession wraps an open shell-mode transport to a sniffer device.
func NewSession(tr *kiserial.Transport, linkTAP bool) *Session {
	return &Session{tr: tr, linkTAP: linkTAP}
}

// AddSink registers an output for captured frames. Must be called
// before Start.
func (s *Session) AddSink(sink Sink) {
	s.sinks = append(s.sinks, sink)
}

// SetChannel configures the capture channel (11-26 for 2.4GHz
// 802.15.4). Refused while a capture is running.
func (s *Session) SetChannel(ctx context.Context, channel int) error {
	if s.running {
		return fmt.Errorf("sniffer: channel cannot change while running")
	}
	if channel < 11 || channel > 26 {
		return fmt.Errorf("sniffer: channel must be between 11 and 26")
	}
	if _, err := s.tr.Command(ctx, fmt.Sprintf("config channel %d", channel)); err != nil {
		return err
	}
	s.channel = channel
	return nil
}

// Reset clears a sniffer left in a non-idle state by a previous run.
func (s *Session) Reset(ctx context.Context) error {
	lines, err := s.tr.Command(ctx, "show status")
	if err != nil {
		return err
	}
	if len(lines) > 0 && lines[0] == "none" {
		return nil
	}
	_, err = s.tr.Command(ctx, "clear")
	return err
}

// Start brings every sink and the radio interface up and begins
// streaming frames on a background goroutine.
func (s *Session) Start(ctx context.Context) error {
	if s.channel == 0 {
		return fmt.Errorf("sniffer: channel not set")
	}
	for _, sink := range s.sinks {
		if err := sink.Start(); err != nil {
			return fmt.Errorf("sniffer: starting sink: %w", err)
		}
	}

	now := time.Now()
	s.initTS = uint64(now.UnixMicro())

	if _, err := s.tr.Command(ctx, "ifup"); err != nil {
		return err
	}

	recvCtx, cancel := context.WithCancel(context.Background())
	s.stopRecv = cancel
	s.running = true
	s.wg.Add(1)
	go s.receive(recvCtx)
	return nil
}

// Stop halts capture and closes every sink, in this order: cancel the
// receive goroutine and wait for it to exit, send "ifdown", sleep
// 500ms, then close the sinks. Bytes that arrive after the receive
// goroutine has exited are not captured, and the port's pending input
// is not drained or flushed.
func (s *Session) Stop(ctx context.Context) error {
	if !s.running {
		return nil
	}
	s.running = false
	s.stopRecv()
	s.wg.Wait()

	if _, err := s.tr.Command(ctx, "ifdown"); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)

	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.sinks = nil
	return firstErr
}

func (s *Session) receive(ctx context.Context) {
	defer s.wg.Done()
	header := &FrameHeader{}

	for {
		b, err := s.tr.ReadRaw(ctx, 1)
		if err != nil {
			if ctx.Err() == nil {
				s.setErr(err)
			}
			return
		}

		d, complete := header.AddByte(b[0])
		if !complete {
			continue
		}
		payload, err := s.tr.ReadRaw(ctx, d.Length)
		if err != nil {
			if ctx.Err() == nil {
				s.setErr(err)
			}
			return
		}

		var usec uint64
		if d.UsecTimestamp {
			usec = s.initTS + d.Timestamp
		} else {
			usec = s.initTS + d.Timestamp*16 // symbols -> microseconds
		}

		frame := &Frame{
			Payload: payload,
			LinkTAP: s.linkTAP,
			Usec:    usec,
			RSSI:    d.RSSI,
			LQI:     d.LQI,
			Channel: s.channel,
		}
		for _, sink := range s.sinks {
			sink.Handle(frame)
		}
	}
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// Err returns the last I/O error observed by the receive loop, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
