package sniffer

import (
	"context"
	"encoding/binary"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/KiraleTech/KiTools/kiserial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingLink serves a queued byte stream, blocking on reads once the
// queue runs dry, the way a real serial port blocks when no more data
// is pending. More bytes can be appended at any time via Feed; waiting
// signals once per blocked Read so a test can be sure a goroutine is
// genuinely parked before it appends more data, instead of racing it.
type blockingLink struct {
	mu      sync.Mutex
	toRead  []byte
	closeCh chan struct{}
	waiting chan struct{}
}

func newBlockingLink(canned []byte) *blockingLink {
	return &blockingLink{toRead: canned, closeCh: make(chan struct{}), waiting: make(chan struct{}, 1)}
}

func (l *blockingLink) Feed(b []byte) {
	l.mu.Lock()
	l.toRead = append(l.toRead, b...)
	l.mu.Unlock()
}

func (l *blockingLink) Read(p []byte) (int, error) {
	l.mu.Lock()
	if len(l.toRead) > 0 {
		n := copy(p, l.toRead)
		l.toRead = l.toRead[n:]
		l.mu.Unlock()
		return n, nil
	}
	l.mu.Unlock()

	select {
	case l.waiting <- struct{}{}:
	default:
	}
	<-l.closeCh
	return 0, io.EOF
}

func (l *blockingLink) Write(p []byte) (int, error) { return len(p), nil }

func (l *blockingLink) Close() error {
	select {
	case <-l.closeCh:
	default:
		close(l.closeCh)
	}
	return nil
}

type captureSink struct {
	frames []*Frame
}

func (s *captureSink) Start() error { return nil }
func (s *captureSink) Handle(f *Frame) error {
	s.frames = append(s.frames, f)
	return nil
}
func (s *captureSink) Stop() error { return nil }

func magicUsecFrame(payload []byte, usec uint64) []byte {
	body := make([]byte, 10)
	binary.BigEndian.PutUint16(body[0:2], uint16(len(payload)))
	binary.BigEndian.PutUint64(body[2:10], usec)

	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(magicUsecTimestamp))
	buf = append(buf, body...)
	buf = append(buf, payload...)
	return buf
}

// TestSessionStartReceivesFrameAndStopDoesNotDeadlock pins the ordering
// fix in Session.Stop: canceling the receive goroutine's own context
// before waiting on it, rather than waiting on a goroutine that can
// only exit once the very "ifdown" command Stop sends afterward has
// already been written.
func TestSessionStartReceivesFrameAndStopDoesNotDeadlock(t *testing.T) {
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}

	var canned []byte
	canned = append(canned, []byte("\r\n"+kiserial.ShellPrompt)...)     // config channel 15
	canned = append(canned, []byte("none\r\n"+kiserial.ShellPrompt)...) // show status
	canned = append(canned, []byte("\r\n"+kiserial.ShellPrompt)...)     // ifup
	canned = append(canned, magicUsecFrame(payload, 123)...)

	link := newBlockingLink(canned)

	tr := kiserial.NewTransport(link, "COM1", kiserial.ModeShell)
	session := NewSession(tr, false)
	sink := &captureSink{}
	session.AddSink(sink)

	ctx := context.Background()
	require.NoError(t, session.SetChannel(ctx, 15))
	require.NoError(t, session.Reset(ctx))
	require.NoError(t, session.Start(ctx))

	require.Eventually(t, func() bool {
		return len(sink.frames) == 1
	}, time.Second, 10*time.Millisecond)

	select {
	case <-link.waiting:
	case <-time.After(time.Second):
		t.Fatal("receive loop never parked waiting for more data")
	}
	link.Feed([]byte("\r\n" + kiserial.ShellPrompt)) // ifdown

	stopped := make(chan error, 1)
	go func() { stopped <- session.Stop(ctx) }()

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop deadlocked waiting on the receive goroutine")
	}

	assert.Equal(t, payload, sink.frames[0].Payload)
}
