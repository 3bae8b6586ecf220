package kiserial

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/KiraleTech/KiTools/cobs"
	"github.com/KiraleTech/KiTools/kbi"
)

// ConcurrentTransport runs dedicated reader and writer goroutines atop
// a port, the way the teacher's RunNPI/LinkMgr split PHY I/O from
// command/reply bookkeeping. It additionally surfaces notification
// frames and shell log lines on their own channels as soon as they
// arrive, instead of only as a side effect of the next command.
//
// Only one command may be outstanding at a time, mirroring the
// original tool's KiSerialTh: its write/read queue pairing never
// pipelines more than one request either.
type ConcurrentTransport struct {
	port io.ReadWriteCloser
	mode Mode

	Notifications chan kbi.Notification
	Logs          chan string
	Died          chan struct{}

	writeCh chan writeRequest

	pendMu  sync.Mutex
	pending *pendingRequest
}

type writeRequest struct {
	frame *kbi.Frame // ModeBinary
	text  string     // ModeShell
}

type pendingRequest struct {
	opcode byte
	reply  chan reply
}

type reply struct {
	frame *kbi.Frame
	lines []string
}

// ErrLinkFaulted is returned by Command once the reader or writer
// goroutine has observed an unrecoverable I/O error.
var ErrLinkFaulted = errors.New("kiserial: link faulted")

// NewConcurrentTransport launches the reader/writer goroutines over an
// already-open port and returns once they're running.
func NewConcurrentTransport(port io.ReadWriteCloser, mode Mode) *ConcurrentTransport {
	t := &ConcurrentTransport{
		port:          port,
		mode:          mode,
		Notifications: make(chan kbi.Notification, 16),
		Logs:          make(chan string, 64),
		Died:          make(chan struct{}),
		writeCh:       make(chan writeRequest, 4),
	}
	go t.reader()
	go t.writer()
	return t
}

// Close tears down the link. Safe to call once; a second call returns
// an error rather than panicking on a closed channel.
func (t *ConcurrentTransport) Close() error {
	select {
	case <-t.Died:
		return errors.New("kiserial: link already down")
	default:
	}
	close(t.Died)
	return t.port.Close()
}

func (t *ConcurrentTransport) fault() {
	select {
	case <-t.Died:
	default:
		close(t.Died)
	}
}

// Command sends a text command and blocks for its matching reply, up
// to a 3-second timeout, mirroring LinkMgr.Ctrl's timing.
func (t *ConcurrentTransport) Command(ctx context.Context, text string) ([]string, error) {
	select {
	case <-t.Died:
		return nil, ErrLinkFaulted
	default:
	}

	wr := writeRequest{text: text}
	var opcode byte
	if t.mode == ModeBinary {
		frame, err := kbi.NewCommandFromText(text)
		if err != nil {
			return []string{"Syntax error"}, nil
		}
		wr.frame = frame
		opcode = frame.Opcode()
	}

	r := &pendingRequest{opcode: opcode, reply: make(chan reply, 1)}
	t.pendMu.Lock()
	t.pending = r
	t.pendMu.Unlock()

	select {
	case t.writeCh <- wr:
	case <-t.Died:
		return nil, ErrLinkFaulted
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tck := time.After(3 * time.Second)
	select {
	case <-t.Died:
		return nil, ErrLinkFaulted
	case rep := <-r.reply:
		if rep.frame != nil {
			if rep.frame.Opcode() != opcode {
				return []string{"Response code not matching"}, nil
			}
			return splitLines(rep.frame.ToText()), nil
		}
		return rep.lines, nil
	case <-tck:
		return nil, &TimeoutError{Command: text}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *ConcurrentTransport) deliver(r reply) {
	t.pendMu.Lock()
	p := t.pending
	t.pending = nil
	t.pendMu.Unlock()
	if p == nil {
		return
	}
	p.reply <- r
}

func (t *ConcurrentTransport) writer() {
	for {
		select {
		case <-t.Died:
			return
		case wr := <-t.writeCh:
			var data []byte
			if t.mode == ModeBinary {
				data = cobs.Encode(wr.frame.Bytes())
			} else {
				data = []byte(wr.text + "\r")
			}
			if _, err := t.port.Write(data); err != nil {
				t.fault()
				return
			}
		}
	}
}

func (t *ConcurrentTransport) reader() {
	if t.mode == ModeBinary {
		t.readerBinary()
	} else {
		t.readerShell()
	}
}

func (t *ConcurrentTransport) readerBinary() {
	dec := cobs.NewDecoder()
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			t.fault()
			return
		}
		for _, b := range buf[:n] {
			if dec.DecodeByte(b) == 0 {
				continue
			}
			f, err := kbi.ParseResponse(dec.Bytes())
			dec.Reset()
			if err != nil {
				continue
			}
			if f.IsNotification() {
				select {
				case t.Notifications <- kbi.DecodeNotification(f):
				default:
				}
				continue
			}
			t.deliver(reply{frame: f})
		}
	}
}

func (t *ConcurrentTransport) readerShell() {
	buf := make([]byte, 256)
	var received strings.Builder
	var logLine strings.Builder
	inLog := false

	for {
		n, err := t.port.Read(buf)
		if err != nil {
			t.fault()
			return
		}
		for _, c := range string(buf[:n]) {
			if c == '#' {
				inLog = true
			}
			if inLog {
				if c == '\n' {
					inLog = false
					line := logLine.String()
					logLine.Reset()
					select {
					case t.Logs <- line:
					default:
					}
				} else {
					logLine.WriteRune(c)
				}
				continue
			}
			received.WriteRune(c)
		}
		if strings.Contains(received.String(), ShellPrompt) {
			lines := splitLines(strings.ReplaceAll(received.String(), ShellPrompt, ""))
			received.Reset()
			t.deliver(reply{lines: lines})
		}
	}
}
