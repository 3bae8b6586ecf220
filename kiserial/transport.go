package kiserial

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/KiraleTech/KiTools/cobs"
	"github.com/KiraleTech/KiTools/kbi"
)

// Transport is a single-threaded, synchronous command channel to a
// node, mirroring the original tool's KiSerial: every Command call
// writes a request and blocks for its matching reply before returning.
type Transport struct {
	port  io.ReadWriteCloser
	name  string
	mode  Mode
	Debug DebugLevel

	logs []string
}

// NewTransport wraps an already-open port. mode must match how the
// node's firmware frames the wire: ModeBinary for the KBI UART path,
// ModeShell for the KSH USB CDC path.
func NewTransport(port io.ReadWriteCloser, name string, mode Mode) *Transport {
	return &Transport{port: port, name: name, mode: mode}
}

// Close releases the underlying port.
func (t *Transport) Close() error { return t.port.Close() }

// Command sends a single KiOS text command and returns its response
// split into lines, the way the node's shell or KBI-to-text rendering
// would present it.
func (t *Transport) Command(ctx context.Context, text string) ([]string, error) {
	if t.mode == ModeBinary {
		return t.kbiCommand(ctx, text)
	}
	return t.shellCommand(ctx, text)
}

func (t *Transport) kbiCommand(ctx context.Context, text string) ([]string, error) {
	req, err := kbi.NewCommandFromText(text)
	if err != nil {
		return []string{"Syntax error"}, nil
	}

	rsp, err := t.ExchangeFrame(ctx, req)
	if err != nil {
		// One retry on COBS/timeout error, mirroring the original tool.
		rsp, err = t.ExchangeFrame(ctx, req)
	}
	if err != nil {
		return []string{"Read timeout"}, nil
	}
	if rsp.Opcode() != req.Opcode() {
		return []string{"Response code not matching"}, nil
	}
	return splitLines(rsp.ToText()), nil
}

// ExchangeFrame writes a raw KBI command frame and blocks for its
// COBS-framed reply, bypassing Command's text formatting. Used by
// callers that need direct frame access, such as the KBI-path flash
// engine's block-transfer handshake.
func (t *Transport) ExchangeFrame(ctx context.Context, req *kbi.Frame) (*kbi.Frame, error) {
	enc := cobs.Encode(req.Bytes())
	if _, err := t.port.Write(enc); err != nil {
		return nil, err
	}

	dec := cobs.NewDecoder()
	for {
		b, err := t.readByte(ctx)
		if err != nil {
			return nil, err
		}
		if n := dec.DecodeByte(b); n != 0 {
			return kbi.ParseResponse(dec.Bytes())
		}
	}
}

func (t *Transport) shellCommand(ctx context.Context, text string) ([]string, error) {
	if _, err := t.port.Write([]byte(text + "\r")); err != nil {
		return nil, err
	}

	var out strings.Builder
	for !strings.Contains(out.String(), ShellPrompt) {
		b, err := t.readByte(ctx)
		if err != nil {
			return []string{"Read timeout"}, nil
		}
		out.WriteByte(b)
	}

	var response []string
	for _, line := range splitLines(strings.ReplaceAll(out.String(), ShellPrompt, "")) {
		if strings.HasPrefix(line, "#") {
			t.logs = append(t.logs, line)
			continue
		}
		response = append(response, line)
	}
	return response, nil
}

// ReadRaw reads exactly n bytes off the underlying port, bypassing KBI
// and KSH framing entirely. Used by the sniffer, which parses its own
// magic-header-delimited stream directly off the wire.
func (t *Transport) ReadRaw(ctx context.Context, n int) ([]byte, error) {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := t.readByte(ctx)
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	return buf, nil
}

func (t *Transport) readByte(ctx context.Context) (byte, error) {
	type result struct {
		b   byte
		err error
	}
	ch := make(chan result, 1)
	go func() {
		var buf [1]byte
		n, err := t.port.Read(buf[:])
		if n > 0 {
			ch <- result{buf[0], nil}
			return
		}
		if err == nil {
			err = io.ErrNoProgress
		}
		ch <- result{0, err}
	}()

	select {
	case r := <-ch:
		return r.b, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WaitFor repeatedly issues "show <key>" until value appears (or,
// when inverse is true, disappears) among the response lines, giving
// up after two minutes.
func (t *Transport) WaitFor(ctx context.Context, key, value string, inverse bool) error {
	for i := 0; i < 120; i++ {
		lines, err := t.Command(ctx, fmt.Sprintf("show %s", key))
		if err != nil {
			return err
		}
		found := containsLine(lines, value)
		if !inverse && found {
			return nil
		}
		if inverse && !found {
			return nil
		}

		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return &TimeoutError{Command: fmt.Sprintf("wait for %s=%s", key, value)}
}

// StartLogs clears the buffered log lines and enables device logging
// at the given level/module filter ("all" for everything).
func (t *Transport) StartLogs(ctx context.Context, level, module string) error {
	t.logs = nil
	if _, err := t.Command(ctx, fmt.Sprintf("debug module %s", module)); err != nil {
		return err
	}
	_, err := t.Command(ctx, fmt.Sprintf("debug level %s", level))
	return err
}

// GetLogs waits up to wait seconds for more notifications to arrive,
// disables device logging, and returns everything buffered so far.
func (t *Transport) GetLogs(ctx context.Context, wait int) ([]string, error) {
	for i := 0; i < wait; i++ {
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return t.logs, ctx.Err()
		}
	}
	if _, err := t.Command(ctx, "debug module none"); err != nil {
		return t.logs, err
	}
	if _, err := t.Command(ctx, "debug level none"); err != nil {
		return t.logs, err
	}
	return t.logs, nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func containsLine(lines []string, value string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) == value {
			return true
		}
	}
	return false
}
