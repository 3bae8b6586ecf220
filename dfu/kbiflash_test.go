package dfu

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/KiraleTech/KiTools/cobs"
	"github.com/KiraleTech/KiTools/kbi"
	"github.com/KiraleTech/KiTools/kiserial"
	"github.com/stretchr/testify/assert"
)

// scriptedLink is an io.ReadWriteCloser test double serving a fixed
// sequence of pre-encoded reply bytes, one Write call's worth at a time.
type scriptedLink struct {
	toRead []byte
	dump   bytes.Buffer
}

func (l *scriptedLink) Read(p []byte) (int, error) {
	if len(l.toRead) == 0 {
		return 0, errors.New("no more scripted data")
	}
	n := copy(p, l.toRead)
	l.toRead = l.toRead[n:]
	return n, nil
}

func (l *scriptedLink) Write(p []byte) (int, error) { return l.dump.Write(p) }
func (l *scriptedLink) Close() error                { return nil }

func TestKBIFlasherSingleBlock(t *testing.T) {
	blockAck := make([]byte, 2)
	binary.BigEndian.PutUint16(blockAck, 0)
	ackFrame := kbi.NewCommand(kbi.FrameResponse|kbi.RespValue, kbi.CmdFirmwareUpdate, blockAck)
	resetAck := kbi.NewCommand(kbi.FrameResponse|kbi.CmdClassExec, 0x03, nil)

	var script []byte
	script = append(script, cobs.Encode(ackFrame.Bytes())...)
	script = append(script, cobs.Encode(resetAck.Bytes())...)

	link := &scriptedLink{toRead: script}
	tr := kiserial.NewTransport(link, "COM1", kiserial.ModeBinary)
	flasher := NewKBIFlasher(tr)

	f := &File{Data: make([]byte, 32)}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var progressed bool
	err := flasher.Flash(ctx, f, func(block, total int) {
		progressed = true
		assert.Equal(t, 1, block)
		assert.Equal(t, 1, total)
	})
	assert.NoError(t, err)
	assert.True(t, progressed)
}
