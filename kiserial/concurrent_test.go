package kiserial

import (
	"context"
	"testing"
	"time"

	"github.com/KiraleTech/KiTools/cobs"
	"github.com/KiraleTech/KiTools/kbi"
	"github.com/stretchr/testify/assert"
)

func TestConcurrentTransportKBICommand(t *testing.T) {
	raw := kbiShapedResponse(kbi.FrameResponse|kbi.RespValue, 0x12, []byte{15})
	link := newFakeLink(cobs.Encode(raw))
	tr := NewConcurrentTransport(link, ModeBinary)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	lines, err := tr.Command(ctx, "show channel")
	assert.NoError(t, err)
	assert.Equal(t, []string{"15"}, lines)
}

func TestConcurrentTransportNotification(t *testing.T) {
	payload := make([]byte, 16)
	payload[15] = 0x01
	raw := kbiShapedResponse(kbi.FrameNotification|kbi.NotifyDestUnreachable, 0x00, payload)
	link := newFakeLink(cobs.Encode(raw))
	tr := NewConcurrentTransport(link, ModeBinary)
	defer tr.Close()

	select {
	case n := <-tr.Notifications:
		assert.Equal(t, kbi.KindDestUnreachable, n.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
	}
}

func TestConcurrentTransportShellCommand(t *testing.T) {
	link := newFakeLink([]byte("KT12345678\r\n" + ShellPrompt))
	tr := NewConcurrentTransport(link, ModeShell)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	lines, err := tr.Command(ctx, "show snum")
	assert.NoError(t, err)
	assert.Equal(t, []string{"KT12345678"}, lines)
}

func TestConcurrentTransportTimeout(t *testing.T) {
	link := newFakeLink(nil)
	tr := NewConcurrentTransport(link, ModeShell)
	defer tr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := tr.Command(ctx, "show snum")
	assert.Error(t, err)
}

func TestConcurrentTransportFault(t *testing.T) {
	link := newFakeLink(nil)
	link.active = false
	tr := NewConcurrentTransport(link, ModeShell)
	defer tr.Close()

	select {
	case <-tr.Died:
	case <-time.After(time.Second):
		t.Fatal("expected link to fault")
	}
}
