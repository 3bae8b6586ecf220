package kiserial

import (
	"io"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenLoopback exercises Open against a real tty by way of a pty
// pair, rather than a fake io.ReadWriteCloser, the way the teacher's
// kiss.go stands up a pseudo terminal for its own KISS TNC loopback.
func TestOpenLoopback(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()

	port, err := Open(slave.Name(), 115200)
	require.NoError(t, err)
	defer port.Close()

	go func() {
		master.Write([]byte("hello"))
	}()

	buf := make([]byte, 5)
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadFull(port, buf)
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for loopback read")
	}
	assert.Equal(t, "hello", string(buf))
}
