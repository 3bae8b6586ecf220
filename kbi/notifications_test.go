package kbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPingReplyNotificationText(t *testing.T) {
	payload := make([]byte, 22)
	payload[15] = 0x01   // ::1
	payload[17] = 0x40   // size = 64
	payload[19] = 0x01   // id = 1
	payload[21] = 0x02   // sq = 2

	f := NewCommand(FrameNotification|NotifyPingReply, 0x00, payload)
	assert.Equal(t, "# ping reply: saddr ::1 id 1 sq 2 - 64 bytes", f.ToText())
}

func TestDestUnreachableNotificationText(t *testing.T) {
	payload := make([]byte, 16)
	payload[15] = 0x01 // ::1

	f := NewCommand(FrameNotification|NotifyDestUnreachable, 0x00, payload)
	assert.Equal(t, "# dst unreachable: daddr ::1", f.ToText())
}

func TestDecodeNotificationPingReply(t *testing.T) {
	payload := make([]byte, 22)
	payload[15] = 0x01
	payload[17] = 0x40
	payload[19] = 0x01
	payload[21] = 0x02

	f := NewCommand(FrameNotification|NotifyPingReply, 0x00, payload)
	n := DecodeNotification(f)
	assert.Equal(t, KindPingReply, n.Kind)
	assert.Equal(t, uint16(1), n.ID)
	assert.Equal(t, uint16(2), n.Seq)
	assert.Equal(t, 64, n.Size)
}

func TestIsNotification(t *testing.T) {
	cmd := NewCommand(FrameCommand|CmdClassRead, 0x01, nil)
	assert.False(t, cmd.IsNotification())

	ntf := NewCommand(FrameNotification|NotifyDestUnreachable, 0x00, make([]byte, 16))
	assert.True(t, ntf.IsNotification())
}
