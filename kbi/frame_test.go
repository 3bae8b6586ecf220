package kbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommandChecksum(t *testing.T) {
	f := NewCommand(FrameCommand|CmdClassWrite, 0x12, []byte{15})
	assert.Len(t, f.Bytes(), 6)
	assert.Equal(t, checksum(f.Bytes()), f.Bytes()[4])
}

func TestParseResponseRoundTrip(t *testing.T) {
	cmd := NewCommand(FrameResponse|RespValue, 0x12, []byte{15})
	f, err := ParseResponse(cmd.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, byte(0x12), f.Opcode())
	assert.Equal(t, []byte{15}, f.Payload())
}

func TestParseResponseBadChecksum(t *testing.T) {
	cmd := NewCommand(FrameResponse|RespValue, 0x12, []byte{15})
	raw := cmd.Bytes()
	raw[4] ^= 0xFF
	_, err := ParseResponse(raw)
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestParseResponseBadLength(t *testing.T) {
	// Checksum is valid but the length field lies about the frame size.
	raw := make([]byte, 6)
	raw[0], raw[1] = 0x00, 0x05
	raw[2] = FrameResponse | RespValue
	raw[3] = 0x12
	raw[5] = 15
	raw[4] = checksum(raw)

	_, err := ParseResponse(raw)
	assert.ErrorIs(t, err, ErrLength)
}

func TestParseResponseTooShort(t *testing.T) {
	_, err := ParseResponse([]byte{0x00, 0x00, 0x02})
	assert.ErrorIs(t, err, ErrShortFrame)
}

func TestResponseTextEmptyOK(t *testing.T) {
	f := NewCommand(FrameResponse|RespOK, 0x03, nil)
	assert.Equal(t, "", f.ToText())
}

func TestResponseTextKnownValue(t *testing.T) {
	f := NewCommand(FrameResponse|RespValue, 0x12, []byte{15})
	assert.Equal(t, "15", f.ToText())
}

func TestResponseTextBadParameter(t *testing.T) {
	f := NewCommand(FrameResponse|RespBadPar, 0x12, nil)
	assert.Equal(t, "Bad parameter", f.ToText())
}

func TestResponseTextUnknownOpcodeValue(t *testing.T) {
	f := NewCommand(FrameResponse|RespValue, 0x7F, []byte{1})
	assert.Equal(t, "Wrong value or parser not implemented", f.ToText())
}
