package kbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextToKBIConfigChannel(t *testing.T) {
	frameType, opcode, payload, err := TextToKBI("config channel 15")
	assert.NoError(t, err)
	assert.Equal(t, FrameCommand|CmdClassWrite, frameType)
	assert.Equal(t, byte(0x12), opcode)
	assert.Equal(t, []byte{15}, payload)
}

func TestTextToKBIShowChannel(t *testing.T) {
	frameType, opcode, payload, err := TextToKBI("show channel")
	assert.NoError(t, err)
	assert.Equal(t, FrameCommand|CmdClassRead, frameType)
	assert.Equal(t, byte(0x12), opcode)
	assert.Empty(t, payload)
}

// "show xpanfilt" and "show xpanid" share the "show xpan" stem; each
// must still resolve to its own opcode.
func TestTextToKBIXpanOrderingDisambiguation(t *testing.T) {
	_, opcode, _, err := TextToKBI("show xpanfilt")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x1F), opcode)

	_, opcode, _, err = TextToKBI("show xpanid")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x13), opcode)
}

func TestTextToKBIOptionalLastParam(t *testing.T) {
	// "config socket add" takes one parameter, but supplying none is
	// accepted too: the last required param is dropped when the
	// caller supplied exactly one fewer argument than expected.
	_, _, payload, err := TextToKBI("config socket add")
	assert.NoError(t, err)
	assert.Empty(t, payload)

	_, _, payload, err = TextToKBI("config socket add 7")
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x07}, payload)
}

func TestTextToKBIPing(t *testing.T) {
	_, opcode, payload, err := TextToKBI("ping ::1 2")
	assert.NoError(t, err)
	assert.Equal(t, byte(0x06), opcode)
	assert.Len(t, payload, 18) // 16-byte address + 2-byte count
}

func TestTextToKBIUnknownCommand(t *testing.T) {
	_, _, _, err := TextToKBI("not a real command")
	assert.Error(t, err)
}

func TestTextToKBIBadParameter(t *testing.T) {
	_, _, _, err := TextToKBI("config channel not-a-number")
	assert.Error(t, err)
}
