package cobs

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// kbiShapedMessage builds a byte slice shaped like a KBI frame: a
// big-endian payload-length prefix followed by that much payload, so
// the decoder's embedded length field lines up the way it does for
// real traffic (the Kirale COBS framing is not generic COBS -- it
// assumes the framed message starts with a KBI header).
func kbiShapedMessage(payload []byte) []byte {
	msg := make([]byte, 5+len(payload))
	binary.BigEndian.PutUint16(msg[0:2], uint16(len(payload)))
	msg[2], msg[3], msg[4] = 0x01, 0x02, 0x03
	copy(msg[5:], payload)
	return msg
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(rt, "payload")
		msg := kbiShapedMessage(payload)

		frame := Encode(msg)
		assert.Equal(t, byte(0), frame[0], "frame must start with delimiter zero")

		got, err := Decode(frame)
		assert.NoError(t, err)
		assert.Equal(t, msg, got)
	})
}

func TestEncodeShortPayload(t *testing.T) {
	msg := kbiShapedMessage([]byte{0x11, 0x22, 0x33})
	frame := Encode(msg)
	got, err := Decode(frame)
	assert.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestEncodeLongLiteralRun(t *testing.T) {
	payload := make([]byte, 250)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	msg := kbiShapedMessage(payload)
	frame := Encode(msg)
	got, err := Decode(frame)
	assert.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestEncodeLongZeroRun(t *testing.T) {
	payload := make([]byte, 40)
	msg := kbiShapedMessage(payload)
	frame := Encode(msg)
	got, err := Decode(frame)
	assert.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestDecodeRejectsErrorByte(t *testing.T) {
	d := NewDecoder()
	ret := d.DecodeByte(0xff)
	assert.Equal(t, -1, ret)
}

func TestDecodeRejectsUnusedCode(t *testing.T) {
	for _, b := range []byte{0xd1, 0xd2} {
		d := NewDecoder()
		assert.Equal(t, -1, d.DecodeByte(b))
	}
}

func TestDecodeRestartByte(t *testing.T) {
	d := NewDecoder()
	d.DecodeByte(0x02)
	d.DecodeByte(0xaa)
	// remaining is back to 0 here; 0x00 as the next code byte resets
	// the decoder rather than being treated as data.
	d.DecodeByte(0x00)
	assert.Empty(t, d.Bytes())
}

func TestDecodeIncompleteFrame(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x06})
	assert.ErrorIs(t, err, ErrIncompleteFrame)
}
