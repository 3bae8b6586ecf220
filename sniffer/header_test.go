package sniffer

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameHeaderSymbolTimestamp(t *testing.T) {
	var buf [10]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(magicSymbolTimestamp))
	binary.BigEndian.PutUint16(buf[4:6], 5)
	binary.BigEndian.PutUint32(buf[6:10], 1000)

	h := &FrameHeader{}
	var d Decoded
	var complete bool
	for _, b := range buf[:] {
		d, complete = h.AddByte(b)
	}
	assert.True(t, complete)
	assert.Equal(t, 5, d.Length)
	assert.Equal(t, uint64(1000), d.Timestamp)
	assert.False(t, d.UsecTimestamp)
}

func TestFrameHeaderRSSILQI(t *testing.T) {
	var buf [14]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(magicRSSILQIUsec))
	binary.BigEndian.PutUint16(buf[4:6], 9)

	var wide uint64
	wide |= uint64(0xF6) << 56 // rssi = -10 as uint8
	wide |= uint64(200) << 48  // lqi
	wide |= 123456             // timestamp[us]
	binary.BigEndian.PutUint64(buf[6:14], wide)

	h := &FrameHeader{}
	var d Decoded
	var complete bool
	for _, b := range buf[:] {
		d, complete = h.AddByte(b)
	}
	assert.True(t, complete)
	assert.Equal(t, 9, d.Length)
	assert.Equal(t, int8(-10), d.RSSI)
	assert.Equal(t, uint8(200), d.LQI)
	assert.Equal(t, uint64(123456), d.Timestamp)
	assert.True(t, d.UsecTimestamp)
}

func TestFrameHeaderSkipsGarbageBeforeMagic(t *testing.T) {
	h := &FrameHeader{}
	for _, b := range []byte{0xAA, 0xBB} {
		h.AddByte(b)
	}
	var buf [10]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(magicSymbolTimestamp))
	binary.BigEndian.PutUint16(buf[4:6], 1)
	var complete bool
	for _, b := range buf[:] {
		_, complete = h.AddByte(b)
	}
	assert.True(t, complete)
}
