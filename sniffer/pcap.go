package sniffer

import (
	"bytes"
	"encoding/binary"
	"math"
)

// pcapHeader is the classic libpcap global file header, big-endian per
// the Libpcap File Format spec.
type pcapHeader struct {
	MagicNumber  uint32
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	SnapLen      uint32
	LinkType     uint32
}

const (
	linkType154    = 195 // DLT_IEEE802_15_4
	linkType154TAP = 283 // DLT_IEEE802_15_4_TAP
)

// FileHeader renders the global pcap header for the given link type.
func FileHeader(linkTypeTAP bool) []byte {
	h := pcapHeader{
		MagicNumber:  0xA1B2C3D4,
		VersionMajor: 2,
		VersionMinor: 4,
		SnapLen:      0xFFFF,
		LinkType:     linkType154,
	}
	if linkTypeTAP {
		h.LinkType = linkType154TAP
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, h)
	return buf.Bytes()
}

// Frame is a single captured 802.15.4 PHY frame plus its timing and
// radio quality metadata, ready to be rendered as a pcap record.
type Frame struct {
	Payload []byte
	LinkTAP bool
	Usec    uint64
	RSSI    int8
	LQI     uint8
	Channel int
}

// Bytes renders the per-packet pcap record header, the optional
// IEEE 802.15.4 TAP header and TLVs, and the payload.
func (f *Frame) Bytes() []byte {
	tapLen := 0
	if f.LinkTAP {
		tapLen = 4 + 4*8
	}
	inclLen := uint32(len(f.Payload) + tapLen)

	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(f.Usec/1000000))
	binary.Write(&buf, binary.BigEndian, uint32(f.Usec%1000000))
	binary.Write(&buf, binary.BigEndian, inclLen)
	binary.Write(&buf, binary.BigEndian, inclLen)

	if f.LinkTAP {
		// IEEE 802.15.4 TAP fields are little-endian, unlike the
		// surrounding pcap record header.
		binary.Write(&buf, binary.LittleEndian, struct {
			Version  uint8
			Reserved uint8
			Length   uint16
		}{0, 0, uint16(tapLen)})

		// FCS type TLV: 16-bit CRC trails the PHY payload.
		binary.Write(&buf, binary.LittleEndian, struct{ Type, Len uint16 }{0, 1})
		binary.Write(&buf, binary.LittleEndian, uint32(1))

		// RSS TLV.
		binary.Write(&buf, binary.LittleEndian, struct{ Type, Len uint16 }{1, 4})
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(float32(f.RSSI)))

		// LQI TLV.
		binary.Write(&buf, binary.LittleEndian, struct{ Type, Len uint16 }{10, 1})
		binary.Write(&buf, binary.LittleEndian, uint32(f.LQI))

		// Channel assignment TLV (page 0).
		binary.Write(&buf, binary.LittleEndian, struct{ Type, Len, Channel, Page uint16 }{
			3, 3, uint16(f.Channel), 0,
		})
	}

	buf.Write(f.Payload)
	return buf.Bytes()
}
