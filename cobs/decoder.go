package cobs

import "encoding/binary"

// Decoder states, from draft-ietf-pppext-cobs-00's code-byte table:
//
//	0x00       restart reception
//	0x01..0xcf literal run, implicit trailing zero
//	0xd0       long literal run, no trailing zero
//	0xd1,0xd2  unused, treated as error
//	0xd3..0xdf run of (code-0xd0) zeroes
//	0xe0..0xfe literal run, two trailing zeroes
//	0xff       PPP error byte
const (
	codeRestart       = 0x00
	codeLongLiteral   = 0xd0
	codeZeroRunLowest = 0xd3
	codeTwoZeroLowest = 0xe0
	codeErrorByte     = 0xff
)

// Decoder decodes a COBS-PPP stream one byte at a time. A call to
// DecodeByte returns 0 while a frame is still in progress, a positive
// value equal to the decoded message length once a complete frame has
// been recognized, or -1 if the stream is malformed.
type Decoder struct {
	out       []byte
	remaining int
	zeros     int
	length    int
	hasLength bool
}

// NewDecoder returns a ready-to-use Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset clears all decoding state, as if the decoder had just been
// created. It is also triggered internally by a 0x00 restart byte.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

// DecodeByte feeds one wire byte into the decoder.
func (d *Decoder) DecodeByte(b byte) int {
	ret := 0

	if d.remaining == 0 {
		switch {
		case b >= codeErrorByte:
			ret = -1
		case b >= codeTwoZeroLowest:
			d.remaining = int(b) - codeTwoZeroLowest
			d.zeros = 2
		case b >= codeZeroRunLowest:
			d.zeros = int(b) - codeLongLiteral
		case b > codeLongLiteral:
			// 0xd1, 0xd2: unused codes.
			ret = -1
		case b == codeLongLiteral:
			d.remaining = int(b) - 1
		case b > codeRestart:
			d.remaining = int(b) - 1
			d.zeros = 1
		default:
			d.Reset()
		}
	} else {
		d.out = append(d.out, b)
		d.remaining--
	}

	if d.remaining == 0 {
		for i := 0; i < d.zeros; i++ {
			d.out = append(d.out, 0)
		}
		d.zeros = 0
	}

	if !d.hasLength {
		if len(d.out) >= 2 {
			d.length = int(binary.BigEndian.Uint16(d.out[:2])) + 5
			d.hasLength = true
		}
	} else if len(d.out) > d.length {
		ret = d.length
		d.out = d.out[:len(d.out)-1]
	}

	return ret
}

// Bytes returns the message decoded so far.
func (d *Decoder) Bytes() []byte {
	return d.out
}

// Decode decodes a single complete COBS-PPP frame (including its
// leading zero delimiter) in one call. It returns the decoded payload,
// or an error if the frame is malformed or incomplete.
func Decode(frame []byte) ([]byte, error) {
	d := NewDecoder()
	var n int
	for _, b := range frame {
		n = d.DecodeByte(b)
		if n < 0 {
			return nil, ErrMalformedFrame
		}
		if n > 0 {
			return d.Bytes(), nil
		}
	}
	return nil, ErrIncompleteFrame
}
