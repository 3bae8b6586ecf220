// Package cobs implements the Kirale COBS-PPP byte-stuffing codec
// described in draft-ietf-pppext-cobs-00. It differs from "vanilla"
// COBS in its code-byte table: long literal runs (0xD0), zero runs
// (0xD3-0xDF) and literal-plus-two-trailing-zero blocks (0xE0-0xFE)
// are all distinct cases from the single-trailing-zero case that
// vanilla COBS always uses.
package cobs

// Encoder accumulates COBS-encoded output. Each call to Encode encodes
// one more block of input; Bytes returns the framed output built so
// far, with the leading zero delimiter the wire format requires.
type Encoder struct {
	out   []byte
	data  []byte
	zeros []byte
}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode applies COBS framing to data and appends the result to the
// encoder's internal buffer. Each call treats data as followed by one
// implicit zero byte and flushes every block before returning, so
// input split across several calls decodes with a zero byte after
// each part.
func (e *Encoder) Encode(data []byte) {
	input := make([]byte, len(data)+1)
	copy(input, data)

	i := 0
	for i < len(input) {
		isZero := input[i] == 0
		start := i
		for i < len(input) && (input[i] == 0) == isZero {
			i++
		}
		block := input[start:i]
		if !isZero {
			e.data = append([]byte(nil), block...)
			continue
		}
		e.zeros = append([]byte(nil), block...)

		// The data bytes, no implicit trailing zero.
		for len(e.data) >= 0xcf {
			e.step(0xd0, 0xd0-1, 0)
		}
		// The data bytes, plus two trailing zeroes.
		if len(e.zeros) > 1 && len(e.data) <= 0x1e {
			e.step(byte(0xe0+len(e.data)), len(e.data), 2)
		}
		// A run of (n-D0) zeroes.
		for len(e.zeros) > 15 && len(e.data) == 0 {
			e.step(0xdf, 0, 15)
		}
		if len(e.zeros) > 2 && len(e.data) == 0 {
			e.step(byte(0xd0+len(e.zeros)), 0, len(e.zeros))
		}
		// The data bytes, plus an implicit trailing zero.
		for len(e.zeros) > 0 {
			e.step(byte(len(e.data)+1), len(e.data), 1)
		}
	}
}

func (e *Encoder) step(code byte, dlen, zlen int) {
	e.out = append(e.out, code)
	e.out = append(e.out, e.data[:dlen]...)
	e.data = e.data[dlen:]
	e.zeros = e.zeros[zlen:]
}

// Bytes returns the encoded frame with its leading zero delimiter.
func (e *Encoder) Bytes() []byte {
	return append([]byte{0}, e.out...)
}

// Encode is a convenience wrapper for the common one-shot case: frame
// a complete message and return the wire bytes in a single call.
func Encode(data []byte) []byte {
	e := NewEncoder()
	e.Encode(data)
	return e.Bytes()
}
