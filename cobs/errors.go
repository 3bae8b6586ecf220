package cobs

import "errors"

var (
	// ErrMalformedFrame is returned when a 0xd1, 0xd2, or 0xff code
	// byte is encountered.
	ErrMalformedFrame = errors.New("cobs: malformed frame")
	// ErrIncompleteFrame is returned when the input ends before the
	// decoder has recognized a complete message.
	ErrIncompleteFrame = errors.New("cobs: incomplete frame")
)
