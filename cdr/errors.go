package cdr

import "fmt"

// ShortReadError is returned when the buffer is exhausted before a value's
// declared length can be fully read.
type ShortReadError struct {
	Want, Have int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("cdr: short read: wanted %d bytes, have %d", e.Want, e.Have)
}

// ExcessBytesError is returned when bytes remain in the buffer after every
// field of the root message has been decoded.
type ExcessBytesError struct {
	Remaining int
}

func (e *ExcessBytesError) Error() string {
	return fmt.Sprintf("cdr: %d excess bytes after message", e.Remaining)
}

// BadLengthError is returned when a string or sequence length prefix exceeds
// the bytes remaining in the buffer.
type BadLengthError struct {
	Length, Remaining int
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("cdr: length %d exceeds %d remaining bytes", e.Length, e.Remaining)
}

// BadHeaderError is returned when the 4-byte encapsulation header does not
// carry a recognised representation id.
type BadHeaderError struct {
	Got [2]byte
}

func (e *BadHeaderError) Error() string {
	return fmt.Sprintf("cdr: unrecognised encapsulation header %#v", e.Got)
}
