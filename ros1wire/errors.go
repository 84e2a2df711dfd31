package ros1wire

import "fmt"

// ShortReadError is returned when the buffer is exhausted before a value's
// declared length can be fully read.
type ShortReadError struct {
	Want, Have int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("ros1wire: short read: wanted %d bytes, have %d", e.Want, e.Have)
}

// ExcessBytesError is returned when bytes remain after every field of the
// root message has been decoded.
type ExcessBytesError struct {
	Remaining int
}

func (e *ExcessBytesError) Error() string {
	return fmt.Sprintf("ros1wire: %d excess bytes after message", e.Remaining)
}

// BadLengthError is returned when a string or array length prefix exceeds
// the bytes remaining in the buffer.
type BadLengthError struct {
	Length, Remaining int
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("ros1wire: length %d exceeds %d remaining bytes", e.Length, e.Remaining)
}
