package transcode

import "fmt"

// ShortReadError is returned when the input buffer is exhausted before a
// value's declared length can be fully read.
type ShortReadError struct {
	Want, Have int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("transcode: short read: wanted %d bytes, have %d", e.Want, e.Have)
}

// BadLengthError is returned when a string length prefix is malformed (for
// CDR, a zero length is invalid since it must account for the trailing NUL).
type BadLengthError struct {
	Length int
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("transcode: invalid length %d", e.Length)
}
