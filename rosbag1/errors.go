package rosbag1

import "errors"

var (
	// ErrUnindexed is returned when opening a bag whose bag-header IndexPos
	// is zero: the reader refuses to scan the whole file looking for an
	// index that was never written.
	ErrUnindexed = errors.New("rosbag1: unindexed bag")

	// ErrSplitNotSupported names the split-bag case: multi-file bags are not
	// supported. No reader path in this package detects a split bag or
	// returns this error.
	ErrSplitNotSupported = errors.New("rosbag1: split bags are not supported")

	// ErrInvalidOpHeader is returned when a record's "op" header field is
	// missing or not exactly one byte.
	ErrInvalidOpHeader = errors.New("rosbag1: invalid op header")

	// ErrInvalidHeapEntry is returned when the message min-heap yields a
	// value of unexpected shape; indicates an internal bug.
	ErrInvalidHeapEntry = errors.New("rosbag1: invalid heap entry")

	// ErrShortBuffer is returned when a record is too short to contain its
	// declared header.
	ErrShortBuffer = errors.New("rosbag1: short buffer")

	// ErrNotABag is returned when a file does not begin with the rosbag1
	// magic line.
	ErrNotABag = errors.New("rosbag1: not a bag file")

	// ErrMalformedHeader is returned when a record header's length-prefixed
	// fields do not parse.
	ErrMalformedHeader = errors.New("rosbag1: malformed header")

	// ErrUnseekableReader is returned when an indexed read is requested on a
	// reader that is not an io.ReadSeeker.
	ErrUnseekableReader = errors.New("rosbag1: reader is not seekable")

	// ErrNotImplemented is returned by a linear scan that meets a chunk whose
	// compression is not none, lz4 or bz2.
	ErrNotImplemented = errors.New("rosbag1: not implemented")
)
