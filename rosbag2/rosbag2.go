// Package rosbag2 implements the directory-based rosbag2 container: a
// metadata.yaml document describing the bag alongside one or more sqlite3
// message stores.
package rosbag2

import "fmt"

// Compression modes for the sqlite message store.
const (
	CompressionModeNone    = "NONE"
	CompressionModeFile    = "FILE"
	CompressionModeMessage = "MESSAGE"
)

// CompressionFormatZSTD is the only supported compression algorithm.
const CompressionFormatZSTD = "zstd"

const storageIdentifierSQLite3 = "sqlite3"

// Connection is a logical channel within a bag: a topic, its message type,
// and the metadata a rosbag2 reader/writer needs to (de)serialize it.
type Connection struct {
	ID                  int
	Topic               string
	MsgType             string
	SerializationFormat string
	OfferedQoSProfiles  string
	MessageCount        int64
}

// Message is a single recorded message on a connection.
type Message struct {
	ConnectionID int
	TimeNanos    uint64
	Data         []byte
}

// MetadataInvalidError is returned when metadata.yaml fails to parse or is
// missing required fields.
type MetadataInvalidError struct{ Reason string }

func (e *MetadataInvalidError) Error() string {
	return "rosbag2: invalid metadata: " + e.Reason
}

// VersionUnsupportedError is returned for a metadata version outside the
// 1-5 range this package understands.
type VersionUnsupportedError struct{ Version int }

func (e *VersionUnsupportedError) Error() string {
	return fmt.Sprintf("rosbag2: unsupported metadata version: %d", e.Version)
}

// StorageError wraps an underlying sqlite/filesystem failure.
type StorageError struct{ Err error }

func (e *StorageError) Error() string { return "rosbag2: storage error: " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// UnsupportedCompressionError is returned for a compression format other
// than zstd, or a compression mode other than none/file/message.
type UnsupportedCompressionError struct{ Format, Mode string }

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("rosbag2: unsupported compression: format=%q mode=%q", e.Format, e.Mode)
}
