// Package rosbag1 implements the legacy ROS1 bag container: a record stream
// of bag-header, connection, chunk, chunk-info, message-data and index-data
// records, documented at http://wiki.ros.org/Bags/Format/2.0.
package rosbag1

import "fmt"

// Magic is the magic line that opens every rosbag1 file.
var Magic = []byte("#ROSBAG V2.0\n")

// OpCode tags a record's type.
type OpCode byte

const (
	OpError       OpCode = 0x00
	OpMessageData OpCode = 0x02
	OpBagHeader   OpCode = 0x03
	OpIndexData   OpCode = 0x04
	OpChunk       OpCode = 0x05
	OpChunkInfo   OpCode = 0x06
	OpConnection  OpCode = 0x07
)

func (o OpCode) String() string {
	switch o {
	case OpBagHeader:
		return "bag header"
	case OpChunk:
		return "chunk"
	case OpConnection:
		return "connection"
	case OpMessageData:
		return "message data"
	case OpIndexData:
		return "index data"
	case OpChunkInfo:
		return "chunk info"
	default:
		return "unknown"
	}
}

// Compression algorithms supported for chunk data.
const (
	CompressionNone = "none"
	CompressionLZ4  = "lz4"
	CompressionBZ2  = "bz2"
)

// BagHeader is the first record in every bag.
type BagHeader struct {
	IndexPos   uint64
	ConnCount  uint32
	ChunkCount uint32
}

// Connection carries a topic's connection metadata. Conn is the numeric
// connection id used to associate message records with it; Topic is the
// physical topic the record was written to, which may differ from
// Data.Topic when a message was republished on another name.
type Connection struct {
	Conn  uint32
	Topic string
	Data  ConnectionHeader
}

// ConnectionHeader is the data portion of a connection record, documented at
// http://wiki.ros.org/ROS/Connection%20Header.
type ConnectionHeader struct {
	Topic             string
	Type              string
	MD5Sum            string
	MessageDefinition []byte
	CallerID          *string
	Latching          *bool
}

// Message is a single recorded message on a connection.
type Message struct {
	Conn uint32
	Time uint64 // nanoseconds since the Unix epoch
	Data []byte
}

// ChunkInfo locates a chunk and summarises its contents; placed in the index
// region so a reader can plan decompression without scanning the chunk.
type ChunkInfo struct {
	ChunkPos  uint64
	StartTime uint64
	EndTime   uint64
	Count     uint32
	Data      map[uint32]uint32 // connection id -> message count
}

// IndexData lists every message on one connection within the chunk that
// precedes it.
type IndexData struct {
	Conn  uint32
	Count uint32
	Data  []MessageIndexEntry
}

// MessageIndexEntry locates one message within its chunk's decompressed
// bytes.
type MessageIndexEntry struct {
	Time   uint64
	Offset uint32
}

// UnsupportedCompressionError is returned for a chunk compression algorithm
// other than none, lz4, or bz2 when reading, and other than none or lz4 when
// writing.
type UnsupportedCompressionError struct{ Compression string }

func (e *UnsupportedCompressionError) Error() string {
	return "rosbag1: unsupported compression: " + e.Compression
}

// UnexpectedOpError is returned when a record's opcode does not match what
// the reader expected to find at that position.
type UnexpectedOpError struct{ Want, Got OpCode }

func (e *UnexpectedOpError) Error() string {
	return fmt.Sprintf("rosbag1: unexpected record: want %s, got %s", e.Want, e.Got)
}

// HeaderKeyNotFoundError is returned when a required header field is absent
// from a record.
type HeaderKeyNotFoundError struct{ Key string }

func (e *HeaderKeyNotFoundError) Error() string {
	return "rosbag1: header key not found: " + e.Key
}
