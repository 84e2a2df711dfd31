// Package anyreader provides a single reading interface over both bag
// formats: callers that only want to inspect or print messages should not
// need to know whether a path is a rosbag1 file or a rosbag2 directory.
package anyreader

import (
	"fmt"
	"io"
	"os"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/rosbag1"
	"github.com/ternarisco/rosbags-go/rosbag2"
	"github.com/ternarisco/rosbags-go/transcode"
	"github.com/ternarisco/rosbags-go/typesys"
)

// Connection is the bag-format-agnostic view of a logical channel.
type Connection struct {
	Topic        string
	MsgType      string
	MessageCount int64
}

// Message is a decoded message paired with the connection it arrived on.
type Message struct {
	Topic     string
	MsgType   string
	TimeNanos uint64
	Value     *cdr.Message
}

// Reader opens either a rosbag1 file or a rosbag2 directory and exposes
// both through the same operations. Messages are always returned decoded
// against reg, transcoding ROS1 wire bytes to the shared typed
// representation when the underlying bag is rosbag1.
type Reader struct {
	reg *typesys.Registry
	is2 bool

	file *os.File
	r1   *rosbag1.Reader
	info *rosbag1.Info

	r2 *rosbag2.Reader

	connections []Connection
	typeByTopic map[uint32]string
}

// Open inspects path and opens it as a rosbag2 directory if it contains a
// metadata.yaml, or as a rosbag1 file otherwise. Types referenced by a
// rosbag1 input that are not already in reg are parsed from their embedded
// message definitions and registered, mirroring the converter's behaviour.
func Open(reg *typesys.Registry, path string) (*Reader, error) {
	if _, err := os.Stat(path + "/metadata.yaml"); err == nil {
		return openRosbag2(reg, path)
	}
	return openRosbag1(reg, path)
}

func openRosbag2(reg *typesys.Registry, path string) (*Reader, error) {
	r2, err := rosbag2.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("anyreader: %w", err)
	}
	meta := r2.Metadata()
	conns := make([]Connection, 0, len(meta.Connections))
	for _, c := range meta.Connections {
		conns = append(conns, Connection{Topic: c.Topic, MsgType: c.MsgType, MessageCount: c.MessageCount})
	}
	return &Reader{reg: reg, is2: true, r2: r2, connections: conns}, nil
}

func openRosbag1(reg *typesys.Registry, path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("anyreader: %w", err)
	}
	r1, err := rosbag1.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("anyreader: %w", err)
	}
	info, err := r1.Info()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("anyreader: %w", err)
	}

	counts := info.ConnectionMessageCounts()
	conns := make([]Connection, 0, len(info.Connections))
	typeByTopic := make(map[uint32]string, len(info.Connections))
	for id, c := range info.Connections {
		typeName := typesys.NormalizeMsgType(c.Data.Type)
		if _, err := reg.Lookup(typeName); err != nil {
			_, defs, perr := typesys.ParseMsg(typeName, c.Data.MessageDefinition)
			if perr != nil {
				f.Close()
				return nil, fmt.Errorf("anyreader: parsing embedded definition for %q: %w", typeName, perr)
			}
			if rerr := reg.Register(defs); rerr != nil {
				f.Close()
				return nil, fmt.Errorf("anyreader: registering %q: %w", typeName, rerr)
			}
		}
		typeByTopic[id] = typeName
		conns = append(conns, Connection{Topic: c.Topic, MsgType: typeName, MessageCount: counts[id]})
	}

	return &Reader{reg: reg, file: f, r1: r1, info: info, connections: conns, typeByTopic: typeByTopic}, nil
}

// Connections lists every connection in the bag.
func (r *Reader) Connections() []Connection { return r.connections }

// StartTime returns the timestamp, in nanoseconds, of the earliest message.
func (r *Reader) StartTime() uint64 {
	if r.is2 {
		return r.r2.Metadata().StartTimeNanos
	}
	return r.info.MessageStartTime
}

// EndTime returns the timestamp, in nanoseconds, of the latest message.
func (r *Reader) EndTime() uint64 {
	if r.is2 {
		return r.r2.Metadata().EndTimeNanos
	}
	return r.info.MessageEndTime
}

// Duration is EndTime minus StartTime.
func (r *Reader) Duration() uint64 { return r.EndTime() - r.StartTime() }

// MessageCount is the total number of messages in the bag.
func (r *Reader) MessageCount() int64 {
	if r.is2 {
		return r.r2.Metadata().MessageCount
	}
	return int64(r.info.MessageCount)
}

// Close releases the bag's underlying resources.
func (r *Reader) Close() error {
	if r.is2 {
		return r.r2.Close()
	}
	return r.file.Close()
}

// Iterator yields decoded messages in timestamp order.
type Iterator struct {
	reg  *typesys.Registry
	next func() (*Message, error)
}

// Next returns the next decoded message, or io.EOF once exhausted.
func (it *Iterator) Next() (*Message, error) { return it.next() }

// Messages returns an iterator over every message in the bag, decoded
// against reg. A rosbag1 message is transcoded from ROS1 wire format to CDR
// before decoding, so callers always handle the same typed representation
// regardless of source format.
func (r *Reader) Messages() (*Iterator, error) {
	if r.is2 {
		inner, err := r.r2.Messages()
		if err != nil {
			return nil, fmt.Errorf("anyreader: %w", err)
		}
		return &Iterator{reg: r.reg, next: func() (*Message, error) {
			conn, msg, err := inner.Next()
			if err != nil {
				return nil, err
			}
			value, _, err := cdr.Decode(r.reg, conn.MsgType, msg.Data)
			if err != nil {
				return nil, fmt.Errorf("anyreader: decoding %q: %w", conn.MsgType, err)
			}
			return &Message{Topic: conn.Topic, MsgType: conn.MsgType, TimeNanos: msg.TimeNanos, Value: value}, nil
		}}, nil
	}

	inner, err := r.r1.Messages()
	if err != nil {
		return nil, fmt.Errorf("anyreader: %w", err)
	}
	header := cdr.EncapsulationHeader(true)
	return &Iterator{reg: r.reg, next: func() (*Message, error) {
		conn, msg, err := inner.Next()
		if err != nil {
			return nil, err
		}
		typeName := r.typeByTopic[conn.Conn]
		payload, err := transcode.ROS1ToCDR(r.reg, typeName, msg.Data)
		if err != nil {
			return nil, fmt.Errorf("anyreader: transcoding %q: %w", typeName, err)
		}
		full := make([]byte, 0, len(header)+len(payload))
		full = append(full, header[:]...)
		full = append(full, payload...)
		value, _, err := cdr.Decode(r.reg, typeName, full)
		if err != nil {
			return nil, fmt.Errorf("anyreader: decoding %q: %w", typeName, err)
		}
		return &Message{Topic: conn.Topic, MsgType: typeName, TimeNanos: msg.Time, Value: value}, nil
	}}, nil
}

var _ io.Closer = (*Reader)(nil)
