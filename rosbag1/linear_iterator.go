package rosbag1

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// linearIterator performs a single forward pass over the file, usable on a
// plain io.Reader with no seek support. It buffers exactly one message so
// that a caller's Next/More protocol still reports io.EOF only once no
// further message remains, rather than one record early.
type linearIterator struct {
	currentChunkLength int64
	currentChunkRead    int64
	inChunk             bool

	reader     *bufio.Reader
	baseReader io.Reader

	connections map[uint32]*Connection
	pending     *pendingMessage
}

type pendingMessage struct {
	conn *Connection
	msg  *Message
	err  error
}

func newLinearIterator(r io.Reader) *linearIterator {
	return &linearIterator{
		reader:      bufio.NewReader(r),
		baseReader:  r,
		connections: make(map[uint32]*Connection),
	}
}

func (it *linearIterator) More() bool {
	return it.pending == nil || !errors.Is(it.pending.err, io.EOF)
}

func (it *linearIterator) advance(conn *Connection, msg *Message, err error) (*Connection, *Message, error) {
	prev := it.pending
	it.pending = &pendingMessage{conn: conn, msg: msg, err: err}
	return prev.conn, prev.msg, prev.err
}

func (it *linearIterator) Next() (*Connection, *Message, error) {
	for {
		op, record, err := ReadRecord(it.reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.EOF
			}
			if it.pending != nil {
				return it.advance(nil, nil, err)
			}
			return nil, nil, err
		}
		if it.inChunk {
			it.currentChunkRead += int64(len(record))
		}
		switch op {
		case OpChunk:
			if err := it.enterChunk(record); err != nil {
				return nil, nil, err
			}
			continue

		case OpMessageData:
			msg, err := ParseMessage(record)
			if err != nil {
				return nil, nil, err
			}
			conn := it.connections[msg.Conn]

			if it.inChunk && it.currentChunkRead >= it.currentChunkLength {
				it.inChunk = false
				it.reader.Reset(it.baseReader)
				it.currentChunkRead = 0
				it.currentChunkLength = 0
			}

			if it.pending != nil {
				return it.advance(conn, msg, nil)
			}
			it.pending = &pendingMessage{conn: conn, msg: msg}
			continue

		case OpConnection:
			conn, err := ParseConnection(record)
			if err != nil {
				return nil, nil, err
			}
			it.connections[conn.Conn] = conn

		default:
			continue
		}
	}
}

func (it *linearIterator) enterChunk(record []byte) error {
	headerLen := binary.LittleEndian.Uint32(record)
	header := record[4 : 4+headerLen]
	compression, err := GetHeaderValue(header, "compression")
	if err != nil {
		return err
	}
	size, err := GetHeaderValue(header, "size")
	if err != nil {
		return err
	}
	it.currentChunkLength = int64(u32(size))
	chunkData := record[4+headerLen+4:]

	switch string(compression) {
	case CompressionNone:
		it.reader.Reset(bytes.NewReader(chunkData))
	case CompressionLZ4:
		it.reader.Reset(lz4.NewReader(bytes.NewReader(chunkData)))
	case CompressionBZ2:
		it.reader.Reset(bzip2.NewReader(bytes.NewReader(chunkData)))
	default:
		return fmt.Errorf("rosbag1: %w: %s", ErrNotImplemented, compression)
	}
	it.inChunk = true
	return nil
}
