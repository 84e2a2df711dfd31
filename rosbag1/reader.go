package rosbag1

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Reader reads rosbag1 files.
type Reader struct {
	r io.Reader
}

// NewReader validates the magic line and returns a Reader. The returned
// Reader can only perform a linear scan unless r also implements
// io.ReadSeeker.
func NewReader(r io.Reader) (*Reader, error) {
	buf := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("rosbag1: reading magic: %w", err)
	}
	if !bytes.Equal(buf, Magic) {
		return nil, ErrNotABag
	}
	return &Reader{r: r}, nil
}

// Info summarises a bag's index: time bounds, total message count, the
// connection table, and the chunk directory.
type Info struct {
	MessageStartTime uint64
	MessageEndTime   uint64
	MessageCount     uint64

	ChunkInfos  []*ChunkInfo
	Connections map[uint32]*Connection
}

// ConnectionMessageCounts sums chunk-info message counts per connection.
func (info *Info) ConnectionMessageCounts() map[uint32]int64 {
	counts := make(map[uint32]int64)
	for _, ci := range info.ChunkInfos {
		for conn, count := range ci.Data {
			counts[conn] += int64(count)
		}
	}
	return counts
}

// Info reads the bag header and the full index region (connections and
// chunk-info records), seeking there directly via the bag header's
// index_pos. Refuses to read a bag with IndexPos == 0.
func (r *Reader) Info() (*Info, error) {
	rs, ok := r.r.(io.ReadSeeker)
	if !ok {
		return nil, ErrUnseekableReader
	}
	if _, err := rs.Seek(int64(len(Magic)), io.SeekStart); err != nil {
		return nil, fmt.Errorf("rosbag1: seeking to start: %w", err)
	}
	op, record, err := ReadRecord(r.r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Info{}, nil
		}
		return nil, fmt.Errorf("rosbag1: reading bag header: %w", err)
	}
	if op != OpBagHeader {
		return nil, &UnexpectedOpError{Want: OpBagHeader, Got: op}
	}
	bagHeader, err := ParseBagHeader(record)
	if err != nil {
		return nil, fmt.Errorf("rosbag1: parsing bag header: %w", err)
	}
	if bagHeader.IndexPos == 0 {
		return nil, ErrUnindexed
	}
	if _, err := rs.Seek(int64(bagHeader.IndexPos), io.SeekStart); err != nil {
		return nil, fmt.Errorf("rosbag1: seeking to index: %w", err)
	}

	br := bufio.NewReader(r.r)
	var minStart uint64 = math.MaxUint64
	var maxEnd, messageCount uint64
	connections := make(map[uint32]*Connection)
	var chunkInfos []*ChunkInfo

	for {
		op, record, err = ReadRecord(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rosbag1: reading index region: %w", err)
		}
		switch op {
		case OpConnection:
			conn, err := ParseConnection(record)
			if err != nil {
				return nil, fmt.Errorf("rosbag1: parsing connection: %w", err)
			}
			connections[conn.Conn] = conn
		case OpChunkInfo:
			ci, err := ParseChunkInfo(record)
			if err != nil {
				return nil, fmt.Errorf("rosbag1: parsing chunk info: %w", err)
			}
			if ci.EndTime > maxEnd {
				maxEnd = ci.EndTime
			}
			if ci.StartTime < minStart {
				minStart = ci.StartTime
			}
			for _, count := range ci.Data {
				messageCount += uint64(count)
			}
			chunkInfos = append(chunkInfos, ci)
		}
	}

	if minStart == math.MaxUint64 {
		minStart = 0
	}
	return &Info{
		MessageStartTime: minStart,
		MessageEndTime:   maxEnd,
		MessageCount:     messageCount,
		Connections:      connections,
		ChunkInfos:       chunkInfos,
	}, nil
}

// Iterator yields (connection, message) pairs: in timestamp order for an
// indexed read, in file order for a linear scan.
type Iterator interface {
	Next() (*Connection, *Message, error)
	More() bool
}

type scanOptions struct{ linear bool }

// ScanOption configures Reader.Messages.
type ScanOption func(*scanOptions)

// ScanLinear forces a single forward pass over the file instead of an
// indexed, heap-merged read. Works on non-seekable readers.
func ScanLinear(value bool) ScanOption {
	return func(o *scanOptions) { o.linear = value }
}

// Messages returns an iterator over the bag's messages. By default it reads
// the index and merges chunks in timestamp order via a min-heap; ScanLinear
// instead performs a single forward pass, usable on a plain io.Reader.
func (r *Reader) Messages(opts ...ScanOption) (Iterator, error) {
	var options scanOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.linear {
		return newLinearIterator(r.r), nil
	}
	rs, ok := r.r.(io.ReadSeeker)
	if !ok {
		return nil, ErrUnseekableReader
	}
	info, err := r.Info()
	if err != nil {
		return nil, err
	}
	return newIndexedIterator(rs, info), nil
}

// ReadRecord reads one record (header length, header, data length, data)
// from reader and returns its opcode along with the full record bytes,
// including both length prefixes.
func ReadRecord(reader io.Reader) (OpCode, []byte, error) {
	var headerLen uint32
	if err := binary.Read(reader, binary.LittleEndian, &headerLen); err != nil {
		return OpError, nil, fmt.Errorf("rosbag1: reading header length: %w", err)
	}
	header := make([]byte, headerLen)
	putU32(header, headerLen)
	if _, err := io.ReadFull(reader, header); err != nil {
		return OpError, nil, fmt.Errorf("rosbag1: reading header of length %d: %w", headerLen, err)
	}
	opField, err := GetHeaderValue(header, "op")
	if err != nil {
		return OpError, nil, err
	}
	if len(opField) != 1 {
		return OpError, nil, ErrInvalidOpHeader
	}
	opcode := OpCode(opField[0])

	var dataLen uint32
	if err := binary.Read(reader, binary.LittleEndian, &dataLen); err != nil {
		return OpError, nil, fmt.Errorf("rosbag1: reading data length: %w", err)
	}
	record := make([]byte, 4+headerLen+4+dataLen)
	putU32(record, headerLen)
	copy(record[4:], header)
	putU32(record[4+headerLen:], dataLen)
	if _, err := io.ReadFull(reader, record[4+headerLen+4:]); err != nil {
		return OpError, nil, fmt.Errorf("rosbag1: reading data: %w", err)
	}
	return opcode, record, nil
}
