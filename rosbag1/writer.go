package rosbag1

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// bagHeaderRecordSize is the fixed total byte size (both length prefixes,
// the header fields and the padding data) reserved for the bag header
// record. Padding lets Close patch index_pos/conn_count/chunk_count back in
// at Write time without shifting every byte after it.
const bagHeaderRecordSize = 4096

// Writer writes rosbag1 files. Messages are buffered into chunks and
// flushed once the active chunk reaches the configured chunk size; the
// index region (duplicate connection records, chunk-info records) is
// written at Close, and the bag header is patched in place if the
// underlying sink supports io.Seeker.
type Writer struct {
	sink io.Writer
	cw   *countingWriter
	config bagWriterConfig

	headerPos int64

	conns   []*Connection
	connIDs map[string]uint32

	chunkBuf        bytes.Buffer
	chunkConnCounts map[uint32]uint32
	chunkConnIndex  map[uint32][]MessageIndexEntry
	chunkStart      uint64
	chunkEnd        uint64

	chunkInfos []*ChunkInfo

	closed bool
}

// NewWriter writes the magic line and a placeholder bag header, and returns
// a Writer ready to accept connections and messages.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cw := newCountingWriter(w)
	if _, err := cw.Write(Magic); err != nil {
		return nil, fmt.Errorf("rosbag1: writing magic: %w", err)
	}
	config := defaultBagWriterConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.compression == CompressionBZ2 {
		return nil, &UnsupportedCompressionError{Compression: CompressionBZ2}
	}
	bw := &Writer{
		sink:            w,
		cw:              cw,
		config:          config,
		connIDs:         make(map[string]uint32),
		chunkConnCounts: make(map[uint32]uint32),
		chunkConnIndex:  make(map[uint32][]MessageIndexEntry),
	}
	if err := bw.writeBagHeaderPlaceholder(); err != nil {
		return nil, err
	}
	return bw, nil
}

func (w *Writer) writeBagHeaderPlaceholder() error {
	w.headerPos = w.cw.count
	return w.writeBagHeaderRecord(w.cw, 0, 0, 0)
}

func (w *Writer) writeBagHeaderRecord(dst io.Writer, indexPos uint64, connCount, chunkCount uint32) error {
	header := buildHeader(
		headerField("op", []byte{byte(OpBagHeader)}),
		headerField("index_pos", u64Bytes(indexPos)),
		headerField("conn_count", u32Bytes(connCount)),
		headerField("chunk_count", u32Bytes(chunkCount)),
	)
	dataLen := bagHeaderRecordSize - 4 - len(header) - 4
	if dataLen < 0 {
		return fmt.Errorf("rosbag1: bag header fields exceed reserved record size")
	}
	data := bytes.Repeat([]byte{' '}, dataLen)
	return writeRecord(dst, header, data)
}

// WriteConnection registers a connection for topic, assigning it the next
// connection id. Calling WriteConnection again for a topic already
// registered returns the existing id without writing a second record.
func (w *Writer) WriteConnection(topic string, data ConnectionHeader) (uint32, error) {
	if id, ok := w.connIDs[topic]; ok {
		return id, nil
	}
	id := uint32(len(w.conns))
	conn := &Connection{Conn: id, Topic: topic, Data: data}
	w.connIDs[topic] = id
	w.conns = append(w.conns, conn)
	if err := writeConnectionRecord(&w.chunkBuf, conn); err != nil {
		return 0, err
	}
	return id, nil
}

// WriteMessage appends a message on connID to the active chunk, then flushes
// the chunk if it has reached the configured chunk size.
func (w *Writer) WriteMessage(connID uint32, timeNanos uint64, data []byte) error {
	if int(connID) >= len(w.conns) {
		return fmt.Errorf("rosbag1: unknown connection id %d", connID)
	}
	offset := w.chunkBuf.Len()
	header := buildHeader(
		headerField("op", []byte{byte(OpMessageData)}),
		headerField("conn", u32Bytes(connID)),
		headerField("time", rostimeBytes(timeNanos)),
	)
	if err := writeRecord(&w.chunkBuf, header, data); err != nil {
		return err
	}
	w.chunkConnCounts[connID]++
	w.chunkConnIndex[connID] = append(w.chunkConnIndex[connID], MessageIndexEntry{
		Time:   timeNanos,
		Offset: uint32(offset),
	})
	if w.chunkStart == 0 || timeNanos < w.chunkStart {
		w.chunkStart = timeNanos
	}
	if timeNanos > w.chunkEnd {
		w.chunkEnd = timeNanos
	}
	if w.chunkBuf.Len() >= w.config.chunksize {
		return w.flushActiveChunk()
	}
	return nil
}

func (w *Writer) flushActiveChunk() error {
	if w.chunkBuf.Len() == 0 {
		return nil
	}
	uncompressed := w.chunkBuf.Bytes()
	compressed, err := compressChunk(w.config.compression, uncompressed)
	if err != nil {
		return err
	}

	chunkPos := w.cw.count
	header := buildHeader(
		headerField("op", []byte{byte(OpChunk)}),
		headerField("compression", []byte(w.config.compression)),
		headerField("size", u32Bytes(uint32(len(uncompressed)))),
	)
	if err := writeRecord(w.cw, header, compressed); err != nil {
		return err
	}

	connCounts := make(map[uint32]uint32, len(w.chunkConnCounts))
	for connID, entries := range w.chunkConnIndex {
		if err := writeIndexDataRecord(w.cw, connID, entries); err != nil {
			return err
		}
		connCounts[connID] = w.chunkConnCounts[connID]
	}

	w.chunkInfos = append(w.chunkInfos, &ChunkInfo{
		ChunkPos:  uint64(chunkPos),
		StartTime: w.chunkStart,
		EndTime:   w.chunkEnd,
		Count:     uint32(len(w.chunkConnIndex)),
		Data:      connCounts,
	})

	w.resetActiveChunkState()
	return nil
}

func (w *Writer) resetActiveChunkState() {
	w.chunkBuf.Reset()
	w.chunkConnCounts = make(map[uint32]uint32)
	w.chunkConnIndex = make(map[uint32][]MessageIndexEntry)
	w.chunkStart = 0
	w.chunkEnd = 0
}

// Close flushes any pending chunk, writes the index region (a duplicate
// connection record per connection followed by one chunk-info record per
// chunk), and patches the bag header's index_pos/conn_count/chunk_count if
// the sink supports io.Seeker. An unseekable sink is left with index_pos
// zero, which readers treat as an unindexed bag.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.flushActiveChunk(); err != nil {
		return err
	}
	indexPos := uint64(w.cw.count)
	for _, conn := range w.conns {
		if err := writeConnectionRecord(w.cw, conn); err != nil {
			return err
		}
	}
	for _, ci := range w.chunkInfos {
		if err := writeChunkInfoRecord(w.cw, ci); err != nil {
			return err
		}
	}
	seeker, ok := w.sink.(io.Seeker)
	if !ok {
		return nil
	}
	if _, err := seeker.Seek(w.headerPos, io.SeekStart); err != nil {
		return fmt.Errorf("rosbag1: seeking to bag header: %w", err)
	}
	if err := w.writeBagHeaderRecord(w.sink, indexPos, uint32(len(w.conns)), uint32(len(w.chunkInfos))); err != nil {
		return err
	}
	if _, err := seeker.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("rosbag1: seeking to end after patching header: %w", err)
	}
	return nil
}

func compressChunk(compression string, data []byte) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("rosbag1: lz4 compression: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("rosbag1: lz4 compression: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, &UnsupportedCompressionError{Compression: compression}
	}
}

func writeConnectionRecord(dst io.Writer, conn *Connection) error {
	header := buildHeader(
		headerField("op", []byte{byte(OpConnection)}),
		headerField("conn", u32Bytes(conn.Conn)),
		headerField("topic", []byte(conn.Topic)),
	)
	dataFields := []([]byte){
		headerField("topic", []byte(conn.Data.Topic)),
		headerField("type", []byte(conn.Data.Type)),
		headerField("md5sum", []byte(conn.Data.MD5Sum)),
		headerField("message_definition", conn.Data.MessageDefinition),
	}
	if conn.Data.CallerID != nil {
		dataFields = append(dataFields, headerField("callerid", []byte(*conn.Data.CallerID)))
	}
	if conn.Data.Latching != nil {
		v := "0"
		if *conn.Data.Latching {
			v = "1"
		}
		dataFields = append(dataFields, headerField("latching", []byte(v)))
	}
	data := buildHeader(dataFields...)
	return writeRecord(dst, header, data)
}

func writeIndexDataRecord(dst io.Writer, connID uint32, entries []MessageIndexEntry) error {
	header := buildHeader(
		headerField("op", []byte{byte(OpIndexData)}),
		headerField("conn", u32Bytes(connID)),
		headerField("count", u32Bytes(uint32(len(entries)))),
	)
	data := make([]byte, 0, len(entries)*12)
	for _, e := range entries {
		data = append(data, rostimeBytes(e.Time)...)
		data = append(data, u32Bytes(e.Offset)...)
	}
	return writeRecord(dst, header, data)
}

func writeChunkInfoRecord(dst io.Writer, ci *ChunkInfo) error {
	header := buildHeader(
		headerField("op", []byte{byte(OpChunkInfo)}),
		headerField("ver", u32Bytes(1)),
		headerField("chunk_pos", u64Bytes(ci.ChunkPos)),
		headerField("start_time", rostimeBytes(ci.StartTime)),
		headerField("end_time", rostimeBytes(ci.EndTime)),
		headerField("count", u32Bytes(ci.Count)),
	)
	data := make([]byte, 0, len(ci.Data)*8)
	for connID, count := range ci.Data {
		data = append(data, u32Bytes(connID)...)
		data = append(data, u32Bytes(count)...)
	}
	return writeRecord(dst, header, data)
}

func headerField(key string, value []byte) []byte {
	kv := append([]byte(key+"="), value...)
	out := make([]byte, 4+len(kv))
	putU32(out, uint32(len(kv)))
	copy(out[4:], kv)
	return out
}

func buildHeader(fields ...[]byte) []byte {
	var out []byte
	for _, f := range fields {
		out = append(out, f...)
	}
	return out
}

func writeRecord(w io.Writer, header, data []byte) error {
	var lenbuf [4]byte
	binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(header)))
	if _, err := w.Write(lenbuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(data)))
	if _, err := w.Write(lenbuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}

func u32Bytes(x uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, x)
	return b
}

func u64Bytes(x uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	return b
}

func rostimeBytes(nanosSinceEpoch uint64) []byte {
	return u64Bytes(uint64(toRostime(nanosSinceEpoch)))
}
