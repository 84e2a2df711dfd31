package rosbag1

import (
	"container/heap"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// indexedIterator walks the chunk-info directory in timestamp order,
// decompressing each chunk as it is reached and feeding its message index
// entries into a shared min-heap so that messages across overlapping chunks
// still emerge in time order.
type indexedIterator struct {
	rs   io.ReadSeeker
	info *Info

	pq              *messageHeap
	compressedChunk []byte
	lz4Reader       *lz4.Reader
}

func newIndexedIterator(rs io.ReadSeeker, info *Info) *indexedIterator {
	pq := newMessageHeap()
	for _, ci := range info.ChunkInfos {
		heap.Push(pq, newChunkInfoHeapEntry(ci))
	}
	return &indexedIterator{
		rs:        rs,
		info:      info,
		pq:        pq,
		lz4Reader: lz4.NewReader(nil),
	}
}

func (it *indexedIterator) More() bool { return it.pq.Len() > 0 }

// Next returns io.EOF once every chunk has been opened and every message
// extracted from it emitted.
func (it *indexedIterator) Next() (*Connection, *Message, error) {
	for it.pq.Len() > 0 {
		entry, ok := heap.Pop(it.pq).(heapEntry)
		if !ok {
			return nil, nil, ErrInvalidHeapEntry
		}
		switch entry.op {
		case OpMessageData:
			offset := int(entry.offset())
			chunkData := entry.chunkData
			headerLength := int(u32(chunkData[offset:]))
			dataLength := int(u32(chunkData[offset+4+headerLength:]))
			recordEnd := offset + 4 + headerLength + 4 + dataLength
			msg, err := ParseMessage(chunkData[offset:recordEnd])
			if err != nil {
				return nil, nil, err
			}
			return it.info.Connections[msg.Conn], msg, nil

		case OpChunkInfo:
			if err := it.openChunk(entry); err != nil {
				return nil, nil, err
			}
			continue
		}
	}
	return nil, nil, io.EOF
}

func (it *indexedIterator) openChunk(entry heapEntry) error {
	if _, err := it.rs.Seek(entry.offset(), io.SeekStart); err != nil {
		return fmt.Errorf("rosbag1: seeking to chunk at %d: %w", entry.offset(), err)
	}
	var headerLen uint32
	if err := binary.Read(it.rs, binary.LittleEndian, &headerLen); err != nil {
		return fmt.Errorf("rosbag1: reading chunk header length: %w", err)
	}
	headerData := make([]byte, headerLen)
	if _, err := io.ReadFull(it.rs, headerData); err != nil {
		return fmt.Errorf("rosbag1: reading chunk header: %w", err)
	}
	var compressedLen uint32
	if err := binary.Read(it.rs, binary.LittleEndian, &compressedLen); err != nil {
		return fmt.Errorf("rosbag1: reading chunk data length: %w", err)
	}
	if cap(it.compressedChunk) < int(compressedLen) {
		it.compressedChunk = make([]byte, compressedLen)
	}
	it.compressedChunk = it.compressedChunk[:compressedLen]
	if _, err := io.ReadFull(it.rs, it.compressedChunk); err != nil {
		return fmt.Errorf("rosbag1: reading compressed chunk: %w", err)
	}

	header := readHeaderMap(headerData)
	compression := string(header["compression"])
	size := int(u32(header["size"]))
	decompressed, err := decompressChunk(compression, it.compressedChunk, size, it.lz4Reader)
	if err != nil {
		return err
	}

	for i := 0; i < int(entry.chunkInfo.Count); i++ {
		opcode, record, err := ReadRecord(it.rs)
		if err != nil {
			return err
		}
		if opcode != OpIndexData {
			return &UnexpectedOpError{Want: OpIndexData, Got: opcode}
		}
		indexData, err := ParseIndexData(record)
		if err != nil {
			return err
		}
		for _, msgEntry := range indexData.Data {
			msgEntry := msgEntry
			heap.Push(it.pq, newMessageHeapEntry(&msgEntry, decompressed))
		}
	}
	return nil
}
