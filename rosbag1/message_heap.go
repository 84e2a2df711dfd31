package rosbag1

import "container/heap"

// heapEntry is either a chunk waiting to be opened, or a message already
// extracted from an opened chunk.
type heapEntry struct {
	op OpCode

	chunkInfo *ChunkInfo

	message   *MessageIndexEntry
	chunkData []byte
}

func newChunkInfoHeapEntry(ci *ChunkInfo) heapEntry {
	return heapEntry{op: OpChunkInfo, chunkInfo: ci}
}

func newMessageHeapEntry(msg *MessageIndexEntry, chunkData []byte) heapEntry {
	return heapEntry{op: OpMessageData, message: msg, chunkData: chunkData}
}

func (h *heapEntry) time() uint64 {
	switch h.op {
	case OpChunkInfo:
		return h.chunkInfo.StartTime
	case OpMessageData:
		return h.message.Time
	default:
		panic("rosbag1: invalid heap entry")
	}
}

func (h *heapEntry) offset() int64 {
	switch h.op {
	case OpChunkInfo:
		return int64(h.chunkInfo.ChunkPos)
	case OpMessageData:
		return int64(h.message.Offset)
	default:
		panic("rosbag1: invalid heap entry")
	}
}

// messageHeap orders chunk-open and message-emit events by timestamp (ties
// between entries of the same kind broken by offset: the chunk's file
// position, or a message's offset within its decompressed chunk), so that
// messages stream out in time order
// even when their home chunks span overlapping ranges.
type messageHeap []heapEntry

func newMessageHeap() *messageHeap {
	h := messageHeap(nil)
	heap.Init(&h)
	return &h
}

func (h messageHeap) Len() int { return len(h) }

func (h messageHeap) Less(i, j int) bool {
	it, jt := h[i].time(), h[j].time()
	if it == jt && h[i].op == h[j].op {
		return h[i].offset() < h[j].offset()
	}
	return it < jt
}

func (h messageHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *messageHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (h *messageHeap) Push(x any) {
	entry, ok := x.(heapEntry)
	if !ok {
		panic("rosbag1: invalid heap entry")
	}
	*h = append(*h, entry)
}
