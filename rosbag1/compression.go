package rosbag1

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// decompressChunk expands compressed chunk data to its known decompressed
// size. bz2 is decode-only: no third-party bzip2 encoder exists in the
// dependency set this module draws from, and the reference toolchain itself
// never writes bz2 chunks by default, so the writer only ever produces none
// or lz4.
func decompressChunk(compression string, compressed []byte, size int, lz4r *lz4.Reader) ([]byte, error) {
	out := make([]byte, size)
	switch compression {
	case CompressionNone:
		copy(out, compressed)
	case CompressionLZ4:
		lz4r.Reset(bytes.NewReader(compressed))
		if _, err := io.ReadFull(lz4r, out); err != nil {
			return nil, fmt.Errorf("rosbag1: lz4 decompression: %w", err)
		}
	case CompressionBZ2:
		br := bzip2.NewReader(bytes.NewReader(compressed))
		if _, err := io.ReadFull(br, out); err != nil {
			return nil, fmt.Errorf("rosbag1: bz2 decompression: %w", err)
		}
	default:
		return nil, &UnsupportedCompressionError{Compression: compression}
	}
	return out, nil
}
