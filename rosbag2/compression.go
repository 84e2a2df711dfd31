package rosbag2

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

func compressBytes(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("rosbag2: zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressBytes(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("rosbag2: zstd decoder: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("rosbag2: zstd decompression: %w", err)
	}
	return out, nil
}

// compressFile zstd-compresses path in place under a sibling ".zstd" name,
// then replaces the original, used for CompressionModeFile after the
// database has been closed so the file is no longer memory-mapped by
// sqlite.
func compressFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return &StorageError{Err: err}
	}
	defer in.Close()

	tmpPath := path + ".zstd.tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return &StorageError{Err: err}
	}

	enc, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("rosbag2: zstd encoder: %w", err)
	}
	if _, err := io.Copy(enc, in); err != nil {
		enc.Close()
		out.Close()
		os.Remove(tmpPath)
		return &StorageError{Err: err}
	}
	if err := enc.Close(); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return &StorageError{Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Err: err}
	}
	return os.Rename(tmpPath, path)
}

func decompressFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	return decompressBytes(raw)
}
