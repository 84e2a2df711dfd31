package rosbag2

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Reader reads a rosbag2 directory: metadata.yaml plus one or more sqlite3
// message stores.
type Reader struct {
	dir      string
	metadata *Metadata
	db       *sql.DB
	tmpFiles []string // decompressed copies of FILE-mode storage, removed on Close
}

// NewReader opens dir, parses metadata.yaml, and opens the referenced
// sqlite3 file(s). Only a single relative file path is supported per the
// component design; additional paths are a storage-plugin feature this
// package does not implement.
func NewReader(dir string) (*Reader, error) {
	metadata, err := readMetadata(dir)
	if err != nil {
		return nil, err
	}
	if len(metadata.RelativeFilePaths) == 0 {
		return nil, &MetadataInvalidError{Reason: "no relative_file_paths"}
	}
	if metadata.CompressionFormat != "" && metadata.CompressionFormat != CompressionFormatZSTD {
		return nil, &UnsupportedCompressionError{Format: metadata.CompressionFormat, Mode: metadata.CompressionMode}
	}
	switch metadata.CompressionMode {
	case "", CompressionModeNone, CompressionModeFile, CompressionModeMessage:
	default:
		return nil, &UnsupportedCompressionError{Format: metadata.CompressionFormat, Mode: metadata.CompressionMode}
	}

	dbPath := filepath.Join(dir, metadata.RelativeFilePaths[0])
	var tmpFiles []string
	if metadata.CompressionMode == CompressionModeFile {
		plain, err := decompressFile(dbPath)
		if err != nil {
			return nil, err
		}
		tmp, err := os.CreateTemp("", "rosbag2-*.db3")
		if err != nil {
			return nil, &StorageError{Err: err}
		}
		if _, err := tmp.Write(plain); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return nil, &StorageError{Err: err}
		}
		tmp.Close()
		dbPath = tmp.Name()
		tmpFiles = append(tmpFiles, dbPath)
	}

	db, err := openSQLite(dbPath)
	if err != nil {
		for _, f := range tmpFiles {
			os.Remove(f)
		}
		return nil, err
	}

	// Messages reference the sqlite topics.id, which metadata.yaml does not
	// record, so each connection adopts the id of the stored topic of the
	// same name.
	topics, err := loadTopics(db)
	if err != nil {
		db.Close()
		for _, f := range tmpFiles {
			os.Remove(f)
		}
		return nil, err
	}
	for _, t := range topics {
		for _, c := range metadata.Connections {
			if c.Topic == t.Topic {
				c.ID = t.ID
			}
		}
	}

	return &Reader{dir: dir, metadata: metadata, db: db, tmpFiles: tmpFiles}, nil
}

// Metadata returns the bag's parsed metadata document.
func (r *Reader) Metadata() *Metadata { return r.metadata }

// Close releases the sqlite connection and removes any temporary files
// created to decompress FILE-mode storage.
func (r *Reader) Close() error {
	err := r.db.Close()
	for _, f := range r.tmpFiles {
		os.Remove(f)
	}
	if err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// MessageIterator yields messages in non-decreasing timestamp order,
// optionally restricted to the half-open range [start, end).
type MessageIterator struct {
	rows    *sql.Rows
	r       *Reader
	connsByID map[int64]*Connection
}

// Messages returns an iterator over all messages, in timestamp order.
func (r *Reader) Messages() (*MessageIterator, error) {
	return r.messages(0, 0, false)
}

// MessagesInRange returns an iterator over messages with
// startNanos <= timestamp < endNanos.
func (r *Reader) MessagesInRange(startNanos, endNanos uint64) (*MessageIterator, error) {
	return r.messages(startNanos, endNanos, true)
}

func (r *Reader) messages(start, end uint64, hasRange bool) (*MessageIterator, error) {
	rows, err := queryMessages(r.db, start, end, hasRange)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*Connection, len(r.metadata.Connections))
	for _, c := range r.metadata.Connections {
		byID[int64(c.ID)] = c
	}
	return &MessageIterator{rows: rows, r: r, connsByID: byID}, nil
}

// Next returns the next message and its connection, or io.EOF once the
// iterator is exhausted.
func (it *MessageIterator) Next() (*Connection, *Message, error) {
	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			return nil, nil, &StorageError{Err: err}
		}
		return nil, nil, io.EOF
	}
	var topicID, ts int64
	var data []byte
	if err := it.rows.Scan(&topicID, &ts, &data); err != nil {
		return nil, nil, &StorageError{Err: err}
	}
	if it.r.metadata.CompressionMode == CompressionModeMessage {
		plain, err := decompressBytes(data)
		if err != nil {
			return nil, nil, err
		}
		data = plain
	}
	conn, ok := it.connsByID[topicID]
	if !ok {
		return nil, nil, fmt.Errorf("rosbag2: message references unknown topic id %d", topicID)
	}
	return conn, &Message{ConnectionID: conn.ID, TimeNanos: uint64(ts), Data: data}, nil
}

// Close releases the iterator's underlying sql.Rows. Safe to call after
// Next has already returned io.EOF.
func (it *MessageIterator) Close() error {
	if err := it.rows.Close(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return &StorageError{Err: err}
	}
	return nil
}
