package rosbag2

import (
	"database/sql"
	"os"
	"path/filepath"
)

// Writer accumulates connections and messages into a sqlite3 store and
// writes metadata.yaml on Close.
type Writer struct {
	dir    string
	dbPath string
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt

	compressionFormat string
	compressionMode   string

	connIDs map[string]int64 // topic -> sqlite topics.id
	conns   []*Connection

	messageCount int64
	startNanos   uint64
	endNanos     uint64
	closed       bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionMode sets the sqlite storage compression mode: none (the
// default), file, or message.
func WithCompressionMode(mode string) WriterOption {
	return func(w *Writer) {
		w.compressionMode = mode
		if mode != CompressionModeNone {
			w.compressionFormat = CompressionFormatZSTD
		}
	}
}

const defaultDBFileName = "bag_0.db3"

// NewWriter creates dir (which must not already exist) and opens a fresh
// sqlite3 store inside it, within a single transaction that is committed on
// Close.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, &StorageError{Err: err}
	}
	dbPath := filepath.Join(dir, defaultDBFileName)
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, &StorageError{Err: err}
	}
	stmt, err := tx.Prepare(`INSERT INTO messages(topic_id, timestamp, data) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		db.Close()
		return nil, &StorageError{Err: err}
	}

	w := &Writer{
		dir:               dir,
		dbPath:            dbPath,
		db:                db,
		tx:                tx,
		stmt:              stmt,
		compressionMode:   CompressionModeNone,
		connIDs:           make(map[string]int64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// WriteConnection registers a topic and returns its connection id. Calling
// WriteConnection again for a topic already registered returns the
// existing id.
func (w *Writer) WriteConnection(topic, msgType, serializationFormat, offeredQoSProfiles string) (int64, error) {
	if id, ok := w.connIDs[topic]; ok {
		return id, nil
	}
	conn := &Connection{
		Topic:               topic,
		MsgType:             msgType,
		SerializationFormat: serializationFormat,
		OfferedQoSProfiles:  offeredQoSProfiles,
	}
	id, err := insertTopicTx(w.tx, conn)
	if err != nil {
		return 0, err
	}
	conn.ID = int(id)
	w.connIDs[topic] = id
	w.conns = append(w.conns, conn)
	return id, nil
}

func insertTopicTx(tx *sql.Tx, c *Connection) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO topics(name, type, serialization_format, offered_qos_profiles) VALUES (?, ?, ?, ?)`,
		c.Topic, c.MsgType, c.SerializationFormat, c.OfferedQoSProfiles,
	)
	if err != nil {
		return 0, &StorageError{Err: err}
	}
	return res.LastInsertId()
}

// WriteMessage appends a message on connID, compressing its data first if
// the writer was configured with CompressionModeMessage.
func (w *Writer) WriteMessage(connID int64, timeNanos uint64, data []byte) error {
	if w.compressionMode == CompressionModeMessage {
		compressed, err := compressBytes(data)
		if err != nil {
			return err
		}
		data = compressed
	}
	if err := insertMessage(w.stmt, connID, timeNanos, data); err != nil {
		return err
	}
	if w.messageCount == 0 || timeNanos < w.startNanos {
		w.startNanos = timeNanos
	}
	if timeNanos > w.endNanos {
		w.endNanos = timeNanos
	}
	w.messageCount++
	for _, c := range w.conns {
		if int64(c.ID) == connID {
			c.MessageCount++
			break
		}
	}
	return nil
}

// Close commits the transaction, closes the sqlite connection, writes
// metadata.yaml, and — for CompressionModeFile — zstd-compresses the
// database file in place once it is no longer open.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.stmt.Close(); err != nil {
		w.tx.Rollback()
		w.db.Close()
		return &StorageError{Err: err}
	}
	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return &StorageError{Err: err}
	}
	if err := w.db.Close(); err != nil {
		return &StorageError{Err: err}
	}

	if w.compressionMode == CompressionModeFile {
		if err := compressFile(w.dbPath); err != nil {
			return err
		}
	}

	start, end := w.startNanos, w.endNanos
	if w.messageCount == 0 {
		start, end = 0, 0
	}
	meta := &Metadata{
		Version:           maxSupportedVersion,
		RelativeFilePaths: []string{filepath.Base(w.dbPath)},
		StartTimeNanos:    start,
		EndTimeNanos:      end,
		MessageCount:      w.messageCount,
		Connections:       w.conns,
		CompressionFormat: w.compressionFormat,
		CompressionMode:   w.compressionMode,
	}
	if err := writeMetadata(w.dir, meta); err != nil {
		return err
	}
	return nil
}
