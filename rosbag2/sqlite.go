package rosbag2

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS topics(
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	serialization_format TEXT NOT NULL,
	offered_qos_profiles TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages(
	id INTEGER PRIMARY KEY,
	topic_id INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	data BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS timestamp_idx ON messages(timestamp ASC);
`

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Err: err}
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return &StorageError{Err: fmt.Errorf("creating schema: %w", err)}
	}
	return nil
}

func insertTopic(db *sql.DB, c *Connection) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO topics(name, type, serialization_format, offered_qos_profiles) VALUES (?, ?, ?, ?)`,
		c.Topic, c.MsgType, c.SerializationFormat, c.OfferedQoSProfiles,
	)
	if err != nil {
		return 0, &StorageError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &StorageError{Err: err}
	}
	return id, nil
}

func loadTopics(db *sql.DB) ([]*Connection, error) {
	rows, err := db.Query(`SELECT id, name, type, serialization_format, offered_qos_profiles FROM topics ORDER BY id ASC`)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	defer rows.Close()

	var conns []*Connection
	for rows.Next() {
		c := &Connection{}
		if err := rows.Scan(&c.ID, &c.Topic, &c.MsgType, &c.SerializationFormat, &c.OfferedQoSProfiles); err != nil {
			return nil, &StorageError{Err: err}
		}
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Err: err}
	}
	return conns, nil
}

func countMessagesByTopic(db *sql.DB) (map[int64]int64, error) {
	rows, err := db.Query(`SELECT topic_id, COUNT(*) FROM messages GROUP BY topic_id`)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	defer rows.Close()
	counts := make(map[int64]int64)
	for rows.Next() {
		var topicID, count int64
		if err := rows.Scan(&topicID, &count); err != nil {
			return nil, &StorageError{Err: err}
		}
		counts[topicID] = count
	}
	return counts, rows.Err()
}

func timeBounds(db *sql.DB) (start, end uint64, err error) {
	row := db.QueryRow(`SELECT MIN(timestamp), MAX(timestamp) FROM messages`)
	var minVal, maxVal sql.NullInt64
	if err := row.Scan(&minVal, &maxVal); err != nil {
		return 0, 0, &StorageError{Err: err}
	}
	return uint64(minVal.Int64), uint64(maxVal.Int64), nil
}

// messageRow is a raw row from the messages table, data still possibly
// compressed depending on the bag's compression mode.
type messageRow struct {
	TopicID   int64
	Timestamp uint64
	Data      []byte
}

func queryMessages(db *sql.DB, startNanos, endNanos uint64, hasRange bool) (*sql.Rows, error) {
	if hasRange {
		return db.Query(
			`SELECT topic_id, timestamp, data FROM messages WHERE timestamp >= ? AND timestamp < ? ORDER BY timestamp ASC, id ASC`,
			int64(startNanos), int64(endNanos),
		)
	}
	return db.Query(`SELECT topic_id, timestamp, data FROM messages ORDER BY timestamp ASC, id ASC`)
}

func scanMessageRow(rows *sql.Rows) (messageRow, error) {
	var row messageRow
	var ts int64
	if err := rows.Scan(&row.TopicID, &ts, &row.Data); err != nil {
		return messageRow{}, &StorageError{Err: err}
	}
	row.Timestamp = uint64(ts)
	return row, nil
}

func insertMessage(stmt *sql.Stmt, topicID int64, timestampNanos uint64, data []byte) error {
	if _, err := stmt.Exec(topicID, int64(timestampNanos), data); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}
