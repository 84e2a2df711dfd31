package rosbag1

import "bytes"

// ParseBagHeader parses a bag header record's data (the length-prefixed
// header-field block, not including the padding data section).
func ParseBagHeader(record []byte) (*BagHeader, error) {
	if len(record) < 4 {
		return nil, ErrShortBuffer
	}
	headerLength := int(u32(record))
	header := record[4 : 4+headerLength]
	indexPos, err := GetHeaderValue(header, "index_pos")
	if err != nil {
		return nil, err
	}
	connCount, err := GetHeaderValue(header, "conn_count")
	if err != nil {
		return nil, err
	}
	chunkCount, err := GetHeaderValue(header, "chunk_count")
	if err != nil {
		return nil, err
	}
	return &BagHeader{
		IndexPos:   u64(indexPos),
		ConnCount:  u32(connCount),
		ChunkCount: u32(chunkCount),
	}, nil
}

// ParseConnection parses a full connection record (header length, header,
// data length, data).
func ParseConnection(record []byte) (*Connection, error) {
	var headerLength, dataLength int
	offset := readInt(&headerLength, record)
	header := readHeaderMap(record[offset : offset+headerLength])
	offset += headerLength
	offset += readInt(&dataLength, record[offset:])
	data := readHeaderMap(record[offset : offset+dataLength])

	var callerID *string
	var latching *bool
	if v, ok := data["callerid"]; ok {
		s := string(v)
		callerID = &s
	}
	if v, ok := data["latching"]; ok {
		value := string(v) == "1"
		latching = &value
	}

	return &Connection{
		Conn:  u32(header["conn"]),
		Topic: string(header["topic"]),
		Data: ConnectionHeader{
			Topic:             string(data["topic"]),
			Type:              string(data["type"]),
			MD5Sum:            string(data["md5sum"]),
			MessageDefinition: bytes.Clone(data["message_definition"]),
			CallerID:          callerID,
			Latching:          latching,
		},
	}, nil
}

// ParseMessage parses a message data record. The returned Data slice aliases
// the input record; callers must not mutate it afterward.
func ParseMessage(record []byte) (*Message, error) {
	var headerLength, dataLength int
	offset := readInt(&headerLength, record)
	header := record[offset : offset+headerLength]
	offset += headerLength
	offset += readInt(&dataLength, record[offset:])
	conn, err := GetHeaderValue(header, "conn")
	if err != nil {
		return nil, err
	}
	t, err := GetHeaderValue(header, "time")
	if err != nil {
		return nil, err
	}
	return &Message{
		Conn: u32(conn),
		Time: parseROSTime(t),
		Data: record[offset:],
	}, nil
}

// ParseChunkInfo parses a full chunk info record.
func ParseChunkInfo(record []byte) (*ChunkInfo, error) {
	var headerLength, dataLength int
	offset := readInt(&headerLength, record)
	header := readHeaderMap(record[offset : offset+headerLength])
	offset += headerLength
	offset += readInt(&dataLength, record[offset:])
	dataEnd := offset + dataLength
	data := make(map[uint32]uint32)
	for offset < dataEnd {
		connID := u32(record[offset:])
		offset += 4
		count := u32(record[offset:])
		offset += 4
		data[connID] = count
	}
	return &ChunkInfo{
		ChunkPos:  u64(header["chunk_pos"]),
		StartTime: parseROSTime(header["start_time"]),
		EndTime:   parseROSTime(header["end_time"]),
		Count:     u32(header["count"]),
		Data:      data,
	}, nil
}

// ParseIndexData parses a full index data record.
func ParseIndexData(record []byte) (*IndexData, error) {
	var headerLength int
	readInt(&headerLength, record)
	header := record[4 : 4+headerLength]
	conn, err := GetHeaderValue(header, "conn")
	if err != nil {
		return nil, err
	}
	connID := u32(conn)
	countHeader, err := GetHeaderValue(header, "count")
	if err != nil {
		return nil, err
	}
	count := u32(countHeader)
	inset := 4 + headerLength + 4 // skip the data-length prefix
	data := make([]MessageIndexEntry, 0, count)
	for i := 0; i < int(count); i++ {
		t := parseROSTime(record[inset:])
		inset += 8
		off := u32(record[inset:])
		inset += 4
		data = append(data, MessageIndexEntry{Time: t, Offset: off})
	}
	return &IndexData{Conn: connID, Count: count, Data: data}, nil
}

// readHeaderMap decodes a full length-prefixed key=value header block into a
// map. Used where random access by key is cheaper than repeated linear scans.
func readHeaderMap(buf []byte) map[string][]byte {
	result := make(map[string][]byte)
	offset := 0
	for offset < len(buf) {
		fieldLength := u32(buf[offset:])
		offset += 4
		sep := bytes.IndexByte(buf[offset:], '=')
		key := string(buf[offset : offset+sep])
		value := buf[offset+sep+1 : offset+int(fieldLength)]
		result[key] = value
		offset += int(fieldLength)
	}
	return result
}

// GetHeaderValue scans a length-prefixed key=value header block for key,
// without building an intermediate map. Used on the hot read path where only
// one or two fields are ever needed.
func GetHeaderValue(header []byte, key string) ([]byte, error) {
	offset := 0
	for offset < len(header) {
		fieldLen := u32(header[offset:])
		offset += 4
		fieldEnd := offset + int(fieldLen)
		if fieldEnd > len(header) {
			return nil, ErrMalformedHeader
		}
		sep := bytes.IndexByte(header[offset:], '=')
		fieldKey := string(header[offset : offset+sep])
		offset += sep + 1
		fieldValue := header[offset:fieldEnd]
		if fieldKey == key {
			return fieldValue, nil
		}
		offset = fieldEnd
	}
	return nil, &HeaderKeyNotFoundError{Key: key}
}
