package rosbag2

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// metadataDocument mirrors the rosbag2_bagfile_information YAML document.
// Field names match the on-disk keys so yaml.v3 can (un)marshal directly.
type metadataDocument struct {
	Root bagfileInformation `yaml:"rosbag2_bagfile_information"`
}

type bagfileInformation struct {
	Version                int              `yaml:"version"`
	StorageIdentifier      string           `yaml:"storage_identifier"`
	RelativeFilePaths      []string         `yaml:"relative_file_paths"`
	Duration               durationField    `yaml:"duration"`
	StartingTime           startingTimeField `yaml:"starting_time"`
	MessageCount           int64            `yaml:"message_count"`
	TopicsWithMessageCount []topicWithCount `yaml:"topics_with_message_count"`
	CompressionFormat      string           `yaml:"compression_format"`
	CompressionMode        string           `yaml:"compression_mode"`
}

type durationField struct {
	Nanoseconds int64 `yaml:"nanoseconds"`
}

type startingTimeField struct {
	NanosecondsSinceEpoch int64 `yaml:"nanoseconds_since_epoch"`
}

type topicWithCount struct {
	TopicMetadata topicMetadataField `yaml:"topic_metadata"`
	MessageCount  int64              `yaml:"message_count"`
}

type topicMetadataField struct {
	Name                string `yaml:"name"`
	Type                string `yaml:"type"`
	SerializationFormat string `yaml:"serialization_format"`
	OfferedQoSProfiles  string `yaml:"offered_qos_profiles"`
}

// Metadata is the parsed, application-facing view of metadata.yaml.
type Metadata struct {
	Version           int
	RelativeFilePaths []string
	StartTimeNanos    uint64
	EndTimeNanos      uint64
	MessageCount      int64
	Connections       []*Connection
	CompressionFormat string
	CompressionMode   string
}

const minSupportedVersion = 1
const maxSupportedVersion = 5

func readMetadata(dir string) (*Metadata, error) {
	path := filepath.Join(dir, "metadata.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	var doc metadataDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, &MetadataInvalidError{Reason: err.Error()}
	}
	info := doc.Root
	if info.Version < minSupportedVersion || info.Version > maxSupportedVersion {
		return nil, &VersionUnsupportedError{Version: info.Version}
	}
	if info.StorageIdentifier != storageIdentifierSQLite3 {
		return nil, &MetadataInvalidError{Reason: "unsupported storage_identifier: " + info.StorageIdentifier}
	}

	start := uint64(info.StartingTime.NanosecondsSinceEpoch)
	end := start + uint64(info.Duration.Nanoseconds)
	if info.MessageCount == 0 {
		start, end = 0, 0
	}

	conns := make([]*Connection, 0, len(info.TopicsWithMessageCount))
	for i, t := range info.TopicsWithMessageCount {
		conns = append(conns, &Connection{
			ID:                  i,
			Topic:               t.TopicMetadata.Name,
			MsgType:             t.TopicMetadata.Type,
			SerializationFormat: t.TopicMetadata.SerializationFormat,
			OfferedQoSProfiles:  t.TopicMetadata.OfferedQoSProfiles,
			MessageCount:        t.MessageCount,
		})
	}

	return &Metadata{
		Version:           info.Version,
		RelativeFilePaths: info.RelativeFilePaths,
		StartTimeNanos:    start,
		EndTimeNanos:      end,
		MessageCount:      info.MessageCount,
		Connections:       conns,
		CompressionFormat: info.CompressionFormat,
		CompressionMode:   info.CompressionMode,
	}, nil
}

// writeMetadata marshals m to metadata.yaml atomically: write to a temp
// file in the same directory, then rename over the final path so a reader
// never observes a partially written document.
func writeMetadata(dir string, m *Metadata) error {
	topics := make([]topicWithCount, 0, len(m.Connections))
	for _, c := range m.Connections {
		topics = append(topics, topicWithCount{
			TopicMetadata: topicMetadataField{
				Name:                c.Topic,
				Type:                c.MsgType,
				SerializationFormat: c.SerializationFormat,
				OfferedQoSProfiles:  c.OfferedQoSProfiles,
			},
			MessageCount: c.MessageCount,
		})
	}
	var durationNanos, startNanos int64
	if m.MessageCount > 0 {
		startNanos = int64(m.StartTimeNanos)
		durationNanos = int64(m.EndTimeNanos - m.StartTimeNanos)
	}

	doc := metadataDocument{Root: bagfileInformation{
		Version:                maxSupportedVersion,
		StorageIdentifier:      storageIdentifierSQLite3,
		RelativeFilePaths:      m.RelativeFilePaths,
		Duration:               durationField{Nanoseconds: durationNanos},
		StartingTime:           startingTimeField{NanosecondsSinceEpoch: startNanos},
		MessageCount:           m.MessageCount,
		TopicsWithMessageCount: topics,
		CompressionFormat:      m.CompressionFormat,
		CompressionMode:        m.CompressionMode,
	}}

	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return &MetadataInvalidError{Reason: err.Error()}
	}

	tmp, err := os.CreateTemp(dir, "metadata-*.yaml.tmp")
	if err != nil {
		return &StorageError{Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &StorageError{Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Err: err}
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, "metadata.yaml")); err != nil {
		os.Remove(tmpPath)
		return &StorageError{Err: err}
	}
	return nil
}
