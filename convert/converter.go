// Package convert bridges rosbag1 and rosbag2 containers: it pairs a reader
// of one format with a writer of the other, transcoding message bytes
// directly between wire formats and bridging connection metadata.
package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/rosbag1"
	"github.com/ternarisco/rosbags-go/rosbag2"
	"github.com/ternarisco/rosbags-go/transcode"
	"github.com/ternarisco/rosbags-go/typesys"
)

// Rosbag1ToRosbag2 reads every connection and message from r and writes
// them to w, transcoding ROS1 wire bytes to CDR and bridging connection
// metadata: serialization_format becomes "cdr", and a latched topic gets an
// offered_qos_profiles entry with durability transient_local. Any message
// type absent from reg is parsed from its embedded ROS1 definition and
// auto-registered, never failing the conversion.
func Rosbag1ToRosbag2(reg *typesys.Registry, r *rosbag1.Reader, w *rosbag2.Writer) error {
	info, err := r.Info()
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	connIDs := make(map[uint32]int64, len(info.Connections))
	typeNames := make(map[uint32]string, len(info.Connections))
	for _, conn := range info.Connections {
		typeName := typesys.NormalizeMsgType(conn.Data.Type)
		if err := ensureRegistered(reg, typeName, conn.Data.MessageDefinition); err != nil {
			return err
		}

		latching := conn.Data.Latching != nil && *conn.Data.Latching
		id, err := w.WriteConnection(conn.Topic, typeName, "cdr", synthesizeQoSProfile(latching))
		if err != nil {
			return err
		}
		connIDs[conn.Conn] = id
		typeNames[conn.Conn] = typeName
	}

	it, err := r.Messages()
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	for {
		conn, msg, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("convert: reading rosbag1 message: %w", err)
		}
		typeName := typeNames[msg.Conn]
		payload, err := transcode.ROS1ToCDR(reg, typeName, msg.Data)
		if err != nil {
			return fmt.Errorf("convert: transcoding %q: %w", typeName, err)
		}
		header := cdr.EncapsulationHeader(true)
		full := make([]byte, 0, len(header)+len(payload))
		full = append(full, header[:]...)
		full = append(full, payload...)

		if err := w.WriteMessage(connIDs[conn.Conn], msg.Time, full); err != nil {
			return fmt.Errorf("convert: writing rosbag2 message: %w", err)
		}
	}
	return nil
}

// Rosbag2ToRosbag1 reads every connection and message from r and writes
// them to w, transcoding CDR wire bytes to ROS1 and bridging connection
// metadata: serialization_format becomes "ros1", latching is set iff any
// offered QoS profile carries durability transient_local, and
// message_definition/md5sum are synthesized from the registered type.
// Returns UnknownTypeError for a connection type absent from reg.
func Rosbag2ToRosbag1(reg *typesys.Registry, r *rosbag2.Reader, w *rosbag1.Writer) error {
	metadata := r.Metadata()

	connIDs := make(map[int]uint32, len(metadata.Connections))
	typeNames := make(map[int]string, len(metadata.Connections))
	for _, conn := range metadata.Connections {
		if _, err := reg.Lookup(conn.MsgType); err != nil {
			return &UnknownTypeError{TypeName: conn.MsgType}
		}
		deftext, md5sum, err := typesys.GenDef(reg, conn.MsgType)
		if err != nil {
			return fmt.Errorf("convert: generating ROS1 definition for %q: %w", conn.MsgType, err)
		}
		latching := qosHasTransientLocal(conn.OfferedQoSProfiles)

		id, err := w.WriteConnection(conn.Topic, rosbag1.ConnectionHeader{
			Topic:             conn.Topic,
			Type:              typesys.DenormalizeMsgType(conn.MsgType),
			MD5Sum:            md5sum,
			MessageDefinition: []byte(deftext),
			Latching:          &latching,
		})
		if err != nil {
			return err
		}
		connIDs[conn.ID] = id
		typeNames[conn.ID] = conn.MsgType
	}

	it, err := r.Messages()
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	defer it.Close()
	for {
		conn, msg, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("convert: reading rosbag2 message: %w", err)
		}
		typeName := typeNames[conn.ID]
		if len(msg.Data) < 4 {
			return fmt.Errorf("convert: message on %q shorter than a CDR header", conn.Topic)
		}
		payload := msg.Data[4:]
		ros1Bytes, err := transcode.CDRToROS1(reg, typeName, payload)
		if err != nil {
			return fmt.Errorf("convert: transcoding %q: %w", typeName, err)
		}
		if err := w.WriteMessage(connIDs[conn.ID], msg.TimeNanos, ros1Bytes); err != nil {
			return fmt.Errorf("convert: writing rosbag1 message: %w", err)
		}
	}
	return nil
}

func ensureRegistered(reg *typesys.Registry, typeName string, msgDefText []byte) error {
	if _, err := reg.Lookup(typeName); err == nil {
		return nil
	}
	_, defs, err := typesys.ParseMsg(typeName, msgDefText)
	if err != nil {
		return fmt.Errorf("convert: parsing embedded definition for %q: %w", typeName, err)
	}
	if err := reg.Register(defs); err != nil {
		return fmt.Errorf("convert: registering %q: %w", typeName, err)
	}
	return nil
}

// synthesizeQoSProfile returns a single-entry offered_qos_profiles YAML
// list, as rosbag2 writers store it, with durability transient_local for a
// latched ROS1 topic and volatile otherwise.
func synthesizeQoSProfile(latching bool) string {
	durability := "volatile"
	if latching {
		durability = "transient_local"
	}
	var b strings.Builder
	b.WriteString("- history: keep_last\n")
	b.WriteString("  depth: 10\n")
	b.WriteString("  reliability: reliable\n")
	b.WriteString("  durability: " + durability + "\n")
	b.WriteString("  deadline:\n    sec: 0\n    nsec: 0\n")
	b.WriteString("  lifespan:\n    sec: 0\n    nsec: 0\n")
	b.WriteString("  liveliness: automatic\n")
	b.WriteString("  liveliness_lease_duration:\n    sec: 0\n    nsec: 0\n")
	b.WriteString("  avoid_ros_namespace_conventions: false\n")
	return b.String()
}

func qosHasTransientLocal(profiles string) bool {
	return strings.Contains(profiles, "durability: transient_local")
}
