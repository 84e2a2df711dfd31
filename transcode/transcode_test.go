package transcode_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/ros1wire"
	"github.com/ternarisco/rosbags-go/transcode"
	"github.com/ternarisco/rosbags-go/typesys"
)

func TestROS1ToCDRCommutesWithDirectCodecs(t *testing.T) {
	reg := typesys.Default()
	pointDef, err := reg.Lookup("geometry_msgs/msg/Point")
	require.NoError(t, err)

	msg := &cdr.Message{Def: pointDef, Values: []any{1.0, -2.0, 3.5}}
	ros1Bytes, err := ros1wire.Encode(reg, msg)
	require.NoError(t, err)

	cdrPayload, err := transcode.ROS1ToCDR(reg, "geometry_msgs/msg/Point", ros1Bytes)
	require.NoError(t, err)

	fullCDR, err := cdr.Encode(reg, true, msg)
	require.NoError(t, err)
	assert.Equal(t, fullCDR[4:], cdrPayload, "transcoded payload matches a direct CDR encode, header aside")
}

func TestCDRToROS1RoundTripsWithoutHeader(t *testing.T) {
	reg := typesys.Default()
	pointDef, err := reg.Lookup("geometry_msgs/msg/Point")
	require.NoError(t, err)

	original := &cdr.Message{Def: pointDef, Values: []any{1.0, -2.0, 3.5}}
	ros1Original, err := ros1wire.Encode(reg, original)
	require.NoError(t, err)

	cdrPayload, err := transcode.ROS1ToCDR(reg, "geometry_msgs/msg/Point", ros1Original)
	require.NoError(t, err)

	ros1Back, err := transcode.CDRToROS1(reg, "geometry_msgs/msg/Point", cdrPayload)
	require.NoError(t, err)
	assert.Equal(t, ros1Original, ros1Back)
}

func TestROS1ToCDRDropsHeaderSeq(t *testing.T) {
	reg := typesys.Default()
	headerDef, err := reg.Lookup("std_msgs/msg/Header")
	require.NoError(t, err)
	timeDef, err := reg.Lookup("builtin_interfaces/msg/Time")
	require.NoError(t, err)

	var ros1 []byte
	ros1 = binary.LittleEndian.AppendUint32(ros1, 0xDEADBEEF) // seq, must be dropped
	ros1 = binary.LittleEndian.AppendUint32(ros1, 10)         // sec
	ros1 = binary.LittleEndian.AppendUint32(ros1, 20)         // nanosec
	ros1 = binary.LittleEndian.AppendUint32(ros1, 5)          // frame_id length
	ros1 = append(ros1, "frame"...)

	cdrPayload, err := transcode.ROS1ToCDR(reg, "std_msgs/msg/Header", ros1)
	require.NoError(t, err)

	want, err := cdr.Encode(reg, true, &cdr.Message{
		Def: headerDef,
		Values: []any{
			&cdr.Message{Def: timeDef, Values: []any{int32(10), uint32(20)}},
			"frame",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, want[4:], cdrPayload)
}

func TestCDRToROS1InsertsZeroSeq(t *testing.T) {
	reg := typesys.Default()
	headerDef, err := reg.Lookup("std_msgs/msg/Header")
	require.NoError(t, err)
	timeDef, err := reg.Lookup("builtin_interfaces/msg/Time")
	require.NoError(t, err)

	full, err := cdr.Encode(reg, true, &cdr.Message{
		Def: headerDef,
		Values: []any{
			&cdr.Message{Def: timeDef, Values: []any{int32(1), uint32(2)}},
			"f",
		},
	})
	require.NoError(t, err)

	ros1Bytes, err := transcode.CDRToROS1(reg, "std_msgs/msg/Header", full[4:])
	require.NoError(t, err)

	require.True(t, len(ros1Bytes) >= 4)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(ros1Bytes[:4]))

	back, err := ros1wire.Decode(reg, "std_msgs/msg/Header", ros1Bytes)
	require.NoError(t, err)
	stamp := back.Get("stamp").(*ros1wire.Message)
	assert.Equal(t, int32(1), stamp.Get("sec"))
	assert.Equal(t, "f", back.Get("frame_id"))
}

// TestROS1ToCDREmptySequenceOfMessageAligns mirrors cdr's own regression:
// padding after a sequence's length prefix depends only on the element
// type's leading alignment, never on the runtime element count, so an empty
// sequence must align the stream exactly as a populated one would before
// the transcoder moves on to the next field.
func TestROS1ToCDREmptySequenceOfMessageAligns(t *testing.T) {
	reg := typesys.NewRegistry()
	elem := typesys.Def("pkg/msg/Elem", typesys.F("v", typesys.Prim(typesys.FLOAT64)))
	outer := typesys.Def("pkg/msg/SeqMsg",
		typesys.F("items", typesys.Sequence(typesys.Msg("pkg/msg/Elem"))),
		typesys.F("flag", typesys.Prim(typesys.INT8)),
	)
	require.NoError(t, reg.Register(map[string]*typesys.MessageDef{
		"pkg/msg/Elem":   elem,
		"pkg/msg/SeqMsg": outer,
	}))

	msg := &cdr.Message{Def: outer, Values: []any{[]any{}, int8(5)}}
	ros1Bytes, err := ros1wire.Encode(reg, msg)
	require.NoError(t, err)

	cdrPayload, err := transcode.ROS1ToCDR(reg, "pkg/msg/SeqMsg", ros1Bytes)
	require.NoError(t, err)

	want, err := cdr.Encode(reg, true, msg)
	require.NoError(t, err)
	assert.Equal(t, want[4:], cdrPayload)
}

func TestROS1ToCDRShortReadError(t *testing.T) {
	reg := typesys.Default()
	_, err := transcode.ROS1ToCDR(reg, "std_msgs/msg/String", []byte{0x05, 0x00})
	var short *transcode.ShortReadError
	require.ErrorAs(t, err, &short)
}

func TestCDRToROS1BadLengthOnZeroLengthString(t *testing.T) {
	reg := typesys.Default()
	cdrPayload := []byte{0x00, 0x00, 0x00, 0x00} // zero-length CDR string is invalid: must include NUL
	_, err := transcode.CDRToROS1(reg, "std_msgs/msg/String", cdrPayload)
	var bad *transcode.BadLengthError
	require.ErrorAs(t, err, &bad)
}
