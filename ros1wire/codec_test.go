package ros1wire_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/ros1wire"
	"github.com/ternarisco/rosbags-go/typesys"
)

func TestEncodeStringNoHeaderNoTrailingNUL(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)

	got, err := ros1wire.Encode(reg, &ros1wire.Message{Def: def, Values: []any{"hi"}})
	require.NoError(t, err)

	want := []byte{0x02, 0x00, 0x00, 0x00, 'h', 'i'}
	assert.Equal(t, want, got)
}

func TestEncodeHeaderPrependsSeq(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/Header")
	require.NoError(t, err)
	timeDef, err := reg.Lookup("builtin_interfaces/msg/Time")
	require.NoError(t, err)

	msg := &ros1wire.Message{Def: def, Values: []any{
		&ros1wire.Message{Def: timeDef, Values: []any{int32(10), uint32(20)}},
		"frame",
	}}

	got, err := ros1wire.Encode(reg, msg)
	require.NoError(t, err)

	require.True(t, len(got) >= 4)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(got[:4]), "ROS1 seq field is always written as 0")

	roundtrip, err := ros1wire.Decode(reg, "std_msgs/msg/Header", got)
	require.NoError(t, err)
	stamp := roundtrip.Get("stamp").(*ros1wire.Message)
	assert.Equal(t, int32(10), stamp.Get("sec"))
	assert.Equal(t, "frame", roundtrip.Get("frame_id"))
}

func TestRoundTripPrimitivesAndArrays(t *testing.T) {
	reg := typesys.NewRegistry()
	def := typesys.Def("pkg/msg/Mixed",
		typesys.F("flag", typesys.Prim(typesys.BOOL)),
		typesys.F("count", typesys.Prim(typesys.INT32)),
		typesys.F("name", typesys.Prim(typesys.STRING)),
		typesys.F("values", typesys.Sequence(typesys.Prim(typesys.FLOAT64))),
	)
	require.NoError(t, reg.Register(map[string]*typesys.MessageDef{"pkg/msg/Mixed": def}))

	msg := &ros1wire.Message{Def: def, Values: []any{
		true, int32(-7), "ros1", []any{1.0, 2.0, 3.0},
	}}

	encoded, err := ros1wire.Encode(reg, msg)
	require.NoError(t, err)

	got, err := ros1wire.Decode(reg, "pkg/msg/Mixed", encoded)
	require.NoError(t, err)
	assert.Equal(t, true, got.Get("flag"))
	assert.Equal(t, int32(-7), got.Get("count"))
	assert.Equal(t, "ros1", got.Get("name"))
	assert.Equal(t, []any{1.0, 2.0, 3.0}, got.Get("values"))
}

func TestDecodeExcessBytes(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)
	encoded, err := ros1wire.Encode(reg, &ros1wire.Message{Def: def, Values: []any{"x"}})
	require.NoError(t, err)

	_, err = ros1wire.Decode(reg, "std_msgs/msg/String", append(encoded, 0xFF))
	var excess *ros1wire.ExcessBytesError
	require.ErrorAs(t, err, &excess)
}

func TestDecodeShortRead(t *testing.T) {
	reg := typesys.Default()
	_, err := ros1wire.Decode(reg, "std_msgs/msg/String", []byte{0x05, 0x00})
	var short *ros1wire.ShortReadError
	require.ErrorAs(t, err, &short)
}
