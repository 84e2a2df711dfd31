package cdr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/typesys"
)

func TestEncodeStringLittleEndian(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)

	got, err := cdr.Encode(reg, true, &cdr.Message{Def: def, Values: []any{"hi"}})
	require.NoError(t, err)

	want := []byte{0x00, 0x01, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 'h', 'i', 0x00}
	assert.Equal(t, want, got)
}

func TestEncodePointLittleEndian(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("geometry_msgs/msg/Point")
	require.NoError(t, err)

	got, err := cdr.Encode(reg, true, &cdr.Message{Def: def, Values: []any{1.0, 2.0, 3.0}})
	require.NoError(t, err)

	require.Len(t, got, 4+24)
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00}, got[:4])
	assert.Equal(t, float64(1), math.Float64frombits(leU64(got[4:12])))
	assert.Equal(t, float64(2), math.Float64frombits(leU64(got[12:20])))
	assert.Equal(t, float64(3), math.Float64frombits(leU64(got[20:28])))
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	reg := typesys.Default()
	_, _, err := cdr.Decode(reg, "std_msgs/msg/String", []byte{0x01, 0x02, 0x00, 0x00})
	var bad *cdr.BadHeaderError
	require.ErrorAs(t, err, &bad)
}

func TestDecodeRejectsShortHeader(t *testing.T) {
	reg := typesys.Default()
	_, _, err := cdr.Decode(reg, "std_msgs/msg/String", []byte{0x00, 0x01})
	var short *cdr.ShortReadError
	require.ErrorAs(t, err, &short)
}

func TestDecodeRejectsExcessBytes(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)
	encoded, err := cdr.Encode(reg, true, &cdr.Message{Def: def, Values: []any{"hi"}})
	require.NoError(t, err)

	_, _, err = cdr.Decode(reg, "std_msgs/msg/String", append(encoded, 0xFF))
	var excess *cdr.ExcessBytesError
	require.ErrorAs(t, err, &excess)
}

func TestRoundTripStringBothEndiannesses(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)

	for _, le := range []bool{true, false} {
		encoded, err := cdr.Encode(reg, le, &cdr.Message{Def: def, Values: []any{"round trip"}})
		require.NoError(t, err)

		msg, gotLE, err := cdr.Decode(reg, "std_msgs/msg/String", encoded)
		require.NoError(t, err)
		assert.Equal(t, le, gotLE)
		assert.Equal(t, "round trip", msg.Get("data"))
	}
}

func TestRoundTripNestedMessage(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("geometry_msgs/msg/Pose")
	require.NoError(t, err)

	pointDef, err := reg.Lookup("geometry_msgs/msg/Point")
	require.NoError(t, err)
	quatDef, err := reg.Lookup("geometry_msgs/msg/Quaternion")
	require.NoError(t, err)

	msg := &cdr.Message{
		Def: def,
		Values: []any{
			&cdr.Message{Def: pointDef, Values: []any{1.5, -2.5, 0.0}},
			&cdr.Message{Def: quatDef, Values: []any{0.0, 0.0, 0.0, 1.0}},
		},
	}

	encoded, err := cdr.Encode(reg, true, msg)
	require.NoError(t, err)

	got, _, err := cdr.Decode(reg, "geometry_msgs/msg/Pose", encoded)
	require.NoError(t, err)
	position := got.Get("position").(*cdr.Message)
	assert.Equal(t, 1.5, position.Get("x"))
	assert.Equal(t, -2.5, position.Get("y"))
}

func TestRoundTripSequenceAndFixedArray(t *testing.T) {
	reg := typesys.NewRegistry()
	def := typesys.Def("pkg/msg/Arrays",
		typesys.F("seq", typesys.Sequence(typesys.Prim(typesys.INT32))),
		typesys.F("fixed", typesys.FixedArray(typesys.Prim(typesys.UINT8), 3)),
	)
	require.NoError(t, reg.Register(map[string]*typesys.MessageDef{"pkg/msg/Arrays": def}))

	msg := &cdr.Message{Def: def, Values: []any{
		[]any{int32(1), int32(2), int32(3)},
		[]any{uint8(9), uint8(8), uint8(7)},
	}}

	encoded, err := cdr.Encode(reg, true, msg)
	require.NoError(t, err)

	got, _, err := cdr.Decode(reg, "pkg/msg/Arrays", encoded)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(2), int32(3)}, got.Get("seq"))
	assert.Equal(t, []any{uint8(9), uint8(8), uint8(7)}, got.Get("fixed"))
}

// TestAlignmentPadding exercises a field layout (int8 then int32) that
// requires 3 bytes of padding for the int32's 4-byte alignment, and a
// trailing int64 that lands on payload offset 8 and so needs no further
// padding for its 8-byte alignment.
func TestAlignmentPadding(t *testing.T) {
	reg := typesys.NewRegistry()
	def := typesys.Def("pkg/msg/Mixed",
		typesys.F("a", typesys.Prim(typesys.INT8)),
		typesys.F("b", typesys.Prim(typesys.INT32)),
		typesys.F("c", typesys.Prim(typesys.INT64)),
	)
	require.NoError(t, reg.Register(map[string]*typesys.MessageDef{"pkg/msg/Mixed": def}))

	msg := &cdr.Message{Def: def, Values: []any{int8(7), int32(42), int64(99)}}
	encoded, err := cdr.Encode(reg, true, msg)
	require.NoError(t, err)

	// header(4) + a(1) + pad(3) + b(4) + pad(0, already at 12) + c(8), but c
	// needs 8-byte alignment from payload start: payload offset after b is
	// 1+3+4=8, already 8-aligned.
	require.Len(t, encoded, 4+1+3+4+8)
	assert.EqualValues(t, 7, encoded[4])
	assert.Equal(t, byte(0), encoded[5])
	assert.Equal(t, byte(0), encoded[6])
	assert.Equal(t, byte(0), encoded[7])

	got, _, err := cdr.Decode(reg, "pkg/msg/Mixed", encoded)
	require.NoError(t, err)
	assert.Equal(t, int8(7), got.Get("a"))
	assert.Equal(t, int32(42), got.Get("b"))
	assert.Equal(t, int64(99), got.Get("c"))
}

// TestEmptySequenceOfMessageAligns checks that the padding between a
// sequence's length prefix and the field that follows it depends only on
// the element type's leading alignment, never on whether the sequence
// turns out to be empty. Elem's leading field is a float64 (8-byte
// alignment), so an empty "items" sequence must still leave the stream
// 8-aligned before "flag" is written.
func TestEmptySequenceOfMessageAligns(t *testing.T) {
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
	encoded, err := cdr.Encode(reg, true, msg)
	require.NoError(t, err)

	// header(4) + count(4, == 0) + pad(4, to reach 8-byte alignment) + flag(1)
	require.Len(t, encoded, 4+4+4+1)
	assert.Equal(t, []byte{0, 0, 0, 0}, encoded[8:12], "padding after an empty sequence must still be inserted")
	assert.EqualValues(t, 5, encoded[12])

	got, _, err := cdr.Decode(reg, "pkg/msg/SeqMsg", encoded)
	require.NoError(t, err)
	assert.Equal(t, []any{}, got.Get("items"))
	assert.Equal(t, int8(5), got.Get("flag"))
}
