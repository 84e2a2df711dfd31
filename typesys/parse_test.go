package typesys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/typesys"
)

func TestParseMsgSimpleFields(t *testing.T) {
	text := []byte("int32 x\nstring name\nfloat64[] samples\n")
	name, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	assert.Equal(t, "pkg/msg/Foo", name)

	def, ok := defs["pkg/msg/Foo"]
	require.True(t, ok)
	require.Len(t, def.Fields, 3)
	assert.Equal(t, "x", def.Fields[0].Name)
	assert.Equal(t, typesys.INT32, def.Fields[0].Type.Primitive)
	assert.Equal(t, "name", def.Fields[1].Name)
	assert.Equal(t, typesys.STRING, def.Fields[1].Type.Primitive)
	assert.Equal(t, "samples", def.Fields[2].Name)
	assert.True(t, def.Fields[2].Type.IsSequence())
}

func TestParseMsgFixedAndBoundedArrays(t *testing.T) {
	text := []byte("int32[4] fixed\nint32[<=8] bounded\n")
	_, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	def := defs["pkg/msg/Foo"]

	fixed := def.Fields[0].Type
	assert.True(t, fixed.Array)
	assert.False(t, fixed.IsSequence())
	assert.Equal(t, 4, fixed.FixedSize)

	bounded := def.Fields[1].Type
	assert.True(t, bounded.IsSequence())
	assert.True(t, bounded.Bounded)
	assert.Equal(t, 8, bounded.FixedSize)
}

func TestParseMsgEmbeddedDefinitions(t *testing.T) {
	text := []byte("Header header\nstring data\n===\nMSG: std_msgs/Header\nuint32 seq\ntime stamp\nstring frame_id\n")
	name, defs, err := typesys.ParseMsg("std_msgs/msg/Marked", text)
	require.NoError(t, err)
	assert.Equal(t, "std_msgs/msg/Marked", name)

	primary := defs["std_msgs/msg/Marked"]
	require.Len(t, primary.Fields, 2)
	assert.Equal(t, "std_msgs/msg/Header", primary.Fields[0].Type.Message, "bare Header resolves to std_msgs/msg/Header")

	header, ok := defs["std_msgs/msg/Header"]
	require.True(t, ok, "embedded MSG: block must be parsed as a sibling definition")
	require.Len(t, header.Fields, 3)
	assert.Equal(t, "seq", header.Fields[0].Name)
}

func TestParseMsgRelativeTypeReference(t *testing.T) {
	text := []byte("Bar b\n===\nMSG: pkg/Bar\nint32 v\n")
	_, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	assert.Equal(t, "pkg/msg/Bar", defs["pkg/msg/Foo"].Fields[0].Type.Message)
}

func TestParseMsgConstant(t *testing.T) {
	text := []byte("int32 FOO=42\nstring name\n")
	_, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	def := defs["pkg/msg/Foo"]
	require.Len(t, def.Constants, 1)
	assert.Equal(t, "FOO", def.Constants[0].Name)
	assert.Equal(t, "42", def.Constants[0].Value)
	require.Len(t, def.Fields, 1)
}

func TestParseMsgStringConstantWithEmbeddedEquals(t *testing.T) {
	text := []byte("string FOO=a=b\nint32 x\n")
	_, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	def := defs["pkg/msg/Foo"]
	require.Len(t, def.Constants, 1)
	assert.Equal(t, "FOO", def.Constants[0].Name)
	assert.Equal(t, typesys.STRING, def.Constants[0].Type)
	assert.Equal(t, "a=b", def.Constants[0].Value)
	require.Len(t, def.Fields, 1, "the field after the string constant must still parse normally")
	assert.Equal(t, "x", def.Fields[0].Name)
}

func TestParseMsgStringConstantWithSpacesAndHash(t *testing.T) {
	text := []byte("string GREETING=hello, world! # not a comment\nstring name\n")
	_, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	def := defs["pkg/msg/Foo"]
	require.Len(t, def.Constants, 1)
	assert.Equal(t, "hello, world! # not a comment", def.Constants[0].Value)
}

func TestParseMsgCommentsStripped(t *testing.T) {
	text := []byte("# leading comment\nint32 x # inline comment\n")
	_, defs, err := typesys.ParseMsg("pkg/msg/Foo", text)
	require.NoError(t, err)
	require.Len(t, defs["pkg/msg/Foo"].Fields, 1)
	assert.Equal(t, "x", defs["pkg/msg/Foo"].Fields[0].Name)
}

func TestParseIDLStructWithSequenceAndArray(t *testing.T) {
	text := []byte(`
module pkg {
  module msg {
    struct Foo {
      int32 x;
      sequence<int32> ys;
      sequence<int32, 4> bounded;
      float64 fixed_arr[3];
    };
  };
};
`)
	name, defs, err := typesys.ParseIDL("pkg/msg/Foo", text)
	require.NoError(t, err)
	assert.Equal(t, "pkg/msg/Foo", name)

	def := defs["pkg/msg/Foo"]
	require.Len(t, def.Fields, 4)
	assert.Equal(t, typesys.INT32, def.Fields[0].Type.Primitive)
	assert.True(t, def.Fields[1].Type.IsSequence())
	assert.False(t, def.Fields[1].Type.Bounded)
	assert.True(t, def.Fields[2].Type.Bounded)
	assert.Equal(t, 4, def.Fields[2].Type.FixedSize)
	assert.True(t, def.Fields[3].Type.Array)
	assert.Equal(t, 3, def.Fields[3].Type.FixedSize)
}

func TestParseIDLConstAndDefault(t *testing.T) {
	text := []byte(`
module pkg {
  module msg {
    module Foo_Constants {
      const int32 FOO = 42;
    };
    struct Foo {
      @default (value=7)
      int32 x;
    };
  };
};
`)
	_, defs, err := typesys.ParseIDL("pkg/msg/Foo", text)
	require.NoError(t, err)
	def := defs["pkg/msg/Foo"]
	require.Len(t, def.Fields, 1)
	assert.Equal(t, int64(7), def.Fields[0].Default)
	require.Len(t, def.Constants, 1)
	assert.Equal(t, "FOO", def.Constants[0].Name)
	assert.Equal(t, "42", def.Constants[0].Value)
}

func TestParseIDLNestedModulePackage(t *testing.T) {
	text := []byte(`
module geometry_msgs {
  module msg {
    struct Vector3 {
      double x;
      double y;
      double z;
    };
  };
};
`)
	name, defs, err := typesys.ParseIDL("geometry_msgs/msg/Vector3", text)
	require.NoError(t, err)
	assert.Equal(t, "geometry_msgs/msg/Vector3", name)
	def := defs["geometry_msgs/msg/Vector3"]
	require.Len(t, def.Fields, 3)
	assert.Equal(t, typesys.FLOAT64, def.Fields[0].Type.Primitive)
}
