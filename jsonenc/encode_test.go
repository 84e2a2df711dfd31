package jsonenc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/jsonenc"
	"github.com/ternarisco/rosbags-go/typesys"
)

func TestMarshalPrimitivesAndString(t *testing.T) {
	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)

	got, err := jsonenc.Marshal(&cdr.Message{Def: def, Values: []any{"hi"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":"hi"}`, string(got))
}

func TestMarshalNestedMessage(t *testing.T) {
	reg := typesys.Default()
	pointDef, err := reg.Lookup("geometry_msgs/msg/Point")
	require.NoError(t, err)
	poseDef, err := reg.Lookup("geometry_msgs/msg/Pose")
	require.NoError(t, err)
	quatDef, err := reg.Lookup("geometry_msgs/msg/Quaternion")
	require.NoError(t, err)

	msg := &cdr.Message{Def: poseDef, Values: []any{
		&cdr.Message{Def: pointDef, Values: []any{1.0, 2.0, 3.0}},
		&cdr.Message{Def: quatDef, Values: []any{0.0, 0.0, 0.0, 1.0}},
	}}

	got, err := jsonenc.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"position": {"x":1,"y":2,"z":3},
		"orientation": {"x":0,"y":0,"z":0,"w":1}
	}`, string(got))
}

func TestMarshalSequenceAndEscaping(t *testing.T) {
	reg := typesys.NewRegistry()
	def := typesys.Def("pkg/msg/Sample",
		typesys.F("values", typesys.Sequence(typesys.Prim(typesys.INT32))),
		typesys.F("label", typesys.Prim(typesys.STRING)),
	)
	require.NoError(t, reg.Register(map[string]*typesys.MessageDef{"pkg/msg/Sample": def}))

	msg := &cdr.Message{Def: def, Values: []any{
		[]any{int32(1), int32(-2), int32(3)},
		"quote\"here",
	}}

	got, err := jsonenc.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"values":[1,-2,3],"label":"quote\"here"}`, string(got))
}
