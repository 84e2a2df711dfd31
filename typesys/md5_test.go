package typesys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/typesys"
)

func TestGenDefSimpleMessage(t *testing.T) {
	reg := typesys.Default()
	deftext, md5sum, err := typesys.GenDef(reg, "std_msgs/msg/String")
	require.NoError(t, err)
	assert.Equal(t, "string data\n", deftext)
	assert.Equal(t, "992ce8a1687cec8c8bd883ec73ca41d1", md5sum)
}

func TestGenDefHeaderReinstatesSeq(t *testing.T) {
	reg := typesys.Default()
	deftext, md5sum, err := typesys.GenDef(reg, "std_msgs/msg/Header")
	require.NoError(t, err)
	assert.Equal(t, "uint32 seq\ntime stamp\nstring frame_id\n", deftext)
	assert.Equal(t, "2176decaecbce78abc3b96ef049fabed", md5sum)
}

func TestGenDefNestedMessageEmitsSubsection(t *testing.T) {
	reg := typesys.Default()
	deftext, _, err := typesys.GenDef(reg, "geometry_msgs/msg/Point")
	require.NoError(t, err)
	assert.Equal(t, "float64 x\nfloat64 y\nfloat64 z\n", deftext)

	deftext, _, err = typesys.GenDef(reg, "geometry_msgs/msg/Pose")
	require.NoError(t, err)
	assert.Contains(t, deftext, "geometry_msgs/Point position")
	assert.Contains(t, deftext, "geometry_msgs/Quaternion orientation")
	assert.Contains(t, deftext, "MSG: geometry_msgs/Point")
	assert.Contains(t, deftext, "MSG: geometry_msgs/Quaternion")
}

func TestGenDefUnknownType(t *testing.T) {
	reg := typesys.NewRegistry()
	_, _, err := typesys.GenDef(reg, "pkg/msg/Missing")
	var notFound *typesys.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDenormalizeMsgType(t *testing.T) {
	assert.Equal(t, "std_msgs/Header", typesys.DenormalizeMsgType("std_msgs/msg/Header"))
	assert.Equal(t, "pkg/Name", typesys.DenormalizeMsgType("pkg/Name"), "non-canonical input passes through unchanged")
}

func TestNormalizeMsgType(t *testing.T) {
	assert.Equal(t, "std_msgs/msg/Header", typesys.NormalizeMsgType("std_msgs/Header"))
	assert.Equal(t, "std_msgs/msg/Header", typesys.NormalizeMsgType("std_msgs/msg/Header"))
}
