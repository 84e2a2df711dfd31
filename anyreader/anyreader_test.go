package anyreader_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/anyreader"
	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/ros1wire"
	"github.com/ternarisco/rosbags-go/rosbag1"
	"github.com/ternarisco/rosbags-go/rosbag2"
	"github.com/ternarisco/rosbags-go/typesys"
)

func writeROS1Bag(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	defer f.Close()

	w, err := rosbag1.NewWriter(f)
	require.NoError(t, err)

	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)

	connID, err := w.WriteConnection("/chatter", rosbag1.ConnectionHeader{
		Topic:             "/chatter",
		Type:              "std_msgs/String",
		MD5Sum:            "992ce8a1687cec8c8bd883ec73ca41d1",
		MessageDefinition: []byte("string data\n"),
	})
	require.NoError(t, err)

	payload, err := ros1wire.Encode(reg, &ros1wire.Message{Def: def, Values: []any{"hi"}})
	require.NoError(t, err)
	require.NoError(t, w.WriteMessage(connID, 1_000_000_000, payload))
	require.NoError(t, w.Close())
}

func TestOpenRosbag1DecodesMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.bag")
	writeROS1Bag(t, path)

	reg := typesys.Default()
	r, err := anyreader.Open(reg, path)
	require.NoError(t, err)
	defer r.Close()

	require.Len(t, r.Connections(), 1)
	assert.Equal(t, "std_msgs/msg/String", r.Connections()[0].MsgType)

	it, err := r.Messages()
	require.NoError(t, err)
	msg, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "/chatter", msg.Topic)
	assert.Equal(t, "hi", msg.Value.Get("data"))

	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenRosbag2DecodesMessages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "bag")
	w, err := rosbag2.NewWriter(dir)
	require.NoError(t, err)
	connID, err := w.WriteConnection("/chatter", "std_msgs/msg/String", "cdr", "")
	require.NoError(t, err)

	reg := typesys.Default()
	def, err := reg.Lookup("std_msgs/msg/String")
	require.NoError(t, err)
	payload, err := cdr.Encode(reg, true, &cdr.Message{Def: def, Values: []any{"hi"}})
	require.NoError(t, err)
	require.NoError(t, w.WriteMessage(connID, 1, payload))
	require.NoError(t, w.Close())

	r, err := anyreader.Open(reg, dir)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint64(1), r.StartTime())
	assert.Equal(t, uint64(1), r.EndTime())
	assert.Equal(t, int64(1), r.MessageCount())

	it, err := r.Messages()
	require.NoError(t, err)
	msg, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Value.Get("data"))
}
