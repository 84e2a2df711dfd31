package convert_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/cdr"
	"github.com/ternarisco/rosbags-go/convert"
	"github.com/ternarisco/rosbags-go/ros1wire"
	"github.com/ternarisco/rosbags-go/rosbag1"
	"github.com/ternarisco/rosbags-go/rosbag2"
	"github.com/ternarisco/rosbags-go/typesys"
)

func writeROS1Bag(t *testing.T, path string, latching bool) {
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
		Latching:          &latching,
	})
	require.NoError(t, err)

	for i, text := range []string{"hello", "world"} {
		payload, err := ros1wire.Encode(reg, &ros1wire.Message{Def: def, Values: []any{text}})
		require.NoError(t, err)
		require.NoError(t, w.WriteMessage(connID, uint64(i+1)*1_000_000_000, payload))
	}
	require.NoError(t, w.Close())
}

func TestRosbag1ToRosbag2PreservesMessagesAndLatching(t *testing.T) {
	dir := t.TempDir()
	bagPath := filepath.Join(dir, "in.bag")
	writeROS1Bag(t, bagPath, true)

	f, err := os.Open(bagPath)
	require.NoError(t, err)
	defer f.Close()
	r, err := rosbag1.NewReader(f)
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	w, err := rosbag2.NewWriter(outDir)
	require.NoError(t, err)

	reg := typesys.Default()
	require.NoError(t, convert.Rosbag1ToRosbag2(reg, r, w))
	require.NoError(t, w.Close())

	r2, err := rosbag2.NewReader(outDir)
	require.NoError(t, err)
	defer r2.Close()

	meta := r2.Metadata()
	require.Len(t, meta.Connections, 1)
	assert.Equal(t, "cdr", meta.Connections[0].SerializationFormat)
	assert.Contains(t, meta.Connections[0].OfferedQoSProfiles, "durability: transient_local")
	assert.Equal(t, int64(2), meta.MessageCount)

	it, err := r2.Messages()
	require.NoError(t, err)
	defer it.Close()

	var texts []string
	for {
		_, msg, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		decoded, _, err := cdr.Decode(reg, "std_msgs/msg/String", msg.Data)
		require.NoError(t, err)
		texts = append(texts, decoded.Get("data").(string))
	}
	assert.Equal(t, []string{"hello", "world"}, texts)
}

func TestRosbag2ToRosbag1RoundTrips(t *testing.T) {
	dir := t.TempDir()
	bagPath := filepath.Join(dir, "in.bag")
	writeROS1Bag(t, bagPath, false)

	f, err := os.Open(bagPath)
	require.NoError(t, err)
	r, err := rosbag1.NewReader(f)
	require.NoError(t, err)

	outDir := filepath.Join(dir, "out")
	w, err := rosbag2.NewWriter(outDir)
	require.NoError(t, err)

	reg := typesys.Default()
	require.NoError(t, convert.Rosbag1ToRosbag2(reg, r, w))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	r2, err := rosbag2.NewReader(outDir)
	require.NoError(t, err)

	backPath := filepath.Join(dir, "back.bag")
	bf, err := os.OpenFile(backPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	bw, err := rosbag1.NewWriter(bf)
	require.NoError(t, err)

	require.NoError(t, convert.Rosbag2ToRosbag1(reg, r2, bw))
	require.NoError(t, bw.Close())
	require.NoError(t, bf.Close())
	require.NoError(t, r2.Close())

	bf, err = os.Open(backPath)
	require.NoError(t, err)
	defer bf.Close()
	br, err := rosbag1.NewReader(bf)
	require.NoError(t, err)
	info, err := br.Info()
	require.NoError(t, err)
	require.Len(t, info.Connections, 1)
	for _, c := range info.Connections {
		assert.Equal(t, "std_msgs/String", c.Data.Type)
		assert.Equal(t, "992ce8a1687cec8c8bd883ec73ca41d1", c.Data.MD5Sum)
		require.NotNil(t, c.Data.Latching)
		assert.False(t, *c.Data.Latching)
	}

	it, err := br.Messages()
	require.NoError(t, err)
	var texts []string
	for {
		_, msg, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		decoded, err := ros1wire.Decode(reg, "std_msgs/msg/String", msg.Data)
		require.NoError(t, err)
		texts = append(texts, decoded.Get("data").(string))
	}
	assert.Equal(t, []string{"hello", "world"}, texts)
}

func TestRosbag2ToRosbag1UnknownType(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "bag")
	w, err := rosbag2.NewWriter(outDir)
	require.NoError(t, err)
	_, err = w.WriteConnection("/mystery", "pkg/msg/NeverRegistered", "cdr", "")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := rosbag2.NewReader(outDir)
	require.NoError(t, err)
	defer r.Close()

	reg := typesys.NewRegistry()
	bw, err := rosbag1.NewWriter(&discardWriteSeeker{})
	require.NoError(t, err)

	err = convert.Rosbag2ToRosbag1(reg, r, bw)
	var unknown *convert.UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "pkg/msg/NeverRegistered", unknown.TypeName)
}

type discardWriteSeeker struct{ pos int64 }

func (d *discardWriteSeeker) Write(p []byte) (int, error) {
	d.pos += int64(len(p))
	return len(p), nil
}

func (d *discardWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		d.pos = offset
	case io.SeekCurrent:
		d.pos += offset
	case io.SeekEnd:
		d.pos = offset
	}
	return d.pos, nil
}
