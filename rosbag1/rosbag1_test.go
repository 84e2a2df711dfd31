package rosbag1_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarisco/rosbags-go/rosbag1"
)

func writeSampleBag(t *testing.T, path string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)
	defer f.Close()

	w, err := rosbag1.NewWriter(f, rosbag1.WithCompression(rosbag1.CompressionLZ4))
	require.NoError(t, err)

	connID, err := w.WriteConnection("/chatter", rosbag1.ConnectionHeader{
		Topic:             "/chatter",
		Type:              "std_msgs/String",
		MD5Sum:            "992ce8a1687cec8c8bd883ec73ca41d1",
		MessageDefinition: []byte("string data\n"),
	})
	require.NoError(t, err)

	require.NoError(t, w.WriteMessage(connID, 3_000_000_000, []byte{3, 0, 0, 0, 'b', 'a', 'r'}))
	require.NoError(t, w.WriteMessage(connID, 1_000_000_000, []byte{3, 0, 0, 0, 'f', 'o', 'o'}))
	require.NoError(t, w.WriteMessage(connID, 2_000_000_000, []byte{3, 0, 0, 0, 'b', 'a', 'z'}))

	require.NoError(t, w.Close())
}

func TestWriterReaderRoundTripIndexed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bag")
	writeSampleBag(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := rosbag1.NewReader(f)
	require.NoError(t, err)

	info, err := r.Info()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), info.MessageCount)
	assert.Equal(t, uint64(1_000_000_000), info.MessageStartTime)
	assert.Equal(t, uint64(3_000_000_000), info.MessageEndTime)
	require.Len(t, info.Connections, 1)

	it, err := r.Messages()
	require.NoError(t, err)

	var times []uint64
	var payloads []string
	for {
		_, msg, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		times = append(times, msg.Time)
		payloads = append(payloads, string(msg.Data[4:]))
	}
	assert.Equal(t, []uint64{1_000_000_000, 2_000_000_000, 3_000_000_000}, times, "indexed iteration yields messages in timestamp order regardless of write order")
	assert.Equal(t, []string{"foo", "baz", "bar"}, payloads)
}

func TestWriterReaderRoundTripLinear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bag")
	writeSampleBag(t, path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := rosbag1.NewReader(f)
	require.NoError(t, err)

	it, err := r.Messages(rosbag1.ScanLinear(true))
	require.NoError(t, err)

	var times []uint64
	for {
		_, msg, err := it.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		times = append(times, msg.Time)
	}
	assert.Equal(t, []uint64{3_000_000_000, 1_000_000_000, 2_000_000_000}, times, "linear scan preserves write order, unlike the indexed merge")
}

func TestInfoRefusesUnindexedBag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unindexed.bag")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)

	w, err := rosbag1.NewWriter(struct{ io.Writer }{f}) // hide io.Seeker: Close cannot patch the header
	require.NoError(t, err)
	connID, err := w.WriteConnection("/chatter", rosbag1.ConnectionHeader{Topic: "/chatter", Type: "std_msgs/String"})
	require.NoError(t, err)
	require.NoError(t, w.WriteMessage(connID, 1, []byte{0, 0, 0, 0}))
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := rosbag1.NewReader(f)
	require.NoError(t, err)
	_, err = r.Info()
	assert.ErrorIs(t, err, rosbag1.ErrUnindexed)
}

func TestMessagesRequiresSeekableReaderWithoutScanLinear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bag")
	writeSampleBag(t, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r, err := rosbag1.NewReader(bytesReader(data))
	require.NoError(t, err)
	_, err = r.Messages()
	assert.ErrorIs(t, err, rosbag1.ErrUnseekableReader)
}

func bytesReader(b []byte) io.Reader {
	return &onlyReader{b: b}
}

type onlyReader struct {
	b   []byte
	pos int
}

func (r *onlyReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}

func TestNewReaderRejectsBadMagic(t *testing.T) {
	badMagic := make([]byte, len(rosbag1.Magic))
	copy(badMagic, "NOT A BAG!!!\n")
	_, err := rosbag1.NewReader(bytesReader(badMagic))
	assert.ErrorIs(t, err, rosbag1.ErrNotABag)
}
