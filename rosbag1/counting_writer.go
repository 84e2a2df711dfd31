package rosbag1

import "io"

// countingWriter tracks the number of bytes written so the writer can record
// exact file offsets (chunk positions, the index pointer) without a separate
// seek-and-measure step.
type countingWriter struct {
	w     io.Writer
	count int64
}

func newCountingWriter(w io.Writer) *countingWriter {
	return &countingWriter{w: w}
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.count += int64(n)
	return n, err
}
