package rosbag1

// defaultWriterChunkSize is the uncompressed chunk size a Writer targets
// before rotating to a new chunk.
const defaultWriterChunkSize = 768 * 1024

type bagWriterConfig struct {
	chunksize   int
	compression string
}

// WriterOption configures a Writer.
type WriterOption func(*bagWriterConfig)

// WithChunksize sets the uncompressed byte threshold at which the active
// chunk is flushed and a new one started.
func WithChunksize(n int) WriterOption {
	return func(c *bagWriterConfig) { c.chunksize = n }
}

// WithCompression selects the chunk compression algorithm: CompressionNone
// or CompressionLZ4. CompressionBZ2 is rejected at NewWriter time; this
// package only ever reads bz2 chunks, never writes them, matching the
// reference toolchain's own writer.
func WithCompression(compression string) WriterOption {
	return func(c *bagWriterConfig) { c.compression = compression }
}

func defaultBagWriterConfig() bagWriterConfig {
	return bagWriterConfig{
		chunksize:   defaultWriterChunkSize,
		compression: CompressionLZ4,
	}
}
