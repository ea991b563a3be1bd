package compress

import "github.com/arloliu/denio/format"

// NoOpCompressor stores blocks verbatim.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// NewNoOpCompressor creates a NoOpCompressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (NoOpCompressor) Type() format.CompressionType { return format.CompressionNone }

// Compress returns data itself.
func (NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data itself after checking its length.
func (NoOpCompressor) Decompress(data []byte, size int) ([]byte, error) {
	return checkSize("none", data, size)
}
