//go:build cgo && gozstd

package compress

import (
	"github.com/arloliu/denio/format"
	"github.com/valyala/gozstd"
)

const gozstdLevel = 3

// ZstdCompressor uses Zstandard frames through the reference C library.
type ZstdCompressor struct{}

var _ Codec = ZstdCompressor{}

// NewZstdCompressor creates a ZstdCompressor.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

func (ZstdCompressor) Type() format.CompressionType { return format.CompressionZstd }

// Compress compresses data into a new Zstandard frame.
func (ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, gozstdLevel), nil
}

// Decompress decodes a Zstandard frame into exactly size bytes.
func (ZstdCompressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("zstd", nil, size)
	}

	out, err := gozstd.Decompress(make([]byte, 0, size), data)
	if err != nil {
		return nil, corrupt("zstd", err)
	}

	return checkSize("zstd", out, size)
}
