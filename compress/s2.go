package compress

import (
	"github.com/arloliu/denio/format"
	"github.com/klauspost/compress/s2"
)

// S2Compressor uses the S2 block format.
type S2Compressor struct{}

var _ Codec = S2Compressor{}

// NewS2Compressor creates an S2Compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

func (S2Compressor) Type() format.CompressionType { return format.CompressionS2 }

// Compress compresses data into a new S2 block.
func (S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decodes an S2 block.
func (S2Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("s2", nil, size)
	}

	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, corrupt("s2", err)
	}
	if n != size {
		return nil, sizeError("s2", n, size)
	}

	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, corrupt("s2", err)
	}

	return checkSize("s2", out, size)
}
