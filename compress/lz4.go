package compress

import (
	"fmt"
	"sync"

	"github.com/arloliu/denio/format"
	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor uses raw LZ4 blocks without framing.
type LZ4Compressor struct{}

var _ Codec = LZ4Compressor{}

// NewLZ4Compressor creates an LZ4Compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

func (LZ4Compressor) Type() format.CompressionType { return format.CompressionLZ4 }

// Compress compresses data into a new LZ4 block.
//
// LZ4 blocks are always shorter than their input, so incompressible data is
// returned as a verbatim copy and recognized by its length on Decompress.
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(data) {
		return append([]byte(nil), data...), nil
	}

	return dst[:n], nil
}

// Decompress decodes an LZ4 block into exactly size bytes.
func (LZ4Compressor) Decompress(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return checkSize("lz4", nil, size)
	}
	if len(data) == size {
		return data, nil
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data, buf)
	if err != nil {
		return nil, corrupt("lz4", err)
	}

	return checkSize("lz4", buf[:n], size)
}
