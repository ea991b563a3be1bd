package compress

import (
	"fmt"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
)

// Compressor compresses a block of bytes.
type Compressor interface {
	// Compress returns the compressed form of data.
	//
	// The input is not modified. The result may alias data for the None codec;
	// otherwise it is newly allocated and owned by the caller.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a block produced by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original bytes of data, which must be exactly size bytes long.
	//
	// Corrupt input, or input that does not expand to size bytes, fails with
	// errs.ErrInvalidArchive.
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

// Stats describes one compression run.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Add accumulates another block into s.
func (s *Stats) Add(original, compressed int) {
	s.OriginalSize += int64(original)
	s.CompressedSize += int64(compressed)
}

// Ratio returns compressed size / original size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space in percent.
func (s Stats) SpaceSavings() float64 {
	return (1 - s.Ratio()) * 100
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// Get returns the built-in codec for ct.
func Get(ct format.CompressionType) (Codec, error) {
	if c, ok := builtinCodecs[ct]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("%w: compression %s (%d)", errs.ErrUnsupportedAlgorithm, ct, uint8(ct))
}

func checkSize(algo string, out []byte, size int) ([]byte, error) {
	if len(out) != size {
		return nil, sizeError(algo, len(out), size)
	}

	return out, nil
}

func sizeError(algo string, got, want int) error {
	return fmt.Errorf("%w: %s block expands to %d bytes, want %d", errs.ErrInvalidArchive, algo, got, want)
}

func corrupt(algo string, err error) error {
	return fmt.Errorf("%w: %s: %w", errs.ErrInvalidArchive, algo, err)
}
