// Package compress provides the block codecs used to store container frames
// in archives.
//
// Every codec compresses a whole frame at once and is told the decompressed
// size on the way back, which frame archives always know from the container
// geometry:
//
//	c, err := compress.Get(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := c.Compress(raw)
//	...
//	raw, err = c.Decompress(packed, len(raw))
//
// # Algorithms
//
//   - None (format.CompressionNone): frames are stored verbatim.
//   - Zstd (format.CompressionZstd): best ratio, the default for archives.
//     Built on klauspost/compress; building with cgo and the gozstd tag
//     switches to the valyala/gozstd bindings. Both produce standard frames.
//   - S2 (format.CompressionS2): Snappy-compatible, fast with a fair ratio.
//   - LZ4 (format.CompressionLZ4): raw LZ4 blocks, fastest decompression.
//
// Projection data is mostly smooth 16-bit or 32-bit samples; Zstd typically
// halves it while S2 and LZ4 trade ratio for speed.
//
// # Thread Safety
//
// All codecs are stateless values backed by pooled encoders and are safe for
// concurrent use.
package compress
