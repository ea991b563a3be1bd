// Package section defines the bit-exact binary headers of denio containers.
//
// A container is a header followed by frames of fixed size. Two header
// variants exist and both are stored little-endian.
//
// # Legacy Header (6 bytes)
//
//	offset  size  field
//	0       2     rows    (dims[1])
//	2       2     cols    (dims[0])
//	4       2     slices  (dims[2])
//
// Legacy containers are always three-dimensional and X-major. They carry no
// element type; it is inferred from (file size - 6) / (rows*cols*slices),
// where 2 means uint16, 4 float32 and 8 float64.
//
// # Extended Header (4096 bytes)
//
//	offset  size  field
//	0       2     magic, always 0
//	2       2     dimension count (1..16)
//	4       2     element byte size
//	6       2     storage order (0 = X-major, 1 = Y-major)
//	8       2     element type id (see format.ElementType)
//	10      4*n   dims[0..n)
//	...           zero padding up to byte 4096
//
// Frame data starts right after the header. Each frame holds
// dims[0]*dims[1]*elementSize bytes and frames follow the flattened index
// over dims[2..].
//
// # Usage
//
// Parsing never touches the file system; callers hand in the header bytes:
//
//	var h section.ExtendedHeader
//	if err := h.Parse(buf); err != nil {
//	    return err
//	}
//
// Validate applies the stricter consistency rules used by strict container
// parsing; Parse only rejects layouts that cannot be decoded at all.
package section
