package section

// Header sizes and field offsets, all little-endian.
const (
	LegacyHeaderSize   = 6    // u16 rows, u16 cols, u16 slices
	ExtendedHeaderSize = 4096 // fixed Extended header size, zero padded

	// MaxDims is the largest dimension count an Extended header can describe.
	MaxDims = 16

	ExtendedMagic = 0 // first u16 of every Extended header

	MagicOffset       = 0  // u16 magic
	DimCountOffset    = 2  // u16 dimension count
	ElementSizeOffset = 4  // u16 element byte size
	OrderOffset       = 6  // u16 storage order flag
	TypeIDOffset      = 8  // u16 element type id
	DimsOffset        = 10 // u32 extents, MaxDims slots
	DimSize           = 4  // byte size of one extent
)

// Legacy header field offsets.
const (
	RowsOffset   = 0
	ColsOffset   = 2
	SlicesOffset = 4
)

// IsExtended reports whether a file whose first bytes are prefix and whose total size is fileSize uses the Extended layout.
//
// A file is Extended when its first u16 is zero and it is large enough to
// hold the 4096-byte header.
func IsExtended(prefix []byte, fileSize int64) bool {
	if len(prefix) < 2 || fileSize < ExtendedHeaderSize {
		return false
	}

	return engine.Uint16(prefix[MagicOffset:]) == ExtendedMagic
}
