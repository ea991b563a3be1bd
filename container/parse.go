package container

import (
	"fmt"
	"os"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/rawio"
	"github.com/arloliu/denio/section"
)

// Parse reads the header of the container at path.
//
// With strict set, any inconsistency between header and file is reported as
// errs.ErrInvalidContainer. Otherwise the best-effort Info is returned with
// Valid false. An Extended header declaring more than 16 dimensions is
// errs.ErrInvalidGeometry in both modes, and I/O failures are always errors.
func Parse(path string, strict bool) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrIO, path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %w", errs.ErrIO, path, err)
	}

	info := &Info{Path: path, FileSize: st.Size(), ElementType: format.TypeUnknown}
	if info.FileSize < section.LegacyHeaderSize {
		return reject(info, strict, "file of %d bytes is shorter than any header", info.FileSize)
	}

	prefixLen := int64(section.LegacyHeaderSize)
	if info.FileSize >= section.ExtendedHeaderSize {
		prefixLen = section.ExtendedHeaderSize
	}
	prefix := make([]byte, prefixLen)
	if err := rawio.ReadAt(f, 0, prefix); err != nil {
		return nil, err
	}

	if section.IsExtended(prefix, info.FileSize) {
		return parseExtended(info, prefix, strict)
	}

	return parseLegacy(info, prefix, strict)
}

func parseExtended(info *Info, data []byte, strict bool) (*Info, error) {
	var h section.ExtendedHeader
	if err := h.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", info.Path, err)
	}

	info.Kind = format.HeaderExtended
	info.HeaderSize = section.ExtendedHeaderSize
	info.ElementType = h.ElementType()
	info.ElementSize = int(h.ElementSize)
	info.Order = h.StorageOrder()
	info.Dims = h.Dims
	if !info.derive() {
		return reject(info, strict, "dimensions %v exceed the addressable element count", info.Dims)
	}

	switch {
	case info.ElementType == format.TypeUnknown:
		return reject(info, strict, "unknown element type id %d", h.TypeID)
	case info.ElementSize != info.ElementType.ByteSize():
		return reject(info, strict, "element size %d does not match %s", info.ElementSize, info.ElementType)
	case !info.Order.Valid():
		return reject(info, strict, "storage order flag %d", h.Order)
	}

	return checkSize(info, strict)
}

func parseLegacy(info *Info, data []byte, strict bool) (*Info, error) {
	var h section.LegacyHeader
	if err := h.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", info.Path, err)
	}

	info.Kind = format.HeaderLegacy
	info.HeaderSize = section.LegacyHeaderSize
	info.Order = format.XMajor
	info.Dims = h.Dims()
	info.derive()

	dataSize := uint64(info.FileSize - info.HeaderSize)
	count := h.ElementCount()
	if count == 0 {
		return reject(info, strict, "legacy header %dx%dx%d has no elements", h.Cols, h.Rows, h.Slices)
	}
	if dataSize%count != 0 {
		return reject(info, strict, "%d data bytes are not a multiple of %d elements", dataSize, count)
	}

	ratio := dataSize / count
	info.ElementSize = int(ratio)
	et, ok := format.LegacyElementType(ratio)
	if !ok {
		return reject(info, strict, "inferred element size %d is not 2, 4 or 8", ratio)
	}
	info.ElementType = et

	return checkSize(info, strict)
}

func checkSize(info *Info, strict bool) (*Info, error) {
	if !fits(info.ElementCount, info.ElementSize) {
		return reject(info, strict, "%d elements of %d bytes exceed the addressable data size", info.ElementCount, info.ElementSize)
	}
	if info.FileSize-info.HeaderSize != info.DataSize() {
		return reject(info, strict, "file holds %d data bytes, header describes %d",
			info.FileSize-info.HeaderSize, info.DataSize())
	}
	info.Valid = true

	return info, nil
}

func reject(info *Info, strict bool, msg string, args ...any) (*Info, error) {
	info.Valid = false
	if strict {
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrInvalidContainer, info.Path, fmt.Sprintf(msg, args...))
	}

	return info, nil
}
