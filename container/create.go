package container

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
	"github.com/arloliu/denio/section"
)

// Create creates or truncates path as an Extended container with geometry g.
//
// The data region is sized but not written, so it reads as zeros.
func Create(path string, g Geometry) (*Info, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	h, err := section.NewExtendedHeader(g.ElementType, g.Dims, g.Order)
	if err != nil {
		return nil, err
	}

	info := Describe(path, g)
	if err := rawio.CreateSized(path, info.FileSize, true); err != nil {
		return nil, err
	}
	if err := rawio.WriteExact(path, 0, h.Bytes()); err != nil {
		return nil, err
	}

	return info, nil
}

// Describe returns the Info an Extended container with geometry g would have, without touching the file system.
//
// g is not validated.
func Describe(path string, g Geometry) *Info {
	info := &Info{
		Path:        path,
		Kind:        format.HeaderExtended,
		HeaderSize:  section.ExtendedHeaderSize,
		ElementType: g.ElementType,
		ElementSize: g.ElementType.ByteSize(),
		Dims:        append([]uint32(nil), g.Dims...),
		Order:       g.Order,
	}
	info.Valid = info.derive()
	info.FileSize = info.HeaderSize + info.DataSize()

	return info
}

// CreateLegacy creates or truncates path as a Legacy container of dimX × dimY × dimZ elements.
//
// Only uint16, float32 and float64 can be represented, and every extent must
// fit in 16 bits.
func CreateLegacy(path string, et format.ElementType, dimX, dimY, dimZ uint32) (*Info, error) {
	if legacy, ok := format.LegacyElementType(uint64(et.ByteSize())); !ok || legacy != et {
		return nil, fmt.Errorf("%w: legacy containers cannot store %s", errs.ErrUnsupportedType, et)
	}
	for _, d := range []uint32{dimX, dimY, dimZ} {
		if d == 0 || d > math.MaxUint16 {
			return nil, fmt.Errorf("%w: legacy extent %d outside [1,%d]", errs.ErrInvalidGeometry, d, math.MaxUint16)
		}
	}

	h := section.NewLegacyHeader(uint16(dimX), uint16(dimY), uint16(dimZ))
	info := &Info{
		Path:        path,
		Kind:        format.HeaderLegacy,
		HeaderSize:  section.LegacyHeaderSize,
		ElementType: et,
		ElementSize: et.ByteSize(),
		Dims:        h.Dims(),
		Order:       format.XMajor,
	}
	info.derive()
	info.FileSize = info.HeaderSize + info.DataSize()

	if err := rawio.CreateSized(path, info.FileSize, true); err != nil {
		return nil, err
	}
	if err := rawio.WriteExact(path, 0, h.Bytes()); err != nil {
		return nil, err
	}
	info.Valid = true

	return info, nil
}

// Compatible reports whether an existing container can be reused for geometry g.
//
// The container must be valid and match g in dimension count, element type,
// storage order and every extent.
func Compatible(info *Info, g Geometry) bool {
	if info == nil || !info.Valid {
		return false
	}

	return info.Geometry().Equal(g)
}

// OpenOrCreate returns the container at path when it is compatible with g, and recreates it otherwise.
//
// The returned flag reports whether the existing file was reused.
func OpenOrCreate(path string, g Geometry, logger *logging.Logger) (*Info, bool, error) {
	return Prepare(path, g, true, logger)
}

// Prepare is OpenOrCreate with explicit overwrite permission.
//
// An existing incompatible file is recreated only when overwrite is true;
// otherwise errs.ErrFileExists is returned and the file is left untouched.
func Prepare(path string, g Geometry, overwrite bool, logger *logging.Logger) (*Info, bool, error) {
	if err := g.Validate(); err != nil {
		return nil, false, err
	}
	logger = logging.OrNoop(logger)

	if rawio.Exists(path) {
		info, err := Parse(path, false)
		switch {
		case err == nil && Compatible(info, g):
			logger.Debug("reusing compatible container", "file", path, "geometry", g.String())
			return info, true, nil
		case err != nil && !errors.Is(err, errs.ErrInvalidGeometry) && !errors.Is(err, errs.ErrInvalidContainer):
			return nil, false, err
		case !overwrite:
			return nil, false, fmt.Errorf("%w: %s is not a container of %s", errs.ErrFileExists, path, g)
		}

		logger.Warn("recreating incompatible container", "file", path, "geometry", g.String())
	}

	info, err := Create(path, g)
	if err != nil {
		return nil, false, err
	}

	return info, false, nil
}
