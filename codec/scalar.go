package codec

import (
	"fmt"
	"math"

	"github.com/arloliu/denio/endian"
	"github.com/arloliu/denio/errs"
)

var wire = endian.Wire()

// Get decodes one element of type T stored at b[off:].
func Get[T Element](b []byte, off int) T {
	var v T
	switch p := any(&v).(type) {
	case *uint8:
		*p = b[off]
	case *uint16:
		*p = wire.Uint16(b[off:])
	case *int16:
		*p = int16(wire.Uint16(b[off:]))
	case *uint32:
		*p = wire.Uint32(b[off:])
	case *int32:
		*p = int32(wire.Uint32(b[off:]))
	case *uint64:
		*p = wire.Uint64(b[off:])
	case *int64:
		*p = int64(wire.Uint64(b[off:]))
	case *float32:
		*p = math.Float32frombits(wire.Uint32(b[off:]))
	case *float64:
		*p = math.Float64frombits(wire.Uint64(b[off:]))
	}

	return v
}

// Put encodes v of type T into b[off:].
func Put[T Element](v T, b []byte, off int) {
	switch x := any(v).(type) {
	case uint8:
		b[off] = x
	case uint16:
		wire.PutUint16(b[off:], x)
	case int16:
		wire.PutUint16(b[off:], uint16(x))
	case uint32:
		wire.PutUint32(b[off:], x)
	case int32:
		wire.PutUint32(b[off:], uint32(x))
	case uint64:
		wire.PutUint64(b[off:], x)
	case int64:
		wire.PutUint64(b[off:], uint64(x))
	case float32:
		wire.PutUint32(b[off:], math.Float32bits(x))
	case float64:
		wire.PutUint64(b[off:], math.Float64bits(x))
	}
}

// Uint reads an unsigned integer of the given byte width (1, 2, 4 or 8) at b[off:].
func Uint(b []byte, off, width int) (uint64, error) {
	if err := checkAccess(b, off, width, uintWidth, "read"); err != nil {
		return 0, err
	}

	switch width {
	case 1:
		return uint64(b[off]), nil
	case 2:
		return uint64(wire.Uint16(b[off:])), nil
	case 4:
		return uint64(wire.Uint32(b[off:])), nil
	default:
		return wire.Uint64(b[off:]), nil
	}
}

// PutUint writes v as an unsigned integer of the given byte width at b[off:].
//
// Bits above the width are discarded.
func PutUint(b []byte, off, width int, v uint64) error {
	if err := checkAccess(b, off, width, uintWidth, "write"); err != nil {
		return err
	}

	switch width {
	case 1:
		b[off] = byte(v)
	case 2:
		wire.PutUint16(b[off:], uint16(v))
	case 4:
		wire.PutUint32(b[off:], uint32(v))
	default:
		wire.PutUint64(b[off:], v)
	}

	return nil
}

// Float reads an IEEE 754 float of the given byte width (4 or 8) at b[off:].
func Float(b []byte, off, width int) (float64, error) {
	if err := checkAccess(b, off, width, floatWidth, "read"); err != nil {
		return 0, err
	}

	if width == 4 {
		return float64(math.Float32frombits(wire.Uint32(b[off:]))), nil
	}

	return math.Float64frombits(wire.Uint64(b[off:])), nil
}

// PutFloat writes v as an IEEE 754 float of the given byte width at b[off:].
func PutFloat(b []byte, off, width int, v float64) error {
	if err := checkAccess(b, off, width, floatWidth, "write"); err != nil {
		return err
	}

	if width == 4 {
		wire.PutUint32(b[off:], math.Float32bits(float32(v)))
	} else {
		wire.PutUint64(b[off:], math.Float64bits(v))
	}

	return nil
}

type widthKind int

const (
	uintWidth widthKind = iota
	floatWidth
)

// checkAccess validates the width before the bounds of b[off:off+width].
func checkAccess(b []byte, off, width int, kind widthKind, op string) error {
	switch {
	case kind == uintWidth && width != 1 && width != 2 && width != 4 && width != 8:
		return fmt.Errorf("%w: integer width %d", errs.ErrUnsupportedType, width)
	case kind == floatWidth && width != 4 && width != 8:
		return fmt.Errorf("%w: float width %d", errs.ErrUnsupportedType, width)
	case off < 0 || off+width > len(b):
		return fmt.Errorf("%w: %d-byte %s at offset %d of %d-byte buffer", errs.ErrIO, width, op, off, len(b))
	}

	return nil
}
