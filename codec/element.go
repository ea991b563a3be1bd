// Package codec converts container elements between their wire form and Go values.
//
// The wire form is always little-endian (see endian.Wire). Two levels are
// provided:
//
//   - Scalars: Get/Put for a Go element type, and width-addressed
//     Uint/PutUint/Float/PutFloat used by header parsing.
//   - Frames: Decode/Encode convert a whole raw frame, optionally changing the
//     element type and transposing between storage orders.
//
// Frame conversion takes a fast path when the stored type equals the Go type,
// the storage orders match and the host is little-endian: the raw bytes are
// copied in one call. Every other combination goes element by element.
//
// Floating point values round-trip bit-exactly, NaN payloads included, when
// the stored type equals the requested type.
package codec

import (
	"unsafe"

	"github.com/arloliu/denio/format"
)

// Element is the set of Go types that can be stored in a container.
type Element interface {
	uint8 | uint16 | int16 | uint32 | int32 | uint64 | int64 | float32 | float64
}

// TypeOf returns the container element type matching T.
func TypeOf[T Element]() format.ElementType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return format.TypeUint8
	case uint16:
		return format.TypeUint16
	case int16:
		return format.TypeInt16
	case uint32:
		return format.TypeUint32
	case int32:
		return format.TypeInt32
	case uint64:
		return format.TypeUint64
	case int64:
		return format.TypeInt64
	case float32:
		return format.TypeFloat32
	case float64:
		return format.TypeFloat64
	}

	return format.TypeUnknown
}

// SizeOf returns the byte size of T.
func SizeOf[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// AsBytes reinterprets a typed slice as its backing bytes without copying.
//
// The returned slice aliases s and has host byte order.
func AsBytes[T Element](s []T) []byte {
	if len(s) == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*SizeOf[T]())
}
