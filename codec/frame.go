package codec

import (
	"fmt"
	"math"

	"github.com/arloliu/denio/endian"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
)

// Index returns the flat position of (x, y) inside a sizeX × sizeY frame laid out in order.
func Index(order format.StorageOrder, x, y, sizeX, sizeY int) int {
	if order == format.YMajor {
		return y + sizeY*x
	}

	return x + sizeX*y
}

// CanCopy reports whether elements stored as et can be copied into []T without decoding.
func CanCopy[T Element](et format.ElementType) bool {
	return et == TypeOf[T]() && endian.HostIsWire()
}

func reader[T Element](et format.ElementType) (func(src []byte, i int) T, error) {
	switch et {
	case format.TypeUint8:
		return func(b []byte, i int) T { return T(b[i]) }, nil
	case format.TypeUint16:
		return func(b []byte, i int) T { return T(wire.Uint16(b[2*i:])) }, nil
	case format.TypeInt16:
		return func(b []byte, i int) T { return T(int16(wire.Uint16(b[2*i:]))) }, nil
	case format.TypeUint32:
		return func(b []byte, i int) T { return T(wire.Uint32(b[4*i:])) }, nil
	case format.TypeInt32:
		return func(b []byte, i int) T { return T(int32(wire.Uint32(b[4*i:]))) }, nil
	case format.TypeUint64:
		return func(b []byte, i int) T { return T(wire.Uint64(b[8*i:])) }, nil
	case format.TypeInt64:
		return func(b []byte, i int) T { return T(int64(wire.Uint64(b[8*i:]))) }, nil
	case format.TypeFloat32:
		return func(b []byte, i int) T { return T(math.Float32frombits(wire.Uint32(b[4*i:]))) }, nil
	case format.TypeFloat64:
		return func(b []byte, i int) T { return T(math.Float64frombits(wire.Uint64(b[8*i:]))) }, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, et)
	}
}

func writer[T Element](et format.ElementType) (func(dst []byte, i int, v T), error) {
	switch et {
	case format.TypeUint8:
		return func(b []byte, i int, v T) { b[i] = uint8(v) }, nil
	case format.TypeUint16:
		return func(b []byte, i int, v T) { wire.PutUint16(b[2*i:], uint16(v)) }, nil
	case format.TypeInt16:
		return func(b []byte, i int, v T) { wire.PutUint16(b[2*i:], uint16(int16(v))) }, nil
	case format.TypeUint32:
		return func(b []byte, i int, v T) { wire.PutUint32(b[4*i:], uint32(v)) }, nil
	case format.TypeInt32:
		return func(b []byte, i int, v T) { wire.PutUint32(b[4*i:], uint32(int32(v))) }, nil
	case format.TypeUint64:
		return func(b []byte, i int, v T) { wire.PutUint64(b[8*i:], uint64(v)) }, nil
	case format.TypeInt64:
		return func(b []byte, i int, v T) { wire.PutUint64(b[8*i:], uint64(int64(v))) }, nil
	case format.TypeFloat32:
		return func(b []byte, i int, v T) { wire.PutUint32(b[4*i:], math.Float32bits(float32(v))) }, nil
	case format.TypeFloat64:
		return func(b []byte, i int, v T) { wire.PutUint64(b[8*i:], math.Float64bits(float64(v))) }, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedType, et)
	}
}

func checkLen(elements, rawLen int, et format.ElementType) error {
	size := et.ByteSize()
	if size == 0 {
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedType, et)
	}
	if rawLen < elements*size {
		return fmt.Errorf("%w: %d bytes hold fewer than %d %s elements", errs.ErrFrameSizeMismatch, rawLen, elements, et)
	}

	return nil
}

// Decode converts the first len(dst) elements of type et stored in src into dst.
func Decode[T Element](dst []T, src []byte, et format.ElementType) error {
	if err := checkLen(len(dst), len(src), et); err != nil {
		return err
	}

	if CanCopy[T](et) {
		copy(AsBytes(dst), src)
		return nil
	}

	get, err := reader[T](et)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = get(src, i)
	}

	return nil
}

// DecodeFrame converts a raw sizeX × sizeY frame stored in srcOrder into dst laid out in dstOrder.
func DecodeFrame[T Element](dst []T, src []byte, et format.ElementType, sizeX, sizeY int, srcOrder, dstOrder format.StorageOrder) error {
	n := sizeX * sizeY
	if len(dst) < n {
		return fmt.Errorf("%w: destination holds %d of %d elements", errs.ErrFrameSizeMismatch, len(dst), n)
	}
	if srcOrder == dstOrder {
		return Decode(dst[:n], src, et)
	}
	if err := checkLen(n, len(src), et); err != nil {
		return err
	}

	get, err := reader[T](et)
	if err != nil {
		return err
	}
	for x := range sizeX {
		for y := range sizeY {
			dst[Index(dstOrder, x, y, sizeX, sizeY)] = get(src, Index(srcOrder, x, y, sizeX, sizeY))
		}
	}

	return nil
}

// Encode converts src into elements of type et written to the start of dst.
func Encode[T Element](dst []byte, src []T, et format.ElementType) error {
	if err := checkLen(len(src), len(dst), et); err != nil {
		return err
	}

	if CanCopy[T](et) {
		copy(dst, AsBytes(src))
		return nil
	}

	put, err := writer[T](et)
	if err != nil {
		return err
	}
	for i, v := range src {
		put(dst, i, v)
	}

	return nil
}

// EncodeFrame converts a sizeX × sizeY frame laid out in srcOrder into raw elements of type et in dstOrder.
func EncodeFrame[T Element](dst []byte, src []T, et format.ElementType, sizeX, sizeY int, srcOrder, dstOrder format.StorageOrder) error {
	n := sizeX * sizeY
	if len(src) < n {
		return fmt.Errorf("%w: source holds %d of %d elements", errs.ErrFrameSizeMismatch, len(src), n)
	}
	if srcOrder == dstOrder {
		return Encode(dst, src[:n], et)
	}
	if err := checkLen(n, len(dst), et); err != nil {
		return err
	}

	put, err := writer[T](et)
	if err != nil {
		return err
	}
	for x := range sizeX {
		for y := range sizeY {
			put(dst, Index(dstOrder, x, y, sizeX, sizeY), src[Index(srcOrder, x, y, sizeX, sizeY)])
		}
	}

	return nil
}

// EncodeFunc encodes a frame whose values are produced by at(x, y) into dst laid out in dstOrder.
//
// It serves frames that are not backed by a flat slice.
func EncodeFunc[T Element](dst []byte, at func(x, y int) T, et format.ElementType, sizeX, sizeY int, dstOrder format.StorageOrder) error {
	if err := checkLen(sizeX*sizeY, len(dst), et); err != nil {
		return err
	}

	put, err := writer[T](et)
	if err != nil {
		return err
	}
	for y := range sizeY {
		for x := range sizeX {
			put(dst, Index(dstOrder, x, y, sizeX, sizeY), at(x, y))
		}
	}

	return nil
}
