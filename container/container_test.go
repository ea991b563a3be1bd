package container

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
	"github.com/arloliu/denio/section"
	"github.com/stretchr/testify/require"
)

func TestCreate_HeaderSizeInvariant(t *testing.T) {
	dir := t.TempDir()

	geometries := []Geometry{
		{ElementType: format.TypeUint8, Dims: []uint32{5}, Order: format.XMajor},
		{ElementType: format.TypeUint16, Dims: []uint32{4, 3}, Order: format.YMajor},
		{ElementType: format.TypeFloat32, Dims: []uint32{7, 5, 3}, Order: format.XMajor},
		{ElementType: format.TypeInt64, Dims: []uint32{2, 2, 2, 3}, Order: format.YMajor},
		{ElementType: format.TypeFloat64, Dims: []uint32{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2}, Order: format.XMajor},
	}

	for i, g := range geometries {
		t.Run(g.String(), func(t *testing.T) {
			path := filepath.Join(dir, filepath.Base(t.Name())+".den")
			created, err := Create(path, g)
			require.NoError(t, err, "geometry %d", i)

			info, err := Parse(path, true)
			require.NoError(t, err)
			require.True(t, info.Valid)
			require.Equal(t, format.HeaderExtended, info.Kind)
			require.Equal(t, int64(section.ExtendedHeaderSize), info.HeaderSize)
			require.Equal(t, g.ElementType, info.ElementType)
			require.Equal(t, g.Order, info.Order)
			require.Equal(t, g.Dims, info.Dims)
			require.Equal(t, len(g.Dims), info.DimCount)
			require.Equal(t, g.FrameSize(), info.FrameSize)
			require.Equal(t, g.FrameCount(), info.FrameCount)

			size, err := rawio.Size(path)
			require.NoError(t, err)
			require.Equal(t, info.HeaderSize+int64(info.FrameSize*info.FrameCount)*int64(info.ElementSize), size)
			require.Equal(t, created.FileSize, size)
			require.Equal(t, created.Dims, info.Dims)
		})
	}
}

func TestCreate_InvalidGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.den")

	_, err := Create(path, Geometry{ElementType: format.TypeUint16, Dims: nil})
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)

	_, err = Create(path, Geometry{ElementType: format.TypeUint16, Dims: make([]uint32, 17)})
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)

	_, err = Create(path, Geometry{ElementType: format.TypeUint16, Dims: []uint32{4, 0, 2}})
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)

	_, err = Create(path, Geometry{ElementType: format.ElementType(77), Dims: []uint32{4}})
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, err = Create(path, Geometry{ElementType: format.TypeUint16, Dims: []uint32{65536, 65536, 65536, 65536}})
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)

	_, err = Create(path, Geometry{ElementType: format.TypeFloat32, Dims: []uint32{1, 1, 1 << 31, 1 << 31}})
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)

	require.False(t, rawio.Exists(path), "no file is created for a rejected geometry")
}

func TestParse_OverflowingExtents(t *testing.T) {
	tests := []struct {
		name string
		et   format.ElementType
		dims []uint32
	}{
		{"element count wraps to zero", format.TypeUint16, []uint32{65536, 65536, 65536, 65536}},
		{"frame count wraps", format.TypeUint8, []uint32{2, 2, 1 << 31, 1 << 31, 1 << 31}},
		{"byte size beyond int64", format.TypeFloat32, []uint32{1, 1, 1 << 31, 1 << 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := section.NewExtendedHeader(tt.et, tt.dims, format.XMajor)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "crafted.den")
			require.NoError(t, os.WriteFile(path, h.Bytes(), 0o644))

			_, err = Parse(path, true)
			require.ErrorIs(t, err, errs.ErrInvalidContainer)

			info, err := Parse(path, false)
			require.NoError(t, err)
			require.False(t, info.Valid)
			require.Equal(t, tt.dims, info.Dims)
			require.Equal(t, uint64(0), info.ElementCount)
			require.Equal(t, int64(0), info.DataSize())
		})
	}
}

func TestDescribe_Overflow(t *testing.T) {
	info := Describe("", Geometry{ElementType: format.TypeUint16, Dims: []uint32{65536, 65536, 65536, 65536}})
	require.False(t, info.Valid)
	require.Equal(t, uint64(0), info.ElementCount)

	info = Describe("", Volume(format.TypeUint16, 4, 3, 2, format.XMajor))
	require.True(t, info.Valid)
	require.Equal(t, uint64(24), info.ElementCount)
}

func TestInfo_Accessors(t *testing.T) {
	info, err := Create(filepath.Join(t.TempDir(), "acc.den"), Volume(format.TypeInt16, 6, 4, 3, format.XMajor))
	require.NoError(t, err)

	require.Equal(t, 6, info.DimX())
	require.Equal(t, 4, info.DimY())
	require.Equal(t, uint32(3), info.Dim(2))
	require.Equal(t, uint32(0), info.Dim(3))
	require.Equal(t, int64(48), info.FrameByteSize())
	require.Equal(t, int64(4096+2*48), info.FrameOffset(2))
	require.Contains(t, info.String(), "Extended")

	line, err := Create(filepath.Join(t.TempDir(), "line.den"), Geometry{ElementType: format.TypeUint8, Dims: []uint32{9}})
	require.NoError(t, err)
	require.Equal(t, 9, line.DimX())
	require.Equal(t, 1, line.DimY())
	require.Equal(t, uint64(1), line.FrameCount)
}

func writeLegacy(t *testing.T, rows, cols, slices uint16, dataLen int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "legacy.den")
	h := section.LegacyHeader{Rows: rows, Cols: cols, Slices: slices}
	require.NoError(t, os.WriteFile(path, append(h.Bytes(), make([]byte, dataLen)...), 0o644))

	return path
}

func TestParse_Legacy(t *testing.T) {
	tests := []struct {
		elemSize int
		want     format.ElementType
	}{
		{2, format.TypeUint16},
		{4, format.TypeFloat32},
		{8, format.TypeFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			path := writeLegacy(t, 3, 5, 2, 3*5*2*tt.elemSize)

			info, err := Parse(path, true)
			require.NoError(t, err)
			require.True(t, info.Valid)
			require.Equal(t, format.HeaderLegacy, info.Kind)
			require.Equal(t, int64(section.LegacyHeaderSize), info.HeaderSize)
			require.Equal(t, tt.want, info.ElementType)
			require.Equal(t, tt.elemSize, info.ElementSize)
			require.Equal(t, []uint32{5, 3, 2}, info.Dims)
			require.Equal(t, format.XMajor, info.Order)
			require.Equal(t, uint64(15), info.FrameSize)
			require.Equal(t, uint64(2), info.FrameCount)
		})
	}
}

func TestParse_InvalidLegacy(t *testing.T) {
	// 1×1×1 with 3 data bytes: not divisible by 2, 4 or 8.
	for _, n := range []int{1, 3, 5, 7, 9, 6, 12} {
		path := writeLegacy(t, 1, 1, 1, n)

		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer, "data length %d", n)

		info, err := Parse(path, false)
		require.NoError(t, err)
		require.False(t, info.Valid)
		require.Equal(t, format.TypeUnknown, info.ElementType)
	}

	t.Run("zero elements", func(t *testing.T) {
		path := writeLegacy(t, 0, 4, 4, 32)

		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)
	})

	t.Run("shorter than header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tiny.den")
		require.NoError(t, os.WriteFile(path, []byte{1, 0, 1}, 0o644))

		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)

		info, err := Parse(path, false)
		require.NoError(t, err)
		require.False(t, info.Valid)
	})
}

func TestParse_Extended(t *testing.T) {
	header := func(t *testing.T, mutate func(b []byte), dataLen int) string {
		t.Helper()

		h, err := section.NewExtendedHeader(format.TypeUint32, []uint32{2, 3, 4}, format.YMajor)
		require.NoError(t, err)
		b := h.Bytes()
		if mutate != nil {
			mutate(b)
		}

		path := filepath.Join(t.TempDir(), "ext.den")
		require.NoError(t, os.WriteFile(path, append(b, make([]byte, dataLen)...), 0o644))

		return path
	}

	t.Run("valid", func(t *testing.T) {
		info, err := Parse(header(t, nil, 2*3*4*4), true)
		require.NoError(t, err)
		require.True(t, info.Valid)
		require.Equal(t, format.YMajor, info.Order)
		require.Equal(t, uint64(6), info.FrameSize)
		require.Equal(t, uint64(4), info.FrameCount)
	})

	t.Run("size mismatch", func(t *testing.T) {
		path := header(t, nil, 2*3*4*4-1)

		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)

		info, err := Parse(path, false)
		require.NoError(t, err)
		require.False(t, info.Valid)
		require.Equal(t, format.TypeUint32, info.ElementType)
		require.Equal(t, []uint32{2, 3, 4}, info.Dims)
	})

	t.Run("unknown type id", func(t *testing.T) {
		path := header(t, func(b []byte) { b[section.TypeIDOffset] = 12 }, 96)
		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)
	})

	t.Run("element size not canonical", func(t *testing.T) {
		path := header(t, func(b []byte) { b[section.ElementSizeOffset] = 8 }, 192)
		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)
	})

	t.Run("order flag", func(t *testing.T) {
		path := header(t, func(b []byte) { b[section.OrderOffset] = 2 }, 96)
		_, err := Parse(path, true)
		require.ErrorIs(t, err, errs.ErrInvalidContainer)
	})

	t.Run("too many dimensions", func(t *testing.T) {
		path := header(t, func(b []byte) { b[section.DimCountOffset] = 17 }, 96)

		_, err := Parse(path, false)
		require.ErrorIs(t, err, errs.ErrInvalidGeometry)
	})

	t.Run("zero dimensions", func(t *testing.T) {
		path := header(t, func(b []byte) { b[section.DimCountOffset] = 0 }, 0)

		info, err := Parse(path, true)
		require.NoError(t, err)
		require.Equal(t, 0, info.DimCount)
		require.Equal(t, uint64(0), info.FrameSize)
		require.Equal(t, uint64(0), info.FrameCount)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Parse(filepath.Join(t.TempDir(), "none.den"), false)
		require.ErrorIs(t, err, errs.ErrIO)
	})
}

func TestCreateLegacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.den")

	created, err := CreateLegacy(path, format.TypeFloat32, 7, 3, 2)
	require.NoError(t, err)
	require.Equal(t, int64(6+7*3*2*4), created.FileSize)

	info, err := Parse(path, true)
	require.NoError(t, err)
	require.Equal(t, format.HeaderLegacy, info.Kind)
	require.Equal(t, format.TypeFloat32, info.ElementType)
	require.Equal(t, []uint32{7, 3, 2}, info.Dims)

	_, err = CreateLegacy(path, format.TypeInt32, 1, 1, 1)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	_, err = CreateLegacy(path, format.TypeUint16, 70000, 1, 1)
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)
}

func TestCompatible(t *testing.T) {
	g := Volume(format.TypeFloat32, 4, 3, 2, format.XMajor)
	info, err := Create(filepath.Join(t.TempDir(), "c.den"), g)
	require.NoError(t, err)

	require.True(t, Compatible(info, g))
	require.False(t, Compatible(info, Volume(format.TypeFloat64, 4, 3, 2, format.XMajor)))
	require.False(t, Compatible(info, Volume(format.TypeFloat32, 4, 3, 2, format.YMajor)))
	require.False(t, Compatible(info, Volume(format.TypeFloat32, 4, 3, 3, format.XMajor)))
	require.False(t, Compatible(info, Geometry{ElementType: format.TypeFloat32, Dims: []uint32{4, 3}}))
	require.False(t, Compatible(nil, g))

	invalid := *info
	invalid.Valid = false
	require.False(t, Compatible(&invalid, g))
}

func TestOpenOrCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reuse.den")
	g := Volume(format.TypeUint16, 2, 2, 3, format.XMajor)

	var logs bytes.Buffer
	logger := logging.NewText(&logs, slog.LevelDebug)

	info, reused, err := OpenOrCreate(path, g, logger)
	require.NoError(t, err)
	require.False(t, reused)

	// Mark frame 1 so reuse can be observed.
	require.NoError(t, rawio.WriteExact(path, info.FrameOffset(1), []byte{0xCD, 0xAB}))

	_, reused, err = OpenOrCreate(path, g, logger)
	require.NoError(t, err)
	require.True(t, reused)
	require.Contains(t, logs.String(), "reusing compatible container")

	data, err := rawio.ReadExact(path, info.FrameOffset(1), 2)
	require.NoError(t, err)
	require.Equal(t, []byte{0xCD, 0xAB}, data)

	t.Run("incompatible without overwrite", func(t *testing.T) {
		_, _, err := Prepare(path, Volume(format.TypeUint16, 2, 2, 4, format.XMajor), false, nil)
		require.ErrorIs(t, err, errs.ErrFileExists)

		still, err := Parse(path, true)
		require.NoError(t, err)
		require.Equal(t, []uint32{2, 2, 3}, still.Dims)
	})

	t.Run("incompatible recreates", func(t *testing.T) {
		other := Volume(format.TypeUint16, 2, 2, 4, format.XMajor)
		recreated, reused, err := OpenOrCreate(path, other, logger)
		require.NoError(t, err)
		require.False(t, reused)
		require.Equal(t, []uint32{2, 2, 4}, recreated.Dims)
		require.Contains(t, logs.String(), "recreating incompatible container")

		data, err := rawio.ReadExact(path, recreated.FrameOffset(1), 2)
		require.NoError(t, err)
		require.Equal(t, []byte{0, 0}, data)
	})

	t.Run("garbage file", func(t *testing.T) {
		junk := filepath.Join(t.TempDir(), "junk.den")
		require.NoError(t, os.WriteFile(junk, []byte("not a container at all"), 0o644))

		_, _, err := Prepare(junk, g, false, nil)
		require.ErrorIs(t, err, errs.ErrFileExists)

		info, reused, err := OpenOrCreate(junk, g, nil)
		require.NoError(t, err)
		require.False(t, reused)
		require.True(t, info.Valid)
	})

	t.Run("invalid geometry", func(t *testing.T) {
		_, _, err := OpenOrCreate(path, Geometry{ElementType: format.TypeUint16}, nil)
		require.ErrorIs(t, err, errs.ErrInvalidGeometry)
	})
}
