package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/section"
	"github.com/arloliu/denio/volume"
	"github.com/stretchr/testify/require"
)

func writeExtended(t *testing.T, path string, order format.StorageOrder) {
	t.Helper()

	w, err := volume.CreateBufferedWriter[float32](path, []uint32{16, 12, 3, 2}, volume.WithStorageOrder(order))
	require.NoError(t, err)
	for k := range 6 {
		f := frame.NewBuffered[float32](16, 12)
		for y := range 12 {
			for x := range 16 {
				f.Set(x, y, float32(k)+float32(x*y)/7)
			}
		}
		require.NoError(t, w.WriteFrame(f, k))
	}
	require.NoError(t, w.Close())
}

func writeLegacy(t *testing.T, path string) {
	t.Helper()

	_, err := container.CreateLegacy(path, format.TypeUint16, 5, 4, 3)
	require.NoError(t, err)

	w, err := volume.OpenWriter[uint16](path)
	require.NoError(t, err)
	for k := range 3 {
		require.NoError(t, w.WriteFrame(frame.Filled[uint16](5, 4, uint16(1000*k+7)), k))
	}
	require.NoError(t, w.Close())
}

func requireSameData(t *testing.T, a, b string) {
	t.Helper()

	ia, err := container.Parse(a, true)
	require.NoError(t, err)
	ib, err := container.Parse(b, true)
	require.NoError(t, err)
	require.Equal(t, ia.Kind, ib.Kind)
	require.True(t, ia.Geometry().Equal(ib.Geometry()))

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, da[ia.HeaderSize:], db[ib.HeaderSize:])
}

func TestPackUnpack(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	}

	for _, ct := range compressions {
		for _, order := range []format.StorageOrder{format.XMajor, format.YMajor} {
			t.Run(ct.String()+"/"+order.String(), func(t *testing.T) {
				dir := t.TempDir()
				src := filepath.Join(dir, "src.den")
				dst := filepath.Join(dir, "dst.den")
				writeExtended(t, src, order)

				var buf bytes.Buffer
				stats, err := Pack(src, &buf, WithCompression(ct), WithThreads(3))
				require.NoError(t, err)
				require.Equal(t, ct, stats.Algorithm)
				require.Equal(t, int64(6*16*12*4), stats.OriginalSize)
				if ct != format.CompressionNone {
					require.Less(t, stats.CompressedSize, stats.OriginalSize)
				}

				info, err := Unpack(&buf, dst, false)
				require.NoError(t, err)
				require.Equal(t, order, info.Order)
				requireSameData(t, src, dst)
				require.Zero(t, buf.Len(), "archive not fully consumed")
			})
		}
	}
}

func TestPackUnpack_Legacy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "legacy.den")
	dst := filepath.Join(dir, "copy.den")
	writeLegacy(t, src)

	var buf bytes.Buffer
	_, err := Pack(src, &buf, WithCompression(format.CompressionS2), WithThreads(1))
	require.NoError(t, err)

	info, err := Unpack(&buf, dst, false)
	require.NoError(t, err)
	require.Equal(t, format.HeaderLegacy, info.Kind)
	requireSameData(t, src, dst)
}

func TestUnpack_Target(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.den")
	writeExtended(t, src, format.XMajor)

	var archive bytes.Buffer
	_, err := Pack(src, &archive, WithCompression(format.CompressionZstd))
	require.NoError(t, err)
	packed := archive.Bytes()

	t.Run("compatible target is reused", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "dst.den")
		_, err := container.Create(dst, container.Geometry{ElementType: format.TypeFloat32, Dims: []uint32{16, 12, 3, 2}})
		require.NoError(t, err)

		_, err = Unpack(bytes.NewReader(packed), dst, false)
		require.NoError(t, err)
		requireSameData(t, src, dst)
	})

	t.Run("incompatible target needs overwrite", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "dst.den")
		require.NoError(t, os.WriteFile(dst, []byte("not a container"), 0o644))

		_, err := Unpack(bytes.NewReader(packed), dst, false)
		require.ErrorIs(t, err, errs.ErrFileExists)

		_, err = Unpack(bytes.NewReader(packed), dst, true)
		require.NoError(t, err)
		requireSameData(t, src, dst)
	})
}

func TestUnpack_Corrupt(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.den")
	writeExtended(t, src, format.XMajor)

	var archive bytes.Buffer
	_, err := Pack(src, &archive, WithCompression(format.CompressionNone))
	require.NoError(t, err)
	packed := archive.Bytes()

	mutate := func(fn func(b []byte) []byte) []byte {
		return fn(bytes.Clone(packed))
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), errs.ErrInvalidArchive},
		{"bad version", mutate(func(b []byte) []byte { b[4] = 9; return b }), errs.ErrInvalidArchive},
		{"bad compression", mutate(func(b []byte) []byte { b[6] = 0x7F; return b }), errs.ErrInvalidArchive},
		{"bad kind", mutate(func(b []byte) []byte { b[7] = 0; return b }), errs.ErrInvalidArchive},
		{"frame count mismatch", mutate(func(b []byte) []byte { b[8]++; return b }), errs.ErrInvalidArchive},
		{"overflowing extents", mutate(func(b []byte) []byte {
			for i := range 4 {
				b[16+section.DimsOffset+4*i+3] = 0xFF
			}
			return b
		}), errs.ErrInvalidArchive},
		{"truncated prelude", packed[:100], errs.ErrInvalidArchive},
		{"truncated record", packed[:len(packed)-5], errs.ErrInvalidArchive},
		{"oversized record", mutate(func(b []byte) []byte { b[preludeSize+3] = 0x7F; return b }), errs.ErrInvalidArchive},
		{"flipped payload byte", mutate(func(b []byte) []byte { b[preludeSize+recordHead+10] ^= 0x40; return b }), errs.ErrChecksumMismatch},
		{"flipped checksum", mutate(func(b []byte) []byte { b[preludeSize+4] ^= 0x01; return b }), errs.ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "dst.den")
			_, err := Unpack(bytes.NewReader(tt.data), dst, true)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPack_Errors(t *testing.T) {
	_, err := Pack(filepath.Join(t.TempDir(), "missing.den"), &bytes.Buffer{})
	require.Error(t, err)

	src := filepath.Join(t.TempDir(), "src.den")
	writeExtended(t, src, format.XMajor)
	_, err = Pack(src, &bytes.Buffer{}, WithCompression(format.CompressionType(0x7F)))
	require.ErrorIs(t, err, errs.ErrUnsupportedAlgorithm)

	_, err = Pack(src, &failingWriter{limit: preludeSize + 1000}, WithCompression(format.CompressionNone))
	require.ErrorIs(t, err, errs.ErrIO)
	require.ErrorIs(t, err, os.ErrClosed)
}

// failingWriter accepts limit bytes and fails every write after that.
type failingWriter struct {
	limit   int
	written int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		return 0, os.ErrClosed
	}
	w.written += len(p)

	return len(p), nil
}
