package denio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/denio/archive"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/volume"
	"github.com/stretchr/testify/require"
)

func writeSample(t *testing.T, path string) {
	t.Helper()

	w, err := Create[float32](path, 5, 3, 4)
	require.NoError(t, err)
	for k := range 4 {
		require.NoError(t, w.WriteFrame(frame.Filled[float32](5, 3, float32(k)+0.5), k))
	}
	require.NoError(t, w.Close())
}

func TestCreateOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.den")
	writeSample(t, path)

	info, err := Validate(path)
	require.NoError(t, err)
	require.Equal(t, format.HeaderExtended, info.Kind)
	require.Equal(t, format.TypeFloat32, info.ElementType)
	require.Equal(t, []uint32{5, 3, 4}, info.Dims)

	r, err := Open[float64](path)
	require.NoError(t, err)
	defer r.Close()

	f, err := r.ReadFrame(2)
	require.NoError(t, err)
	require.Equal(t, 2.5, f.Get(4, 2))

	_, err = r.ReadFrame(4)
	require.ErrorIs(t, err, errs.ErrFrameOutOfRange)
}

func TestOpenCached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.den")
	writeSample(t, path)

	r, err := OpenCached[float32](path, volume.WithCacheSize(2))
	require.NoError(t, err)
	defer r.Close()

	for k := range 3 {
		_, err := r.ReadFrame(k)
		require.NoError(t, err)
	}
	require.Equal(t, 2, r.CacheLen())
	require.False(t, r.Cached(0))
	require.True(t, r.Cached(2))
}

func TestInspectInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.den")
	require.NoError(t, os.WriteFile(path, []byte{4, 0, 4, 0, 1, 0, 0, 0}, 0o644))

	info, err := Inspect(path)
	require.NoError(t, err)
	require.False(t, info.Valid)
	require.Equal(t, format.HeaderLegacy, info.Kind)

	_, err = Validate(path)
	require.ErrorIs(t, err, errs.ErrInvalidContainer)
}

func TestLoadBuffered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vol.den")

	w, err := CreateBuffered[uint16](path, []uint32{4, 2, 3})
	require.NoError(t, err)
	for _, k := range []int{2, 0, 1} {
		require.NoError(t, w.WriteFrame(frame.Filled[uint16](4, 2, uint16(k+1)), k))
	}
	require.True(t, w.Complete())
	require.NoError(t, w.Close())

	vol, err := Load[uint16](path)
	require.NoError(t, err)
	require.Len(t, vol.Data(), 24)
	require.Equal(t, []uint16{3, 3, 3, 3, 3, 3, 3, 3}, vol.FrameData(2))
}

func TestPackUnpack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vol.den")
	dst := filepath.Join(dir, "copy.den")
	writeSample(t, src)

	var buf bytes.Buffer
	st, err := Pack(src, &buf, archive.WithCompression(format.CompressionLZ4))
	require.NoError(t, err)
	require.Equal(t, int64(5*3*4*4), st.OriginalSize)

	info, err := Unpack(&buf, dst, false)
	require.NoError(t, err)
	require.True(t, info.Valid)

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
