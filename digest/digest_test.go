package digest

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/arloliu/denio/codec"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/volume"
	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"
)

// writeRamp writes a 4x3x4 uint16 container whose elements count up from start.
func writeRamp(t *testing.T, path string, start uint16, buffered bool) [][]byte {
	t.Helper()

	var sink volume.FrameSink[uint16]
	var closeFn func() error
	if buffered {
		w, err := volume.CreateBufferedWriter3D[uint16](path, 4, 3, 4)
		require.NoError(t, err)
		sink, closeFn = w, w.Close
	} else {
		w, err := volume.CreateWriter3D[uint16](path, 4, 3, 4)
		require.NoError(t, err)
		sink, closeFn = w, w.Close
	}

	raw := make([][]byte, 4)
	for k := range 4 {
		f := frame.NewBuffered[uint16](4, 3)
		for i := range f.Data() {
			f.Data()[i] = start + uint16(k*12+i)
		}
		require.NoError(t, sink.WriteFrame(f, k))

		raw[k] = make([]byte, 24)
		require.NoError(t, codec.Encode(raw[k], f.Data(), format.TypeUint16))
	}
	require.NoError(t, closeFn())

	return raw
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{XXHash64, Murmur3, BLAKE3} {
		got, err := ParseAlgorithm(a.String())
		require.NoError(t, err)
		require.Equal(t, a, got)
	}

	got, err := ParseAlgorithm("BLAKE3")
	require.NoError(t, err)
	require.Equal(t, BLAKE3, got)

	_, err = ParseAlgorithm("md5")
	require.ErrorIs(t, err, errs.ErrUnsupportedAlgorithm)

	_, err = Bytes(nil, Algorithm(42))
	require.ErrorIs(t, err, errs.ErrUnsupportedAlgorithm)
}

func TestContainer(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.den")
	b := filepath.Join(dir, "b.den")
	c := filepath.Join(dir, "c.den")

	raw := writeRamp(t, a, 0, false)
	writeRamp(t, b, 0, true)
	writeRamp(t, c, 1, false)

	var data []byte
	for _, r := range raw {
		data = append(data, r...)
	}

	tests := []struct {
		alg    Algorithm
		hexLen int
	}{
		{XXHash64, 16},
		{Murmur3, 32},
		{BLAKE3, 64},
	}

	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			sa, err := Container(a, tt.alg)
			require.NoError(t, err)
			require.Len(t, sa.Hex, tt.hexLen)
			require.Equal(t, int64(len(data)), sa.Size)

			sb, err := Container(b, tt.alg)
			require.NoError(t, err)
			require.Equal(t, sa, sb)

			sc, err := Container(c, tt.alg)
			require.NoError(t, err)
			require.NotEqual(t, sa.Hex, sc.Hex)

			want, err := Bytes(data, tt.alg)
			require.NoError(t, err)
			require.Equal(t, want, sa)
		})
	}

	_, err := Container(filepath.Join(dir, "missing.den"), XXHash64)
	require.Error(t, err)
}

func TestContainer_Logger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logged.den")
	writeRamp(t, path, 0, false)

	plain, err := Container(path, XXHash64)
	require.NoError(t, err)

	var logs bytes.Buffer
	logged, err := Container(path, XXHash64, WithLogger(logging.NewText(&logs, slog.LevelDebug)))
	require.NoError(t, err)
	require.Equal(t, plain, logged)

	out := logs.String()
	require.Contains(t, out, "container digested")
	require.Contains(t, out, "component=digest")
	require.Contains(t, out, "frames=4")
	require.NotContains(t, out, "sequential advice failed")
}

func TestFrameSums(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.den")
	raw := writeRamp(t, path, 100, true)

	for _, threads := range []int{0, 1, 3} {
		sums, err := FrameSums(path, threads)
		require.NoError(t, err)
		require.Len(t, sums, len(raw))
		for k, r := range raw {
			require.Equal(t, xxhash.Sum64(r), sums[k], "frame %d", k)
		}
	}
}
