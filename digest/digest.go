// Package digest computes checksums of container data.
//
// Only the data region is hashed, so two containers with equal geometry and
// equal elements produce equal digests regardless of how they were written.
package digest

import (
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"strings"

	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/internal/pool"
	"github.com/arloliu/denio/rawio"
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// Algorithm is a supported hash algorithm.
type Algorithm int

const (
	// XXHash64 is the default: fast, non-cryptographic, 64-bit.
	XXHash64 Algorithm = iota
	// Murmur3 is the 128-bit x64 variant of MurmurHash3.
	Murmur3
	// BLAKE3 is a cryptographic 256-bit hash.
	BLAKE3
)

func (a Algorithm) String() string {
	switch a {
	case XXHash64:
		return "xxhash64"
	case Murmur3:
		return "murmur3"
	case BLAKE3:
		return "blake3"
	default:
		return "undefined"
	}
}

// ParseAlgorithm maps a name as printed by String to the Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range []Algorithm{XXHash64, Murmur3, BLAKE3} {
		if strings.EqualFold(a.String(), name) {
			return a, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedAlgorithm, name)
}

func newHasher(a Algorithm) (hash.Hash, error) {
	switch a {
	case XXHash64:
		return xxhash.New(), nil
	case Murmur3:
		return murmur3.New128(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedAlgorithm, a)
	}
}

// Sum is the digest of a container.
type Sum struct {
	Algorithm Algorithm
	Hex       string
	Size      int64 // hashed bytes
}

func (s Sum) String() string {
	return s.Algorithm.String() + ":" + s.Hex
}

// Bytes hashes data with a.
func Bytes(data []byte, a Algorithm) (Sum, error) {
	h, err := newHasher(a)
	if err != nil {
		return Sum{}, err
	}
	_, _ = h.Write(data)

	return Sum{Algorithm: a, Hex: hex.EncodeToString(h.Sum(nil)), Size: int64(len(data))}, nil
}

// Container hashes the data region of the container at path, frame by frame.
func Container(path string, a Algorithm, opts ...Option) (Sum, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return Sum{}, err
	}
	logger := cfg.Logger.WithFile(path)

	h, err := newHasher(a)
	if err != nil {
		return Sum{}, err
	}

	info, err := container.Parse(path, true)
	if err != nil {
		return Sum{}, err
	}

	handle, err := rawio.OpenHandle(path, false)
	if err != nil {
		return Sum{}, err
	}
	defer handle.Close()
	if err := handle.AdviseSequential(); err != nil {
		logger.Debug("sequential advice failed", "error", err)
	}

	buf := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(buf)
	frame := buf.Resize(int(info.FrameByteSize()))

	for k := range int(info.FrameCount) {
		if err := handle.ReadExact(info.FrameOffset(k), frame); err != nil {
			return Sum{}, fmt.Errorf("frame %d of %s: %w", k, path, err)
		}
		_, _ = h.Write(frame)
	}

	sum := Sum{Algorithm: a, Hex: hex.EncodeToString(h.Sum(nil)), Size: info.DataSize()}
	logger.Debug("container digested", "algorithm", a.String(), "frames", info.FrameCount, "bytes", sum.Size)

	return sum, nil
}

// FrameSums returns the xxhash64 of every frame of the container at path,
// hashing up to threads frames in parallel.
func FrameSums(path string, threads int) ([]uint64, error) {
	info, err := container.Parse(path, true)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrIO, path, err)
	}
	defer f.Close()

	sums := make([]uint64, info.FrameCount)
	frameBytes := int(info.FrameByteSize())

	var g errgroup.Group
	g.SetLimit(max(threads, 1))
	for k := range sums {
		g.Go(func() error {
			buf := pool.GetFrameBuffer()
			defer pool.PutFrameBuffer(buf)

			raw := buf.Resize(frameBytes)
			if err := rawio.ReadAt(f, info.FrameOffset(k), raw); err != nil {
				return fmt.Errorf("frame %d of %s: %w", k, path, err)
			}
			sums[k] = xxhash.Sum64(raw)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sums, nil
}
