package archive

import (
	"fmt"
	"io"

	"github.com/arloliu/denio/compress"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/internal/pool"
	"github.com/arloliu/denio/logging"
	"github.com/arloliu/denio/rawio"
	"github.com/cespare/xxhash/v2"
)

// Unpack restores the container stored in the archive r at dst.
//
// An existing compatible container at dst is reused; any other existing file
// is replaced only when overwrite is set, and otherwise fails with
// errs.ErrFileExists. Every frame is verified against its checksum
// (errs.ErrChecksumMismatch); a malformed or truncated stream fails with
// errs.ErrInvalidArchive.
func Unpack(r io.Reader, dst string, overwrite bool, opts ...Option) (*container.Info, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}

	p, err := readPrelude(r)
	if err != nil {
		return nil, err
	}
	c, err := compress.Get(p.compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	g := container.Geometry{ElementType: p.header.ElementType(), Dims: p.header.Dims, Order: p.header.StorageOrder()}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}
	if g.FrameCount() != p.frameCount {
		return nil, fmt.Errorf("%w: %d frames recorded for geometry %s", errs.ErrInvalidArchive, p.frameCount, g)
	}

	info, err := prepareTarget(dst, p.kind, g, overwrite, cfg.Logger)
	if err != nil {
		return nil, err
	}

	handle, err := rawio.OpenHandle(dst, true)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	buf := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(buf)

	frameBytes := int(info.FrameByteSize())
	head := make([]byte, recordHead)
	for k := range int(p.frameCount) {
		if err := readFull(r, head, fmt.Sprintf("record %d", k)); err != nil {
			return nil, err
		}
		n := int(wire.Uint32(head))
		sum := wire.Uint64(head[4:])
		if n > frameBytes {
			return nil, fmt.Errorf("%w: record %d holds %d bytes for %d-byte frames", errs.ErrInvalidArchive, k, n, frameBytes)
		}

		raw := buf.Resize(n)
		if err := readFull(r, raw, fmt.Sprintf("record %d", k)); err != nil {
			return nil, err
		}
		if n != frameBytes {
			if raw, err = c.Decompress(raw, frameBytes); err != nil {
				return nil, fmt.Errorf("frame %d: %w", k, err)
			}
		}
		if got := xxhash.Sum64(raw); got != sum {
			return nil, fmt.Errorf("%w: frame %d has xxhash %016x, archive records %016x", errs.ErrChecksumMismatch, k, got, sum)
		}

		if err := handle.WriteExact(info.FrameOffset(k), raw); err != nil {
			return nil, err
		}
	}
	if err := handle.Sync(); err != nil {
		return nil, err
	}

	cfg.Logger.Debug("container unpacked", "file", dst, "frames", p.frameCount, "compression", c.Type().String())

	return info, nil
}

func prepareTarget(dst string, kind format.HeaderKind, g container.Geometry, overwrite bool, logger *logging.Logger) (*container.Info, error) {
	if kind != format.HeaderLegacy {
		info, _, err := container.Prepare(dst, g, overwrite, logger)
		return info, err
	}

	if len(g.Dims) != 3 || g.Order != format.XMajor {
		return nil, fmt.Errorf("%w: legacy source with geometry %s", errs.ErrInvalidArchive, g)
	}
	if rawio.Exists(dst) {
		existing, err := container.Parse(dst, false)
		if err == nil && existing.Kind == format.HeaderLegacy && container.Compatible(existing, g) {
			logger.Debug("reusing compatible container", "file", dst, "geometry", g.String())
			return existing, nil
		}
		if !overwrite {
			return nil, fmt.Errorf("%w: %s is not a legacy container of %s", errs.ErrFileExists, dst, g)
		}
		logger.Warn("recreating incompatible container", "file", dst, "geometry", g.String())
	}

	return container.CreateLegacy(dst, g.ElementType, g.Dims[0], g.Dims[1], g.Dims[2])
}
