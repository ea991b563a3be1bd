package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/denio/compress"
	"github.com/arloliu/denio/container"
	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/internal/pool"
	"github.com/arloliu/denio/rawio"
	"github.com/arloliu/denio/section"
	"github.com/arloliu/denio/workpool"
	"github.com/cespare/xxhash/v2"
)

type record struct {
	sum     uint64
	payload []byte
}

// Pack writes the container at src to w as an archive.
//
// Frames are read and compressed on a worker pool, each worker owning its own
// read buffer, and written to w strictly in index order. The returned Stats
// cover the frame payloads only.
func Pack(src string, w io.Writer, opts ...Option) (compress.Stats, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return compress.Stats{}, err
	}
	c, err := compress.Get(cfg.Compression)
	if err != nil {
		return compress.Stats{}, err
	}

	info, err := container.Parse(src, true)
	if err != nil {
		return compress.Stats{}, err
	}
	h, err := section.NewExtendedHeader(info.ElementType, info.Dims, info.Order)
	if err != nil {
		return compress.Stats{}, err
	}

	f, err := os.Open(src)
	if err != nil {
		return compress.Stats{}, fmt.Errorf("%w: open %s: %w", errs.ErrIO, src, err)
	}
	defer f.Close()

	p := prelude{compression: c.Type(), kind: info.Kind, frameCount: info.FrameCount, header: h}
	if _, err := w.Write(p.bytes()); err != nil {
		return compress.Stats{}, fmt.Errorf("%w: write prelude: %w", errs.ErrIO, err)
	}

	buffers := make([]*pool.ByteBuffer, cfg.Threads)
	for i := range buffers {
		buffers[i] = pool.GetFrameBuffer()
	}
	defer func() {
		for _, b := range buffers {
			pool.PutFrameBuffer(b)
		}
	}()

	workers, err := workpool.New(cfg.Threads, buffers...)
	if err != nil {
		return compress.Stats{}, err
	}
	workers.SetLogger(cfg.Logger)
	defer workers.Close()

	frameBytes := int(info.FrameByteSize())
	results := make(chan *workpool.Result[record], cfg.Threads)
	go func() {
		defer close(results)
		for k := range int(info.FrameCount) {
			res, err := workpool.Go(workers, func(in workpool.Info[*pool.ByteBuffer]) (record, error) {
				raw := in.Worker.Resize(frameBytes)
				if err := rawio.ReadAt(f, info.FrameOffset(k), raw); err != nil {
					return record{}, fmt.Errorf("frame %d of %s: %w", k, src, err)
				}

				payload, err := c.Compress(raw)
				if err != nil {
					return record{}, fmt.Errorf("compress frame %d of %s: %w", k, src, err)
				}
				if len(payload) >= len(raw) {
					payload = bytes.Clone(raw)
				}

				return record{sum: xxhash.Sum64(raw), payload: payload}, nil
			})
			if err != nil {
				return
			}
			results <- res
		}
	}()

	stats := compress.Stats{Algorithm: c.Type()}
	out := pool.GetFrameBuffer()
	defer pool.PutFrameBuffer(out)

	var firstErr error
	for res := range results {
		if firstErr != nil {
			continue
		}

		rec, err := res.Get()
		if err == nil {
			err = writeRecord(w, out, rec)
		}
		if err != nil {
			firstErr = err
			_ = workers.Close()

			continue
		}
		stats.Add(frameBytes, len(rec.payload))
	}
	if firstErr != nil {
		return stats, firstErr
	}

	cfg.Logger.Debug("container packed", "file", src, "frames", info.FrameCount,
		"compression", c.Type().String(), "ratio", stats.Ratio())

	return stats, nil
}

func writeRecord(w io.Writer, bb *pool.ByteBuffer, rec record) error {
	bb.Reset()
	bb.B = wire.AppendUint32(bb.B, uint32(len(rec.payload)))
	bb.B = wire.AppendUint64(bb.B, rec.sum)
	_, _ = bb.Write(rec.payload)

	if _, err := bb.WriteTo(w); err != nil {
		return fmt.Errorf("%w: write frame record: %w", errs.ErrIO, err)
	}

	return nil
}
