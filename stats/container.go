package stats

import (
	"fmt"

	"github.com/arloliu/denio/format"
	"github.com/arloliu/denio/frame"
	"github.com/arloliu/denio/volume"
	"github.com/arloliu/denio/workpool"
)

// Result is the outcome of Container.
type Result struct {
	Total  Summary
	Frames []Summary // one per frame, in index order
}

// Container summarizes every frame of the container at path using threads workers.
//
// Each worker owns a frame buffer and reads through a shared Reader holding
// one scratch buffer per worker.
func Container(path string, threads int, opts ...volume.Option) (*Result, error) {
	threads = max(threads, 1)

	r, err := volume.OpenReader[float64](path, append(opts, volume.WithExtraBuffers(threads-1))...)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	buffers := make([]*frame.Buffered[float64], threads)
	for i := range buffers {
		buffers[i] = frame.NewBuffered[float64](r.DimX(), r.DimY())
	}

	p, err := workpool.New(threads, buffers...)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	res := &Result{Frames: make([]Summary, r.FrameCount())}
	futures := make([]*workpool.Future, 0, r.FrameCount())
	for k := range r.FrameCount() {
		f, err := p.Submit(func(in workpool.Info[*frame.Buffered[float64]]) error {
			if err := r.ReadFrameInto(k, in.Worker.Data(), format.XMajor); err != nil {
				return err
			}
			res.Frames[k] = Frame[float64](in.Worker)

			return nil
		})
		if err != nil {
			return nil, err
		}
		futures = append(futures, f)
	}

	if err := workpool.WaitAll(futures...); err != nil {
		return nil, fmt.Errorf("stats of %s: %w", path, err)
	}

	res.Total = Empty()
	for _, s := range res.Frames {
		res.Total = Merge(res.Total, s)
	}

	return res, nil
}
