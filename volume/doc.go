// Package volume reads and writes frames of denio containers.
//
// # Readers
//
// Reader decodes one frame per call and is safe for concurrent use. Up to
// 1+extra reads run in parallel, each on its own scratch buffer:
//
//	r, err := volume.OpenReader[float32]("proj.den", volume.WithExtraBuffers(3))
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	f, err := r.ReadFrame(10)
//
// CachedReader keeps up to k decoded frames. Eviction follows insertion
// order, not recency of use: re-reading a cached frame does not protect it.
//
// File loads an entire container into one slice using parallel chunked
// reads, and saves such a slice back.
//
// # Writers
//
// Writer and BufferedWriter write one frame per call under a writer-wide
// lock. BufferedWriter additionally copies frames that are already in wire
// layout without per-element encoding, avoids seeks between consecutive
// frames and records which frames have been written.
//
// Every reader converts the stored element type into T, and every writer
// converts T into the stored element type. Frames are always row-major in
// memory; containers stored Y-major are transposed on the fly.
package volume
