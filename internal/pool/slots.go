// Package pool holds the reusable buffers of readers, writers and archives.
package pool

// Slots is a fixed set of buffers shared by concurrent callers.
//
// Acquire hands out an idle buffer and blocks while all of them are in use,
// which bounds the number of concurrent operations to Cap. Buffers are
// allocated once and reused for the lifetime of the Slots.
type Slots[B any] struct {
	idle chan B
}

// NewSlots allocates n buffers with newBuf. n below 1 is treated as 1.
func NewSlots[B any](n int, newBuf func() B) *Slots[B] {
	n = max(n, 1)
	s := &Slots[B]{idle: make(chan B, n)}
	for range n {
		s.idle <- newBuf()
	}

	return s
}

// Acquire takes an idle buffer, waiting for one to be released if necessary.
func (s *Slots[B]) Acquire() B {
	select {
	case b := <-s.idle:
		return b
	default:
	}

	return <-s.idle
}

// TryAcquire takes an idle buffer without waiting.
func (s *Slots[B]) TryAcquire() (B, bool) {
	select {
	case b := <-s.idle:
		return b, true
	default:
		var zero B
		return zero, false
	}
}

// Release returns a buffer obtained from Acquire or TryAcquire.
//
// Releasing more buffers than were acquired panics.
func (s *Slots[B]) Release(b B) {
	select {
	case s.idle <- b:
	default:
		panic("pool: Release without matching Acquire")
	}
}

// Cap returns the number of buffers.
func (s *Slots[B]) Cap() int {
	return cap(s.idle)
}

// Idle returns the number of buffers not currently acquired.
func (s *Slots[B]) Idle() int {
	return len(s.idle)
}
