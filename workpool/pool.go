// Package workpool implements a bounded pool of workers with pause, resume and drain.
//
// A Pool runs at most Size tasks at once. Each of its Size slots may carry a
// caller-supplied worker value W, such as a per-goroutine reader, that is
// handed to every task running in that slot.
//
//	p, err := workpool.New(4, readers...)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	res, err := workpool.Go(p, func(in workpool.Info[*volume.Reader[float32]]) (float64, error) {
//	    f, err := in.Worker.ReadFrame(7)
//	    ...
//	})
//	sum, err := res.Get()
//
// The pool moves between Running and Paused until Close, which stops it for
// good: queued tasks that have not started are abandoned and their futures
// report errs.ErrPoolStopped.
package workpool

import (
	"fmt"
	"sync"

	"github.com/arloliu/denio/errs"
	"github.com/arloliu/denio/logging"
)

// State is the lifecycle state of a Pool.
type State int

const (
	StateRunning State = iota
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Info is passed to every task.
type Info[W any] struct {
	Slot   int // worker slot the task was assigned to, 0..Size-1
	Worker W   // worker value bound to Slot
}

type job[W any] struct {
	slot   int
	run    func(Info[W]) error
	future *Future
}

// Pool is a fixed-size worker pool. It is safe for concurrent use.
type Pool[W any] struct {
	mu   sync.Mutex
	cond *sync.Cond

	workers   []W
	assigned  []bool
	queue     []*job[W]
	running   int // submitted and not finished, queued ones included
	executing int
	paused    bool
	stopped   bool

	wg     sync.WaitGroup
	logger *logging.Logger
}

// New starts a pool of n workers. n below 1 is treated as 1.
//
// workers is either empty, leaving every slot with the zero W, or holds
// exactly one value per slot.
func New[W any](n int, workers ...W) (*Pool[W], error) {
	n = max(n, 1)
	if len(workers) != 0 && len(workers) != n {
		return nil, fmt.Errorf("%w: %d worker values for %d slots", errs.ErrInvalidPoolState, len(workers), n)
	}

	p := &Pool[W]{
		workers:  make([]W, n),
		assigned: make([]bool, n),
		logger:   logging.Noop(),
	}
	copy(p.workers, workers)
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(n)
	for range n {
		go p.work()
	}

	return p, nil
}

// SetLogger sets the logger used for lifecycle events.
func (p *Pool[W]) SetLogger(l *logging.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger = logging.OrNoop(l).WithComponent("workpool")
}

// Size returns the number of worker slots.
func (p *Pool[W]) Size() int {
	return len(p.assigned)
}

// Submit queues task and returns its future.
//
// It blocks while Size tasks are already submitted and unfinished. The task
// is bound to the first free slot. Submitting to a closed pool fails with
// errs.ErrPoolStopped.
func (p *Pool[W]) Submit(task func(Info[W]) error) (*Future, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.stopped && p.running >= len(p.assigned) {
		p.cond.Wait()
	}
	if p.stopped {
		return nil, errs.ErrPoolStopped
	}

	slot := 0
	for p.assigned[slot] {
		slot++
	}
	p.assigned[slot] = true
	p.running++

	j := &job[W]{slot: slot, run: task, future: newFuture()}
	p.queue = append(p.queue, j)
	p.cond.Broadcast()

	return j.future, nil
}

func (p *Pool[W]) work() {
	defer p.wg.Done()

	p.mu.Lock()
	for {
		for !p.stopped && (p.paused || len(p.queue) == 0) {
			p.cond.Wait()
		}
		if p.stopped {
			p.mu.Unlock()
			return
		}

		j := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.executing++
		in := Info[W]{Slot: j.slot, Worker: p.workers[j.slot]}
		p.mu.Unlock()

		err := execute(j.run, in)

		p.mu.Lock()
		p.executing--
		p.running--
		p.assigned[j.slot] = false
		j.future.resolve(err)
		p.cond.Broadcast()
	}
}

func execute[W any](run func(Info[W]) error, in Info[W]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workpool: task in slot %d panicked: %v", in.Slot, r)
		}
	}()

	return run(in)
}

// Pause stops dispatching queued tasks; tasks already executing continue.
//
// With blocking set, Pause first waits until no task is queued or executing,
// so a blocking Pause returns with the pool idle. Pausing a paused pool with
// blocking set waits for the executing tasks only.
func (p *Pool[W]) Pause(blocking bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return errs.ErrPoolStopped
	}

	if blocking {
		for !p.stopped && ((!p.paused && p.running > 0) || p.executing > 0) {
			p.cond.Wait()
		}
		if p.stopped {
			return errs.ErrPoolStopped
		}
	}
	p.paused = true
	p.logger.Debug("pool paused", "queued", len(p.queue))

	return nil
}

// Resume re-enables dispatch after Pause.
func (p *Pool[W]) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || !p.paused {
		return
	}
	p.paused = false
	p.cond.Broadcast()
	p.logger.Debug("pool resumed", "queued", len(p.queue))
}

// WaitAll blocks until every submitted task has finished.
//
// The pool keeps running afterwards. On a paused pool with queued tasks
// WaitAll returns only after Resume, or Close.
func (p *Pool[W]) WaitAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for !p.stopped && p.running > 0 {
		p.cond.Wait()
	}
}

// SetWorkers replaces the worker values, one per slot.
//
// The pool must be paused and idle, and len(workers) must equal Size;
// otherwise errs.ErrInvalidPoolState is returned.
func (p *Pool[W]) SetWorkers(workers []W) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.stopped:
		return errs.ErrPoolStopped
	case !p.paused:
		return fmt.Errorf("%w: pool is %s", errs.ErrInvalidPoolState, StateRunning)
	case p.running > 0:
		return fmt.Errorf("%w: %d tasks pending", errs.ErrInvalidPoolState, p.running)
	case len(workers) != len(p.workers):
		return fmt.Errorf("%w: %d worker values for %d slots", errs.ErrInvalidPoolState, len(workers), len(p.workers))
	}
	copy(p.workers, workers)

	return nil
}

// Workers returns a copy of the worker values.
func (p *Pool[W]) Workers() []W {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]W(nil), p.workers...)
}

// State returns the current lifecycle state.
func (p *Pool[W]) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case p.stopped:
		return StateStopped
	case p.paused:
		return StatePaused
	default:
		return StateRunning
	}
}

// Running returns the number of submitted tasks that have not finished.
func (p *Pool[W]) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.running
}

// Close stops the pool and waits for executing tasks to return.
//
// Queued tasks that have not started are abandoned; their futures resolve
// with errs.ErrPoolStopped. Close is idempotent.
func (p *Pool[W]) Close() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true

	abandoned := p.queue
	p.queue = nil
	for _, j := range abandoned {
		p.assigned[j.slot] = false
		p.running--
	}
	p.cond.Broadcast()
	logger := p.logger
	p.mu.Unlock()

	p.wg.Wait()
	for _, j := range abandoned {
		j.future.resolve(errs.ErrPoolStopped)
	}
	logger.Debug("pool stopped", "abandoned", len(abandoned))

	return nil
}
