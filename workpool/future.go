package workpool

// Future is the eventual outcome of a submitted task.
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(err error) {
	f.err = err
	close(f.done)
}

// Wait blocks until the task has finished and returns its error.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// Done is closed when the task has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result is a Future carrying a value.
type Result[R any] struct {
	*Future
	value R
}

// Get blocks until the task has finished and returns its value and error.
func (r *Result[R]) Get() (R, error) {
	err := r.Wait()
	return r.value, err
}

// Go submits fn to p and returns a Result for its value.
func Go[W, R any](p *Pool[W], fn func(Info[W]) (R, error)) (*Result[R], error) {
	res := &Result[R]{}
	f, err := p.Submit(func(in Info[W]) error {
		v, err := fn(in)
		res.value = v

		return err
	})
	if err != nil {
		return nil, err
	}
	res.Future = f

	return res, nil
}

// WaitAll waits for every future and returns the first non-nil error.
func WaitAll(futures ...*Future) error {
	var first error
	for _, f := range futures {
		if f == nil {
			continue
		}
		if err := f.Wait(); err != nil && first == nil {
			first = err
		}
	}

	return first
}
