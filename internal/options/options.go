// Package options implements the typed functional options used by denio constructors.
package options

// Option configures a value of type T.
type Option[T any] interface {
	apply(*T) error
}

// Func is an Option backed by a function.
type Func[T any] func(*T) error

func (f Func[T]) apply(target *T) error {
	return f(target)
}

// New creates an option from a function that may reject its input.
func New[T any](fn func(*T) error) Option[T] {
	return Func[T](fn)
}

// NoError creates an option from a function that cannot fail.
func NoError[T any](fn func(*T)) Option[T] {
	return Func[T](func(target *T) error {
		fn(target)
		return nil
	})
}

// Apply applies opts to target in order, skipping nil options and stopping at the first error.
func Apply[T any](target *T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}

// Build returns defaults with opts applied.
func Build[T any](defaults T, opts ...Option[T]) (T, error) {
	cfg := defaults
	if err := Apply(&cfg, opts...); err != nil {
		var zero T
		return zero, err
	}

	return cfg, nil
}
