package deferred

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

type (
	// StreamFunc decodes a value from an open resource.
	StreamFunc[T any] func(io.Reader) (T, error)
	// LoadFunc loads a value given only the resource identifier.
	LoadFunc[T any] func(id string) (T, error)
)

type state int

const (
	stateLoaded state = iota
	stateFailed
)

// Loader holds the outcome of a single load attempt: either the loaded
// value or the not-found condition that prevented it. It never changes
// after construction and is safe for concurrent reads.
type Loader[T any] struct {
	id    string
	state state
	value T
	err   *NotFoundError
}

type options struct {
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*options)

// WithLogger sets the logger that receives the missing-resource warning.
// A nil logger discards it.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		o.logger = logger
	}
}

// Open opens path, hands the stream to fn and closes it again.
// A missing file does not fail construction; see Loader.Value.
func Open[T any](path string, fn StreamFunc[T], opts ...Option) (*Loader[T], error) {
	return Load[T](path, func(id string) (T, error) {
		f, err := os.Open(id)
		if err != nil {
			var zero T
			return zero, err
		}
		defer f.Close()
		return fn(f)
	}, opts...)
}

// Load calls fn with id exactly once. If fn reports a not-found condition
// the loader is returned in the failed state and a warning is logged.
// Any other error is returned unmodified.
func Load[T any](id string, fn LoadFunc[T], opts ...Option) (*Loader[T], error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	value, err := fn(id)
	switch {
	case err == nil:
		return &Loader[T]{id: id, state: stateLoaded, value: value}, nil
	case errors.Is(err, fs.ErrNotExist):
		o.logger.Warn("resource cannot be loaded, carrying on", "resource", id, "error", err)
		return &Loader[T]{id: id, state: stateFailed, err: &NotFoundError{Identifier: id, Err: err}}, nil
	default:
		return nil, err
	}
}

// Value returns the loaded value. If the load failed it returns the zero
// value and the same *NotFoundError on every call.
func (l *Loader[T]) Value() (T, error) {
	if l.state == stateFailed {
		var zero T
		return zero, l.err
	}
	return l.value, nil
}

// ValueOr returns the loaded value, or fallback if the load failed.
func (l *Loader[T]) ValueOr(fallback T) T {
	if l.state == stateFailed {
		return fallback
	}
	return l.value
}

// Loaded reports whether the value was loaded.
func (l *Loader[T]) Loaded() bool { return l.state == stateLoaded }

// Identifier returns the resource name the loader was built from.
func (l *Loader[T]) Identifier() string { return l.id }
