package alloc

import (
	"log/slog"

	"github.com/joshuapare/poolkit/pool"
)

// Option configures an Allocator.
type Option func(*options)

type options struct {
	backing pool.Backing
	logger  *slog.Logger
	trace   bool
}

// WithBacking selects where the pool memory comes from. Default: pool.BackingHeap.
func WithBacking(b pool.Backing) Option {
	return func(o *options) {
		o.backing = b
	}
}

// WithLogger sets the logger. When unset the package-wide logger.L is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTrace enables a debug record for every alloc, free and resize.
func WithTrace(on bool) Option {
	return func(o *options) {
		o.trace = on
	}
}
