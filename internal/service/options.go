package service

import (
	"log/slog"
	"time"
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures a service.
type Option func(*options)

type options struct {
	clock  Clock
	logger *slog.Logger
}

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{clock: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
