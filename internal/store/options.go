package store

import "log"

// Option configures a Store.
type Option func(*options)

type options struct {
	retention int
	logger    *log.Logger
	report    func(error)
}

// WithRetention keeps at most n entries, dropping the oldest on every
// commit. n <= 0 keeps everything.
func WithRetention(n int) Option {
	return func(o *options) {
		o.retention = n
	}
}

// WithLogger sets the logger used by the default error reporter.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithErrorReporter replaces the default reporter, which logs each
// *SubscriberError and each error of a queued dispatch.
func WithErrorReporter(fn func(error)) Option {
	return func(o *options) {
		o.report = fn
	}
}
