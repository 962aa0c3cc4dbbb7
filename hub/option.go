package hub

import "time"

type Options struct {
	handlerTimeout time.Duration
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	o := &Options{}

	for _, opt := range option {
		opt(o)
	}

	return o
}

// HandlerTimeoutOption logs an error when one handler call runs longer than d.
// Handlers run on the dispatch routine, so a stuck handler stalls every event.
func HandlerTimeoutOption(d time.Duration) Option {
	return func(o *Options) {
		o.handlerTimeout = d
	}
}
