package sensor

type Options struct {
	sinks     []Sink
	observers []Observer
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{}
	for _, o := range option {
		o(opts)
	}

	return opts
}

// SinkOption adds a sink next to the host the sensor is attached to.
func SinkOption(sink Sink) Option {
	return func(o *Options) {
		if sink != nil {
			o.sinks = append(o.sinks, sink)
		}
	}
}

func ObserverOption(observer Observer) Option {
	return func(o *Options) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}
