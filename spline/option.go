package spline

type Options struct {
	startSlope float64
	endSlope   float64
}

type Option func(o *Options)

func optionNew(option ...Option) *Options {
	opts := &Options{}
	for _, o := range option {
		o(opts)
	}

	return opts
}

// ClampSlopesOption sets the first derivative pinned at both ends by the
// Clamped policy. Without it the slopes are zero. Other policies ignore it.
func ClampSlopesOption(start, end float64) Option {
	return func(o *Options) {
		o.startSlope = start
		o.endSlope = end
	}
}
