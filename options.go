package flatpack

type options struct {
	capacityHint int
	maxDepth     int
	logger       *Logger
}

// Option configures a Flatten call.
type Option func(*options)

func applyOptions(opts []Option) *options {
	o := &options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCapacityHint suggests an initial buffer capacity, reducing
// relocation while the blob grows. The effective capacity is never
// smaller than the root structure.
func WithCapacityHint(n int) Option {
	return func(o *options) {
		o.capacityHint = n
	}
}

// WithMaxDepth truncates the flattened graph below the given nesting
// depth: sub-structure fields deeper than depth serialize as absent
// (their slots are forced to null). Depth 1 keeps the root's direct
// children. Zero or negative means unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger attaches a logger to the flatten pass.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
