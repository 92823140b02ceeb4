package batchiter

type options struct {
	tracer  TraceFunc
	tracing bool
	parent  Tracer // set when the operation is part of a larger one
}

// Option customizes Fold, Collect, CollectInto and CollectAll.
type Option func(o *options)

// WithTraceFunc sets the trace function for the operation.  Use WithTracing
// to enable/disable tracing.
func WithTraceFunc(f TraceFunc) Option {
	return func(o *options) {
		o.tracer = f
	}
}

// WithTracing enables tracing for the operation.  If a custom trace function
// has not been set using WithTraceFunc, trace messages are printed to stderr.
func WithTracing(enable bool) Option {
	return func(o *options) {
		o.tracing = enable
	}
}

// withParentTracer makes the operation trace under t instead of starting
// a top level trace of its own.
func withParentTracer(t Tracer) Option {
	return func(o *options) {
		o.parent = t
	}
}

func newOptions(opts ...Option) options {
	var o options
	for _, f := range opts {
		f(&o)
	}
	return o
}

func (o options) newTracer(description string, v ...any) Tracer {
	if o.parent != nil {
		return o.parent
	}
	if !o.tracing {
		return NullTracer{}
	}

	return newTracer(opCounter.Add(1), description, o.tracer, v...)
}
