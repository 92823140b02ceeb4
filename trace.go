package batchiter

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Tracer reports the progress of an operation such as a Fold.
type Tracer interface {
	SubTracer(description string, v ...any) Tracer
	Msg(format string, v ...any)
	End()
}

// TraceFunc defines the function prototype of a tracing function.
// Per operation functions can be configured using WithTraceFunc.
type TraceFunc func(format string, v ...any)

// DefaultTracer is the global default trace function.  It prints messages to
// stderr.  DefaultTracer can be replaced by another tracing function to affect
// all operations.
var DefaultTracer = func(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "<TRACE> "+format+"\n", v...)
}

var opCounter atomic.Uint32

type tracer struct {
	begin       time.Time
	description string
	ids         []uint32
	subids      atomic.Uint32
	traceFunc   TraceFunc
}

func newTracer(id uint32, description string, f TraceFunc, v ...any) *tracer {
	if f == nil {
		f = DefaultTracer
	}

	t := &tracer{
		description: fmt.Sprintf(description, v...),
		ids:         []uint32{id},
		traceFunc:   f,
	}

	t.start()
	return t
}

func (t *tracer) id() string {
	idStrings := make([]string, len(t.ids))
	for i, n := range t.ids {
		idStrings[i] = strconv.Itoa(int(n))
	}
	return strings.Join(idStrings, ".")
}

func (t *tracer) start() {
	t.begin = time.Now()
	t.traceFunc("%s: START [op #%s] %s", t.begin.Format(time.RFC3339), t.id(), t.description)
}

func (t *tracer) SubTracer(description string, v ...any) Tracer {
	subID := t.subids.Add(1)

	t2 := &tracer{
		description: t.description + fmt.Sprintf(" / "+description, v...),
		ids:         append(slices.Clone(t.ids), subID),
		traceFunc:   t.traceFunc,
	}

	t2.start()
	return t2
}

func (t *tracer) Msg(format string, v ...any) {
	args := []any{
		time.Now().Format(time.RFC3339), t.id(), t.description,
	}
	args = append(args, v...)
	t.traceFunc("%s: MSG [op #%s] %s: "+format, args...)
}

func (t *tracer) End() {
	t.traceFunc("%s: END [op #%s] %s (%s)", time.Now().Format(time.RFC3339), t.id(), t.description,
		time.Since(t.begin))
}

// NullTracer discards everything.  It is used when tracing is disabled.
type NullTracer struct{}

func (t NullTracer) SubTracer(description string, v ...any) Tracer { return t }
func (t NullTracer) Msg(string, ...any)                            {}
func (t NullTracer) End()                                          {}
