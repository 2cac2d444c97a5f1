package timer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type traceKey struct{}

type traceEvent struct {
	event   string
	elapsed time.Duration
}

type trace struct {
	lock   sync.Mutex
	start  time.Time
	events []traceEvent
}

func (t *trace) record(event string, ts time.Time) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.events = append(t.events, traceEvent{
		event:   event,
		elapsed: ts.Sub(t.start),
	})
}

// WithTracing starts collecting events on the returned context.
func WithTracing(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceKey{}, &trace{
		start:  time.Now(),
		events: make([]traceEvent, 0, 4),
	})
}

// Mark records event on the trace of ctx. It does nothing when ctx is not
// tracing.
func Mark(ctx context.Context, event string) {
	if t, ok := ctx.Value(traceKey{}).(*trace); ok {
		t.record(event, time.Now())
	}
}

// Events lists the recorded events in order, each with its offset from the
// start of the trace.
func Events(ctx context.Context) []string {
	t, ok := ctx.Value(traceKey{}).(*trace)
	if !ok {
		return nil
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	ret := make([]string, len(t.events))
	for k, e := range t.events {
		ret[k] = fmt.Sprintf("%5dus: %s", e.elapsed.Microseconds(), e.event)
	}
	return ret
}

func LogTracingInfo(ctx context.Context, log *zap.Logger) {
	events := Events(ctx)
	if len(events) == 0 {
		return
	}
	log.Debug("====Trace====\n\t" + strings.Join(events, "\n\t"))
}
