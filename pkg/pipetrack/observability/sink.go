package observability

import (
	"context"

	"github.com/randalmurphal/pipetrack/pkg/pipetrack/events"
)

// MeteredSink is an events.LogSink that records every event passing through
// it before forwarding the write unchanged to Next.
type MeteredSink struct {
	Next    events.LogSink
	Metrics MetricsRecorder
}

// Compile-time interface check.
var _ events.LogSink = (*MeteredSink)(nil)

// NewMeteredSink wraps next. A nil recorder means NoopMetrics.
func NewMeteredSink(next events.LogSink, metrics MetricsRecorder) *MeteredSink {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &MeteredSink{Next: next, Metrics: metrics}
}

// Info implements events.LogSink.
func (s *MeteredSink) Info(msg string, args ...any) {
	s.record(args)
	s.Next.Info(msg, args...)
}

// Error implements events.LogSink.
func (s *MeteredSink) Error(msg string, args ...any) {
	s.record(args)
	s.Next.Error(msg, args...)
}

func (s *MeteredSink) record(args []any) {
	for _, arg := range args {
		if evt, ok := arg.(events.Event); ok {
			s.Metrics.RecordEvent(context.Background(), evt)
		}
	}
}
