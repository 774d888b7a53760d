package telemetry

import (
	"context"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that records nothing. It is used when
// telemetry is disabled.
type NoOpTracer struct{}

// NewNoOpTracer creates a tracer that discards all spans.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns the context unchanged and a span that does nothing.
func (*NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noOpSpan{}
}

// Shutdown does nothing.
func (*NoOpTracer) Shutdown(_ context.Context) error {
	return nil
}

type noOpSpan struct{}

func (noOpSpan) End()                     {}
func (noOpSpan) RecordError(error)        {}
func (noOpSpan) SetAttribute(string, any) {}
