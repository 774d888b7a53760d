package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/jjmerchante/cauldron-pool-scheduler/internal/core/ports"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// logBridge implements sdktrace.SpanProcessor and reports finished spans
// through the scheduler's logger.
type logBridge struct {
	log ports.Logger
}

func newLogBridge(log ports.Logger) *logBridge {
	return &logBridge{log: log}
}

// OnStart is called when a span starts.
func (b *logBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *logBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "failed"
		}
		b.log.Debug(fmt.Sprintf("span %s failed after %s: %s", s.Name(), took, desc))
		return
	}

	b.log.Debug(fmt.Sprintf("span %s finished in %s", s.Name(), took))
}

// ForceFlush does nothing.
func (b *logBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *logBridge) Shutdown(_ context.Context) error {
	return nil
}
