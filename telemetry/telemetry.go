// Package telemetry times the phases of a command. A collector travels in
// the context; without one every call is a no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(ctx, collector)
//
//	timer := telemetry.FromContext(ctx).Start("close-month")
//	read := timer.Child("read month")
//	// ...
//	read.End()
//	timer.End()
//
//	collector.Report(os.Stderr, styles)
package telemetry

import (
	"context"
	"io"
	"time"

	"github.com/robinvdvleuten/accounts/output"
)

type contextKey struct{}

// Collector records timers.
type Collector interface {
	Start(name string) Timer
	// Report writes the collected timings. styles may be nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks one phase. Children nest under it in the report.
type Timer interface {
	End()
	Child(name string) Timer
}

func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, contextKey{}, collector)
}

// FromContext returns the context's collector, or one that records nothing.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(contextKey{}).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// Phase starts a child of parent, or a top-level timer when parent is nil.
func Phase(ctx context.Context, parent Timer, name string) Timer {
	if parent == nil {
		return FromContext(ctx).Start(name)
	}
	return parent.Child(name)
}

type noOpCollector struct{}

func (noOpCollector) Start(string) Timer               { return noOpTimer{} }
func (noOpCollector) Report(io.Writer, *output.Styles) {}

type noOpTimer struct{}

func (noOpTimer) End()               {}
func (noOpTimer) Child(string) Timer { return noOpTimer{} }

// slowPhase is when a phase is highlighted in the report.
const slowPhase = 100 * time.Millisecond
