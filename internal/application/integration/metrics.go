package integration

import "context"

// Metrics receives integration counters. A nil Metrics records nothing.
type Metrics interface {
	RecordMenuExport(ctx context.Context, items int)
	RecordOrderIngested(ctx context.Context, source, outcome string, unresolved int)
	RecordPlatformFailure(ctx context.Context, operation string, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordMenuExport(context.Context, int)                    {}
func (noopMetrics) RecordOrderIngested(context.Context, string, string, int) {}
func (noopMetrics) RecordPlatformFailure(context.Context, string, error)     {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
