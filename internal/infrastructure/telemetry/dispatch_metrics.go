package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded on vendor call metrics
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// DispatchMetrics counts and times calls made to vendor order APIs.
// A nil *DispatchMetrics records nothing.
type DispatchMetrics struct {
	calls    *Counter
	failures *Counter
	latency  *Histogram
}

// NewDispatchMetrics registers the vendor call instruments on meter.
func NewDispatchMetrics(meter metric.Meter) (*DispatchMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	calls, err := NewCounter(meter, "vendor_api_calls_total",
		"Number of requests sent to vendor order APIs", "{call}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "vendor_api_failures_total",
		"Number of vendor order API requests that did not succeed", "{call}")
	if err != nil {
		return nil, err
	}
	latency, err := NewHistogram(meter, "vendor_api_call_duration_seconds",
		"Round trip time of vendor order API requests", "s", VendorCallBuckets)
	if err != nil {
		return nil, err
	}

	return &DispatchMetrics{calls: calls, failures: failures, latency: latency}, nil
}

// RecordCall records one vendor call. operation is "submit" or "retrieve".
func (m *DispatchMetrics) RecordCall(ctx context.Context, vendor, operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	attrs := []attribute.KeyValue{
		AttrVendor.String(vendor),
		AttrOperation.String(operation),
		AttrOutcome.String(outcome),
	}

	m.calls.Inc(ctx, attrs...)
	if err != nil {
		m.failures.Inc(ctx, attrs[:2]...)
	}
	m.latency.RecordDuration(ctx, elapsed, attrs...)
}
