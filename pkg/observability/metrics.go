package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "seasonality.requests.total"
	metricRequestDuration  = "seasonality.request.duration.seconds"
	metricErrorsTotal      = "seasonality.errors.total"
	metricInflightRequests = "seasonality.inflight.requests"
	metricRowsLoaded       = "seasonality.source.rows.loaded"
	metricRowsDropped      = "seasonality.source.rows.dropped"
	metricFetchDuration    = "seasonality.source.fetch.duration.seconds"

	attrOp     = "op"
	attrStatus = "status"
	attrTable  = "table"

	// StatusOK marks a successful operation.
	StatusOK = "ok"
	// StatusError marks a failed operation and also bumps the error counter.
	StatusError = "error"
)

// Request latencies range from in-memory lookups to remote sheet fetches.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// REDMetrics holds the rate, error and duration instruments for requests
// and the row counters for data loading.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
	rowsLoaded       metric.Int64Counter
	rowsDropped      metric.Int64Counter
	fetchDuration    metric.Float64Histogram
}

// NewREDMetrics creates the instruments on mt.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	rm := &REDMetrics{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&rm.requestsTotal, metricRequestsTotal, "Total number of requests", "{request}"},
		{&rm.errorsTotal, metricErrorsTotal, "Total number of failed requests", "{error}"},
		{&rm.rowsLoaded, metricRowsLoaded, "Rows accepted from a source table", "{row}"},
		{&rm.rowsDropped, metricRowsDropped, "Rows rejected during normalization", "{row}"},
	}

	for _, c := range counters {
		counter, err := mt.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", c.name, err)
		}

		*c.dst = counter
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&rm.requestDuration, metricRequestDuration, "Request duration in seconds"},
		{&rm.fetchDuration, metricFetchDuration, "Source table fetch duration in seconds"},
	}

	for _, h := range histograms {
		hist, err := mt.Float64Histogram(h.name,
			metric.WithDescription(h.desc),
			metric.WithUnit("s"),
			metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
		)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", h.name, err)
		}

		*h.dst = hist
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	rm.inflightRequests = inflight

	return rm, nil
}

// RecordRequest counts a finished request and its latency.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight bumps the in-flight gauge; call the returned func when done.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// RecordTable records one source table load: rows kept, rows dropped and
// how long the fetch took.
func (rm *REDMetrics) RecordTable(ctx context.Context, table string, loaded, dropped int, took time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrTable, table))

	rm.rowsLoaded.Add(ctx, int64(loaded), attrs)
	rm.rowsDropped.Add(ctx, int64(dropped), attrs)
	rm.fetchDuration.Record(ctx, took.Seconds(), attrs)
}
