package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// newPrometheusReader creates an OTel metric reader backed by a private
// Prometheus registry and the handler that serves it. A private registry
// keeps repeated Init calls from colliding.
func newPrometheusReader() (sdkmetric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return exporter, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}
