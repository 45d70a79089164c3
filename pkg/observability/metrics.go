package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig identifies the service in exported metrics.
type MetricsConfig struct {
	ServiceName string
	Port        int
}

// InitMetrics wires an OpenTelemetry meter provider to the Prometheus
// exporter and returns the scrape handler to mount on /metrics. The caller
// owns shutdown of the returned provider.
func InitMetrics(_ MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	return provider, promhttp.Handler(), nil
}
