package telemetry

import (
	"net/http"

	"github.com/unbasical/gatekeeper/pkg/constants/logging"
)

type noopMetricsProvider struct{}

func NewNoopMetricProvider() MetricsProvider {
	logging.LogForComponent("MetricProvider").Info("Metrics not configured")
	return &noopMetricsProvider{}
}

func (n *noopMetricsProvider) Configure() error {
	return nil
}

func (n *noopMetricsProvider) WrapHTTPHandler(handler http.Handler) http.Handler {
	return handler
}

func (n *noopMetricsProvider) GetHTTPMetricsHandler() (http.Handler, error) {
	return nil, nil
}

func (n *noopMetricsProvider) CountRefreshCycle(outcome string) {}

func (n *noopMetricsProvider) CountAuthDecision(decision string) {}

func (n *noopMetricsProvider) SetActiveRoutes(count int) {}

func (n *noopMetricsProvider) Shutdown() {}
