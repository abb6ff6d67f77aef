package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unbasical/gatekeeper/common"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
)

type Prometheus struct {
	registry *prometheus.Registry
}

// nolint:gochecknoglobals,gocritic
var (
	version = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "version",
		Help: "Version information about this binary",
		ConstLabels: map[string]string{
			"version": common.Version,
		},
	})
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of all HTTP requests",
	}, []string{"code", "method"})
	inFlightRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "in_flight_requests",
		Help: "A gauge of requests currently being served by the wrapped handler.",
	})
	// duration is partitioned by the HTTP method and handler. It uses custom
	// buckets based on the expected request duration.
	duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "A histogram of latencies for requests.",
			Buckets: []float64{.05, .1, .5, 1, 2.5, 10},
		},
		[]string{"handler", "method", "code"},
	)
	refreshCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_refresh_cycles_total",
		Help: "Count of all route table refresh cycles partitioned by outcome",
	}, []string{"outcome"})
	authDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_decisions_total",
		Help: "Count of all authentication gate decisions",
	}, []string{"decision"})
	activeRoutes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "active_routes",
		Help: "Number of route definitions in the currently served route table",
	})
)

func (p *Prometheus) Configure() error {
	if p.registry == nil {
		p.registry = prometheus.NewRegistry()
		// System stats
		p.registry.MustRegister(version, collectors.NewGoCollector(), collectors.NewBuildInfoCollector())
		// Http
		p.registry.MustRegister(httpRequestsTotal, inFlightRequests, duration)
		// Gateway
		p.registry.MustRegister(refreshCyclesTotal, authDecisionsTotal, activeRoutes)

		logging.LogForComponent("Prometheus").Infoln("Configured Prometheus.")
	}
	return nil
}

func (p *Prometheus) WrapHTTPHandler(handler http.Handler) http.Handler {
	return promhttp.InstrumentHandlerInFlight(inFlightRequests,
		promhttp.InstrumentHandlerDuration(duration.MustCurryWith(prometheus.Labels{"handler": "http"}),
			promhttp.InstrumentHandlerCounter(httpRequestsTotal, handler),
		),
	)
}

func (p *Prometheus) GetHTTPMetricsHandler() (http.Handler, error) {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}), nil
}

func (p *Prometheus) CountRefreshCycle(outcome string) {
	refreshCyclesTotal.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) CountAuthDecision(decision string) {
	authDecisionsTotal.WithLabelValues(decision).Inc()
}

func (p *Prometheus) SetActiveRoutes(count int) {
	activeRoutes.Set(float64(count))
}

func (p *Prometheus) Shutdown() {}
