package telemetry

import "net/http"

// MetricsProvider is able to record and publish metrics
type MetricsProvider interface {
	// Configure metrics provider
	Configure() error
	// WrapHTTPHandler wraps an HTTP handler with metrics
	WrapHTTPHandler(handler http.Handler) http.Handler
	// GetHTTPMetricsHandler gets a handler which can be exposed as "/metrics" endpoint
	GetHTTPMetricsHandler() (http.Handler, error)
	// CountRefreshCycle counts one route table refresh cycle with its outcome
	CountRefreshCycle(outcome string)
	// CountAuthDecision counts one authentication gate decision
	CountAuthDecision(decision string)
	// SetActiveRoutes records the size of the currently served route table
	SetActiveRoutes(count int)
	// Shutdown gracefully
	Shutdown()
}

// Outcome labels for refresh cycle metrics
const (
	// OutcomeSuccess labels a refresh cycle which produced a new table
	OutcomeSuccess = "success"
	// OutcomeFailure labels a refresh cycle which failed and left the previous table in effect
	OutcomeFailure = "failure"
)

// Decision labels for authentication gate metrics
const (
	// DecisionAccepted labels an enriched, forwarded request
	DecisionAccepted = "accepted"
	// DecisionNoCredential labels a request without usable bearer credential
	DecisionNoCredential = "no_credential"
	// DecisionUnauthorized labels a request rejected because the authority failed
	DecisionUnauthorized = "unauthorized"
	// DecisionForbidden labels a request rejected by the authority
	DecisionForbidden = "forbidden"
)
