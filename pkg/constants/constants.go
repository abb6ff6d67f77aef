package constants

// ContextKey represents keys for key value pairs in contexts
type ContextKey string

// ContextKeyRequestUID is used to propagate the request correlation id via the context in order to enrich logs
const ContextKeyRequestUID = ContextKey("requestUID")

// HTTP Request related constants
const (
	// HeaderAuthorization is the inbound header carrying the bearer credential
	HeaderAuthorization = "Authorization"
	// BearerPrefix is the scheme prefix of a bearer Authorization header
	BearerPrefix = "Bearer "
	// EndpointHealth is used as the http endpoint for liveliness probes
	EndpointHealth = "/health"
	// EndpointMetrics will be used if Gatekeeper is configured to publish metrics using Prometheus
	EndpointMetrics = "/metrics"
	// EndpointResourceValidate is the path of the external authority's validation endpoint
	EndpointResourceValidate = "/resource/validate"
)

// Telemetry related constants
const (
	// TelemetryPrometheus is the telemetry option for prometheus
	TelemetryPrometheus string = "prometheus"
)

// Datastore related constants
const (
	// MetaMaxOpenConnections is the MetaKey for maxOpenConnections
	MetaMaxOpenConnections string = "maxOpenConnections"
	// MetaMaxIdleConnections is the MetaKey for maxIdleConnections
	MetaMaxIdleConnections string = "maxIdleConnections"
	// MetaConnectionMaxLifetimeSeconds is the MetaKey for connectionMaxLifetimeSeconds
	MetaConnectionMaxLifetimeSeconds string = "connectionMaxLifetimeSeconds"
	// MetaCollection is the MetaKey for the mongo collection holding route records
	MetaCollection string = "collection"
)

// Datastore types which can be configured for the route store
const (
	// TypePostgres is the postgres datastore type
	TypePostgres string = "postgres"
	// TypeMysql is the mysql datastore type
	TypeMysql string = "mysql"
	// TypeMongo is the mongo datastore type
	TypeMongo string = "mongo"
)
