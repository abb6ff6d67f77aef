package forward

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/unbasical/gatekeeper/configs"
	refreshInt "github.com/unbasical/gatekeeper/internal/pkg/refresh"
	"github.com/unbasical/gatekeeper/internal/pkg/util"
	"github.com/unbasical/gatekeeper/pkg/route"
	"github.com/unbasical/gatekeeper/pkg/telemetry"
)

type fakeProvider struct {
	mutex       sync.Mutex
	definitions []route.Definition
	err         error
	calls       int
}

func (p *fakeProvider) Configure(appConf *configs.AppConfig, alias string) error {
	return nil
}

func (p *fakeProvider) ListDefinitions(ctx context.Context) ([]route.Definition, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	result := make([]route.Definition, len(p.definitions))
	copy(result, p.definitions)
	return result, nil
}

func (p *fakeProvider) Save(ctx context.Context, definition route.Definition) error {
	return nil
}

func (p *fakeProvider) Delete(ctx context.Context, routeID string) error {
	return nil
}

func (p *fakeProvider) set(definitions []route.Definition, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.definitions = definitions
	p.err = err
}

func (p *fakeProvider) callCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.calls
}

func makeDefinition(t *testing.T, id, target, pattern string, filters ...route.Clause) route.Definition {
	t.Helper()
	return route.Definition{
		ID:         id,
		URI:        *util.MustParseURL(target),
		Predicates: []route.Clause{{Name: "Path", Args: []string{pattern}}},
		Filters:    filters,
	}
}

func startedEngine(t *testing.T, provider route.DefinitionProvider) (*engine, func()) {
	t.Helper()
	appConf := &configs.AppConfig{}
	appConf.MetricsProvider = telemetry.NewNoopMetricProvider()

	notifier := refreshInt.NewMock()
	assert.NoError(t, notifier.Configure(appConf))

	e := NewEngine().(*engine)
	assert.NoError(t, e.Configure(appConf, provider, notifier.Signals()))
	assert.NoError(t, e.Start())
	return e, func() {
		e.Stop()
	}
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		pattern     string
		path        string
		matched     bool
		specificity int
	}{
		{"/api/v1/member/**", "/api/v1/member/list", true, 14},
		{"/api/v1/member/**", "/api/v1/member", true, 14},
		{"/api/v1/member/**", "/api/v1/members", false, 0},
		{"/api/**", "/api/v1/member/list", true, 4},
		{"/api/v1/*", "/api/v1/member", true, 7},
		{"/api/v1/*", "/api/v1/member/list", false, 0},
		{"/api/v1/*", "/api/v1/", false, 0},
		{"/health", "/health", true, 7},
		{"/health", "/healthz", false, 0},
	}

	for _, tt := range tests {
		matched, specificity := matchPath(tt.pattern, tt.path)
		assert.Equalf(t, tt.matched, matched, "pattern %q path %q", tt.pattern, tt.path)
		assert.Equalf(t, tt.specificity, specificity, "pattern %q path %q", tt.pattern, tt.path)
	}
}

func TestStripPathSegments(t *testing.T) {
	assert.Equal(t, "/member/list", stripPathSegments("/api/v1/member/list", 2))
	assert.Equal(t, "/api/v1/member/list", stripPathSegments("/api/v1/member/list", 0))
	assert.Equal(t, "/", stripPathSegments("/api/v1", 2))
	assert.Equal(t, "/", stripPathSegments("/api", 5))
}

func TestEngineStartLoadsInitialTable(t *testing.T) {
	provider := &fakeProvider{}
	provider.set([]route.Definition{
		makeDefinition(t, "member-service", "http://member-service:8080", "/api/v1/member/**"),
	}, nil)

	e, stop := startedEngine(t, provider)
	defer stop()

	routes := e.Routes()
	assert.Len(t, routes, 1)
	assert.Equal(t, "member-service", routes[0].ID)
}

func TestEngineKeepsTableOnFailedRefresh(t *testing.T) {
	provider := &fakeProvider{}
	provider.set([]route.Definition{
		makeDefinition(t, "member-service", "http://member-service:8080", "/api/v1/member/**"),
	}, nil)

	appConf := &configs.AppConfig{}
	appConf.MetricsProvider = telemetry.NewNoopMetricProvider()
	notifier := refreshInt.NewMock()
	assert.NoError(t, notifier.Configure(appConf))

	e := NewEngine().(*engine)
	assert.NoError(t, e.Configure(appConf, provider, notifier.Signals()))
	assert.NoError(t, e.Start())
	defer e.Stop()

	callsBefore := provider.callCount()
	provider.set(nil, errors.Errorf("store down"))
	notifier.Kick()

	assert.Eventually(t, func() bool {
		return provider.callCount() > callsBefore
	}, time.Second, 5*time.Millisecond)

	// The previously served table stays in effect.
	routes := e.Routes()
	assert.Len(t, routes, 1)
	assert.Equal(t, "member-service", routes[0].ID)

	// Recovery replaces the table again.
	provider.set([]route.Definition{
		makeDefinition(t, "member-service", "http://member-service:8080", "/api/v1/member/**"),
		makeDefinition(t, "billing-service", "http://billing-service:8080", "/api/v1/billing/**"),
	}, nil)
	notifier.Kick()

	assert.Eventually(t, func() bool {
		return len(e.Routes()) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestEngineServesNoMatchWith502(t *testing.T) {
	provider := &fakeProvider{}
	provider.set([]route.Definition{
		makeDefinition(t, "member-service", "http://member-service:8080", "/api/v1/member/**"),
	}, nil)

	e, stop := startedEngine(t, provider)
	defer stop()

	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestEngineProxiesWithStripPrefix(t *testing.T) {
	var upstreamPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	provider := &fakeProvider{}
	provider.set([]route.Definition{
		makeDefinition(t, "member-service", upstream.URL, "/api/v1/member/**",
			route.Clause{Name: FilterStripPrefix, Args: []string{"2"}}),
	}, nil)

	e, stop := startedEngine(t, provider)
	defer stop()

	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, httptest.NewRequest("GET", "/api/v1/member/list", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "/member/list", upstreamPath)
}

func TestEngineMostSpecificRouteWins(t *testing.T) {
	catchAll := makeDefinition(t, "catch-all", "http://catch-all:8080", "/api/**")
	member := makeDefinition(t, "member-service", "http://member-service:8080", "/api/v1/member/**")

	provider := &fakeProvider{}
	provider.set([]route.Definition{catchAll, member}, nil)

	e, stop := startedEngine(t, provider)
	defer stop()

	entry := e.resolve("/api/v1/member/list")
	assert.NotNil(t, entry)
	assert.Equal(t, "member-service", entry.definition.ID)

	entry = e.resolve("/api/v2/other")
	assert.NotNil(t, entry)
	assert.Equal(t, "catch-all", entry.definition.ID)

	assert.Nil(t, e.resolve("/outside"))
}

func TestEngineUnconfiguredStartFails(t *testing.T) {
	assert.Error(t, NewEngine().Start())
}
