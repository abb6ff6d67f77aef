// Package forward contains the forwarding engine which serves the live route
// table and proxies accepted requests to their upstream targets.
package forward

import (
	"context"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	routeInt "github.com/unbasical/gatekeeper/internal/pkg/route"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/forward"
	"github.com/unbasical/gatekeeper/pkg/refresh"
	"github.com/unbasical/gatekeeper/pkg/route"
	"github.com/unbasical/gatekeeper/pkg/telemetry"
)

// FilterStripPrefix is the only filter clause interpreted by this engine.
// Its single argument is the number of leading path segments to remove
// before the request is proxied upstream.
const FilterStripPrefix = "StripPrefix"

// tableEntry is one resolved route of the currently served table.
type tableEntry struct {
	definition  route.Definition
	pattern     string
	stripPrefix int
	proxy       *httputil.ReverseProxy
}

type engine struct {
	appConf    *configs.AppConfig
	provider   route.DefinitionProvider
	signals    <-chan refresh.Signal
	metrics    telemetry.MetricsProvider
	done       chan struct{}
	mutex      sync.RWMutex
	table      []*tableEntry
	configured bool
	started    bool
}

// NewEngine returns a new forward.Engine. The engine keeps its previously
// served table whenever a refresh fails and coalesces overlapping refresh
// signals by consuming them sequentially.
func NewEngine() forward.Engine {
	return &engine{
		appConf:    nil,
		provider:   nil,
		signals:    nil,
		metrics:    nil,
		done:       nil,
		table:      nil,
		configured: false,
		started:    false,
	}
}

// See Configure() of forward.Engine
func (e *engine) Configure(appConf *configs.AppConfig, provider route.DefinitionProvider, signals <-chan refresh.Signal) error {
	// Exit if already configured
	if e.configured {
		return nil
	}

	if provider == nil {
		return errors.Errorf("Engine: DefinitionProvider not configured!")
	}
	if signals == nil {
		return errors.Errorf("Engine: Signal channel not configured!")
	}

	e.appConf = appConf
	e.provider = provider
	e.signals = signals
	e.metrics = appConf.MetricsProvider
	e.done = make(chan struct{})
	e.configured = true
	logging.LogForComponent("Engine").Infoln("Configured Engine")
	return nil
}

// See Start() of forward.Engine
func (e *engine) Start() error {
	if !e.configured {
		return errors.Errorf("Engine was not configured! Please call Configure(). ")
	}
	if e.started {
		return nil
	}
	e.started = true

	// Initial table load. A failing load is not fatal: the engine starts
	// with an empty table and retries on the next refresh signal.
	e.refresh()

	go func() {
		for {
			select {
			case <-e.signals:
				e.refresh()
			case <-e.done:
				return
			}
		}
	}()
	return nil
}

// See Stop() of forward.Engine
func (e *engine) Stop() {
	if !e.started {
		return
	}
	e.started = false
	close(e.done)
}

// refresh recomputes the route table. The previous table stays in effect if
// the provider fails; a successful recomputation swaps the table atomically.
func (e *engine) refresh() {
	definitions, err := e.provider.ListDefinitions(context.Background())
	if err != nil {
		e.metrics.CountRefreshCycle(telemetry.OutcomeFailure)
		logging.LogForComponent("Engine").WithError(err).Errorln("Refresh failed, previous route table stays in effect")
		return
	}

	table := make([]*tableEntry, 0, len(definitions))
	for i := range definitions {
		table = append(table, newTableEntry(definitions[i]))
	}

	e.mutex.Lock()
	e.table = table
	e.mutex.Unlock()

	e.metrics.CountRefreshCycle(telemetry.OutcomeSuccess)
	e.metrics.SetActiveRoutes(len(table))
	logging.LogForComponent("Engine").Infof("Serving route table with %d routes", len(table))
}

func newTableEntry(definition route.Definition) *tableEntry {
	entry := &tableEntry{
		definition:  definition,
		pattern:     "",
		stripPrefix: 0,
		proxy:       nil,
	}

	for _, predicate := range definition.Predicates {
		if predicate.Name == routeInt.PredicatePath && len(predicate.Args) > 0 {
			entry.pattern = predicate.Args[0]
		}
	}

	for _, filter := range definition.Filters {
		switch filter.Name {
		case FilterStripPrefix:
			if len(filter.Args) == 1 {
				if parts, err := strconv.Atoi(filter.Args[0]); err == nil {
					entry.stripPrefix = parts
					continue
				}
			}
			logging.LogForComponent("Engine").Warnf("Route [%s] has malformed %s filter, ignoring", definition.ID, FilterStripPrefix)
		default:
			logging.LogForComponent("Engine").Warnf("Route [%s] has unsupported filter [%s], ignoring", definition.ID, filter.Name)
		}
	}

	target := definition.URI
	entry.proxy = httputil.NewSingleHostReverseProxy(&target)
	entry.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logging.LogForComponent("Engine").WithError(err).Warnf("Upstream of route [%s] failed", definition.ID)
		w.WriteHeader(http.StatusBadGateway)
	}
	return entry
}

// ServeHTTP resolves the request against the current table and proxies it to
// the matched upstream. Requests matching no route terminate with 502.
func (e *engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entry := e.resolve(r.URL.Path)
	if entry == nil {
		logging.LogForComponent("Engine").Debugf("No route matches path %q", r.URL.Path)
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	if entry.stripPrefix > 0 {
		r = r.Clone(r.Context())
		r.URL.Path = stripPathSegments(r.URL.Path, entry.stripPrefix)
	}
	entry.proxy.ServeHTTP(w, r)
}

// resolve returns the matching entry with the most specific path pattern.
// Order among competing routes is irrelevant: disambiguation happens solely
// through predicate specificity.
func (e *engine) resolve(path string) *tableEntry {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	var (
		best            *tableEntry
		bestSpecificity = -1
	)
	for _, entry := range e.table {
		if matched, specificity := matchPath(entry.pattern, path); matched && specificity > bestSpecificity {
			best = entry
			bestSpecificity = specificity
		}
	}
	return best
}

// matchPath matches a request path against a path pattern. Patterns ending in
// "/**" match any nested path, patterns ending in "/*" match exactly one more
// segment, all other patterns match exactly. The returned specificity is the
// length of the static pattern prefix.
func matchPath(pattern, path string) (bool, int) {
	switch {
	case strings.HasSuffix(pattern, "/**"):
		base := strings.TrimSuffix(pattern, "/**")
		if path == base || strings.HasPrefix(path, base+"/") {
			return true, len(base)
		}
	case strings.HasSuffix(pattern, "/*"):
		base := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, base+"/") {
			rest := strings.TrimPrefix(path, base+"/")
			if rest != "" && !strings.Contains(rest, "/") {
				return true, len(base)
			}
		}
	default:
		if path == pattern {
			return true, len(pattern)
		}
	}
	return false, 0
}

// stripPathSegments removes the given number of leading path segments.
func stripPathSegments(path string, count int) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if count >= len(segments) {
		return "/"
	}
	return "/" + strings.Join(segments[count:], "/")
}

// Routes implements forward.Engine by returning a copy of the served table.
func (e *engine) Routes() []route.Definition {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	result := make([]route.Definition, 0, len(e.table))
	for _, entry := range e.table {
		result = append(result, entry.definition.Copy())
	}
	return result
}
