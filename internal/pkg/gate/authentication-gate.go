package gate

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/internal/pkg/util"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/gate"
	"github.com/unbasical/gatekeeper/pkg/telemetry"
)

type authenticationGate struct {
	appConf    *configs.AppConfig
	authority  gate.AuthorityClient
	headers    *configs.IdentityHeaders
	metrics    telemetry.MetricsProvider
	configured bool
}

// NewAuthenticationGate returns a new gate.Gate validating every inbound
// request against the given authority before it is forwarded.
func NewAuthenticationGate(authority gate.AuthorityClient) gate.Gate {
	return &authenticationGate{
		appConf:    nil,
		authority:  authority,
		headers:    nil,
		metrics:    nil,
		configured: false,
	}
}

// See Configure() of gate.Gate
func (g *authenticationGate) Configure(appConf *configs.AppConfig) error {
	// Exit if already configured
	if g.configured {
		return nil
	}

	if g.authority == nil {
		return errors.Errorf("AuthenticationGate: AuthorityClient not configured!")
	}
	if err := g.authority.Configure(appConf); err != nil {
		return errors.Wrap(err, "AuthenticationGate: Error while configuring authority client")
	}

	g.appConf = appConf
	g.headers = appConf.Gateway.IdentityHeaders
	g.metrics = appConf.MetricsProvider
	g.configured = true
	logging.LogForComponent("AuthenticationGate").Infoln("Configured AuthenticationGate")
	return nil
}

// Middleware implements gate.Gate.
//
// The gate is fail-closed: every code path other than explicit identity
// success terminates the exchange with a bare status code and never invokes
// the next handler.
func (g *authenticationGate) Middleware(next http.Handler) http.Handler {
	if !g.configured {
		logging.LogForComponent("AuthenticationGate").Panic("AuthenticationGate was not configured! Please call Configure(). ")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r = util.AssignRequestUID(r)
		start := time.Now()

		authHeader := r.Header.Get(constants.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, constants.BearerPrefix) {
			g.reject(w, r, http.StatusUnauthorized, telemetry.DecisionNoCredential, start, nil)
			return
		}
		token := strings.TrimPrefix(authHeader, constants.BearerPrefix)

		// The resource uri is the path component only, excluding any query string.
		identity, err := g.authority.Validate(r.Context(), token, r.URL.Path)
		if err != nil {
			g.reject(w, r, http.StatusUnauthorized, telemetry.DecisionUnauthorized, start, err)
			return
		}
		if identity == nil {
			g.reject(w, r, http.StatusForbidden, telemetry.DecisionForbidden, start, nil)
			return
		}

		g.metrics.CountAuthDecision(telemetry.DecisionAccepted)
		logging.LogAuthDecision(r.URL.Path, r.Method, time.Since(start).String(), telemetry.DecisionAccepted, "AuthenticationGate")

		// The inbound request is treated as immutable: enrichment is a
		// copy-on-write operation so concurrently held references to the
		// original request stay unaffected.
		writer := telemetry.NewPassThroughResponseWriter(w)
		next.ServeHTTP(writer, g.enrich(r, identity))
		logging.LogForComponent("AuthenticationGate").Debugf("Request [%s %s] completed with status %d", r.Method, r.URL.Path, writer.StatusCode())
	})
}

// enrich produces a copy of the request carrying the identity claims under
// the configured header names.
func (g *authenticationGate) enrich(r *http.Request, identity *gate.Identity) *http.Request {
	enriched := r.Clone(r.Context())
	enriched.Header.Set(g.headers.UserID, identity.UserID)
	enriched.Header.Set(g.headers.Username, identity.Username)
	enriched.Header.Set(g.headers.ServiceID, identity.ServiceID)
	enriched.Header.Set(g.headers.AccountType, identity.AccountType)
	return enriched
}

// reject terminates the exchange with a bare status code.
func (g *authenticationGate) reject(w http.ResponseWriter, r *http.Request, status int, decision string, start time.Time, cause error) {
	g.metrics.CountAuthDecision(decision)
	if cause != nil {
		logging.LogAuthDecisionError(r.URL.Path, r.Method, time.Since(start).String(), cause.Error(), util.GetRequestUID(r), decision, "AuthenticationGate")
	} else {
		logging.LogAuthDecision(r.URL.Path, r.Method, time.Since(start).String(), decision, "AuthenticationGate")
	}
	w.WriteHeader(status)
}
