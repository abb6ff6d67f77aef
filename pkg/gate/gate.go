// Package gate contains the authentication gate which intercepts every
// inbound request before route resolution.
package gate

import (
	"context"
	"net/http"

	"github.com/unbasical/gatekeeper/configs"
)

// Identity holds the claims derived from a successful authority response.
// It lives for exactly one request: constructed from the response body,
// consumed to produce header mutations and then discarded.
type Identity struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	ServiceID   string `json:"serviceId"`
	AccountType string `json:"accountType"`
}

// AuthorityClient is the interface to the external authority which validates
// bearer credentials.
//
// Validate forwards the bearer token together with the accessed resource path
// and returns the identity wrapped in the authority's response. A transport
// failure, timeout, non-2xx status or malformed response body is returned as
// error. A structurally valid response without identity payload is returned
// as (nil, nil) - the caller decides how to treat a denied identity.
type AuthorityClient interface {
	Configure(appConf *configs.AppConfig) error
	Validate(ctx context.Context, token string, resourceURI string) (*Identity, error)
}

// Gate is the interface of the authentication gate.
//
// Its middleware owns the highest-priority position in the request chain: it
// must execute strictly before route resolution and any other
// request-processing filter. Every code path other than explicit identity
// success terminates the exchange without forwarding (fail-closed).
type Gate interface {

	// Configure has to be called once before the component can be used
	// (otherwise Middleware will panic on first use).
	Configure(appConf *configs.AppConfig) error

	// Middleware wraps the next handler with the authentication gate.
	Middleware(next http.Handler) http.Handler
}
