// Package forward contains the forwarding engine which consumes the route
// table and proxies inbound requests to their upstream targets.
package forward

import (
	"net/http"

	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/refresh"
	"github.com/unbasical/gatekeeper/pkg/route"
)

// Engine is the interface of the forwarding engine.
//
// The engine pulls the full route table from the route.DefinitionProvider
// whenever a refresh signal arrives and keeps serving its previously cached
// table if a refresh fails. Overlapping refresh signals are coalesced by the
// engine - the notifier emits them fire-and-forget.
type Engine interface {
	http.Handler

	// Configure has to be called once before the component can be used
	// (otherwise Start will return an error).
	Configure(appConf *configs.AppConfig, provider route.DefinitionProvider, signals <-chan refresh.Signal) error

	// Start performs the initial table load and makes the engine consume
	// refresh signals in a non-blocking manner.
	Start() error

	// Stop makes the engine stop consuming refresh signals.
	Stop()

	// Routes returns a copy of the currently served route table.
	Routes() []route.Definition
}
