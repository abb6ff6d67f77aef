// Package api contains components that handle incoming requests and delegate
// them through the gate.Gate to the forward.Engine.
package api

import (
	"time"

	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/forward"
	"github.com/unbasical/gatekeeper/pkg/gate"
)

// GatewayProxyConfig contains all configuration needed by a single api.GatewayProxy to run.
//
// Note that this configuration also contains all nested components. With this
// in mind, an instance of a GatewayProxy can be seen as a standalone server
// with all its subcomponents attached to it.
type GatewayProxyConfig struct {
	Gate   gate.Gate
	Engine forward.Engine
}

// GatewayProxy is the interface that serves as the external interface of gatekeeper.
//
// It accepts inbound client requests, passes them through the authentication
// gate and delegates accepted requests to the forwarding engine.
type GatewayProxy interface {

	// Configure() first triggers the Configure method of all sub-components and afterwards configures the GatewayProxy itself.
	// Please note that Configure has to be called once before the component can be used (Otherwise Start() will return an error)!
	//
	// If any sub-component or the GatewayProxy itself fails during this process, the encountered error will be returned (otherwise nil).
	Configure(appConf *configs.AppConfig, serverConf *GatewayProxyConfig) error

	// Start() will make the previous configured GatewayProxy handle incoming requests.
	//
	// This process should be implemented in a non-blocking manner!
	// If the GatewayProxy was not configured before, or any error occurred during startup, an error will be returned (otherwise nil).
	Start() error

	// Stop() will make the GatewayProxy to shutdown gracefully.
	//
	// If the GatewayProxy was not started before, or any error occurred during shutdown, an error will be returned (otherwise nil).
	Stop(deadline time.Duration) error
}
