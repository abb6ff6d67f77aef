// Package refresh contains components that periodically trigger recomputation
// of the in-memory route table.
package refresh

import "github.com/unbasical/gatekeeper/configs"

// Signal is a payloadless "routes may have changed" event. It carries no data
// beyond the fact that a refresh was requested.
type Signal struct{}

// Notifier is the interface that emits refresh signals to the forwarding
// engine's refresh mechanism.
//
// The notifier is purely a trigger: it does not itself re-read or recompute
// anything. Signals are fire-and-forget; if a refresh cycle is still in
// progress when the next signal fires, the consumer is responsible for
// coalescing overlapping refresh requests.
type Notifier interface {

	// Configure has to be called once before the component can be used
	// (otherwise Start will return an error).
	Configure(appConf *configs.AppConfig) error

	// Start makes the notifier emit signals in a non-blocking manner.
	Start() error

	// Stop makes the notifier stop emitting signals.
	Stop()

	// Signals returns the channel on which refresh signals are emitted.
	Signals() <-chan Signal

	// Kick requests one immediate out-of-schedule refresh.
	Kick()
}
