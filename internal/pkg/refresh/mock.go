package refresh

import (
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/refresh"
)

// NewMock implements refresh.Notifier without any scheduling. Signals are
// only emitted through Kick. Only meant for tests.
func NewMock() refresh.Notifier {
	return &mockNotifier{signals: make(chan refresh.Signal, 1)}
}

type mockNotifier struct {
	signals chan refresh.Signal
}

// See refresh.Notifier
func (n *mockNotifier) Configure(appConf *configs.AppConfig) error {
	return nil
}

// See refresh.Notifier
func (n *mockNotifier) Start() error {
	return nil
}

// See refresh.Notifier
func (n *mockNotifier) Stop() {}

// See refresh.Notifier
func (n *mockNotifier) Signals() <-chan refresh.Signal {
	return n.signals
}

// See refresh.Notifier
func (n *mockNotifier) Kick() {
	select {
	case n.signals <- refresh.Signal{}:
	default:
	}
}
