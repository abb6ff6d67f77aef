// Package refresh contains the scheduler which periodically signals that
// routes may have changed.
package refresh

import (
	"time"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/refresh"
)

type tickerNotifier struct {
	appConf    *configs.AppConfig
	interval   time.Duration
	signals    chan refresh.Signal
	done       chan struct{}
	configured bool
	started    bool
}

// NewTicker returns a new refresh.Notifier emitting a signal at the
// configured fixed interval. No jitter, no backoff and no
// skip-if-already-running guard: signals are posted fire-and-forget and
// coalesce in the capacity-1 channel if the consumer is still busy.
func NewTicker() refresh.Notifier {
	return &tickerNotifier{
		appConf:    nil,
		interval:   0,
		signals:    nil,
		done:       nil,
		configured: false,
		started:    false,
	}
}

// See Configure() of refresh.Notifier
func (n *tickerNotifier) Configure(appConf *configs.AppConfig) error {
	// Exit if already configured
	if n.configured {
		return nil
	}

	n.appConf = appConf
	n.interval = appConf.Gateway.RefreshInterval
	n.signals = make(chan refresh.Signal, 1)
	n.done = make(chan struct{})
	n.configured = true
	logging.LogForComponent("TickerNotifier").Infof("Configured TickerNotifier with interval %s", n.interval)
	return nil
}

// See Start() of refresh.Notifier
func (n *tickerNotifier) Start() error {
	if !n.configured {
		return errors.Errorf("TickerNotifier was not configured! Please call Configure(). ")
	}
	if n.started {
		return nil
	}
	n.started = true

	go func() {
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logging.LogForComponent("TickerNotifier").Debugln("Refreshing routes from store")
				n.emit()
			case <-n.done:
				return
			}
		}
	}()
	return nil
}

// See Stop() of refresh.Notifier
func (n *tickerNotifier) Stop() {
	if !n.started {
		return
	}
	n.started = false
	close(n.done)
}

// See Signals() of refresh.Notifier
func (n *tickerNotifier) Signals() <-chan refresh.Signal {
	return n.signals
}

// See Kick() of refresh.Notifier
func (n *tickerNotifier) Kick() {
	if !n.configured {
		return
	}
	n.emit()
}

// emit posts one signal without ever blocking the scheduling timeline.
// A signal already in flight makes the new one redundant, so it is dropped.
func (n *tickerNotifier) emit() {
	select {
	case n.signals <- refresh.Signal{}:
	default:
	}
}
