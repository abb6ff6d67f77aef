package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/unbasical/gatekeeper/configs"
)

func configuredTicker(t *testing.T, interval time.Duration) *tickerNotifier {
	t.Helper()
	appConf := &configs.AppConfig{}
	appConf.Gateway = &configs.GatewayConfig{RefreshInterval: interval}

	notifier := NewTicker()
	assert.NoError(t, notifier.Configure(appConf))
	return notifier.(*tickerNotifier)
}

func TestTickerUnconfiguredStartFails(t *testing.T) {
	assert.Error(t, NewTicker().Start())
}

func TestTickerEmitsOnInterval(t *testing.T) {
	notifier := configuredTicker(t, 10*time.Millisecond)
	assert.NoError(t, notifier.Start())
	defer notifier.Stop()

	select {
	case <-notifier.Signals():
	case <-time.After(time.Second):
		t.Fatal("expected a refresh signal within one second")
	}
}

func TestTickerKickEmitsImmediately(t *testing.T) {
	notifier := configuredTicker(t, time.Hour)

	notifier.Kick()
	select {
	case <-notifier.Signals():
	case <-time.After(time.Second):
		t.Fatal("expected a refresh signal after Kick")
	}
}

func TestTickerSignalsCoalesce(t *testing.T) {
	notifier := configuredTicker(t, time.Hour)

	// Redundant signals are dropped while one is already pending.
	notifier.Kick()
	notifier.Kick()
	notifier.Kick()

	<-notifier.Signals()
	select {
	case <-notifier.Signals():
		t.Fatal("pending signals should have coalesced into one")
	default:
	}
}

func TestTickerKickBeforeConfigureIsSafe(t *testing.T) {
	notifier := NewTicker()
	assert.NotPanics(t, notifier.Kick)
}

func TestTickerStopIsIdempotent(t *testing.T) {
	notifier := configuredTicker(t, 10*time.Millisecond)
	assert.NoError(t, notifier.Start())

	notifier.Stop()
	assert.NotPanics(t, notifier.Stop)
}
