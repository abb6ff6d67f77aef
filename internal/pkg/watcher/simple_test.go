package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/watcher"
)

const validConfig = `
data:
  datastores:
    routes-db:
      type: postgres
      connection:
        host: localhost
gateway:
  route-store: routes-db
  authority:
    base-url: http://localhost:7095/api/v1/auth
  identity-headers:
    user-id: X-User-Id
    username: X-User-Name
    service-id: X-Service-Id
    account-type: X-Account-Type
`

func TestSimpleWatcherLoadsOnce(t *testing.T) {
	simple := NewSimple(configs.ByteConfigLoader{ConfigBytes: []byte(validConfig)})

	var (
		gotChange watcher.ChangeType
		gotConf   *configs.ExternalConfig
		gotErr    error
		calls     int
	)
	simple.Watch(func(change watcher.ChangeType, conf *configs.ExternalConfig, err error) {
		gotChange = change
		gotConf = conf
		gotErr = err
		calls++
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, watcher.ChangeAll, gotChange)
	assert.NoError(t, gotErr)
	assert.Equal(t, "routes-db", gotConf.Gateway.RouteStore)
}

func TestSimpleWatcherPropagatesLoadError(t *testing.T) {
	simple := NewSimple(configs.ByteConfigLoader{})

	var gotErr error
	simple.Watch(func(change watcher.ChangeType, conf *configs.ExternalConfig, err error) {
		gotErr = err
	})
	assert.Error(t, gotErr)
}

func TestMockWatcherNeverCallsBack(t *testing.T) {
	calls := 0
	NewMock().Watch(func(change watcher.ChangeType, conf *configs.ExternalConfig, err error) {
		calls++
	})
	assert.Equal(t, 0, calls)
}
