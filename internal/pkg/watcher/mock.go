package watcher

import (
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/watcher"
)

// Implements pkg.watcher.ConfigWatcher without any loading at all.
func NewMock() watcher.ConfigWatcher {
	return &mockConfigWatcher{}
}

type mockConfigWatcher struct{}

// See pkg.watcher.ConfigWatcher
func (w *mockConfigWatcher) Watch(callback func(watcher.ChangeType, *configs.ExternalConfig, error)) {
}
