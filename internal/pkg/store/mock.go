package store

import (
	"context"

	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/route"
)

// NewMock implements route.Store with fixed records. Only meant for tests.
func NewMock(records []route.Record, err error) route.Store {
	return &mockRouteStore{records: records, err: err}
}

type mockRouteStore struct {
	records []route.Record
	err     error
}

// See route.Store
func (s *mockRouteStore) Configure(appConf *configs.AppConfig, alias string) error {
	return nil
}

// See route.Store
func (s *mockRouteStore) ListEnabled(ctx context.Context) ([]route.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]route.Record, len(s.records))
	copy(result, s.records)
	return result, nil
}
