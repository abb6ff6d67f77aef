package route

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/internal/pkg/store"
	gkErr "github.com/unbasical/gatekeeper/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/route"
)

func strPtr(s string) *string {
	return &s
}

func testRecords() []route.Record {
	return []route.Record{
		{ID: 1, RouteID: "member-service", URI: "http://member-service:8080", Predicates: "/api/v1/member/**", Filters: strPtr("StripPrefix=2"), Enabled: true},
		{ID: 2, RouteID: "billing-service", URI: "http://billing-service:8080", Predicates: "/api/v1/billing/**", Enabled: true},
	}
}

func configuredProvider(t *testing.T, records []route.Record, storeErr error) route.DefinitionProvider {
	t.Helper()
	provider := NewProvider(store.NewMock(records, storeErr))
	err := provider.Configure(&configs.AppConfig{}, "routes")
	assert.NoError(t, err)
	return provider
}

func TestProviderUnconfiguredFails(t *testing.T) {
	provider := NewProvider(store.NewMock(nil, nil))
	_, err := provider.ListDefinitions(context.Background())
	assert.Error(t, err)
}

func TestProviderNilStoreFails(t *testing.T) {
	provider := NewProvider(nil)
	err := provider.Configure(&configs.AppConfig{}, "routes")
	assert.Error(t, err)
}

func TestProviderListDefinitions(t *testing.T) {
	provider := configuredProvider(t, testRecords(), nil)

	definitions, err := provider.ListDefinitions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, definitions, 2)
	assert.Equal(t, "member-service", definitions[0].ID)
	assert.Equal(t, "/api/v1/member/**", definitions[0].Predicates[0].Args[0])
	assert.Equal(t, "billing-service", definitions[1].ID)
	assert.Empty(t, definitions[1].Filters)
}

func TestProviderStoreErrorPropagates(t *testing.T) {
	storeErr := gkErr.StorageUnavailable{Alias: "routes"}
	provider := configuredProvider(t, nil, storeErr)

	definitions, err := provider.ListDefinitions(context.Background())
	assert.Nil(t, definitions)
	assert.ErrorAs(t, err, &gkErr.StorageUnavailable{})
}

func TestProviderTranslationFailureFailsWholeCycle(t *testing.T) {
	records := testRecords()
	records = append(records, route.Record{ID: 3, RouteID: "broken", URI: "no-scheme/path", Predicates: "/api/broken/**", Enabled: true})
	provider := configuredProvider(t, records, nil)

	definitions, err := provider.ListDefinitions(context.Background())
	assert.Nil(t, definitions)
	assert.Error(t, err)
	assert.IsType(t, gkErr.RouteTranslation{}, err)
}

func TestProviderListDefinitionsIsIdempotent(t *testing.T) {
	provider := configuredProvider(t, testRecords(), nil)

	first, err := provider.ListDefinitions(context.Background())
	assert.NoError(t, err)
	second, err := provider.ListDefinitions(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProviderConcurrentListDefinitions(t *testing.T) {
	provider := configuredProvider(t, testRecords(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			definitions, err := provider.ListDefinitions(context.Background())
			assert.NoError(t, err)
			assert.Len(t, definitions, 2)
		}()
	}
	wg.Wait()
}

func TestProviderSaveAndDeleteAreNoops(t *testing.T) {
	provider := configuredProvider(t, testRecords(), nil)

	assert.NoError(t, provider.Save(context.Background(), route.Definition{ID: "new-route"}))
	assert.NoError(t, provider.Delete(context.Background(), "member-service"))

	// The table is unaffected by either call.
	definitions, err := provider.ListDefinitions(context.Background())
	assert.NoError(t, err)
	assert.Len(t, definitions, 2)
}
