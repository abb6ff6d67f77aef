package route

import (
	"context"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/route"
)

type provider struct {
	appConf    *configs.AppConfig
	store      route.Store
	configured bool
}

// NewProvider returns a new route.DefinitionProvider backed by the given store.
func NewProvider(store route.Store) route.DefinitionProvider {
	return &provider{
		appConf:    nil,
		store:      store,
		configured: false,
	}
}

// See Configure() of route.DefinitionProvider
func (p *provider) Configure(appConf *configs.AppConfig, alias string) error {
	// Exit if already configured
	if p.configured {
		return nil
	}

	if p.store == nil {
		return errors.Errorf("Provider: Store not configured!")
	}
	if err := p.store.Configure(appConf, alias); err != nil {
		return errors.Wrap(err, "Provider: Error while configuring store")
	}

	p.appConf = appConf
	p.configured = true
	logging.LogForComponent("Provider").Infoln("Configured Provider")
	return nil
}

// ListDefinitions implements route.DefinitionProvider.
//
// The table is recomputed synchronously on every call and returned
// all-or-nothing: a store read failure or a single translation failure fails
// the whole call and no partial table is ever returned. Callers are expected
// to keep serving their previously cached table until the next successful
// refresh.
func (p *provider) ListDefinitions(ctx context.Context) ([]route.Definition, error) {
	if !p.configured {
		return nil, errors.Errorf("Provider was not configured! Please call Configure(). ")
	}

	logging.LogForComponent("Provider").Debugln("Retrieving routes")
	records, err := p.store.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	definitions := make([]route.Definition, 0, len(records))
	for _, record := range records {
		definition, err := Translate(record)
		if err != nil {
			// One bad record fails the whole refresh cycle. Skipping it
			// instead would silently serve a route table the operator
			// never sees shrink.
			return nil, err
		}
		definitions = append(definitions, definition)
	}
	logging.LogForComponent("Provider").Debugf("Translated %d route definitions", len(definitions))
	return definitions, nil
}

// Save implements route.DefinitionProvider as a contractual no-op.
// Administrative route mutation runs through an external path, not through
// the gateway; it always succeeds immediately.
func (p *provider) Save(ctx context.Context, definition route.Definition) error {
	logging.LogForComponent("Provider").Debugf("Ignoring save of route definition [%s]", definition.ID)
	return nil
}

// Delete implements route.DefinitionProvider as a contractual no-op.
func (p *provider) Delete(ctx context.Context, routeID string) error {
	logging.LogForComponent("Provider").Debugf("Ignoring delete of route [%s]", routeID)
	return nil
}
