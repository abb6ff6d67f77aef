package store

import (
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	"github.com/unbasical/gatekeeper/pkg/route"
)

// MakeRouteStore creates the route.Store implementation matching the
// configured type of the given datastore alias.
func MakeRouteStore(config *configs.DatastoreConfig, alias string) route.Store {
	ds, ok := config.Datastores[alias]
	if !ok {
		logging.LogForComponent("factory").Fatalf("No datastore with alias [%s] configured!", alias)
	}

	switch ds.Type {
	case constants.TypeMongo:
		logging.LogForComponent("factory").Infof("Init MongoRouteStore of type [%s] with alias [%s]", ds.Type, alias)
		return NewMongoRouteStore()
	default:
		logging.LogForComponent("factory").Infof("Init SqlRouteStore of type [%s] with alias [%s]", ds.Type, alias)
		return NewSQLRouteStore()
	}
}
