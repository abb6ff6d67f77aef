package configs

import (
	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/constants"
)

// Datastore holds the connection settings of one configured datastore.
type Datastore struct {
	Type       string            `yaml:"type"`
	Connection map[string]string `yaml:"connection"`
	Metadata   map[string]string `yaml:"metadata"`
}

// DatastoreConfig holds all configured datastores mapped by their alias.
type DatastoreConfig struct {
	Datastores map[string]*Datastore `yaml:"datastores"`
}

func (c *DatastoreConfig) validate() error {
	if len(c.Datastores) == 0 {
		return errors.Errorf("No datastores configured!")
	}
	for alias, ds := range c.Datastores {
		switch ds.Type {
		case constants.TypePostgres, constants.TypeMysql, constants.TypeMongo:
		default:
			return errors.Errorf("Datastore with alias [%s] has unsupported type %q", alias, ds.Type)
		}
		if len(ds.Connection) == 0 {
			return errors.Errorf("Datastore with alias [%s] has no connection configured!", alias)
		}
	}
	return nil
}
