// Package store contains the route store clients which read enabled route
// records from persistent storage.
package store

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
)

// Name of the table respectively collection holding route records.
const routesEntity = "routes"

func extractAndValidateDatastore(appConf *configs.AppConfig, alias string) (*configs.Datastore, error) {
	if appConf == nil {
		return nil, errors.Errorf("AppConfig not configured!")
	}
	if alias == "" {
		return nil, errors.Errorf("Empty alias provided!")
	}

	// Validate configuration
	conf, ok := appConf.Data.Datastores[alias]
	if !ok {
		return nil, errors.Errorf("No datastore with alias [%s] configured!", alias)
	}
	if conf.Type == "" {
		return nil, errors.Errorf("Alias of datastore is empty! Must be one of %+v!", []string{constants.TypePostgres, constants.TypeMysql, constants.TypeMongo})
	}
	if err := validateConnection(alias, conf.Connection); err != nil {
		return nil, err
	}
	return conf, nil
}

func validateConnection(alias string, conn map[string]string) error {
	for _, field := range []string{"host", "port", "database", "user", "password"} {
		if _, ok := conn[field]; !ok {
			return errors.Errorf("Field %s is missing in connection-configuration of datastore [%s]!", field, alias)
		}
	}
	return nil
}

func getConnectionStringForPlatform(platform string, conn map[string]string) string {
	host := conn["host"]
	port := conn["port"]
	user := conn["user"]
	password := conn["password"]
	dbname := conn["database"]

	switch platform {
	case constants.TypePostgres:
		sslmode, ok := conn["sslmode"]
		if !ok {
			sslmode = "disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", host, port, user, password, dbname, sslmode)
	case constants.TypeMysql:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, password, host, port, dbname)
	case constants.TypeMongo:
		return fmt.Sprintf("mongodb://%s:%s@%s:%s", user, password, host, port)
	default:
		panic(fmt.Sprintf("Platform [%s] is not supported!", platform))
	}
}

// pingUntilReachable pings the datastore every 3 seconds for 1 minute until it is reachable.
func pingUntilReachable(alias string, ping func() error) error {
	var pingFailure error
	for i := 0; i < 20; i++ {
		if pingFailure = ping(); pingFailure == nil {
			// Ping succeeded
			return nil
		}
		logging.LogForComponent("store").Infof("Waiting for datastore [%s] to be reachable...", alias)
		<-time.After(3 * time.Second)
	}
	if pingFailure != nil {
		return errors.Wrap(pingFailure, "Unable to ping database")
	}
	return nil
}
