package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	// Import mysql driver
	_ "github.com/go-sql-driver/mysql"
	// Import postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	gkErr "github.com/unbasical/gatekeeper/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/route"
)

const sqlListEnabledRoutes = "SELECT id, route_id, uri, predicates, filters, enabled FROM " + routesEntity + " WHERE enabled = true"

type sqlRouteStore struct {
	appConf    *configs.AppConfig
	alias      string
	dbPool     *sql.DB
	configured bool
}

// NewSQLRouteStore returns a new route.Store which is able to read enabled
// route records from PostgreSQL and MySQL databases.
func NewSQLRouteStore() route.Store {
	return &sqlRouteStore{
		appConf:    nil,
		alias:      "",
		dbPool:     nil,
		configured: false,
	}
}

func (s *sqlRouteStore) Configure(appConf *configs.AppConfig, alias string) error {
	// Exit if already configured
	if s.configured {
		return nil
	}

	// Validate config
	conf, e := extractAndValidateDatastore(appConf, alias)
	if e != nil {
		return errors.Wrap(e, "SqlRouteStore:")
	}

	// Init database connection pool
	db, err := sql.Open(driverForPlatform(conf.Type), getConnectionStringForPlatform(conf.Type, conf.Connection))
	if err != nil {
		return errors.Wrap(err, "SqlRouteStore: Error while connecting to database")
	}

	// Configure metadata
	if err := applyMetadataConfigs(conf, db); err != nil {
		return errors.Wrap(err, "SqlRouteStore: Error while configuring metadata")
	}

	// Ping database for 60 seconds every 3 seconds
	if err := pingUntilReachable(alias, db.Ping); err != nil {
		return errors.Wrap(err, "SqlRouteStore:")
	}

	// Assign values
	s.appConf = appConf
	s.alias = alias
	s.dbPool = db
	s.configured = true
	logging.LogForComponent("SqlRouteStore").Infof("Configured [%s]", alias)
	return nil
}

func driverForPlatform(platform string) string {
	// lib/pq registers itself as "postgres", go-sql-driver as "mysql" -
	// both match the configured datastore types.
	return platform
}

func applyMetadataConfigs(conf *configs.Datastore, db *sql.DB) error {
	if conf.Metadata == nil {
		return nil
	}
	if maxOpenValue, ok := conf.Metadata[constants.MetaMaxOpenConnections]; ok {
		maxOpen, err := strconv.Atoi(maxOpenValue)
		if err != nil {
			return errors.Wrap(err, "Error while setting maxOpenConnections")
		}
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdleValue, ok := conf.Metadata[constants.MetaMaxIdleConnections]; ok {
		maxIdle, err := strconv.Atoi(maxIdleValue)
		if err != nil {
			return errors.Wrap(err, "Error while setting maxIdleConnections")
		}
		db.SetMaxIdleConns(maxIdle)
	}
	if maxLifetimeSecondsValue, ok := conf.Metadata[constants.MetaConnectionMaxLifetimeSeconds]; ok {
		maxLifetimeSeconds, err := strconv.Atoi(maxLifetimeSecondsValue)
		if err != nil {
			return errors.Wrap(err, "Error while setting connectionMaxLifetimeSeconds")
		}
		db.SetConnMaxLifetime(time.Second * time.Duration(maxLifetimeSeconds))
	}
	return nil
}

// ListEnabled implements route.Store by reading all enabled route rows.
func (s *sqlRouteStore) ListEnabled(ctx context.Context) ([]route.Record, error) {
	if !s.configured {
		return nil, errors.Errorf("SqlRouteStore was not configured! Please call Configure(). ")
	}

	rows, err := s.dbPool.QueryContext(ctx, sqlListEnabledRoutes)
	if err != nil {
		return nil, gkErr.StorageUnavailable{Alias: s.alias, Cause: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.LogForComponent("SqlRouteStore").Panic("Unable to close Result-Set!")
		}
	}()

	var records []route.Record
	for rows.Next() {
		var (
			record  route.Record
			filters sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.RouteID, &record.URI, &record.Predicates, &filters, &record.Enabled); err != nil {
			return nil, gkErr.StorageUnavailable{Alias: s.alias, Cause: err}
		}
		if filters.Valid {
			value := filters.String
			record.Filters = &value
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, gkErr.StorageUnavailable{Alias: s.alias, Cause: err}
	}
	return records, nil
}
