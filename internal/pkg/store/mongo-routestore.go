package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/configs"
	"github.com/unbasical/gatekeeper/pkg/constants"
	"github.com/unbasical/gatekeeper/pkg/constants/logging"
	gkErr "github.com/unbasical/gatekeeper/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/route"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoRouteStore struct {
	appConf    *configs.AppConfig
	alias      string
	client     *mongo.Client
	collection *mongo.Collection
	configured bool
}

// mongoRouteRecord mirrors route.Record with bson mappings.
type mongoRouteRecord struct {
	ID         int64   `bson:"id"`
	RouteID    string  `bson:"route_id"`
	URI        string  `bson:"uri"`
	Predicates string  `bson:"predicates"`
	Filters    *string `bson:"filters"`
	Enabled    bool    `bson:"enabled"`
}

// NewMongoRouteStore returns a new route.Store which is able to read enabled
// route records from a MongoDB collection.
func NewMongoRouteStore() route.Store {
	return &mongoRouteStore{
		appConf:    nil,
		alias:      "",
		client:     nil,
		collection: nil,
		configured: false,
	}
}

func (s *mongoRouteStore) Configure(appConf *configs.AppConfig, alias string) error {
	// Exit if already configured
	if s.configured {
		return nil
	}

	// Validate config
	conf, e := extractAndValidateDatastore(appConf, alias)
	if e != nil {
		return errors.Wrap(e, "MongoRouteStore:")
	}

	// Connect client
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(getConnectionStringForPlatform(conf.Type, conf.Connection))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return errors.Wrap(err, "MongoRouteStore: Error while connecting client")
	}

	// Ping mongodb for 60 seconds every 3 seconds
	err = pingUntilReachable(alias, func() error {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer pingCancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		return errors.Wrap(err, "MongoRouteStore:")
	}

	collectionName := routesEntity
	if name, ok := conf.Metadata[constants.MetaCollection]; ok {
		collectionName = name
	}

	// Assign values
	s.appConf = appConf
	s.alias = alias
	s.client = client
	s.collection = client.Database(conf.Connection["database"]).Collection(collectionName)
	s.configured = true
	logging.LogForComponent("MongoRouteStore").Infof("Configured [%s]", alias)
	return nil
}

// ListEnabled implements route.Store by reading all enabled route documents.
func (s *mongoRouteStore) ListEnabled(ctx context.Context) ([]route.Record, error) {
	if !s.configured {
		return nil, errors.Errorf("MongoRouteStore was not configured! Please call Configure(). ")
	}

	cursor, err := s.collection.Find(ctx, bson.M{"enabled": true})
	if err != nil {
		return nil, gkErr.StorageUnavailable{Alias: s.alias, Cause: err}
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logging.LogForComponent("MongoRouteStore").Panic("Unable to close cursor!")
		}
	}()

	var records []route.Record
	for cursor.Next(ctx) {
		var doc mongoRouteRecord
		if err := cursor.Decode(&doc); err != nil {
			return nil, gkErr.StorageUnavailable{Alias: s.alias, Cause: err}
		}
		records = append(records, route.Record{
			ID:         doc.ID,
			RouteID:    doc.RouteID,
			URI:        doc.URI,
			Predicates: doc.Predicates,
			Filters:    doc.Filters,
			Enabled:    doc.Enabled,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, gkErr.StorageUnavailable{Alias: s.alias, Cause: err}
	}
	return records, nil
}
