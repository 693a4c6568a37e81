package database

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travel-booking/catalog"
)

const VendorsCollection = "vendors"

func Connect(ctx context.Context, connString string, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(connString).SetRegistry(documentRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to the db: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("db is not available: %w", err)
	}

	return client.Database(dbName), nil
}

// documentRegistry decodes embedded documents as bson.M instead of bson.D.
func documentRegistry() *bsoncodec.Registry {
	return bson.NewRegistryBuilder().
		RegisterTypeMapEntry(bsontype.EmbeddedDocument, reflect.TypeOf(bson.M{})).
		Build()
}

type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) collection(k *catalog.Kind) *mongo.Collection {
	return s.db.Collection(k.Collection)
}

// EnsureIndexes creates the owner index on every collection and the
// booking owner index the aggregated view relies on.
func (s *Store) EnsureIndexes(ctx context.Context, kinds []*catalog.Kind) error {
	for _, k := range kinds {
		models := []mongo.IndexModel{
			{Keys: bson.D{{Key: "vendorId", Value: 1}}},
		}
		if k.Bookable() {
			models = append(models, mongo.IndexModel{Keys: bson.D{{Key: "bookings.userId", Value: 1}}})
		}
		if _, err := s.collection(k).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", k.Collection, err)
		}
	}
	return nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]bson.M, error) {
	defer cur.Close(ctx)
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
