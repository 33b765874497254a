package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kerberos-io/translator/src/database"
	"github.com/kerberos-io/translator/src/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps one document per location in the "settings" collection,
// for deployments where several translators share a database.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri string, databaseName string) (*MongoStore, error) {
	db, err := database.New(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := db.Client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to reach mongodb: %w", err)
	}
	if databaseName == "" {
		databaseName = "translator"
	}
	return &MongoStore{
		collection: db.Client.Database(databaseName).Collection("settings"),
	}, nil
}

// Put upserts the whole record in a single update.
func (s *MongoStore) Put(ctx context.Context, settings models.Settings) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{
		"location": settings.Location,
	}, bson.M{"$set": settings}, options.Update().SetUpsert(true))
	return err
}

func (s *MongoStore) Get(ctx context.Context, location string) (models.Settings, error) {
	var record models.Settings
	err := s.collection.FindOne(ctx, bson.M{"location": location}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return record, ErrNotFound
	}
	return record, err
}

// Close leaves the shared client open, other stores may still use it.
func (s *MongoStore) Close() error {
	return nil
}
