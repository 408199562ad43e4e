// Package mongostore keeps the profile as one document in MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhisek/cmaster/internal/profile"
)

// document wraps the serialized profile so the stored JSON stays identical
// across backends.
type document struct {
	Key  string `bson:"_id"`
	Data string `bson:"data"`
}

// Store implements profile.Store on a MongoDB collection.
type Store struct {
	collection *mongo.Collection
	key        string
}

// New returns a Store on collection, keyed by profile.StorageKey.
func New(collection *mongo.Collection) *Store {
	return &Store{collection: collection, key: profile.StorageKey}
}

// Open connects to uri and returns a Store on database.collection along
// with a function that disconnects the client.
func Open(ctx context.Context, uri, database, collection string) (*Store, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return New(client.Database(database).Collection(collection)), client.Disconnect, nil
}

func (s *Store) Load(ctx context.Context) (profile.UserProfile, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": s.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return profile.New(), nil
	}
	if err != nil {
		return profile.UserProfile{}, fmt.Errorf("mongo find %s: %w", s.key, err)
	}
	return profile.Decode([]byte(doc.Data))
}

func (s *Store) Save(ctx context.Context, p profile.UserProfile) error {
	data, err := profile.Encode(p)
	if err != nil {
		return err
	}
	_, err = s.collection.ReplaceOne(ctx,
		bson.M{"_id": s.key},
		document{Key: s.key, Data: string(data)},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s: %w", s.key, err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": s.key}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", s.key, err)
	}
	return nil
}
