package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is the collection MongoStore writes to.
const MongoCollection = "sessions"

// MongoStore keeps records in a MongoDB collection. A TTL index on
// expires_at lets the server drop expired documents; Cleanup removes any
// that the background monitor has not reached yet. Records that never expire
// are stored without expires_at, which keeps them out of the index.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri and uses the sessions collection of database.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s, err := NewMongoStoreFromClient(ctx, client, database)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewMongoStoreFromClient wraps an existing client and ensures the TTL
// index exists. Close leaves the client connected.
func NewMongoStoreFromClient(ctx context.Context, client *mongo.Client, database string) (*MongoStore, error) {
	coll := client.Database(database).Collection(MongoCollection)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("create ttl index: %w", err)
	}
	return &MongoStore{client: client, coll: coll}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	if rec.IsExpired() {
		return nil, nil
	}
	return &rec, nil
}

func (s *MongoStore) Set(ctx context.Context, rec *Record) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, opts); err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

func (s *MongoStore) Cleanup(ctx context.Context) error {
	filter := bson.M{"expires_at": bson.M{"$lt": time.Now()}}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("mongo cleanup: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
