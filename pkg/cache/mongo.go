package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection is the collection used when none is configured.
const DefaultMongoCollection = "clique_cache"

// MongoCache stores entries as documents {_id, data, expires_at}. A TTL
// index on expires_at lets the server purge expired entries; Get also
// checks expiry since the purge runs only once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri and prepares the collection in database db.
func NewMongoCache(ctx context.Context, uri, db, collection string) (*MongoCache, error) {
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(db).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ttl index: %w", err)
	}
	return &MongoCache{client: client, coll: coll}, nil
}

// Get implements [Cache].
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements [Cache].
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		exp := time.Now().Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

// Delete implements [Cache].
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Close implements [Cache].
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var _ Cache = (*MongoCache)(nil)
