package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "sounding_records"

// recordsDocument holds the whole serialized record list under a fixed key.
type recordsDocument struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoDBRepository stores the record list as a single MongoDB document.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	key      string
	now      func() time.Time
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, key string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return newRepository(client, dbName, collectionName, key), nil
}

func newRepository(client *mongo.Client, dbName, collName, key string) *MongoDBRepository {
	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: collName,
		key:      key,
		now:      time.Now,
	}
}

// Read returns the stored payload, or nil when nothing was saved yet.
func (r *MongoDBRepository) Read(ctx context.Context) ([]byte, error) {
	var doc recordsDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": r.key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load sounding records: %w", err)
	}
	return []byte(doc.Payload), nil
}

// Write upserts the payload document.
func (r *MongoDBRepository) Write(ctx context.Context, data []byte) error {
	update := bson.M{"$set": bson.M{
		"payload":    string(data),
		"updated_at": r.now().UTC(),
	}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": r.key}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save sounding records: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}
