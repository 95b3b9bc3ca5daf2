// Package mongo provides the MongoDB-backed record store.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Collection names.
const (
	RecordsCollection = "records"
	stagingCollection = "records_staging"
)

// DefaultConnectTimeout bounds Open when the caller's context has no deadline.
const DefaultConnectTimeout = 15 * time.Second

// DB represents a MongoDB database connection.
type DB struct {
	uri  string
	name string

	client *mongo.Client
	db     *mongo.Database
}

// NewDB creates a new DB for the given connection URI and database name.
func NewDB(uri, name string) *DB {
	return &DB{uri: uri, name: name}
}

// Open connects, verifies the primary is reachable and creates indexes.
func (db *DB) Open(ctx context.Context) error {
	if db.uri == "" {
		return fmt.Errorf("mongo connection URI required")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultConnectTimeout)
		defer cancel()
	}

	opts := options.Client().ApplyURI(db.uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetWriteConcern(writeconcern.Majority()).
		SetReadConcern(readconcern.Majority()).
		SetReadPreference(readpref.Primary())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db.client = client
	db.db = client.Database(db.name)

	if err := createIndexes(ctx, db.db.Collection(RecordsCollection)); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Close disconnects the client.
func (db *DB) Close() error {
	if db.client != nil {
		return db.client.Disconnect(context.Background())
	}
	return nil
}

// PingContext verifies the primary is still reachable.
func (db *DB) PingContext(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// Name returns the database name.
func (db *DB) Name() string {
	return db.name
}

// Collection returns a handle to the named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.db.Collection(name)
}

// renameCollection atomically renames from over to, dropping the old target.
func (db *DB) renameCollection(ctx context.Context, from, to string) error {
	cmd := bson.D{
		{Key: "renameCollection", Value: db.name + "." + from},
		{Key: "to", Value: db.name + "." + to},
		{Key: "dropTarget", Value: true},
	}
	return db.client.Database("admin").RunCommand(ctx, cmd).Err()
}

// createIndexes enforces identity uniqueness and supports insertion-order reads.
func createIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "districtId", Value: 1},
				{Key: "talukId", Value: 1},
				{Key: "hobliId", Value: 1},
				{Key: "villageId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("identity_idx"),
		},
		{
			Keys:    bson.D{{Key: "seq", Value: 1}},
			Options: options.Index().SetName("seq_idx"),
		},
	})
	return err
}
