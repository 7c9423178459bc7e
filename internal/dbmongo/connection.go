// Package dbmongo connects to MongoDB and keeps chat attachments in GridFS.
package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aheyecare/internal/config"
	"aheyecare/internal/logging"
)

const defaultConnectTimeout = 10 * time.Second

// MongoClient bundles the client with the attachment database and bucket.
type MongoClient struct {
	Client   *mongo.Client
	Database *mongo.Database
	GridFS   *gridfs.Bucket
}

// NewMongoConnection dials MongoDB, verifies it with a ping and opens the
// GridFS bucket named by MONGO_BUCKET. The whole handshake is bounded by
// MONGO_CONNECT_TIMEOUT.
func NewMongoConnection(c *config.Config) (*MongoClient, error) {
	mc := c.MongoDB
	if mc.Database == "" {
		return nil, errors.New("MONGO_DATABASE is not set")
	}
	if mc.Bucket == "" {
		return nil, errors.New("MONGO_BUCKET is not set")
	}

	timeout := mc.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	clientOptions := options.Client().
		ApplyURI(c.GetMongoURI()).
		SetAppName("aheyecare").
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s:%s: %w", mc.Host, mc.Port, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB at %s:%s: %w", mc.Host, mc.Port, err)
	}

	database := client.Database(mc.Database)
	bucket, err := gridfs.NewBucket(database, options.GridFSBucket().SetName(mc.Bucket))
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to open GridFS bucket %q in %s: %w", mc.Bucket, mc.Database, err)
	}

	logging.L().Info().
		Str("database", mc.Database).
		Str("bucket", mc.Bucket).
		Msg("connected to MongoDB")

	return &MongoClient{
		Client:   client,
		Database: database,
		GridFS:   bucket,
	}, nil
}

func (mc *MongoClient) Close(ctx context.Context) error {
	return mc.Client.Disconnect(ctx)
}
