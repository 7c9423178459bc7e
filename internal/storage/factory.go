package storage

import (
	"context"
	"fmt"
	"time"

	"aheyecare/internal/config"
	"aheyecare/internal/dbmongo"
)

// New builds the attachment store selected by cfg.Storage.Backend. The
// returned cleanup releases any connection the backend opened.
func New(ctx context.Context, cfg *config.Config) (Storage, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case "", "local":
		s, err := NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case "gridfs":
		client, err := dbmongo.NewMongoConnection(cfg)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(ctx)
		}
		return NewGridFSStorage(dbmongo.NewMediaStorage(client)), cleanup, nil

	case "s3":
		s, err := NewS3Storage(ctx, S3Config{
			Endpoint:        cfg.Storage.S3Endpoint,
			Region:          cfg.Storage.S3Region,
			Bucket:          cfg.Storage.S3Bucket,
			AccessKeyID:     cfg.Storage.S3AccessKey,
			SecretAccessKey: cfg.Storage.S3SecretKey,
			UsePathStyle:    cfg.Storage.S3PathStyle,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	default:
		return nil, noop, fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
}
