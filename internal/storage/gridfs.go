package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"aheyecare/internal/dbmongo"
)

// GridFSStorage adapts dbmongo.MediaStorage to Storage.
type GridFSStorage struct {
	media *dbmongo.MediaStorage
}

func NewGridFSStorage(media *dbmongo.MediaStorage) *GridFSStorage {
	return &GridFSStorage{media: media}
}

func (s *GridFSStorage) Write(ctx context.Context, key string, r io.Reader, contentType string) (int64, error) {
	file, err := s.media.UploadFile(ctx, key, contentType, r)
	if err != nil {
		return 0, err
	}
	return file.Size, nil
}

func (s *GridFSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	stream, _, err := s.media.DownloadFile(ctx, key)
	if err != nil {
		if errors.Is(err, dbmongo.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	return stream, nil
}

func (s *GridFSStorage) Delete(ctx context.Context, key string) error {
	return s.media.DeleteFile(ctx, key)
}
