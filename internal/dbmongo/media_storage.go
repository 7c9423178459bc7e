package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aheyecare/internal/common"
)

var ErrFileNotFound = errors.New("file not found")

// MediaStorage stores attachments in GridFS, one file per storage key.
type MediaStorage struct {
	gridFS *gridfs.Bucket
}

func NewMediaStorage(mongoClient *MongoClient) *MediaStorage {
	return &MediaStorage{
		gridFS: mongoClient.GridFS,
	}
}

type MediaFile struct {
	ID          string               `json:"id"`       // GridFS ObjectID
	Key         string               `json:"key"`      // storage key, used as the GridFS filename
	Size        int64                `json:"size"`     // bytes
	FileType    common.MediaFileType `json:"file_type"`
	ContentType string               `json:"content_type"`
	UploadedAt  time.Time            `json:"uploaded_at"`
}

func (ms *MediaStorage) UploadFile(ctx context.Context, key, mimeType string, content io.Reader) (*MediaFile, error) {
	fileType := common.DetectFileType(mimeType)

	metadata := bson.M{
		"file_type":   fileType.String(),
		"mime_type":   mimeType,
		"uploaded_at": time.Now().UTC(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := ms.gridFS.OpenUploadStream(key, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	size, err := io.Copy(stream, content)
	if err != nil {
		_ = stream.Abort()
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("upload close failed: %w", err)
	}

	id, _ := stream.FileID.(primitive.ObjectID)
	return &MediaFile{
		ID:          id.Hex(),
		Key:         key,
		Size:        size,
		FileType:    fileType,
		ContentType: mimeType,
		UploadedAt:  time.Now().UTC(),
	}, nil
}

// DownloadFile opens the newest revision stored under key.
func (ms *MediaStorage) DownloadFile(ctx context.Context, key string) (*gridfs.DownloadStream, *MediaFile, error) {
	stream, err := ms.gridFS.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, key)
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	id, _ := fileInfo.ID.(primitive.ObjectID)
	mediaFile := &MediaFile{
		ID:          id.Hex(),
		Key:         fileInfo.Name,
		Size:        fileInfo.Length,
		FileType:    common.MediaFileType(getStringFromMap(metadata, "file_type")),
		ContentType: getStringFromMap(metadata, "mime_type"),
		UploadedAt:  fileInfo.UploadDate,
	}

	return stream, mediaFile, nil
}

// DeleteFile removes every revision stored under key.
func (ms *MediaStorage) DeleteFile(ctx context.Context, key string) error {
	cursor, err := ms.gridFS.FindContext(ctx, bson.M{"filename": key})
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	defer cursor.Close(ctx)

	var files []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &files); err != nil {
		return fmt.Errorf("lookup decode failed: %w", err)
	}

	for _, f := range files {
		if err := ms.gridFS.DeleteContext(ctx, f.ID); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("delete failed: %w", err)
		}
	}
	return nil
}

// Helper function for metadata extraction
func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
