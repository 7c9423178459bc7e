package dbmongo

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aheyecare/internal/common"
	"aheyecare/internal/config"
)

// newTestMediaStorage connects to the Mongo named by MONGO_TEST_HOST and skips otherwise.
func newTestMediaStorage(t *testing.T) *MediaStorage {
	t.Helper()
	host := os.Getenv("MONGO_TEST_HOST")
	if host == "" {
		t.Skip("MONGO_TEST_HOST not set")
	}
	port := os.Getenv("MONGO_TEST_PORT")
	if port == "" {
		port = "27017"
	}

	cfg := &config.Config{MongoDB: config.MongoConfig{
		Host:     host,
		Port:     port,
		Database: "aheyecare_test",
		Bucket:   "chat_uploads_" + uuid.NewString()[:8],
	}}
	client, err := NewMongoConnection(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.GridFS.Drop()
		_ = client.Close(ctx)
	})
	return NewMediaStorage(client)
}

func TestMediaStorage_RoundTrip(t *testing.T) {
	ms := newTestMediaStorage(t)
	ctx := context.Background()
	key := uuid.NewString() + ".png"

	uploaded, err := ms.UploadFile(ctx, key, "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.Equal(t, key, uploaded.Key)
	assert.Equal(t, int64(9), uploaded.Size)
	assert.Equal(t, common.MediaFileTypeImage, uploaded.FileType)

	stream, info, err := ms.DownloadFile(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.NoError(t, stream.Close())
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, "image/png", info.ContentType)

	require.NoError(t, ms.DeleteFile(ctx, key))
	_, _, err = ms.DownloadFile(ctx, key)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestMediaStorage_DeleteMissingKey(t *testing.T) {
	ms := newTestMediaStorage(t)
	assert.NoError(t, ms.DeleteFile(context.Background(), "missing.bin"))
}

func TestGetStringFromMap(t *testing.T) {
	assert.Equal(t, "", getStringFromMap(nil, "file_type"))
	assert.Equal(t, "image", getStringFromMap(map[string]interface{}{"file_type": "image"}, "file_type"))
	assert.Equal(t, "", getStringFromMap(map[string]interface{}{"file_type": 3}, "file_type"))
}
