package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	if out := args.Get(0); out != nil {
		return out.(*s3.GetObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Storage_Write(t *testing.T) {
	client := new(mockS3)
	store := NewS3StorageWithClient(client, "uploads")

	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "uploads" &&
			aws.ToString(in.Key) == "a.png" &&
			aws.ToInt64(in.ContentLength) == 5 &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(nil)

	n, err := store.Write(context.Background(), "a.png", strings.NewReader("hello"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	client.AssertExpectations(t)
}

func TestS3Storage_WriteError(t *testing.T) {
	client := new(mockS3)
	store := NewS3StorageWithClient(client, "uploads")
	client.On("PutObject", mock.Anything, mock.Anything).Return(errors.New("denied"))

	_, err := store.Write(context.Background(), "a.png", strings.NewReader("x"), "")
	assert.ErrorContains(t, err, "denied")
}

func TestS3Storage_Open(t *testing.T) {
	client := new(mockS3)
	store := NewS3StorageWithClient(client, "uploads")

	client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "a.png"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("hello"))}, nil)
	client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

	rc, err := store.Open(context.Background(), "a.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(data))

	_, err = store.Open(context.Background(), "gone.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Storage_Delete(t *testing.T) {
	client := new(mockS3)
	store := NewS3StorageWithClient(client, "uploads")
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(nil)

	assert.NoError(t, store.Delete(context.Background(), "a.png"))
	client.AssertNumberOfCalls(t, "DeleteObject", 1)
}
