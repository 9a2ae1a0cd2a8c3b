package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"blog-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, cfg config.StorageConfig) *S3Client {
	t.Helper()
	c, err := NewS3Client(context.Background(), cfg)
	require.NoError(t, err)
	return c
}

func TestS3Client_UploadWithoutCredentials(t *testing.T) {
	c := newTestClient(t, config.StorageConfig{Bucket: "media"})

	err := c.Upload(context.Background(), "profile/x.png", bytes.NewReader([]byte("png")), 3, "image/png")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestS3Client_PresignWithoutCredentials(t *testing.T) {
	c := newTestClient(t, config.StorageConfig{Bucket: "media"})

	_, err := c.PresignGet(context.Background(), "profile/x.png", time.Minute)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestS3Client_UploadSendsKeyAndContentType(t *testing.T) {
	var captured *s3.PutObjectInput
	orig := putObject
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		captured = in
		return &s3.PutObjectOutput{}, nil
	}
	defer func() { putObject = orig }()

	c := newTestClient(t, config.StorageConfig{
		Bucket:          "media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})

	err := c.Upload(context.Background(), "profile/jane_doe_profile.png", bytes.NewReader([]byte("png")), 3, "image/png")
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "media", aws.ToString(captured.Bucket))
	assert.Equal(t, "profile/jane_doe_profile.png", aws.ToString(captured.Key))
	assert.Equal(t, "image/png", aws.ToString(captured.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(captured.ContentLength))
}

func TestS3Client_UploadWrapsBackendError(t *testing.T) {
	backendErr := errors.New("bucket gone")
	orig := putObject
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, backendErr
	}
	defer func() { putObject = orig }()

	c := newTestClient(t, config.StorageConfig{
		Bucket:          "media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})

	err := c.Upload(context.Background(), "k", bytes.NewReader(nil), 0, "image/png")
	assert.ErrorIs(t, err, backendErr)
}

func TestS3Client_PresignReturnsURL(t *testing.T) {
	orig := presignGetObject
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://media.example.com/" + aws.ToString(in.Key) + "?sig=abc"}, nil
	}
	defer func() { presignGetObject = orig }()

	c := newTestClient(t, config.StorageConfig{
		Bucket:          "media",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})

	url, err := c.PresignGet(context.Background(), "profile/jane_doe_profile.png", 604799*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "https://media.example.com/profile/jane_doe_profile.png?sig=abc", url)
}
