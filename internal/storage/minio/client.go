package minio

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/dtroode/cride-server/internal/model"
)

// Internal adapter interface to enable mocking without a real MinIO server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var _ model.Storage = (*Client)(nil)

// Client keeps profile pictures in a single bucket.
type Client struct {
	api    minioAPI
	bucket string
}

// NewClient creates a storage client using a real *minio.Client instance.
func NewClient(ctx context.Context, client *minio.Client, bucket string) (*Client, error) {
	return NewClientWithAPI(ctx, client, bucket)
}

// NewClientWithAPI allows injecting a fake API in tests.
func NewClientWithAPI(ctx context.Context, api minioAPI, bucket string) (*Client, error) {
	c := &Client{
		api:    api,
		bucket: bucket,
	}

	if err := c.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return c, nil
}

func (c *Client) ensureBucketExists(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Upload stores the object under its key. A negative size streams the body.
func (c *Client) Upload(ctx context.Context, obj model.Object) error {
	size := obj.Size
	if size <= 0 {
		size = -1
	}
	_, err := c.api.PutObject(ctx, c.bucket, obj.Key, obj.Body, size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

