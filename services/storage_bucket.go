package services

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

type StorageBucket struct {
	*storage.BucketHandle
	baseURL string
}

var _ MediaStore = (*StorageBucket)(nil)

func NewStorageBucket(ctx context.Context, app *firebase.App, bucketName string, baseURL string) (*StorageBucket, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, err
	}
	bucketHandle, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	return &StorageBucket{
		BucketHandle: bucketHandle,
		baseURL:      baseURL,
	}, nil
}

func (sb *StorageBucket) Upload(ctx context.Context, blobName string, contentType string, content io.Reader) error {
	writer := sb.Object(blobName).NewWriter(ctx)
	writer.ContentType = contentType
	if _, err := io.Copy(writer, content); err != nil {
		writer.Close()
		return fmt.Errorf("upload %v: %w", blobName, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish upload %v: %w", blobName, err)
	}
	return nil
}

func (sb *StorageBucket) Delete(ctx context.Context, blobName string) error {
	if err := sb.Object(blobName).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return err
	}
	return nil
}

func (sb *StorageBucket) URL(blobName string) string {
	return sb.baseURL + blobName
}
