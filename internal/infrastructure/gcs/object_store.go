package gcs

import (
	"context"
	"errors"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// ObjectStore keeps product images in a single bucket, addressed by opaque keys.
type ObjectStore struct {
	client *storage.Client
	bucket string
}

func NewObjectStore(client *storage.Client, bucket string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket}
}

func (s *ObjectStore) ready() error {
	if s == nil || s.client == nil || s.bucket == "" {
		return ErrNotConfigured
	}
	return nil
}

func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return helpers.UploadObject(ctx, s.client, s.bucket, key, contentType, r)
}

func (s *ObjectStore) SignedReadURL(key string, ttl time.Duration) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return helpers.SignedReadURL(s.client, s.bucket, key, ttl)
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return helpers.DeleteObject(ctx, s.client, s.bucket, key)
}

func (s *ObjectStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
