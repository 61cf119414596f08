package application

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the bucket holding product images.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	SignedReadURL(key string, ttl time.Duration) (string, error)
	// Delete removes key; a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// Publisher puts JSON messages on a named queue.
type Publisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

// Identity is the authenticated caller, taken from token claims.
type Identity struct {
	UserID   string
	IsAdmin  bool
	IsSeller bool
}
