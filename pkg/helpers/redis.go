package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client. An empty addr yields nil so that
// callers can treat Redis as optional.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// KeyRevokedUser marks every token issued to uid as revoked.
func KeyRevokedUser(uid string) string {
	return "user:revoked:" + uid
}

// RevokeUser records a revocation marker that outlives any token issued before now.
func RevokeUser(ctx context.Context, rdb *redis.Client, uid string, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	return rdb.Set(ctx, KeyRevokedUser(uid), time.Now().Unix(), ttl).Err()
}

// IsRevoked reports whether a token issued at issuedAt was revoked for uid.
func IsRevoked(ctx context.Context, rdb *redis.Client, uid string, issuedAt time.Time) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	at, err := rdb.Get(ctx, KeyRevokedUser(uid)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return issuedAt.Unix() <= at, nil
}
