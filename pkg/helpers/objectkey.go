package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// NewObjectKey returns 32 random bytes, hex encoded, for use as a bucket object key.
func NewObjectKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
