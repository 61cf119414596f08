package gcs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnconfiguredStoreFailsFast(t *testing.T) {
	var nilStore *ObjectStore
	s := NewObjectStore(nil, "bucket")

	assert.ErrorIs(t, s.Put(context.Background(), "k", strings.NewReader("x"), "image/png"), ErrNotConfigured)
	_, err := s.SignedReadURL("k", time.Minute)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, nilStore.Delete(context.Background(), "k"), ErrNotConfigured)
	assert.NoError(t, nilStore.Close())
}
