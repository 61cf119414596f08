package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

func TestObjectIDRejectsMalformedIDs(t *testing.T) {
	_, err := objectID("not-a-hex-id")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	oid := primitive.NewObjectID()
	got, err := objectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)
}

func TestProductFilterEscapesRegex(t *testing.T) {
	f := productFilter(repository.ProductFilter{Name: "a.b(c)", Category: "Shirts"})
	require.Len(t, f, 2)

	re, ok := f[0].Value.(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, `a\.b\(c\)`, re.Pattern)
	assert.Equal(t, "i", re.Options)
	assert.Equal(t, bson.E{Key: "category", Value: "Shirts"}, f[1])

	assert.Empty(t, productFilter(repository.ProductFilter{}))
}

func TestProductSortAlwaysBreaksTiesByID(t *testing.T) {
	for _, s := range []repository.ProductSort{repository.SortNewest, repository.SortLowest, repository.SortHighest} {
		d := productSort(s)
		last := d[len(d)-1]
		assert.Equal(t, "_id", last.Key)
		assert.Equal(t, -1, last.Value)
	}
	assert.Equal(t, bson.E{Key: "price", Value: 1}, productSort(repository.SortLowest)[0])
	assert.Equal(t, bson.E{Key: "price", Value: -1}, productSort(repository.SortHighest)[0])
}

func TestMapErr(t *testing.T) {
	assert.Nil(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(mongo.ErrNoDocuments), repository.ErrNotFound)
}
