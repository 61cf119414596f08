package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

func TestProductWhere(t *testing.T) {
	where, args := productWhere(repository.ProductFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = productWhere(repository.ProductFilter{Name: "50%_off", Category: "Shirts"})
	assert.Equal(t, ` WHERE name ILIKE $1 AND category = $2`, where)
	assert.Equal(t, []any{`%50\%\_off%`, "Shirts"}, args)
}

func TestProductOrderHasTieBreaker(t *testing.T) {
	assert.Equal(t, `price ASC, seq DESC`, productOrder(repository.SortLowest))
	assert.Equal(t, `price DESC, seq DESC`, productOrder(repository.SortHighest))
	assert.Equal(t, `seq DESC`, productOrder(repository.SortNewest))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("3f0c1d8e-2b7a-4e0f-9a55-1c2d3e4f5a6b"))
	assert.False(t, validID("64b7f0c2e4b0a1a2b3c4d5e6"))
	assert.False(t, validID(""))
}
