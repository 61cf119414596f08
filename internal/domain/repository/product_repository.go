package repository

import (
	"context"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
)

// ProductSort selects the ordering of a product listing.
type ProductSort string

const (
	SortNewest  ProductSort = ""        // insertion order, newest first
	SortLowest  ProductSort = "lowest"  // price ascending
	SortHighest ProductSort = "highest" // price descending
)

// ParseProductSort maps the "order" query value; unknown values fall back to SortNewest.
func ParseProductSort(s string) ProductSort {
	switch ProductSort(s) {
	case SortLowest:
		return SortLowest
	case SortHighest:
		return SortHighest
	default:
		return SortNewest
	}
}

// ProductFilter narrows a product listing. Zero values mean "no constraint";
// Limit 0 means unlimited.
type ProductFilter struct {
	Name     string // case-insensitive substring
	Category string // exact match
	Seller   string // exact match
	Sort     ProductSort
	Skip     int
	Limit    int
}

type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Find(ctx context.Context, f ProductFilter) ([]entity.Product, error)
	Count(ctx context.Context, f ProductFilter) (int64, error)
	// Update replaces the mutable fields of p if the stored version equals p.Version.
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	DistinctCategories(ctx context.Context) ([]string, error)
	// DecrementStock atomically subtracts qty, refusing to go below zero.
	DecrementStock(ctx context.Context, id string, qty int) error
}
