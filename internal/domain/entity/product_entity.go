package entity

import "time"

// Product is a catalog item. Image and ImageZoomed hold object storage keys
// (or legacy static paths starting with "/"); signed URLs are never stored.
type Product struct {
	ID           string
	Name         string
	Image        string
	ImageZoomed  string
	Brand        string
	Category     string
	Description  string
	Price        float64
	CountInStock int
	Rating       float64
	NumReviews   int
	Seller       string // optional user id, lookup only
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
