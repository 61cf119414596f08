package entity

import "time"

// OrderItem is one line of an order. It is embedded in the order and owned by it.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
	Seller    string  `json:"seller,omitempty" bson:"seller,omitempty"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullName"`
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

// Order is immutable once created.
type Order struct {
	ID              string
	Seller          string
	OrderItems      []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	TotalPrice      float64
	User            string
	CreatedAt       time.Time
}
