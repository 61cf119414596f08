package repository

import (
	"context"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
