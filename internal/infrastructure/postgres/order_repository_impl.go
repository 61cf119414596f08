package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	items, err := json.Marshal(o.OrderItems)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (seller_id, order_items, shipping_address, payment_method, total_price, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, nullable(o.Seller), items, addr, o.PaymentMethod, o.TotalPrice, o.User)

	return mapErr(row.Scan(&o.ID, &o.CreatedAt))
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	o := &entity.Order{}
	var seller *string
	var items, addr []byte
	err := r.pool.QueryRow(ctx, `
		SELECT id, seller_id, order_items, shipping_address, payment_method, total_price, user_id, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &seller, &items, &addr, &o.PaymentMethod, &o.TotalPrice, &o.User, &o.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	o.Seller = deref(seller)
	if err := json.Unmarshal(items, &o.OrderItems); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	return o, nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
