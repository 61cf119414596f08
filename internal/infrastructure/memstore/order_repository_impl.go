package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type orderRow struct {
	order entity.Order
}

type OrderRepository struct{ s *Store }

func NewOrderRepository(s *Store) *OrderRepository { return &OrderRepository{s: s} }

func (r *OrderRepository) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = uuid.NewString()
	o.CreatedAt = r.s.now()
	cp := *o
	cp.OrderItems = append([]entity.OrderItem(nil), o.OrderItems...)
	r.s.orders[o.ID] = &orderRow{order: cp}
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o := row.order
	o.OrderItems = append([]entity.OrderItem(nil), row.order.OrderItems...)
	return &o, nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
