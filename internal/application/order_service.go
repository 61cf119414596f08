package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type OrderService struct {
	Repo     repo.OrderRepository
	Users    repo.UserRepository
	Jobs     JobDispatcher
	Notifier *Notifier
	Logger   *logrus.Logger
}

func NewOrderService(repo repo.OrderRepository, users repo.UserRepository, jobs JobDispatcher, notifier *Notifier, logger *logrus.Logger) *OrderService {
	return &OrderService{Repo: repo, Users: users, Jobs: jobs, Notifier: notifier, Logger: logger}
}

type CreateOrderInput struct {
	OrderItems      []entity.OrderItem
	ShippingAddress entity.ShippingAddress
	PaymentMethod   string
	TotalPrice      float64
}

// Create persists the order, then hands one stock decrement per line item to
// the job dispatcher. Stock is therefore only eventually consistent with orders.
func (s *OrderService) Create(ctx context.Context, caller Identity, in CreateOrderInput) (*entity.Order, error) {
	if len(in.OrderItems) == 0 {
		return nil, ErrEmptyOrder
	}
	o := &entity.Order{
		Seller:          in.OrderItems[0].Seller,
		OrderItems:      in.OrderItems,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		TotalPrice:      in.TotalPrice,
		User:            caller.UserID,
	}
	if err := s.Repo.Create(ctx, o); err != nil {
		return nil, err
	}
	ordersCreated.Add(1)

	for _, it := range o.OrderItems {
		job := Job{Type: JobStockDecrement, ProductID: it.ProductID, Quantity: it.Quantity, OrderID: o.ID}
		if err := s.Jobs.Dispatch(ctx, job); err != nil {
			stockDecrementFailed.Add(1)
			if s.Logger != nil {
				s.Logger.WithError(err).WithFields(logrus.Fields{
					"order_id":   o.ID,
					"product_id": it.ProductID,
					"quantity":   it.Quantity,
				}).Error("dispatch stock decrement failed")
			}
		}
	}

	if s.Notifier != nil && s.Users != nil {
		if u, err := s.Users.GetByID(ctx, caller.UserID); err == nil {
			s.Notifier.OrderCreated(ctx, u, o)
		}
	}
	return o, nil
}

// Get hides orders of other users behind ErrNotFound unless the caller is an admin.
func (s *OrderService) Get(ctx context.Context, caller Identity, id string) (*entity.Order, error) {
	o, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin && o.User != caller.UserID {
		return nil, repo.ErrNotFound
	}
	return o, nil
}
