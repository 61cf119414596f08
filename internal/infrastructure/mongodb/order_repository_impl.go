package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
)

type orderDocument struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	Seller          string                 `bson:"seller,omitempty"`
	OrderItems      []entity.OrderItem     `bson:"orderItems"`
	ShippingAddress entity.ShippingAddress `bson:"shippingAddress"`
	PaymentMethod   string                 `bson:"paymentMethod"`
	TotalPrice      float64                `bson:"totalPrice"`
	User            string                 `bson:"user"`
	CreatedAt       time.Time              `bson:"createdAt"`
}

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(ordersCollection)}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	doc := orderDocument{
		ID:              primitive.NewObjectID(),
		Seller:          o.Seller,
		OrderItems:      o.OrderItems,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		TotalPrice:      o.TotalPrice,
		User:            o.User,
		CreatedAt:       now(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mapErr(err)
	}
	o.ID, o.CreatedAt = doc.ID.Hex(), doc.CreatedAt
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, mapErr(err)
	}
	return &entity.Order{
		ID:              doc.ID.Hex(),
		Seller:          doc.Seller,
		OrderItems:      doc.OrderItems,
		ShippingAddress: doc.ShippingAddress,
		PaymentMethod:   doc.PaymentMethod,
		TotalPrice:      doc.TotalPrice,
		User:            doc.User,
		CreatedAt:       doc.CreatedAt,
	}, nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
