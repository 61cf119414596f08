package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
	"github.com/oksasatya/go-ecommerce-backend/pkg/validation"
)

const orderNotFound = "Order Not Found"

type OrderHandler struct {
	Svc    *application.OrderService
	Logger *logrus.Logger
}

func NewOrderHandler(svc *application.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{Svc: svc, Logger: logger}
}

type orderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity" binding:"qty"`
	Price     float64 `json:"price" binding:"money"`
	Image     string  `json:"image"`
	Seller    string  `json:"seller"`
}

type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems" binding:"dive"`
	ShippingAddress entity.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TotalPrice      float64                `json:"totalPrice" binding:"money"`
}

type orderView struct {
	ID              string                 `json:"_id"`
	Seller          string                 `json:"seller,omitempty"`
	OrderItems      []entity.OrderItem     `json:"orderItems"`
	ShippingAddress entity.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	TotalPrice      float64                `json:"totalPrice"`
	User            string                 `json:"user"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func newOrderView(o *entity.Order) orderView {
	return orderView{
		ID:              o.ID,
		Seller:          o.Seller,
		OrderItems:      o.OrderItems,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		TotalPrice:      o.TotalPrice,
		User:            o.User,
		CreatedAt:       o.CreatedAt,
	}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	items := make([]entity.OrderItem, 0, len(req.OrderItems))
	for _, it := range req.OrderItems {
		items = append(items, entity.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Image:     it.Image,
			Seller:    it.Seller,
		})
	}

	o, err := h.Svc.Create(c.Request.Context(), identity(c), application.CreateOrderInput{
		OrderItems:      items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		TotalPrice:      req.TotalPrice,
	})
	if err != nil {
		writeError(c, h.Logger, err, orderNotFound)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"order": newOrderView(o)}, "New Order Created", nil)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Svc.Get(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, orderNotFound)
		return
	}
	response.Success(c, http.StatusOK, newOrderView(o), "order", nil)
}
