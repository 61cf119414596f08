package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/pkg/mailer"
)

// Notifier enqueues transactional emails for the worker. A nil Notifier is a no-op.
type Notifier struct {
	pub         Publisher
	queue       string
	companyName string
	supportURL  string
	logger      *logrus.Logger
}

func NewNotifier(pub Publisher, queue, companyName, supportURL string, logger *logrus.Logger) *Notifier {
	return &Notifier{pub: pub, queue: queue, companyName: companyName, supportURL: supportURL, logger: logger}
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if n == nil {
		return
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data: map[string]any{
			"Name":        u.Name,
			"Email":       u.Email,
			"CompanyName": n.companyName,
			"SupportURL":  n.supportURL,
		},
	})
}

func (n *Notifier) OrderCreated(ctx context.Context, u *entity.User, o *entity.Order) {
	if n == nil {
		return
	}
	items := make([]map[string]any, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		items = append(items, map[string]any{
			"name":     it.Name,
			"quantity": it.Quantity,
			"price":    it.Price,
		})
	}
	n.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateOrderCreated,
		Data: map[string]any{
			"Name":          u.Name,
			"OrderID":       o.ID,
			"Items":         items,
			"TotalPrice":    o.TotalPrice,
			"PaymentMethod": o.PaymentMethod,
			"CompanyName":   n.companyName,
			"SupportURL":    n.supportURL,
		},
	})
}

// Email failures never fail the request.
func (n *Notifier) enqueue(ctx context.Context, job mailer.EmailJob) {
	if n.pub == nil || job.To == "" {
		return
	}
	if err := n.pub.PublishJSON(ctx, n.queue, job); err != nil && n.logger != nil {
		n.logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}
