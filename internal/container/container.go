// Package container assembles the application from configuration: stores,
// clients, job dispatch and services. Everything is held on one value that is
// passed to the router; there are no package-level singletons.
package container

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/config"
	"github.com/oksasatya/go-ecommerce-backend/internal/application"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
)

// Stores is one persistence backend.
type Stores struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Ping     func(ctx context.Context) error
}

// Infra are the already opened clients. Nil fields disable the feature:
// no Publisher means jobs run in process and no email is sent.
type Infra struct {
	Stores    Stores
	Objects   application.ObjectStore
	Redis     *redis.Client
	ES        *elasticsearch.Client
	Publisher application.Publisher
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *helpers.JWTManager
	Redis  *redis.Client

	Stores    Stores
	Objects   application.ObjectStore
	Publisher application.Publisher // nil without RabbitMQ

	Runner   *application.JobRunner
	Jobs     application.JobDispatcher
	Inline   *application.InlineDispatcher // nil when jobs go through RabbitMQ
	Notifier *application.Notifier

	UserService    *application.UserService
	ProductService *application.ProductService
	OrderService   *application.OrderService

	closers []func()
}

// Assemble wires services on top of infra.
func Assemble(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	c := &Container{
		Config:    cfg,
		Logger:    logger,
		JWT:       helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		Redis:     infra.Redis,
		Stores:    infra.Stores,
		Objects:   infra.Objects,
		Publisher: infra.Publisher,
	}

	c.Runner = application.NewJobRunner(infra.Stores.Products, infra.Objects, logger, cfg.JobMaxAttempts)
	if infra.Publisher != nil {
		c.Jobs = application.NewQueueDispatcher(infra.Publisher, cfg.JobsQueue)
		if cfg.MailSendEnabled {
			c.Notifier = application.NewNotifier(infra.Publisher, cfg.RabbitMQEmailQueue, cfg.CompanyName, cfg.SupportURL, logger)
		}
	} else {
		c.Inline = application.NewInlineDispatcher(c.Runner, jobBackoff)
		c.Jobs = c.Inline
	}

	c.UserService = application.NewUserService(infra.Stores.Users, c.JWT, infra.Redis, logger, infra.ES, cfg.ESUsersIndex, c.Notifier)
	c.ProductService = application.NewProductService(infra.Stores.Products, infra.Objects, c.Jobs, logger, cfg.StorageURLTTL, cfg.ProductsPageSize, cfg.SellerPageSize)
	c.OrderService = application.NewOrderService(infra.Stores.Orders, infra.Stores.Users, c.Jobs, c.Notifier, logger)
	return c
}

// OnClose registers fn to run on Close, in reverse order of registration.
func (c *Container) OnClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close drains in-process jobs, then closes every client.
func (c *Container) Close(ctx context.Context) {
	if c.Inline != nil {
		if err := c.Inline.Wait(ctx); err != nil && c.Logger != nil {
			c.Logger.WithError(err).Warn("background jobs did not finish before shutdown")
		}
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
