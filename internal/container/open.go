package container

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/config"
	gcsinfra "github.com/oksasatya/go-ecommerce-backend/internal/infrastructure/gcs"
	"github.com/oksasatya/go-ecommerce-backend/internal/infrastructure/memstore"
	mongoinfra "github.com/oksasatya/go-ecommerce-backend/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/go-ecommerce-backend/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
)

const jobBackoff = 500 * time.Millisecond

// New opens every configured client and assembles the container.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (c *Container, err error) {
	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	stores, closeStores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, closeStores)

	infra := Infra{Stores: stores}

	if rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		infra.Redis = rdb
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		logger.Warn("REDIS_ADDR not set; rate limiting and token revocation disabled")
	}

	if cfg.GCSBucket != "" {
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		objects := gcsinfra.NewObjectStore(client, cfg.GCSBucket)
		infra.Objects = objects
		closers = append(closers, func() { _ = objects.Close() })
	} else {
		logger.Warn("GCS_BUCKET not set; image uploads disabled")
	}

	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.JobsQueue, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		infra.Publisher = pub
		closers = append(closers, pub.Close)
	} else {
		logger.Warn("RABBITMQ_URL not set; jobs run in process and emails are not sent")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch: %w", err)
	}
	infra.ES = es

	c = Assemble(cfg, logger, infra)
	c.closers = closers
	return c, nil
}

// OpenStores connects the backend selected by STORE_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (Stores, func(), error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return Stores{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return Stores{}, nil, fmt.Errorf("migrate: %w", err)
		}
		return Stores{
			Users:    pginfra.NewUserRepository(pool),
			Products: pginfra.NewProductRepository(pool),
			Orders:   pginfra.NewOrderRepository(pool),
			Ping:     pool.Ping,
		}, pool.Close, nil

	case "mongo":
		db, err := mongoinfra.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase, cfg.MongoMaxPool)
		if err != nil {
			return Stores{}, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		disconnect := func() { _ = db.Client().Disconnect(context.Background()) }
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			disconnect()
			return Stores{}, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return Stores{
			Users:    mongoinfra.NewUserRepository(db),
			Products: mongoinfra.NewProductRepository(db),
			Orders:   mongoinfra.NewOrderRepository(db),
			Ping:     func(ctx context.Context) error { return db.Client().Ping(ctx, nil) },
		}, disconnect, nil

	case "memory":
		logger.Warn("STORE_DRIVER=memory; data is lost on restart")
		return MemoryStores(), func() {}, nil

	default:
		return Stores{}, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

// MemoryStores returns empty in-process repositories.
func MemoryStores() Stores {
	s := memstore.New()
	return Stores{
		Users:    memstore.NewUserRepository(s),
		Products: memstore.NewProductRepository(s),
		Orders:   memstore.NewOrderRepository(s),
	}
}
