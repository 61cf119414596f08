package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ecommerce-backend/config"
	"github.com/oksasatya/go-ecommerce-backend/internal/container"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-backend/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
)

var sampleProducts = []entity.Product{
	{Name: "Airpods Wireless Bluetooth Headphones", Image: "/images/p1.jpg", Brand: "Apple", Category: "Electronics", Price: 89.99, CountInStock: 10, Rating: 4.5, NumReviews: 12,
		Description: "Bluetooth technology lets you connect it with compatible devices wirelessly"},
	{Name: "iPhone 11 Pro 256GB Memory", Image: "/images/p2.jpg", Brand: "Apple", Category: "Electronics", Price: 599.99, CountInStock: 7, Rating: 4.0, NumReviews: 8,
		Description: "Introducing the iPhone 11 Pro with a triple camera system"},
	{Name: "Cannon EOS 80D DSLR Camera", Image: "/images/p3.jpg", Brand: "Cannon", Category: "Electronics", Price: 929.99, CountInStock: 5, Rating: 3, NumReviews: 12,
		Description: "Characterized by versatile imaging specs"},
	{Name: "Sony Playstation 4 Pro White Version", Image: "/images/p4.jpg", Brand: "Sony", Category: "Electronics", Price: 399.99, CountInStock: 11, Rating: 5, NumReviews: 12,
		Description: "The ultimate home entertainment center starts with PlayStation"},
	{Name: "Logitech G-Series Gaming Mouse", Image: "/images/p5.jpg", Brand: "Logitech", Category: "Electronics", Price: 49.99, CountInStock: 7, Rating: 3.5, NumReviews: 10,
		Description: "Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse"},
	{Name: "Amazon Echo Dot 3rd Generation", Image: "/images/p6.jpg", Brand: "Amazon", Category: "Electronics", Price: 29.99, CountInStock: 0, Rating: 4, NumReviews: 12,
		Description: "Meet Echo Dot, our most popular smart speaker with a fabric design"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.StoreDriver == "memory" {
		log.Fatal("STORE_DRIVER=memory cannot be seeded")
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	stores, closeStores, err := container.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStores()

	email := getenv("SEED_ADMIN_EMAIL", "admin@example.com")
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	admin, err := seedAdmin(ctx, stores.Users, email, password)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", admin.ID, email, password)

	existing, err := stores.Products.DistinctCategories(ctx)
	if err != nil {
		log.Fatalf("failed to read catalog: %v", err)
	}
	if len(existing) > 0 {
		fmt.Println("catalog not empty; products left as they are")
		return
	}
	for i := range sampleProducts {
		p := sampleProducts[i]
		p.Seller = admin.ID
		if err := stores.Products.Create(ctx, &p); err != nil {
			log.Fatalf("failed to seed product %q: %v", p.Name, err)
		}
	}
	fmt.Printf("seeded %d products\n", len(sampleProducts))
}

func seedAdmin(ctx context.Context, users repository.UserRepository, email, password string) (*entity.User, error) {
	u, err := users.GetByEmail(ctx, email)
	if err == nil {
		if !u.IsAdmin {
			u.IsAdmin = true
			if err := users.Update(ctx, u); err != nil {
				return nil, err
			}
		}
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u = &entity.User{Name: "Admin User", Email: email, Password: hash, IsAdmin: true}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
