package repository

import (
	"context"

	"github.com/oksasatya/go-ecommerce-backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	// Update writes u only if the stored version still equals u.Version.
	// On success u.Version and u.UpdatedAt hold the new values.
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}
