package repository

import (
	"context"

	"github.com/ErlanBelekov/passauth/internal/domain"
)

type UserRepository interface {
	// Create inserts the user and returns the stored row.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}
