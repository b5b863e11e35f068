package repositories

import (
	"context"

	"orderms/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindIDsByEmailContaining(ctx context.Context, term string) ([]string, error)
}

// RoleRepository defines the interface for role data access.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
}
