package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orderms/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user with their roles by email.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user with their roles by ID.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// FindIDsByEmailContaining resolves an email substring to matching user ids,
// used by the order search.
func (r *GORMUserRepository) FindIDsByEmailContaining(ctx context.Context, term string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(email) LIKE ?", "%"+strings.ToLower(term)+"%").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find users by email %q: %w", term, err)
	}
	return ids, nil
}

// GORMRoleRepository is a GORM implementation of RoleRepository.
type GORMRoleRepository struct {
	db *gorm.DB
}

// NewGORMRoleRepository creates a new instance of GORMRoleRepository.
func NewGORMRoleRepository(db *gorm.DB) *GORMRoleRepository {
	return &GORMRoleRepository{db: db}
}

// GetByName retrieves a role by its name.
func (r *GORMRoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get role %s: %w", name, err)
	}
	return &role, nil
}

// Create creates a new role.
func (r *GORMRoleRepository) Create(ctx context.Context, role *models.Role) error {
	if role.ID == "" {
		role.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}
