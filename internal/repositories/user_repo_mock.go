package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"orderms/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := user
	return &copied, nil
}

// FindIDsByEmailContaining returns ids of users whose email contains term.
func (r *MockUserRepository) FindIDsByEmailContaining(_ context.Context, term string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, user := range r.users {
		if strings.Contains(strings.ToLower(user.Email), strings.ToLower(term)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var _ UserRepository = (*MockUserRepository)(nil)

// MockRoleRepository is an in-memory implementation of RoleRepository.
type MockRoleRepository struct {
	roles map[string]models.Role
	mu    sync.RWMutex
}

// NewMockRoleRepository creates a new instance of MockRoleRepository.
func NewMockRoleRepository() *MockRoleRepository {
	return &MockRoleRepository{
		roles: make(map[string]models.Role),
	}
}

// GetByName returns a role by its unique name.
func (r *MockRoleRepository) GetByName(_ context.Context, name string) (*models.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[name]
	if !ok {
		return nil, ErrNotFound
	}
	copied := role
	return &copied, nil
}

// Create adds a new role.
func (r *MockRoleRepository) Create(_ context.Context, role *models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if role.ID == "" {
		role.ID = uuid.New().String()
	}
	r.roles[role.Name] = *role
	return nil
}

var _ RoleRepository = (*MockRoleRepository)(nil)
