package models

import "time"

// Role names form a small closed set; the join table stays around for
// future extensibility.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Role is a named authorization group.
type Role struct {
	ID   string `json:"id" gorm:"primaryKey;type:uuid"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// User is a registered account. Password holds the bcrypt hash and is never
// serialized.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"not null"`
	Name      string    `json:"name"`
	Roles     []Role    `json:"roles" gorm:"many2many:user_roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RoleNames flattens the role set for DTOs and authorization checks.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Actor is the authenticated caller identity produced by the auth layer. The
// integration token maps to a synthetic "system" actor with no roles.
type Actor struct {
	ID    string
	Email string
	Roles []string
}
