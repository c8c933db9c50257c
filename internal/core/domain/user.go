package domain

import "time"

// Role classifies an identity. It is informational only; see policy.Authorizer.
type Role int

const (
	RoleEngineer Role = 1
	RoleManager  Role = 2
	RoleHead     Role = 3
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r >= RoleEngineer && r <= RoleHead
}

// StoredTime normalises t to the platform convention: UTC at millisecond
// precision, which every store keeps losslessly. Values returned on create
// therefore match later reads.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// User models an authenticated actor in the system. It is the single identity
// representation shared by the users, orders and business-manager services.
// CreatedAt is UTC and assigned once by the auth service.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}
