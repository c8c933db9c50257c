package ports

import (
	"context"

	"github.com/opsdesk/platform/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role
	// IsAdmin is only set by operator tooling, never from a request body.
	IsAdmin bool
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	User        *domain.User
}

// Authenticator resolves a bearer token into an active identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type AuthService interface {
	Authenticator
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, handle, password string) (*LoginResult, error)
	SetActive(ctx context.Context, userID string, active bool) (*domain.User, error)
}
