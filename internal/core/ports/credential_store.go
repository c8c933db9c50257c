package ports

import (
	"context"

	"github.com/opsdesk/platform/internal/core/domain"
)

// CredentialStore defines persistence for identities.
//
// Lookups return domain.ErrUserNotFound when no record matches. Create returns
// an error wrapping domain.ErrUserExists when a username or email is taken.
// Callers are expected to check existence before Create; the two lookups and
// the insert are not atomic, so concurrent registrations can still race into
// the store's unique index.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}
