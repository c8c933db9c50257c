package ports

import (
	"context"
	"time"

	"github.com/opsdesk/platform/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Every read and
// write is scoped to the owning user; an order owned by someone else is
// reported as domain.ErrOrderNotFound.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id, userID string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id, userID string, status domain.OrderStatus, updatedAt time.Time) error
}
