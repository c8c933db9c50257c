package ports

import (
	"context"

	"github.com/opsdesk/platform/internal/core/domain"
)

// OrderItemInput is a single requested order line.
type OrderItemInput struct {
	Name     string
	Quantity int
	Price    float64
}

// CreateOrderInput carries all data needed to create a new order.
type CreateOrderInput struct {
	UserID      string
	Items       []OrderItemInput
	TotalAmount float64
}

// OrderService defines use-case operations for orders. The caller identity has
// already been validated by the transport layer.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error)
}
