package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
)

type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger, now: time.Now}
}

// CreateOrder validates the items and persists a new order in "created" status.
// Nothing is written when validation fails.
func (s *OrderService) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, domain.OrderItem{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}
	if err := domain.ValidateItems(items); err != nil {
		return nil, err
	}
	if input.TotalAmount < 0 {
		return nil, domain.Invalid("total amount cannot be negative")
	}

	now := domain.StoredTime(s.now())
	order := &domain.Order{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Items:       items,
		Status:      domain.OrderCreated,
		TotalAmount: input.TotalAmount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("failed to create order")
		return nil, fmt.Errorf("create order: %w", err)
	}

	if sum := itemsTotal(items); sum != input.TotalAmount {
		s.logger.Warn().Str("order_id", order.ID).Float64("items_total", sum).Float64("total_amount", input.TotalAmount).Msg("order total differs from item sum")
	}
	s.logger.Info().Str("order_id", order.ID).Str("user_id", input.UserID).Msg("order created")
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.repo.FindByID(ctx, orderID, userID)
}

// UpdateStatus moves an order along its state machine and refreshes UpdatedAt.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("status must be one of created, in_progress, completed, cancelled")
	}

	order, err := s.repo.FindByID(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, order.Status, status)
	}

	updatedAt := domain.StoredTime(s.now())
	if updatedAt.Before(order.CreatedAt) {
		updatedAt = order.CreatedAt
	}
	if err := s.repo.UpdateStatus(ctx, orderID, userID, status, updatedAt); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	order.Status = status
	order.UpdatedAt = updatedAt
	s.logger.Info().Str("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	return order, nil
}

func itemsTotal(items []domain.OrderItem) float64 {
	var sum float64
	for _, it := range items {
		sum += float64(it.Quantity) * it.Price
	}
	return sum
}
