package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
)

type stubOrderService struct {
	createFn func(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error)
	listFn   func(ctx context.Context, userID string) ([]*domain.Order, error)
	getFn    func(ctx context.Context, userID, orderID string) (*domain.Order, error)
	updateFn func(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	return s.createFn(ctx, in)
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.listFn(ctx, userID)
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.getFn(ctx, userID, orderID)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	return s.updateFn(ctx, userID, orderID, status)
}

var alice = &domain.User{ID: "alice-id", Username: "alice", Role: domain.RoleEngineer, IsActive: true}

func TestOrderHandler_Create_UsesCallerIdentity(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubOrderService{
		createFn: func(_ context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
			if in.UserID != alice.ID {
				t.Fatalf("expected caller id, got %q", in.UserID)
			}
			if len(in.Items) != 1 || in.Items[0].Quantity != 2 || in.TotalAmount != 9.5 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Order{
				ID:          "o1",
				UserID:      in.UserID,
				Items:       []domain.OrderItem{{Name: "Widget", Quantity: 2, Price: 4.75}},
				Status:      domain.OrderCreated,
				TotalAmount: in.TotalAmount,
				CreatedAt:   now,
				UpdatedAt:   now,
			}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/v1/orders",
		`{"items":[{"name":"Widget","quantity":2,"price":4.75}],"total_amount":9.5}`)
	withUser(c, alice)

	if err := NewOrderHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var order domain.Order
	decodeData(t, rec, &order)
	if order.ID != "o1" || order.Status != domain.OrderCreated || order.UserID != alice.ID {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestOrderHandler_Create_RequiresIdentity(t *testing.T) {
	stub := &stubOrderService{
		createFn: func(context.Context, ports.CreateOrderInput) (*domain.Order, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/v1/orders", `{"items":[]}`)
	if err := NewOrderHandler(stub).Create(c); err == nil {
		t.Fatal("expected error without identity")
	}
}

func TestOrderHandler_Create_MalformedBody(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/v1/orders", `{"items":"nope"`)
	withUser(c, alice)
	if err := NewOrderHandler(&stubOrderService{}).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderHandler_Create_TypeMismatchNamesField(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/v1/orders", `{"items":[{"name":"Widget","quantity":"two","price":5}]}`)
	withUser(c, alice)

	err := NewOrderHandler(&stubOrderService{}).Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "items.quantity must be an integer") {
		t.Fatalf("expected the field to be named, got %q", err.Error())
	}
	var bindErr *BindError
	if !errors.As(err, &bindErr) || bindErr.Cause == nil {
		t.Fatalf("expected the decoder error to be kept, got %#v", err)
	}
}

func TestOrderHandler_List(t *testing.T) {
	stub := &stubOrderService{
		listFn: func(_ context.Context, userID string) ([]*domain.Order, error) {
			if userID != alice.ID {
				t.Fatalf("unexpected user %q", userID)
			}
			return []*domain.Order{{ID: "o2"}, {ID: "o1"}}, nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/v1/orders", "")
	withUser(c, alice)

	if err := NewOrderHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var orders []domain.Order
	decodeData(t, rec, &orders)
	if len(orders) != 2 || orders[0].ID != "o2" {
		t.Fatalf("unexpected orders: %+v", orders)
	}
}

func TestOrderHandler_Get_NotFound(t *testing.T) {
	stub := &stubOrderService{
		getFn: func(context.Context, string, string) (*domain.Order, error) {
			return nil, domain.ErrOrderNotFound
		},
	}
	c, _ := newTestContext(http.MethodGet, "/v1/orders/x", "")
	c.SetParamNames("id")
	c.SetParamValues("x")
	withUser(c, alice)

	if err := NewOrderHandler(stub).Get(c); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	stub := &stubOrderService{
		updateFn: func(_ context.Context, userID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
			if userID != alice.ID || orderID != "o1" || status != domain.OrderInProgress {
				t.Fatalf("unexpected args %s %s %s", userID, orderID, status)
			}
			return &domain.Order{ID: orderID, Status: status}, nil
		},
	}
	c, rec := newTestContext(http.MethodPatch, "/v1/orders/o1/status", `{"status":"in_progress"}`)
	c.SetParamNames("id")
	c.SetParamValues("o1")
	withUser(c, alice)

	if err := NewOrderHandler(stub).UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var order domain.Order
	decodeData(t, rec, &order)
	if order.Status != domain.OrderInProgress {
		t.Fatalf("unexpected status %s", order.Status)
	}
}

func TestOrderHandler_UpdateStatus_MissingStatus(t *testing.T) {
	c, _ := newTestContext(http.MethodPatch, "/v1/orders/o1/status", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("o1")
	withUser(c, alice)

	if err := NewOrderHandler(&stubOrderService{}).UpdateStatus(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
