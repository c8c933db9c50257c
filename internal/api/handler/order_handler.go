package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opsdesk/platform/internal/api/metrics"
	"github.com/opsdesk/platform/internal/core/domain"
	"github.com/opsdesk/platform/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations. Every route runs
// behind the Auth middleware and is scoped to the caller.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type createOrderRequest struct {
	Items       []orderItemRequest `json:"items"`
	TotalAmount float64            `json:"total_amount"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Create handles POST /v1/orders.
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order lines and total"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  ErrorEnvelope
// @Failure      401   {object}  ErrorEnvelope
// @Failure      500   {object}  ErrorEnvelope
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	order, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		UserID:      user.ID,
		Items:       items,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	return respond(c, http.StatusOK, order)
}

// List handles GET /v1/orders.
//
// @Summary      List the caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      401  {object}  ErrorEnvelope
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	orders, err := h.service.ListOrders(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, orders)
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get one of the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  domain.Order
// @Failure      404  {object}  ErrorEnvelope
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, order)
}

// UpdateStatus handles PATCH /v1/orders/:id/status.
//
// @Summary      Move an order through its lifecycle
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Order ID"
// @Param        body  body      updateOrderStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Failure      422   {object}  ErrorEnvelope
// @Router       /v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	status := domain.OrderStatus(req.Status)
	order, err := h.service.UpdateStatus(c.Request().Context(), user.ID, c.Param("id"), status)
	if err != nil {
		return err
	}

	metrics.OrderTransitionsTotal.WithLabelValues(string(status)).Inc()
	return respond(c, http.StatusOK, order)
}
