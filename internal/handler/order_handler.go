package handler

import (
	"net/http"

	"dealership-service/internal/model"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// OrderRequest defines the structure for order creation requests
type OrderRequest struct {
	CarID           string  `json:"carId"`
	UserID          string  `json:"userId"`
	TotalAmount     float64 `json:"totalAmount"`
	PaymentMethod   string  `json:"paymentMethod"`
	DeliveryAddress string  `json:"deliveryAddress"`
}

// StatusRequest defines the body of PUT /:id/status endpoints
type StatusRequest struct {
	Status string `json:"status"`
}

// OrderHandler serves the order endpoints
type OrderHandler struct {
	orders *model.OrderModel
	debug  bool
}

// NewOrderHandler creates an order handler
func NewOrderHandler(orders *model.OrderModel, debug bool) *OrderHandler {
	return &OrderHandler{orders: orders, debug: debug}
}

// List handles GET /api/orders
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.FindAll(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список заказов", err)
	}
	return List(c, orders, len(orders))
}

// Get handles GET /api/orders/:id
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orders.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заказ", err)
	}
	if order == nil {
		return NotFound(c, "Заказ не найден")
	}
	return OK(c, order)
}

// ByUser handles GET /api/orders/user/:userId
func (h *OrderHandler) ByUser(c echo.Context) error {
	orders, err := h.orders.FindByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список заказов", err)
	}
	return List(c, orders, len(orders))
}

// ByStatus handles GET /api/orders/status/:status
func (h *OrderHandler) ByStatus(c echo.Context) error {
	orders, err := h.orders.FindByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список заказов", err)
	}
	return List(c, orders, len(orders))
}

// Statistics handles GET /api/orders/statistics
func (h *OrderHandler) Statistics(c echo.Context) error {
	stats, err := h.orders.Statistics(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось рассчитать статистику", err)
	}
	return OK(c, stats)
}

// Create handles POST /api/orders. The route carries the optional auth
// gate, so both authenticated and guest submissions land here.
func (h *OrderHandler) Create(c echo.Context) error {
	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	order := model.Order{
		CarID:           req.CarID,
		UserID:          ownerID(c, req.UserID),
		TotalAmount:     req.TotalAmount,
		PaymentMethod:   req.PaymentMethod,
		DeliveryAddress: req.DeliveryAddress,
	}

	if err := h.orders.Create(c.Request().Context(), &order); err != nil {
		return ServerError(c, h.debug, "Не удалось создать заказ", err)
	}

	prometheus.RecordResourceCreated("order")
	logger.FromContext(c).Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return Created(c, order)
}

// Update handles PUT /api/orders/:id
func (h *OrderHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.orders.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить заказ", err)
	}
	if matched == 0 {
		return NotFound(c, "Заказ не найден")
	}

	order, err := h.orders.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заказ", err)
	}
	return OK(c, order)
}

// UpdateStatus handles PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")

	var req StatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return Fail(c, http.StatusBadRequest, "Поле status обязательно")
	}

	matched, err := h.orders.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить статус заказа", err)
	}
	if matched == 0 {
		return NotFound(c, "Заказ не найден")
	}

	order, err := h.orders.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заказ", err)
	}
	return OK(c, order)
}

// Delete handles DELETE /api/orders/:id
func (h *OrderHandler) Delete(c echo.Context) error {
	deleted, err := h.orders.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить заказ", err)
	}
	if deleted == 0 {
		return NotFound(c, "Заказ не найден")
	}
	return Message(c, http.StatusOK, "Заказ удалён")
}
