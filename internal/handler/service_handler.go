package handler

import (
	"net/http"

	"dealership-service/internal/model"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ServiceRequest defines the structure for service catalog entries
type ServiceRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// ServiceHandler serves the service catalog endpoints
type ServiceHandler struct {
	services *model.ServiceModel
	debug    bool
}

// NewServiceHandler creates a service handler
func NewServiceHandler(services *model.ServiceModel, debug bool) *ServiceHandler {
	return &ServiceHandler{services: services, debug: debug}
}

// List handles GET /api/services with optional category filtering
func (h *ServiceHandler) List(c echo.Context) error {
	services, err := h.services.FindAll(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список услуг", err)
	}
	return List(c, services, len(services))
}

// Get handles GET /api/services/:id
func (h *ServiceHandler) Get(c echo.Context) error {
	svc, err := h.services.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить услугу", err)
	}
	if svc == nil {
		return NotFound(c, "Услуга не найдена")
	}
	return OK(c, svc)
}

// Create handles POST /api/services. Omitted isActive defaults to true.
func (h *ServiceHandler) Create(c echo.Context) error {
	var req ServiceRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	svc := model.Service{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}

	if err := h.services.Create(c.Request().Context(), &svc); err != nil {
		return ServerError(c, h.debug, "Не удалось создать услугу", err)
	}

	prometheus.RecordResourceCreated("service")
	logger.FromContext(c).Info("Service created",
		zap.String("service_id", svc.ID),
		zap.String("name", svc.Name))
	return Created(c, svc)
}

// Update handles PUT /api/services/:id
func (h *ServiceHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.services.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить услугу", err)
	}
	if matched == 0 {
		return NotFound(c, "Услуга не найдена")
	}

	svc, err := h.services.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить услугу", err)
	}
	return OK(c, svc)
}

// Delete handles DELETE /api/services/:id
func (h *ServiceHandler) Delete(c echo.Context) error {
	deleted, err := h.services.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить услугу", err)
	}
	if deleted == 0 {
		return NotFound(c, "Услуга не найдена")
	}
	return Message(c, http.StatusOK, "Услуга удалена")
}
