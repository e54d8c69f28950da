package handler

import (
	"net/http"

	"dealership-service/internal/model"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InsuranceRequest defines the structure for policy requests
type InsuranceRequest struct {
	UserID           string  `json:"userId"`
	Type             string  `json:"type"`
	InsuranceCompany string  `json:"insuranceCompany"`
	Premium          float64 `json:"premium"`
	Coverage         float64 `json:"coverage"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
}

// InsuranceHandler serves the insurance endpoints
type InsuranceHandler struct {
	policies *model.InsuranceModel
	debug    bool
}

// NewInsuranceHandler creates an insurance handler
func NewInsuranceHandler(policies *model.InsuranceModel, debug bool) *InsuranceHandler {
	return &InsuranceHandler{policies: policies, debug: debug}
}

// List handles GET /api/insurance
func (h *InsuranceHandler) List(c echo.Context) error {
	policies, err := h.policies.FindAll(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список полисов", err)
	}
	return List(c, policies, len(policies))
}

// Get handles GET /api/insurance/:id
func (h *InsuranceHandler) Get(c echo.Context) error {
	policy, err := h.policies.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить полис", err)
	}
	if policy == nil {
		return NotFound(c, "Полис не найден")
	}
	return OK(c, policy)
}

// ByUser handles GET /api/insurance/user/:userId
func (h *InsuranceHandler) ByUser(c echo.Context) error {
	policies, err := h.policies.FindByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список полисов", err)
	}
	return List(c, policies, len(policies))
}

// ByStatus handles GET /api/insurance/status/:status
func (h *InsuranceHandler) ByStatus(c echo.Context) error {
	policies, err := h.policies.FindByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список полисов", err)
	}
	return List(c, policies, len(policies))
}

// Create handles POST /api/insurance
func (h *InsuranceHandler) Create(c echo.Context) error {
	var req InsuranceRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	policy := model.Insurance{
		UserID:           ownerID(c, req.UserID),
		Type:             req.Type,
		InsuranceCompany: req.InsuranceCompany,
		Premium:          req.Premium,
		Coverage:         req.Coverage,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
	}

	if err := h.policies.Create(c.Request().Context(), &policy); err != nil {
		return ServerError(c, h.debug, "Не удалось оформить полис", err)
	}

	prometheus.RecordResourceCreated("insurance")
	logger.FromContext(c).Info("Insurance policy created",
		zap.String("insurance_id", policy.ID),
		zap.String("policy_number", policy.PolicyNumber))
	return Created(c, policy)
}

// Update handles PUT /api/insurance/:id
func (h *InsuranceHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.policies.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить полис", err)
	}
	if matched == 0 {
		return NotFound(c, "Полис не найден")
	}

	policy, err := h.policies.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить полис", err)
	}
	return OK(c, policy)
}

// UpdateStatus handles PUT /api/insurance/:id/status
func (h *InsuranceHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")

	var req StatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return Fail(c, http.StatusBadRequest, "Поле status обязательно")
	}

	matched, err := h.policies.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить статус полиса", err)
	}
	if matched == 0 {
		return NotFound(c, "Полис не найден")
	}

	policy, err := h.policies.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить полис", err)
	}
	return OK(c, policy)
}

// Delete handles DELETE /api/insurance/:id
func (h *InsuranceHandler) Delete(c echo.Context) error {
	deleted, err := h.policies.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить полис", err)
	}
	if deleted == 0 {
		return NotFound(c, "Полис не найден")
	}
	return Message(c, http.StatusOK, "Полис удалён")
}
