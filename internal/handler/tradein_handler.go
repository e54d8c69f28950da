package handler

import (
	"net/http"

	"dealership-service/internal/model"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// TradeInRequest defines the structure for trade-in submissions
type TradeInRequest struct {
	UserID            string `json:"userId"`
	CarBrand          string `json:"carBrand"`
	CarModel          string `json:"carModel"`
	CarYear           int    `json:"carYear"`
	Mileage           int    `json:"mileage"`
	Condition         string `json:"condition"`
	HasAccidents      bool   `json:"hasAccidents"`
	HasModifications  bool   `json:"hasModifications"`
	HasServiceHistory bool   `json:"hasServiceHistory"`
}

// EvaluateRequest defines the body of the staff evaluation endpoint
type EvaluateRequest struct {
	EstimatedValue float64 `json:"estimatedValue"`
}

// TradeInHandler serves the trade-in endpoints
type TradeInHandler struct {
	tradeIns *model.TradeInModel
	debug    bool
}

// NewTradeInHandler creates a trade-in handler
func NewTradeInHandler(tradeIns *model.TradeInModel, debug bool) *TradeInHandler {
	return &TradeInHandler{tradeIns: tradeIns, debug: debug}
}

// List handles GET /api/tradein
func (h *TradeInHandler) List(c echo.Context) error {
	tradeIns, err := h.tradeIns.FindAll(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список заявок", err)
	}
	return List(c, tradeIns, len(tradeIns))
}

// Get handles GET /api/tradein/:id
func (h *TradeInHandler) Get(c echo.Context) error {
	tradeIn, err := h.tradeIns.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заявку", err)
	}
	if tradeIn == nil {
		return NotFound(c, "Заявка не найдена")
	}
	return OK(c, tradeIn)
}

// ByUser handles GET /api/tradein/user/:userId
func (h *TradeInHandler) ByUser(c echo.Context) error {
	tradeIns, err := h.tradeIns.FindByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список заявок", err)
	}
	return List(c, tradeIns, len(tradeIns))
}

// ByStatus handles GET /api/tradein/status/:status
func (h *TradeInHandler) ByStatus(c echo.Context) error {
	tradeIns, err := h.tradeIns.FindByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список заявок", err)
	}
	return List(c, tradeIns, len(tradeIns))
}

// Create handles POST /api/tradein. The guest sentinel in the payload
// maps to a nil owner reference.
func (h *TradeInHandler) Create(c echo.Context) error {
	var req TradeInRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	tradeIn := model.TradeIn{
		UserID:            ownerID(c, req.UserID),
		CarBrand:          req.CarBrand,
		CarModel:          req.CarModel,
		CarYear:           req.CarYear,
		Mileage:           req.Mileage,
		Condition:         req.Condition,
		HasAccidents:      req.HasAccidents,
		HasModifications:  req.HasModifications,
		HasServiceHistory: req.HasServiceHistory,
	}

	if err := h.tradeIns.Create(c.Request().Context(), &tradeIn); err != nil {
		return ServerError(c, h.debug, "Не удалось создать заявку", err)
	}

	prometheus.RecordResourceCreated("tradein")
	logger.FromContext(c).Info("Trade-in request created",
		zap.String("tradein_id", tradeIn.ID),
		zap.String("evaluation_number", tradeIn.EvaluationNumber))
	return Created(c, tradeIn)
}

// Update handles PUT /api/tradein/:id
func (h *TradeInHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.tradeIns.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить заявку", err)
	}
	if matched == 0 {
		return NotFound(c, "Заявка не найдена")
	}

	tradeIn, err := h.tradeIns.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заявку", err)
	}
	return OK(c, tradeIn)
}

// UpdateStatus handles PUT /api/tradein/:id/status
func (h *TradeInHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")

	var req StatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return Fail(c, http.StatusBadRequest, "Поле status обязательно")
	}

	matched, err := h.tradeIns.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить статус заявки", err)
	}
	if matched == 0 {
		return NotFound(c, "Заявка не найдена")
	}

	tradeIn, err := h.tradeIns.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заявку", err)
	}
	return OK(c, tradeIn)
}

// Evaluate handles PUT /api/tradein/:id/evaluate: records the estimate
// and stamps the evaluation time
func (h *TradeInHandler) Evaluate(c echo.Context) error {
	id := c.Param("id")

	var req EvaluateRequest
	if err := c.Bind(&req); err != nil || req.EstimatedValue <= 0 {
		return Fail(c, http.StatusBadRequest, "Поле estimatedValue должно быть положительным числом")
	}

	matched, err := h.tradeIns.Evaluate(c.Request().Context(), id, req.EstimatedValue)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось сохранить оценку", err)
	}
	if matched == 0 {
		return NotFound(c, "Заявка не найдена")
	}

	tradeIn, err := h.tradeIns.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить заявку", err)
	}
	return OK(c, tradeIn)
}

// Delete handles DELETE /api/tradein/:id
func (h *TradeInHandler) Delete(c echo.Context) error {
	deleted, err := h.tradeIns.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить заявку", err)
	}
	if deleted == 0 {
		return NotFound(c, "Заявка не найдена")
	}
	return Message(c, http.StatusOK, "Заявка удалена")
}
