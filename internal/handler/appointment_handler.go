package handler

import (
	"net/http"

	"dealership-service/internal/model"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AppointmentRequest defines the structure for booking requests
type AppointmentRequest struct {
	UserID          string `json:"userId"`
	Type            string `json:"type"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	CarID           string `json:"carId"`
	ServiceID       string `json:"serviceId"`
	Notes           string `json:"notes"`
}

// AppointmentHandler serves the appointment endpoints
type AppointmentHandler struct {
	appointments *model.AppointmentModel
	debug        bool
}

// NewAppointmentHandler creates an appointment handler
func NewAppointmentHandler(appointments *model.AppointmentModel, debug bool) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, debug: debug}
}

// List handles GET /api/appointments
func (h *AppointmentHandler) List(c echo.Context) error {
	appts, err := h.appointments.FindAll(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список записей", err)
	}
	return List(c, appts, len(appts))
}

// Get handles GET /api/appointments/:id
func (h *AppointmentHandler) Get(c echo.Context) error {
	appt, err := h.appointments.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить запись", err)
	}
	if appt == nil {
		return NotFound(c, "Запись не найдена")
	}
	return OK(c, appt)
}

// ByUser handles GET /api/appointments/user/:userId
func (h *AppointmentHandler) ByUser(c echo.Context) error {
	appts, err := h.appointments.FindByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список записей", err)
	}
	return List(c, appts, len(appts))
}

// ByDate handles GET /api/appointments/date/:date
func (h *AppointmentHandler) ByDate(c echo.Context) error {
	appts, err := h.appointments.FindByDate(c.Request().Context(), c.Param("date"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список записей", err)
	}
	return List(c, appts, len(appts))
}

// ByType handles GET /api/appointments/type/:type
func (h *AppointmentHandler) ByType(c echo.Context) error {
	appts, err := h.appointments.FindByType(c.Request().Context(), c.Param("type"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список записей", err)
	}
	return List(c, appts, len(appts))
}

// Upcoming handles GET /api/appointments/upcoming
func (h *AppointmentHandler) Upcoming(c echo.Context) error {
	appts, err := h.appointments.FindUpcoming(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список записей", err)
	}
	return List(c, appts, len(appts))
}

// Create handles POST /api/appointments. The guest sentinel in the
// payload maps to a nil owner reference.
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	appt := model.Appointment{
		UserID:          ownerID(c, req.UserID),
		Type:            req.Type,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Notes:           req.Notes,
	}
	if req.CarID != "" {
		appt.CarID = &req.CarID
	}
	if req.ServiceID != "" {
		appt.ServiceID = &req.ServiceID
	}

	if err := h.appointments.Create(c.Request().Context(), &appt); err != nil {
		return ServerError(c, h.debug, "Не удалось создать запись", err)
	}

	prometheus.RecordResourceCreated("appointment")
	logger.FromContext(c).Info("Appointment created",
		zap.String("appointment_id", appt.ID),
		zap.String("type", appt.Type),
		zap.String("date", appt.AppointmentDate))
	return Created(c, appt)
}

// Update handles PUT /api/appointments/:id
func (h *AppointmentHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.appointments.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить запись", err)
	}
	if matched == 0 {
		return NotFound(c, "Запись не найдена")
	}

	appt, err := h.appointments.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить запись", err)
	}
	return OK(c, appt)
}

// UpdateStatus handles PUT /api/appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	id := c.Param("id")

	var req StatusRequest
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return Fail(c, http.StatusBadRequest, "Поле status обязательно")
	}

	matched, err := h.appointments.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить статус записи", err)
	}
	if matched == 0 {
		return NotFound(c, "Запись не найдена")
	}

	appt, err := h.appointments.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить запись", err)
	}
	return OK(c, appt)
}

// Delete handles DELETE /api/appointments/:id
func (h *AppointmentHandler) Delete(c echo.Context) error {
	deleted, err := h.appointments.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить запись", err)
	}
	if deleted == 0 {
		return NotFound(c, "Запись не найдена")
	}
	return Message(c, http.StatusOK, "Запись удалена")
}
