package handler

import (
	"net/http"

	"dealership-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Envelope is the uniform response wrapper used on every endpoint,
// including the auth and validation gates.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Count   *int     `json:"count,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// OK responds 200 with data
func OK(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created responds 201 with data
func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// List responds 200 with data and a count
func List(c echo.Context, data any, count int) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Message responds with a bare success message
func Message(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: true, Message: message})
}

// Fail responds with an error message at the given status
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

// NotFound responds 404 with a resource-specific message
func NotFound(c echo.Context, message string) error {
	return Fail(c, http.StatusNotFound, message)
}

// ValidationFailed responds 400 with the full violation list
func ValidationFailed(c echo.Context, violations []string) error {
	return c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Ошибка валидации",
		Errors:  violations,
	})
}

// ServerError logs the failure and responds 500. The raw error message
// is attached only outside production.
func ServerError(c echo.Context, debug bool, message string, err error) error {
	logger.FromContext(c).Error(message, zap.Error(err))

	env := Envelope{Success: false, Message: message}
	if debug && err != nil {
		env.Error = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, env)
}
