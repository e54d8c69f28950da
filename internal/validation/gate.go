// Package validation implements the per-resource create gates. Each
// gate collects every violation before responding, so the client gets
// the full list in one 400 instead of one failure at a time. Checks are
// shape and presence only; business rules stay out of this layer.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"dealership-service/internal/handler"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
)

// Rules inspects a decoded JSON document and returns every violation.
type Rules func(doc map[string]any) []string

// Gate wraps create routes. The request body is buffered so the
// downstream controller can still bind it.
func Gate(resource string, rules Rules) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			body, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return handler.Fail(c, http.StatusBadRequest, "Не удалось прочитать тело запроса")
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(body))

			doc := map[string]any{}
			if len(body) > 0 {
				if err := json.Unmarshal(body, &doc); err != nil {
					prometheus.RecordValidationError(resource)
					return handler.Fail(c, http.StatusBadRequest, "Некорректный JSON в теле запроса")
				}
			}

			if violations := rules(doc); len(violations) > 0 {
				prometheus.RecordValidationError(resource)
				return handler.ValidationFailed(c, violations)
			}

			return next(c)
		}
	}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{7,20}$`)
)

func stringField(doc map[string]any, field string) (string, bool) {
	v, ok := doc[field].(string)
	return v, ok && v != ""
}

func numberField(doc map[string]any, field string) (float64, bool) {
	v, ok := doc[field].(float64)
	return v, ok
}

func requireString(doc map[string]any, field string, violations []string) []string {
	if _, ok := stringField(doc, field); !ok {
		return append(violations, fmt.Sprintf("Поле %s обязательно", field))
	}
	return violations
}

func requirePositiveNumber(doc map[string]any, field string, violations []string) []string {
	v, ok := numberField(doc, field)
	if !ok {
		return append(violations, fmt.Sprintf("Поле %s обязательно и должно быть числом", field))
	}
	if v <= 0 {
		return append(violations, fmt.Sprintf("Поле %s должно быть положительным числом", field))
	}
	return violations
}

func checkEmail(doc map[string]any, violations []string) []string {
	email, ok := stringField(doc, "email")
	if !ok {
		return append(violations, "Поле email обязательно")
	}
	if !emailPattern.MatchString(email) {
		return append(violations, "Некорректный email")
	}
	return violations
}

func checkPhone(doc map[string]any, violations []string) []string {
	phone, ok := stringField(doc, "phone")
	if !ok {
		return violations // optional
	}
	if !phonePattern.MatchString(phone) {
		return append(violations, "Некорректный номер телефона")
	}
	return violations
}

// checkFutureDate verifies the field parses as an ISO date and is not
// in the past at creation time.
func checkFutureDate(doc map[string]any, field string, violations []string) []string {
	raw, ok := stringField(doc, field)
	if !ok {
		return append(violations, fmt.Sprintf("Поле %s обязательно", field))
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return append(violations, fmt.Sprintf("Поле %s должно быть датой в формате ГГГГ-ММ-ДД", field))
	}

	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	if date.Before(today) {
		return append(violations, "Дата не может быть в прошлом")
	}
	return violations
}
