package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dealership-service/internal/handler"

	"github.com/labstack/echo/v4"
)

func postThrough(t *testing.T, rules Rules, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.POST("/create", func(c echo.Context) error {
		// Verify the gate left the body readable for binding.
		var doc map[string]any
		if err := c.Bind(&doc); err != nil {
			return handler.Fail(c, http.StatusBadRequest, "bind failed")
		}
		return handler.Created(c, doc)
	}, Gate("test", rules))

	req := httptest.NewRequest(http.MethodPost, "/create", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handler.Envelope {
	t.Helper()
	var env handler.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestGateCollectsAllViolations(t *testing.T) {
	rec := postThrough(t, CarRules, `{"mileage": 100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("success = true on validation failure")
	}
	if env.Message != "Ошибка валидации" {
		t.Errorf("message = %q", env.Message)
	}
	// brand, model, price and year are all missing: every violation is
	// reported at once.
	if len(env.Errors) != 4 {
		t.Errorf("errors = %v, want 4 entries", env.Errors)
	}
}

func TestGatePassesValidBody(t *testing.T) {
	rec := postThrough(t, CarRules, `{"brand":"Toyota","model":"Camry","price":2500000,"year":2022}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	doc, ok := env.Data.(map[string]any)
	if !ok || doc["brand"] != "Toyota" {
		t.Errorf("body not readable downstream: %+v", env.Data)
	}
}

func TestGateRejectsMalformedJSON(t *testing.T) {
	rec := postThrough(t, CarRules, `{"brand": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "Некорректный JSON в теле запроса" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCarRulesStatusEnum(t *testing.T) {
	violations := CarRules(map[string]any{
		"brand": "Kia", "model": "Rio", "price": float64(100), "year": float64(2020),
		"status": "melted",
	})
	if len(violations) != 1 || !strings.Contains(violations[0], "status") {
		t.Errorf("violations = %v", violations)
	}
}

func TestRegisterRulesPasswordLength(t *testing.T) {
	violations := RegisterRules(map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@b.c", "password": "123",
	})
	if len(violations) != 1 || !strings.Contains(violations[0], "Пароль") {
		t.Errorf("violations = %v", violations)
	}
}

func TestAppointmentRulesPastDate(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	violations := AppointmentRules(map[string]any{
		"type":            "test-drive",
		"appointmentDate": yesterday,
		"appointmentTime": "10:00",
	})
	if len(violations) != 1 || violations[0] != "Дата не может быть в прошлом" {
		t.Errorf("violations = %v", violations)
	}

	today := time.Now().Format("2006-01-02")
	violations = AppointmentRules(map[string]any{
		"type":            "test-drive",
		"appointmentDate": today,
		"appointmentTime": "10:00",
	})
	if len(violations) != 0 {
		t.Errorf("today rejected: %v", violations)
	}
}

func TestInsuranceRulesTypeEnum(t *testing.T) {
	violations := InsuranceRules(map[string]any{
		"type": "life", "insuranceCompany": "X", "premium": float64(100),
		"startDate": "2030-01-01", "endDate": "2031-01-01",
	})
	if len(violations) != 1 || !strings.Contains(violations[0], "kasko") {
		t.Errorf("violations = %v", violations)
	}
}

func TestTradeInRulesYearRange(t *testing.T) {
	violations := TradeInRules(map[string]any{
		"carBrand": "Lada", "carModel": "Vesta", "carYear": float64(1800),
	})
	if len(violations) != 1 {
		t.Errorf("violations = %v", violations)
	}
}

func TestUserRulesPhoneOptional(t *testing.T) {
	base := map[string]any{
		"firstName": "A", "lastName": "B", "email": "a@b.c", "password": "secret1",
	}
	if violations := UserRules(base); len(violations) != 0 {
		t.Errorf("missing phone rejected: %v", violations)
	}

	base["phone"] = "not-a-phone!!"
	if violations := UserRules(base); len(violations) != 1 {
		t.Errorf("bad phone accepted: %v", violations)
	}
}
