package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dealership-service/internal/handler"
	"dealership-service/pkg/config"
	"dealership-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

func testJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
}

func probe(c echo.Context) error {
	claims, _ := c.Get(ContextUserKey).(*jwtutil.UserClaims)
	if claims == nil {
		return c.JSON(http.StatusOK, map[string]string{"identity": "anonymous"})
	}
	return c.JSON(http.StatusOK, map[string]string{"identity": claims.UserID})
}

func doRequest(t *testing.T, mw []echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/probe", probe, mw...)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
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

func TestAuthRequired(t *testing.T) {
	jwt := testJWT()
	required := []echo.MiddlewareFunc{Auth(jwt, true)}

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(t, required, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		env := decodeEnvelope(t, rec)
		if env.Success || env.Message != "Требуется авторизация" {
			t.Errorf("envelope = %+v", env)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := doRequest(t, required, "Token abc")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Message != "Недействительный токен" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := doRequest(t, required, "Bearer garbage")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Message != "Недействительный токен" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: -1})
		token, err := expired.GenerateToken("u1", "a@b.c", "customer")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		rec := doRequest(t, required, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Message != "Срок действия токена истёк" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwt.GenerateToken("u1", "a@b.c", "customer")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		rec := doRequest(t, required, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["identity"] != "u1" {
			t.Errorf("identity = %q", body["identity"])
		}
	})
}

func TestAuthOptional(t *testing.T) {
	jwt := testJWT()
	optional := []echo.MiddlewareFunc{Auth(jwt, false)}

	t.Run("missing header passes anonymously", func(t *testing.T) {
		rec := doRequest(t, optional, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["identity"] != "anonymous" {
			t.Errorf("identity = %q", body["identity"])
		}
	})

	t.Run("presented token is still verified", func(t *testing.T) {
		rec := doRequest(t, optional, "Bearer garbage")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("bad token accepted in optional mode: %d", rec.Code)
		}
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, err := jwt.GenerateToken("u2", "b@c.d", "admin")
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		rec := doRequest(t, optional, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["identity"] != "u2" {
			t.Errorf("identity = %q", body["identity"])
		}
	})
}

func TestRequireRoles(t *testing.T) {
	jwt := testJWT()

	gated := []echo.MiddlewareFunc{Auth(jwt, true), RequireRoles("admin", "manager")}

	t.Run("allowed role", func(t *testing.T) {
		token, _ := jwt.GenerateToken("m1", "m@d.e", "manager")
		rec := doRequest(t, gated, "Bearer "+token)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("denied role", func(t *testing.T) {
		token, _ := jwt.GenerateToken("c1", "c@d.e", "customer")
		rec := doRequest(t, gated, "Bearer "+token)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Message != "Доступ запрещён" {
			t.Errorf("message = %q", env.Message)
		}
	})

	t.Run("role gate without identity", func(t *testing.T) {
		rec := doRequest(t, []echo.MiddlewareFunc{RequireRoles("admin")}, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
