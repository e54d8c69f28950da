package handler

import (
	"errors"
	"net/http"

	"dealership-service/internal/model"
	"dealership-service/pkg/jwtutil"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserRequest defines the structure for user creation requests
type UserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// CredentialsRequest defines the structure for login requests
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserHandler serves account management and the public auth endpoints
type UserHandler struct {
	users *model.UserModel
	jwt   *jwtutil.JWTUtil
	debug bool
}

// NewUserHandler creates a user handler
func NewUserHandler(users *model.UserModel, jwt *jwtutil.JWTUtil, debug bool) *UserHandler {
	return &UserHandler{users: users, jwt: jwt, debug: debug}
}

// List handles GET /api/users
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.FindAll(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список пользователей", err)
	}
	return List(c, users, len(users))
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить пользователя", err)
	}
	if user == nil {
		return NotFound(c, "Пользователь не найден")
	}
	return OK(c, user)
}

// ByRole handles GET /api/users/role/:role
func (h *UserHandler) ByRole(c echo.Context) error {
	users, err := h.users.FindByRole(c.Request().Context(), c.Param("role"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список пользователей", err)
	}
	return List(c, users, len(users))
}

// Create handles POST /api/users (admin creation, role as supplied)
func (h *UserHandler) Create(c echo.Context) error {
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	user := model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      req.Role,
	}

	if err := h.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return Fail(c, http.StatusBadRequest, "Email уже зарегистрирован")
		}
		return ServerError(c, h.debug, "Не удалось создать пользователя", err)
	}

	prometheus.RecordResourceCreated("user")
	logger.FromContext(c).Info("User created",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role))
	return Created(c, user)
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.users.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить пользователя", err)
	}
	if matched == 0 {
		return NotFound(c, "Пользователь не найден")
	}

	user, err := h.users.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить пользователя", err)
	}
	return OK(c, user)
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	deleted, err := h.users.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить пользователя", err)
	}
	if deleted == 0 {
		return NotFound(c, "Пользователь не найден")
	}
	return Message(c, http.StatusOK, "Пользователь удалён")
}

// Register handles POST /api/users/register. The role is forced to
// customer regardless of caller input.
func (h *UserHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	user := model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      model.RoleCustomer,
	}

	if err := h.users.Create(c.Request().Context(), &user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return Fail(c, http.StatusBadRequest, "Email уже зарегистрирован")
		}
		return ServerError(c, h.debug, "Не удалось зарегистрировать пользователя", err)
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось выдать токен", err)
	}

	log.Info("User registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return Created(c, echo.Map{"user": user, "token": token})
}

// Login handles POST /api/users/login. Unknown email and wrong password
// produce the identical response so accounts cannot be enumerated.
func (h *UserHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			log.Warn("Failed login attempt", zap.String("email", req.Email))
			prometheus.RecordAuthError("invalid_credentials")
			return Fail(c, http.StatusUnauthorized, "Неверный email или пароль")
		}
		return ServerError(c, h.debug, "Не удалось выполнить вход", err)
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось выдать токен", err)
	}

	log.Info("User logged in", zap.String("user_id", user.ID))
	return OK(c, echo.Map{"user": user, "token": token})
}
