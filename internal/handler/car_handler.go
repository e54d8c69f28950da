package handler

import (
	"net/http"
	"strconv"

	"dealership-service/internal/model"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CarRequest defines the structure for car creation requests
type CarRequest struct {
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Price        float64  `json:"price"`
	Mileage      int      `json:"mileage"`
	FuelType     string   `json:"fuelType"`
	Transmission string   `json:"transmission"`
	BodyType     string   `json:"bodyType"`
	EngineVolume float64  `json:"engineVolume"`
	Power        int      `json:"power"`
	Color        string   `json:"color"`
	VIN          string   `json:"vin"`
	Status       string   `json:"status"`
	Images       []string `json:"images"`
	Features     []string `json:"features"`
	Description  string   `json:"description"`
	IsNew        bool     `json:"isNew"`
	IsHit        bool     `json:"isHit"`
}

// CarHandler serves the car catalog endpoints
type CarHandler struct {
	cars  *model.CarModel
	debug bool
}

// NewCarHandler creates a car handler
func NewCarHandler(cars *model.CarModel, debug bool) *CarHandler {
	return &CarHandler{cars: cars, debug: debug}
}

// List handles GET /api/cars with optional filtering and sorting
func (h *CarHandler) List(c echo.Context) error {
	query := model.CarQuery{
		Brand:        c.QueryParam("brand"),
		Model:        c.QueryParam("model"),
		FuelType:     c.QueryParam("fuelType"),
		Transmission: c.QueryParam("transmission"),
		BodyType:     c.QueryParam("bodyType"),
		Status:       c.QueryParam("status"),
		SortBy:       c.QueryParam("sortBy"),
		SortOrder:    c.QueryParam("sortOrder"),
	}
	if year, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		query.Year = year
	}
	if minPrice, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		query.MinPrice = minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		query.MaxPrice = maxPrice
	}

	cars, err := h.cars.FindAll(c.Request().Context(), query)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список автомобилей", err)
	}
	return List(c, cars, len(cars))
}

// Get handles GET /api/cars/:id
func (h *CarHandler) Get(c echo.Context) error {
	car, err := h.cars.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить автомобиль", err)
	}
	if car == nil {
		return NotFound(c, "Автомобиль не найден")
	}
	return OK(c, car)
}

// Available handles GET /api/cars/available
func (h *CarHandler) Available(c echo.Context) error {
	cars, err := h.cars.FindAvailable(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список автомобилей", err)
	}
	return List(c, cars, len(cars))
}

// ByBrand handles GET /api/cars/brand/:brand
func (h *CarHandler) ByBrand(c echo.Context) error {
	cars, err := h.cars.FindByBrand(c.Request().Context(), c.Param("brand"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить список автомобилей", err)
	}
	return List(c, cars, len(cars))
}

// Statistics handles GET /api/cars/statistics
func (h *CarHandler) Statistics(c echo.Context) error {
	stats, err := h.cars.Statistics(c.Request().Context())
	if err != nil {
		return ServerError(c, h.debug, "Не удалось рассчитать статистику", err)
	}
	return OK(c, stats)
}

// Create handles POST /api/cars. The validation gate has already run.
func (h *CarHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req CarRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	car := model.Car{
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		EngineVolume: req.EngineVolume,
		Power:        req.Power,
		Color:        req.Color,
		VIN:          req.VIN,
		Status:       req.Status,
		Images:       req.Images,
		Features:     req.Features,
		Description:  req.Description,
		IsNew:        req.IsNew,
		IsHit:        req.IsHit,
	}

	if err := h.cars.Create(c.Request().Context(), &car); err != nil {
		return ServerError(c, h.debug, "Не удалось создать автомобиль", err)
	}

	prometheus.RecordResourceCreated("car")
	log.Info("Car created",
		zap.String("car_id", car.ID),
		zap.String("brand", car.Brand),
		zap.String("model", car.Model))
	return Created(c, car)
}

// Update handles PUT /api/cars/:id
func (h *CarHandler) Update(c echo.Context) error {
	id := c.Param("id")

	var doc map[string]any
	if err := c.Bind(&doc); err != nil {
		return Fail(c, http.StatusBadRequest, "Некорректные данные запроса")
	}

	matched, err := h.cars.Update(c.Request().Context(), id, doc)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось обновить автомобиль", err)
	}
	if matched == 0 {
		return NotFound(c, "Автомобиль не найден")
	}

	car, err := h.cars.FindByID(c.Request().Context(), id)
	if err != nil {
		return ServerError(c, h.debug, "Не удалось получить автомобиль", err)
	}
	return OK(c, car)
}

// Delete handles DELETE /api/cars/:id
func (h *CarHandler) Delete(c echo.Context) error {
	deleted, err := h.cars.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return ServerError(c, h.debug, "Не удалось удалить автомобиль", err)
	}
	if deleted == 0 {
		return NotFound(c, "Автомобиль не найден")
	}
	return Message(c, http.StatusOK, "Автомобиль удалён")
}
