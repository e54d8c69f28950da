package main

import (
	"net/http"

	"dealership-service/internal/handler"
	mid "dealership-service/internal/middleware"
	"dealership-service/internal/model"
	"dealership-service/internal/store"
	"dealership-service/internal/validation"
	"dealership-service/pkg/config"
	"dealership-service/pkg/database"
	"dealership-service/pkg/jwtutil"
	"dealership-service/pkg/logger"
	"dealership-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting dealership-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(db,
		&model.Car{},
		&model.User{},
		&model.Order{},
		&model.Service{},
		&model.Appointment{},
		&model.TradeIn{},
		&model.Insurance{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Initialize JWT utility
	jwt := jwtutil.NewJWTUtil(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Models over the shared database handle
	cars := model.NewCarModel(store.NewGormCollection[model.Car](db))
	users := model.NewUserModel(store.NewGormCollection[model.User](db))
	orders := model.NewOrderModel(store.NewGormCollection[model.Order](db), nil)
	services := model.NewServiceModel(store.NewGormCollection[model.Service](db))
	appointments := model.NewAppointmentModel(store.NewGormCollection[model.Appointment](db))
	tradeIns := model.NewTradeInModel(store.NewGormCollection[model.TradeIn](db), nil)
	policies := model.NewInsuranceModel(store.NewGormCollection[model.Insurance](db), nil)

	// Raw error messages in 500 responses only outside production
	debug := !appConfig.Server.IsProduction()

	carHandler := handler.NewCarHandler(cars, debug)
	userHandler := handler.NewUserHandler(users, jwt, debug)
	orderHandler := handler.NewOrderHandler(orders, debug)
	serviceHandler := handler.NewServiceHandler(services, debug)
	appointmentHandler := handler.NewAppointmentHandler(appointments, debug)
	tradeInHandler := handler.NewTradeInHandler(tradeIns, debug)
	insuranceHandler := handler.NewInsuranceHandler(policies, debug)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpErrorHandler(debug)

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{appConfig.CORS.AllowOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(mid.RequestID())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Auth gates
	authRequired := mid.Auth(jwt, true)
	authOptional := mid.Auth(jwt, false)
	staffOnly := mid.RequireRoles(model.RoleAdmin, model.RoleManager)
	adminOnly := mid.RequireRoles(model.RoleAdmin)

	// Operational endpoints
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Static frontend assets
	e.Static("/", appConfig.Server.StaticDir)

	// Cars: catalog reads are public, writes and statistics are staff only
	carAPI := e.Group("/api/cars")
	carAPI.GET("", carHandler.List)
	carAPI.GET("/available", carHandler.Available)
	carAPI.GET("/brand/:brand", carHandler.ByBrand)
	carAPI.GET("/statistics", carHandler.Statistics, authRequired, staffOnly)
	carAPI.GET("/:id", carHandler.Get)
	carAPI.POST("", carHandler.Create, authRequired, staffOnly, validation.Gate("car", validation.CarRules))
	carAPI.PUT("/:id", carHandler.Update, authRequired, staffOnly)
	carAPI.DELETE("/:id", carHandler.Delete, authRequired, staffOnly)

	// Users: self-registration and login are public, listing is staff,
	// account management is admin only
	userAPI := e.Group("/api/users")
	userAPI.POST("/register", userHandler.Register, validation.Gate("user", validation.RegisterRules))
	userAPI.POST("/login", userHandler.Login)
	userAPI.GET("", userHandler.List, authRequired, staffOnly)
	userAPI.GET("/role/:role", userHandler.ByRole, authRequired, staffOnly)
	userAPI.GET("/:id", userHandler.Get, authRequired, staffOnly)
	userAPI.POST("", userHandler.Create, authRequired, adminOnly, validation.Gate("user", validation.UserRules))
	userAPI.PUT("/:id", userHandler.Update, authRequired, adminOnly)
	userAPI.DELETE("/:id", userHandler.Delete, authRequired, adminOnly)

	// Orders: anyone may place one, guests included; everything else is
	// staff only
	orderAPI := e.Group("/api/orders")
	orderAPI.POST("", orderHandler.Create, authOptional, validation.Gate("order", validation.OrderRules))
	orderAPI.GET("", orderHandler.List, authRequired, staffOnly)
	orderAPI.GET("/statistics", orderHandler.Statistics, authRequired, staffOnly)
	orderAPI.GET("/user/:userId", orderHandler.ByUser, authRequired, staffOnly)
	orderAPI.GET("/status/:status", orderHandler.ByStatus, authRequired, staffOnly)
	orderAPI.GET("/:id", orderHandler.Get, authRequired, staffOnly)
	orderAPI.PUT("/:id/status", orderHandler.UpdateStatus, authRequired, staffOnly)
	orderAPI.PUT("/:id", orderHandler.Update, authRequired, staffOnly)
	orderAPI.DELETE("/:id", orderHandler.Delete, authRequired, staffOnly)

	// Services: catalog reads are public, management is staff only
	serviceAPI := e.Group("/api/services")
	serviceAPI.GET("", serviceHandler.List)
	serviceAPI.GET("/:id", serviceHandler.Get)
	serviceAPI.POST("", serviceHandler.Create, authRequired, staffOnly, validation.Gate("service", validation.ServiceRules))
	serviceAPI.PUT("/:id", serviceHandler.Update, authRequired, staffOnly)
	serviceAPI.DELETE("/:id", serviceHandler.Delete, authRequired, staffOnly)

	// Appointments: booking is open to guests, management is staff only
	appointmentAPI := e.Group("/api/appointments")
	appointmentAPI.POST("", appointmentHandler.Create, authOptional, validation.Gate("appointment", validation.AppointmentRules))
	appointmentAPI.GET("", appointmentHandler.List, authRequired, staffOnly)
	appointmentAPI.GET("/upcoming", appointmentHandler.Upcoming, authRequired, staffOnly)
	appointmentAPI.GET("/user/:userId", appointmentHandler.ByUser, authRequired, staffOnly)
	appointmentAPI.GET("/date/:date", appointmentHandler.ByDate, authRequired, staffOnly)
	appointmentAPI.GET("/type/:type", appointmentHandler.ByType, authRequired, staffOnly)
	appointmentAPI.GET("/:id", appointmentHandler.Get, authRequired, staffOnly)
	appointmentAPI.PUT("/:id/status", appointmentHandler.UpdateStatus, authRequired, staffOnly)
	appointmentAPI.PUT("/:id", appointmentHandler.Update, authRequired, staffOnly)
	appointmentAPI.DELETE("/:id", appointmentHandler.Delete, authRequired, staffOnly)

	// Trade-in: submissions are open to guests, evaluation is staff only
	tradeInAPI := e.Group("/api/tradein")
	tradeInAPI.POST("", tradeInHandler.Create, authOptional, validation.Gate("tradein", validation.TradeInRules))
	tradeInAPI.GET("", tradeInHandler.List, authRequired, staffOnly)
	tradeInAPI.GET("/user/:userId", tradeInHandler.ByUser, authRequired, staffOnly)
	tradeInAPI.GET("/status/:status", tradeInHandler.ByStatus, authRequired, staffOnly)
	tradeInAPI.GET("/:id", tradeInHandler.Get, authRequired, staffOnly)
	tradeInAPI.PUT("/:id/status", tradeInHandler.UpdateStatus, authRequired, staffOnly)
	tradeInAPI.PUT("/:id/evaluate", tradeInHandler.Evaluate, authRequired, staffOnly)
	tradeInAPI.PUT("/:id", tradeInHandler.Update, authRequired, staffOnly)
	tradeInAPI.DELETE("/:id", tradeInHandler.Delete, authRequired, staffOnly)

	// Insurance: policy requests are open to guests, management is staff
	// only
	insuranceAPI := e.Group("/api/insurance")
	insuranceAPI.POST("", insuranceHandler.Create, authOptional, validation.Gate("insurance", validation.InsuranceRules))
	insuranceAPI.GET("", insuranceHandler.List, authRequired, staffOnly)
	insuranceAPI.GET("/user/:userId", insuranceHandler.ByUser, authRequired, staffOnly)
	insuranceAPI.GET("/status/:status", insuranceHandler.ByStatus, authRequired, staffOnly)
	insuranceAPI.GET("/:id", insuranceHandler.Get, authRequired, staffOnly)
	insuranceAPI.PUT("/:id/status", insuranceHandler.UpdateStatus, authRequired, staffOnly)
	insuranceAPI.PUT("/:id", insuranceHandler.Update, authRequired, staffOnly)
	insuranceAPI.DELETE("/:id", insuranceHandler.Delete, authRequired, staffOnly)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

// httpErrorHandler keeps the response envelope uniform for errors Echo
// raises outside the controllers: unmatched routes, oversized bodies,
// malformed requests.
func httpErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if he, ok := err.(*echo.HTTPError); ok {
			message := "Внутренняя ошибка сервера"
			switch he.Code {
			case http.StatusNotFound:
				message = "Маршрут не найден"
			case http.StatusMethodNotAllowed:
				message = "Метод не поддерживается"
			case http.StatusBadRequest:
				message = "Некорректные данные запроса"
			case http.StatusRequestEntityTooLarge:
				message = "Тело запроса слишком большое"
			}
			_ = handler.Fail(c, he.Code, message)
			return
		}

		_ = handler.ServerError(c, debug, "Внутренняя ошибка сервера", err)
	}
}
