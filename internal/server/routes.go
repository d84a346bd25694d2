package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"mealpulse/internal/auth"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	s.Echo = e

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/health", s.healthHandler)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	// Nutrition resolution routes
	protected.POST("/food/resolve", s.ResolveFoodByTextHandler)
	protected.POST("/food/resolve/image", s.ResolveFoodByImageHandler)
	protected.POST("/exercise/resolve", s.ResolveExerciseByTextHandler)
	protected.POST("/advice", s.AdviceHandler)

	// Meal log routes
	protected.POST("/log/meal", s.CreateMealHandler)
	protected.GET("/log/meals", s.ListMealsHandler)
	protected.GET("/log/meal/:meal_id", s.GetMealHandler)
	protected.PUT("/log/meal/:meal_id", s.UpdateMealHandler)
	protected.DELETE("/log/meal/:meal_id", s.DeleteMealHandler)

	// Exercise log routes
	protected.POST("/log/exercise", s.CreateExerciseHandler)
	protected.GET("/log/exercises", s.ListExercisesHandler)
	protected.DELETE("/log/exercise/:exercise_id", s.DeleteExerciseHandler)

	// Daily summary route
	protected.GET("/summary/daily", s.DailySummaryHandler)

	// Diagnostics routes
	protected.GET("/debug/sources", s.SourceDebugHandler)
	protected.GET("/debug/system", s.SystemHealthHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
