/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
nutrition-resolution pipeline into the router.
*/
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mealpulse/internal/advice"
	"mealpulse/internal/ai"
	"mealpulse/internal/database"
	"mealpulse/internal/nutrition"
	"mealpulse/internal/sources"
)

// StartTime is recorded at process start for the diagnostics endpoint.
var StartTime = time.Now()

// foodResolver is what the handlers need from the AI estimator.
type foodResolver interface {
	EstimateFood(ctx context.Context, text string) (nutrition.FoodRecord, error)
	EstimateFoodImage(ctx context.Context, image []byte, mimeType string) (nutrition.FoodRecord, error)
	EstimateExercise(ctx context.Context, description string) (ai.ExerciseEstimate, error)
}

// sourceSearcher is what the handlers need from the aggregator.
type sourceSearcher interface {
	SearchAll(ctx context.Context, query string) []nutrition.FoodRecord
	SearchAllDebug(ctx context.Context, query string) ([]nutrition.FoodRecord, []sources.AdapterReport)
}

// adviser is what the handlers need from the advice pipeline.
type adviser interface {
	Advise(ctx context.Context, userID, goal string, actualCalories float64) advice.Result
}

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db provides access to the database service and connection pool.
	db database.Service

	table      *nutrition.Table
	aggregator sourceSearcher
	estimator  foodResolver
	advisor    adviser

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// NewServer initializes a new Server instance and returns a configured
// *http.Server. It reads configuration from environment variables and sets
// production-ready network timeouts.
func NewServer() *http.Server {
	// Attempt to parse port from environment; fallback to 8080 if not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	logger := log.With().Str("service", "mealpulse").Logger()

	client := ai.NewClient(logger)
	cache := advice.NewCache(advice.DefaultTTL, nil)
	cache.StartSweeper(context.Background(), time.Minute)

	newApp := &Server{
		port:       port,
		db:         database.NewService(),
		table:      nutrition.DefaultTable(),
		aggregator: sources.DefaultAggregator(logger),
		estimator:  ai.NewEstimator(client, logger),
		advisor:    advice.NewGenerator(client, cache, logger),
	}

	// The write timeout must outlast the slowest resolution path
	// (adapter fan-out plus AI retries).
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	return server
}

// logger returns the request-scoped logger set by LoggerMiddleware.
func logger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get("logger").(*zerolog.Logger); ok {
		return l
	}
	return &log.Logger
}
