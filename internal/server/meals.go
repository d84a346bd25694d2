package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mealpulse/internal/database"
	"mealpulse/internal/utility"
)

type mealRequest struct {
	Name      string  `json:"name"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Fat       float64 `json:"fat"`
	Carbs     float64 `json:"carbs"`
	Unit      string  `json:"unit"`
	Source    string  `json:"source"`
	Corrected bool    `json:"corrected"`
	EatenAt   string  `json:"eaten_at"`
}

func (r *mealRequest) toEntry(userID string) (database.MealEntry, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return database.MealEntry{}, errors.New("name is required")
	}
	if r.Calories < 0 || r.Protein < 0 || r.Fat < 0 || r.Carbs < 0 {
		return database.MealEntry{}, errors.New("nutrition values must not be negative")
	}
	eatenAt := time.Now()
	if r.EatenAt != "" {
		parsed, err := time.Parse(time.RFC3339, r.EatenAt)
		if err != nil {
			return database.MealEntry{}, errors.New("invalid eaten_at timestamp")
		}
		eatenAt = parsed
	}
	return database.MealEntry{
		UserID:    userID,
		Name:      name,
		Calories:  r.Calories,
		Protein:   r.Protein,
		Fat:       r.Fat,
		Carbs:     r.Carbs,
		Unit:      r.Unit,
		Source:    r.Source,
		Corrected: r.Corrected,
		EatenAt:   eatenAt,
	}, nil
}

func (s *Server) CreateMealHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logger(c)

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req mealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	entry, err := req.toEntry(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	created, err := s.db.Queries().CreateMealEntry(ctx, entry)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create meal entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) GetMealHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	entry, err := s.db.Queries().GetMealEntry(ctx, userID, c.Param("meal_id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Meal not found"})
		}
		logger(c).Error().Err(err).Msg("failed to get meal entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, entry)
}

func (s *Server) ListMealsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	day, err := dayParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	entries, err := s.db.Queries().ListMealEntriesByDay(ctx, userID, day)
	if err != nil {
		logger(c).Error().Err(err).Msg("failed to list meal entries")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if entries == nil {
		entries = []database.MealEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"meals": entries, "count": len(entries)})
}

func (s *Server) UpdateMealHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logger(c)

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req mealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	entry, err := req.toEntry(userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	entry.ID = c.Param("meal_id")

	updated, err := s.db.Queries().UpdateMealEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Meal not found"})
		}
		logger.Error().Err(err).Msg("failed to update meal entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteMealHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if err := s.db.Queries().DeleteMealEntry(ctx, userID, c.Param("meal_id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Meal not found"})
		}
		logger(c).Error().Err(err).Msg("failed to delete meal entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Meal deleted"})
}

type exerciseLogRequest struct {
	Name            string  `json:"name"`
	CaloriesBurned  float64 `json:"calories_burned"`
	DurationMinutes float64 `json:"duration_minutes"`
	Type            string  `json:"type"`
	Notes           string  `json:"notes"`
	PerformedAt     string  `json:"performed_at"`
}

func (s *Server) CreateExerciseHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logger(c)

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req exerciseLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if req.CaloriesBurned < 0 || req.DurationMinutes < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "values must not be negative"})
	}
	performedAt := time.Now()
	if req.PerformedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.PerformedAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid performed_at timestamp"})
		}
		performedAt = parsed
	}

	created, err := s.db.Queries().CreateExerciseEntry(ctx, database.ExerciseEntry{
		UserID:          userID,
		Name:            name,
		CaloriesBurned:  req.CaloriesBurned,
		DurationMinutes: req.DurationMinutes,
		Type:            req.Type,
		Notes:           req.Notes,
		PerformedAt:     performedAt,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to create exercise entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) ListExercisesHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	day, err := dayParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	entries, err := s.db.Queries().ListExerciseEntriesByDay(ctx, userID, day)
	if err != nil {
		logger(c).Error().Err(err).Msg("failed to list exercise entries")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if entries == nil {
		entries = []database.ExerciseEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"exercises": entries, "count": len(entries)})
}

func (s *Server) DeleteExerciseHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if err := s.db.Queries().DeleteExerciseEntry(ctx, userID, c.Param("exercise_id")); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Exercise not found"})
		}
		logger(c).Error().Err(err).Msg("failed to delete exercise entry")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Exercise deleted"})
}

func (s *Server) DailySummaryHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	day, err := dayParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	summary, err := s.db.Queries().GetDailySummary(ctx, userID, day)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// No meals logged that day yet; return an empty summary
			// instead of a 404 so clients can render zeros.
			return c.JSON(http.StatusOK, database.DailySummary{UserID: userID, Day: day})
		}
		logger(c).Error().Err(err).Msg("failed to get daily summary")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, summary)
}

// dayParam parses the optional ?date=YYYY-MM-DD query parameter, defaulting
// to today.
func dayParam(c echo.Context) (time.Time, error) {
	raw := c.QueryParam("date")
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return day, nil
}
