package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"mealpulse/internal/ai"
	"mealpulse/internal/nutrition"
	"mealpulse/internal/utility"
)

const maxUploadBytes = 8 << 20

type resolveFoodRequest struct {
	Text string `json:"text"`
}

type resolveFoodResponse struct {
	Query   string                 `json:"query"`
	Records []nutrition.FoodRecord `json:"records"`
	Count   int                    `json:"count"`
}

// ResolveFoodByTextHandler resolves a free-text food description against the
// built-in table, the external sources and the AI estimator concurrently.
// The local match is always listed first, then source results, then the AI
// estimate; duplicate names are collapsed keeping the earliest entry.
func (s *Server) ResolveFoodByTextHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logger(c)

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	}

	var req resolveFoodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	query := strings.TrimSpace(req.Text)
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	var (
		local    *nutrition.FoodRecord
		external []nutrition.FoodRecord
		aiRecord nutrition.FoodRecord
		aiErr    error
	)

	// All three lanes always run to completion; individual failures only
	// shrink the result set.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local = s.table.Match(query)
		return nil
	})
	g.Go(func() error {
		external = s.aggregator.SearchAll(gctx, query)
		return nil
	})
	g.Go(func() error {
		aiRecord, aiErr = s.estimator.EstimateFood(gctx, query)
		return nil
	})
	_ = g.Wait()

	combined := make([]nutrition.FoodRecord, 0, len(external)+2)
	if local != nil {
		combined = append(combined, *local)
	}
	combined = append(combined, external...)
	if aiErr == nil {
		combined = append(combined, aiRecord)
	} else {
		logger.Warn().Err(aiErr).Str("query", query).Msg("AI estimate unavailable, serving source results only")
	}

	records := dedupeRecords(combined)

	if len(records) == 0 {
		// Every lane came up empty. If the AI lane failed with a typed
		// error, surface it so the client can fall back to manual entry.
		if aiErr != nil {
			return aiFailureResponse(c, aiErr, aiRecord)
		}
		return c.JSON(http.StatusOK, resolveFoodResponse{Query: query, Records: []nutrition.FoodRecord{}})
	}

	return c.JSON(http.StatusOK, resolveFoodResponse{
		Query:   query,
		Records: records,
		Count:   len(records),
	})
}

// ResolveFoodByImageHandler estimates nutrition from an uploaded meal photo.
// The image path has no table or source lane; the AI estimate is the only
// result, so AI failures map directly onto HTTP errors.
func (s *Server) ResolveFoodByImageHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logger(c)

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "image file is required"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "image too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read image"})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(data) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read image"})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported file type"})
	}

	record, err := s.estimator.EstimateFoodImage(ctx, data, mimeType)
	if err != nil {
		logger.Warn().Err(err).Msg("image estimate failed")
		return aiFailureResponse(c, err, record)
	}

	return c.JSON(http.StatusOK, resolveFoodResponse{
		Query:   "image",
		Records: []nutrition.FoodRecord{record},
		Count:   1,
	})
}

type resolveExerciseRequest struct {
	Text string `json:"text"`
}

// ResolveExerciseByTextHandler estimates calories burned for a free-text
// exercise description.
func (s *Server) ResolveExerciseByTextHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := logger(c)

	if err := utility.CheckIPRateLimit(utility.GetRealIP(c)); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": err.Error()})
	}

	var req resolveExerciseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	query := strings.TrimSpace(req.Text)
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	estimate, err := s.estimator.EstimateExercise(ctx, query)
	if err != nil {
		// The estimator always returns a usable fallback alongside the
		// error, so serve it while flagging that the AI was unavailable.
		logger.Warn().Err(err).Str("query", query).Msg("exercise estimate fell back to keyword heuristics")
		return c.JSON(http.StatusOK, map[string]interface{}{
			"estimate": estimate,
			"fallback": true,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"estimate": estimate,
		"fallback": false,
	})
}

type adviceRequest struct {
	Goal     string  `json:"goal"`
	Calories float64 `json:"calories"`
}

// AdviceHandler returns dietary advice for the user's goal and current
// intake. Results are cached per user, goal and calorie bucket.
func (s *Server) AdviceHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req adviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Calories < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "calories must not be negative"})
	}

	result := s.advisor.Advise(ctx, userID, req.Goal, req.Calories)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"advice":   result.Text,
		"fallback": result.Fallback,
	})
}

// dedupeRecords collapses records whose names match case-insensitively,
// keeping the first occurrence. Nameless records are dropped outright.
func dedupeRecords(records []nutrition.FoodRecord) []nutrition.FoodRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]nutrition.FoodRecord, 0, len(records))
	for _, r := range records {
		key := strings.ToLower(strings.TrimSpace(r.Name))
		if _, ok := seen[key]; ok || key == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

// aiFailureResponse maps the estimator's typed errors onto HTTP statuses and
// always ships the fallback record so the client can offer manual entry.
func aiFailureResponse(c echo.Context, err error, fallback nutrition.FoodRecord) error {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, ai.ErrOverloaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, ai.ErrTimedOut):
		status = http.StatusGatewayTimeout
	case errors.Is(err, ai.ErrUnprocessable):
		status = http.StatusUnprocessableEntity
	}
	ctx := c.Request().Context()
	if ctx.Err() != nil {
		status = http.StatusGatewayTimeout
	}
	return c.JSON(status, map[string]interface{}{
		"error":           "estimation is currently unavailable, please enter the values manually",
		"fallback_record": fallback,
	})
}
