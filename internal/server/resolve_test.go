package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealpulse/internal/advice"
	"mealpulse/internal/ai"
	"mealpulse/internal/nutrition"
	"mealpulse/internal/sources"
)

type stubSearcher struct {
	records []nutrition.FoodRecord
	reports []sources.AdapterReport
}

func (s *stubSearcher) SearchAll(ctx context.Context, query string) []nutrition.FoodRecord {
	return s.records
}

func (s *stubSearcher) SearchAllDebug(ctx context.Context, query string) ([]nutrition.FoodRecord, []sources.AdapterReport) {
	return s.records, s.reports
}

type stubEstimator struct {
	food     nutrition.FoodRecord
	foodErr  error
	exercise ai.ExerciseEstimate
	exErr    error
}

func (s *stubEstimator) EstimateFood(ctx context.Context, text string) (nutrition.FoodRecord, error) {
	return s.food, s.foodErr
}

func (s *stubEstimator) EstimateFoodImage(ctx context.Context, image []byte, mimeType string) (nutrition.FoodRecord, error) {
	return s.food, s.foodErr
}

func (s *stubEstimator) EstimateExercise(ctx context.Context, description string) (ai.ExerciseEstimate, error) {
	return s.exercise, s.exErr
}

type stubAdviser struct {
	result advice.Result
	calls  int
}

func (s *stubAdviser) Advise(ctx context.Context, userID, goal string, actualCalories float64) advice.Result {
	s.calls++
	return s.result
}

func newTestContext(t *testing.T, method, target, body, ip string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set("X-Real-IP", ip)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestResolveFoodByTextOrderingAndDedupe(t *testing.T) {
	srv := &Server{
		table: nutrition.DefaultTable(),
		aggregator: &stubSearcher{records: []nutrition.FoodRecord{
			{Name: "鶏胸肉のソテー", Calories: 220, Source: "Slism", Confidence: 0.85},
			{Name: "とり天", Calories: 320, Source: "Cookpad", Confidence: 0.4},
		}},
		estimator: &stubEstimator{food: nutrition.FoodRecord{
			Name: "とり天", Calories: 350, Source: "AI Estimated", Confidence: 0.5,
		}},
	}

	c, rec := newTestContext(t, http.MethodPost, "/food/resolve", `{"text":"鶏胸肉"}`, "10.0.0.1")
	require.NoError(t, srv.ResolveFoodByTextHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveFoodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Records, 3)
	assert.Equal(t, "鶏胸肉", resp.Records[0].Name)
	assert.Equal(t, "Internal Database", resp.Records[0].Source)
	assert.Equal(t, "鶏胸肉のソテー", resp.Records[1].Name)
	// The AI record duplicates the Cookpad name, so the Cookpad values win.
	assert.Equal(t, "とり天", resp.Records[2].Name)
	assert.Equal(t, "Cookpad", resp.Records[2].Source)
}

func TestResolveFoodByTextEmptyTextRejected(t *testing.T) {
	srv := &Server{
		table:      nutrition.DefaultTable(),
		aggregator: &stubSearcher{},
		estimator:  &stubEstimator{},
	}

	c, rec := newTestContext(t, http.MethodPost, "/food/resolve", `{"text":"   "}`, "10.0.0.2")
	require.NoError(t, srv.ResolveFoodByTextHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveFoodByTextAllLanesEmptyWithAIError(t *testing.T) {
	fallback := nutrition.FoodRecord{Name: "zzzz", Calories: 400, Confidence: 0.1}
	srv := &Server{
		table:      nutrition.NewTable(nil),
		aggregator: &stubSearcher{},
		estimator:  &stubEstimator{food: fallback, foodErr: ai.ErrOverloaded},
	}

	c, rec := newTestContext(t, http.MethodPost, "/food/resolve", `{"text":"zzzz"}`, "10.0.0.3")
	require.NoError(t, srv.ResolveFoodByTextHandler(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "fallback_record")
}

func TestResolveFoodByTextNoResultsAnywhere(t *testing.T) {
	srv := &Server{
		table:      nutrition.NewTable(nil),
		aggregator: &stubSearcher{},
		estimator:  &stubEstimator{},
	}

	c, rec := newTestContext(t, http.MethodPost, "/food/resolve", `{"text":"zzzz"}`, "10.0.0.9")
	require.NoError(t, srv.ResolveFoodByTextHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveFoodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// "no results" is an ordinary empty list, not an error.
	assert.NotNil(t, resp.Records)
	assert.Empty(t, resp.Records)
	assert.Zero(t, resp.Count)
}

func TestResolveFoodByTextAIErrorStillServesSources(t *testing.T) {
	srv := &Server{
		table:      nutrition.NewTable(nil),
		aggregator: &stubSearcher{records: []nutrition.FoodRecord{{Name: "カレーパン", Calories: 350, Source: "Slism"}}},
		estimator:  &stubEstimator{foodErr: ai.ErrTimedOut},
	}

	c, rec := newTestContext(t, http.MethodPost, "/food/resolve", `{"text":"カレーパン"}`, "10.0.0.4")
	require.NoError(t, srv.ResolveFoodByTextHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp resolveFoodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "カレーパン", resp.Records[0].Name)
}

func TestResolveExerciseFallbackFlag(t *testing.T) {
	srv := &Server{
		estimator: &stubEstimator{
			exercise: ai.ExerciseEstimate{Name: "ランニング", CaloriesBurned: 300, DurationMinutes: 30, Type: "cardio"},
			exErr:    ai.ErrOverloaded,
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/exercise/resolve", `{"text":"ランニング 30分"}`, "10.0.0.5")
	require.NoError(t, srv.ResolveExerciseByTextHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Estimate ai.ExerciseEstimate `json:"estimate"`
		Fallback bool                `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback)
	assert.Equal(t, "ランニング", resp.Estimate.Name)
	assert.InDelta(t, 300, resp.Estimate.CaloriesBurned, 0.01)
}

func TestAdviceHandlerRequiresUser(t *testing.T) {
	srv := &Server{advisor: &stubAdviser{}}

	c, rec := newTestContext(t, http.MethodPost, "/advice", `{"goal":"lose","calories":1850}`, "10.0.0.6")
	require.NoError(t, srv.AdviceHandler(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdviceHandler(t *testing.T) {
	adviser := &stubAdviser{result: advice.Result{Text: "野菜を増やしましょう"}}
	srv := &Server{advisor: adviser}

	c, rec := newTestContext(t, http.MethodPost, "/advice", `{"goal":"lose","calories":1850}`, "10.0.0.7")
	c.Set("user_id", "user-1")
	require.NoError(t, srv.AdviceHandler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, adviser.calls)

	var resp struct {
		Advice   string `json:"advice"`
		Fallback bool   `json:"fallback"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "野菜を増やしましょう", resp.Advice)
	assert.False(t, resp.Fallback)
}

func TestResolveFoodByImageRequiresFile(t *testing.T) {
	srv := &Server{estimator: &stubEstimator{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/food/resolve/image", nil)
	req.Header.Set("X-Real-IP", "10.0.0.8")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, srv.ResolveFoodByImageHandler(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDedupeRecordsCaseInsensitive(t *testing.T) {
	records := dedupeRecords([]nutrition.FoodRecord{
		{Name: "Apple Pie", Calories: 300},
		{Name: "apple pie", Calories: 999},
		{Name: "Banana", Calories: 90},
	})
	require.Len(t, records, 2)
	assert.InDelta(t, 300, records[0].Calories, 0.01)
	assert.Equal(t, "Banana", records[1].Name)
}
