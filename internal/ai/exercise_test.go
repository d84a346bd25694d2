package ai

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateExerciseParsesReply(t *testing.T) {
	reply := `{"name":"ジョギング","calories_burned":240,"duration_minutes":40,"type":"cardio","notes":"ゆっくりペース"}`
	srv, _ := fakeGemini(t, []int{200}, reply)

	e := NewEstimator(testClient(srv.URL), zerolog.Nop())
	got, err := e.EstimateExercise(context.Background(), "40分ジョギングした")

	require.NoError(t, err)
	assert.Equal(t, "ジョギング", got.Name)
	assert.Equal(t, 240.0, got.CaloriesBurned)
	assert.Equal(t, 40.0, got.DurationMinutes)
	assert.Equal(t, "cardio", got.Type)
}

func TestEstimateExerciseFallbackScalesByDuration(t *testing.T) {
	srv, _ := fakeGemini(t, []int{503, 503, 503}, "")

	e := NewEstimator(testClient(srv.URL), zerolog.Nop())
	got, err := e.EstimateExercise(context.Background(), "ランニング 1時間")

	assert.ErrorIs(t, err, ErrOverloaded)
	assert.Equal(t, 600.0, got.CaloriesBurned) // 300 kcal/30min * 60min
	assert.Equal(t, 60.0, got.DurationMinutes)
}

func TestExerciseFromReplyCorrection(t *testing.T) {
	got := exerciseFromReply(`{"name":"","calories_burned":-10}`, "散歩 30分")
	assert.Equal(t, unknownExerciseName, got.Name)
	assert.Equal(t, 30.0, got.DurationMinutes)
	assert.Equal(t, "daily", got.Type)
	assert.Equal(t, 100.0, got.CaloriesBurned) // 散歩 keyword table
}

func TestFallbackExerciseWithoutKeyword(t *testing.T) {
	got := fallbackExercise("なにか特殊な活動 45分")
	assert.Equal(t, 150.0, got.CaloriesBurned) // light activity 100/30min * 45
	assert.Equal(t, 45.0, got.DurationMinutes)
}
