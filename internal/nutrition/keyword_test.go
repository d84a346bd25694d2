package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordEstimateFood(t *testing.T) {
	kcal, ok := KeywordEstimate(KeywordFood, "チキンカレー")
	assert.True(t, ok)
	assert.Equal(t, 700.0, kcal)
}

func TestKeywordEstimateFoodServingScaling(t *testing.T) {
	kcal, ok := KeywordEstimate(KeywordFood, "カレー 2人前")
	assert.True(t, ok)
	assert.Equal(t, 1400.0, kcal)
}

func TestKeywordEstimateExercise(t *testing.T) {
	kcal, ok := KeywordEstimate(KeywordExercise, "ランニング")
	assert.True(t, ok)
	assert.Equal(t, 300.0, kcal)
}

func TestKeywordEstimateExerciseDurationScaling(t *testing.T) {
	kcal, ok := KeywordEstimate(KeywordExercise, "ランニング 1時間")
	assert.True(t, ok)
	assert.Equal(t, 600.0, kcal)

	kcal, ok = KeywordEstimate(KeywordExercise, "ウォーキング 15分")
	assert.True(t, ok)
	assert.Equal(t, 50.0, kcal)
}

func TestKeywordEstimateMiss(t *testing.T) {
	_, ok := KeywordEstimate(KeywordFood, "xyzzy")
	assert.False(t, ok)
	_, ok = KeywordEstimate(KeywordExercise, "")
	assert.False(t, ok)
}

func TestDurationMinutes(t *testing.T) {
	m, ok := DurationMinutes("ジョギング 1時間30分")
	assert.True(t, ok)
	assert.Equal(t, 90.0, m)

	m, ok = DurationMinutes("45分の散歩")
	assert.True(t, ok)
	assert.Equal(t, 45.0, m)

	_, ok = DurationMinutes("散歩")
	assert.False(t, ok)
}
