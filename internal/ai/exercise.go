package ai

import (
	"context"
	"encoding/json"
	"strings"

	"mealpulse/internal/nutrition"
)

// ExerciseEstimate is the resolved form of a free-text exercise
// description.
type ExerciseEstimate struct {
	Name            string  `json:"name"`
	CaloriesBurned  float64 `json:"calories_burned"`
	DurationMinutes float64 `json:"duration_minutes"`
	Type            string  `json:"type"`
	Notes           string  `json:"notes"`
}

const unknownExerciseName = "運動（詳細不明）"

// EstimateExercise resolves an exercise description with the same
// retry/fallback contract as the food estimator: the model first, then the
// keyword table (kcal per 30 minutes scaled by any stated duration), then
// a modest fixed guess.
func (e *Estimator) EstimateExercise(ctx context.Context, description string) (ExerciseEstimate, error) {
	raw, err := e.client.GenerateText(ctx, exerciseSystemPrompt, description)
	if err != nil {
		e.log.Warn().Err(err).Msg("exercise estimate failed, using fallback")
		return fallbackExercise(description), err
	}
	return exerciseFromReply(raw, description), nil
}

func exerciseFromReply(raw, description string) ExerciseEstimate {
	var est ExerciseEstimate
	if obj, ok := extractJSONObject(raw); ok {
		// Untrusted input: a decode failure just leaves the zero value for
		// the correction pass below.
		json.Unmarshal([]byte(obj), &est)
	}

	est.Name = strings.TrimSpace(est.Name)
	if est.Name == "" {
		est.Name = unknownExerciseName
	}
	if est.DurationMinutes <= 0 {
		est.DurationMinutes = detectedDuration(description)
	}
	if est.Type == "" {
		est.Type = "daily"
	}
	if est.CaloriesBurned <= 0 {
		fb := fallbackExercise(description)
		est.CaloriesBurned = fb.CaloriesBurned
	}
	return est
}

// fallbackExercise is the deterministic path: keyword table scaled by the
// detected duration, or a fixed light-activity guess.
func fallbackExercise(description string) ExerciseEstimate {
	minutes := detectedDuration(description)
	est := ExerciseEstimate{
		Name:            strings.TrimSpace(description),
		DurationMinutes: minutes,
		Type:            "daily",
	}
	if est.Name == "" {
		est.Name = unknownExerciseName
	}

	if kcal, ok := nutrition.KeywordEstimate(nutrition.KeywordExercise, description); ok {
		est.CaloriesBurned = kcal
		return est
	}

	// No keyword hit: assume light activity at 100 kcal per 30 minutes.
	est.CaloriesBurned = 100 * minutes / 30
	return est
}

func detectedDuration(text string) float64 {
	if m, ok := nutrition.DurationMinutes(text); ok && m > 0 {
		return m
	}
	return 30
}
