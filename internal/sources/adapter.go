/*
Package sources contains one fetch-and-parse adapter per external
nutrition/recipe site plus the aggregator that fans out to all of them.
Adapters are best effort: any network, parse, or validation failure is
logged and reported as zero results, never as a fatal error.
*/
package sources

import (
	"context"

	"mealpulse/internal/nutrition"
)

// Adapter fetches candidate food records from one third-party source.
// An error means "this source produced nothing usable"; the aggregator
// absorbs it and other adapters are unaffected.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]nutrition.FoodRecord, error)
}

// Candidates with a calorie figure outside this range indicate a parse
// failure rather than a real food, and are discarded.
const (
	minPlausibleCalories = 0
	maxPlausibleCalories = 2000
)

func plausible(calories float64) bool {
	return calories > minPlausibleCalories && calories < maxPlausibleCalories
}

// titleFallback builds a rough record from a scraped title when no calorie
// figure could be parsed. This step must never be skipped: it is the
// difference between zero usable results and a rough answer.
func titleFallback(title, unit, source string) (nutrition.FoodRecord, bool) {
	kcal, ok := nutrition.KeywordEstimate(nutrition.KeywordFood, title)
	if !ok {
		return nutrition.FoodRecord{}, false
	}
	return nutrition.FoodRecord{
		Name:       title,
		Calories:   kcal,
		Unit:       unit,
		Source:     source,
		Confidence: 0.2,
	}, true
}
