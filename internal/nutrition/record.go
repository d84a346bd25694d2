/*
Package nutrition holds the canonical FoodRecord type, the static food
lookup table with its fuzzy matcher, and the shared keyword-based calorie
estimator used as a last-resort fallback across the resolution pipeline.
*/
package nutrition

// UnresolvedName is the sentinel display name for a record whose nutrition
// could not be determined. A record must never carry an empty name.
const UnresolvedName = "食品（詳細不明）"

// SourceInternal tags records that come from the built-in lookup table.
const SourceInternal = "Internal Database"

// FoodRecord is a normalized nutrition estimate passed between every
// component of the resolution pipeline. Calories are kcal, macros are grams.
type FoodRecord struct {
	Name       string  `json:"name"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
	Unit       string  `json:"unit"`
	Category   string  `json:"category,omitempty"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// Unresolved reports whether the record claims zero nutrition across the
// board. Such a record must not be surfaced as a positive answer; callers
// substitute a fallback estimate instead.
func (r FoodRecord) Unresolved() bool {
	return r.Calories == 0 && r.Protein == 0 && r.Fat == 0 && r.Carbs == 0
}

// Sanitize enforces the record invariants in place: negative macro values
// reset to zero, an empty name becomes the unresolved sentinel, and
// confidence is clamped into [0,1].
func (r *FoodRecord) Sanitize() {
	if r.Calories < 0 {
		r.Calories = 0
	}
	if r.Protein < 0 {
		r.Protein = 0
	}
	if r.Fat < 0 {
		r.Fat = 0
	}
	if r.Carbs < 0 {
		r.Carbs = 0
	}
	if r.Name == "" {
		r.Name = UnresolvedName
	}
	if r.Confidence < 0 {
		r.Confidence = 0
	}
	if r.Confidence > 1 {
		r.Confidence = 1
	}
}
