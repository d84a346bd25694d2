package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"

	"mealpulse/internal/nutrition"
)

// Fixed placeholder for "calories still zero after every step": a moderate
// unspecified-meal guess, tagged with minimal confidence so callers can
// tell it apart from a real estimate.
const (
	placeholderCalories = 400.0
	placeholderProtein  = 15.0
	placeholderFat      = 10.0
	placeholderCarbs    = 50.0
)

// Estimator turns text or image input into a FoodRecord via the model,
// with a deterministic fallback chain when the model cannot deliver.
type Estimator struct {
	client *Client
	log    zerolog.Logger
}

func NewEstimator(client *Client, log zerolog.Logger) *Estimator {
	return &Estimator{
		client: client,
		log:    log.With().Str("component", "estimator").Logger(),
	}
}

// EstimateFood resolves a free-text meal description. It always returns a
// usable record; a non-nil error marks the record as a fallback and tells
// the caller which terminal condition (timeout, overload, unprocessable)
// produced it.
func (e *Estimator) EstimateFood(ctx context.Context, text string) (nutrition.FoodRecord, error) {
	raw, err := e.client.GenerateText(ctx, foodSystemPrompt, text)
	if err != nil {
		e.log.Warn().Err(err).Msg("food estimate failed, using fallback")
		return e.fallbackRecord(text, ""), err
	}
	return e.recordFromReply(raw, text), nil
}

// EstimateFoodImage resolves a meal photo. Oversized images are compressed
// first; compression failure is non-fatal and the original is submitted.
func (e *Estimator) EstimateFoodImage(ctx context.Context, image []byte, mimeType string) (nutrition.FoodRecord, error) {
	image, mimeType = compressImage(e.log, image, mimeType)

	raw, err := e.client.GenerateVision(ctx, foodImagePrompt, "この食事の栄養価を推定してください。",
		base64.StdEncoding.EncodeToString(image), mimeType)
	if err != nil {
		e.log.Warn().Err(err).Msg("image estimate failed, using fallback")
		return e.fallbackRecord("", ""), err
	}
	return e.recordFromReply(raw, ""), nil
}

/* =================================================================================
						REPLY PARSING & CORRECTION
=================================================================================*/

// parsedNutrition is the JSON shape the model is asked for. The reply is
// untrusted input: decoding goes through nutritionReply which tags the
// outcome instead of assuming field presence.
type parsedNutrition struct {
	FoodName string  `json:"food_name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Unit     string  `json:"unit"`
}

// nutritionReply decodes the first JSON object in the model's free-text
// reply. ok is false when no object is present or it does not decode.
func nutritionReply(raw string) (parsedNutrition, bool) {
	obj, found := extractJSONObject(raw)
	if !found {
		return parsedNutrition{}, false
	}
	var p parsedNutrition
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return parsedNutrition{}, false
	}
	return p, true
}

// recordFromReply applies field-level correction and the fallback chain:
// parse → sanitize → keyword estimate → fixed placeholder. The result is
// never an all-zero record.
func (e *Estimator) recordFromReply(raw, originalInput string) nutrition.FoodRecord {
	p, ok := nutritionReply(raw)
	if !ok {
		e.log.Warn().Msg("no parsable JSON in model reply")
	}

	r := nutrition.FoodRecord{
		Name:       strings.TrimSpace(p.FoodName),
		Calories:   p.Calories,
		Protein:    p.Protein,
		Fat:        p.Fat,
		Carbs:      p.Carbs,
		Unit:       p.Unit,
		Source:     geminiModel,
		Confidence: 0.6,
	}
	if r.Unit == "" {
		r.Unit = "1食分"
	}
	r.Sanitize()

	if r.Calories > 0 {
		return r
	}

	// Calories came back zero or negative: keyword scan over whatever text
	// is available, then the fixed placeholder.
	return e.keywordOrPlaceholder(r, raw+" "+originalInput)
}

// fallbackRecord is the no-reply path: keyword scan over the original
// input, then the placeholder.
func (e *Estimator) fallbackRecord(originalInput, name string) nutrition.FoodRecord {
	r := nutrition.FoodRecord{
		Name:       name,
		Unit:       "1食分",
		Source:     geminiModel,
		Confidence: 0.2,
	}
	if r.Name == "" && strings.TrimSpace(originalInput) != "" {
		r.Name = strings.TrimSpace(originalInput)
	}
	r.Sanitize()
	return e.keywordOrPlaceholder(r, originalInput)
}

func (e *Estimator) keywordOrPlaceholder(r nutrition.FoodRecord, text string) nutrition.FoodRecord {
	if kcal, ok := nutrition.KeywordEstimate(nutrition.KeywordFood, text); ok {
		r.Calories = kcal
		r.Confidence = 0.3
		return r
	}

	r.Calories = placeholderCalories
	r.Protein = placeholderProtein
	r.Fat = placeholderFat
	r.Carbs = placeholderCarbs
	r.Confidence = 0.1
	return r
}

// extractJSONObject returns the first balanced {...} substring, tracking
// string literals so braces inside values do not break the balance count.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
