package sources

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/rs/zerolog"

	"mealpulse/internal/nutrition"
)

// OpenFoodFacts queries the Open Food Facts search API. It is the only
// JSON-based adapter; everything it needs comes back in the nutriments map.
type OpenFoodFacts struct {
	log zerolog.Logger
}

func NewOpenFoodFacts(log zerolog.Logger) *OpenFoodFacts {
	return &OpenFoodFacts{log: log.With().Str("adapter", "openfoodfacts").Logger()}
}

func (a *OpenFoodFacts) Name() string { return "Open Food Facts" }

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

type offProduct struct {
	ProductName   string         `json:"product_name"`
	ProductNameJa string         `json:"product_name_ja"`
	GenericName   string         `json:"generic_name"`
	ServingSize   string         `json:"serving_size"`
	Nutriments    map[string]any `json:"nutriments"`
}

func (a *OpenFoodFacts) Fetch(ctx context.Context, query string) ([]nutrition.FoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	u := "https://world.openfoodfacts.org/cgi/search.pl?action=process&json=1&search_simple=1&page_size=10" +
		"&fields=product_name,product_name_ja,generic_name,serving_size,nutriments" +
		"&search_terms=" + url.QueryEscape(query)

	var resp offSearchResponse
	if err := fetchJSON(ctx, u, &resp); err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}

	records := make([]nutrition.FoodRecord, 0, len(resp.Products))
	for _, p := range resp.Products {
		name := p.name()
		if name == "" {
			continue
		}

		kcal := p.kcal100g()
		if !plausible(kcal) {
			// Named product with no usable calorie figure: keyword guess.
			if r, ok := titleFallback(name, "100g", a.Name()); ok {
				records = append(records, r)
			}
			continue
		}

		records = append(records, nutrition.FoodRecord{
			Name:       name,
			Calories:   kcal,
			Protein:    p.nutriment("proteins_100g", 100),
			Fat:        p.nutriment("fat_100g", 100),
			Carbs:      p.nutriment("carbohydrates_100g", 100),
			Unit:       defaultString(p.ServingSize, "100g"),
			Source:     a.Name(),
			Confidence: 0.7,
		})
	}
	return records, nil
}

// name picks the best available product name: Japanese name first, then
// the default name, then the generic description.
func (p offProduct) name() string {
	if p.ProductNameJa != "" {
		return p.ProductNameJa
	}
	if p.ProductName != "" {
		return p.ProductName
	}
	return p.GenericName
}

// kcal100g prefers energy-kcal_100g and falls back to kJ / 4.184.
func (p offProduct) kcal100g() float64 {
	if v, ok := offFloat(p.Nutriments, "energy-kcal_100g"); ok {
		return v
	}
	if v, ok := offFloat(p.Nutriments, "energy-kj_100g"); ok {
		return v / 4.184
	}
	return 0
}

// nutriment reads a gram value from the nutriments map, discarding values
// outside [0, max].
func (p offProduct) nutriment(key string, max float64) float64 {
	v, ok := offFloat(p.Nutriments, key)
	if !ok || v < 0 || v > max {
		return 0
	}
	return v
}

// offFloat coerces an Open Food Facts nutriment value, which may arrive as
// a number or a string, into a float64.
func offFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(x, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
