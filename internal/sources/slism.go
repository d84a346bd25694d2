package sources

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"mealpulse/internal/nutrition"
)

// Slism scrapes calorie.slism.jp, a Japanese per-food calorie dictionary.
// Unlike the recipe sites it carries full PFC values per 100g, so its
// results get the highest confidence of the scraped sources.
type Slism struct {
	log zerolog.Logger
}

func NewSlism(log zerolog.Logger) *Slism {
	return &Slism{log: log.With().Str("adapter", "slism").Logger()}
}

func (a *Slism) Name() string { return "カロリーSlism" }

func (a *Slism) Fetch(ctx context.Context, query string) ([]nutrition.FoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	u := "https://calorie.slism.jp/?searchWord=" + url.QueryEscape(query) + "&search=検索"
	doc, err := fetchDocument(ctx, u)
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}
	return a.parse(doc), nil
}

func (a *Slism) parse(doc *goquery.Document) []nutrition.FoodRecord {
	var records []nutrition.FoodRecord
	doc.Find("ul.food_list li, li.food_item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := cleanTitle(sel.Find(".food_name, h3 a").First().Text())
		if title == "" {
			return true
		}

		kcal, ok := parseCalorieText(sel.Find(".calorie, .kcal").First().Text())
		if !ok || !plausible(kcal) {
			if r, fb := titleFallback(title, "100g", a.Name()); fb {
				records = append(records, r)
			}
			return len(records) < 5
		}

		records = append(records, nutrition.FoodRecord{
			Name:       title,
			Calories:   kcal,
			Protein:    parseGramText(sel.Find(".protein").First().Text()),
			Fat:        parseGramText(sel.Find(".fat").First().Text()),
			Carbs:      parseGramText(sel.Find(".carb, .carbohydrate").First().Text()),
			Unit:       "100g",
			Source:     a.Name(),
			Confidence: 0.85,
		})
		return len(records) < 5
	})
	return records
}
