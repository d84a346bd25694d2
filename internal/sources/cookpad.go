package sources

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"mealpulse/internal/nutrition"
)

// Cookpad scrapes recipe search results from cookpad.com. Recipe cards
// rarely carry a calorie figure, so most results come from the title
// keyword fallback at low confidence.
type Cookpad struct {
	log zerolog.Logger
}

func NewCookpad(log zerolog.Logger) *Cookpad {
	return &Cookpad{log: log.With().Str("adapter", "cookpad").Logger()}
}

func (a *Cookpad) Name() string { return "クックパッド" }

func (a *Cookpad) Fetch(ctx context.Context, query string) ([]nutrition.FoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	u := "https://cookpad.com/search/" + url.PathEscape(query)
	doc, err := fetchDocument(ctx, u)
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}
	return a.parse(doc), nil
}

func (a *Cookpad) parse(doc *goquery.Document) []nutrition.FoodRecord {
	var records []nutrition.FoodRecord
	doc.Find("li.recipe-preview, div.recipe-card").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := cleanTitle(sel.Find("a.recipe-title, h2 a").First().Text())
		if title == "" {
			return true
		}

		if kcal, ok := parseCalorieText(sel.Text()); ok && plausible(kcal) {
			records = append(records, nutrition.FoodRecord{
				Name:       title,
				Calories:   kcal,
				Unit:       "1人前",
				Source:     a.Name(),
				Confidence: 0.4,
			})
		} else if r, fb := titleFallback(title, "1人前", a.Name()); fb {
			records = append(records, r)
		}
		return len(records) < 5
	})
	return records
}
