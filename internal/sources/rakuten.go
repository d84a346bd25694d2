package sources

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"mealpulse/internal/nutrition"
)

// RakutenRecipe scrapes recipe.rakuten.co.jp search results.
type RakutenRecipe struct {
	log zerolog.Logger
}

func NewRakutenRecipe(log zerolog.Logger) *RakutenRecipe {
	return &RakutenRecipe{log: log.With().Str("adapter", "rakuten").Logger()}
}

func (a *RakutenRecipe) Name() string { return "楽天レシピ" }

func (a *RakutenRecipe) Fetch(ctx context.Context, query string) ([]nutrition.FoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	u := "https://recipe.rakuten.co.jp/search/" + url.PathEscape(query) + "/"
	doc, err := fetchDocument(ctx, u)
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}
	return a.parse(doc), nil
}

func (a *RakutenRecipe) parse(doc *goquery.Document) []nutrition.FoodRecord {
	var records []nutrition.FoodRecord
	doc.Find("li.recipe_ranking__item, div.search_result__item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := cleanTitle(sel.Find(".recipe_ranking__recipe_title, h3 a").First().Text())
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
