package sources

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"mealpulse/internal/nutrition"
)

// Kurashiru scrapes www.kurashiru.com search results. Its recipe cards
// usually display a per-serving kcal figure.
type Kurashiru struct {
	log zerolog.Logger
}

func NewKurashiru(log zerolog.Logger) *Kurashiru {
	return &Kurashiru{log: log.With().Str("adapter", "kurashiru").Logger()}
}

func (a *Kurashiru) Name() string { return "クラシル" }

func (a *Kurashiru) Fetch(ctx context.Context, query string) ([]nutrition.FoodRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, adapterTimeout)
	defer cancel()

	u := "https://www.kurashiru.com/search?query=" + url.QueryEscape(query)
	doc, err := fetchDocument(ctx, u)
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return nil, err
	}
	return a.parse(doc), nil
}

func (a *Kurashiru) parse(doc *goquery.Document) []nutrition.FoodRecord {
	var records []nutrition.FoodRecord
	doc.Find("li.video-list-item, div.recipe-item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := cleanTitle(sel.Find(".title, p.video-title").First().Text())
		if title == "" {
			return true
		}

		kcal, ok := parseCalorieText(sel.Find(".calorie, .video-calorie").First().Text())
		if !ok {
			kcal, ok = parseCalorieText(sel.Text())
		}

		if ok && plausible(kcal) {
			records = append(records, nutrition.FoodRecord{
				Name:       title,
				Calories:   kcal,
				Unit:       "1人前",
				Source:     a.Name(),
				Confidence: 0.5,
			})
		} else if r, fb := titleFallback(title, "1人前", a.Name()); fb {
			records = append(records, r)
		}
		return len(records) < 5
	})
	return records
}
