package sources

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"mealpulse/internal/nutrition"
)

// Aggregator fans a query out to every registered adapter concurrently and
// merges whatever comes back. Individual adapter failures only reduce the
// result count; SearchAll itself never fails.
type Aggregator struct {
	adapters []Adapter
	log      zerolog.Logger
}

func NewAggregator(log zerolog.Logger, adapters ...Adapter) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		log:      log.With().Str("component", "aggregator").Logger(),
	}
}

// DefaultAggregator wires up every production adapter in registration
// order. The order matters: de-duplication keeps the first occurrence.
func DefaultAggregator(log zerolog.Logger) *Aggregator {
	return NewAggregator(log,
		NewSlism(log),
		NewOpenFoodFacts(log),
		NewKurashiru(log),
		NewCookpad(log),
		NewRakutenRecipe(log),
	)
}

// AdapterReport describes one adapter's outcome for the debug variant.
type AdapterReport struct {
	Adapter   string `json:"adapter"`
	OK        bool   `json:"ok"`
	Count     int    `json:"count"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// SearchAll invokes every adapter concurrently, waits until each one has
// settled, and returns the concatenated results de-duplicated by
// case-insensitive name. An empty slice is a valid, expected outcome.
func (a *Aggregator) SearchAll(ctx context.Context, query string) []nutrition.FoodRecord {
	records, _ := a.search(ctx, query)
	return records
}

// SearchAllDebug additionally reports success, result count and elapsed
// time per adapter, for diagnosing which external sources are broken.
func (a *Aggregator) SearchAllDebug(ctx context.Context, query string) ([]nutrition.FoodRecord, []AdapterReport) {
	return a.search(ctx, query)
}

func (a *Aggregator) search(ctx context.Context, query string) ([]nutrition.FoodRecord, []AdapterReport) {
	results := make([][]nutrition.FoodRecord, len(a.adapters))
	reports := make([]AdapterReport, len(a.adapters))

	// Each task writes only its own slot and always returns nil, so one
	// slow or failing adapter never cancels the others.
	g := new(errgroup.Group)
	for i, ad := range a.adapters {
		i, ad := i, ad
		g.Go(func() error {
			start := time.Now()
			recs, err := ad.Fetch(ctx, query)
			reports[i] = AdapterReport{
				Adapter:   ad.Name(),
				OK:        err == nil,
				Count:     len(recs),
				ElapsedMS: time.Since(start).Milliseconds(),
			}
			if err != nil {
				reports[i].Error = err.Error()
				a.log.Warn().Err(err).Str("adapter", ad.Name()).Str("query", query).Msg("adapter failed")
				return nil
			}
			results[i] = recs
			return nil
		})
	}
	g.Wait()

	merged := make([]nutrition.FoodRecord, 0)
	seen := make(map[string]bool)
	for _, recs := range results {
		for _, r := range recs {
			key := strings.ToLower(strings.TrimSpace(r.Name))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
		}
	}
	return merged, reports
}
