package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealpulse/internal/nutrition"
)

// stubAdapter simulates one external source with a fixed outcome, an
// optional service delay, and its own request timeout.
type stubAdapter struct {
	name    string
	records []nutrition.FoodRecord
	err     error
	delay   time.Duration
	timeout time.Duration
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(ctx context.Context, _ string) ([]nutrition.FoodRecord, error) {
	timeout := s.timeout
	if timeout == 0 {
		timeout = adapterTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.records, s.err
}

func rec(name string, kcal float64) nutrition.FoodRecord {
	return nutrition.FoodRecord{Name: name, Calories: kcal, Unit: "1人前", Source: "stub", Confidence: 0.5}
}

func TestSearchAllMergesInRegistrationOrder(t *testing.T) {
	ag := NewAggregator(zerolog.Nop(),
		&stubAdapter{name: "a", records: []nutrition.FoodRecord{rec("カレー", 700)}},
		&stubAdapter{name: "b", records: []nutrition.FoodRecord{rec("ラーメン", 500)}},
	)

	got := ag.SearchAll(context.Background(), "query")
	require.Len(t, got, 2)
	assert.Equal(t, "カレー", got[0].Name)
	assert.Equal(t, "ラーメン", got[1].Name)
}

func TestSearchAllDeduplicatesCaseInsensitively(t *testing.T) {
	ag := NewAggregator(zerolog.Nop(),
		&stubAdapter{name: "a", records: []nutrition.FoodRecord{rec("Chicken Curry", 700)}},
		&stubAdapter{name: "b", records: []nutrition.FoodRecord{rec("chicken curry", 650)}},
	)

	got := ag.SearchAll(context.Background(), "query")
	require.Len(t, got, 1)
	// First occurrence in registration order wins.
	assert.Equal(t, "Chicken Curry", got[0].Name)
	assert.Equal(t, 700.0, got[0].Calories)
}

func TestSearchAllAbsorbsAdapterFailures(t *testing.T) {
	ag := NewAggregator(zerolog.Nop(),
		&stubAdapter{name: "broken", err: errors.New("boom")},
		&stubAdapter{name: "ok", records: []nutrition.FoodRecord{rec("サラダ", 90)}},
	)

	got := ag.SearchAll(context.Background(), "query")
	require.Len(t, got, 1)
	assert.Equal(t, "サラダ", got[0].Name)
}

func TestSearchAllEmptyWhenEverySourceFails(t *testing.T) {
	ag := NewAggregator(zerolog.Nop(),
		&stubAdapter{name: "a", err: errors.New("boom")},
		&stubAdapter{name: "b", err: errors.New("boom")},
	)

	got := ag.SearchAll(context.Background(), "query")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchAllBoundedByAdapterTimeouts(t *testing.T) {
	// Every adapter stalls far beyond its own 100ms budget. SearchAll must
	// come back once they all time out, not hang on the slowest sleep.
	slow := func(name string) *stubAdapter {
		return &stubAdapter{name: name, delay: 10 * time.Second, timeout: 100 * time.Millisecond}
	}
	ag := NewAggregator(zerolog.Nop(), slow("a"), slow("b"), slow("c"), slow("d"), slow("e"))

	start := time.Now()
	got := ag.SearchAll(context.Background(), "query")
	elapsed := time.Since(start)

	assert.Empty(t, got)
	assert.Less(t, elapsed, time.Second)
}

func TestSearchAllDebugReports(t *testing.T) {
	ag := NewAggregator(zerolog.Nop(),
		&stubAdapter{name: "ok", records: []nutrition.FoodRecord{rec("カレー", 700)}},
		&stubAdapter{name: "broken", err: errors.New("boom")},
	)

	records, reports := ag.SearchAllDebug(context.Background(), "query")
	require.Len(t, records, 1)
	require.Len(t, reports, 2)

	assert.Equal(t, "ok", reports[0].Adapter)
	assert.True(t, reports[0].OK)
	assert.Equal(t, 1, reports[0].Count)

	assert.Equal(t, "broken", reports[1].Adapter)
	assert.False(t, reports[1].OK)
	assert.Equal(t, "boom", reports[1].Error)
}
