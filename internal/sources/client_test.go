package sources

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceRequestRejectsUnknownHost(t *testing.T) {
	_, err := newSourceRequest(context.Background(), "https://evil.example.com/steal")
	assert.ErrorIs(t, err, ErrHostNotAllowed)
}

func TestNewSourceRequestAllowsListedHost(t *testing.T) {
	req, err := newSourceRequest(context.Background(), "https://calorie.slism.jp/?searchWord=x")
	require.NoError(t, err)
	assert.Equal(t, userAgent, req.Header.Get("User-Agent"))
	assert.Contains(t, req.Header.Get("Accept-Language"), "ja")
}

func TestParseCalorieText(t *testing.T) {
	v, ok := parseCalorieText("エネルギー 345kcal")
	assert.True(t, ok)
	assert.Equal(t, 345.0, v)

	v, ok = parseCalorieText("520.5 kcal / 1人前")
	assert.True(t, ok)
	assert.Equal(t, 520.5, v)

	_, ok = parseCalorieText("たんぱく質 12g")
	assert.False(t, ok)
}

func TestSlismParse(t *testing.T) {
	html := `<html><body><ul class="food_list">
		<li><span class="food_name">鶏胸肉(皮なし)</span>
			<span class="calorie">108kcal</span>
			<span class="protein">22.3g</span>
			<span class="fat">1.5g</span>
			<span class="carb">0g</span></li>
		<li><span class="food_name">カレーパン</span>
			<span class="calorie">壊れた値</span></li>
	</ul></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	got := NewSlism(zerolog.Nop()).parse(doc)
	require.Len(t, got, 2)

	assert.Equal(t, "鶏胸肉(皮なし)", got[0].Name)
	assert.Equal(t, 108.0, got[0].Calories)
	assert.Equal(t, 22.3, got[0].Protein)
	assert.Equal(t, 1.5, got[0].Fat)

	// Unparsable calorie figure but a recognizable title: keyword fallback
	// instead of a dropped or zero-calorie record.
	assert.Equal(t, "カレーパン", got[1].Name)
	assert.Greater(t, got[1].Calories, 0.0)
	assert.Equal(t, 0.2, got[1].Confidence)
}

func TestKurashiruParseDiscardsImplausibleCalories(t *testing.T) {
	html := `<html><body>
		<li class="video-list-item"><p class="title">謎の料理zzz</p>
			<span class="calorie">25000kcal</span></li>
		<li class="video-list-item"><p class="title">豚汁</p>
			<span class="calorie">150kcal</span></li>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	got := NewKurashiru(zerolog.Nop()).parse(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "豚汁", got[0].Name)
	assert.Equal(t, 150.0, got[0].Calories)
}

func TestOFFProductExtraction(t *testing.T) {
	p := offProduct{
		ProductName: "Instant Ramen",
		Nutriments: map[string]any{
			"energy-kj_100g":     float64(1883),
			"proteins_100g":      float64(9.5),
			"fat_100g":           "18.2",
			"carbohydrates_100g": float64(60.1),
		},
	}
	assert.InDelta(t, 450.0, p.kcal100g(), 1.0)
	assert.Equal(t, 9.5, p.nutriment("proteins_100g", 100))
	assert.Equal(t, 18.2, p.nutriment("fat_100g", 100))
	// Out-of-range values are a parse failure, not a food.
	p.Nutriments["proteins_100g"] = float64(900)
	assert.Equal(t, 0.0, p.nutriment("proteins_100g", 100))
}
