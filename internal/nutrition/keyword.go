package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

// KeywordDomain selects which keyword table an estimate is drawn from.
type KeywordDomain int

const (
	// KeywordFood maps dish keywords to kcal per serving.
	KeywordFood KeywordDomain = iota
	// KeywordExercise maps activity keywords to kcal burned per 30 minutes.
	KeywordExercise
)

type keywordEntry struct {
	keys []string
	kcal float64
}

// One shared table per domain. Exercise estimation, AI food fallback and
// scrape-title estimation all go through this table so the heuristics
// cannot drift apart.
var foodKeywords = []keywordEntry{
	{keys: []string{"カレー", "curry"}, kcal: 700},
	{keys: []string{"ラーメン", "ramen"}, kcal: 500},
	{keys: []string{"丼", "どんぶり"}, kcal: 650},
	{keys: []string{"パスタ", "スパゲ"}, kcal: 600},
	{keys: []string{"ピザ", "pizza"}, kcal: 800},
	{keys: []string{"定食", "弁当"}, kcal: 700},
	{keys: []string{"寿司", "すし"}, kcal: 450},
	{keys: []string{"揚げ", "フライ", "天ぷら", "カツ"}, kcal: 450},
	{keys: []string{"ステーキ", "焼肉"}, kcal: 500},
	{keys: []string{"ハンバーグ", "ハンバーガー"}, kcal: 450},
	{keys: []string{"うどん", "そば"}, kcal: 350},
	{keys: []string{"サンド", "トースト", "パン"}, kcal: 300},
	{keys: []string{"ケーキ", "デザート", "スイーツ", "パフェ"}, kcal: 350},
	{keys: []string{"鍋", "おでん"}, kcal: 400},
	{keys: []string{"スープ", "汁"}, kcal: 120},
	{keys: []string{"サラダ"}, kcal: 90},
	{keys: []string{"おにぎり", "ご飯", "ライス"}, kcal: 200},
	{keys: []string{"焼き", "炒め"}, kcal: 350},
	{keys: []string{"煮物", "煮込み"}, kcal: 250},
}

var exerciseKeywords = []keywordEntry{
	{keys: []string{"ランニング", "running", "マラソン"}, kcal: 300},
	{keys: []string{"縄跳び", "なわとび"}, kcal: 300},
	{keys: []string{"ジョギング", "jogging"}, kcal: 220},
	{keys: []string{"水泳", "スイミング", "泳"}, kcal: 250},
	{keys: []string{"サッカー", "フットサル"}, kcal: 250},
	{keys: []string{"バスケ"}, kcal: 240},
	{keys: []string{"階段"}, kcal: 240},
	{keys: []string{"テニス", "バドミントン"}, kcal: 210},
	{keys: []string{"サイクリング", "自転車"}, kcal: 200},
	{keys: []string{"登山", "ハイキング"}, kcal: 200},
	{keys: []string{"ダンス", "エアロビ"}, kcal: 180},
	{keys: []string{"野球", "キャッチボール"}, kcal: 150},
	{keys: []string{"筋トレ", "トレーニング", "腹筋", "腕立て", "スクワット"}, kcal: 120},
	{keys: []string{"ウォーキング", "散歩", "歩"}, kcal: 100},
	{keys: []string{"掃除", "家事"}, kcal: 100},
	{keys: []string{"ヨガ", "ピラティス"}, kcal: 90},
	{keys: []string{"ストレッチ"}, kcal: 60},
}

var (
	hourPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:時間|hour|h\b)`)
	minutePattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:分|min)`)
	servingPattern = regexp.MustCompile(`(\d+)\s*(?:人前|人分|個|杯|枚|皿)`)
)

// KeywordEstimate scans free text against the domain's keyword table and
// returns a rough calorie figure, scaled by any duration or serving hint
// found in the text. ok is false when no keyword hits.
func KeywordEstimate(domain KeywordDomain, text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return 0, false
	}

	table := foodKeywords
	if domain == KeywordExercise {
		table = exerciseKeywords
	}

	for _, e := range table {
		for _, k := range e.keys {
			if strings.Contains(t, strings.ToLower(k)) {
				return scaleByHints(domain, t, e.kcal), true
			}
		}
	}
	return 0, false
}

// DurationMinutes extracts a duration hint ("1時間", "45分") from free text.
// ok is false when no hint is present.
func DurationMinutes(text string) (float64, bool) {
	t := strings.ToLower(text)
	minutes := 0.0
	found := false
	if m := hourPattern.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			minutes += v * 60
			found = true
		}
	}
	if m := minutePattern.FindStringSubmatch(t); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			minutes += v
			found = true
		}
	}
	return minutes, found
}

func scaleByHints(domain KeywordDomain, text string, base float64) float64 {
	switch domain {
	case KeywordExercise:
		// Table values are kcal per 30 minutes.
		if minutes, ok := DurationMinutes(text); ok && minutes > 0 {
			return base * minutes / 30
		}
		return base
	default:
		if m := servingPattern.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 1 {
				return base * float64(n)
			}
		}
		return base
	}
}
