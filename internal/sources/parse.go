package sources

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	kcalPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kcal|ｋｃａｌ|キロカロリー)`)
	gramPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:g|ｇ|グラム)`)
)

// parseCalorieText pulls a kcal figure out of scraped text like
// "345kcal" or "エネルギー 345 kcal".
func parseCalorieText(s string) (float64, bool) {
	m := kcalPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseGramText pulls a gram figure out of scraped text like "12.5g".
func parseGramText(s string) float64 {
	m := gramPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func cleanTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
