package nutrition

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Match tiers. A prefix relationship always outranks a pure substring
// relationship, which always outranks token overlap; the proportional
// score only orders candidates within the same tier.
const (
	tierNone = iota
	tierToken
	tierSubstring
	tierPrefix
)

const (
	prefixScore       = 10.0
	substringMaxScore = 8.0
	tokenMaxScore     = 6.0
)

type matchScore struct {
	tier  int
	value float64
}

func (s matchScore) beats(o matchScore) bool {
	if s.tier != o.tier {
		return s.tier > o.tier
	}
	return s.value > o.value
}

// Match resolves a free-text food description to the best table entry, or
// nil when nothing matches. First an exact comparison, then a scored pass
// over every entry, then a category-label fallback. Ties resolve to the
// first entry in table order.
func (t *Table) Match(query string) *FoodRecord {
	norm := normalizeName(query)
	if norm == "" {
		return nil
	}

	// Tier 0: exact match against the raw query and its normalization.
	for _, e := range t.entries {
		if query == e.Name || norm == normalizeName(e.Name) {
			r := e.Record()
			return &r
		}
	}

	var best *Entry
	bestScore := matchScore{}
	for i := range t.entries {
		if s := scoreEntry(query, t.entries[i].Name); s.beats(bestScore) {
			bestScore = s
			best = &t.entries[i]
		}
	}
	if best != nil {
		r := best.Record()
		return &r
	}

	// Nothing scored: fall back to a substring match on category labels.
	for _, e := range t.entries {
		cat := normalizeName(e.Category)
		if cat == "" {
			continue
		}
		if strings.Contains(norm, cat) || strings.Contains(cat, norm) {
			r := e.Record()
			return &r
		}
	}

	return nil
}

// scoreEntry ranks one table key against the query: prefix containment in
// either direction scores a fixed 10, substring containment scores
// min(len)/max(len)*8, and cross-token containment scores
// matched/max(tokens)*6.
func scoreEntry(query, key string) matchScore {
	q := compactName(query)
	k := compactName(key)
	if q == "" || k == "" {
		return matchScore{}
	}

	if strings.HasPrefix(q, k) || strings.HasPrefix(k, q) {
		return matchScore{tier: tierPrefix, value: prefixScore}
	}

	if strings.Contains(q, k) || strings.Contains(k, q) {
		qn := utf8.RuneCountInString(q)
		kn := utf8.RuneCountInString(k)
		v := float64(minInt(qn, kn)) / float64(maxInt(qn, kn)) * substringMaxScore
		return matchScore{tier: tierSubstring, value: v}
	}

	qt := nameTokens(query)
	kt := nameTokens(key)
	if len(qt) == 0 || len(kt) == 0 {
		return matchScore{}
	}
	matched := 0
	for _, a := range qt {
		for _, b := range kt {
			if strings.Contains(a, b) || strings.Contains(b, a) {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return matchScore{}
	}
	v := float64(matched) / float64(maxInt(len(qt), len(kt))) * tokenMaxScore
	return matchScore{tier: tierToken, value: v}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// nameTokens splits a food name on whitespace, the middle dot, and the
// connective の, so "鶏のステーキ" and "鶏・ステーキ" both tokenize to
// ["鶏", "ステーキ"].
func nameTokens(s string) []string {
	return strings.FieldsFunc(normalizeName(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '・' || r == 'の'
	})
}

// compactName is the token-joined form used for prefix and substring
// comparison, so particle-only differences do not defeat a prefix match.
func compactName(s string) string {
	return strings.Join(nameTokens(s), "")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
