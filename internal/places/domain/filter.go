package domain

import "strings"

// genericTokens is the stoplist of marketing-jargon words. A query made up
// entirely of these matches everything: searching literally for
// "marketing agency" should not narrow a list that is already all marketing
// agencies.
var genericTokens = map[string]bool{
	"marketing":   true,
	"agency":      true,
	"agencies":    true,
	"advertising": true,
	"ads":         true,
	"ad":          true,
	"digital":     true,
	"branding":    true,
	"seo":         true,
	"ppc":         true,
	"social":      true,
	"media":       true,
	"pr":          true,
	"public":      true,
	"relations":   true,
	"consulting":  true,
	"services":    true,
	"service":     true,
}

// categoryKeywords maps a category filter to the haystack keywords it
// implies. Categories not in the table contribute no extra constraint.
var categoryKeywords = map[string][]string{
	"seo":    {"seo", "search", "optimization"},
	"ads":    {"ads", "advertising", "ppc", "paid"},
	"design": {"design", "branding", "creative"},
	"social": {"social", "community", "influencer"},
	"email":  {"email", "crm", "automation"},
	"dev":    {"web", "development", "software"},
	"video":  {"video", "production"},
}

// Tokenize lowercases the value and splits it on any run of
// non-alphanumeric characters, dropping empty tokens.
func Tokenize(value string) []string {
	return strings.FieldsFunc(strings.ToLower(value), func(r rune) bool {
		return !isAlphanumeric(r)
	})
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// IsGenericQuery reports whether every token of the query belongs to the
// generic stoplist. An empty query is generic.
func IsGenericQuery(query string) bool {
	for _, token := range Tokenize(query) {
		if !genericTokens[token] {
			return false
		}
	}
	return true
}

// FilterByQuery narrows agencies by a free-text query and/or category. An
// agency matches when ANY query token appears in its haystack AND (there is
// no category constraint, or ANY category keyword appears). A generic query
// with no category constraint returns the input unfiltered, as does the
// absence of both query and category.
func FilterByQuery(agencies []Agency, query, category string) []Agency {
	if query == "" && category == "" {
		return agencies
	}

	tokens := Tokenize(query)
	keywords := categoryKeywords[category]

	if query != "" && IsGenericQuery(query) && len(keywords) == 0 {
		return agencies
	}

	filtered := make([]Agency, 0, len(agencies))
	for _, agency := range agencies {
		haystack := agency.SearchText()
		if matchesAny(haystack, tokens) && matchesAny(haystack, keywords) {
			filtered = append(filtered, agency)
		}
	}
	return filtered
}

// matchesAny reports whether any token is a substring of the haystack.
// An empty token list imposes no constraint.
func matchesAny(haystack string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			return true
		}
	}
	return false
}
