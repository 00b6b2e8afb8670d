package search

import "strings"

// Stop words to filter out before keyword matching
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "what": true, "how": true, "my": true, "i": true,
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation,
// removes stop words, and stems lightly
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}$"))
		if cleaned == "" || stopWords[cleaned] {
			continue
		}
		filtered = append(filtered, stem(cleaned))
	}

	return filtered
}

// stem strips common suffixes so "transactions" matches "transaction"
// and "monitoring" matches "monitor". Not a real stemmer; exact enough
// for keyword boosting.
func stem(word string) string {
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

// keywordOverlap returns the fraction of query tokens that appear in
// the document, both sides stemmed. Returns 0 for an empty query.
func keywordOverlap(queryTokens []string, document string) float32 {
	if len(queryTokens) == 0 {
		return 0
	}

	docTokens := tokenizeAndFilter(document)
	docSet := make(map[string]bool, len(docTokens))
	for _, token := range docTokens {
		docSet[token] = true
	}

	matched := 0
	for _, token := range queryTokens {
		if docSet[token] {
			matched++
		}
	}

	return float32(matched) / float32(len(queryTokens))
}
