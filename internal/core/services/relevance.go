package services

import (
	"strings"

	"github.com/verdant-labs/wellspring-core/internal/core/domain"
)

// Lexical relevance weights: title match carries the most signal per
// occurrence, keyword matches scale with the matched fraction, content
// overlap scales with query coverage.
const (
	titleMatchWeight     = 0.3
	keywordMatchWeight   = 0.4
	contentOverlapWeight = 0.3
)

// lexicalRelevance scores how well a document matches the query text,
// independent of vector similarity. Result is capped at 1.0.
func lexicalRelevance(query string, doc *domain.Document) float64 {
	queryLower := strings.ToLower(query)
	score := 0.0

	if strings.Contains(strings.ToLower(doc.Title), queryLower) {
		score += titleMatchWeight
	}

	if len(doc.Keywords) > 0 {
		matched := 0
		for _, kw := range doc.Keywords {
			if strings.Contains(queryLower, strings.ToLower(kw)) {
				matched++
			}
		}
		score += float64(matched) / float64(len(doc.Keywords)) * keywordMatchWeight
	}

	score += wordOverlap(queryLower, strings.ToLower(doc.Content)) * contentOverlapWeight

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// wordOverlap returns the fraction of query words present in the content
func wordOverlap(queryLower, contentLower string) float64 {
	words := strings.Fields(queryLower)
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, w := range words {
		if strings.Contains(contentLower, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// extractContext returns the one or two sentences of content most
// relevant to the query, in document order.
func extractContext(query, content string) string {
	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return ""
	}

	queryLower := strings.ToLower(query)
	type scored struct {
		index int
		score float64
	}

	best := scored{index: -1}
	second := scored{index: -1}
	for i, s := range sentences {
		sc := wordOverlap(queryLower, strings.ToLower(s))
		if sc > best.score || best.index == -1 {
			second = best
			best = scored{index: i, score: sc}
		} else if sc > second.score || second.index == -1 {
			second = scored{index: i, score: sc}
		}
	}

	if second.index == -1 || second.score == 0 {
		return sentences[best.index]
	}

	// Keep document order
	first, last := best.index, second.index
	if first > last {
		first, last = last, first
	}
	return sentences[first] + " " + sentences[last]
}

// splitSentences breaks text on terminal punctuation, dropping empty fragments
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
