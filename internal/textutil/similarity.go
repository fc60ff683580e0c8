package textutil

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into lowercase letter/digit tokens. Accents are
// folded so "Kyrie Eleison" and "Kyrie eléison" share tokens.
func Tokenize(text string) []string {
	decomposed := norm.NFD.String(strings.ToLower(text))
	var b strings.Builder
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.FieldsFunc(b.String(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Similarity returns the cosine similarity of the token frequency vectors
// of a and b, in [0, 1]. Two empty strings are not similar.
func Similarity(a, b string) float64 {
	left := termCounts(a)
	right := termCounts(b)
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for token, count := range left {
		normA += count * count
		if other, ok := right[token]; ok {
			dot += count * other
		}
	}
	for _, count := range right {
		normB += count * count
	}
	if dot == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func termCounts(text string) map[string]float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return counts
}
