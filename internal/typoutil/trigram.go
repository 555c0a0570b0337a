package typoutil

import (
	"strings"
	"unicode"
)

// NormKey removes all whitespace and lowercases s. It is the lookup key for
// normalized-exact matching and the input of every similarity measure.
func NormKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}

// Trigrams returns the set of 3-rune windows of NormKey(s).
// Keys shorter than three runes yield a single element: the key itself.
func Trigrams(s string) map[string]struct{} {
	key := []rune(NormKey(s))
	out := make(map[string]struct{})
	if len(key) < 3 {
		out[string(key)] = struct{}{}
		return out
	}
	for i := 0; i+3 <= len(key); i++ {
		out[string(key[i:i+3])] = struct{}{}
	}
	return out
}

// Jaccard returns |a∩b| / |a∪b|. Two empty sets are considered identical.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// TrigramSimilarity is the Jaccard similarity of the trigram sets of a and b.
func TrigramSimilarity(a, b string) float64 {
	return Jaccard(Trigrams(a), Trigrams(b))
}
