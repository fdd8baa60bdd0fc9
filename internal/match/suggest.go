package match

import (
	"fmt"
	"slices"
)

// MinSimilarity is the normalized similarity a candidate must exceed to be
// suggested.
const MinSimilarity = 0.5

// Suggest returns the candidate closest to name after normalization, and
// false when none is similar enough. Exact matches are not suggestions.
// Ties go to the earlier candidate.
func Suggest(name string, candidates []string) (string, bool) {
	norm := NormalizeIdent(name)

	var (
		best      string
		bestScore = -1.0
	)

	for _, c := range candidates {
		if c == name {
			continue
		}

		score := Similarity(norm, NormalizeIdent(c))
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore <= MinSimilarity {
		return "", false
	}

	return best, true
}

// Hint renders the suggestion for name as a message suffix, or "" when there
// is none.
func Hint(name string, candidates []string) string {
	if s, ok := Suggest(name, candidates); ok {
		return fmt.Sprintf(", did you mean %s?", s)
	}

	return ""
}

// Sorted returns the keys of m in sorted order, for use as candidates.
func Sorted[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
