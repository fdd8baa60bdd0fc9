package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a        string
		b        string
		expected int
	}{
		// Identical strings
		{"", "", 0},
		{"path", "path", 0},

		// Empty vs non-empty
		{"", "abc", 3},
		{"abc", "", 3},

		// Single rune operations
		{"a", "b", 1},
		{"pth", "path", 1},
		{"paths", "path", 1},

		// Multiple operations
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},

		// Case-sensitive, rune-aware
		{"Kind", "kind", 1},
		{"ñame", "name", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 0.75, Similarity("pth", "path"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
}

func TestNormalizeIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"MaxSize", "maxsize"},
		{"max_size", "maxsize"},
		{"max-size", "maxsize"},
		{"MAX SIZE", "maxsize"},
		{"test.me", "testme"},
		{"", ""},
		{"Ñame", "ñame"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeIdent(tt.input), tt.input)
	}
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	kinds := []string{"csv", "json", "yaml", "ron", "toml", "list"}

	tests := []struct {
		name       string
		candidates []string
		want       string
		ok         bool
	}{
		{"pth", []string{"path", "kind"}, "path", true},
		{"Kind", []string{"path", "kind"}, "kind", true},
		{"jsn", kinds, "json", true},
		{"tml", kinds, "toml", true},
		{"xml", kinds, "", false},
		{"TestThreshold", []string{"TestThresholds", "TestLimits"}, "TestThresholds", true},
		{"test_limits", []string{"TestThresholds", "TestLimits"}, "TestLimits", true},
		{"path", []string{"path"}, "", false},
		{"anything", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Suggest(tt.name, tt.candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ", did you mean path?", Hint("pth", []string{"path", "kind"}))
	assert.Empty(t, Hint("zzz", []string{"path", "kind"}))
	assert.Equal(t, []string{"a", "b"}, Sorted(map[string]int{"b": 1, "a": 2}))
}
