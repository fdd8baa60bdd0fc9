package rewrite

import (
	"go/ast"
	"strings"

	"datafile-gen/internal/config"
)

// MarkerPolicy decides where the doc comment lines of an annotated function
// end up. Lines are matched by prefix, including the leading "//".
type MarkerPolicy struct {
	// Strip lines are dropped from both functions.
	Strip []string `yaml:"strip"`
	// Keep lines stay on the renamed function only.
	Keep []string `yaml:"keep"`
	// Both lines are copied to the wrapper and the renamed function.
	Both []string `yaml:"both"`
	// Every other line migrates to the wrapper.
}

// DefaultMarkerPolicy keeps compiler directives with the body they describe,
// copies linter suppressions to both functions and moves the prose to the
// wrapper.
func DefaultMarkerPolicy() MarkerPolicy {
	return MarkerPolicy{
		Keep: []string{"//go:"},
		Both: []string{"//nolint", "//lint:"},
	}
}

// split divides a doc comment between the wrapper and the renamed function.
// The generator directive is always stripped.
func (p MarkerPolicy) split(doc *ast.CommentGroup, directive string) (wrapper, inner []string) {
	if doc == nil {
		return nil, nil
	}

	for _, c := range doc.List {
		switch {
		case config.IsDirective(c.Text, directive), hasAnyPrefix(c.Text, p.Strip):
			// dropped
		case hasAnyPrefix(c.Text, p.Keep):
			inner = append(inner, c.Text)
		case hasAnyPrefix(c.Text, p.Both):
			wrapper = append(wrapper, c.Text)
			inner = append(inner, c.Text)
		default:
			wrapper = append(wrapper, c.Text)
		}
	}

	return trimBlank(wrapper), trimBlank(inner)
}

// trimBlank drops empty comment lines left at the end of lines.
func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "//" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}

	return false
}
