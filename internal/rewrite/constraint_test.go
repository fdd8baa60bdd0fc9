package rewrite

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findConstraint(t *testing.T, src string) Constraint {
	t.Helper()

	fset, f := parse(t, src)
	c, err := FindConstraint(f, func(n ast.Node) int { return fset.Position(n.Pos()).Offset })
	require.NoError(t, err)

	return c
}

func TestConstraint_Negate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
		hides  bool
	}{
		{"tag only", "//go:build datafile\n", "!datafile", true},
		{"with platform", "//go:build datafile && linux\n", "!datafile && linux", true},
		{"or", "//go:build datafile || windows\n", "!datafile || windows", false},
		{"already negated", "//go:build !datafile\n", "datafile", false},
		{"unrelated", "//go:build linux || darwin\n", "!datafile && (linux || darwin)", false},
		{"none", "", "!datafile", false},
		{"legacy line", "//go:build datafile\n// +build datafile\n", "!datafile", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := findConstraint(t, tt.header+"\npackage x\n")
			assert.Equal(t, tt.want, c.Negate("datafile").String())
			assert.Equal(t, tt.hides, c.Hides("datafile"))
		})
	}
}

func TestFindConstraint_Lines(t *testing.T) {
	t.Parallel()

	src := "// Copyright note.\n\n//go:build datafile\n// +build datafile\n\n// Package x does things.\npackage x\n\n//go:build ignored\n"
	c := findConstraint(t, src)

	require.Len(t, c.Lines, 2)
	assert.Equal(t, "//go:build datafile", src[c.Lines[0][0]:c.Lines[0][1]])
	assert.Equal(t, "// +build datafile", src[c.Lines[1][0]:c.Lines[1][1]])

	edits := stripLines([]byte(src), c.Lines)
	assert.Equal(t, c.Lines[0][1]+1, edits[0].end)
}

func TestLine(t *testing.T) {
	t.Parallel()

	c := findConstraint(t, "//go:build datafile && !windows\n\npackage x\n")
	assert.Equal(t, "//go:build !datafile && !windows", Line(c.Negate("datafile")))
}
