package config

import (
	"go/ast"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directiveName = "datafile:test"

func TestIsDirective(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDirective(`//datafile:test path="a.json"`, directiveName))
	assert.True(t, IsDirective(`//datafile:test`, directiveName))
	assert.False(t, IsDirective(`// datafile:test path="a.json"`, directiveName))
	assert.False(t, IsDirective(`//datafile:testing path="a.json"`, directiveName))
	assert.False(t, IsDirective(`//go:build datafile`, directiveName))
}

func TestFindDirective(t *testing.T) {
	t.Parallel()

	doc := &ast.CommentGroup{List: []*ast.Comment{
		{Text: "// TestThresholds checks the limits."},
		{Text: `//datafile:test path="x.list"`},
	}}

	c, ok := FindDirective(doc, directiveName)
	require.True(t, ok)
	assert.Equal(t, `//datafile:test path="x.list"`, c.Text)

	_, ok = FindDirective(nil, directiveName)
	assert.False(t, ok)
}

func TestParseDirective(t *testing.T) {
	t.Parallel()

	pos := token.Position{Filename: "a_test.go", Offset: 100, Line: 7, Column: 1}

	d, err := ParseDirective("//datafile:test kind=`list`, path=\"testdata/test_me.list\"", directiveName, pos)
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	props := d.Properties()
	assert.Equal(t, "kind", props[0].Key)
	assert.Equal(t, "list", props[0].Value)
	assert.Equal(t, "path", props[1].Key)
	assert.Equal(t, "testdata/test_me.list", props[1].Value)

	// "//datafile:test " is 16 bytes long.
	assert.Equal(t, 17, props[0].Pos.Column)
	assert.Equal(t, 7, props[0].Pos.Line)

	path, ok := d.Get("path")
	require.True(t, ok)
	assert.Equal(t, "testdata/test_me.list", path.Value)

	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestParseDirective_Empty(t *testing.T) {
	t.Parallel()

	d, err := ParseDirective("//datafile:test", directiveName, token.Position{})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestParseDirective_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		code string
		msg  string
	}{
		{"not a directive", `//other path="a"`, CodeSyntax, "not a datafile:test directive"},
		{"missing assign", `//datafile:test path "a"`, CodeSyntax, "expected '=' after path"},
		{"unquoted", `//datafile:test path=a.json`, CodeSyntax, "expected string literal for path"},
		{"number key", `//datafile:test 1="a"`, CodeSyntax, "expected property name"},
		{"double comma", `//datafile:test path="a",, kind="json"`, CodeSyntax, "expected property name"},
		{"unterminated", `//datafile:test path="a`, CodeSyntax, "string literal not terminated"},
		{"duplicate", `//datafile:test path="a" path="b"`, CodeDuplicateProperty, "duplicate property path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseDirective(tt.text, directiveName, token.Position{Filename: "f.go", Line: 1, Column: 1})
			require.Error(t, err)

			var cfgErr *Error
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.code, cfgErr.Code)
			assert.Contains(t, cfgErr.Message, tt.msg)
			assert.Contains(t, err.Error(), "f.go:1:")
		})
	}
}
