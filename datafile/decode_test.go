package datafile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sizeCase struct {
	Name    *string `json:"name" yaml:"name" toml:"name"`
	MaxSize int     `json:"max_size" yaml:"max_size" toml:"max_size"`
	IsAbove bool    `json:"is_above" yaml:"is_above" toml:"is_above"`
}

func maxSizes(cases []sizeCase) []int {
	sizes := make([]int, 0, len(cases))
	for _, c := range cases {
		sizes = append(sizes, c.MaxSize)
	}

	return sizes
}

func TestDecode_JSON(t *testing.T) {
	t.Parallel()

	list := `[
		{"name": "abc", "max_size": 2, "is_above": true},
		{"name": null, "max_size": 5, "is_above": false}
	]`

	cases, err := Decode[sizeCase](JSON, []byte(list))
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, []int{2, 5}, maxSizes(cases))
	assert.Nil(t, cases[1].Name)

	set := `{
		"short": {"name": "abc", "max_size": 2, "is_above": true},
		"none": {"name": null, "max_size": 5, "is_above": false}
	}`

	cases, err = Decode[sizeCase](JSON, []byte(set))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 5}, maxSizes(cases))
}

func TestDecode_YAML(t *testing.T) {
	t.Parallel()

	list := "- name: abc\n  max_size: 2\n  is_above: true\n- max_size: 9\n  is_above: false\n"

	cases, err := Decode[sizeCase](YAML, []byte(list))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 9}, maxSizes(cases))

	single, err := Decode[sizeCase](YAML, []byte("---\n- max_size: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, []int{4}, maxSizes(single))

	set := "first:\n  name: abc\n  max_size: 2\n  is_above: true\nsecond:\n  max_size: 9\n  is_above: false\n"

	cases, err = Decode[sizeCase](YAML, []byte(set))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 9}, maxSizes(cases))
}

func TestDecode_TOML(t *testing.T) {
	t.Parallel()

	set := `
[short]
name = "abc"
max_size = 2
is_above = true

[none]
max_size = 5
is_above = false
`

	cases, err := Decode[sizeCase](TOML, []byte(set))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 5}, maxSizes(cases))
}

func TestDecode_RON(t *testing.T) {
	t.Parallel()

	list := `[
		(name: Some("abc"), max_size: 2, is_above: true),
		(name: None, max_size: 5, is_above: false),
	]`

	cases, err := Decode[sizeCase](RON, []byte(list))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, maxSizes(cases))
	require.NotNil(t, cases[0].Name)
	assert.Equal(t, "abc", *cases[0].Name)
	assert.Nil(t, cases[1].Name)

	set := `{
		"short": (name: Some("abc"), max_size: 2, is_above: true),
		"none": (name: None, max_size: 5, is_above: false),
	}`

	cases, err = Decode[sizeCase](RON, []byte(set))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{2, 5}, maxSizes(cases))
}

func TestDecode_SameCountForBothShapes(t *testing.T) {
	t.Parallel()

	list, err := Decode[sizeCase](JSON, []byte(`[{"max_size": 1}, {"max_size": 2}, {"max_size": 3}]`))
	require.NoError(t, err)

	set, err := Decode[sizeCase](JSON, []byte(`{"a": {"max_size": 1}, "b": {"max_size": 2}, "c": {"max_size": 3}}`))
	require.NoError(t, err)

	assert.Len(t, set, len(list))
}

func TestDecode_Blank(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{JSON, YAML, TOML, RON} {
		cases, err := Decode[sizeCase](kind, []byte("  \n"))
		require.NoError(t, err, kind.String())
		assert.Empty(t, cases, kind.String())
	}

	cases, err := Decode[sizeCase](JSON, []byte("[]"))
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	_, err := Decode[sizeCase](JSON, []byte(`[{"max_size": "big"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "as list of records")
	assert.Contains(t, err.Error(), "as map of records")

	_, err = Decode[sizeCase](YAML, []byte("just a scalar"))
	require.Error(t, err)

	_, err = Decode[sizeCase](YAML, []byte("---\n- max_size: 1\n---\n- max_size: 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents are not supported")

	_, err = Decode[sizeCase](RON, []byte("[(max_size: 1,"))
	require.Error(t, err)

	_, err = Decode[sizeCase](List, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a structured format")
}
