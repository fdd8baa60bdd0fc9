package datafile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"csv", "json", "yaml", "ron", "toml", "list"} {
		k, ok := ParseKind(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, k.String())
		assert.True(t, k.Valid())
	}

	_, ok := ParseKind("xml")
	assert.False(t, ok)

	_, ok = ParseKind("JSON")
	assert.False(t, ok)
}

func TestKindFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Kind
		ok   bool
	}{
		{"data.json", JSON, true},
		{"testdata/test_me.list", List, true},
		{"a/b/c.yaml", YAML, true},
		{"c.yml", YAML, true},
		{"users.toml", TOML, true},
		{"users.ron", RON, true},
		{"users.csv", CSV, true},
		{"snapshot", 0, false},
		{"notes.txt", 0, false},
		{"DATA.JSON", 0, false},
	}

	for _, tt := range tests {
		got, ok := KindFromPath(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestKind_Family(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FamilyList, List.Family())
	assert.Equal(t, FamilyCSV, CSV.Family())

	for _, k := range []Kind{JSON, YAML, RON, TOML} {
		assert.Equal(t, FamilyStructured, k.Family(), k.String())
	}

	assert.Equal(t, FamilyUnknown, Kind(0).Family())
	assert.Equal(t, "structured", FamilyStructured.String())
}

func TestKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []Kind{CSV, JSON, YAML, RON, TOML, List}, Kinds())
	assert.False(t, Kind(0).Valid())
	assert.False(t, Kind(kindTotal).Valid())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestKind_Extensions(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t, []string{"yaml", "yml"}, YAML.Extensions())
	assert.Equal(t, []string{"list"}, List.Extensions())
	assert.Nil(t, Kind(0).Extensions())
}
