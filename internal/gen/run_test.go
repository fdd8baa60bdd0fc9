package gen

import (
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datafile-gen/internal/source"
)

const failingSource = `//go:build datafile

package runcheck

import "testing"

//datafile:test path="testdata/empty.csv"
func TestEmptyCSV(t *testing.T, name string) {
	t.Logf("visited %s", name)
}

//datafile:test path="testdata/bad.list"
func TestBadToken(t *testing.T, a int, b int) {
	t.Logf("visited %d %d", a, b)
}

//datafile:test path="testdata/cases.json"
func TestMapShape(t *testing.T, name string) {
	t.Logf("visited %s", name)
}
`

// runGeneratedTests generates the tests of src into a package under the
// module and runs them with go test -v. The output is returned whether the
// tests pass or not.
func runGeneratedTests(t *testing.T, src string, data map[string]string) string {
	t.Helper()

	if testing.Short() {
		t.Skip("runs go test in a subprocess")
	}

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	// Packages under testdata are skipped by ./... but can be named directly.
	base := filepath.Join(repoRoot, "internal", "gen", "testdata")
	require.NoError(t, os.MkdirAll(base, dirPerm))

	pkgDir, err := os.MkdirTemp(base, "run")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(pkgDir) })

	files := map[string]string{"run_test.go": src}
	for name, content := range data {
		files[filepath.Join("testdata", name)] = content
	}

	for name, content := range files {
		path := filepath.Join(pkgDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), dirPerm))
		require.NoError(t, os.WriteFile(path, []byte(content), filePerm))
	}

	g := NewGenerator(DefaultConfig(), nil)

	parsed, err := source.ParseFile(filepath.Join(pkgDir, "run_test.go"))
	require.NoError(t, err)

	generated, diags := g.Generate([]*source.File{parsed}, nil)
	require.False(t, diags.HasErrors(), diags.Error())
	require.NoError(t, WriteFiles(generated))

	rel, err := filepath.Rel(repoRoot, pkgDir)
	require.NoError(t, err)

	cmd := exec.CommandContext(t.Context(), "go", "test", "-v", "-count=1", "./"+filepath.ToSlash(rel))
	cmd.Dir = repoRoot

	b, _ := cmd.CombinedOutput()

	return string(b)
}

func TestGeneratedTests_FailFast(t *testing.T) {
	t.Parallel()

	out := runGeneratedTests(t, failingSource, map[string]string{
		"empty.csv":  "name\n",
		"bad.list":   "a b\n1 2\n3 x\n4 5\n",
		"cases.json": `{"one": {"name": "a"}, "two": {"name": "b"}, "three": {"name": "c"}}`,
	})

	assert.Contains(t, out, "--- FAIL: TestEmptyCSV", out)
	assert.Contains(t, out, "Empty test data provided in testdata/empty.csv", out)

	assert.Contains(t, out, "--- FAIL: TestBadToken", out)
	assert.Regexp(t, regexp.MustCompile(`Invalid value in row=2 column=1 testdata/bad\.list .*invalid syntax`), out)
	// The record before the bad line ran, the one after did not.
	assert.Contains(t, out, "visited 1 2", out)
	assert.NotContains(t, out, "visited 4 5", out)

	assert.Contains(t, out, "--- PASS: TestMapShape", out)

	mapVisits := 0
	for _, name := range []string{"a", "b", "c"} {
		mapVisits += strings.Count(out, "visited "+name+"\n")
	}

	assert.Equal(t, 3, mapVisits, out)
}
