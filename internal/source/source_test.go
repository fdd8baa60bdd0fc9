package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestParse_Funcs(t *testing.T) {
	t.Parallel()

	src := `package x

type suite struct{}

func (suite) TestA(v int) {}

func TestA(v int) {}

func (s *suite) TestB(v int) {}
`

	f, err := Parse("/tmp/x/a_test.go", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", f.Dir())

	funcs := f.Funcs()
	require.Contains(t, funcs, "TestA")
	assert.Nil(t, funcs["TestA"].Recv)
	require.Contains(t, funcs, "TestB")
	assert.NotNil(t, funcs["TestB"].Recv)

	assert.Equal(t, 7, f.Position(funcs["TestA"].Pos()).Line)
}

func TestParse_Error(t *testing.T) {
	t.Parallel()

	_, err := Parse("bad.go", []byte("package"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse bad.go")

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.go"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_DiscoverFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a_test.go", "package a\n")

	l := &Loader{Dir: dir}
	files, err := l.Discover(context.Background(), []string{"a_test.go", "a_test.go"}, "//datafile:test", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a_test.go")}, files)
}

func TestLoader_DiscoverPackages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/thresholds\n\ngo 1.22\n")
	writeFile(t, dir, "limits.go", "package thresholds\n\nfunc Limit() int { return 10 }\n")
	writeFile(t, dir, "limits_test.go", "//go:build datafile\n\npackage thresholds\n\n//datafile:test path=\"x.list\"\nfunc TestLimit(v int) {}\n")
	writeFile(t, dir, "limits_gen_test.go", "//go:build !datafile\n\npackage thresholds\n\n//datafile:test path=\"x.list\"\n")
	writeFile(t, dir, "other_test.go", "package thresholds\n")

	l := &Loader{Dir: dir}
	skip := func(path string) bool { return filepath.Base(path) == "limits_gen_test.go" }

	files, err := l.Discover(context.Background(), []string{"./..."}, "//datafile:test", skip)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "limits_test.go", filepath.Base(files[0]))
}
