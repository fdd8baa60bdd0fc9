package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages. Only file lists
// are needed; files are parsed one by one afterwards.
const LoadMode = packages.NeedName | packages.NeedFiles

// File is a parsed Go source file.
type File struct {
	Path   string
	Src    []byte
	Fset   *token.FileSet
	Syntax *ast.File
}

// Dir returns the directory of the file.
func (f *File) Dir() string {
	return filepath.Dir(f.Path)
}

// Position returns the position of p in the file.
func (f *File) Position(p token.Pos) token.Position {
	return f.Fset.Position(p)
}

// Loader discovers files through the go command.
type Loader struct {
	// Dir is the working directory of the go command.
	Dir string
	// Tags are extra comma-separated build tags.
	Tags   string
	Env    []string
	Logger *slog.Logger
}

// Discover returns the Go files matched by args whose text contains marker.
// Arguments ending in ".go" name files directly, the others are package
// patterns. Files excluded by build constraints are included, since sources
// are usually hidden behind a build tag. skip filters files out before they
// are read.
func (l *Loader) Discover(ctx context.Context, args []string, marker string, skip func(path string) bool) ([]string, error) {
	var files, patterns []string

	for _, arg := range args {
		if strings.HasSuffix(arg, ".go") {
			files = append(files, l.abs(arg))
		} else {
			patterns = append(patterns, arg)
		}
	}

	if len(patterns) > 0 {
		found, err := l.packageFiles(ctx, patterns)
		if err != nil {
			return nil, err
		}

		for _, path := range found {
			if skip != nil && skip(path) {
				continue
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}

			if bytes.Contains(src, []byte(marker)) {
				files = append(files, path)
			}
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) || l.Dir == "" {
		return path
	}

	return filepath.Join(l.Dir, path)
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}

	return slog.Default()
}

// packageFiles lists every Go file of the packages, test files and ignored
// files included.
func (l *Loader) packageFiles(ctx context.Context, patterns []string) ([]string, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     l.Dir,
		Env:     l.Env,
		Tests:   true,
	}
	if l.Tags != "" {
		cfg.BuildFlags = []string{"-tags=" + l.Tags}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	var (
		errs  error
		files []string
	)

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = errors.Join(errs, e)
		}

		l.logger().Debug("package loaded", "pkg", pkg.ID,
			"files", len(pkg.GoFiles), "ignored", len(pkg.IgnoredFiles))

		files = append(files, pkg.GoFiles...)
		for _, f := range pkg.IgnoredFiles {
			if strings.HasSuffix(f, ".go") {
				files = append(files, f)
			}
		}
	}

	if errs != nil {
		return nil, errs
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// ParseFile reads and parses the Go file at path, comments included.
func ParseFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Parse(path, src)
}

// Parse parses src as the Go file at path.
func Parse(path string, src []byte) (*File, error) {
	fset := token.NewFileSet()

	syntax, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &File{Path: path, Src: src, Fset: fset, Syntax: syntax}, nil
}

// Funcs returns the functions of the file by name. A top-level function wins
// over methods of the same name.
func (f *File) Funcs() map[string]*ast.FuncDecl {
	funcs := make(map[string]*ast.FuncDecl)

	for _, decl := range f.Syntax.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		if prev, ok := funcs[fn.Name.Name]; ok && prev.Recv == nil {
			continue
		}

		funcs[fn.Name.Name] = fn
	}

	return funcs
}
