package config

import (
	"errors"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"datafile-gen/datafile"
	"datafile-gen/internal/match"
)

// Recognized property keys.
const (
	KeyPath = "path"
	KeyKind = "kind"
)

// Source is the raw configuration of one data-driven test, as written in a
// directive or a manifest entry.
type Source struct {
	Path    string
	Kind    string
	Pos     token.Position
	PathPos token.Position
	KindPos token.Position
}

// FileReference is a validated pointer to a test data file.
type FileReference struct {
	// Path is the path as written. Generated tests open it relative to their
	// package directory.
	Path string
	// Declared is the explicitly configured kind, zero if it was inferred.
	Declared datafile.Kind
	// Kind is the resolved kind.
	Kind datafile.Kind
}

// Inferred reports whether the kind came from the path's extension.
func (r FileReference) Inferred() bool {
	return r.Declared == 0
}

// SourceFromDirective extracts the configuration from a parsed directive.
// Unknown properties are rejected.
func SourceFromDirective(d *Directive) (Source, error) {
	src := Source{Pos: d.Pos, PathPos: d.Pos, KindPos: d.Pos}

	for _, p := range d.Properties() {
		switch p.Key {
		case KeyPath:
			src.Path, src.PathPos = p.Value, p.Pos
		case KeyKind:
			src.Kind, src.KindPos = p.Value, p.Pos
		default:
			return Source{}, Errorf(CodeUnsupportedProperty, p.Pos, "unsupported property %s%s", p.Key, match.Hint(p.Key, []string{KeyPath, KeyKind}))
		}
	}

	if _, ok := d.Get(KeyPath); !ok {
		return Source{}, Errorf(CodePathRequired, d.Pos, "'path' attribute is required")
	}

	return src, nil
}

// Resolve validates the configuration and resolves the data file kind.
// Relative paths are checked against baseDir. The filesystem is only
// inspected with os.Stat.
func (s Source) Resolve(baseDir string) (FileReference, error) {
	ref := FileReference{Path: s.Path}

	if s.Kind != "" {
		kind, ok := datafile.ParseKind(s.Kind)
		if !ok {
			return FileReference{}, Errorf(CodeUnsupportedKind, s.KindPos,
				"unsupported kind %q, expected one of %s%s", s.Kind, kindNames(), match.Hint(s.Kind, kindList()))
		}

		ref.Declared, ref.Kind = kind, kind
	}

	if strings.TrimSpace(s.Path) == "" {
		return FileReference{}, Errorf(CodePathRequired, s.PathPos, "'path' attribute is required")
	}

	full := s.Path
	if !filepath.IsAbs(full) {
		full = filepath.Join(baseDir, full)
	}

	info, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return FileReference{}, Errorf(CodePathNotExist, s.PathPos, "file %s does not exist", s.Path)
	case err != nil:
		return FileReference{}, Errorf(CodePathNotExist, s.PathPos, "cannot stat %s: %v", s.Path, err)
	case !info.Mode().IsRegular():
		return FileReference{}, Errorf(CodePathNotFile, s.PathPos, "path %s must be a regular file", s.Path)
	}

	if ref.Kind == 0 {
		kind, ok := datafile.KindFromPath(s.Path)
		if !ok {
			return FileReference{}, Errorf(CodeKindRequired, s.Pos,
				"'kind' attribute is required, cannot infer it from %s", s.Path)
		}

		ref.Kind = kind
	}

	return ref, nil
}

func kindList() []string {
	kinds := datafile.Kinds()
	names := make([]string, 0, len(kinds))

	for _, k := range kinds {
		names = append(names, k.String())
	}

	return names
}

func kindNames() string {
	return strings.Join(kindList(), ", ")
}
