package config

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the only manifest version understood by this generator.
const ManifestVersion = "1"

// Manifest lists data-driven tests without touching the annotated sources.
type Manifest struct {
	Version string  `yaml:"version"`
	Tests   []Entry `yaml:"tests"`

	// Filename is where the manifest was loaded from, if it came from a file.
	Filename string `yaml:"-"`
}

// Entry configures one test logic function.
type Entry struct {
	// Source is the Go file declaring Function, relative to the manifest.
	Source string `yaml:"source"`
	// Function is the name of the test logic function.
	Function string `yaml:"function"`
	// Path is the data file, relative to the directory of Source.
	Path string `yaml:"path"`
	// Kind is optional and inferred from Path when empty.
	Kind string `yaml:"kind,omitempty"`

	line int
}

// LoadManifest loads and parses a YAML manifest from the given path. Source
// paths of the entries are made relative to the working directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Filename = path

	dir := filepath.Dir(path)
	for i := range m.Tests {
		if !filepath.IsAbs(m.Tests[i].Source) {
			m.Tests[i].Source = filepath.Join(dir, m.Tests[i].Source)
		}
	}

	return m, nil
}

// ParseManifest parses YAML data into a Manifest. Unknown keys are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	applyDefaults(&m)
	recordLines(&m, data)

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(m *Manifest) {
	if m.Version == "" {
		m.Version = ManifestVersion
	}
}

// recordLines remembers the line of every entry for error positions.
func recordLines(m *Manifest, data []byte) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil || len(root.Content) == 0 {
		return
	}

	doc := root.Content[0]
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "tests" {
			continue
		}

		for j, item := range doc.Content[i+1].Content {
			if j < len(m.Tests) {
				m.Tests[j].line = item.Line
			}
		}
	}
}

// Validate checks the manifest structure. Data files are not inspected here;
// see Entry.Config and Source.Resolve.
func (m *Manifest) Validate() error {
	var errs error

	if m.Version != ManifestVersion {
		errs = errors.Join(errs, Errorf(CodeManifest, token.Position{Filename: m.Filename},
			"unsupported manifest version %q", m.Version))
	}

	type target struct{ source, function string }

	seen := make(map[target]bool, len(m.Tests))

	for i, e := range m.Tests {
		pos := e.Pos(m.Filename)

		switch {
		case e.Source == "":
			errs = errors.Join(errs, Errorf(CodeManifest, pos, "tests[%d]: source is required", i))
		case e.Function == "":
			errs = errors.Join(errs, Errorf(CodeManifest, pos, "tests[%d]: function is required", i))
		case e.Path == "":
			errs = errors.Join(errs, Errorf(CodePathRequired, pos, "tests[%d]: path is required", i))
		}

		key := target{e.Source, e.Function}
		if seen[key] {
			errs = errors.Join(errs, Errorf(CodeManifest, pos,
				"tests[%d]: %s in %s is configured twice", i, e.Function, e.Source))
		}

		seen[key] = true
	}

	return errs
}

// Pos returns the position of the entry in the manifest.
func (e Entry) Pos(filename string) token.Position {
	return token.Position{Filename: filename, Line: e.line, Column: 1}
}

// Config returns the entry as a directive-equivalent Source.
func (e Entry) Config(filename string) Source {
	pos := e.Pos(filename)

	return Source{Path: e.Path, Kind: e.Kind, Pos: pos, PathPos: pos, KindPos: pos}
}
