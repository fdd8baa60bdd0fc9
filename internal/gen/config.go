package gen

import (
	"path/filepath"
	"strings"

	"datafile-gen/internal/rewrite"
)

// Config holds configuration for code generation.
type Config struct {
	// Directive is the comment directive marking test logic functions,
	// without the leading "//".
	Directive string
	// BuildTag hides source files from regular builds. Generated files carry
	// the negated constraint.
	BuildTag string
	// InnerPrefix is prepended to the names of renamed functions.
	InnerPrefix string
	// OutputSuffix replaces "_test.go" or ".go" in generated file names.
	OutputSuffix string
	// RuntimeImport is the import path of the datafile runtime package.
	RuntimeImport string
	// OutputDir, when set, receives every generated file instead of the
	// directory of its source.
	OutputDir string
	// Markers decides where doc comment lines go.
	Markers rewrite.MarkerPolicy
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Directive:     "datafile:test",
		BuildTag:      "datafile",
		InnerPrefix:   "_",
		OutputSuffix:  "_gen_test.go",
		RuntimeImport: "datafile-gen/datafile",
		Markers:       rewrite.DefaultMarkerPolicy(),
	}
}

// OutputPath returns the path of the file generated from source.
func (c Config) OutputPath(source string) string {
	dir, base := filepath.Split(source)
	if c.OutputDir != "" {
		dir = c.OutputDir
	}

	base = strings.TrimSuffix(base, ".go")
	base = strings.TrimSuffix(base, "_test")

	return filepath.Join(dir, base+c.OutputSuffix)
}

// IsOutput reports whether path looks like a generated file.
func (c Config) IsOutput(path string) bool {
	return strings.HasSuffix(path, c.OutputSuffix)
}

func (c Config) rewriteOptions() rewrite.Options {
	return rewrite.Options{
		Directive:   c.Directive,
		BuildTag:    c.BuildTag,
		InnerPrefix: c.InnerPrefix,
		Markers:     c.Markers,
	}
}
