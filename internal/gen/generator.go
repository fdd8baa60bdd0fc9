package gen

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"path/filepath"

	"datafile-gen/datafile"
	"datafile-gen/internal/config"
	"datafile-gen/internal/diagnostic"
	"datafile-gen/internal/emit"
	"datafile-gen/internal/match"
	"datafile-gen/internal/rewrite"
	"datafile-gen/internal/signature"
	"datafile-gen/internal/source"
)

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the path of the file (e.g., "thresholds/limits_gen_test.go").
	Filename string
	// Source is the path of the file it was generated from.
	Source string
	// Content is the formatted Go source code.
	Content []byte
}

// Generator turns annotated source files into generated tests.
type Generator struct {
	config Config
	logger *slog.Logger
}

// NewGenerator creates a new Generator with the given configuration. A nil
// logger means slog.Default().
func NewGenerator(config Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{config: config, logger: logger}
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.config
}

// target is one function to generate a test for.
type target struct {
	fn     *ast.FuncDecl
	source config.Source
	ref    config.FileReference
	sig    *signature.Signature
}

// Collect discovers and parses the files named by args and by the manifest
// entries. Previously generated files are skipped.
func (g *Generator) Collect(ctx context.Context, loader *source.Loader, args []string, manifest *config.Manifest) ([]*source.File, error) {
	paths, err := loader.Discover(ctx, args, "//"+g.config.Directive, g.config.IsOutput)
	if err != nil {
		return nil, err
	}

	if manifest != nil {
		for _, e := range manifest.Tests {
			paths = append(paths, e.Source)
		}
	}

	var (
		errs  error
		files []*source.File
		seen  = make(map[string]bool, len(paths))
	)

	for _, path := range paths {
		key := cleanPath(path)
		if seen[key] {
			continue
		}

		seen[key] = true

		f, err := source.ParseFile(path)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}

		if ast.IsGenerated(f.Syntax) {
			g.logger.Debug("skipping generated file", "file", path)
			continue
		}

		files = append(files, f)
	}

	return files, errs
}

// Generate runs the pipeline on every file. Files without targets produce no
// output. Diagnostics of all files are merged.
func (g *Generator) Generate(files []*source.File, manifest *config.Manifest) ([]GeneratedFile, diagnostic.Diagnostics) {
	var (
		diags     diagnostic.Diagnostics
		generated []GeneratedFile
		claimed   = make(map[int]bool)
	)

	for _, f := range files {
		entries := manifestEntries(manifest, f.Path, claimed)

		out, fileDiags := g.GenerateFile(f, entries, manifestName(manifest))
		diags.Merge(fileDiags)

		if out != nil {
			generated = append(generated, *out)
		}
	}

	if manifest != nil {
		for i, e := range manifest.Tests {
			if !claimed[i] {
				diags.AddError(diagnostic.CodeMissingFunction,
					fmt.Sprintf("source %s was not loaded", e.Source), e.Pos(manifest.Filename), e.Function)
			}
		}
	}

	if len(generated) == 0 && diags.IsValid() {
		diags.AddWarning(diagnostic.CodeNothingToGenerate, "no test logic functions found", token.Position{}, "")
	}

	return generated, diags
}

func manifestName(m *config.Manifest) string {
	if m == nil {
		return ""
	}

	return m.Filename
}

// manifestEntries returns the entries of m naming path, marking them claimed.
func manifestEntries(m *config.Manifest, path string, claimed map[int]bool) []config.Entry {
	if m == nil {
		return nil
	}

	var entries []config.Entry

	for i, e := range m.Tests {
		if cleanPath(e.Source) == cleanPath(path) {
			entries = append(entries, e)
			claimed[i] = true
		}
	}

	return entries
}

func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return filepath.Clean(path)
}

// GenerateFile runs the pipeline on one file. entries are manifest entries
// for this file; manifest is the manifest's file name for positions.
func (g *Generator) GenerateFile(f *source.File, entries []config.Entry, manifest string) (*GeneratedFile, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	logger := g.logger.With("file", f.Path)

	targets := g.findTargets(f, entries, manifest, &diags)
	for _, t := range targets {
		g.resolve(f, t, &diags)
	}

	if diags.HasErrors() {
		return nil, diags
	}

	if len(targets) == 0 {
		logger.Debug("no targets")
		return nil, diags
	}

	r := rewrite.New(f.Fset, f.Syntax, f.Src, g.config.rewriteOptions())

	c, err := rewrite.FindConstraint(f.Syntax, func(n ast.Node) int { return f.Position(n.Pos()).Offset })
	if err != nil {
		diags.AddError(config.CodeSyntax, err.Error(), f.Position(f.Syntax.Package), "")
		return nil, diags
	}

	if !c.Hides(g.config.BuildTag) {
		diags.AddWarning(diagnostic.CodeUnhiddenSource,
			fmt.Sprintf("source is not hidden behind the %q build tag and will be compiled next to its generated file", g.config.BuildTag),
			token.Position{Filename: f.Path}, "")
	}

	r.ImportName("testing")
	runtimeName := r.ImportName(g.config.RuntimeImport)

	var osName string

	for _, t := range targets {
		if t.ref.Kind.Family() != datafile.FamilyList {
			osName = r.ImportName("os")
		}
	}

	outPath := g.config.OutputPath(f.Path)

	for _, t := range targets {
		inner := r.InnerName(t.fn)

		if g.config.OutputDir != "" {
			t.ref.Path = rebase(f.Dir(), filepath.Dir(outPath), t.ref.Path)
		}

		out, err := emit.Emit(&emit.Input{
			Signature: t.sig,
			Ref:       t.ref,
			Inner:     inner,
			Runtime:   runtimeName,
			OS:        osName,
			Reserved:  r.Reserved(),
		})
		if err != nil {
			diags.AddError(diagnostic.CodeEmit, err.Error(), t.sig.Pos, t.sig.Name)
			return nil, diags
		}

		r.Replace(t.fn, inner, out.TestParam, out.Body)

		logger.Debug("wrapper rendered", "function", t.sig.Name, "inner", inner,
			"kind", t.ref.Kind.String(), "path", t.ref.Path, "params", len(t.sig.Schema))
	}

	content, err := r.Bytes()
	if err != nil {
		if debugErr := writeDebugUnformatted(outPath, content); debugErr != nil {
			logger.Warn("cannot write unformatted output", "error", debugErr)
		}

		diags.AddError(diagnostic.CodeEmit, err.Error(), token.Position{Filename: f.Path}, "")

		return nil, diags
	}

	diags.AddInfo(diagnostic.CodeGenerated,
		fmt.Sprintf("%d test(s) in %s", len(targets), outPath), token.Position{Filename: f.Path}, "")

	return &GeneratedFile{Filename: outPath, Source: f.Path, Content: content}, diags
}

// findTargets collects the annotated functions and the manifest entries of f.
func (g *Generator) findTargets(f *source.File, entries []config.Entry, manifest string, diags *diagnostic.Diagnostics) []*target {
	var targets []*target

	byFunc := make(map[*ast.FuncDecl]*target)

	for _, decl := range f.Syntax.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}

		c, ok := config.FindDirective(fn.Doc, g.config.Directive)
		if !ok {
			continue
		}

		d, err := config.ParseDirective(c.Text, g.config.Directive, f.Position(c.Pos()))
		if err != nil {
			report(diags, err, f.Position(c.Pos()), fn.Name.Name)
			continue
		}

		src, err := config.SourceFromDirective(d)
		if err != nil {
			report(diags, err, d.Pos, fn.Name.Name)
			continue
		}

		t := &target{fn: fn, source: src}
		targets = append(targets, t)
		byFunc[fn] = t
	}

	funcs := f.Funcs()

	for _, e := range entries {
		pos := e.Pos(manifest)

		fn, ok := funcs[e.Function]
		if !ok {
			diags.AddError(diagnostic.CodeMissingFunction,
				fmt.Sprintf("function %s not found in %s%s", e.Function, f.Path, match.Hint(e.Function, match.Sorted(funcs))),
				pos, e.Function)

			continue
		}

		if _, dup := byFunc[fn]; dup {
			diags.AddError(diagnostic.CodeDuplicateTarget,
				fmt.Sprintf("%s is configured by both a directive and a manifest entry", e.Function), pos, e.Function)

			continue
		}

		t := &target{fn: fn, source: e.Config(manifest)}
		targets = append(targets, t)
		byFunc[fn] = t
	}

	return targets
}

// resolve validates the data file and the signature of t.
func (g *Generator) resolve(f *source.File, t *target, diags *diagnostic.Diagnostics) {
	name := t.fn.Name.Name

	ref, err := t.source.Resolve(f.Dir())
	if err != nil {
		report(diags, err, t.source.Pos, name)
		return
	}

	sig, err := signature.Extract(f.Fset, t.fn, signature.FileImports(f.Syntax))
	if err != nil {
		report(diags, err, f.Position(t.fn.Pos()), name)
		return
	}

	t.ref, t.sig = ref, sig
}

// rebase rewrites path, relative to from, to be relative to to.
func rebase(from, to, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	rel, err := filepath.Rel(cleanPath(to), filepath.Join(cleanPath(from), path))
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}

// report adds err as an error diagnostic, keeping the code and position of
// configuration errors.
func report(diags *diagnostic.Diagnostics, err error, pos token.Position, function string) {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		diags.AddError(cfgErr.Code, cfgErr.Message, cfgErr.Pos, function)
		return
	}

	diags.AddError(config.CodeSyntax, err.Error(), pos, function)
}
