package rewrite

import (
	"bytes"
	"cmp"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"datafile-gen/internal/common"
)

// Options control how a source file is rewritten.
type Options struct {
	// Directive is the comment directive name, without "//".
	Directive string
	// BuildTag hides the source file from regular builds.
	BuildTag string
	// InnerPrefix is prepended to the name of every renamed function.
	InnerPrefix string
	Markers     MarkerPolicy
}

type edit struct {
	start, end int
	text       string
}

// Rewriter rewrites one source file. It is not safe for concurrent use.
type Rewriter struct {
	opts     Options
	fset     *token.FileSet
	file     *ast.File
	src      []byte
	filename string

	ns      common.NS
	imports map[string]string // import path -> local name
	added   map[string]string // import path -> local name, for imports to add
	edits   []edit
}

// New returns a Rewriter for file, whose source text is src.
func New(fset *token.FileSet, file *ast.File, src []byte, opts Options) *Rewriter {
	r := &Rewriter{
		opts:     opts,
		fset:     fset,
		file:     file,
		src:      src,
		filename: fset.Position(file.Package).Filename,
		ns:       common.NewNS(topLevelNames(file)...),
		imports:  make(map[string]string),
		added:    make(map[string]string),
	}

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		name := common.PkgAlias(path)
		if spec.Name != nil {
			name = spec.Name.Name
		}

		if name == "_" || name == "." {
			continue
		}

		r.imports[path] = name
		r.ns.Reserve(name)
	}

	return r
}

// topLevelNames lists every identifier declared at file scope.
func topLevelNames(file *ast.File) []string {
	var names []string

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				names = append(names, d.Name.Name)
			}
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names = append(names, n.Name)
					}
				}
			}
		}
	}

	return names
}

// Reserved returns the names generated code must not shadow.
func (r *Rewriter) Reserved() []string {
	names := make([]string, 0, len(r.ns))
	for name := range r.ns {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// ImportName returns the local name of the import path, arranging for the
// import to be added when the file lacks it.
func (r *Rewriter) ImportName(path string) string {
	if name, ok := r.imports[path]; ok {
		return name
	}

	if name, ok := r.added[path]; ok {
		return name
	}

	name := r.ns.Name(common.PkgAlias(path))
	r.added[path] = name

	return name
}

// InnerName returns a file-unique name for the renamed copy of fn.
func (r *Rewriter) InnerName(fn *ast.FuncDecl) string {
	return r.ns.Name(r.opts.InnerPrefix + fn.Name.Name)
}

func (r *Rewriter) offset(n ast.Node) int {
	return r.fset.Position(n.Pos()).Offset
}

func (r *Rewriter) endOffset(n ast.Node) int {
	return r.fset.Position(n.End()).Offset
}

// Replace swaps fn for a wrapper test with the given parameter name and body,
// followed by fn renamed to inner. The body of fn is kept byte for byte.
func (r *Rewriter) Replace(fn *ast.FuncDecl, inner, testParam string, body []byte) {
	wrapperDoc, innerDoc := r.opts.Markers.split(fn.Doc, r.opts.Directive)

	start := r.offset(fn)
	if fn.Doc != nil {
		start = r.offset(fn.Doc)
	}

	end := r.endOffset(fn)
	nameStart, nameEnd := r.offset(fn.Name), r.endOffset(fn.Name)

	var b strings.Builder

	for _, line := range wrapperDoc {
		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "func %s(%s *%s.T) {\n", fn.Name.Name, testParam, r.ImportName("testing"))
	b.Write(body)
	b.WriteString("}\n\n")

	for _, line := range innerDoc {
		b.WriteString(line + "\n")
	}

	b.Write(r.src[r.offset(fn):nameStart])
	b.WriteString(inner)
	b.Write(r.src[nameEnd:end])

	r.edits = append(r.edits, edit{start: start, end: end, text: b.String()})
}

// Bytes assembles and formats the generated file.
func (r *Rewriter) Bytes() ([]byte, error) {
	c, err := FindConstraint(r.file, r.offset)
	if err != nil {
		return nil, err
	}

	edits := append(stripLines(r.src, c.Lines), r.edits...)
	slices.SortFunc(edits, func(a, b edit) int { return cmp.Compare(a.start, b.start) })

	var out bytes.Buffer

	out.WriteString(header(filepath.Base(r.filename)) + "\n\n")
	out.WriteString(Line(c.Negate(r.opts.BuildTag)) + "\n\n")

	last := 0
	for _, e := range edits {
		if e.start < last {
			return nil, fmt.Errorf("overlapping rewrites at offset %d", e.start)
		}

		out.Write(r.src[last:e.start])
		out.WriteString(e.text)
		last = e.end
	}

	out.Write(r.src[last:])

	return r.finish(out.Bytes())
}

// finish adds the missing imports and formats the file. The unformatted text
// is returned alongside the error when it does not parse.
func (r *Rewriter) finish(text []byte) ([]byte, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, r.filename, text, parser.ParseComments)
	if err != nil {
		return text, fmt.Errorf("parsing rewritten file: %w", err)
	}

	paths := make([]string, 0, len(r.added))
	for path := range r.added {
		paths = append(paths, path)
	}

	slices.Sort(paths)

	for _, path := range paths {
		name := r.added[path]
		if name == common.PkgAlias(path) {
			name = ""
		}

		astutil.AddNamedImport(fset, file, name, path)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return text, fmt.Errorf("formatting rewritten file: %w", err)
	}

	return buf.Bytes(), nil
}
