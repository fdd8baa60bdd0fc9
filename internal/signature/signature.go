package signature

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"datafile-gen/internal/common"
	"datafile-gen/internal/config"
)

// Role tells where the value of a parameter comes from.
type Role int

const (
	// RoleRecord parameters are read from the data file.
	RoleRecord Role = iota
	// RoleTest parameters receive the *testing.T of the generated test.
	RoleTest
	// RoleContext parameters receive the context of the generated test.
	RoleContext
)

// Param is one parameter of a test logic function.
type Param struct {
	// Name is the parameter's identifier.
	Name string
	// Type is the declared type as source text.
	Type string
	// Index is the position of the parameter in the call.
	Index int
	Role  Role
	Pos   token.Position
	// Refs lists the identifiers the type expression mentions. Generated code
	// must not shadow them.
	Refs []string
}

// Schema lists the record-bound parameters in declaration order.
type Schema []Param

// Names returns the parameter names of the schema.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, p := range s {
		names[i] = p.Name
	}

	return names
}

// Signature describes a test logic function.
type Signature struct {
	Name string
	// Params holds every parameter in declaration order.
	Params []Param
	Schema Schema
	// ReturnsError is set when the function returns a single error.
	ReturnsError bool
	// HasContext is set when a parameter receives the test context.
	HasContext bool
	Pos        token.Position
}

// Imports maps the local names of a file's imports to their paths.
type Imports map[string]string

// FileImports collects the named imports of f. Blank and dot imports are
// skipped.
func FileImports(f *ast.File) Imports {
	imports := make(Imports, len(f.Imports))

	for _, spec := range f.Imports {
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

		imports[name] = path
	}

	return imports
}

// LocalName returns the name under which path is imported, if it is.
func (im Imports) LocalName(path string) (string, bool) {
	for name, p := range im {
		if p == path {
			return name, true
		}
	}

	return "", false
}

// isSelector reports whether expr is pkg.name with pkg importing path.
func (im Imports) isSelector(expr ast.Expr, path, name string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}

	x, ok := sel.X.(*ast.Ident)

	return ok && im[x.Name] == path
}

func (im Imports) role(expr ast.Expr) Role {
	if star, ok := expr.(*ast.StarExpr); ok && im.isSelector(star.X, "testing", "T") {
		return RoleTest
	}

	switch {
	case im.isSelector(expr, "testing", "TB"):
		return RoleTest
	case im.isSelector(expr, "context", "Context"):
		return RoleContext
	default:
		return RoleRecord
	}
}

// Extract reads the signature of decl. Functions the generator cannot call
// once per record are rejected with a *config.Error: methods, generic
// functions, parameters without a usable name, variadic parameters, results
// other than a single error, and functions without record parameters.
func Extract(fset *token.FileSet, decl *ast.FuncDecl, imports Imports) (*Signature, error) {
	name := decl.Name.Name
	sig := &Signature{Name: name, Pos: fset.Position(decl.Pos())}

	if decl.Recv != nil {
		return nil, config.Errorf(config.CodeUnsupportedShape, sig.Pos,
			"%s is a method, data-driven tests must be top-level functions", name)
	}

	if decl.Type.TypeParams != nil && decl.Type.TypeParams.NumFields() > 0 {
		return nil, config.Errorf(config.CodeUnsupportedShape, sig.Pos,
			"%s has type parameters, generic functions are not supported", name)
	}

	for _, field := range decl.Type.Params.List {
		pos := fset.Position(field.Pos())

		if _, ok := field.Type.(*ast.Ellipsis); ok {
			return nil, config.Errorf(config.CodeUnsupportedShape, pos,
				"%s: variadic parameter %s is not supported", name, types.ExprString(field.Type))
		}

		if len(field.Names) == 0 {
			return nil, config.Errorf(config.CodeUnsupportedShape, pos,
				"%s: parameter %d has no name, every parameter must be bound by name", name, len(sig.Params))
		}

		typ := types.ExprString(field.Type)
		role := imports.role(field.Type)
		refs := identifiers(field.Type)

		for _, ident := range field.Names {
			if ident.Name == "_" {
				return nil, config.Errorf(config.CodeUnsupportedShape, fset.Position(ident.Pos()),
					"%s: parameter %d is the blank identifier, every parameter must be bound by name", name, len(sig.Params))
			}

			p := Param{
				Name:  ident.Name,
				Type:  typ,
				Index: len(sig.Params),
				Role:  role,
				Pos:   fset.Position(ident.Pos()),
				Refs:  refs,
			}

			sig.Params = append(sig.Params, p)

			if role == RoleRecord {
				sig.Schema = append(sig.Schema, p)
			}

			if role == RoleContext {
				sig.HasContext = true
			}
		}
	}

	if err := extractResults(fset, decl, sig); err != nil {
		return nil, err
	}

	if common.IsEmpty(sig.Schema) {
		return nil, config.Errorf(config.CodeUnsupportedShape, sig.Pos,
			"%s has no parameters to bind records to", name)
	}

	return sig, nil
}

func identifiers(expr ast.Expr) []string {
	var names []string

	ast.Inspect(expr, func(n ast.Node) bool {
		if ident, ok := n.(*ast.Ident); ok {
			names = append(names, ident.Name)
		}

		return true
	})

	return names
}

func extractResults(fset *token.FileSet, decl *ast.FuncDecl, sig *Signature) error {
	results := decl.Type.Results
	if results == nil || results.NumFields() == 0 {
		return nil
	}

	first, _ := common.First(results.List)
	if results.NumFields() == 1 {
		if ident, ok := first.Type.(*ast.Ident); ok && ident.Name == "error" {
			sig.ReturnsError = true
			return nil
		}
	}

	return config.Errorf(config.CodeUnsupportedShape, fset.Position(first.Pos()),
		"%s returns (%s), test logic functions may only return nothing or an error",
		sig.Name, resultsText(results))
}

func resultsText(results *ast.FieldList) string {
	var parts []string

	for _, f := range results.List {
		for range max(len(f.Names), 1) {
			parts = append(parts, types.ExprString(f.Type))
		}
	}

	return strings.Join(parts, ", ")
}
