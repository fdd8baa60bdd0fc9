package rewrite

import (
	"fmt"
	"go/ast"
	"go/build/constraint"
	"strings"
)

// Constraint is the build constraint of a source file.
type Constraint struct {
	// Expr is nil when the file has no //go:build line.
	Expr constraint.Expr
	// Lines are the byte ranges of the constraint comments, including the
	// legacy "// +build" form.
	Lines [][2]int
}

// FindConstraint reads the build constraint lines before the package clause.
// offset converts a comment position into a byte offset of the source.
func FindConstraint(f *ast.File, offset func(ast.Node) int) (Constraint, error) {
	var c Constraint

	for _, group := range f.Comments {
		if group.Pos() >= f.Package {
			break
		}

		for _, comment := range group.List {
			if !constraint.IsGoBuild(comment.Text) && !constraint.IsPlusBuild(comment.Text) {
				continue
			}

			c.Lines = append(c.Lines, [2]int{offset(comment), offset(comment) + len(comment.Text)})

			if !constraint.IsGoBuild(comment.Text) {
				continue
			}

			expr, err := constraint.Parse(comment.Text)
			if err != nil {
				return Constraint{}, fmt.Errorf("parsing build constraint: %w", err)
			}

			c.Expr = expr
		}
	}

	return c, nil
}

// Hides reports whether the constraint excludes the file from builds that do
// not set tag. Other tags are assumed to be satisfied.
func (c Constraint) Hides(tag string) bool {
	if c.Expr == nil {
		return false
	}

	return !c.Expr.Eval(func(t string) bool { return t != tag })
}

// Negate returns the constraint of the generated file: tag is flipped wherever
// it occurs. When the source does not mention tag, !tag is added.
func (c Constraint) Negate(tag string) constraint.Expr {
	not := &constraint.NotExpr{X: &constraint.TagExpr{Tag: tag}}

	if c.Expr == nil {
		return not
	}

	if !mentions(c.Expr, tag) {
		return &constraint.AndExpr{X: not, Y: c.Expr}
	}

	return flip(c.Expr, tag)
}

// Line renders expr as a //go:build line.
func Line(expr constraint.Expr) string {
	return "//go:build " + expr.String()
}

func mentions(expr constraint.Expr, tag string) bool {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		return e.Tag == tag
	case *constraint.NotExpr:
		return mentions(e.X, tag)
	case *constraint.AndExpr:
		return mentions(e.X, tag) || mentions(e.Y, tag)
	case *constraint.OrExpr:
		return mentions(e.X, tag) || mentions(e.Y, tag)
	default:
		return false
	}
}

func flip(expr constraint.Expr, tag string) constraint.Expr {
	switch e := expr.(type) {
	case *constraint.TagExpr:
		if e.Tag == tag {
			return &constraint.NotExpr{X: e}
		}

		return e
	case *constraint.NotExpr:
		if t, ok := e.X.(*constraint.TagExpr); ok && t.Tag == tag {
			return t
		}

		return &constraint.NotExpr{X: flip(e.X, tag)}
	case *constraint.AndExpr:
		return &constraint.AndExpr{X: flip(e.X, tag), Y: flip(e.Y, tag)}
	case *constraint.OrExpr:
		return &constraint.OrExpr{X: flip(e.X, tag), Y: flip(e.Y, tag)}
	default:
		return expr
	}
}

// stripLines removes whole lines covering the given ranges from src.
func stripLines(src []byte, ranges [][2]int) []edit {
	edits := make([]edit, 0, len(ranges))

	for _, r := range ranges {
		end := r[1]
		if end < len(src) && src[end] == '\n' {
			end++
		}

		edits = append(edits, edit{start: r[0], end: end})
	}

	return edits
}

// header is the first line of every generated file.
func header(source string) string {
	return fmt.Sprintf("// Code generated by datafile-gen from %s. DO NOT EDIT.", strings.TrimSpace(source))
}
