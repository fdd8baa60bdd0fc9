package config

import (
	"go/ast"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Property is one key="value" pair of a directive.
type Property struct {
	Key   string
	Value string
	Pos   token.Position
}

// Directive is a parsed generator directive. Properties keep the order in
// which they were written.
type Directive struct {
	Pos   token.Position
	props *linkedhashmap.Map // key -> Property
}

// Get returns the property with the given key.
func (d *Directive) Get(key string) (Property, bool) {
	v, ok := d.props.Get(key)
	if !ok {
		return Property{}, false
	}

	return v.(Property), true
}

// Properties returns all properties in source order.
func (d *Directive) Properties() []Property {
	props := make([]Property, 0, d.props.Size())

	it := d.props.Iterator()
	for it.Next() {
		props = append(props, it.Value().(Property))
	}

	return props
}

// Len returns the number of properties.
func (d *Directive) Len() int { return d.props.Size() }

// IsDirective reports whether a raw comment (including its leading "//") is
// the directive called name.
func IsDirective(text, name string) bool {
	rest, ok := strings.CutPrefix(text, "//"+name)
	if !ok {
		return false
	}

	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// FindDirective returns the first comment of doc that is the directive called
// name.
func FindDirective(doc *ast.CommentGroup, name string) (*ast.Comment, bool) {
	if doc == nil {
		return nil, false
	}

	for _, c := range doc.List {
		if IsDirective(c.Text, name) {
			return c, true
		}
	}

	return nil, false
}

// ParseDirective parses the properties of a directive comment. text is the raw
// comment including "//name" and pos is the position of the comment.
//
// Properties are written as key="value" and may be separated by commas.
// Values are Go string literals, interpreted or raw.
func ParseDirective(text, name string, pos token.Position) (*Directive, error) {
	prefix := "//" + name
	if !IsDirective(text, name) {
		return nil, Errorf(CodeSyntax, pos, "comment is not a %s directive", name)
	}

	p := newDirectiveParser(text[len(prefix):], pos, len(prefix))

	return p.parse()
}

type directiveParser struct {
	s    scanner.Scanner
	file *token.File
	pos  token.Position
	base int // offset of the scanned text inside the comment
	err  *Error
}

func newDirectiveParser(src string, pos token.Position, base int) *directiveParser {
	p := &directiveParser{pos: pos, base: base}

	fset := token.NewFileSet()
	p.file = fset.AddFile("", fset.Base(), len(src))
	p.s.Init(p.file, []byte(src), func(at token.Position, msg string) {
		if p.err == nil {
			p.err = Errorf(CodeSyntax, p.at(at.Offset), "%s", msg)
		}
	}, 0)

	return p
}

// at translates an offset in the scanned text into a source position.
func (p *directiveParser) at(offset int) token.Position {
	pos := p.pos
	if pos.IsValid() {
		pos.Offset += p.base + offset
		pos.Column += p.base + offset
	}

	return pos
}

// scan returns the next token, skipping the automatically inserted
// semicolons.
func (p *directiveParser) scan() (token.Position, token.Token, string, error) {
	for {
		at, tok, lit := p.s.Scan()
		if p.err != nil {
			return token.Position{}, token.ILLEGAL, "", p.err
		}

		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}

		return p.at(p.file.Offset(at)), tok, lit, nil
	}
}

func (p *directiveParser) parse() (*Directive, error) {
	d := &Directive{Pos: p.pos, props: linkedhashmap.New()}

	afterPair := false
	for {
		keyPos, tok, lit, err := p.scan()
		if err != nil {
			return nil, err
		}

		if tok == token.EOF {
			return d, nil
		}

		if tok == token.COMMA && afterPair {
			afterPair = false
			continue
		}

		if tok != token.IDENT {
			return nil, Errorf(CodeSyntax, keyPos, "expected property name, found %s", describe(tok, lit))
		}

		key := lit

		at, tok, lit, err := p.scan()
		if err != nil {
			return nil, err
		}

		if tok != token.ASSIGN {
			return nil, Errorf(CodeSyntax, at, "expected '=' after %s, found %s", key, describe(tok, lit))
		}

		at, tok, lit, err = p.scan()
		if err != nil {
			return nil, err
		}

		if tok != token.STRING {
			return nil, Errorf(CodeSyntax, at, "expected string literal for %s, found %s", key, describe(tok, lit))
		}

		value, err := strconv.Unquote(lit)
		if err != nil {
			return nil, Errorf(CodeSyntax, at, "invalid string literal for %s: %v", key, err)
		}

		if _, dup := d.props.Get(key); dup {
			return nil, Errorf(CodeDuplicateProperty, keyPos, "duplicate property %s", key)
		}

		d.props.Put(key, Property{Key: key, Value: value, Pos: keyPos})
		afterPair = true
	}
}

func describe(tok token.Token, lit string) string {
	switch {
	case tok == token.EOF:
		return "end of directive"
	case lit != "":
		return strconv.Quote(lit)
	default:
		return "'" + tok.String() + "'"
	}
}
