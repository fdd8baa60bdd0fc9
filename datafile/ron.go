package datafile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// unmarshalRON decodes a RON (Rusty Object Notation) document into v. The
// document is first read into a generic tree of maps, slices, strings,
// json.Number, bools and nils, which is then decoded through the `json` tags
// of v.
//
// Structs, named or not, become maps keyed by field name. Some(x) becomes x
// and None becomes null. A named tuple with one element becomes its element,
// with more elements a list. A bare identifier other than true, false and None
// becomes a string.
func unmarshalRON(data []byte, v any) error {
	tree, err := parseRON(data)
	if err != nil {
		return err
	}

	b, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("ron: %w", err)
	}

	return json.Unmarshal(b, v)
}

// RONSyntaxError describes malformed RON input.
type RONSyntaxError struct {
	Line, Column int
	Msg          string
}

func (e *RONSyntaxError) Error() string {
	return fmt.Sprintf("ron: %d:%d: %s", e.Line, e.Column, e.Msg)
}

func parseRON(data []byte) (any, error) {
	p := &ronParser{src: string(data)}

	if err := p.skipExtensions(); err != nil {
		return nil, err
	}

	v, err := p.value()
	if err != nil {
		return nil, err
	}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after value", p.peek())
	}

	return v, nil
}

type ronParser struct {
	src string
	pos int
}

func (p *ronParser) errorf(format string, args ...any) error {
	line, col := 1, 1
	for _, r := range p.src[:min(p.pos, len(p.src))] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return &RONSyntaxError{Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *ronParser) peek() rune {
	if p.pos >= len(p.src) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])

	return r
}

func (p *ronParser) next() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size

	return r
}

// skipSpace skips whitespace, line comments and nested block comments.
func (p *ronParser) skipSpace() error {
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]

		switch {
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}

		case strings.HasPrefix(rest, "/*"):
			if err := p.skipBlockComment(); err != nil {
				return err
			}

		case unicode.IsSpace(p.peek()):
			p.next()

		default:
			return nil
		}
	}

	return nil
}

func (p *ronParser) skipBlockComment() error {
	depth := 0
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]

		switch {
		case strings.HasPrefix(rest, "/*"):
			depth++
			p.pos += 2
		case strings.HasPrefix(rest, "*/"):
			depth--
			p.pos += 2

			if depth == 0 {
				return nil
			}
		default:
			p.next()
		}
	}

	return p.errorf("unterminated block comment")
}

// skipExtensions skips leading #![enable(...)] attributes.
func (p *ronParser) skipExtensions() error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}

		if !strings.HasPrefix(p.src[p.pos:], "#!") {
			return nil
		}

		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return p.errorf("unterminated attribute")
		}

		p.pos += end + 1
	}
}

func (p *ronParser) expect(r rune) error {
	if err := p.skipSpace(); err != nil {
		return err
	}

	if p.peek() != r {
		if p.pos >= len(p.src) {
			return p.errorf("expected %q, found end of input", r)
		}

		return p.errorf("expected %q, found %q", r, p.peek())
	}

	p.next()

	return nil
}

func (p *ronParser) value() (any, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}

	r := p.peek()
	rest := p.src[p.pos:]

	switch {
	case r == '[':
		return p.list()
	case r == '{':
		return p.mapping()
	case r == '(':
		return p.group()
	case r == '"':
		return p.str()
	case r == '\'':
		return p.char()
	case strings.HasPrefix(rest, "r\"") || strings.HasPrefix(rest, "r#"):
		return p.rawStr()
	case strings.HasPrefix(rest, "b\""):
		p.next()
		return p.str()
	case r == '-' || r == '+' || r == '.' || unicode.IsDigit(r):
		return p.number()
	case r == '_' || unicode.IsLetter(r):
		return p.identValue()
	default:
		return nil, p.errorf("unexpected %q", r)
	}
}

// sequence parses comma-separated items up to the closing rune. A trailing
// comma is allowed.
func (p *ronParser) sequence(closing rune, item func() error) error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}

		if p.peek() == closing {
			p.next()
			return nil
		}

		if err := item(); err != nil {
			return err
		}

		if err := p.skipSpace(); err != nil {
			return err
		}

		switch p.peek() {
		case ',':
			p.next()
		case closing:
			p.next()
			return nil
		default:
			if p.pos >= len(p.src) {
				return p.errorf("expected ',' or %q, found end of input", closing)
			}

			return p.errorf("expected ',' or %q, found %q", closing, p.peek())
		}
	}
}

func (p *ronParser) list() (any, error) {
	p.next()

	items := []any{}
	err := p.sequence(']', func() error {
		v, err := p.value()
		if err != nil {
			return err
		}

		items = append(items, v)

		return nil
	})

	return items, err
}

func (p *ronParser) mapping() (any, error) {
	p.next()

	m := map[string]any{}
	err := p.sequence('}', func() error {
		k, err := p.value()
		if err != nil {
			return err
		}

		key, err := p.mapKey(k)
		if err != nil {
			return err
		}

		if err := p.expect(':'); err != nil {
			return err
		}

		v, err := p.value()
		if err != nil {
			return err
		}

		m[key] = v

		return nil
	})

	return m, err
}

func (p *ronParser) mapKey(k any) (string, error) {
	switch k := k.(type) {
	case string:
		return k, nil
	case json.Number:
		return k.String(), nil
	case bool:
		return strconv.FormatBool(k), nil
	default:
		return "", p.errorf("unsupported map key %v", k)
	}
}

// group parses the parenthesized part of a struct, a tuple or the unit value.
func (p *ronParser) group() (any, error) {
	p.next()

	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.peek() == ')' {
		p.next()
		return nil, nil
	}

	if p.atField() {
		fields := map[string]any{}
		err := p.sequence(')', func() error {
			if err := p.skipSpace(); err != nil {
				return err
			}

			name := p.ident()
			if name == "" {
				return p.errorf("expected field name, found %q", p.peek())
			}

			if err := p.expect(':'); err != nil {
				return err
			}

			v, err := p.value()
			if err != nil {
				return err
			}

			fields[name] = v

			return nil
		})

		return fields, err
	}

	items := []any{}
	err := p.sequence(')', func() error {
		v, err := p.value()
		if err != nil {
			return err
		}

		items = append(items, v)

		return nil
	})

	return items, err
}

// atField reports whether the input continues with "identifier:".
func (p *ronParser) atField() bool {
	start := p.pos
	defer func() { p.pos = start }()

	if p.ident() == "" {
		return false
	}

	if err := p.skipSpace(); err != nil {
		return false
	}

	return p.peek() == ':'
}

func (p *ronParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		r := p.peek()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		p.next()
	}

	return p.src[start:p.pos]
}

func (p *ronParser) identValue() (any, error) {
	name := p.ident()

	switch name {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "None":
		return nil, nil
	}

	if err := p.skipSpace(); err != nil {
		return nil, err
	}

	if p.peek() != '(' {
		return name, nil
	}

	inner, err := p.group()
	if err != nil {
		return nil, err
	}

	// Some(x), newtype structs and single-element tuple variants unwrap.
	if items, ok := inner.([]any); ok && len(items) == 1 {
		return items[0], nil
	}

	return inner, nil
}

func (p *ronParser) str() (any, error) {
	p.next()

	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated string")
		}

		r := p.next()
		switch r {
		case '"':
			return sb.String(), nil
		case '\\':
			esc, err := p.escape()
			if err != nil {
				return nil, err
			}

			sb.WriteString(esc)
		default:
			sb.WriteRune(r)
		}
	}
}

func (p *ronParser) char() (any, error) {
	p.next()

	if p.pos >= len(p.src) {
		return nil, p.errorf("unterminated char")
	}

	r := p.next()

	s := string(r)
	if r == '\\' {
		esc, err := p.escape()
		if err != nil {
			return nil, err
		}

		s = esc
	}

	if p.pos >= len(p.src) || p.next() != '\'' {
		return nil, p.errorf("unterminated char")
	}

	return s, nil
}

func (p *ronParser) escape() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errorf("unterminated escape")
	}

	switch r := p.next(); r {
	case 'n':
		return "\n", nil
	case 't':
		return "\t", nil
	case 'r':
		return "\r", nil
	case '0':
		return "\x00", nil
	case '\\', '"', '\'', '/':
		return string(r), nil
	case 'x':
		if p.pos+2 > len(p.src) {
			return "", p.errorf("short \\x escape")
		}

		n, err := strconv.ParseUint(p.src[p.pos:p.pos+2], 16, 8)
		if err != nil {
			return "", p.errorf("invalid \\x escape: %v", err)
		}

		p.pos += 2

		return string(rune(n)), nil
	case 'u':
		if p.peek() != '{' {
			return "", p.errorf("expected '{' after \\u")
		}

		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return "", p.errorf("unterminated \\u escape")
		}

		n, err := strconv.ParseUint(p.src[p.pos+1:p.pos+end], 16, 32)
		if err != nil {
			return "", p.errorf("invalid \\u escape: %v", err)
		}

		p.pos += end + 1

		return string(rune(n)), nil
	default:
		return "", p.errorf("unknown escape \\%c", r)
	}
}

// rawStr parses r"..." and r#"..."# literals.
func (p *ronParser) rawStr() (any, error) {
	p.next()

	hashes := 0
	for p.peek() == '#' {
		p.next()
		hashes++
	}

	if p.peek() != '"' {
		return nil, p.errorf("expected '\"' in raw string")
	}

	p.next()

	closing := "\"" + strings.Repeat("#", hashes)

	end := strings.Index(p.src[p.pos:], closing)
	if end < 0 {
		return nil, p.errorf("unterminated raw string")
	}

	s := p.src[p.pos : p.pos+end]
	p.pos += end + len(closing)

	return s, nil
}

func (p *ronParser) number() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		r := p.peek()
		if !strings.ContainsRune("+-._", r) && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		// A sign is only part of the number at the start or after an exponent.
		if (r == '+' || r == '-') && p.pos > start {
			prev := p.src[p.pos-1]
			if prev != 'e' && prev != 'E' || isRadixLiteral(p.src[start:p.pos]) {
				break
			}
		}

		p.next()
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")

	n, err := normalizeNumber(text)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}

	return n, nil
}

func isRadixLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1]))
}

// normalizeNumber turns a RON numeric literal into a JSON number.
func normalizeNumber(text string) (json.Number, error) {
	text = strings.TrimPrefix(text, "+")

	if isRadixLiteral(text) {
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return "", err
		}

		return json.Number(strconv.FormatInt(n, 10)), nil
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return json.Number(strconv.FormatInt(i, 10)), nil
	}

	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		return json.Number(strconv.FormatUint(u, 10)), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return "", err
	}

	return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
}
