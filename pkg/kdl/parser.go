package kdl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError is a syntax error with the byte range it was found at.
type ParseError struct {
	Span    Span
	Message string
	Label   string
	Help    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s", e.Message, e.Span)
}

// Parse parses src into a Document. Every node, identifier and entry carries
// the byte span it was read from.
func Parse(src string) (*Document, error) {
	p := &parser{src: src}
	if strings.HasPrefix(src, "\uFEFF") {
		p.pos = len("\uFEFF")
	}
	doc, err := p.document(false)
	if err != nil {
		return nil, err
	}
	doc.Span = Span{Offset: 0, Length: len(src)}
	return doc, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.src) {
		return 0
	}
	return p.src[p.pos+n]
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) errorf(start, length int, format string, args ...any) *ParseError {
	if length < 1 {
		length = 1
	}
	if start+length > len(p.src) {
		length = len(p.src) - start
		if length < 0 {
			length = 0
		}
	}
	return &ParseError{
		Span:    Span{Offset: start, Length: length},
		Message: fmt.Sprintf(format, args...),
		Label:   "here",
	}
}

func isNewline(c byte) bool { return c == '\n' || c == '\r' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

// isIdentChar reports whether c may appear in a bare identifier. Bytes of
// multi-byte UTF-8 sequences are accepted as-is.
func isIdentChar(c byte) bool {
	if c >= utf8.RuneSelf {
		return true
	}
	if c <= ' ' {
		return false
	}
	switch c {
	case '\\', '/', '(', ')', '{', '}', '[', ']', '<', '>', ';', '=', ',', '"', '#':
		return false
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// skipComment consumes a single-line or (nested) multi-line comment if one
// starts at the cursor.
func (p *parser) skipComment() (bool, error) {
	switch {
	case p.hasPrefix("//"):
		for !p.eof() && !isNewline(p.peek()) {
			p.pos++
		}
		return true, nil
	case p.hasPrefix("/*"):
		start := p.pos
		depth := 0
		for !p.eof() {
			switch {
			case p.hasPrefix("/*"):
				depth++
				p.pos += 2
			case p.hasPrefix("*/"):
				depth--
				p.pos += 2
				if depth == 0 {
					return true, nil
				}
			default:
				p.pos++
			}
		}
		return false, p.errorf(start, 2, "unterminated block comment")
	}
	return false, nil
}

// skipLineSpace consumes whitespace, newlines, stray semicolons and comments
// between nodes.
func (p *parser) skipLineSpace() error {
	for !p.eof() {
		c := p.peek()
		switch {
		case isSpace(c), isNewline(c), c == ';':
			p.pos++
		case c == '/' && (p.peekAt(1) == '/' || p.peekAt(1) == '*'):
			if _, err := p.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// skipNodeSpace consumes whitespace, block comments and line continuations
// inside a node. It reports whether anything was consumed.
func (p *parser) skipNodeSpace() (bool, error) {
	consumed := false
	for !p.eof() {
		c := p.peek()
		switch {
		case isSpace(c):
			p.pos++
		case p.hasPrefix("/*"):
			if _, err := p.skipComment(); err != nil {
				return consumed, err
			}
		case c == '\\':
			start := p.pos
			p.pos++
			for !p.eof() && isSpace(p.peek()) {
				p.pos++
			}
			if p.hasPrefix("//") {
				_, _ = p.skipComment()
			}
			switch {
			case p.hasPrefix("\r\n"):
				p.pos += 2
			case !p.eof() && isNewline(p.peek()):
				p.pos++
			case p.eof():
			default:
				return consumed, p.errorf(start, 1, "expected a newline after line continuation")
			}
		default:
			return consumed, nil
		}
		consumed = true
	}
	return consumed, nil
}

func (p *parser) document(nested bool) (*Document, error) {
	start := p.pos
	doc := &Document{}
	for {
		if err := p.skipLineSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			if nested {
				return nil, p.errorf(start-1, 1, "unclosed children block")
			}
			break
		}
		if p.peek() == '}' {
			if !nested {
				return nil, p.errorf(p.pos, 1, "unexpected '}'")
			}
			break
		}
		if p.hasPrefix("/-") {
			p.pos += 2
			if _, err := p.skipNodeSpace(); err != nil {
				return nil, err
			}
			if _, err := p.node(); err != nil {
				return nil, err
			}
			continue
		}
		n, err := p.node()
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	doc.Span = between(start, p.pos)
	return doc, nil
}

func (p *parser) node() (*Node, error) {
	start := p.pos
	n := &Node{}
	if p.peek() == '(' {
		t, err := p.typeAnnotation()
		if err != nil {
			return nil, err
		}
		n.Type = t
	}
	name, err := p.identifier()
	if err != nil {
		return nil, err
	}
	n.Name = name
	end := p.pos

	for {
		hadSpace, err := p.skipNodeSpace()
		if err != nil {
			return nil, err
		}
		if p.eof() {
			break
		}
		c := p.peek()
		if isNewline(c) || c == '}' {
			break
		}
		if c == ';' {
			p.pos++
			break
		}
		if p.hasPrefix("//") {
			_, _ = p.skipComment()
			break
		}
		if p.hasPrefix("/-") {
			p.pos += 2
			if _, err := p.skipNodeSpace(); err != nil {
				return nil, err
			}
			if p.peek() == '{' {
				if _, err := p.children(); err != nil {
					return nil, err
				}
			} else if _, err := p.entry(); err != nil {
				return nil, err
			}
			continue
		}
		if c == '{' {
			children, err := p.children()
			if err != nil {
				return nil, err
			}
			n.Children = children
			end = p.pos
			continue
		}
		if n.Children != nil {
			return nil, p.errorf(p.pos, 1, "unexpected entry after children block")
		}
		if !hadSpace {
			return nil, p.errorf(p.pos, 1, "expected whitespace before entry")
		}
		e, err := p.entry()
		if err != nil {
			return nil, err
		}
		n.Entries = append(n.Entries, e)
		end = p.pos
	}
	n.Span = between(start, end)
	return n, nil
}

func (p *parser) children() (*Document, error) {
	open := p.pos
	p.pos++
	doc, err := p.document(true)
	if err != nil {
		return nil, err
	}
	if p.peek() != '}' {
		return nil, p.errorf(open, 1, "unclosed children block")
	}
	p.pos++
	doc.Span = between(open, p.pos)
	return doc, nil
}

func (p *parser) typeAnnotation() (*Identifier, error) {
	open := p.pos
	p.pos++
	id, err := p.identifier()
	if err != nil {
		return nil, err
	}
	if p.peek() != ')' {
		return nil, p.errorf(open, p.pos-open, "unclosed type annotation")
	}
	p.pos++
	return &Identifier{Value: id.Value, Span: between(open, p.pos)}, nil
}

// identifier reads a bare identifier or a (raw) string used as one.
func (p *parser) identifier() (Identifier, error) {
	start := p.pos
	switch {
	case p.peek() == '"':
		s, err := p.quotedString()
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{Value: s, Span: between(start, p.pos)}, nil
	case p.startsRawString():
		s, err := p.rawString()
		if err != nil {
			return Identifier{}, err
		}
		return Identifier{Value: s, Span: between(start, p.pos)}, nil
	}
	if p.eof() || !isIdentChar(p.peek()) || p.startsNumber() {
		return Identifier{}, p.errorf(start, 1, "expected an identifier")
	}
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	return Identifier{Value: p.src[start:p.pos], Span: between(start, p.pos)}, nil
}

func (p *parser) entry() (*Entry, error) {
	start := p.pos
	e := &Entry{}
	if p.peek() == '(' {
		t, err := p.typeAnnotation()
		if err != nil {
			return nil, err
		}
		e.Type = t
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		e.Value = v
		e.Span = between(start, p.pos)
		return e, nil
	}

	if p.peek() == '"' || p.startsRawString() || (isIdentChar(p.peek()) && !p.startsNumber()) {
		mark := p.pos
		id, err := p.identifier()
		if err != nil {
			return nil, err
		}
		if p.peek() == '=' {
			e.Name = &id
			p.pos++
			if p.eof() || isSpace(p.peek()) || isNewline(p.peek()) {
				return nil, p.errorf(p.pos-1, 1, "expected a value after '='")
			}
			if p.peek() == '(' {
				t, err := p.typeAnnotation()
				if err != nil {
					return nil, err
				}
				e.Type = t
			}
			v, err := p.value()
			if err != nil {
				return nil, err
			}
			e.Value = v
			e.Span = between(start, p.pos)
			return e, nil
		}
		if p.peekSpaceThenEquals() {
			return nil, p.errorf(p.pos, 1, "whitespace is not allowed around '=' in a property")
		}
		p.pos = mark
	}

	v, err := p.value()
	if err != nil {
		return nil, err
	}
	e.Value = v
	e.Span = between(start, p.pos)
	return e, nil
}

func (p *parser) peekSpaceThenEquals() bool {
	i := p.pos
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i > p.pos && i < len(p.src) && p.src[i] == '='
}

func (p *parser) startsNumber() bool {
	c := p.peek()
	if isDigit(c) {
		return true
	}
	if (c == '+' || c == '-') && isDigit(p.peekAt(1)) {
		return true
	}
	return false
}

func (p *parser) startsRawString() bool {
	i := p.pos
	if i < len(p.src) && p.src[i] == 'r' {
		i++
	}
	hashes := 0
	for i < len(p.src) && p.src[i] == '#' {
		i++
		hashes++
	}
	if i >= len(p.src) || p.src[i] != '"' {
		return false
	}
	// `r"..."` (KDL 1) or `#"..."#` (KDL 2).
	return p.src[p.pos] == 'r' || hashes > 0
}

func (p *parser) value() (Value, error) {
	start := p.pos
	switch {
	case p.eof():
		return Value{}, p.errorf(start, 1, "expected a value")
	case p.peek() == '"':
		s, err := p.quotedString()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: s, Raw: p.src[start:p.pos]}, nil
	case p.startsRawString():
		s, err := p.rawString()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: s, Raw: p.src[start:p.pos]}, nil
	case p.peek() == '#':
		return p.keyword()
	case p.startsNumber():
		return p.number()
	case isIdentChar(p.peek()):
		for !p.eof() && isIdentChar(p.peek()) {
			p.pos++
		}
		raw := p.src[start:p.pos]
		switch raw {
		case "true", "false":
			return Value{Kind: KindBool, Bool: raw == "true", Raw: raw}, nil
		case "null":
			return Value{Kind: KindNull, Raw: raw}, nil
		}
		return Value{Kind: KindString, Str: raw, Raw: raw}, nil
	}
	return Value{}, p.errorf(start, 1, "expected a value")
}

func (p *parser) keyword() (Value, error) {
	start := p.pos
	p.pos++
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	raw := p.src[start:p.pos]
	switch raw {
	case "#true":
		return Value{Kind: KindBool, Bool: true, Raw: raw}, nil
	case "#false":
		return Value{Kind: KindBool, Bool: false, Raw: raw}, nil
	case "#null":
		return Value{Kind: KindNull, Raw: raw}, nil
	case "#inf":
		return Value{Kind: KindFloat, Float: math.Inf(1), Raw: raw}, nil
	case "#-inf":
		return Value{Kind: KindFloat, Float: math.Inf(-1), Raw: raw}, nil
	case "#nan":
		return Value{Kind: KindFloat, Float: math.NaN(), Raw: raw}, nil
	}
	e := p.errorf(start, p.pos-start, "unknown keyword %q", raw)
	e.Help = "keywords are #true, #false, #null, #inf, #-inf and #nan"
	return Value{}, e
}

func (p *parser) number() (Value, error) {
	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}
	raw := p.src[start:p.pos]
	text := strings.ReplaceAll(raw, "_", "")
	sign := ""
	body := text
	if body != "" && (body[0] == '+' || body[0] == '-') {
		sign, body = body[:1], body[1:]
	}
	base := 10
	switch {
	case strings.HasPrefix(body, "0x"):
		base, body = 16, body[2:]
	case strings.HasPrefix(body, "0o"):
		base, body = 8, body[2:]
	case strings.HasPrefix(body, "0b"):
		base, body = 2, body[2:]
	}
	if base == 10 && strings.ContainsAny(body, ".eE") {
		f, err := strconv.ParseFloat(sign+body, 64)
		if err != nil {
			return Value{}, p.errorf(start, len(raw), "invalid number %q", raw)
		}
		return Value{Kind: KindFloat, Float: f, Raw: raw}, nil
	}
	i, err := strconv.ParseInt(sign+body, base, 64)
	if err != nil {
		return Value{}, p.errorf(start, len(raw), "invalid number %q", raw)
	}
	return Value{Kind: KindInt, Int: i, Raw: raw}, nil
}

func (p *parser) quotedString() (string, error) {
	start := p.pos
	if p.hasPrefix(`"""`) {
		e := p.errorf(start, 3, "multi-line strings are not supported")
		e.Help = "use a single-line string with \\n escapes"
		return "", e
	}
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf(start, p.pos-start, "unterminated string")
		}
		c := p.peek()
		switch {
		case c == '"':
			p.pos++
			return b.String(), nil
		case isNewline(c):
			return "", p.errorf(start, p.pos-start, "unterminated string")
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	start := p.pos
	p.pos++
	if p.eof() {
		return p.errorf(start, 1, "unterminated escape")
	}
	c := p.peek()
	p.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case '\\':
		b.WriteByte('\\')
	case '"':
		b.WriteByte('"')
	case '/':
		b.WriteByte('/')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 's':
		b.WriteByte(' ')
	case 'u':
		if p.peek() != '{' {
			return p.errorf(start, p.pos-start, "invalid unicode escape")
		}
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return p.errorf(start, p.pos-start, "invalid unicode escape")
		}
		hex := p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1
		r, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || len(hex) == 0 || len(hex) > 6 || !utf8.ValidRune(rune(r)) {
			return p.errorf(start, p.pos-start, "invalid unicode escape")
		}
		b.WriteRune(rune(r))
	case ' ', '\t', '\n', '\r':
		for !p.eof() && (isSpace(p.peek()) || isNewline(p.peek())) {
			p.pos++
		}
	default:
		return p.errorf(start, 2, "invalid escape sequence '\\%c'", c)
	}
	return nil
}

func (p *parser) rawString() (string, error) {
	start := p.pos
	if p.peek() == 'r' {
		p.pos++
	}
	hashes := 0
	for p.peek() == '#' {
		hashes++
		p.pos++
	}
	p.pos++ // opening quote
	closing := `"` + strings.Repeat("#", hashes)
	end := strings.Index(p.src[p.pos:], closing)
	if end < 0 {
		return "", p.errorf(start, p.pos-start, "unterminated raw string")
	}
	s := p.src[p.pos : p.pos+end]
	p.pos += end + len(closing)
	return s, nil
}
