package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type ntReader struct {
	reader *bufio.Reader
	opts   Options
	line   int
	err    error
}

func newNTriplesReader(r io.Reader, opts Options) Reader {
	return &ntReader{reader: bufio.NewReader(r), opts: opts}
}

func (d *ntReader) Next() (Triple, error) {
	if d.err != nil {
		return Triple{}, d.err
	}
	for {
		if err := d.opts.Context.Err(); err != nil {
			d.err = err
			return Triple{}, err
		}
		raw, err := readLineWithLimit(d.reader, d.opts.MaxLineBytes)
		if err != nil {
			if err != io.EOF {
				err = newParseError(FormatNTriples, d.line+1, 0, "", err)
			}
			d.err = err
			return Triple{}, err
		}
		d.line++
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '#' {
			continue
		}
		triple, err := parseNTLine(line)
		if err != nil {
			d.err = d.wrap(line, err)
			return Triple{}, d.err
		}
		return triple, nil
	}
}

func (d *ntReader) wrap(line string, err error) error {
	column := 0
	if cerr, ok := err.(*cursorError); ok {
		column = cerr.pos + 1
		err = cerr.err
	}
	return newParseError(FormatNTriples, d.line, column, line, err)
}

func (d *ntReader) Close() error { return nil }

func parseNTLine(line string) (Triple, error) {
	triple, named, err := parseStatementLine(line)
	if err != nil {
		return Triple{}, err
	}
	if named {
		return Triple{}, &cursorError{err: fmt.Errorf("graph term not allowed in N-Triples")}
	}
	return triple, nil
}

// parseStatementLine parses an N-Triples or N-Quads statement and reports
// whether it named a graph.
func parseStatementLine(line string) (Triple, bool, error) {
	cursor := &ntCursor{input: line}
	subject, err := cursor.parseTerm(false)
	if err != nil {
		return Triple{}, false, err
	}
	cursor.skipWS()
	predicate, err := cursor.parseIRI()
	if err != nil {
		return Triple{}, false, err
	}
	object, err := cursor.parseTerm(true)
	if err != nil {
		return Triple{}, false, err
	}
	named := false
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '.' {
		if _, err := cursor.parseTerm(false); err != nil {
			return Triple{}, false, err
		}
		named = true
	}
	if !cursor.consume('.') {
		return Triple{}, false, cursor.errorf("expected '.' at end of statement")
	}
	cursor.skipWS()
	if cursor.pos < len(cursor.input) && cursor.input[cursor.pos] != '#' {
		return Triple{}, false, cursor.errorf("unexpected content after '.'")
	}
	return Triple{S: subject, P: predicate, O: object}, named, nil
}

// cursorError carries the failing byte offset within the line.
type cursorError struct {
	pos int
	err error
}

func (e *cursorError) Error() string { return e.err.Error() }
func (e *cursorError) Unwrap() error { return e.err }

type ntCursor struct {
	input string
	pos   int
}

func (c *ntCursor) skipWS() {
	for c.pos < len(c.input) && (c.input[c.pos] == ' ' || c.input[c.pos] == '\t') {
		c.pos++
	}
}

func (c *ntCursor) consume(ch byte) bool {
	c.skipWS()
	if c.pos < len(c.input) && c.input[c.pos] == ch {
		c.pos++
		return true
	}
	return false
}

func (c *ntCursor) parseTerm(allowLiteral bool) (Term, error) {
	c.skipWS()
	if c.pos >= len(c.input) {
		return nil, c.errorf("unexpected end of line")
	}
	switch {
	case c.input[c.pos] == '<':
		return c.parseIRI()
	case strings.HasPrefix(c.input[c.pos:], "_:"):
		return c.parseBlankNode()
	case c.input[c.pos] == '"':
		if !allowLiteral {
			return nil, c.errorf("literal not allowed as subject")
		}
		return c.parseLiteral()
	default:
		return nil, c.errorf("unexpected character %q", c.input[c.pos])
	}
}

func (c *ntCursor) parseIRI() (IRI, error) {
	if c.pos >= len(c.input) || c.input[c.pos] != '<' {
		return IRI{}, c.errorf("expected IRI")
	}
	c.pos++
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '>' {
		switch c.input[c.pos] {
		case ' ', '<', '"', '{', '}', '|', '^', '`':
			return IRI{}, c.errorf("invalid character %q in IRI", c.input[c.pos])
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return IRI{}, c.errorf("unterminated IRI")
	}
	raw := c.input[start:c.pos]
	c.pos++
	value, err := unescapeIRI(raw)
	if err != nil {
		return IRI{}, c.errorf("%v", err)
	}
	if !strings.Contains(value, ":") {
		return IRI{}, c.errorf("relative IRI <%s> not allowed", value)
	}
	return IRI{Value: value}, nil
}

func (c *ntCursor) parseBlankNode() (BlankNode, error) {
	c.pos += 2
	start := c.pos
	for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) {
		c.pos++
	}
	id := strings.TrimRight(c.input[start:c.pos], ".")
	c.pos = start + len(id)
	if id == "" {
		return BlankNode{}, c.errorf("blank node label missing")
	}
	return BlankNode{ID: id}, nil
}

func (c *ntCursor) parseLiteral() (Literal, error) {
	c.pos++
	start := c.pos
	for c.pos < len(c.input) && c.input[c.pos] != '"' {
		if c.input[c.pos] == '\\' {
			c.pos++
		}
		c.pos++
	}
	if c.pos >= len(c.input) {
		return Literal{}, c.errorf("unterminated string literal")
	}
	lexical, err := unescapeString(c.input[start:c.pos])
	if err != nil {
		return Literal{}, c.errorf("%v", err)
	}
	c.pos++
	switch {
	case strings.HasPrefix(c.input[c.pos:], "@"):
		c.pos++
		langStart := c.pos
		for c.pos < len(c.input) && !isTermDelimiter(c.input[c.pos]) && c.input[c.pos] != '.' {
			c.pos++
		}
		lang := c.input[langStart:c.pos]
		if !isValidLangTag(lang) {
			return Literal{}, c.errorf("invalid language tag %q", lang)
		}
		return NewLangLiteral(lexical, lang), nil
	case strings.HasPrefix(c.input[c.pos:], "^^"):
		c.pos += 2
		datatype, err := c.parseIRI()
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: datatype}, nil
	default:
		return NewLiteral(lexical, XSDString), nil
	}
}

func (c *ntCursor) errorf(format string, args ...any) error {
	return &cursorError{pos: c.pos, err: fmt.Errorf(format, args...)}
}

func isTermDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// unescapeIRI decodes \u and \U escapes, the only escapes allowed in IRIREF.
func unescapeIRI(raw string) (string, error) {
	if !strings.ContainsRune(raw, '\\') {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++
			continue
		}
		if i+1 >= len(raw) || (raw[i+1] != 'u' && raw[i+1] != 'U') {
			return "", errInvalidEscape
		}
		r, width, err := unescapeCodePoint(raw, i)
		if err != nil {
			return "", err
		}
		b.WriteRune(r)
		i += width
	}
	return b.String(), nil
}

type ntWriter struct {
	writer *bufio.Writer
	err    error
	closed bool
}

func newNTriplesWriter(w io.Writer) Writer {
	return &ntWriter{writer: bufio.NewWriter(w)}
}

func (e *ntWriter) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("ntriples: writer closed")
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("%w: ntriples: missing statement fields", ErrEncode)
	}
	if _, err := e.writer.WriteString(t.String() + " .\n"); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *ntWriter) Flush() error {
	if e.err != nil {
		return e.err
	}
	return e.writer.Flush()
}

func (e *ntWriter) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return e.Flush()
}

func renderIRI(iri IRI) string {
	return "<" + iri.Value + ">"
}

// renderTerm renders a term in N-Triples syntax. xsd:string literals are
// written without a datatype.
func renderTerm(term Term) string {
	switch value := term.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		value = normalizeLiteral(value)
		quoted := `"` + escapeNTriplesString(value.Lexical) + `"`
		switch {
		case value.Lang != "":
			return quoted + "@" + value.Lang
		case value.Datatype.Value == XSDString:
			return quoted
		default:
			return quoted + "^^" + renderIRI(value.Datatype)
		}
	default:
		return ""
	}
}
