package rdf

import (
	"fmt"
	"io"
	"strings"
)

func newTurtleReader(r io.Reader, opts Options) (Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError(FormatTurtle, 0, 0, "", err)
	}
	p := newTurtleParser(string(data), opts.BaseIRI)
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	return &sliceReader{triples: p.triples}, nil
}

// turtleParser is a recursive-descent parser over a whole Turtle document.
type turtleParser struct {
	input    string
	pos      int
	base     string
	prefixes map[string]string
	triples  []Triple
	labels   labelMinter
}

func newTurtleParser(input, base string) *turtleParser {
	return &turtleParser{
		input:    input,
		base:     base,
		prefixes: map[string]string{},
		labels:   labelMinter{reserved: turtleBlankLabels(input)},
	}
}

func (p *turtleParser) parseDocument() error {
	for {
		p.skipWS()
		if p.eof() {
			return nil
		}
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
}

func (p *turtleParser) parseStatement() error {
	switch {
	case p.hasPrefix("@prefix"):
		p.pos += len("@prefix")
		return p.parsePrefixDirective(true)
	case p.hasPrefix("@base"):
		p.pos += len("@base")
		return p.parseBaseDirective(true)
	case p.hasKeywordFold("PREFIX"):
		p.pos += len("PREFIX")
		return p.parsePrefixDirective(false)
	case p.hasKeywordFold("BASE"):
		p.pos += len("BASE")
		return p.parseBaseDirective(false)
	}
	if err := p.parseTriples(); err != nil {
		return err
	}
	p.skipWS()
	if !p.consume('.') {
		return p.errorf("expected '.' at end of statement")
	}
	return nil
}

func (p *turtleParser) parsePrefixDirective(dotted bool) error {
	p.skipWS()
	start := p.pos
	for !p.eof() && p.peek() != ':' && !isTurtleWS(p.peek()) {
		p.pos++
	}
	prefix := p.input[start:p.pos]
	if !p.consume(':') {
		return p.errorf("expected ':' after prefix name")
	}
	if !isValidPrefixName(prefix) {
		return p.errorAt(start, "invalid prefix name %q", prefix)
	}
	p.skipWS()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.prefixes[prefix] = iri.Value
	return p.finishDirective(dotted)
}

func (p *turtleParser) parseBaseDirective(dotted bool) error {
	p.skipWS()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.base = iri.Value
	return p.finishDirective(dotted)
}

func (p *turtleParser) finishDirective(dotted bool) error {
	p.skipWS()
	if dotted && !p.consume('.') {
		return p.errorf("expected '.' after directive")
	}
	return nil
}

func (p *turtleParser) parseTriples() error {
	p.skipWS()
	if p.peek() == '[' {
		subject, err := p.parseBlankNodePropertyList()
		if err != nil {
			return err
		}
		p.skipWS()
		if p.peek() == '.' {
			return nil
		}
		return p.parsePredicateObjectList(subject)
	}
	subject, err := p.parseSubject()
	if err != nil {
		return err
	}
	return p.parsePredicateObjectList(subject)
}

func (p *turtleParser) parseSubject() (Term, error) {
	p.skipWS()
	switch {
	case p.peek() == '(':
		return p.parseCollection()
	case p.hasPrefix("_:"):
		return p.parseBlankNodeLabel()
	case p.peek() == '"' || p.peek() == '\'':
		return nil, p.errorf("literal not allowed as subject")
	default:
		return p.parseIRI()
	}
}

func (p *turtleParser) parsePredicateObjectList(subject Term) error {
	for {
		p.skipWS()
		predicate, err := p.parseVerb()
		if err != nil {
			return err
		}
		if err := p.parseObjectList(subject, predicate); err != nil {
			return err
		}
		p.skipWS()
		if !p.consume(';') {
			return nil
		}
		// Repeated or trailing ';' is allowed.
		for {
			p.skipWS()
			if !p.consume(';') {
				break
			}
		}
		p.skipWS()
		if p.eof() || p.peek() == '.' || p.peek() == ']' {
			return nil
		}
	}
}

func (p *turtleParser) parseVerb() (IRI, error) {
	if p.peek() == 'a' && p.pos+1 < len(p.input) && isTurtleDelimiter(p.input[p.pos+1]) {
		p.pos++
		return RDFType, nil
	}
	term, err := p.parseIRI()
	if err != nil {
		return IRI{}, err
	}
	return term, nil
}

func (p *turtleParser) parseObjectList(subject Term, predicate IRI) error {
	for {
		object, err := p.parseObject()
		if err != nil {
			return err
		}
		p.emit(subject, predicate, object)
		p.skipWS()
		if !p.consume(',') {
			return nil
		}
	}
}

func (p *turtleParser) parseObject() (Term, error) {
	p.skipWS()
	if p.eof() {
		return nil, p.errorf("unexpected end of input, expected object")
	}
	switch ch := p.peek(); {
	case ch == '[':
		return p.parseBlankNodePropertyList()
	case ch == '(':
		return p.parseCollection()
	case ch == '"' || ch == '\'':
		return p.parseRDFLiteral()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		return p.parseNumericLiteral()
	case p.hasPrefix("_:"):
		return p.parseBlankNodeLabel()
	case p.hasKeyword("true"):
		p.pos += len("true")
		return NewLiteral("true", XSDBoolean), nil
	case p.hasKeyword("false"):
		p.pos += len("false")
		return NewLiteral("false", XSDBoolean), nil
	default:
		return p.parseIRI()
	}
}

// parseIRI parses an IRIREF or a prefixed name.
func (p *turtleParser) parseIRI() (IRI, error) {
	if p.peek() == '<' {
		return p.parseIRIRef()
	}
	return p.parsePrefixedName()
}

func (p *turtleParser) parseIRIRef() (IRI, error) {
	if !p.consume('<') {
		return IRI{}, p.errorf("expected IRI")
	}
	start := p.pos
	for !p.eof() && p.peek() != '>' {
		switch ch := p.peek(); ch {
		case ' ', '\t', '\n', '\r', '<', '"', '{', '}', '|', '^', '`':
			return IRI{}, p.errorf("invalid character %q in IRI", ch)
		}
		if p.peek() == '\\' {
			p.pos++
		}
		p.pos++
	}
	if p.eof() {
		return IRI{}, p.errorAt(start-1, "unterminated IRI")
	}
	raw := p.input[start:p.pos]
	p.pos++
	value, err := unescapeIRI(raw)
	if err != nil {
		return IRI{}, p.errorAt(start, "%v", err)
	}
	return IRI{Value: p.resolve(value)}, nil
}

func (p *turtleParser) resolve(value string) string {
	if p.base == "" || isAbsoluteIRI(value) {
		return value
	}
	return ResolveIRI(p.base, value)
}

func (p *turtleParser) parsePrefixedName() (IRI, error) {
	start := p.pos
	for !p.eof() && p.peek() != ':' && isPNChar(p.peek()) {
		p.pos++
	}
	if p.eof() || p.peek() != ':' {
		p.pos = start
		return IRI{}, p.errorf("expected IRI or prefixed name")
	}
	prefix := p.input[start:p.pos]
	ns, ok := p.prefixes[prefix]
	if !ok {
		return IRI{}, p.errorAt(start, "undefined prefix %q", prefix)
	}
	p.pos++
	local, err := p.parseLocalName()
	if err != nil {
		return IRI{}, err
	}
	return IRI{Value: ns + local}, nil
}

// parseLocalName reads PN_LOCAL, decoding reserved-character escapes.
// Percent escapes are kept as written.
func (p *turtleParser) parseLocalName() (string, error) {
	var b strings.Builder
	for !p.eof() {
		ch := p.peek()
		switch {
		case ch == '\\':
			if p.pos+1 >= len(p.input) || !isLocalEscapable(p.input[p.pos+1]) {
				return "", p.errorf("invalid escape in local name")
			}
			b.WriteByte(p.input[p.pos+1])
			p.pos += 2
		case ch == '%':
			if p.pos+2 >= len(p.input) || !isHexDigit(p.input[p.pos+1]) || !isHexDigit(p.input[p.pos+2]) {
				return "", p.errorf("invalid percent escape in local name")
			}
			b.WriteString(p.input[p.pos : p.pos+3])
			p.pos += 3
		case ch == '.':
			// A dot may not end a local name.
			if p.pos+1 < len(p.input) && (isPNChar(p.input[p.pos+1]) || p.input[p.pos+1] == ':') {
				b.WriteByte(ch)
				p.pos++
				continue
			}
			return b.String(), nil
		case isPNChar(ch) || ch == ':':
			b.WriteByte(ch)
			p.pos++
		default:
			return b.String(), nil
		}
	}
	return b.String(), nil
}

func (p *turtleParser) parseBlankNodeLabel() (BlankNode, error) {
	p.pos += 2
	start := p.pos
	for !p.eof() {
		ch := p.peek()
		if isPNChar(ch) {
			p.pos++
			continue
		}
		if ch == '.' && p.pos+1 < len(p.input) && isPNChar(p.input[p.pos+1]) {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return BlankNode{}, p.errorf("blank node label missing")
	}
	return BlankNode{ID: p.input[start:p.pos]}, nil
}

func (p *turtleParser) parseBlankNodePropertyList() (Term, error) {
	p.pos++ // '['
	node := p.newBlankNode()
	p.skipWS()
	if p.consume(']') {
		return node, nil
	}
	if err := p.parsePredicateObjectList(node); err != nil {
		return nil, err
	}
	p.skipWS()
	if !p.consume(']') {
		return nil, p.errorf("expected ']'")
	}
	return node, nil
}

func (p *turtleParser) parseCollection() (Term, error) {
	p.pos++ // '('
	var items []Term
	for {
		p.skipWS()
		if p.eof() {
			return nil, p.errorf("unterminated collection")
		}
		if p.consume(')') {
			break
		}
		item, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return IRI{Value: rdfNilIRI}, nil
	}
	head := p.newBlankNode()
	current := head
	for i, item := range items {
		p.emit(current, IRI{Value: rdfFirstIRI}, item)
		if i == len(items)-1 {
			p.emit(current, IRI{Value: rdfRestIRI}, IRI{Value: rdfNilIRI})
			break
		}
		next := p.newBlankNode()
		p.emit(current, IRI{Value: rdfRestIRI}, next)
		current = next
	}
	return head, nil
}

func (p *turtleParser) parseRDFLiteral() (Term, error) {
	lexical, err := p.parseString()
	if err != nil {
		return nil, err
	}
	switch {
	case p.peek() == '@':
		p.pos++
		start := p.pos
		for !p.eof() && (isAlphaNum(p.peek()) || p.peek() == '-') {
			p.pos++
		}
		lang := p.input[start:p.pos]
		if !isValidLangTag(lang) {
			return nil, p.errorAt(start, "invalid language tag %q", lang)
		}
		return NewLangLiteral(lexical, lang), nil
	case p.hasPrefix("^^"):
		p.pos += 2
		datatype, err := p.parseIRI()
		if err != nil {
			return nil, err
		}
		return Literal{Lexical: lexical, Datatype: datatype}, nil
	default:
		return NewLiteral(lexical, XSDString), nil
	}
}

// parseString reads a short or long string in either quote style.
func (p *turtleParser) parseString() (string, error) {
	quote := p.peek()
	long := strings.Repeat(string(quote), 3)
	start := p.pos
	if p.hasPrefix(long) {
		p.pos += 3
		bodyStart := p.pos
		for {
			if p.eof() {
				return "", p.errorAt(start, "unterminated long string")
			}
			if p.peek() == '\\' {
				p.pos += 2
				continue
			}
			if p.hasPrefix(long) {
				// Quotes directly before the closing delimiter belong to the body.
				for p.pos+3 < len(p.input) && p.input[p.pos+3] == quote {
					p.pos++
				}
				break
			}
			p.pos++
		}
		body := p.input[bodyStart:p.pos]
		p.pos += 3
		value, err := unescapeString(body)
		if err != nil {
			return "", p.errorAt(bodyStart, "%v", err)
		}
		return value, nil
	}

	p.pos++
	bodyStart := p.pos
	for {
		if p.eof() {
			return "", p.errorAt(start, "unterminated string")
		}
		ch := p.peek()
		if ch == '\n' || ch == '\r' {
			return "", p.errorf("line break in short string")
		}
		if ch == '\\' {
			p.pos += 2
			continue
		}
		if ch == quote {
			break
		}
		p.pos++
	}
	body := p.input[bodyStart:p.pos]
	p.pos++
	value, err := unescapeString(body)
	if err != nil {
		return "", p.errorAt(bodyStart, "%v", err)
	}
	return value, nil
}

// parseNumericLiteral reads INTEGER, DECIMAL or DOUBLE.
func (p *turtleParser) parseNumericLiteral() (Term, error) {
	start := p.pos
	if p.peek() == '+' || p.peek() == '-' {
		p.pos++
	}
	intDigits := p.skipDigits()
	fracDigits := 0
	if p.peek() == '.' && p.pos+1 < len(p.input) && isDigit(p.input[p.pos+1]) {
		p.pos++
		fracDigits = p.skipDigits()
	}
	if intDigits == 0 && fracDigits == 0 {
		p.pos = start
		return nil, p.errorf("invalid numeric literal")
	}
	datatype := XSDInteger
	if fracDigits > 0 {
		datatype = XSDDecimal
	}
	if p.peek() == 'e' || p.peek() == 'E' {
		mark := p.pos
		p.pos++
		if p.peek() == '+' || p.peek() == '-' {
			p.pos++
		}
		if p.skipDigits() == 0 {
			p.pos = mark
			return nil, p.errorf("invalid exponent in numeric literal")
		}
		datatype = XSDDouble
	}
	return NewLiteral(p.input[start:p.pos], datatype), nil
}

func (p *turtleParser) skipDigits() int {
	n := 0
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
		n++
	}
	return n
}

func (p *turtleParser) emit(s Term, pred IRI, o Term) {
	p.triples = append(p.triples, Triple{S: s, P: pred, O: o})
}

func (p *turtleParser) newBlankNode() BlankNode {
	return p.labels.next()
}

// turtleBlankLabels collects every _:label in the document. Matches inside
// strings are harmless; they only reserve more names.
func turtleBlankLabels(input string) map[string]struct{} {
	labels := map[string]struct{}{}
	for rest := input; ; {
		idx := strings.Index(rest, "_:")
		if idx < 0 {
			return labels
		}
		rest = rest[idx+2:]
		end := 0
		for end < len(rest) && (isPNChar(rest[end]) || rest[end] == '.') {
			end++
		}
		labels[strings.TrimRight(rest[:end], ".")] = struct{}{}
		rest = rest[end:]
	}
}

func (p *turtleParser) skipWS() {
	for !p.eof() {
		switch ch := p.peek(); {
		case isTurtleWS(ch):
			p.pos++
		case ch == '#':
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *turtleParser) eof() bool { return p.pos >= len(p.input) }

func (p *turtleParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *turtleParser) consume(ch byte) bool {
	if p.peek() == ch && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *turtleParser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

// hasKeyword matches a bare word that is not the start of a prefixed name.
func (p *turtleParser) hasKeyword(word string) bool {
	if !p.hasPrefix(word) {
		return false
	}
	end := p.pos + len(word)
	return end >= len(p.input) || !(isPNChar(p.input[end]) || p.input[end] == ':')
}

// hasKeywordFold matches the case-insensitive SPARQL-style directives.
func (p *turtleParser) hasKeywordFold(word string) bool {
	end := p.pos + len(word)
	if end > len(p.input) || !strings.EqualFold(p.input[p.pos:end], word) {
		return false
	}
	return end == len(p.input) || isTurtleWS(p.input[end])
}

func (p *turtleParser) errorf(format string, args ...any) error {
	return p.errorAt(p.pos, format, args...)
}

func (p *turtleParser) errorAt(offset int, format string, args ...any) error {
	line, column, statement := p.position(offset)
	return newParseError(FormatTurtle, line, column, statement, fmt.Errorf(format, args...))
}

// position converts a byte offset into a 1-based line and column and
// returns the text of that line.
func (p *turtleParser) position(offset int) (int, int, string) {
	if offset > len(p.input) {
		offset = len(p.input)
	}
	line := 1 + strings.Count(p.input[:offset], "\n")
	lineStart := strings.LastIndexByte(p.input[:offset], '\n') + 1
	lineEnd := strings.IndexByte(p.input[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(p.input)
	} else {
		lineEnd += lineStart
	}
	return line, offset - lineStart + 1, strings.TrimRight(p.input[lineStart:lineEnd], "\r")
}

func isTurtleWS(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isTurtleDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '<', '[', '(', '"', '\'', '_', '#':
		return true
	default:
		return false
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isAlphaNum(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch)
}

// isPNChar reports whether ch may appear inside a prefix, local name or
// blank node label. Non-ASCII bytes are accepted wholesale.
func isPNChar(ch byte) bool {
	return isAlphaNum(ch) || ch == '_' || ch == '-' || ch >= 0x80
}

func isLocalEscapable(ch byte) bool {
	return strings.IndexByte("_~.-!$&'()*+,;=/?#@%", ch) >= 0
}

func isAbsoluteIRI(value string) bool {
	colon := strings.IndexByte(value, ':')
	if colon <= 0 {
		return false
	}
	for i := 0; i < colon; i++ {
		ch := value[i]
		if !(isAlphaNum(ch) || ch == '+' || ch == '-' || ch == '.') {
			return false
		}
	}
	return !isDigit(value[0])
}

