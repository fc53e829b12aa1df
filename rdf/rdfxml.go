package rdf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var rdfxmlNodeIDPattern = regexp.MustCompile(`nodeID\s*=\s*["']([^"']*)["']`)

func newRDFXMLReader(r io.Reader, opts Options) (Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError(FormatRDFXML, 0, 0, "", err)
	}
	reserved := map[string]struct{}{}
	for _, match := range rdfxmlNodeIDPattern.FindAllSubmatch(data, -1) {
		reserved[string(match[1])] = struct{}{}
	}
	p := &rdfxmlParser{dec: xml.NewDecoder(bytes.NewReader(data)), labels: labelMinter{reserved: reserved}}
	if err := p.parseDocument(opts.BaseIRI); err != nil {
		return nil, p.wrap(err)
	}
	return &sliceReader{triples: p.triples}, nil
}

// rdfxmlParser walks the XML token stream recursively. xml:base and
// xml:lang are carried down the call stack as scope.
type rdfxmlParser struct {
	dec     *xml.Decoder
	triples []Triple
	labels  labelMinter
}

type rdfxmlScope struct {
	base string
	lang string
}

func (s rdfxmlScope) enter(attrs []xml.Attr) rdfxmlScope {
	if base, ok := lookupAttr(attrs, XMLNamespace, "base"); ok {
		s.base = s.resolve(base)
	}
	if lang, ok := lookupAttr(attrs, XMLNamespace, "lang"); ok {
		s.lang = lang
	}
	return s
}

func (s rdfxmlScope) resolve(ref string) string {
	if s.base == "" || isAbsoluteIRI(ref) {
		return ref
	}
	return ResolveIRI(s.base, ref)
}

func (p *rdfxmlParser) parseDocument(base string) error {
	scope := rdfxmlScope{base: base}
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if isRDFName(start.Name, "RDF") {
			if err := p.parseNodeElements(scope.enter(start.Attr)); err != nil {
				return err
			}
			continue
		}
		if _, err := p.parseNodeElement(start, scope); err != nil {
			return err
		}
	}
}

// parseNodeElements parses node elements until the enclosing end tag.
func (p *rdfxmlParser) parseNodeElements(scope rdfxmlScope) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := p.parseNodeElement(t, scope); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("unexpected text between node elements")
			}
		}
	}
}

// parseNodeElement consumes a node element including its end tag and
// returns its subject.
func (p *rdfxmlParser) parseNodeElement(start xml.StartElement, scope rdfxmlScope) (Term, error) {
	scope = scope.enter(start.Attr)
	subject, err := p.nodeSubject(start, scope)
	if err != nil {
		return nil, err
	}
	if !isRDFName(start.Name, "Description") {
		p.emit(subject, RDFType, IRI{Value: start.Name.Space + start.Name.Local})
	}
	if err := p.emitPropertyAttributes(subject, start.Attr, scope); err != nil {
		return nil, err
	}
	return subject, p.parsePropertyElements(subject, scope)
}

func (p *rdfxmlParser) nodeSubject(start xml.StartElement, scope rdfxmlScope) (Term, error) {
	about, hasAbout := lookupAttr(start.Attr, RDFNamespace, "about")
	id, hasID := lookupAttr(start.Attr, RDFNamespace, "ID")
	nodeID, hasNodeID := lookupAttr(start.Attr, RDFNamespace, "nodeID")
	count := 0
	for _, present := range []bool{hasAbout, hasID, hasNodeID} {
		if present {
			count++
		}
	}
	if count > 1 {
		return nil, fmt.Errorf("<%s> may carry only one of rdf:about, rdf:ID and rdf:nodeID", start.Name.Local)
	}
	switch {
	case hasAbout:
		return IRI{Value: scope.resolve(about)}, nil
	case hasID:
		return IRI{Value: scope.resolve("#" + id)}, nil
	case hasNodeID:
		return BlankNode{ID: nodeID}, nil
	default:
		return p.newBlankNode(), nil
	}
}

// emitPropertyAttributes turns non-syntax attributes into triples.
func (p *rdfxmlParser) emitPropertyAttributes(subject Term, attrs []xml.Attr, scope rdfxmlScope) error {
	for _, attr := range attrs {
		if isSyntaxAttr(attr.Name) {
			continue
		}
		if attr.Name.Space == "" {
			return fmt.Errorf("unqualified attribute %q", attr.Name.Local)
		}
		predicate := IRI{Value: attr.Name.Space + attr.Name.Local}
		if predicate.Value == rdfTypeIRI {
			p.emit(subject, predicate, IRI{Value: scope.resolve(attr.Value)})
			continue
		}
		p.emit(subject, predicate, p.plainLiteral(attr.Value, scope))
	}
	return nil
}

func (p *rdfxmlParser) parsePropertyElements(subject Term, scope rdfxmlScope) error {
	li := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			predicate := t.Name.Space + t.Name.Local
			if isRDFName(t.Name, "li") {
				li++
				predicate = RDFNamespace + "_" + strconv.Itoa(li)
			}
			if err := p.parsePropertyElement(subject, IRI{Value: predicate}, t, scope); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("unexpected text between property elements")
			}
		}
	}
}

func (p *rdfxmlParser) parsePropertyElement(subject Term, predicate IRI, start xml.StartElement, scope rdfxmlScope) error {
	scope = scope.enter(start.Attr)

	if parseType, ok := lookupAttr(start.Attr, RDFNamespace, "parseType"); ok {
		switch parseType {
		case "Resource":
			node := p.newBlankNode()
			p.emit(subject, predicate, node)
			return p.parsePropertyElements(node, scope)
		case "Collection":
			head, err := p.parseCollection(scope)
			if err != nil {
				return err
			}
			p.emit(subject, predicate, head)
			return nil
		default:
			xmlLiteral, err := p.captureXML()
			if err != nil {
				return err
			}
			p.emit(subject, predicate, NewLiteral(xmlLiteral, RDFXMLLiteral))
			return nil
		}
	}

	resource, hasResource := lookupAttr(start.Attr, RDFNamespace, "resource")
	nodeID, hasNodeID := lookupAttr(start.Attr, RDFNamespace, "nodeID")
	if hasResource && hasNodeID {
		return errors.New("rdf:resource and rdf:nodeID are mutually exclusive")
	}
	var object Term
	switch {
	case hasResource:
		object = IRI{Value: scope.resolve(resource)}
	case hasNodeID:
		object = BlankNode{ID: nodeID}
	}
	if object != nil || hasPropertyAttrs(start.Attr) {
		if object == nil {
			object = p.newBlankNode()
		}
		p.emit(subject, predicate, object)
		if err := p.emitPropertyAttributes(object, start.Attr, scope); err != nil {
			return err
		}
		return p.expectEnd()
	}

	datatype, hasDatatype := lookupAttr(start.Attr, RDFNamespace, "datatype")
	var text strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			if strings.TrimSpace(text.String()) != "" {
				return errors.New("mixed content in property element")
			}
			node, err := p.parseNodeElement(t, scope)
			if err != nil {
				return err
			}
			p.emit(subject, predicate, node)
			return p.expectEnd()
		case xml.EndElement:
			if hasDatatype {
				p.emit(subject, predicate, NewLiteral(text.String(), scope.resolve(datatype)))
			} else {
				p.emit(subject, predicate, p.plainLiteral(text.String(), scope))
			}
			return nil
		}
	}
}

// parseCollection reads node elements into an rdf:first/rdf:rest list.
func (p *rdfxmlParser) parseCollection(scope rdfxmlScope) (Term, error) {
	var items []Term
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node, err := p.parseNodeElement(t, scope)
			if err != nil {
				return nil, err
			}
			items = append(items, node)
		case xml.EndElement:
			var head Term = IRI{Value: rdfNilIRI}
			for i := len(items) - 1; i >= 0; i-- {
				cell := p.newBlankNode()
				p.emit(cell, IRI{Value: rdfFirstIRI}, items[i])
				p.emit(cell, IRI{Value: rdfRestIRI}, head)
				head = cell
			}
			return head, nil
		}
	}
}

// captureXML re-serializes the content of a parseType="Literal" element.
func (p *rdfxmlParser) captureXML() (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	depth := 0
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", err
		}
		if end, ok := tok.(xml.EndElement); ok {
			if depth == 0 {
				if err := enc.Flush(); err != nil {
					return "", err
				}
				return buf.String(), nil
			}
			depth--
			tok = end
		}
		if _, ok := tok.(xml.StartElement); ok {
			depth++
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return "", err
		}
	}
}

// expectEnd consumes whitespace up to the end tag of the current element.
func (p *rdfxmlParser) expectEnd() error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return errors.New("unexpected text in empty property element")
			}
		case xml.StartElement:
			return fmt.Errorf("unexpected element <%s>", t.Name.Local)
		}
	}
}

func (p *rdfxmlParser) plainLiteral(value string, scope rdfxmlScope) Literal {
	if scope.lang != "" {
		return NewLangLiteral(value, scope.lang)
	}
	return NewLiteral(value, XSDString)
}

func (p *rdfxmlParser) emit(s Term, pred IRI, o Term) {
	p.triples = append(p.triples, Triple{S: s, P: pred, O: o})
}

func (p *rdfxmlParser) newBlankNode() BlankNode {
	return p.labels.next()
}

func (p *rdfxmlParser) wrap(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return newParseError(FormatRDFXML, syntaxErr.Line, 0, "", errors.New(syntaxErr.Msg))
	}
	line, column := p.dec.InputPos()
	return newParseError(FormatRDFXML, line, column, "", err)
}

func isRDFName(name xml.Name, local string) bool {
	return name.Space == RDFNamespace && name.Local == local
}

// isSyntaxAttr reports attributes that never become property triples.
func isSyntaxAttr(name xml.Name) bool {
	switch {
	case name.Space == "xmlns", name.Space == "" && name.Local == "xmlns":
		return true
	case name.Space == XMLNamespace:
		return true
	case name.Space == RDFNamespace:
		switch name.Local {
		case "about", "ID", "nodeID", "resource", "datatype", "parseType", "bagID", "aboutEach", "aboutEachPrefix":
			return true
		}
	}
	return false
}

func hasPropertyAttrs(attrs []xml.Attr) bool {
	for _, attr := range attrs {
		if !isSyntaxAttr(attr.Name) {
			return true
		}
	}
	return false
}

func lookupAttr(attrs []xml.Attr, space, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == space && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}
