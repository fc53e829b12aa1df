package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	"\r", "&#13;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}

// rdfxmlWriter collects triples and writes one rdf:Description per subject
// on Close. Namespaces are declared on the root element.
type rdfxmlWriter struct {
	out    io.Writer
	opts   Options
	groups *subjectGroups
	closed bool
	err    error
}

func newRDFXMLWriter(w io.Writer, opts Options) Writer {
	return &rdfxmlWriter{out: w, opts: opts, groups: newSubjectGroups()}
}

func (e *rdfxmlWriter) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("rdfxml: writer closed")
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("%w: rdfxml: missing statement fields", ErrEncode)
	}
	if _, ok := t.S.(Literal); ok {
		return fmt.Errorf("%w: rdfxml: literal subject", ErrEncode)
	}
	e.groups.add(t)
	return nil
}

// Flush is a no-op; output is produced on Close.
func (e *rdfxmlWriter) Flush() error { return e.err }

func (e *rdfxmlWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	names, err := e.namespaces()
	if err != nil {
		e.err = err
		return err
	}

	w := bufio.NewWriter(e.out)
	w.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	w.WriteString(`<rdf:RDF`)
	for _, prefix := range sortedPrefixKeys(names.byPrefix) {
		fmt.Fprintf(w, "\n    xmlns:%s=\"%s\"", prefix, escapeXML(names.byPrefix[prefix]))
	}
	if e.opts.BaseIRI != "" {
		fmt.Fprintf(w, "\n    xml:base=\"%s\"", escapeXML(e.opts.BaseIRI))
	}
	w.WriteString(">\n")

	for _, group := range e.groups.ordered() {
		w.WriteString("  <rdf:Description " + subjectAttr(group.subject) + ">\n")
		for _, predicate := range group.predicates {
			qname := names.qname(predicate.Value)
			for _, object := range group.objects[predicate.Value] {
				w.WriteString("    " + propertyElement(qname, object) + "\n")
			}
		}
		w.WriteString("  </rdf:Description>\n")
	}
	w.WriteString("</rdf:RDF>\n")
	if err := w.Flush(); err != nil {
		e.err = err
	}
	return e.err
}

type xmlNamespaces struct {
	byPrefix map[string]string
	byNS     map[string]string
}

func (n xmlNamespaces) qname(iri string) string {
	ns, local, _ := splitIRIForQName(iri)
	return n.byNS[ns] + ":" + local
}

// namespaces assigns a prefix to the namespace of every predicate, reusing
// configured prefixes and minting ns0, ns1, ... for the rest.
func (e *rdfxmlWriter) namespaces() (xmlNamespaces, error) {
	known := map[string]string{}
	prefixes := mergePrefixes(e.opts.Prefixes)
	for _, prefix := range sortedPrefixKeys(prefixes) {
		ns := prefixes[prefix]
		if _, taken := known[ns]; !taken && prefix != "" {
			known[ns] = prefix
		}
	}
	names := xmlNamespaces{
		byPrefix: map[string]string{"rdf": RDFNamespace},
		byNS:     map[string]string{RDFNamespace: "rdf"},
	}
	auto := 0
	for _, group := range e.groups.ordered() {
		for _, predicate := range group.predicates {
			ns, _, ok := splitIRIForQName(predicate.Value)
			if !ok {
				return names, fmt.Errorf("%w: rdfxml: predicate <%s> cannot be written as an XML name", ErrEncode, predicate.Value)
			}
			if _, ok := names.byNS[ns]; ok {
				continue
			}
			prefix, ok := known[ns]
			if !ok || names.byPrefix[prefix] != "" {
				for {
					prefix = "ns" + strconv.Itoa(auto)
					auto++
					if _, used := names.byPrefix[prefix]; !used {
						break
					}
				}
			}
			names.byPrefix[prefix] = ns
			names.byNS[ns] = prefix
		}
	}
	return names, nil
}

func subjectAttr(term Term) string {
	if bnode, ok := term.(BlankNode); ok {
		return `rdf:nodeID="` + escapeXML(bnode.ID) + `"`
	}
	return `rdf:about="` + escapeXML(term.String()) + `"`
}

func propertyElement(qname string, object Term) string {
	switch value := object.(type) {
	case IRI:
		return "<" + qname + ` rdf:resource="` + escapeXML(value.Value) + `"/>`
	case BlankNode:
		return "<" + qname + ` rdf:nodeID="` + escapeXML(value.ID) + `"/>`
	case Literal:
		value = normalizeLiteral(value)
		attrs := ""
		switch {
		case value.Lang != "":
			attrs = ` xml:lang="` + escapeXML(value.Lang) + `"`
		case value.Datatype.Value != XSDString:
			attrs = ` rdf:datatype="` + escapeXML(value.Datatype.Value) + `"`
		}
		return "<" + qname + attrs + ">" + escapeXML(value.Lexical) + "</" + qname + ">"
	default:
		return ""
	}
}
