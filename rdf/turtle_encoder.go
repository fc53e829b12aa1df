package rdf

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	turtleIntegerPattern = regexp.MustCompile(`^[+-]?[0-9]+$`)
	turtleDecimalPattern = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+$`)
	turtleDoublePattern  = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)[eE][+-]?[0-9]+$`)
)

// turtleWriter collects triples and writes them grouped by subject on Close.
type turtleWriter struct {
	out      io.Writer
	opts     Options
	prefixes map[string]string
	groups   *subjectGroups
	closed   bool
	err      error
}

func newTurtleWriter(w io.Writer, opts Options) Writer {
	return &turtleWriter{
		out:      w,
		opts:     opts,
		prefixes: mergePrefixes(opts.Prefixes),
		groups:   newSubjectGroups(),
	}
}

func (e *turtleWriter) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("turtle: writer closed")
	}
	if t.S == nil || t.P.Value == "" || t.O == nil {
		return fmt.Errorf("%w: turtle: missing statement fields", ErrEncode)
	}
	if _, ok := t.S.(Literal); ok {
		return fmt.Errorf("%w: turtle: literal subject", ErrEncode)
	}
	e.groups.add(t)
	return nil
}

// Flush is a no-op; output is produced on Close.
func (e *turtleWriter) Flush() error { return e.err }

func (e *turtleWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	var body strings.Builder
	used := map[string]bool{}
	for _, group := range e.groups.ordered() {
		e.writeSubject(&body, group, used)
	}

	w := bufio.NewWriter(e.out)
	if e.opts.BaseIRI != "" {
		fmt.Fprintf(w, "@base <%s> .\n", e.opts.BaseIRI)
	}
	wrotePrefix := false
	for _, prefix := range sortedPrefixKeys(e.prefixes) {
		if !used[prefix] {
			continue
		}
		fmt.Fprintf(w, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
		wrotePrefix = true
	}
	if (wrotePrefix || e.opts.BaseIRI != "") && body.Len() > 0 {
		w.WriteString("\n")
	}
	w.WriteString(body.String())
	if err := w.Flush(); err != nil {
		e.err = err
	}
	return e.err
}

func (e *turtleWriter) writeSubject(b *strings.Builder, group *subjectGroup, used map[string]bool) {
	b.WriteString(e.term(group.subject, used))
	for i, predicate := range group.predicates {
		if i == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(" ;\n    ")
		}
		if predicate.Value == rdfTypeIRI {
			b.WriteString("a")
		} else {
			b.WriteString(e.iri(predicate, used))
		}
		for j, object := range group.objects[predicate.Value] {
			if j == 0 {
				b.WriteString(" ")
			} else {
				b.WriteString(", ")
			}
			b.WriteString(e.term(object, used))
		}
	}
	b.WriteString(" .\n\n")
}

func (e *turtleWriter) iri(iri IRI, used map[string]bool) string {
	if qname, prefix, ok := abbreviateQName(iri.Value, e.prefixes); ok {
		used[prefix] = true
		return qname
	}
	return renderIRI(iri)
}

func (e *turtleWriter) term(term Term, used map[string]bool) string {
	switch value := term.(type) {
	case IRI:
		return e.iri(value, used)
	case BlankNode:
		return value.String()
	case Literal:
		return e.literal(normalizeLiteral(value), used)
	default:
		return ""
	}
}

func (e *turtleWriter) literal(lit Literal, used map[string]bool) string {
	quoted := `"` + escapeNTriplesString(lit.Lexical) + `"`
	if lit.Lang != "" {
		return quoted + "@" + lit.Lang
	}
	switch lit.Datatype.Value {
	case XSDString:
		return quoted
	case XSDBoolean:
		if lit.Lexical == "true" || lit.Lexical == "false" {
			return lit.Lexical
		}
	case XSDInteger:
		if turtleIntegerPattern.MatchString(lit.Lexical) {
			return lit.Lexical
		}
	case XSDDecimal:
		if turtleDecimalPattern.MatchString(lit.Lexical) {
			return lit.Lexical
		}
	case XSDDouble:
		if turtleDoublePattern.MatchString(lit.Lexical) {
			return lit.Lexical
		}
	}
	return quoted + "^^" + e.iri(lit.Datatype, used)
}

// subjectGroups keeps triples grouped by subject and predicate in first-seen order.
type subjectGroups struct {
	order []*subjectGroup
	index map[string]*subjectGroup
}

type subjectGroup struct {
	subject    Term
	predicates []IRI
	objects    map[string][]Term
}

func newSubjectGroups() *subjectGroups {
	return &subjectGroups{index: map[string]*subjectGroup{}}
}

func (s *subjectGroups) add(t Triple) {
	key := termKey(t.S)
	group, ok := s.index[key]
	if !ok {
		group = &subjectGroup{subject: t.S, objects: map[string][]Term{}}
		s.index[key] = group
		s.order = append(s.order, group)
	}
	if _, seen := group.objects[t.P.Value]; !seen {
		group.predicates = append(group.predicates, t.P)
	}
	group.objects[t.P.Value] = append(group.objects[t.P.Value], t.O)
}

func (s *subjectGroups) ordered() []*subjectGroup {
	return s.order
}
