package rdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const turtleFixture = `@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
# a comment
ex:alice a ex:Person ;
    ex:name "Alice" , "Alicia"@es ;
    ex:age 42 ;
    ex:height 1.68 ;
    ex:score 1e3 ;
    ex:active true ;
    ex:born "1990-01-02T03:04:05Z"^^xsd:dateTime ;
    ex:knows [ ex:name "Bob" ] ;
    ex:tags ( "a" "b" ) .
`

func TestTurtleDecodeFixture(t *testing.T) {
	g := readGraph(t, turtleFixture, FormatTurtle)
	alice := iri("http://example.org/alice")
	expect := map[string]Term{
		"http://example.org/age":    NewLiteral("42", XSDInteger),
		"http://example.org/height": NewLiteral("1.68", XSDDecimal),
		"http://example.org/score":  NewLiteral("1e3", XSDDouble),
		"http://example.org/active": NewLiteral("true", XSDBoolean),
		"http://example.org/born":   NewLiteral("1990-01-02T03:04:05Z", XSDDateTime),
	}
	for predicate, object := range expect {
		if !g.Contains(Triple{S: alice, P: iri(predicate), O: object}) {
			t.Fatalf("missing %s %v", predicate, object)
		}
	}
	if !g.Contains(Triple{S: alice, P: RDFType, O: iri("http://example.org/Person")}) {
		t.Fatal("missing rdf:type from 'a'")
	}
	if names := g.Match(alice, iri("http://example.org/name")); len(names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(names))
	}
	knows := g.Match(alice, iri("http://example.org/knows"))
	if len(knows) != 1 || knows[0].O.Kind() != TermBlankNode {
		t.Fatalf("expected blank node for ex:knows, got %v", knows)
	}
	if len(g.Match(knows[0].O, iri("http://example.org/name"))) != 1 {
		t.Fatal("expected nested property list triple")
	}
	tags := g.Match(alice, iri("http://example.org/tags"))
	if len(tags) != 1 {
		t.Fatalf("expected collection head, got %v", tags)
	}
	first := g.Match(tags[0].O, iri(RDFNamespace+"first"))
	if len(first) != 1 || first[0].O != NewLiteral("a", XSDString) {
		t.Fatalf("unexpected rdf:first %v", first)
	}
}

func TestTurtleBaseAndSparqlDirectives(t *testing.T) {
	input := `BASE <http://example.org/dir/>
PREFIX ex: <http://example.org/ns#>
<item> ex:link <../other> , <#frag> .
@base <http://other.example/> .
<x> ex:p _:b1 .
_:b1 ex:p () .
`
	triples := readTriples(t, input, FormatTurtle)
	want := []Triple{
		{S: iri("http://example.org/dir/item"), P: iri("http://example.org/ns#link"), O: iri("http://example.org/other")},
		{S: iri("http://example.org/dir/item"), P: iri("http://example.org/ns#link"), O: iri("http://example.org/dir/#frag")},
		{S: iri("http://other.example/x"), P: iri("http://example.org/ns#p"), O: BlankNode{ID: "b1"}},
		{S: BlankNode{ID: "b1"}, P: iri("http://example.org/ns#p"), O: iri(RDFNamespace + "nil")},
	}
	if len(triples) != len(want) {
		t.Fatalf("expected %d triples, got %d: %v", len(want), len(triples), triples)
	}
	for i := range want {
		if triples[i] != want[i] {
			t.Fatalf("triple %d: expected %v, got %v", i, want[i], triples[i])
		}
	}
}

func TestTurtleBaseOption(t *testing.T) {
	triples := readTriples(t, `<s> <p> <o> .`, FormatTurtle, OptBaseIRI("http://example.org/"))
	if len(triples) != 1 || triples[0].S != iri("http://example.org/s") {
		t.Fatalf("expected resolved subject, got %v", triples)
	}
}

func TestTurtleStrings(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s ex:p """multi
line "quoted" text""" , 'single' , '''long single''' , "esc\té" .
`
	triples := readTriples(t, input, FormatTurtle)
	got := make([]string, len(triples))
	for i, triple := range triples {
		got[i] = triple.O.(Literal).Lexical
	}
	want := []string{"multi\nline \"quoted\" text", "single", "long single", "esc\té"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTurtleDecodeErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"undefined prefix", "ex:s ex:p ex:o .", 1, 1},
		{"missing dot", "@prefix ex: <http://example.org/> .\nex:s ex:p ex:o", 2, 15},
		{"literal subject", `"s" <http://example.org/p> <http://example.org/o> .`, 1, 1},
		{"unterminated string", "<http://example.org/s> <http://example.org/p> \"abc .", 1, 47},
		{"unterminated iri", "<http://example.org/s> <http://example.org/p> <http://example.org/o", 1, 47},
		{"bad language", "<http://example.org/s> <http://example.org/p> \"v\"@-x .", 1, 51},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := decodeErr(tc.input, FormatTurtle)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}
			if parseErr.Line != tc.line || parseErr.Column != tc.column {
				t.Fatalf("expected %d:%d, got %d:%d (%v)", tc.line, tc.column, parseErr.Line, parseErr.Column, err)
			}
			if Code(err) != ErrCodeDecode {
				t.Fatalf("expected DECODE_ERROR, got %s", Code(err))
			}
		})
	}
}

func TestTurtleEncodeGroupsAndAbbreviates(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatTurtle, OptPrefixes(map[string]string{"ex": "http://example.org/"}))
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	alice := iri("http://example.org/alice")
	for _, triple := range []Triple{
		{S: alice, P: RDFType, O: iri("http://example.org/Person")},
		{S: alice, P: iri("http://example.org/name"), O: NewLiteral("Alice", XSDString)},
		{S: alice, P: iri("http://example.org/name"), O: NewLangLiteral("Alicia", "es")},
		{S: alice, P: iri("http://example.org/age"), O: NewLiteral("42", XSDInteger)},
		{S: alice, P: iri("http://example.org/born"), O: NewLiteral("1990-01-02", XSDNamespace+"date")},
		{S: BlankNode{ID: "b"}, P: iri("http://other.example/p"), O: NewLiteral("true", XSDBoolean)},
	} {
		if err := w.Write(triple); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	want := `@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:alice a ex:Person ;
    ex:name "Alice", "Alicia"@es ;
    ex:age 42 ;
    ex:born "1990-01-02"^^xsd:date .

_:b <http://other.example/p> true .

`
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTurtleEncodeRejectsLiteralSubject(t *testing.T) {
	w, _ := NewWriter(&bytes.Buffer{}, FormatTurtle)
	err := w.Write(Triple{S: NewLiteral("x", XSDString), P: iri("http://example.org/p"), O: iri("http://example.org/o")})
	if !errors.Is(err, ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
}

func TestTurtleEncodeEmptyGraph(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGraph(&buf, NewGraph(), FormatTurtle); err != nil {
		t.Fatalf("write graph: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output, got %q", buf.String())
	}
}
