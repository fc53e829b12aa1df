package rdf

import "testing"

func TestTermKindsAndStrings(t *testing.T) {
	cases := []struct {
		term Term
		kind TermKind
		str  string
	}{
		{IRI{Value: "http://example.org/s"}, TermIRI, "http://example.org/s"},
		{BlankNode{ID: "b1"}, TermBlankNode, "_:b1"},
		{NewLiteral("v", XSDString), TermLiteral, `"v"`},
		{NewLiteral("1", XSDInteger), TermLiteral, `"1"^^<` + XSDInteger + `>`},
		{NewLangLiteral("chat", "fr"), TermLiteral, `"chat"@fr`},
	}
	for _, tc := range cases {
		if tc.term.Kind() != tc.kind {
			t.Fatalf("%v: expected kind %v, got %v", tc.term, tc.kind, tc.term.Kind())
		}
		if tc.term.String() != tc.str {
			t.Fatalf("expected %q, got %q", tc.str, tc.term.String())
		}
	}
	if TermKind(9).String() != "TermKind(9)" {
		t.Fatalf("unexpected unknown kind string %q", TermKind(9).String())
	}
}

func TestTripleStringAndIsZero(t *testing.T) {
	if !(Triple{}).IsZero() {
		t.Fatal("expected zero triple")
	}
	triple := Triple{S: iri("http://example.org/s"), P: iri("http://example.org/p"), O: Literal{Lexical: "a\"b"}}
	if triple.IsZero() {
		t.Fatal("expected non-zero triple")
	}
	want := `<http://example.org/s> <http://example.org/p> "a\"b"`
	if triple.String() != want {
		t.Fatalf("expected %q, got %q", want, triple.String())
	}
}

func TestNormalizeLiteral(t *testing.T) {
	if got := normalizeLiteral(Literal{Lexical: "x"}); got.Datatype.Value != XSDString {
		t.Fatalf("expected xsd:string, got %q", got.Datatype.Value)
	}
	if got := normalizeLiteral(Literal{Lexical: "x", Lang: "en"}); got.Datatype.Value != RDFLangString {
		t.Fatalf("expected rdf:langString, got %q", got.Datatype.Value)
	}
	if got := normalizeTerm(iri("http://example.org/x")); got != iri("http://example.org/x") {
		t.Fatalf("expected IRI unchanged, got %v", got)
	}
}
