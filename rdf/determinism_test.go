package rdf

import (
	"bytes"
	"testing"
)

func TestEncodersAreDeterministic(t *testing.T) {
	source := readGraph(t, turtleFixture, FormatTurtle)
	prefixes := map[string]string{"ex": "http://example.org/", "foaf": "http://xmlns.com/foaf/0.1/", "a": "http://a.example/"}
	for _, format := range []Format{FormatTurtle, FormatNTriples, FormatRDFXML, FormatJSONLD} {
		t.Run(string(format), func(t *testing.T) {
			var first string
			for i := 0; i < 10; i++ {
				var buf bytes.Buffer
				if err := WriteGraph(&buf, source, format, OptPrefixes(prefixes)); err != nil {
					t.Fatalf("write: %v", err)
				}
				if i == 0 {
					first = buf.String()
					continue
				}
				if buf.String() != first {
					t.Fatalf("output changed between runs:\n%s\n---\n%s", first, buf.String())
				}
			}
		})
	}
}

func TestStatementOrderingPreserved(t *testing.T) {
	input := `<http://example.org/c> <http://example.org/p> "3" .
<http://example.org/a> <http://example.org/p> "1" .
<http://example.org/b> <http://example.org/p> "2" .
`
	g := readGraph(t, input, FormatNTriples)
	var buf bytes.Buffer
	if err := WriteGraph(&buf, g, FormatNTriples); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != input {
		t.Fatalf("expected insertion order to be preserved, got:\n%s", buf.String())
	}
}

func TestPrefixTieBreak(t *testing.T) {
	prefixes := map[string]string{"zz": "http://example.org/", "aa": "http://example.org/"}
	qname, prefix, ok := abbreviateQName("http://example.org/x", prefixes)
	if !ok || qname != "aa:x" || prefix != "aa" {
		t.Fatalf("expected alphabetical tie break, got %q %q %v", qname, prefix, ok)
	}
	qname, _, _ = abbreviateQName("http://example.org/ns#x", map[string]string{"ex": "http://example.org/", "ns": "http://example.org/ns#"})
	if qname != "ns:x" {
		t.Fatalf("expected longest namespace to win, got %q", qname)
	}
}
