package rdf

import (
	"context"
	"io"
	"strings"
	"testing"
)

func readTriples(t *testing.T, input string, format Format, opts ...Option) []Triple {
	t.Helper()
	reader, err := NewReader(strings.NewReader(input), format, opts...)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	defer reader.Close()
	var triples []Triple
	for {
		triple, err := reader.Next()
		if err == io.EOF {
			return triples
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		triples = append(triples, triple)
	}
}

func readGraph(t *testing.T, input string, format Format, opts ...Option) *Graph {
	t.Helper()
	graph, err := ReadGraph(context.Background(), strings.NewReader(input), format, opts...)
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	return graph
}

func decodeErr(input string, format Format, opts ...Option) error {
	return Parse(context.Background(), strings.NewReader(input), format, func(Triple) error { return nil }, opts...)
}

func iri(value string) IRI { return IRI{Value: value} }
