// Package rdf provides a compact RDF triple model, an in-memory graph and
// streaming parsers/encoders for Turtle, N-Triples, RDF/XML and JSON-LD.
//
//   - Decode: NewReader() returns a pull-style reader, Parse() pushes
//     triples to a handler and ReadGraph() collects them into a Graph.
//   - Encode: NewWriter() returns a push-style writer and WriteGraph()
//     serializes a whole graph.
//
// Example (decoding into a graph):
//
//	g, err := rdf.ReadGraph(ctx, strings.NewReader(input), rdf.FormatTurtle)
//	if err != nil {
//	    // handle error
//	}
//	for _, t := range g.Match(rdf.IRI{Value: "http://example.org/s"}, rdf.RDFType) {
//	    fmt.Println(t.O)
//	}
//
// Example (encoding):
//
//	err := rdf.WriteGraph(os.Stdout, g, rdf.FormatJSONLD, rdf.OptPretty())
//
// Errors carry a programmatic code (see Code). Parse failures are reported
// as *ParseError with line and column where the format allows it, and all
// of them match ErrDecode with errors.Is.
//
// Limits for untrusted input (MaxLineBytes, MaxInputBytes, MaxTriples) are
// set through Options; OptSafeLimits applies conservative values.
package rdf
