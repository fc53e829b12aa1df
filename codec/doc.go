// Package codec converts graphs to and from Turtle, JSON-LD, RDF/XML and
// N-Triples, selected by media type.
//
// Every decode takes an explicit base URI used to resolve relative IRIs.
// Unknown or empty media types select Turtle:
//
//	graph, err := codec.Decode(base, body, "text/turtle")
//	out, err := codec.EncodeJSONLD(ctx, graph, codec.MustBuildRemoteContextDocument(ctxURL))
//
// JSON-LD output is produced by lifting the graph's quads with the
// RDF-to-JSON-LD algorithm and, when a context document is given, compacting
// the result against it. Compaction never shortens IRIs into relative ones.
//
// Failures are reported as *DecodeError, *EncodeError or errors matching
// rdf.ErrConfig; all of them work with rdf.Code.
package codec
