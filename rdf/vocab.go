package rdf

// Namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	XMLNamespace  = "http://www.w3.org/XML/1998/namespace"
)

// Datatype IRIs used by typed access.
const (
	XSDString   = XSDNamespace + "string"
	XSDInteger  = XSDNamespace + "integer"
	XSDDecimal  = XSDNamespace + "decimal"
	XSDDouble   = XSDNamespace + "double"
	XSDBoolean  = XSDNamespace + "boolean"
	XSDDateTime = XSDNamespace + "dateTime"

	RDFLangString = RDFNamespace + "langString"
	RDFXMLLiteral = RDFNamespace + "XMLLiteral"
)

// Frequently used RDF vocabulary.
const (
	rdfTypeIRI  = RDFNamespace + "type"
	rdfFirstIRI = RDFNamespace + "first"
	rdfRestIRI  = RDFNamespace + "rest"
	rdfNilIRI   = RDFNamespace + "nil"
)

// RDFType is the rdf:type predicate.
var RDFType = IRI{Value: rdfTypeIRI}

// defaultPrefixes are offered to encoders that abbreviate IRIs.
var defaultPrefixes = map[string]string{
	"rdf":  RDFNamespace,
	"rdfs": RDFSNamespace,
	"xsd":  XSDNamespace,
}
