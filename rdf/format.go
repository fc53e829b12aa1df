package rdf

import "strings"

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
)

// Media types understood by the codec layer. Matching is case-sensitive.
const (
	MediaTypeTurtle   = "text/turtle"
	MediaTypeJSONLD   = "application/ld+json"
	MediaTypeRDFXML   = "application/rdf+xml"
	MediaTypeNTriples = "application/n-triples"
)

// ParseFormat normalizes a format name such as "ttl" or "json-ld".
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "ntriples", "nt", "n-triples":
		return FormatNTriples, true
	case "rdfxml", "rdf", "xml", "rdf/xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// FormatForMediaType maps a media type onto a format. Unknown or empty media
// types select Turtle.
func FormatForMediaType(mediaType string) Format {
	switch mediaType {
	case MediaTypeJSONLD:
		return FormatJSONLD
	case MediaTypeRDFXML:
		return FormatRDFXML
	case MediaTypeNTriples:
		return FormatNTriples
	default:
		return FormatTurtle
	}
}

// MediaType returns the media type for the format.
func (f Format) MediaType() string {
	switch f {
	case FormatJSONLD:
		return MediaTypeJSONLD
	case FormatRDFXML:
		return MediaTypeRDFXML
	case FormatNTriples:
		return MediaTypeNTriples
	default:
		return MediaTypeTurtle
	}
}

// FileExtension returns the conventional file extension, including the dot.
func (f Format) FileExtension() string {
	switch f {
	case FormatJSONLD:
		return ".jsonld"
	case FormatRDFXML:
		return ".rdf"
	case FormatNTriples:
		return ".nt"
	default:
		return ".ttl"
	}
}

// FormatForFileName guesses a format from a file extension.
func FormatForFileName(name string) (Format, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 {
		return "", false
	}
	switch strings.ToLower(name[idx:]) {
	case ".ttl":
		return FormatTurtle, true
	case ".nt":
		return FormatNTriples, true
	case ".rdf", ".owl", ".xml":
		return FormatRDFXML, true
	case ".jsonld", ".json":
		return FormatJSONLD, true
	default:
		return "", false
	}
}
