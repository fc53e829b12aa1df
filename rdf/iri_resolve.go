package rdf

import (
	"net/url"
	"strings"
)

// ResolveIRI resolves a relative reference against a base IRI (RFC 3986).
// When either side does not parse, the reference is appended to the base's
// directory instead.
func ResolveIRI(base, relative string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return joinBaseDirectory(base, relative)
	}
	relURL, err := url.Parse(relative)
	if err != nil {
		return joinBaseDirectory(base, relative)
	}
	if relURL.Scheme != "" {
		return relative
	}
	// The base fragment is never inherited, not even by "<>".
	baseURL.Fragment, baseURL.RawFragment = "", ""
	resolved := baseURL.ResolveReference(relURL).String()
	// ResolveReference drops an empty fragment ("#"), which RDF keeps.
	if strings.HasSuffix(relative, "#") && !strings.HasSuffix(resolved, "#") {
		resolved += "#"
	}
	return resolved
}

func joinBaseDirectory(base, relative string) string {
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		return base[:idx+1] + relative
	}
	return base + "/" + relative
}
