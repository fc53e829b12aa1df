package rdf

import (
	"fmt"
	"net/url"
)

// ValidateIRI checks that iri is an absolute IRI: it must carry a scheme
// starting with a letter, parse as a URI reference, and contain no
// characters that must be percent-encoded.
func ValidateIRI(iri string) error {
	if iri == "" {
		return fmt.Errorf("empty IRI")
	}
	for i, r := range iri {
		if r < 0x20 || r == 0x7F {
			return fmt.Errorf("invalid control character at position %d in IRI %q", i, iri)
		}
		switch r {
		case ' ', '<', '>', '"', '{', '}', '|', '\\', '^', '`':
			return fmt.Errorf("invalid character %q at position %d in IRI %q", r, i, iri)
		}
	}
	if !isAbsoluteIRI(iri) {
		return fmt.Errorf("IRI %q is not absolute", iri)
	}
	if _, err := url.Parse(iri); err != nil {
		return fmt.Errorf("invalid IRI syntax: %w", err)
	}
	return nil
}

// ParseIRI validates iri and returns it as a URL.
func ParseIRI(iri string) (*url.URL, error) {
	if err := ValidateIRI(iri); err != nil {
		return nil, err
	}
	return url.Parse(iri)
}
