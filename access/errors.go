package access

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geoknoesis/rdf-access/rdf"
)

// PropertyError reports a property that is missing where it is required or
// whose value has the wrong term kind or datatype.
type PropertyError struct {
	Subject  rdf.Term
	Property rdf.IRI
	Expected string   // e.g. "xsd:integer" or "URI"
	Object   rdf.Term // offending object; nil when the property is absent
	Kind     error    // rdf.ErrNotFound or rdf.ErrTypeMismatch
	Err      error    // underlying cause, if any
}

func (e *PropertyError) Error() string {
	var msg strings.Builder
	msg.WriteString("access: ")
	if errors.Is(e.Kind, rdf.ErrNotFound) {
		fmt.Fprintf(&msg, "no %s value for property <%s> of %s", e.Expected, e.Property.Value, termLabel(e.Subject))
	} else {
		fmt.Fprintf(&msg, "property <%s> of %s: expected %s, found %s",
			e.Property.Value, termLabel(e.Subject), e.Expected, termLabel(e.Object))
	}
	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}
	return msg.String()
}

// Unwrap exposes the error kind and the cause.
func (e *PropertyError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func (r *Resource) notFound(property rdf.IRI, expected string) error {
	return &PropertyError{Subject: r.subject, Property: property, Expected: expected, Kind: rdf.ErrNotFound}
}

func (r *Resource) mismatch(property rdf.IRI, expected string, object rdf.Term, cause error) error {
	if cause == errWrongTerm {
		cause = nil
	}
	return &PropertyError{Subject: r.subject, Property: property, Expected: expected, Object: object, Kind: rdf.ErrTypeMismatch, Err: cause}
}

func termLabel(term rdf.Term) string {
	switch value := term.(type) {
	case nil:
		return "nothing"
	case rdf.IRI:
		return "<" + value.Value + ">"
	case rdf.Literal:
		return "literal " + value.String()
	default:
		return term.String()
	}
}
