package access

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/geoknoesis/rdf-access/rdf"
)

const (
	expectString   = "xsd:string"
	expectInteger  = "xsd:integer"
	expectDateTime = "xsd:dateTime"
	expectBoolean  = "xsd:boolean"
	expectURI      = "URI"
)

// NodeToURI converts an IRI term into an absolute URL. Literals, blank
// nodes and IRIs that are not valid absolute URIs fail with
// rdf.ErrTypeMismatch.
func NodeToURI(term rdf.Term) (*url.URL, error) {
	iri, ok := term.(rdf.IRI)
	if !ok {
		if term == nil {
			return nil, fmt.Errorf("%w: no term", rdf.ErrTypeMismatch)
		}
		return nil, fmt.Errorf("%w: %s is not an IRI", rdf.ErrTypeMismatch, term.Kind())
	}
	u, err := rdf.ParseIRI(iri.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", rdf.ErrTypeMismatch, err)
	}
	return u, nil
}

var errWrongTerm = errors.New("wrong term kind or datatype")

// literalOf returns the literal if it carries exactly the datatype.
func literalOf(term rdf.Term, datatype string) (rdf.Literal, bool) {
	lit, ok := term.(rdf.Literal)
	if !ok || lit.Lang != "" || lit.Datatype.Value != datatype {
		return rdf.Literal{}, false
	}
	return lit, true
}

func parseInteger(lexical string) (int64, error) {
	return strconv.ParseInt(lexical, 10, 64)
}

func parseDateTime(lexical string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, lexical)
}

func parseBoolean(lexical string) (bool, error) {
	switch lexical {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", lexical)
	}
}

// typedObject reads the single object of property and converts it.
// Absence is (zero, false, nil).
func typedObject[T any](r *Resource, property rdf.IRI, expected string, convert func(rdf.Term) (T, error)) (T, bool, error) {
	var zero T
	object, ok := r.Object(property)
	if !ok {
		return zero, false, nil
	}
	value, err := convert(object)
	if err != nil {
		return zero, true, r.mismatch(property, expected, object, err)
	}
	return value, true, nil
}

func requiredTypedObject[T any](r *Resource, property rdf.IRI, expected string, convert func(rdf.Term) (T, error)) (T, error) {
	value, ok, err := typedObject(r, property, expected, convert)
	if err != nil {
		return value, err
	}
	if !ok {
		return value, r.notFound(property, expected)
	}
	return value, nil
}

// typedObjects converts every object and stops at the first mismatch.
func typedObjects[T any](r *Resource, property rdf.IRI, expected string, convert func(rdf.Term) (T, error)) ([]T, error) {
	objects := r.Objects(property)
	values := make([]T, 0, len(objects))
	for _, object := range objects {
		value, err := convert(object)
		if err != nil {
			return nil, r.mismatch(property, expected, object, err)
		}
		values = append(values, value)
	}
	return values, nil
}

var (
	toURI     = NodeToURI
	toString  = literalConverter(rdf.XSDString, func(s string) (string, error) { return s, nil })
	toInteger = literalConverter(rdf.XSDInteger, parseInteger)
	toTime    = literalConverter(rdf.XSDDateTime, parseDateTime)
	toBoolean = literalConverter(rdf.XSDBoolean, parseBoolean)
)

// literalConverter rejects every term that is not a literal of exactly the
// datatype before parsing its lexical form.
func literalConverter[T any](datatype string, parse func(string) (T, error)) func(rdf.Term) (T, error) {
	return func(term rdf.Term) (T, error) {
		lit, ok := literalOf(term, datatype)
		if !ok {
			var zero T
			return zero, errWrongTerm
		}
		return parse(lit.Lexical)
	}
}

// URIObject reads the property as an absolute URI.
func (r *Resource) URIObject(property rdf.IRI) (*url.URL, bool, error) {
	return typedObject(r, property, expectURI, toURI)
}

// RequiredURIObject is URIObject but fails with rdf.ErrNotFound.
func (r *Resource) RequiredURIObject(property rdf.IRI) (*url.URL, error) {
	return requiredTypedObject(r, property, expectURI, toURI)
}

// StringObject reads an xsd:string literal.
func (r *Resource) StringObject(property rdf.IRI) (string, bool, error) {
	return typedObject(r, property, expectString, toString)
}

// RequiredStringObject is StringObject but fails with rdf.ErrNotFound.
func (r *Resource) RequiredStringObject(property rdf.IRI) (string, error) {
	return requiredTypedObject(r, property, expectString, toString)
}

// IntegerObject reads an xsd:integer literal.
func (r *Resource) IntegerObject(property rdf.IRI) (int64, bool, error) {
	return typedObject(r, property, expectInteger, toInteger)
}

// RequiredIntegerObject is IntegerObject but fails with rdf.ErrNotFound.
func (r *Resource) RequiredIntegerObject(property rdf.IRI) (int64, error) {
	return requiredTypedObject(r, property, expectInteger, toInteger)
}

// DateTimeObject reads an xsd:dateTime literal. The lexical form must be
// RFC 3339, including the offset.
func (r *Resource) DateTimeObject(property rdf.IRI) (time.Time, bool, error) {
	return typedObject(r, property, expectDateTime, toTime)
}

// RequiredDateTimeObject is DateTimeObject but fails with rdf.ErrNotFound.
func (r *Resource) RequiredDateTimeObject(property rdf.IRI) (time.Time, error) {
	return requiredTypedObject(r, property, expectDateTime, toTime)
}

// BooleanObject reads an xsd:boolean literal.
func (r *Resource) BooleanObject(property rdf.IRI) (bool, bool, error) {
	return typedObject(r, property, expectBoolean, toBoolean)
}

// RequiredBooleanObject is BooleanObject but fails with rdf.ErrNotFound.
func (r *Resource) RequiredBooleanObject(property rdf.IRI) (bool, error) {
	return requiredTypedObject(r, property, expectBoolean, toBoolean)
}

// URIObjects reads every object of the property as a URI.
func (r *Resource) URIObjects(property rdf.IRI) ([]*url.URL, error) {
	return typedObjects(r, property, expectURI, toURI)
}

// RequiredURIObjects is URIObjects but fails with rdf.ErrNotFound when empty.
func (r *Resource) RequiredURIObjects(property rdf.IRI) ([]*url.URL, error) {
	values, err := r.URIObjects(property)
	if err == nil && len(values) == 0 {
		return nil, r.notFound(property, expectURI)
	}
	return values, err
}

// StringObjects reads every object of the property as an xsd:string.
func (r *Resource) StringObjects(property rdf.IRI) ([]string, error) {
	return typedObjects(r, property, expectString, toString)
}

// RequiredStringObjects is StringObjects but fails with rdf.ErrNotFound when empty.
func (r *Resource) RequiredStringObjects(property rdf.IRI) ([]string, error) {
	values, err := r.StringObjects(property)
	if err == nil && len(values) == 0 {
		return nil, r.notFound(property, expectString)
	}
	return values, err
}
