package access

import (
	"fmt"
	"net/url"

	"github.com/geoknoesis/rdf-access/rdf"
)

// Resource is a node of a graph seen as a record of properties.
// It is a view; all state lives in the graph.
type Resource struct {
	graph   *rdf.Graph
	subject rdf.Term
}

// Of wraps an existing subject term. Literal subjects are rejected.
func Of(graph *rdf.Graph, subject rdf.Term) *Resource {
	if graph == nil {
		panic("access: nil graph")
	}
	switch subject.(type) {
	case rdf.IRI, rdf.BlankNode:
	case nil:
		panic("access: nil subject")
	default:
		panic(fmt.Sprintf("access: %s cannot be a subject", subject.Kind()))
	}
	return &Resource{graph: graph, subject: subject}
}

// GetResource returns the resource named by uri in graph. The resource
// need not have any triples yet.
func GetResource(graph *rdf.Graph, uri *url.URL) *Resource {
	if uri == nil {
		panic("access: nil URI")
	}
	return Of(graph, rdf.IRI{Value: uri.String()})
}

// NewResource returns the resource named by uri, creating a new graph when
// graph is nil.
func NewResource(graph *rdf.Graph, uri *url.URL) *Resource {
	if graph == nil {
		graph = rdf.NewGraph()
	}
	return GetResource(graph, uri)
}

// NewResourceForType is NewResource followed by adding an rdf:type triple.
func NewResourceForType(graph *rdf.Graph, uri *url.URL, typ rdf.IRI) *Resource {
	if typ.Value == "" {
		panic("access: empty type IRI")
	}
	r := NewResource(graph, uri)
	r.graph.Add(rdf.Triple{S: r.subject, P: rdf.RDFType, O: typ})
	return r
}

// Graph returns the graph the resource reads from and writes to.
func (r *Resource) Graph() *rdf.Graph { return r.graph }

// Subject returns the node the resource wraps.
func (r *Resource) Subject() rdf.Term { return r.subject }

// URI returns the subject as an absolute URL. Blank node subjects fail
// with rdf.ErrTypeMismatch.
func (r *Resource) URI() (*url.URL, error) { return NodeToURI(r.subject) }

// Properties lists the distinct predicates used by the resource, in the
// order the graph returns them.
func (r *Resource) Properties() []rdf.IRI {
	seen := map[string]bool{}
	var properties []rdf.IRI
	for _, t := range r.graph.Triples() {
		if !sameTerm(t.S, r.subject) || seen[t.P.Value] {
			continue
		}
		seen[t.P.Value] = true
		properties = append(properties, t.P)
	}
	return properties
}

// Statement returns a triple for the property. With several matches the
// one returned is unspecified; use Objects to see all of them.
func (r *Resource) Statement(property rdf.IRI) (rdf.Triple, bool) {
	r.checkProperty(property)
	matches := r.graph.Match(r.subject, property)
	if len(matches) == 0 {
		return rdf.Triple{}, false
	}
	return matches[0], true
}

// RequiredStatement is Statement but fails with rdf.ErrNotFound.
func (r *Resource) RequiredStatement(property rdf.IRI) (rdf.Triple, error) {
	t, ok := r.Statement(property)
	if !ok {
		return rdf.Triple{}, r.notFound(property, "statement")
	}
	return t, nil
}

// Object returns the object of Statement.
func (r *Resource) Object(property rdf.IRI) (rdf.Term, bool) {
	t, ok := r.Statement(property)
	if !ok {
		return nil, false
	}
	return t.O, true
}

// RequiredObject is Object but fails with rdf.ErrNotFound.
func (r *Resource) RequiredObject(property rdf.IRI) (rdf.Term, error) {
	object, ok := r.Object(property)
	if !ok {
		return nil, r.notFound(property, "object")
	}
	return object, nil
}

// Objects returns every object of the property without type checks.
func (r *Resource) Objects(property rdf.IRI) []rdf.Term {
	r.checkProperty(property)
	matches := r.graph.Match(r.subject, property)
	objects := make([]rdf.Term, len(matches))
	for i, t := range matches {
		objects[i] = t.O
	}
	return objects
}

// RequiredObjects is Objects but fails with rdf.ErrNotFound when empty.
func (r *Resource) RequiredObjects(property rdf.IRI) ([]rdf.Term, error) {
	objects := r.Objects(property)
	if len(objects) == 0 {
		return nil, r.notFound(property, "object")
	}
	return objects, nil
}

func (r *Resource) checkProperty(property rdf.IRI) {
	if r == nil || r.graph == nil {
		panic("access: nil resource")
	}
	if property.Value == "" {
		panic("access: empty property IRI")
	}
}

func sameTerm(a, b rdf.Term) bool {
	switch x := a.(type) {
	case rdf.IRI:
		y, ok := b.(rdf.IRI)
		return ok && x == y
	case rdf.BlankNode:
		y, ok := b.(rdf.BlankNode)
		return ok && x == y
	}
	return false
}
