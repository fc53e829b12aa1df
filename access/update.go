package access

import (
	"net/url"
	"strconv"
	"time"

	"github.com/geoknoesis/rdf-access/rdf"
)

// UpdateObject replaces every value of the property with object.
func (r *Resource) UpdateObject(property rdf.IRI, object rdf.Term) *Resource {
	r.checkProperty(property)
	checkObject(object)
	r.graph.RemoveMatching(r.subject, property)
	r.graph.Add(rdf.Triple{S: r.subject, P: property, O: object})
	return r
}

// UpdateString replaces the property with an xsd:string literal.
func (r *Resource) UpdateString(property rdf.IRI, value string) *Resource {
	return r.UpdateObject(property, rdf.NewLiteral(value, rdf.XSDString))
}

// UpdateURI replaces the property with a link to uri.
func (r *Resource) UpdateURI(property rdf.IRI, uri *url.URL) *Resource {
	return r.UpdateObject(property, uriTerm(uri))
}

// UpdateDateTime replaces the property with an xsd:dateTime literal.
func (r *Resource) UpdateDateTime(property rdf.IRI, value time.Time) *Resource {
	return r.UpdateObject(property, rdf.NewLiteral(value.Format(time.RFC3339Nano), rdf.XSDDateTime))
}

// UpdateInteger replaces the property with an xsd:integer literal.
func (r *Resource) UpdateInteger(property rdf.IRI, value int64) *Resource {
	return r.UpdateObject(property, rdf.NewLiteral(strconv.FormatInt(value, 10), rdf.XSDInteger))
}

// UpdateBoolean replaces the property with an xsd:boolean literal.
func (r *Resource) UpdateBoolean(property rdf.IRI, value bool) *Resource {
	return r.UpdateObject(property, rdf.NewLiteral(strconv.FormatBool(value), rdf.XSDBoolean))
}

// UpdateObjects replaces every value of the property with objects.
// Duplicates collapse; a nil or empty slice clears the property.
func (r *Resource) UpdateObjects(property rdf.IRI, objects []rdf.Term) *Resource {
	r.checkProperty(property)
	for _, object := range objects {
		checkObject(object)
	}
	r.graph.RemoveMatching(r.subject, property)
	for _, object := range objects {
		r.graph.Add(rdf.Triple{S: r.subject, P: property, O: object})
	}
	return r
}

// UpdateURIObjects replaces the property with links to every uri.
func (r *Resource) UpdateURIObjects(property rdf.IRI, uris []*url.URL) *Resource {
	objects := make([]rdf.Term, len(uris))
	for i, uri := range uris {
		objects[i] = uriTerm(uri)
	}
	return r.UpdateObjects(property, objects)
}

// UpdateStringObjects replaces the property with one xsd:string literal per value.
func (r *Resource) UpdateStringObjects(property rdf.IRI, values []string) *Resource {
	objects := make([]rdf.Term, len(values))
	for i, value := range values {
		objects[i] = rdf.NewLiteral(value, rdf.XSDString)
	}
	return r.UpdateObjects(property, objects)
}

func uriTerm(uri *url.URL) rdf.Term {
	if uri == nil {
		panic("access: nil URI")
	}
	return rdf.IRI{Value: uri.String()}
}

func checkObject(object rdf.Term) {
	switch value := object.(type) {
	case nil:
		panic("access: nil object")
	case rdf.IRI:
		if value.Value == "" {
			panic("access: empty object IRI")
		}
	}
}
