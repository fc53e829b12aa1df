// Package access provides typed reads and replace-style updates of the
// properties of a single node in an rdf.Graph.
//
// Readers come in an optional and a required form. The optional form
// reports absence with ok == false; the required form returns an error
// matching rdf.ErrNotFound. Both forms fail with an error matching
// rdf.ErrTypeMismatch when the stored term has the wrong kind or datatype:
//
//	project := access.GetResource(g, projectURI)
//	id, err := project.RequiredIntegerObject(idProperty)
//	name, ok, err := project.StringObject(nameProperty)
//
// Updates remove every triple for the (subject, property) pair before
// inserting the new values and return the resource for chaining:
//
//	project.UpdateString(nameProperty, "Renamed").UpdateBoolean(activeProperty, false)
//
// Passing a nil graph, an empty property, a nil term or a nil URL is a
// programming error and panics before the graph is touched.
package access
