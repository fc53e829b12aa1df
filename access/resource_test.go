package access

import (
	"context"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-access/rdf"
)

const (
	projectBase = "https://data.example/resource#project"
	testNS      = "http://testable.example/ns/testable#"
)

var (
	propID        = rdf.IRI{Value: testNS + "id"}
	propName      = rdf.IRI{Value: testNS + "name"}
	propCreatedAt = rdf.IRI{Value: testNS + "createdAt"}
	propActive    = rdf.IRI{Value: testNS + "active"}
	propMilestone = rdf.IRI{Value: testNS + "hasMilestone"}
	propTag       = rdf.IRI{Value: testNS + "hasTag"}
	propComment   = rdf.IRI{Value: testNS + "hasComment"}
	propMissing   = rdf.IRI{Value: testNS + "missing"}
	ldpContains   = rdf.IRI{Value: "http://www.w3.org/ns/ldp#contains"}
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func loadProject(t *testing.T) *Resource {
	t.Helper()
	f, err := os.Open("testdata/project.ttl")
	require.NoError(t, err)
	defer f.Close()

	graph, err := rdf.ReadGraph(context.Background(), f, rdf.FormatTurtle, rdf.OptBaseIRI(projectBase))
	require.NoError(t, err)
	return GetResource(graph, mustURL(t, projectBase))
}

func urlStrings(uris []*url.URL) []string {
	out := make([]string, len(uris))
	for i, u := range uris {
		out[i] = u.String()
	}
	return out
}

func TestProjectReads(t *testing.T) {
	project := loadProject(t)

	id, err := project.RequiredIntegerObject(propID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)

	name, ok, err := project.StringObject(propName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Great Validations", name)

	createdAt, err := project.RequiredDateTimeObject(propCreatedAt)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(time.Date(2021, 4, 4, 20, 15, 47, 0, time.UTC)))

	active, err := project.RequiredBooleanObject(propActive)
	require.NoError(t, err)
	assert.True(t, active)

	milestone, err := project.RequiredURIObject(propMilestone)
	require.NoError(t, err)
	assert.Equal(t, "https://data.example/data/projects/project-1/milestone-3/#milestone", milestone.String())

	tags, err := project.RequiredURIObjects(propTag)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"https://data.example/tags/tag-1",
		"https://data.example/tags/tag-2",
		"https://data.example/tags/tag-3",
	}, urlStrings(tags))

	comments, err := project.RequiredStringObjects(propComment)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"First original comment",
		"Second original comment",
		"Third original comment",
	}, comments)
}

func TestEmptyRelativeReferenceDropsFragment(t *testing.T) {
	project := loadProject(t)
	container := GetResource(project.Graph(), mustURL(t, "https://data.example/resource"))

	contained, err := container.RequiredURIObject(ldpContains)
	require.NoError(t, err)
	assert.Equal(t, "https://data.example/data/projects/project-1/milestone-3/", contained.String())
}

func TestRequiredVersusOptional(t *testing.T) {
	project := loadProject(t)

	checks := []struct {
		name     string
		optional func() (bool, error)
		required func() error
	}{
		{"uri", func() (bool, error) { _, ok, err := project.URIObject(propMissing); return ok, err },
			func() error { _, err := project.RequiredURIObject(propMissing); return err }},
		{"string", func() (bool, error) { _, ok, err := project.StringObject(propMissing); return ok, err },
			func() error { _, err := project.RequiredStringObject(propMissing); return err }},
		{"integer", func() (bool, error) { _, ok, err := project.IntegerObject(propMissing); return ok, err },
			func() error { _, err := project.RequiredIntegerObject(propMissing); return err }},
		{"datetime", func() (bool, error) { _, ok, err := project.DateTimeObject(propMissing); return ok, err },
			func() error { _, err := project.RequiredDateTimeObject(propMissing); return err }},
		{"boolean", func() (bool, error) { _, ok, err := project.BooleanObject(propMissing); return ok, err },
			func() error { _, err := project.RequiredBooleanObject(propMissing); return err }},
		{"object", func() (bool, error) { _, ok := project.Object(propMissing); return ok, nil },
			func() error { _, err := project.RequiredObject(propMissing); return err }},
		{"statement", func() (bool, error) { _, ok := project.Statement(propMissing); return ok, nil },
			func() error { _, err := project.RequiredStatement(propMissing); return err }},
	}
	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := tc.optional()
			require.NoError(t, err)
			assert.False(t, ok)

			err = tc.required()
			require.ErrorIs(t, err, rdf.ErrNotFound)
			assert.Equal(t, rdf.ErrCodeNotFound, rdf.Code(err))
		})
	}

	uris, err := project.URIObjects(propMissing)
	require.NoError(t, err)
	assert.Empty(t, uris)
	_, err = project.RequiredURIObjects(propMissing)
	assert.ErrorIs(t, err, rdf.ErrNotFound)

	strs, err := project.StringObjects(propMissing)
	require.NoError(t, err)
	assert.Empty(t, strs)
	_, err = project.RequiredStringObjects(propMissing)
	assert.ErrorIs(t, err, rdf.ErrNotFound)

	assert.Empty(t, project.Objects(propMissing))
	_, err = project.RequiredObjects(propMissing)
	assert.ErrorIs(t, err, rdf.ErrNotFound)
}

func TestTypeGuards(t *testing.T) {
	project := loadProject(t)

	_, _, err := project.StringObject(propMilestone)
	require.ErrorIs(t, err, rdf.ErrTypeMismatch)
	_, err = project.RequiredStringObject(propMilestone)
	require.ErrorIs(t, err, rdf.ErrTypeMismatch)

	_, _, err = project.URIObject(propName)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
	_, _, err = project.IntegerObject(propName)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
	_, _, err = project.BooleanObject(propID)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
	_, _, err = project.DateTimeObject(propTag)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
	_, err = project.StringObjects(propTag)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
	_, err = project.URIObjects(propComment)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
	assert.Equal(t, rdf.ErrCodeTypeMismatch, rdf.Code(err))

	var propErr *PropertyError
	require.True(t, errors.As(err, &propErr))
	assert.Equal(t, propComment, propErr.Property)
	assert.Equal(t, "URI", propErr.Expected)
	assert.Contains(t, err.Error(), projectBase)
	assert.Contains(t, err.Error(), "hasComment")
}

func TestLexicalMismatch(t *testing.T) {
	r := NewResource(nil, mustURL(t, "https://data.example/thing"))
	p := rdf.IRI{Value: "https://data.example/p"}

	r.UpdateObject(p, rdf.NewLiteral("abc", rdf.XSDInteger))
	_, _, err := r.IntegerObject(p)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	r.UpdateObject(p, rdf.NewLiteral("2021-04-04T20:15:47", rdf.XSDDateTime))
	_, _, err = r.DateTimeObject(p)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	r.UpdateObject(p, rdf.NewLiteral("yes", rdf.XSDBoolean))
	_, err = r.RequiredBooleanObject(p)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	r.UpdateObject(p, rdf.NewLangLiteral("hello", "en"))
	_, _, err = r.StringObject(p)
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	r.UpdateObject(p, rdf.NewLiteral("0", rdf.XSDBoolean))
	v, err := r.RequiredBooleanObject(p)
	require.NoError(t, err)
	assert.False(t, v)
}

func TestURIConversion(t *testing.T) {
	_, err := NodeToURI(rdf.BlankNode{ID: "b0"})
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	_, err = NodeToURI(rdf.NewLiteral("https://x.example/", rdf.XSDString))
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	_, err = NodeToURI(rdf.IRI{Value: `http:{}{}cool\web`})
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)

	u, err := NodeToURI(rdf.IRI{Value: "https://x.example/a?b=c#d"})
	require.NoError(t, err)
	assert.Equal(t, "x.example", u.Host)
	assert.Equal(t, "d", u.Fragment)

	graph := rdf.NewGraph()
	blank := Of(graph, graph.NewBlankNode())
	_, err = blank.URI()
	assert.ErrorIs(t, err, rdf.ErrTypeMismatch)
}

func TestReplaceSemantics(t *testing.T) {
	project := loadProject(t)

	project.UpdateInteger(propID, 7).UpdateInteger(propID, 8)
	assert.Len(t, project.Objects(propID), 1)
	id, err := project.RequiredIntegerObject(propID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	project.UpdateString(propName, "Renamed")
	name, err := project.RequiredStringObject(propName)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", name)

	project.UpdateBoolean(propActive, false)
	active, err := project.RequiredBooleanObject(propActive)
	require.NoError(t, err)
	assert.False(t, active)

	when := time.Date(2022, 1, 2, 3, 4, 5, 600_000_000, time.FixedZone("", 2*3600))
	project.UpdateDateTime(propCreatedAt, when)
	got, err := project.RequiredDateTimeObject(propCreatedAt)
	require.NoError(t, err)
	assert.True(t, got.Equal(when))

	project.UpdateURI(propMilestone, mustURL(t, "https://data.example/m/4#milestone"))
	milestone, err := project.RequiredURIObject(propMilestone)
	require.NoError(t, err)
	assert.Equal(t, "https://data.example/m/4#milestone", milestone.String())

	project.UpdateURIObjects(propTag, []*url.URL{mustURL(t, "https://data.example/tags/tag-9")})
	tags, err := project.RequiredURIObjects(propTag)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://data.example/tags/tag-9"}, urlStrings(tags))
}

func TestUpdateCollapsesDuplicates(t *testing.T) {
	project := loadProject(t)

	project.UpdateStringObjects(propComment, []string{"a", "b", "a"})
	comments, err := project.StringObjects(propComment)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, comments)

	project.UpdateObjects(propComment, nil)
	assert.Empty(t, project.Objects(propComment))
}

func TestUpdatePreconditionsLeaveGraphUntouched(t *testing.T) {
	project := loadProject(t)
	before := project.Graph().Clone()

	assert.Panics(t, func() { project.UpdateObject(propName, nil) })
	assert.Panics(t, func() { project.UpdateString(rdf.IRI{}, "x") })
	assert.Panics(t, func() { project.UpdateURI(propMilestone, nil) })
	assert.Panics(t, func() {
		project.UpdateURIObjects(propTag, []*url.URL{mustURL(t, "https://data.example/t"), nil})
	})
	assert.Panics(t, func() {
		project.UpdateObjects(propTag, []rdf.Term{rdf.IRI{Value: "https://data.example/t"}, nil})
	})

	assert.True(t, before.Isomorphic(project.Graph()))
}

func TestResourceConstruction(t *testing.T) {
	typ := rdf.IRI{Value: testNS + "Project"}
	r := NewResourceForType(nil, mustURL(t, projectBase), typ)

	assert.Equal(t, 1, r.Graph().Len())
	object, err := r.RequiredObject(rdf.RDFType)
	require.NoError(t, err)
	assert.Equal(t, typ, object)

	uri, err := r.URI()
	require.NoError(t, err)
	assert.Equal(t, projectBase, uri.String())

	same := GetResource(r.Graph(), mustURL(t, projectBase))
	same.UpdateString(propName, "shared")
	name, err := r.RequiredStringObject(propName)
	require.NoError(t, err)
	assert.Equal(t, "shared", name)

	assert.Equal(t, []rdf.IRI{rdf.RDFType, propName}, r.Properties())

	assert.Panics(t, func() { Of(r.Graph(), rdf.NewLiteral("x", rdf.XSDString)) })
	assert.Panics(t, func() { Of(nil, rdf.IRI{Value: projectBase}) })
	assert.Panics(t, func() { GetResource(r.Graph(), nil) })
}

func TestPropertyErrorMessage(t *testing.T) {
	r := NewResource(nil, mustURL(t, "https://data.example/thing"))

	_, err := r.RequiredIntegerObject(propID)
	require.Error(t, err)
	assert.Equal(t,
		"access: no xsd:integer value for property <"+testNS+"id> of <https://data.example/thing>",
		err.Error())

	r.UpdateString(propID, "six")
	_, err = r.RequiredIntegerObject(propID)
	require.Error(t, err)
	assert.Equal(t,
		`access: property <`+testNS+`id> of <https://data.example/thing>: expected xsd:integer, found literal "six"`,
		err.Error())
}
