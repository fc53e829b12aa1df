package rdf

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Graph is an in-memory set of triples.
//
// Triples are indexed by subject and predicate so that property lookups and
// replace-style updates do not scan the whole graph. Iteration follows
// insertion order to keep serialized output stable; the order carries no
// meaning and callers should not depend on it.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	entries map[string]*graphEntry
	bySP    map[string]map[string]*graphEntry
	seq     uint64
}

type graphEntry struct {
	triple Triple
	seq    uint64
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		entries: map[string]*graphEntry{},
		bySP:    map[string]map[string]*graphEntry{},
	}
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int { return len(g.entries) }

// Add inserts a triple. It reports false if the triple was already present.
// Literal objects without a datatype are normalized to xsd:string
// (or rdf:langString when a language tag is set).
func (g *Graph) Add(t Triple) bool {
	t.O = normalizeTerm(t.O)
	key := tripleKey(t)
	if _, ok := g.entries[key]; ok {
		return false
	}
	g.seq++
	entry := &graphEntry{triple: t, seq: g.seq}
	g.entries[key] = entry
	sp := spKey(t.S, t.P)
	bucket, ok := g.bySP[sp]
	if !ok {
		bucket = map[string]*graphEntry{}
		g.bySP[sp] = bucket
	}
	bucket[key] = entry
	return true
}

// AddAll inserts every triple and returns the number actually added.
func (g *Graph) AddAll(triples []Triple) int {
	added := 0
	for _, t := range triples {
		if g.Add(t) {
			added++
		}
	}
	return added
}

// Contains reports whether the triple is in the graph.
func (g *Graph) Contains(t Triple) bool {
	t.O = normalizeTerm(t.O)
	_, ok := g.entries[tripleKey(t)]
	return ok
}

// Remove deletes a triple. It reports false if the triple was not present.
func (g *Graph) Remove(t Triple) bool {
	t.O = normalizeTerm(t.O)
	key := tripleKey(t)
	if _, ok := g.entries[key]; !ok {
		return false
	}
	delete(g.entries, key)
	sp := spKey(t.S, t.P)
	if bucket, ok := g.bySP[sp]; ok {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(g.bySP, sp)
		}
	}
	return true
}

// Match returns every triple with the given subject and predicate.
func (g *Graph) Match(subject Term, predicate IRI) []Triple {
	bucket := g.bySP[spKey(subject, predicate)]
	if len(bucket) == 0 {
		return nil
	}
	entries := make([]*graphEntry, 0, len(bucket))
	for _, entry := range bucket {
		entries = append(entries, entry)
	}
	return sortedTriples(entries)
}

// RemoveMatching deletes every triple with the given subject and predicate
// and returns how many were removed.
func (g *Graph) RemoveMatching(subject Term, predicate IRI) int {
	sp := spKey(subject, predicate)
	bucket := g.bySP[sp]
	for key := range bucket {
		delete(g.entries, key)
	}
	delete(g.bySP, sp)
	return len(bucket)
}

// Triples returns all triples in the graph.
func (g *Graph) Triples() []Triple {
	entries := make([]*graphEntry, 0, len(g.entries))
	for _, entry := range g.entries {
		entries = append(entries, entry)
	}
	return sortedTriples(entries)
}

// Subjects returns the distinct subjects of the graph in first-seen order.
func (g *Graph) Subjects() []Term {
	seen := map[string]struct{}{}
	var subjects []Term
	for _, t := range g.Triples() {
		key := termKey(t.S)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		subjects = append(subjects, t.S)
	}
	return subjects
}

// NewBlankNode mints a blank node label that is unique to this graph.
func (g *Graph) NewBlankNode() BlankNode {
	return BlankNode{ID: "b" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

// Clone returns an independent copy of the graph.
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	for _, t := range g.Triples() {
		out.Add(t)
	}
	return out
}

func sortedTriples(entries []*graphEntry) []Triple {
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]Triple, len(entries))
	for i, entry := range entries {
		out[i] = entry.triple
	}
	return out
}

func spKey(subject Term, predicate IRI) string {
	return termKey(subject) + " " + renderIRI(predicate)
}

func tripleKey(t Triple) string {
	return termKey(t.S) + " " + renderIRI(t.P) + " " + termKey(t.O)
}

// termKey is a structural identity for a term. Literals always include
// their datatype so that "1" and "1"^^xsd:integer stay distinct.
func termKey(t Term) string {
	switch value := t.(type) {
	case IRI:
		return renderIRI(value)
	case BlankNode:
		return value.String()
	case Literal:
		value = normalizeLiteral(value)
		key := `"` + escapeNTriplesString(value.Lexical) + `"^^` + renderIRI(value.Datatype)
		if value.Lang != "" {
			key += "@" + value.Lang
		}
		return key
	case nil:
		return ""
	default:
		return t.String()
	}
}
