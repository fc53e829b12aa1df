package rdf

import "sort"

// Isomorphic reports whether two graphs contain the same triples once blank
// node labels are mapped onto each other. The search is a plain backtracking
// match and is meant for small graphs such as test fixtures.
func (g *Graph) Isomorphic(other *Graph) bool {
	if g.Len() != other.Len() {
		return false
	}
	a := g.Triples()
	b := other.Triples()
	aBlanks := collectBlankNodes(a)
	bBlanks := collectBlankNodes(b)
	if len(aBlanks) != len(bBlanks) {
		return false
	}
	target := isoKeySet(b, nil)
	if len(aBlanks) == 0 {
		return isoEqual(isoKeySet(a, nil), target)
	}

	mapping := map[string]string{}
	used := map[string]bool{}
	var search func(idx int) bool
	search = func(idx int) bool {
		if idx == len(aBlanks) {
			return isoEqual(isoKeySet(a, mapping), target)
		}
		source := aBlanks[idx]
		for _, candidate := range bBlanks {
			if used[candidate] {
				continue
			}
			mapping[source] = candidate
			if isoConsistent(a, mapping, target) {
				used[candidate] = true
				if search(idx + 1) {
					return true
				}
				used[candidate] = false
			}
			delete(mapping, source)
		}
		return false
	}
	return search(0)
}

func collectBlankNodes(triples []Triple) []string {
	seen := map[string]struct{}{}
	for _, t := range triples {
		if b, ok := t.S.(BlankNode); ok {
			seen[b.ID] = struct{}{}
		}
		if b, ok := t.O.(BlankNode); ok {
			seen[b.ID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// isoConsistent checks that every triple whose blank nodes are all mapped
// already exists in the target.
func isoConsistent(triples []Triple, mapping map[string]string, target map[string]struct{}) bool {
	for _, t := range triples {
		key, ok := isoKey(t, mapping, true)
		if !ok {
			continue
		}
		if _, found := target[key]; !found {
			return false
		}
	}
	return true
}

func isoKeySet(triples []Triple, mapping map[string]string) map[string]struct{} {
	set := make(map[string]struct{}, len(triples))
	for _, t := range triples {
		key, _ := isoKey(t, mapping, false)
		set[key] = struct{}{}
	}
	return set
}

func isoEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if _, ok := b[key]; !ok {
			return false
		}
	}
	return true
}

func isoKey(t Triple, mapping map[string]string, requireMapped bool) (string, bool) {
	subject, ok := isoTermKey(t.S, mapping, requireMapped)
	if !ok {
		return "", false
	}
	object, ok := isoTermKey(t.O, mapping, requireMapped)
	if !ok {
		return "", false
	}
	return subject + " " + renderIRI(t.P) + " " + object, true
}

func isoTermKey(term Term, mapping map[string]string, requireMapped bool) (string, bool) {
	b, ok := term.(BlankNode)
	if !ok || mapping == nil {
		return termKey(term), true
	}
	mapped, found := mapping[b.ID]
	if !found {
		if requireMapped {
			return "", false
		}
		return termKey(term), true
	}
	return "_:" + mapped, true
}
