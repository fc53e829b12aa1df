package rdf

import (
	"sort"
	"strings"
)

// isQNameLocal reports whether value is usable as the local part of both a
// Turtle prefixed name and an XML qualified name.
func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return value[len(value)-1] != '.'
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}

// splitIRIForQName splits an IRI after its last '#' or '/' when the
// remainder is a valid local name.
func splitIRIForQName(iri string) (ns, local string, ok bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns, local = iri[:idx+1], iri[idx+1:]
	if !isQNameLocal(local) {
		return "", "", false
	}
	return ns, local, true
}

// abbreviateQName picks the longest matching namespace and returns the
// prefixed name and the prefix used.
func abbreviateQName(iri string, prefixes map[string]string) (qname, prefix string, ok bool) {
	bestNS := ""
	for candidate, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) || !isQNameLocal(iri[len(ns):]) {
			continue
		}
		// Ties go to the alphabetically smaller prefix so output is stable.
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && candidate < prefix) {
			bestNS, prefix, ok = ns, candidate, true
		}
	}
	if !ok {
		return "", "", false
	}
	return prefix + ":" + iri[len(bestNS):], prefix, true
}

func sortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// mergePrefixes overlays user prefixes on the built-in rdf, rdfs and xsd ones.
func mergePrefixes(user map[string]string) map[string]string {
	out := make(map[string]string, len(defaultPrefixes)+len(user))
	for prefix, ns := range defaultPrefixes {
		out[prefix] = ns
	}
	for prefix, ns := range user {
		out[prefix] = ns
	}
	return out
}
