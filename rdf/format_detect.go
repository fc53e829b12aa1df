package rdf

import (
	"bytes"
	"strings"
)

// DetectFormat guesses the format of a document from its first bytes.
// It reports false when the sample matches no known signature.
func DetectFormat(sample []byte) (Format, bool) {
	text := string(bytes.TrimSpace(bytes.TrimPrefix(sample, []byte("\xef\xbb\xbf"))))
	if text == "" {
		return "", false
	}

	switch text[0] {
	case '{', '[':
		return FormatJSONLD, true
	}
	if strings.HasPrefix(text, "<?xml") || strings.HasPrefix(text, "<rdf:RDF") || strings.HasPrefix(text, "<!DOCTYPE rdf") {
		return FormatRDFXML, true
	}

	upper := strings.ToUpper(text)
	for _, directive := range []string{"@PREFIX", "@BASE", "PREFIX ", "BASE "} {
		if strings.HasPrefix(upper, directive) {
			return FormatTurtle, true
		}
	}

	firstLine := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		firstLine = strings.TrimSpace(text[:idx])
	}
	if strings.HasPrefix(firstLine, "#") {
		// Comments are shared by Turtle and N-Triples; Turtle is the safer parse.
		return FormatTurtle, true
	}
	if (strings.HasPrefix(firstLine, "<") || strings.HasPrefix(firstLine, "_:")) && strings.HasSuffix(firstLine, ".") {
		if _, err := parseNTLine(firstLine); err == nil {
			return FormatNTriples, true
		}
	}
	if strings.Contains(text, ":") {
		return FormatTurtle, true
	}
	return "", false
}
