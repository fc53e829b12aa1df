package rdf

import (
	"bytes"
	"io"
	"testing"
)

const (
	fuzzMaxLineBytes  = 8 << 10
	fuzzMaxInputBytes = 64 << 10
	fuzzMaxTriples    = 10_000
)

func fuzzDecode(f *testing.F, format Format, seeds ...string) {
	for _, seed := range seeds {
		f.Add([]byte(seed))
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		reader, err := NewReader(bytes.NewReader(data), format,
			OptMaxLineBytes(fuzzMaxLineBytes), OptMaxInputBytes(fuzzMaxInputBytes), OptMaxTriples(fuzzMaxTriples))
		if err != nil {
			return
		}
		defer reader.Close()
		for {
			if _, err := reader.Next(); err != nil {
				if err != io.EOF && Code(err) == "" {
					t.Fatalf("error without code: %v", err)
				}
				return
			}
		}
	})
}

func FuzzDecodeNTriples(f *testing.F) {
	fuzzDecode(f, FormatNTriples, `<http://example.org/s> <http://example.org/p> "v" .`)
}

func FuzzDecodeTurtle(f *testing.F) {
	fuzzDecode(f, FormatTurtle,
		`@prefix ex: <http://example.org/> . ex:s ex:p ( "a" [ ex:q 1.5 ] ) .`,
		`<s> <p> """long"""@en .`)
}

func FuzzDecodeRDFXML(f *testing.F) {
	fuzzDecode(f, FormatRDFXML, `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description rdf:about="http://example.org/s"/></rdf:RDF>`)
}

func FuzzDecodeJSONLD(f *testing.F) {
	fuzzDecode(f, FormatJSONLD, `{"@id": "http://example.org/s", "http://example.org/p": "v"}`)
}
