package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/geoknoesis/rdf-access/rdf"
)

const contextDocumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["@context"],
  "properties": {
    "@context": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {"type": "object"},
        {"type": "null"},
        {
          "type": "array",
          "items": {"type": ["string", "object", "null"]}
        }
      ]
    }
  }
}`

var contextSchema = compileContextSchema()

func compileContextSchema() *jsonschema.Schema {
	sch, err := jsonschema.CompileString("context-document.json", contextDocumentSchema)
	if err != nil {
		panic(err)
	}
	return sch
}

// parseContextDocument decodes a JSON-LD context document and checks that it
// has the shape compaction expects.
func parseContextDocument(document string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(document), &value); err != nil {
		return nil, fmt.Errorf("invalid context document: %w", err)
	}
	if err := contextSchema.Validate(value); err != nil {
		return nil, fmt.Errorf("invalid context document: %w", err)
	}
	return value, nil
}

// BuildRemoteContextDocument returns {"@context": "<uri>"}.
func BuildRemoteContextDocument(uri string) (string, error) {
	if err := checkContextURI(uri); err != nil {
		return "", err
	}
	return marshalContextDocument(uri)
}

// MustBuildRemoteContextDocument is BuildRemoteContextDocument but panics on error.
func MustBuildRemoteContextDocument(uri string) string {
	document, err := BuildRemoteContextDocument(uri)
	if err != nil {
		panic(err)
	}
	return document
}

// BuildRemoteContextDocuments returns {"@context": [...]} listing uris in
// order. An empty list is a configuration error.
func BuildRemoteContextDocuments(uris []string) (string, error) {
	if len(uris) == 0 {
		return "", configErrorf("no remote context URIs")
	}
	for _, uri := range uris {
		if err := checkContextURI(uri); err != nil {
			return "", err
		}
	}
	return marshalContextDocument(uris)
}

func checkContextURI(uri string) error {
	if err := rdf.ValidateIRI(uri); err != nil {
		return configErrorf("remote context: %v", err)
	}
	return nil
}

func marshalContextDocument(value any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any{"@context": value}); err != nil {
		return "", &EncodeError{Stage: StageContext, Err: err}
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
