package rdf

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/piprate/json-gold/ld"
)

const nquadsFormat = "application/n-quads"

// newJSONGoldOptions maps Options onto json-gold. Processing runs in
// JSON-LD 1.1 mode.
func newJSONGoldOptions(opts Options, base string) *ld.JsonLdOptions {
	goldOpts := ld.NewJsonLdOptions(base)
	goldOpts.ProcessingMode = ld.JsonLd_1_1
	if opts.DocumentLoader != nil {
		goldOpts.DocumentLoader = bindLoader(opts.Context, opts.DocumentLoader)
	}
	return goldOpts
}

// ContextDocumentLoader is a document loader whose fetches can be canceled.
// Readers and writers pass their context to it on every load.
type ContextDocumentLoader interface {
	ld.DocumentLoader
	LoadDocumentContext(ctx context.Context, u string) (*ld.RemoteDocument, error)
}

type boundLoader struct {
	ctx    context.Context
	loader ContextDocumentLoader
}

func (b boundLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return b.loader.LoadDocumentContext(b.ctx, u)
}

func bindLoader(ctx context.Context, loader ld.DocumentLoader) ld.DocumentLoader {
	if withContext, ok := loader.(ContextDocumentLoader); ok && ctx != nil {
		return boundLoader{ctx: ctx, loader: withContext}
	}
	return loader
}

// newJSONLDReader expands the document to RDF with json-gold. Only the
// default graph is kept; named graphs are dropped.
func newJSONLDReader(r io.Reader, opts Options) (Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newParseError(FormatJSONLD, 0, 0, "", err)
	}
	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, newParseError(FormatJSONLD, 0, 0, "", jsonSyntaxError(data, err))
	}
	if err := opts.Context.Err(); err != nil {
		return nil, err
	}

	goldOpts := newJSONGoldOptions(opts, opts.BaseIRI)
	goldOpts.Format = nquadsFormat
	result, err := ld.NewJsonLdProcessor().ToRDF(document, goldOpts)
	if err != nil {
		if ctxErr := opts.Context.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, newParseError(FormatJSONLD, 0, 0, "", err)
	}
	nquads, ok := result.(string)
	if !ok {
		return nil, newParseError(FormatJSONLD, 0, 0, "", fmt.Errorf("unexpected toRDF result %T", result))
	}
	triples, err := defaultGraphTriples(nquads)
	if err != nil {
		return nil, newParseError(FormatJSONLD, 0, 0, "", err)
	}
	return &sliceReader{triples: triples}, nil
}

func defaultGraphTriples(nquads string) ([]Triple, error) {
	var triples []Triple
	for _, line := range strings.Split(nquads, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		triple, named, err := parseStatementLine(line)
		if err != nil {
			return nil, err
		}
		if !named {
			triples = append(triples, triple)
		}
	}
	return triples, nil
}

// jsonSyntaxError adds a line and column to encoding/json syntax errors.
func jsonSyntaxError(data []byte, err error) error {
	syntaxErr, ok := err.(*json.SyntaxError)
	if !ok {
		return err
	}
	offset := int(syntaxErr.Offset)
	if offset > len(data) {
		offset = len(data)
	}
	line := 1 + bytes.Count(data[:offset], []byte("\n"))
	column := offset - bytes.LastIndexByte(data[:offset], '\n')
	return fmt.Errorf("line %d, column %d: %w", line, column, err)
}

// jsonldWriter buffers triples as N-Triples and lifts them to JSON-LD on Close.
type jsonldWriter struct {
	out    io.Writer
	opts   Options
	buf    bytes.Buffer
	nt     Writer
	closed bool
	err    error
}

func newJSONLDWriter(w io.Writer, opts Options) Writer {
	e := &jsonldWriter{out: w, opts: opts}
	e.nt = newNTriplesWriter(&e.buf)
	return e
}

func (e *jsonldWriter) Write(t Triple) error {
	if e.err != nil {
		return e.err
	}
	if e.closed {
		return fmt.Errorf("jsonld: writer closed")
	}
	return e.nt.Write(t)
}

// Flush is a no-op; output is produced on Close.
func (e *jsonldWriter) Flush() error { return e.err }

func (e *jsonldWriter) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if err := e.nt.Close(); err != nil {
		e.err = err
		return err
	}
	document, err := e.document()
	if err != nil {
		e.err = err
		return err
	}

	w := bufio.NewWriter(e.out)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.opts.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(document); err != nil {
		e.err = fmt.Errorf("%w: jsonld: %w", ErrEncode, err)
		return e.err
	}
	if err := w.Flush(); err != nil {
		e.err = err
	}
	return e.err
}

// document runs fromRDF and, when a context is configured, compaction.
// Compaction uses an empty base so that IRIs stay absolute.
func (e *jsonldWriter) document() (any, error) {
	if err := e.opts.Context.Err(); err != nil {
		return nil, err
	}
	proc := ld.NewJsonLdProcessor()
	fromOpts := newJSONGoldOptions(e.opts, "")
	fromOpts.Format = nquadsFormat
	expanded, err := proc.FromRDF(e.buf.String(), fromOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: jsonld: fromRDF: %w", ErrEncode, err)
	}
	if e.opts.JSONLDContext == nil {
		return expanded, nil
	}
	if err := e.opts.Context.Err(); err != nil {
		return nil, err
	}
	compactOpts := newJSONGoldOptions(e.opts, "")
	compactOpts.Base = ""
	compacted, err := proc.Compact(expanded, withoutBase(e.opts.JSONLDContext), compactOpts)
	if err != nil {
		if ctxErr := e.opts.Context.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: jsonld: compact: %w", ErrEncode, err)
	}
	if len(compacted) > 0 {
		setContext(compacted, contextValue(e.opts.JSONLDContext))
	}
	return compacted, nil
}

// contextValue returns the @context entry of a context document, or the
// document itself when it has none.
func contextValue(document any) any {
	if m, ok := document.(map[string]any); ok {
		if inner, ok := m["@context"]; ok {
			return inner
		}
	}
	return document
}

// withoutBase copies a context document with @base removed from every
// embedded context object. json-gold relativizes IRIs against @base even
// when the options base is empty. Remote contexts need no handling since
// their @base is ignored.
func withoutBase(document any) any {
	strip := func(value any) any {
		m, ok := value.(map[string]any)
		if !ok {
			return value
		}
		if _, ok := m["@base"]; !ok {
			return value
		}
		stripped := make(map[string]any, len(m))
		for k, v := range m {
			if k != "@base" {
				stripped[k] = v
			}
		}
		return stripped
	}
	stripAll := func(value any) any {
		list, ok := value.([]any)
		if !ok {
			return strip(value)
		}
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = strip(item)
		}
		return out
	}

	if m, ok := document.(map[string]any); ok {
		if inner, ok := m["@context"]; ok {
			return map[string]any{"@context": stripAll(inner)}
		}
	}
	return stripAll(document)
}

// setContext writes the caller's context into a compacted document the way
// json-gold does, unwrapping a single-element array.
func setContext(compacted map[string]any, value any) {
	switch ctx := value.(type) {
	case []any:
		if len(ctx) == 1 {
			compacted["@context"] = ctx[0]
			return
		}
	case map[string]any:
		if len(ctx) == 0 {
			return
		}
	}
	compacted["@context"] = value
}
