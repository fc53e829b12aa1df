package codec

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/piprate/json-gold/ld"

	"github.com/geoknoesis/rdf-access/rdf"
)

// Codec decodes and encodes graphs. The zero value is not usable; call New.
// A Codec holds no per-call state and may be shared between goroutines.
type Codec struct {
	logger     *slog.Logger
	loader     ld.DocumentLoader
	pretty     bool
	prefixes   map[string]string
	decodeOpts []rdf.Option
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDocumentLoader sets the loader used to resolve remote JSON-LD
// contexts, both while decoding and while compacting.
func WithDocumentLoader(loader ld.DocumentLoader) Option {
	return func(c *Codec) { c.loader = loader }
}

// WithPrettyJSON indents JSON-LD output.
func WithPrettyJSON(pretty bool) Option {
	return func(c *Codec) { c.pretty = pretty }
}

// WithPrefixes sets the namespace prefixes used by Turtle and RDF/XML output.
func WithPrefixes(prefixes map[string]string) Option {
	return func(c *Codec) { c.prefixes = prefixes }
}

// WithDecodeOptions adds engine options, such as input limits, to every decode.
func WithDecodeOptions(opts ...rdf.Option) Option {
	return func(c *Codec) { c.decodeOpts = append(c.decodeOpts, opts...) }
}

// New returns a Codec configured by opts.
func New(opts ...Option) *Codec {
	c := &Codec{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultCodec = New()

// LangForMediaType maps a media type onto the engine format. Matching is
// case-sensitive; unknown or empty media types select Turtle.
func LangForMediaType(mediaType string) rdf.Format {
	return rdf.FormatForMediaType(mediaType)
}

// Decode parses content with the default codec.
func Decode(baseURI *url.URL, content, mediaType string) (*rdf.Graph, error) {
	return defaultCodec.Decode(baseURI, content, mediaType)
}

// DecodeReader parses r with the default codec.
func DecodeReader(ctx context.Context, baseURI *url.URL, r io.Reader, mediaType string) (*rdf.Graph, error) {
	return defaultCodec.DecodeReader(ctx, baseURI, r, mediaType)
}

// DecodeFromSource parses the file at path with the default codec.
func DecodeFromSource(baseURI *url.URL, path, mediaType string) (*rdf.Graph, error) {
	return defaultCodec.DecodeFromSource(baseURI, path, mediaType)
}

// Encode serializes graph with the default codec.
func Encode(graph *rdf.Graph, mediaType string) (string, error) {
	return defaultCodec.Encode(graph, mediaType)
}

// EncodeJSONLD serializes graph as JSON-LD with the default codec.
func EncodeJSONLD(ctx context.Context, graph *rdf.Graph, contextDocument string) (string, error) {
	return defaultCodec.EncodeJSONLD(ctx, graph, contextDocument)
}

// Decode parses content in the format selected by mediaType, resolving
// relative IRIs against baseURI.
func (c *Codec) Decode(baseURI *url.URL, content, mediaType string) (*rdf.Graph, error) {
	return c.decode(context.Background(), baseURI, strings.NewReader(content), mediaType, "")
}

// DecodeReader is Decode over a stream. Cancelling ctx aborts the parse,
// including remote context fetches by a loader with LoadDocumentContext.
func (c *Codec) DecodeReader(ctx context.Context, baseURI *url.URL, r io.Reader, mediaType string) (*rdf.Graph, error) {
	return c.decode(ctx, baseURI, r, mediaType, "")
}

// DecodeFromSource reads and parses the file at path. The file is closed
// before returning; errors name the path.
func (c *Codec) DecodeFromSource(baseURI *url.URL, path, mediaType string) (*rdf.Graph, error) {
	format := LangForMediaType(mediaType)
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Format: format, Source: path, Err: err}
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		c.logger.Debug("decoding source", "path", path, "format", format, "size", humanize.Bytes(uint64(info.Size())))
	}
	return c.decode(context.Background(), baseURI, f, mediaType, path)
}

func (c *Codec) decode(ctx context.Context, baseURI *url.URL, r io.Reader, mediaType, source string) (*rdf.Graph, error) {
	if baseURI == nil {
		return nil, configErrorf("decode requires a base URI")
	}
	base := baseURI.String()
	if err := rdf.ValidateIRI(base); err != nil {
		return nil, configErrorf("invalid base URI: %v", err)
	}

	format := LangForMediaType(mediaType)
	opts := []rdf.Option{rdf.OptBaseIRI(base)}
	if c.loader != nil {
		opts = append(opts, rdf.OptDocumentLoader(c.loader))
	}
	opts = append(opts, c.decodeOpts...)

	graph, err := rdf.ReadGraph(ctx, r, format, opts...)
	if err != nil {
		return nil, &DecodeError{Format: format, Source: source, Err: err}
	}
	c.logger.Debug("decoded graph", "format", format, "base", base, "triples", graph.Len())
	return graph, nil
}

// Encode serializes the whole graph in the format selected by mediaType.
// JSON-LD output is uncompacted.
func (c *Codec) Encode(graph *rdf.Graph, mediaType string) (string, error) {
	format := LangForMediaType(mediaType)
	if format == rdf.FormatJSONLD {
		return c.EncodeJSONLD(context.Background(), graph, "")
	}
	return c.write(graph, format, rdf.OptPrefixes(c.prefixes))
}

// EncodeJSONLD lifts the graph to JSON-LD. A non-blank contextDocument is
// validated and the output is compacted against it with IRIs kept absolute.
func (c *Codec) EncodeJSONLD(ctx context.Context, graph *rdf.Graph, contextDocument string) (string, error) {
	opts := []rdf.Option{rdf.OptContext(ctx)}
	if c.loader != nil {
		opts = append(opts, rdf.OptDocumentLoader(c.loader))
	}
	if c.pretty {
		opts = append(opts, rdf.OptPretty())
	}
	if strings.TrimSpace(contextDocument) != "" {
		document, err := parseContextDocument(contextDocument)
		if err != nil {
			return "", &EncodeError{Stage: StageContext, Err: err}
		}
		opts = append(opts, rdf.OptJSONLDContext(document))
	}
	return c.write(graph, rdf.FormatJSONLD, opts...)
}

func (c *Codec) write(graph *rdf.Graph, format rdf.Format, opts ...rdf.Option) (string, error) {
	if graph == nil {
		panic("codec: nil graph")
	}
	var buf bytes.Buffer
	if err := rdf.WriteGraph(&buf, graph, format, opts...); err != nil {
		return "", &EncodeError{Stage: StageSerialize, Err: err}
	}
	c.logger.Debug("encoded graph", "format", format, "triples", graph.Len(), "bytes", buf.Len())
	return buf.String(), nil
}
