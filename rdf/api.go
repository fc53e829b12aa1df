package rdf

import (
	"context"
	"fmt"
	"io"
)

// Reader streams RDF triples from an input.
type Reader interface {
	Next() (Triple, error)
	Close() error
}

// Writer streams RDF triples to an output. Formats that group statements
// (Turtle, RDF/XML, JSON-LD) buffer until Close.
type Writer interface {
	Write(Triple) error
	Flush() error
	Close() error
}

// Handler processes triples in push mode.
type Handler func(Triple) error

// NewReader creates a reader for the specified format.
func NewReader(r io.Reader, format Format, opts ...Option) (Reader, error) {
	options := buildOptions(opts)
	in := limitInput(options.Context, r, options.MaxInputBytes)

	var (
		reader Reader
		err    error
	)
	switch format {
	case FormatNTriples:
		reader = newNTriplesReader(in, options)
	case FormatTurtle:
		reader, err = newTurtleReader(in, options)
	case FormatRDFXML:
		reader, err = newRDFXMLReader(in, options)
	case FormatJSONLD:
		reader, err = newJSONLDReader(in, options)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if options.MaxTriples > 0 {
		reader = &countingReader{Reader: reader, max: options.MaxTriples}
	}
	return reader, nil
}

// Parse parses RDF from the reader and streams triples to the handler.
// If ctx is nil, context.Background() is used.
func Parse(ctx context.Context, r io.Reader, format Format, handler Handler, opts ...Option) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = append(opts, OptContext(ctx))
	reader, err := NewReader(r, format, opts...)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		triple, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := handler(triple); err != nil {
			return err
		}
	}
}

// ReadGraph decodes the whole input into a new graph.
func ReadGraph(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Graph, error) {
	graph := NewGraph()
	err := Parse(ctx, r, format, func(t Triple) error {
		graph.Add(t)
		return nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return graph, nil
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...Option) (Writer, error) {
	options := buildOptions(opts)
	switch format {
	case FormatNTriples:
		return newNTriplesWriter(w), nil
	case FormatTurtle:
		return newTurtleWriter(w, options), nil
	case FormatRDFXML:
		return newRDFXMLWriter(w, options), nil
	case FormatJSONLD:
		return newJSONLDWriter(w, options), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteGraph serializes every triple of the graph.
func WriteGraph(w io.Writer, graph *Graph, format Format, opts ...Option) error {
	writer, err := NewWriter(w, format, opts...)
	if err != nil {
		return err
	}
	for _, t := range graph.Triples() {
		if err := writer.Write(t); err != nil {
			return err
		}
	}
	return writer.Close()
}

// countingReader enforces Options.MaxTriples.
type countingReader struct {
	Reader
	max   int64
	count int64
}

func (c *countingReader) Next() (Triple, error) {
	t, err := c.Reader.Next()
	if err != nil {
		return t, err
	}
	c.count++
	if c.count > c.max {
		return Triple{}, ErrTripleLimitExceeded
	}
	return t, nil
}

// sliceReader serves triples produced by a parser that consumes its whole input up front.
type sliceReader struct {
	triples []Triple
	next    int
}

func (s *sliceReader) Next() (Triple, error) {
	if s.next >= len(s.triples) {
		return Triple{}, io.EOF
	}
	t := s.triples[s.next]
	s.next++
	return t, nil
}

func (s *sliceReader) Close() error {
	s.triples = nil
	return nil
}

// limitInput wraps r with cancellation and an optional byte limit.
func limitInput(ctx context.Context, r io.Reader, maxBytes int64) io.Reader {
	r = &contextReader{ctx: ctx, r: r}
	if maxBytes > 0 {
		r = &boundedReader{r: r, limit: maxBytes}
	}
	return r
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// boundedReader fails with ErrInputTooLarge instead of silently truncating.
type boundedReader struct {
	r     io.Reader
	read  int64
	limit int64
}

func (b *boundedReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.read += int64(n)
	if b.read > b.limit {
		return 0, ErrInputTooLarge
	}
	return n, err
}

