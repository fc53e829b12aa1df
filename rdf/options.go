package rdf

import (
	"context"

	"github.com/piprate/json-gold/ld"
)

const (
	DefaultMaxLineBytes  = 1 << 20
	DefaultMaxInputBytes = 64 << 20
)

// Option configures reader/writer behavior.
type Option func(*Options)

// Options configures parser/encoder behavior.
// Zero values use defaults. Use negative values to disable specific limits.
type Options struct {
	// Context for cancellation and timeouts.
	Context context.Context

	// BaseIRI resolves relative IRIs while decoding and is announced
	// (@base, xml:base) by encoders that support it.
	BaseIRI string

	// Limits for untrusted input.
	MaxLineBytes  int
	MaxInputBytes int64
	MaxTriples    int64

	// Prefixes abbreviates IRIs in Turtle and RDF/XML output.
	Prefixes map[string]string

	// DocumentLoader resolves remote JSON-LD contexts. Nil uses json-gold's
	// default HTTP loader.
	DocumentLoader ld.DocumentLoader

	// JSONLDContext, when set, compacts JSON-LD output against this parsed
	// context document.
	JSONLDContext any

	// Pretty indents JSON-LD output.
	Pretty bool
}

func defaultOptions() Options {
	return Options{
		Context:       context.Background(),
		MaxLineBytes:  DefaultMaxLineBytes,
		MaxInputBytes: DefaultMaxInputBytes,
	}
}

func buildOptions(opts []Option) Options {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Context == nil {
		options.Context = context.Background()
	}
	if options.MaxLineBytes == 0 {
		options.MaxLineBytes = DefaultMaxLineBytes
	}
	if options.MaxInputBytes == 0 {
		options.MaxInputBytes = DefaultMaxInputBytes
	}
	return options
}

// OptContext sets the context for cancellation and timeouts.
func OptContext(ctx context.Context) Option {
	return func(opts *Options) {
		opts.Context = ctx
	}
}

// OptBaseIRI sets the base IRI.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.BaseIRI = base
	}
}

// OptMaxLineBytes sets the maximum line size limit for line-based formats.
func OptMaxLineBytes(maxBytes int) Option {
	return func(opts *Options) {
		opts.MaxLineBytes = maxBytes
	}
}

// OptMaxInputBytes sets the maximum number of bytes read from the input.
func OptMaxInputBytes(maxBytes int64) Option {
	return func(opts *Options) {
		opts.MaxInputBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples to decode.
func OptMaxTriples(maxTriples int64) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptPrefixes sets the namespace prefixes used by encoders.
func OptPrefixes(prefixes map[string]string) Option {
	return func(opts *Options) {
		opts.Prefixes = prefixes
	}
}

// OptDocumentLoader sets the loader used to fetch remote JSON-LD contexts.
func OptDocumentLoader(loader ld.DocumentLoader) Option {
	return func(opts *Options) {
		opts.DocumentLoader = loader
	}
}

// OptJSONLDContext compacts JSON-LD output against a parsed context document.
func OptJSONLDContext(contextDocument any) Option {
	return func(opts *Options) {
		opts.JSONLDContext = contextDocument
	}
}

// OptPretty enables indented JSON-LD output.
func OptPretty() Option {
	return func(opts *Options) {
		opts.Pretty = true
	}
}

// OptSafeLimits applies limits suitable for untrusted input.
func OptSafeLimits() Option {
	return func(opts *Options) {
		opts.MaxLineBytes = 64 << 10
		opts.MaxInputBytes = 8 << 20
		opts.MaxTriples = 1_000_000
	}
}
