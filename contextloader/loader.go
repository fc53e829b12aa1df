// Package contextloader resolves remote JSON-LD contexts for json-gold.
//
// Fetched documents are kept in a freecache byte cache for as long as their
// HTTP caching headers allow. Contexts can also be preloaded from local files
// so that compaction works without network access.
package contextloader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/coocood/freecache"
	"github.com/dustin/go-humanize"
	"github.com/piprate/json-gold/ld"
	"github.com/pquerna/cachecontrol"

	"github.com/geoknoesis/rdf-access/rdf"
)

const (
	DefaultCacheBytes       = 4 << 20
	DefaultTimeout          = 10 * time.Second
	DefaultMaxDocumentBytes = 1 << 20

	acceptHeader = "application/ld+json, application/json;q=0.9, */*;q=0.1"
)

// ErrDocumentTooLarge is returned when a fetched context exceeds the size limit.
var ErrDocumentTooLarge = errors.New("contextloader: document exceeds size limit")

// Loader implements ld.DocumentLoader.
type Loader struct {
	client     *http.Client
	cache      *freecache.Cache
	logger     *slog.Logger
	preloaded  map[string]any
	defaultTTL time.Duration
	maxBytes   int64
	preloadErr error
}

var _ ld.DocumentLoader = (*Loader)(nil)

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.client = &http.Client{Timeout: timeout}
		}
	}
}

// WithCacheBytes sizes the document cache. Zero disables caching.
func WithCacheBytes(n int) Option {
	return func(l *Loader) {
		if n <= 0 {
			l.cache = nil
			return
		}
		l.cache = freecache.NewCache(n)
	}
}

// WithDefaultTTL caches responses that carry no explicit lifetime for ttl.
// Zero, the default, leaves them uncached.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(l *Loader) { l.defaultTTL = ttl }
}

// WithMaxDocumentBytes caps the size of fetched documents.
func WithMaxDocumentBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithPreload serves document for url without fetching it.
func WithPreload(url string, document []byte) Option {
	return func(l *Loader) {
		var parsed any
		if err := json.Unmarshal(document, &parsed); err != nil {
			l.preloadErr = errors.Join(l.preloadErr, fmt.Errorf("contextloader: preload %s: %w", url, err))
			return
		}
		l.preloaded[url] = parsed
	}
}

// WithPreloadFile serves the contents of the file at path for url.
func WithPreloadFile(url, path string) Option {
	return func(l *Loader) {
		data, err := os.ReadFile(path)
		if err != nil {
			l.preloadErr = errors.Join(l.preloadErr, fmt.Errorf("contextloader: preload %s: %w", url, err))
			return
		}
		WithPreload(url, data)(l)
	}
}

// New returns a Loader. It fails if a preloaded document cannot be read.
func New(opts ...Option) (*Loader, error) {
	l := &Loader{
		client:    &http.Client{Timeout: DefaultTimeout},
		cache:     freecache.NewCache(DefaultCacheBytes),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		preloaded: map[string]any{},
		maxBytes:  DefaultMaxDocumentBytes,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.preloadErr != nil {
		return nil, l.preloadErr
	}
	return l, nil
}

var _ rdf.ContextDocumentLoader = (*Loader)(nil)

// LoadDocument implements ld.DocumentLoader. The rdf readers and writers
// call LoadDocumentContext instead, so their context bounds the fetch.
func (l *Loader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return l.LoadDocumentContext(context.Background(), u)
}

// LoadDocumentContext resolves u from the preloads, the cache or the network,
// in that order.
func (l *Loader) LoadDocumentContext(ctx context.Context, u string) (*ld.RemoteDocument, error) {
	if document, ok := l.preloaded[u]; ok {
		l.logger.Debug("context preloaded", "url", u)
		return &ld.RemoteDocument{DocumentURL: u, Document: document}, nil
	}

	if l.cache != nil {
		body, err := l.cache.Get([]byte(u))
		if err != nil && err != freecache.ErrNotFound {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
		if body != nil {
			l.logger.Debug("context cache hit", "url", u)
			return decodeDocument(u, body)
		}
	}

	body, ttl, err := l.fetch(ctx, u)
	if err != nil {
		l.logger.Debug("context fetch failed", "url", u, "error", err)
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}
	document, err := decodeDocument(u, body)
	if err != nil {
		return nil, err
	}
	if l.cache != nil && ttl >= time.Second {
		if err := l.cache.Set([]byte(u), body, int(ttl/time.Second)); err != nil {
			l.logger.Debug("context not cached", "url", u, "error", err)
		}
	}
	l.logger.Debug("context fetched", "url", u, "size", humanize.Bytes(uint64(len(body))), "ttl", ttl)
	return document, nil
}

// fetch downloads u and reports how long the response may be cached.
func (l *Loader) fetch(ctx context.Context, u string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, 0, err
	}
	if int64(len(body)) > l.maxBytes {
		return nil, 0, fmt.Errorf("%w: %s is larger than %s", ErrDocumentTooLarge, u, humanize.Bytes(uint64(l.maxBytes)))
	}
	return body, l.lifetime(req, resp), nil
}

func (l *Loader) lifetime(req *http.Request, resp *http.Response) time.Duration {
	reasons, expires, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{})
	if err != nil || len(reasons) > 0 {
		return 0
	}
	if expires.IsZero() {
		return l.defaultTTL
	}
	return time.Until(expires)
}

// CacheStats reports cache hits and misses since the loader was created.
func (l *Loader) CacheStats() (hits, misses int64) {
	if l.cache == nil {
		return 0, 0
	}
	return l.cache.HitCount(), l.cache.MissCount()
}

func decodeDocument(u string, body []byte) (*ld.RemoteDocument, error) {
	var document any
	if err := json.Unmarshal(body, &document); err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Errorf("%s: %w", u, err))
	}
	return &ld.RemoteDocument{DocumentURL: u, Document: document}, nil
}
