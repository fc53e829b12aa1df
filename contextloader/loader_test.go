package contextloader

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contextBody = `{"@context": {"name": "http://testable.example/ns/testable#name"}}`

type contextServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newContextServer(t *testing.T, cacheControl string) *contextServer {
	t.Helper()
	s := &contextServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch r.URL.Path {
		case "/missing.jsonld":
			http.NotFound(w, r)
			return
		case "/broken.jsonld":
			w.Header().Set("Content-Type", "application/ld+json")
			w.Write([]byte(`{"@context": `))
			return
		}
		if cacheControl != "" {
			w.Header().Set("Cache-Control", cacheControl)
		}
		w.Header().Set("Content-Type", "application/ld+json")
		w.Write([]byte(contextBody))
	}))
	t.Cleanup(s.Close)
	return s
}

func documentMap(t *testing.T, doc *ld.RemoteDocument) map[string]any {
	t.Helper()
	m, ok := doc.Document.(map[string]any)
	require.True(t, ok, "unexpected document %T", doc.Document)
	return m
}

func TestLoaderCachesWhileFresh(t *testing.T) {
	server := newContextServer(t, "public, max-age=300")
	loader, err := New()
	require.NoError(t, err)

	u := server.URL + "/ctx.jsonld"
	first, err := loader.LoadDocument(u)
	require.NoError(t, err)
	second, err := loader.LoadDocument(u)
	require.NoError(t, err)

	assert.Equal(t, int64(1), server.hits.Load())
	assert.Equal(t, u, second.DocumentURL)
	assert.Equal(t, documentMap(t, first), documentMap(t, second))
	assert.Contains(t, documentMap(t, second), "@context")

	hits, _ := loader.CacheStats()
	assert.Equal(t, int64(1), hits)
}

func TestLoaderHonorsNoStore(t *testing.T) {
	server := newContextServer(t, "no-store")
	loader, err := New(WithDefaultTTL(time.Hour))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := loader.LoadDocument(server.URL + "/ctx.jsonld")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), server.hits.Load())
}

func TestLoaderDefaultTTL(t *testing.T) {
	server := newContextServer(t, "")

	uncached, err := New()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := uncached.LoadDocument(server.URL + "/ctx.jsonld")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), server.hits.Load())

	cached, err := New(WithDefaultTTL(time.Minute))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := cached.LoadDocument(server.URL + "/ctx.jsonld")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(3), server.hits.Load())
}

func TestLoaderWithoutCache(t *testing.T) {
	server := newContextServer(t, "max-age=300")
	loader, err := New(WithCacheBytes(0))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := loader.LoadDocument(server.URL + "/ctx.jsonld")
		require.NoError(t, err)
	}
	assert.Equal(t, int64(2), server.hits.Load())
	hits, misses := loader.CacheStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestLoaderPreloads(t *testing.T) {
	server := newContextServer(t, "")
	u := server.URL + "/interop.jsonld"
	loader, err := New(WithPreloadFile(u, "testdata/interop.jsonld"))
	require.NoError(t, err)

	doc, err := loader.LoadDocument(u)
	require.NoError(t, err)
	assert.Zero(t, server.hits.Load())
	ctx := documentMap(t, doc)["@context"].(map[string]any)
	assert.Equal(t, "test:name", ctx["name"])

	_, err = New(WithPreloadFile(u, "testdata/missing.jsonld"))
	assert.Error(t, err)
	_, err = New(WithPreload(u, []byte("{")))
	assert.Error(t, err)
}

func TestLoaderErrors(t *testing.T) {
	server := newContextServer(t, "max-age=300")
	loader, err := New(WithMaxDocumentBytes(16))
	require.NoError(t, err)

	_, err = loader.LoadDocument(server.URL + "/ctx.jsonld")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size limit")

	loader, err = New()
	require.NoError(t, err)

	_, err = loader.LoadDocument(server.URL + "/missing.jsonld")
	require.Error(t, err)
	var ldErr *ld.JsonLdError
	require.True(t, errors.As(err, &ldErr))
	assert.Equal(t, ld.LoadingDocumentFailed, ldErr.Code)
	assert.Contains(t, err.Error(), "404")

	_, err = loader.LoadDocument(server.URL + "/broken.jsonld")
	require.Error(t, err)

	_, err = loader.LoadDocument("://not a url")
	assert.Error(t, err)
}

func TestLoaderContextCancel(t *testing.T) {
	server := newContextServer(t, "")
	loader, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.LoadDocumentContext(ctx, server.URL+"/ctx.jsonld")
	require.Error(t, err)
	assert.Zero(t, server.hits.Load())
}

func TestLoaderLogs(t *testing.T) {
	server := newContextServer(t, "max-age=300")
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	loader, err := New(WithLogger(logger), WithTimeout(time.Second))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := loader.LoadDocument(server.URL + "/ctx.jsonld")
		require.NoError(t, err)
	}
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "context fetched"))
	assert.Equal(t, 1, strings.Count(out, "context cache hit"))
}
