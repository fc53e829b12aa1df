package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/geoknoesis/rdf-access/rdf"
)

const sniffBytes = 512

func fileURL(path string) (*url.URL, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// mediaTypeFor picks the input media type: an explicit value or
// configuration first, then the file extension, then the content.
func (a *app) mediaTypeFor(path, explicit string, sample []byte) string {
	if explicit != "" {
		return explicit
	}
	if a.cfg.Codec.InputType != "" {
		return a.cfg.Codec.InputType
	}
	if format, ok := rdf.FormatForFileName(path); ok {
		return format.MediaType()
	}
	if format, ok := rdf.DetectFormat(sample); ok {
		a.logger.Debug("detected input format", "path", path, "format", format)
		return format.MediaType()
	}
	return rdf.MediaTypeTurtle
}

// decodeInput reads path, or stdin for "-", into a graph.
func (a *app) decodeInput(ctx context.Context, path, mediaType string, stdin io.Reader) (*rdf.Graph, error) {
	base, err := a.baseFor(path)
	if err != nil {
		return nil, err
	}
	if path == "-" {
		r := bufio.NewReaderSize(stdin, sniffBytes)
		sample, _ := r.Peek(sniffBytes)
		return a.codec.DecodeReader(ctx, base, r, a.mediaTypeFor(path, mediaType, sample))
	}

	var sample []byte
	if mediaType == "" && a.cfg.Codec.InputType == "" {
		if _, ok := rdf.FormatForFileName(path); !ok {
			sample, err = readSample(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
		}
	}
	return a.codec.DecodeFromSource(base, path, a.mediaTypeFor(path, mediaType, sample))
}

func readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, sniffBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}
