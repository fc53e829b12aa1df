package codec

import (
	"fmt"

	"github.com/geoknoesis/rdf-access/rdf"
)

// DecodeError reports input that could not be read or parsed.
type DecodeError struct {
	Format rdf.Format
	Source string // file path, empty for in-memory content
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("codec: decode %s from %s: %v", e.Format, e.Source, e.Err)
	}
	return fmt.Sprintf("codec: decode %s: %v", e.Format, e.Err)
}

// Unwrap exposes rdf.ErrDecode and the cause.
func (e *DecodeError) Unwrap() []error { return []error{rdf.ErrDecode, e.Err} }

// Encode stages.
const (
	StageContext   = "context"
	StageSerialize = "serialize"
)

// EncodeError reports a graph that could not be serialized, or a JSON-LD
// context document that could not be applied.
type EncodeError struct {
	Stage string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("codec: encode (%s): %v", e.Stage, e.Err)
}

// Unwrap exposes rdf.ErrEncode and the cause.
func (e *EncodeError) Unwrap() []error { return []error{rdf.ErrEncode, e.Err} }

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("codec: %w: %s", rdf.ErrConfig, fmt.Sprintf(format, args...))
}
