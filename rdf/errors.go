package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeNotFound indicates required data is absent from a graph.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeTypeMismatch indicates data of the wrong term kind or datatype.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeDecode indicates input could not be decoded into a graph.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeEncode indicates a graph could not be serialized.
	ErrCodeEncode ErrorCode = "ENCODE_ERROR"
	// ErrCodeConfig indicates the caller supplied an empty or invalid configuration.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeLineTooLong indicates a line exceeded the configured limit.
	ErrCodeLineTooLong ErrorCode = "LINE_TOO_LONG"
	// ErrCodeInputTooLarge indicates the input exceeded the configured size limit.
	ErrCodeInputTooLarge ErrorCode = "INPUT_TOO_LARGE"
	// ErrCodeTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrCodeTripleLimitExceeded ErrorCode = "TRIPLE_LIMIT_EXCEEDED"
	// ErrCodeParseError is reported for errors that match no other code.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
)

var (
	// ErrNotFound is matched by every error reporting absent required data.
	ErrNotFound = errors.New("rdf: not found")
	// ErrTypeMismatch is matched by every error reporting a term of the wrong kind or datatype.
	ErrTypeMismatch = errors.New("rdf: type mismatch")
	// ErrDecode is matched by every decode failure.
	ErrDecode = errors.New("rdf: decode failed")
	// ErrEncode is matched by every encode failure.
	ErrEncode = errors.New("rdf: encode failed")
	// ErrConfig is matched by configuration errors.
	ErrConfig = errors.New("rdf: invalid configuration")

	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("rdf: unsupported format")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("rdf: line exceeds configured limit")
	// ErrInputTooLarge indicates the input exceeded the configured size limit.
	ErrInputTooLarge = errors.New("rdf: input exceeds configured limit")
	// ErrTripleLimitExceeded indicates that the maximum number of triples was exceeded.
	ErrTripleLimitExceeded = errors.New("rdf: maximum number of triples exceeded")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF.
//
// Limit and format sentinels are checked before the broad decode/encode
// kinds so that a decode failure caused by a size limit reports the limit.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrTypeMismatch):
		return ErrCodeTypeMismatch
	case errors.Is(err, ErrConfig):
		return ErrCodeConfig
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrInputTooLarge):
		return ErrCodeInputTooLarge
	case errors.Is(err, ErrTripleLimitExceeded):
		return ErrCodeTripleLimitExceeded
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	case errors.Is(err, ErrEncode):
		return ErrCodeEncode
	case errors.Is(err, ErrDecode):
		// *ParseError unwraps to ErrDecode.
		return ErrCodeDecode
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format    Format // Format being parsed
	Statement string // Offending input excerpt, if known
	Line      int    // 1-based line number (0 if unknown)
	Column    int    // 1-based column number (0 if unknown)
	Err       error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(string(e.Format))
	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}
	msg.WriteString(": ")
	if e.Err != nil {
		msg.WriteString(e.Err.Error())
	} else {
		msg.WriteString("syntax error")
	}
	if excerpt := e.excerpt(); excerpt != "" {
		msg.WriteString("\n  ")
		msg.WriteString(excerpt)
	}
	return msg.String()
}

// Unwrap exposes both ErrDecode and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// excerpt shows the statement around the failing column with a caret under it.
func (e *ParseError) excerpt() string {
	const maxExcerptLen = 80
	const contextLen = 40

	if e.Statement == "" {
		return ""
	}
	if e.Column <= 0 {
		if len(e.Statement) > maxExcerptLen {
			return e.Statement[:maxExcerptLen] + "..."
		}
		return e.Statement
	}

	at := e.Column - 1
	if at > len(e.Statement) {
		at = len(e.Statement)
	}
	start := max(at-contextLen, 0)
	end := min(at+contextLen, len(e.Statement))

	prefix := ""
	if start > 0 {
		prefix = "..."
	}
	suffix := ""
	if end < len(e.Statement) {
		suffix = "..."
	}
	caret := len(prefix) + at - start
	return prefix + e.Statement[start:end] + suffix + "\n  " + strings.Repeat(" ", caret) + "^"
}

func newParseError(format Format, line, column int, statement string, err error) error {
	if err == nil {
		return nil
	}
	var existing *ParseError
	if errors.As(err, &existing) {
		return err
	}
	return &ParseError{Format: format, Statement: statement, Line: line, Column: column, Err: err}
}
