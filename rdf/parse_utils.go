package rdf

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unicode surrogate range, used when joining \uXXXX\uXXXX pairs.
const (
	surrogateHighStart = 0xD800
	surrogateHighEnd   = 0xDBFF
	surrogateLowStart  = 0xDC00
	surrogateLowEnd    = 0xDFFF
)

var errInvalidEscape = errors.New("invalid escape sequence")

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// decodeUChar decodes the 4 or 8 hex digits of a \u or \U escape.
// It returns -1 on malformed input.
func decodeUChar(hex string) rune {
	if len(hex) != 4 && len(hex) != 8 {
		return -1
	}
	var codePoint rune
	for i := 0; i < len(hex); i++ {
		ch := hex[i]
		var digit rune
		switch {
		case ch >= '0' && ch <= '9':
			digit = rune(ch - '0')
		case ch >= 'a' && ch <= 'f':
			digit = rune(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			digit = rune(ch-'A') + 10
		default:
			return -1
		}
		codePoint = codePoint<<4 | digit
	}
	return codePoint
}

// isValidLangTag checks the BCP 47 shape used by Turtle and N-Triples:
// a 1-8 letter primary subtag followed by alphanumeric subtags.
func isValidLangTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, part := range strings.Split(tag, "-") {
		if part == "" || len(part) > 8 {
			return false
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			digit := ch >= '0' && ch <= '9'
			if !letter && (i == 0 || !digit) {
				return false
			}
		}
	}
	return true
}

func isValidPrefixName(prefix string) bool {
	if prefix == "" {
		return true
	}
	if prefix[len(prefix)-1] == '.' {
		return false
	}
	first := prefix[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first >= 0x80) {
		return false
	}
	for i := 1; i < len(prefix); i++ {
		ch := prefix[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') ||
			ch == '_' || ch == '-' || ch == '.' || ch >= 0x80 {
			continue
		}
		return false
	}
	return true
}

// unescapeString decodes the escape sequences allowed in Turtle and
// N-Triples string literals, including surrogate pairs written as two \u escapes.
func unescapeString(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		ch := s[i]
		if ch != '\\' {
			b.WriteByte(ch)
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", errInvalidEscape
		}
		switch esc := s[i+1]; esc {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(esc)
		case 'u', 'U':
			r, width, err := unescapeCodePoint(s, i)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += width
			continue
		default:
			return "", errInvalidEscape
		}
		i += 2
	}
	return b.String(), nil
}

// unescapeCodePoint decodes the \u or \U escape at s[i] and returns the rune
// and the number of bytes consumed.
func unescapeCodePoint(s string, i int) (rune, int, error) {
	size := 4
	if s[i+1] == 'U' {
		size = 8
	}
	if i+2+size > len(s) {
		return 0, 0, errInvalidEscape
	}
	r := decodeUChar(s[i+2 : i+2+size])
	width := 2 + size
	if r >= surrogateHighStart && r <= surrogateHighEnd && size == 4 {
		if i+12 > len(s) || s[i+6] != '\\' || s[i+7] != 'u' {
			return 0, 0, errInvalidEscape
		}
		low := decodeUChar(s[i+8 : i+12])
		if low < surrogateLowStart || low > surrogateLowEnd {
			return 0, 0, errInvalidEscape
		}
		r = 0x10000 + (r-surrogateHighStart)<<10 + (low - surrogateLowStart)
		width = 12
	}
	if r < 0 || r > utf8.MaxRune || (r >= surrogateHighStart && r <= surrogateLowEnd) {
		return 0, 0, errInvalidEscape
	}
	return r, width, nil
}

// escapeNTriplesString escapes a lexical form for a double-quoted
// N-Triples or Turtle string.
func escapeNTriplesString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7F {
				const hex = "0123456789ABCDEF"
				b.WriteString(`\u00`)
				b.WriteByte(hex[r>>4])
				b.WriteByte(hex[r&0xF])
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// readLineWithLimit reads one line. A line longer than maxBytes is consumed
// and reported as ErrLineTooLong. maxBytes <= 0 disables the limit.
func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	var buffer []byte
	for {
		part, err := reader.ReadSlice('\n')
		buffer = append(buffer, part...)
		if maxBytes > 0 && len(buffer) > maxBytes {
			discardLine(reader, err)
			return "", ErrLineTooLong
		}
		switch {
		case err == nil:
			return string(buffer), nil
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buffer) > 0:
			return string(buffer), nil
		default:
			return "", err
		}
	}
}

func discardLine(reader *bufio.Reader, lastErr error) {
	for lastErr == bufio.ErrBufferFull {
		_, lastErr = reader.ReadSlice('\n')
	}
}

// labelMinter mints genidN blank node labels that skip labels already
// written in the document.
type labelMinter struct {
	seq      int
	reserved map[string]struct{}
}

func (m *labelMinter) next() BlankNode {
	for {
		m.seq++
		id := "genid" + strconv.Itoa(m.seq)
		if _, taken := m.reserved[id]; !taken {
			return BlankNode{ID: id}
		}
	}
}
