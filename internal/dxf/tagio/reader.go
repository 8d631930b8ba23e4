// Package tagio reads and writes the ASCII DXF line-pair format: a group
// code line followed by a value line.
package tagio

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/dxftags/internal/dxf/tags"
)

var ErrSyntax = errors.New("tagio: syntax error")

// SyntaxError reports a malformed line pair. Line is 1-based.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("tagio: line %d: %s", e.Line, e.Reason)
}

func (e SyntaxError) Is(target error) bool { return target == ErrSyntax }

const maxLine = 1 << 20

// Reader decodes tags from a line-pair stream.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc}
}

func (r *Reader) next() (string, bool, error) {
	if !r.sc.Scan() {
		return "", false, r.sc.Err()
	}
	r.line++
	return strings.TrimSuffix(r.sc.Text(), "\r"), true, nil
}

// Next returns the next tag, or io.EOF at the end of the stream.
func (r *Reader) Next() (tags.Tag, error) {
	codeLine, ok, err := r.next()
	if err != nil {
		return tags.Tag{}, err
	}
	if !ok {
		return tags.Tag{}, io.EOF
	}
	code, err := strconv.Atoi(strings.TrimSpace(codeLine))
	if err != nil {
		return tags.Tag{}, SyntaxError{Line: r.line, Reason: fmt.Sprintf("invalid group code %q", codeLine)}
	}
	valueLine, ok, err := r.next()
	if err != nil {
		return tags.Tag{}, err
	}
	if !ok {
		return tags.Tag{}, SyntaxError{Line: r.line, Reason: fmt.Sprintf("missing value for group code %d", code)}
	}
	return tags.Tag{Code: code, Value: ParseValue(code, valueLine)}, nil
}

// ParseValue types raw through the group code range table. Values that do
// not parse as their expected kind are kept as text, so the schema layer
// reports the mismatch and the raw value survives a round trip.
func ParseValue(code int, raw string) tags.Value {
	s := strings.TrimSpace(raw)
	switch tags.TypeOf(code) {
	case tags.KindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return tags.Int(n)
		}
	case tags.KindReal:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return tags.Real(f)
		}
	case tags.KindHandle:
		if _, err := strconv.ParseUint(s, 16, 64); err == nil {
			return tags.Handle(s)
		}
	case tags.KindBinary:
		if b, err := hex.DecodeString(s); err == nil {
			return tags.Binary(b)
		}
	default:
		return tags.Text(raw)
	}
	return tags.Text(raw)
}

// Decode reads every tag from r.
func Decode(r io.Reader) ([]tags.Tag, error) {
	rd := NewReader(r)
	var out []tags.Tag
	for {
		t, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
}
