package tagio

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danmuck/dxftags/internal/dxf/tags"
)

// Writer encodes tags as line pairs. It implements tags.Writer; call Flush
// when done.
type Writer struct {
	bw *bufio.Writer
	n  int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteTag writes one tag. A compiled point is written as one real tag per
// axis.
func (w *Writer) WriteTag(t tags.Tag) error {
	switch t.Value.Kind {
	case tags.KindPoint2D, tags.KindPoint3D:
		axes := []float64{t.Value.Point.X, t.Value.Point.Y, t.Value.Point.Z}
		if t.Value.Kind == tags.KindPoint2D {
			axes = axes[:2]
		}
		for i, f := range axes {
			if err := w.pair(t.Code+10*i, tags.FormatReal(f)); err != nil {
				return err
			}
		}
		return nil
	}
	s, err := FormatValue(t.Value)
	if err != nil {
		return fmt.Errorf("tagio: code %d: %w", t.Code, err)
	}
	return w.pair(t.Code, s)
}

func (w *Writer) pair(code int, value string) error {
	w.n++
	_, err := fmt.Fprintf(w.bw, "%3d\n%s\n", code, value)
	return err
}

// Count returns the number of line pairs written.
func (w *Writer) Count() int { return w.n }

func (w *Writer) Flush() error { return w.bw.Flush() }

// FormatValue renders a scalar value line.
func FormatValue(v tags.Value) (string, error) {
	switch v.Kind {
	case tags.KindInt:
		return strconv.FormatInt(v.Int, 10), nil
	case tags.KindReal:
		return tags.FormatReal(v.Real), nil
	case tags.KindText, tags.KindHandle:
		if strings.ContainsAny(v.Text, "\r\n") {
			return "", fmt.Errorf("value %q spans lines", v.Text)
		}
		return v.Text, nil
	case tags.KindBinary:
		return strings.ToUpper(hex.EncodeToString(v.Bytes)), nil
	}
	return "", fmt.Errorf("%w: cannot format %s", tags.ErrKindMismatch, v.Kind)
}

// Encode writes ts to w.
func Encode(w io.Writer, ts []tags.Tag) error {
	tw := NewWriter(w)
	if err := tags.WriteAll(tw, ts); err != nil {
		return err
	}
	return tw.Flush()
}
