package tags

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the wire type of a tag value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindReal
	KindText
	KindHandle
	KindBinary
	KindPoint2D
	KindPoint3D
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindHandle:
		return "handle"
	case KindBinary:
		return "binary"
	case KindPoint2D:
		return "point2d"
	case KindPoint3D:
		return "point3d"
	default:
		return "invalid"
	}
}

// IsPoint reports whether k is a compiled point kind.
func (k Kind) IsPoint() bool {
	return k == KindPoint2D || k == KindPoint3D
}

// Vec3 is an opaque coordinate triple. Geometry lives elsewhere.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) IsNull() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Value is a decoded tag value. Only the member selected by Kind is
// meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Real  float64
	Text  string
	Point Vec3
	Bytes []byte
}

func Int(v int64) Value { return Value{Kind: KindInt, Int: v} }

func Real(v float64) Value { return Value{Kind: KindReal, Real: v} }

func Text(v string) Value { return Value{Kind: KindText, Text: v} }

func Handle(v string) Value { return Value{Kind: KindHandle, Text: v} }

func Point2D(x, y float64) Value {
	return Value{Kind: KindPoint2D, Point: Vec3{X: x, Y: y}}
}

func Point3D(x, y, z float64) Value {
	return Value{Kind: KindPoint3D, Point: Vec3{X: x, Y: y, Z: z}}
}

// Binary copies b into a binary value.
func Binary(b []byte) Value {
	buf := make([]byte, len(b))
	copy(buf, b)
	return Value{Kind: KindBinary, Bytes: buf}
}

// AsInt returns the value as an integer.
func (v Value) AsInt() (int64, error) {
	if v.Kind != KindInt {
		return 0, fmt.Errorf("%w: got %s want int", ErrKindMismatch, v.Kind)
	}
	return v.Int, nil
}

// AsReal returns the value as a real.
func (v Value) AsReal() (float64, error) {
	if v.Kind != KindReal {
		return 0, fmt.Errorf("%w: got %s want real", ErrKindMismatch, v.Kind)
	}
	return v.Real, nil
}

// AsText returns text and handle values as a string.
func (v Value) AsText() (string, error) {
	if v.Kind != KindText && v.Kind != KindHandle {
		return "", fmt.Errorf("%w: got %s want text", ErrKindMismatch, v.Kind)
	}
	return v.Text, nil
}

// AsPoint returns a 2D or 3D point; 2D points have Z == 0.
func (v Value) AsPoint() (Vec3, error) {
	if !v.Kind.IsPoint() {
		return Vec3{}, fmt.Errorf("%w: got %s want point", ErrKindMismatch, v.Kind)
	}
	return v.Point, nil
}

// AsBytes returns a copy of a binary value.
func (v Value) AsBytes() ([]byte, error) {
	if v.Kind != KindBinary {
		return nil, fmt.Errorf("%w: got %s want binary", ErrKindMismatch, v.Kind)
	}
	buf := make([]byte, len(v.Bytes))
	copy(buf, v.Bytes)
	return buf, nil
}

// Equal compares kind and the member selected by kind.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int == o.Int
	case KindReal:
		return v.Real == o.Real
	case KindText, KindHandle:
		return v.Text == o.Text
	case KindBinary:
		return bytes.Equal(v.Bytes, o.Bytes)
	case KindPoint2D:
		return v.Point.X == o.Point.X && v.Point.Y == o.Point.Y
	case KindPoint3D:
		return v.Point == o.Point
	}
	return true
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return FormatReal(v.Real)
	case KindText, KindHandle:
		return v.Text
	case KindBinary:
		return fmt.Sprintf("%X", v.Bytes)
	case KindPoint2D:
		return fmt.Sprintf("(%s, %s)", FormatReal(v.Point.X), FormatReal(v.Point.Y))
	case KindPoint3D:
		return fmt.Sprintf("(%s, %s, %s)", FormatReal(v.Point.X), FormatReal(v.Point.Y), FormatReal(v.Point.Z))
	}
	return "<invalid>"
}

// FormatReal renders the shortest representation, keeping a trailing ".0"
// on integral values the way DXF producers do.
func FormatReal(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
