package schema

import (
	"math"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

func withDefault(name string, v tags.Value, codes ...int) Attribute {
	return Attribute{Name: name, Codes: codes, Default: &v}
}

// Text declares an optional text attribute.
func Text(name string, code int, def string) Attribute {
	return withDefault(name, tags.Text(def), code)
}

// Handle declares an optional handle attribute.
func Handle(name string, code int, def string) Attribute {
	return withDefault(name, tags.Handle(def), code)
}

// Int declares an optional integer attribute.
func Int(name string, code int, def int64) Attribute {
	return withDefault(name, tags.Int(def), code)
}

// Real declares an optional real attribute.
func Real(name string, code int, def float64) Attribute {
	return withDefault(name, tags.Real(def), code)
}

// Point2D declares an optional 2D point starting at the x axis code.
func Point2D(name string, code int, def tags.Vec3) Attribute {
	return withDefault(name, tags.Point2D(def.X, def.Y), tags.PointCodes(code, 2)...)
}

// Point3D declares an optional 3D point starting at the x axis code.
func Point3D(name string, code int, def tags.Vec3) Attribute {
	return withDefault(name, tags.Point3D(def.X, def.Y, def.Z), tags.PointCodes(code, 3)...)
}

// Required declares a required scalar attribute.
func Required(name string, code int) Attribute {
	return Attribute{Name: name, Codes: []int{code}, Required: true}
}

// Omittable declares a scalar attribute without a default that is only
// written when present.
func Omittable(name string, code int) Attribute {
	return Attribute{Name: name, Codes: []int{code}, Omittable: true}
}

// RequiredPoint declares a required point with dims axes.
func RequiredPoint(name string, code, dims int) Attribute {
	return Attribute{Name: name, Codes: tags.PointCodes(code, dims), Required: true}
}

// Since returns a copy gated to rev and later.
func (a Attribute) Since(rev revision.Revision) Attribute {
	a.MinRevision = rev
	return a
}

// Check returns a copy with a validator; fix replaces invalid loaded values
// with the default.
func (a Attribute) Check(fn func(tags.Value) bool, fix bool) Attribute {
	a.Validator = fn
	a.FixToDefault = fix
	return a
}

// IsIntegerBool accepts the integers 0 and 1.
func IsIntegerBool(v tags.Value) bool {
	return v.Kind == tags.KindInt && (v.Int == 0 || v.Int == 1)
}

// IsInIntRange accepts integers in [lo, hi].
func IsInIntRange(lo, hi int64) func(tags.Value) bool {
	return func(v tags.Value) bool {
		return v.Kind == tags.KindInt && v.Int >= lo && v.Int <= hi
	}
}

// IsGreaterZero accepts positive reals and integers.
func IsGreaterZero(v tags.Value) bool {
	switch v.Kind {
	case tags.KindReal:
		return v.Real > 0
	case tags.KindInt:
		return v.Int > 0
	}
	return false
}

// IsNotZero accepts non-zero reals and integers.
func IsNotZero(v tags.Value) bool {
	switch v.Kind {
	case tags.KindReal:
		return math.Abs(v.Real) > 1e-12
	case tags.KindInt:
		return v.Int != 0
	}
	return false
}

// IsNotNullVector rejects the zero vector.
func IsNotNullVector(v tags.Value) bool {
	return v.Kind.IsPoint() && !v.Point.IsNull()
}
