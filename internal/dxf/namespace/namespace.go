// Package namespace loads entity tags into named attributes and writes them
// back out in canonical order.
//
// Ownership boundary:
// - sub-record partitioning (Processor)
// - the per-entity attribute bag (Namespace)
// - revision-gated export ordering
package namespace

import (
	"fmt"

	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

// extra is a run of tags the schema did not claim. anchor names the
// subclass after whose attributes the run is re-emitted; foreign runs are
// whole unknown sub-records, marker tag included. appData runs are one
// application data group, re-emitted behind the attribute named by after,
// or directly after the subclass marker when after is empty.
type extra struct {
	anchor  string
	after   string
	foreign bool
	appData bool
	tags    []tags.Tag
}

// Namespace is the mutable attribute bag of one entity.
type Namespace struct {
	dxftype string
	schema  *schema.Entity
	values  map[string]tags.Value
	extras  []extra
	xdata   []tags.Tag
	issues  []error
}

func newNamespace(dxftype string, s *schema.Entity) *Namespace {
	return &Namespace{
		dxftype: dxftype,
		schema:  s,
		values:  make(map[string]tags.Value),
	}
}

// NewDefault builds a namespace holding every schema default. Attributes
// without a default stay absent until Set.
func NewDefault(s *schema.Entity) *Namespace {
	ns := newNamespace(s.Type, s)
	for si := range s.Subclasses {
		for _, attr := range s.Subclasses[si].Attributes {
			if attr.Default != nil {
				ns.values[attr.Name] = *attr.Default
			}
		}
	}
	return ns
}

// Load partitions raw and loads it against s.
func Load(s *schema.Entity, raw []tags.Tag) (*Namespace, error) {
	return NewProcessor(raw).Load(s)
}

// Type returns the entity type name.
func (ns *Namespace) Type() string {
	return ns.dxftype
}

// Schema returns the schema the namespace was built for.
func (ns *Namespace) Schema() *schema.Entity {
	return ns.schema
}

// Get returns the stored value of name.
func (ns *Namespace) Get(name string) (tags.Value, bool) {
	v, ok := ns.values[name]
	return v, ok
}

// Has reports whether name holds a value.
func (ns *Namespace) Has(name string) bool {
	_, ok := ns.values[name]
	return ok
}

// Set stores v for a schema attribute. A 2D point is widened for 3D
// attributes.
func (ns *Namespace) Set(name string, v tags.Value) error {
	attr, _, ok := ns.schema.Attribute(name)
	if !ok {
		return fmt.Errorf("%w: type=%s attribute=%s", ErrUnknownAttribute, ns.dxftype, name)
	}
	want := attr.Kind()
	if want == tags.KindPoint3D && v.Kind == tags.KindPoint2D {
		v = tags.Point3D(v.Point.X, v.Point.Y, 0)
	}
	if v.Kind != want {
		return TypeMismatchError{Attribute: name, Code: attr.Codes[0], Expected: want, Found: v.Kind}
	}
	if !attr.Valid(v) {
		return InvalidValueError{Type: ns.dxftype, Attribute: name, Value: v}
	}
	ns.values[name] = v
	return nil
}

// Reset restores the default of name; attributes without a default become
// absent.
func (ns *Namespace) Reset(name string) error {
	attr, _, ok := ns.schema.Attribute(name)
	if !ok {
		return fmt.Errorf("%w: type=%s attribute=%s", ErrUnknownAttribute, ns.dxftype, name)
	}
	if attr.Default == nil {
		delete(ns.values, name)
		return nil
	}
	ns.values[name] = *attr.Default
	return nil
}

func (ns *Namespace) Text(name string) (string, error) {
	return ns.typed(name).AsText()
}

func (ns *Namespace) Int(name string) (int64, error) {
	return ns.typed(name).AsInt()
}

func (ns *Namespace) Real(name string) (float64, error) {
	return ns.typed(name).AsReal()
}

func (ns *Namespace) Point(name string) (tags.Vec3, error) {
	return ns.typed(name).AsPoint()
}

// typed returns the zero Value for absent names so the As* accessors report
// a kind mismatch.
func (ns *Namespace) typed(name string) tags.Value {
	return ns.values[name]
}

// Unclaimed returns the tags no attribute claimed, in original order.
// XData is not included.
func (ns *Namespace) Unclaimed() []tags.Tag {
	var out []tags.Tag
	for _, e := range ns.extras {
		out = append(out, e.tags...)
	}
	return out
}

// XData returns the extended data tags, starting at the first 1001 tag.
func (ns *Namespace) XData() []tags.Tag {
	return append([]tags.Tag(nil), ns.xdata...)
}

// Issues returns non-fatal load problems: optional attributes that fell back
// to their default and values that failed validation.
func (ns *Namespace) Issues() []error {
	return append([]error(nil), ns.issues...)
}
