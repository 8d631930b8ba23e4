// Package schema declares how entity attributes map to group codes.
//
// An entity schema is an ordered list of subclasses, each an ordered list of
// attributes. The order drives both load segmentation and export emission.
package schema

import (
	"fmt"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

// Attribute declares one logical attribute of an entity.
type Attribute struct {
	Name     string
	Codes    []int
	Default  *tags.Value
	Required bool
	// Omittable attributes have no default: absent on load, they stay
	// absent and are not written.
	Omittable bool
	// MinRevision gates export of this attribute only.
	MinRevision revision.Revision
	// Validator, when set, is checked on load and on Set.
	Validator func(tags.Value) bool
	// FixToDefault replaces invalid loaded values with the default.
	FixToDefault bool
}

// Kind returns the value kind stored for the attribute.
func (a Attribute) Kind() tags.Kind {
	switch len(a.Codes) {
	case 2:
		return tags.KindPoint2D
	case 3:
		return tags.KindPoint3D
	case 1:
		return tags.TypeOf(a.Codes[0])
	}
	return tags.KindInvalid
}

// IsPoint reports whether the attribute spans several axis codes.
func (a Attribute) IsPoint() bool {
	return len(a.Codes) > 1
}

// Valid reports whether v passes the attribute validator.
func (a Attribute) Valid(v tags.Value) bool {
	return a.Validator == nil || a.Validator(v)
}

// Subclass is an ordered attribute group under one marker. The empty marker
// is the base sub-record, i.e. the tags before the first marker.
type Subclass struct {
	Marker      string
	Attributes  []Attribute
	MinRevision revision.Revision
}

// IsBase reports whether s is the unmarked base sub-record.
func (s *Subclass) IsBase() bool {
	return s.Marker == ""
}

// Attribute looks up an attribute by name.
func (s *Subclass) Attribute(name string) (*Attribute, bool) {
	for i := range s.Attributes {
		if s.Attributes[i].Name == name {
			return &s.Attributes[i], true
		}
	}
	return nil, false
}

// Entity is the full schema of one entity type.
type Entity struct {
	Type        string
	Subclasses  []Subclass
	MinRevision revision.Revision

	index map[string]attrRef
}

type attrRef struct {
	subclass  int
	attribute int
}

// Subclass looks up a subclass by marker name.
func (e *Entity) Subclass(marker string) (*Subclass, bool) {
	for i := range e.Subclasses {
		if e.Subclasses[i].Marker == marker {
			return &e.Subclasses[i], true
		}
	}
	return nil, false
}

// Attribute looks up an attribute by name across all subclasses.
func (e *Entity) Attribute(name string) (*Attribute, *Subclass, bool) {
	ref, ok := e.index[name]
	if !ok {
		return nil, nil, false
	}
	sub := &e.Subclasses[ref.subclass]
	return &sub.Attributes[ref.attribute], sub, true
}

// Exportable reports whether the entity exists at rev.
func (e *Entity) Exportable(rev revision.Revision) bool {
	return rev.Satisfies(e.MinRevision)
}

// HasBase reports whether the first subclass is the base sub-record.
func (e *Entity) HasBase() bool {
	return len(e.Subclasses) > 0 && e.Subclasses[0].IsBase()
}

// DeclarationError reports an inconsistent schema declaration.
type DeclarationError struct {
	Type      string
	Subclass  string
	Attribute string
	Reason    string
}

func (e DeclarationError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("schema: type=%s subclass=%q: %s", e.Type, e.Subclass, e.Reason)
	}
	return fmt.Sprintf("schema: type=%s subclass=%q attribute=%s: %s", e.Type, e.Subclass, e.Attribute, e.Reason)
}

// New validates and indexes an entity schema.
func New(typeName string, subclasses ...Subclass) (*Entity, error) {
	e := &Entity{
		Type:       typeName,
		Subclasses: subclasses,
		index:      make(map[string]attrRef),
	}
	markers := make(map[string]struct{}, len(subclasses))
	for si := range e.Subclasses {
		sub := &e.Subclasses[si]
		if _, dup := markers[sub.Marker]; dup {
			return nil, DeclarationError{Type: typeName, Subclass: sub.Marker, Reason: "duplicate subclass marker"}
		}
		markers[sub.Marker] = struct{}{}
		if sub.IsBase() && si != 0 {
			return nil, DeclarationError{Type: typeName, Reason: "base subclass must come first"}
		}
		for ai := range sub.Attributes {
			attr := &sub.Attributes[ai]
			if err := checkAttribute(typeName, sub.Marker, attr); err != nil {
				return nil, err
			}
			if _, dup := e.index[attr.Name]; dup {
				return nil, DeclarationError{Type: typeName, Subclass: sub.Marker, Attribute: attr.Name, Reason: "duplicate attribute name"}
			}
			e.index[attr.Name] = attrRef{subclass: si, attribute: ai}
		}
	}
	return e, nil
}

// MustNew is New for package-level declarations.
func MustNew(typeName string, subclasses ...Subclass) *Entity {
	e, err := New(typeName, subclasses...)
	if err != nil {
		panic(err)
	}
	return e
}

func checkAttribute(typeName, marker string, a *Attribute) error {
	fail := func(reason string) error {
		return DeclarationError{Type: typeName, Subclass: marker, Attribute: a.Name, Reason: reason}
	}
	if a.Name == "" {
		return fail("empty attribute name")
	}
	switch len(a.Codes) {
	case 0:
		return fail("no group codes")
	case 1:
	case 2, 3:
		if !tags.IsPointCode(a.Codes[0]) {
			return fail("point attribute must start on an x axis code")
		}
		for i := 1; i < len(a.Codes); i++ {
			if a.Codes[i] != a.Codes[0]+10*i {
				return fail("point axis codes must step by 10")
			}
		}
	default:
		return fail("too many group codes")
	}
	if a.Omittable && (a.Required || a.Default != nil) {
		return fail("omittable attribute cannot be required or carry a default")
	}
	if a.Default == nil {
		if !a.Required && !a.Omittable {
			return fail("optional attribute needs a default")
		}
		return nil
	}
	if a.Default.Kind != a.Kind() {
		return fail(fmt.Sprintf("default kind %s does not match %s", a.Default.Kind, a.Kind()))
	}
	return nil
}
