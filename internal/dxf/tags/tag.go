package tags

import "fmt"

// Tag is one (group code, value) pair.
type Tag struct {
	Code  int
	Value Value
}

// New builds a tag and checks that v matches the wire kind of code.
// Compiled points are accepted on x axis codes.
func New(code int, v Value) (Tag, error) {
	want := TypeOf(code)
	if v.Kind != want && !(v.Kind.IsPoint() && IsPointCode(code)) {
		return Tag{}, fmt.Errorf("%w: code %d got %s want %s", ErrKindMismatch, code, v.Kind, want)
	}
	return Tag{Code: code, Value: v}, nil
}

// Marker returns the subclass marker tag for name.
func Marker(name string) Tag {
	return Tag{Code: CodeSubclassMarker, Value: Text(name)}
}

// Structure returns the (0, name) tag that starts a record.
func Structure(name string) Tag {
	return Tag{Code: CodeStructure, Value: Text(name)}
}

// IsMarker reports whether t is a subclass marker.
func (t Tag) IsMarker() bool {
	return t.Code == CodeSubclassMarker && t.Value.Kind == KindText
}

// Equal compares code and value.
func (t Tag) Equal(o Tag) bool {
	return t.Code == o.Code && t.Value.Equal(o.Value)
}

func (t Tag) String() string {
	return fmt.Sprintf("(%d, %s)", t.Code, t.Value)
}

// Writer is the export sink. The core only writes to it.
type Writer interface {
	WriteTag(t Tag) error
}

// Collector is an in-memory Writer.
type Collector struct {
	Tags []Tag
}

func (c *Collector) WriteTag(t Tag) error {
	c.Tags = append(c.Tags, t)
	return nil
}

// WriteAll writes every tag in order.
func WriteAll(w Writer, ts []Tag) error {
	for _, t := range ts {
		if err := w.WriteTag(t); err != nil {
			return err
		}
	}
	return nil
}

// Find returns the index of the first tag with code, or -1.
func Find(ts []Tag, code int) int {
	for i, t := range ts {
		if t.Code == code {
			return i
		}
	}
	return -1
}

// RecordType returns the type name carried by the leading structure tag.
func RecordType(record []Tag) (string, error) {
	if len(record) == 0 {
		return "", ErrEmptyRecord
	}
	head := record[0]
	if head.Code != CodeStructure || head.Value.Kind != KindText {
		return "", ErrNoStructure
	}
	return head.Value.Text, nil
}

// Records splits a flat stream into records, each starting at a structure
// tag. Tags before the first structure tag form their own record.
func Records(stream []Tag) [][]Tag {
	var out [][]Tag
	start := 0
	for i, t := range stream {
		if t.Code == CodeStructure && i > start {
			out = append(out, stream[start:i])
			start = i
		}
	}
	if start < len(stream) {
		out = append(out, stream[start:])
	}
	return out
}
