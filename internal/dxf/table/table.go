// Package table wraps a DXF symbol table: the TABLE head record, its typed
// entries and the closing ENDTAB.
package table

import (
	"errors"
	"fmt"

	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/registry"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/rs/zerolog/log"
)

const (
	recordTable  = "TABLE"
	recordEndTab = "ENDTAB"
)

var ErrStructural = errors.New("table: structural error")

// StructuralError reports a table whose head record is missing, that is not
// closed by ENDTAB, or that lacks a tag an operation needs.
type StructuralError struct {
	Table  string
	Reason string
}

func (e StructuralError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("table: %s", e.Reason)
	}
	return fmt.Sprintf("table %s: %s", e.Table, e.Reason)
}

func (e StructuralError) Is(target error) bool { return target == ErrStructural }

// Table is one symbol table. Head holds the raw TABLE record, structure tag
// included.
type Table struct {
	Head    []tags.Tag
	Entries []entity.Entity
}

// Loader turns one entry record into an entity. A nil entity with a nil
// error drops the record.
type Loader func(record []tags.Tag) (entity.Entity, error)

// Parse builds a table from its records in stream order: the TABLE head, the
// entries, and the closing ENDTAB.
func Parse(reg *registry.Registry, records [][]tags.Tag) (*Table, error) {
	return ParseWith(reg.Load, records)
}

// ParseWith is Parse with a caller-supplied entry loader. A table that is not
// closed by ENDTAB before a section boundary or the end of records is a
// StructuralError; no entry is loaded then.
func ParseWith(load Loader, records [][]tags.Tag) (*Table, error) {
	if len(records) == 0 {
		return nil, StructuralError{Reason: "no records"}
	}
	head := records[0]
	if name, err := tags.RecordType(head); err != nil || name != recordTable {
		return nil, StructuralError{Reason: "missing TABLE head record"}
	}
	t := &Table{Head: append([]tags.Tag(nil), head...)}
	end, err := closingIndex(t.Name(), records)
	if err != nil {
		return nil, err
	}
	for _, rec := range records[1:end] {
		e, err := load(rec)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name(), err)
		}
		if e != nil {
			t.Entries = append(t.Entries, e)
		}
	}
	log.Debug().Str("table", t.Name()).Int("entries", len(t.Entries)).Msg("table.Parse")
	return t, nil
}

// closingIndex returns the index of the ENDTAB record closing the table.
func closingIndex(name string, records [][]tags.Tag) (int, error) {
	for i, rec := range records[1:] {
		rt, err := tags.RecordType(rec)
		if err != nil {
			return 0, err
		}
		switch rt {
		case recordEndTab:
			return i + 1, nil
		case "SECTION", "ENDSEC", "EOF":
			return 0, StructuralError{Table: name, Reason: "missing ENDTAB before " + rt}
		}
	}
	return 0, StructuralError{Table: name, Reason: "missing ENDTAB"}
}

// Name returns the table name from the head's code 2 tag.
func (t *Table) Name() string {
	if i := tags.Find(t.Head, tags.CodeName); i >= 0 {
		return t.Head[i].Value.Text
	}
	return ""
}

// SetCount overwrites the head's entry count (code 70) in place.
func (t *Table) SetCount(n int) error {
	if len(t.Head) == 0 {
		return StructuralError{Reason: "missing TABLE head record"}
	}
	i := tags.Find(t.Head, tags.CodeCount)
	if i < 0 {
		return StructuralError{Table: t.Name(), Reason: "head has no count tag (70)"}
	}
	t.Head[i] = tags.Tag{Code: tags.CodeCount, Value: tags.Int(int64(n))}
	return nil
}

// SyncCount sets the head count to the number of entries.
func (t *Table) SyncCount() error {
	return t.SetCount(len(t.Entries))
}

// Add appends e to the entries. The head count is left alone.
func (t *Table) Add(e entity.Entity) {
	t.Entries = append(t.Entries, e)
}

// Export writes the head, every entry that exists at rev, and ENDTAB. At R12
// the head loses its subclass markers and owner handle.
func (t *Table) Export(w tags.Writer, rev revision.Revision) error {
	if len(t.Head) == 0 {
		return StructuralError{Reason: "missing TABLE head record"}
	}
	for _, tag := range t.Head {
		if !rev.UsesSubclassMarkers() && (tag.Code == tags.CodeSubclassMarker || tag.Code == tags.CodeOwner) {
			continue
		}
		if err := w.WriteTag(tag); err != nil {
			return err
		}
	}
	for _, e := range t.Entries {
		if _, err := e.ExportDXF(w, rev); err != nil {
			return fmt.Errorf("table %s: %w", t.Name(), err)
		}
	}
	return w.WriteTag(tags.Structure(recordEndTab))
}

// NewEntry creates a table entry of a registered type with defaults,
// handle and attribs applied.
func NewEntry(reg *registry.Registry, dxftype, handle string, attribs map[string]tags.Value) (entity.Entity, error) {
	ctor, err := reg.ResolveRequired(dxftype)
	if err != nil {
		return nil, err
	}
	e := ctor(dxftype)
	merged := make(map[string]tags.Value, len(attribs)+1)
	for k, v := range attribs {
		merged[k] = v
	}
	merged["handle"] = tags.Handle(handle)
	if err := entity.InitWith(e, merged); err != nil {
		return nil, err
	}
	return e, nil
}
