// Package entity defines the polymorphic entity contract and the generic
// fallback entity used for types without a dedicated schema.
package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/dxftags/internal/dxf/namespace"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotLoaded    = errors.New("entity: not loaded")
	ErrTypeMismatch = errors.New("entity: record type does not match entity type")
)

// Entity is one typed record. Entities start Unloaded and become Loaded
// through LoadTags or InitDefault; export is repeatable.
type Entity interface {
	DXFType() string
	Schema() *schema.Entity
	DXF() *namespace.Namespace
	Loaded() bool
	LoadTags(raw []tags.Tag) error
	InitDefault()
	// ExportDXF writes the record with its structure tag. It reports false
	// when the entity does not exist at rev.
	ExportDXF(w tags.Writer, rev revision.Revision) (bool, error)
}

// Base implements Entity for any schema. Specialised entities embed it.
type Base struct {
	dxftype string
	schema  *schema.Entity
	dxf     *namespace.Namespace
}

// NewBase returns an Unloaded entity of dxftype described by s.
func NewBase(dxftype string, s *schema.Entity) *Base {
	return &Base{dxftype: dxftype, schema: s}
}

func (b *Base) DXFType() string { return b.dxftype }

func (b *Base) Schema() *schema.Entity { return b.schema }

// DXF returns the attribute namespace, nil while Unloaded.
func (b *Base) DXF() *namespace.Namespace { return b.dxf }

func (b *Base) Loaded() bool { return b.dxf != nil }

// LoadTags loads a raw record. On failure the entity stays Unloaded.
func (b *Base) LoadTags(raw []tags.Tag) error {
	if len(raw) > 0 && raw[0].Code == tags.CodeStructure && raw[0].Value.Text != b.dxftype {
		return fmt.Errorf("%w: record=%s entity=%s", ErrTypeMismatch, raw[0].Value.Text, b.dxftype)
	}
	ns, err := namespace.Load(b.schema, raw)
	if err != nil {
		return err
	}
	b.dxf = ns
	return nil
}

// InitDefault loads the schema defaults.
func (b *Base) InitDefault() {
	b.dxf = namespace.NewDefault(b.schema)
}

func (b *Base) ExportDXF(w tags.Writer, rev revision.Revision) (bool, error) {
	if b.dxf == nil {
		return false, fmt.Errorf("%w: type=%s", ErrNotLoaded, b.dxftype)
	}
	if !b.schema.Exportable(rev) {
		log.Debug().Str("type", b.dxftype).Str("revision", rev.String()).Msg("entity.ExportDXF skipped below minimum revision")
		return false, nil
	}
	if err := w.WriteTag(tags.Structure(b.dxftype)); err != nil {
		return false, err
	}
	if err := b.dxf.Export(w, b.schema, rev); err != nil {
		return false, err
	}
	return true, nil
}

// InitWith loads the schema defaults into e and applies attribs in name
// order.
func InitWith(e Entity, attribs map[string]tags.Value) error {
	e.InitDefault()
	names := make([]string, 0, len(attribs))
	for name := range attribs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.DXF().Set(name, attribs[name]); err != nil {
			return err
		}
	}
	return nil
}
