// Package registry maps record type names to entity constructors.
//
// A Registry is populated once before any load or export work starts and is
// read-only afterwards. Register is not synchronised: calling it while other
// goroutines resolve types is undefined behaviour.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/rs/zerolog/log"
)

var ErrUnknownType = errors.New("registry: unknown specialised type")

// UnknownTypeError is returned by ResolveRequired for unregistered types.
type UnknownTypeError struct {
	TypeName string
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("registry: unsupported type %q", e.TypeName)
}

func (e UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// Constructor returns a new Unloaded entity for a type name.
type Constructor func(dxftype string) entity.Entity

// Registry stores constructors by type name.
type Registry struct {
	items    map[string]Constructor
	fallback Constructor
}

// New creates an empty registry; fallback serves unregistered types and
// defaults to entity.NewGeneric.
func New(fallback Constructor) *Registry {
	if fallback == nil {
		fallback = entity.NewGeneric
	}
	return &Registry{items: make(map[string]Constructor), fallback: fallback}
}

// Register binds name to ctor. A later registration of the same name wins.
func (r *Registry) Register(name string, ctor Constructor) {
	if _, ok := r.items[name]; ok {
		log.Debug().Str("type", name).Msg("registry.Register overriding constructor")
	}
	r.items[name] = ctor
}

// Resolve returns the constructor for name, or the fallback. It never fails.
func (r *Registry) Resolve(name string) Constructor {
	if ctor, ok := r.items[name]; ok {
		return ctor
	}
	return r.fallback
}

// ResolveRequired returns the registered constructor for name or an
// UnknownTypeError.
func (r *Registry) ResolveRequired(name string) (Constructor, error) {
	ctor, ok := r.items[name]
	if !ok {
		return nil, UnknownTypeError{TypeName: name}
	}
	return ctor, nil
}

// IsRegistered reports whether name has a dedicated constructor.
func (r *Registry) IsRegistered(name string) bool {
	_, ok := r.items[name]
	return ok
}

// New returns an Unloaded entity for name.
func (r *Registry) New(name string) entity.Entity {
	return r.Resolve(name)(name)
}

// Load resolves the type of a raw record by its structure tag and loads it.
func (r *Registry) Load(raw []tags.Tag) (entity.Entity, error) {
	name, err := tags.RecordType(raw)
	if err != nil {
		return nil, err
	}
	e := r.New(name)
	if err := e.LoadTags(raw); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return e, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	list := make([]string, 0, len(r.items))
	for name := range r.items {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
