package entities

import (
	"github.com/danmuck/dxftags/internal/dxf/registry"
)

var constructors = map[string]registry.Constructor{
	"BLOCK":      NewBlock,
	"ENDBLK":     NewEndBlk,
	"LINE":       NewLine,
	"POINT":      NewPoint,
	"CIRCLE":     NewCircle,
	"TEXT":       NewText,
	"LWPOLYLINE": NewLWPolyline,
	"LAYER":      NewLayer,
	"DIMSTYLE":   NewDimStyle,
}

// Register binds every specialised type of this package into r.
func Register(r *registry.Registry) {
	for name, ctor := range constructors {
		r.Register(name, ctor)
	}
}

var defaultRegistry = func() *registry.Registry {
	r := registry.New(nil)
	Register(r)
	return r
}()

// Registry returns the process-wide registry, populated at package init and
// read-only afterwards.
func Registry() *registry.Registry {
	return defaultRegistry
}
