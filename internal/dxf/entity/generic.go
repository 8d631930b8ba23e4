package entity

import (
	"github.com/danmuck/dxftags/internal/dxf/schema"
)

// genericSchema claims nothing: every tag of an unrecognised record is kept
// as unclaimed and re-exported verbatim.
var genericSchema = schema.MustNew("")

// Generic is the fallback for types without a registered constructor.
type Generic struct {
	*Base
}

// NewGeneric returns an Unloaded generic entity of dxftype.
func NewGeneric(dxftype string) Entity {
	return &Generic{Base: NewBase(dxftype, genericSchema)}
}

// GenericSchema returns the empty schema used by Generic.
func GenericSchema() *schema.Entity {
	return genericSchema
}
