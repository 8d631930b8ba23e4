package entities

import (
	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

// Layer flag bits (group code 70).
const (
	LayerFrozen = 1
	LayerLocked = 4
)

var layerSchema = schema.MustNew("LAYER",
	baseClass(tags.CodeHandle),
	acdbSymbolTableRecord,
	schema.Subclass{Marker: "AcDbLayerTableRecord", Attributes: []schema.Attribute{
		schema.Required("name", tags.CodeName),
		schema.Int("flags", tags.CodeCount, 0),
		schema.Int("color", 62, 7),
		schema.Text("linetype", 6, "Continuous"),
		schema.Int("plot", 290, 1).Since(revision.R2000).Check(schema.IsIntegerBool, true),
		schema.Int("lineweight", 370, -3).Since(revision.R2000),
	}},
)

// Layer is a LAYER table entry. A negative color means the layer is off.
type Layer struct {
	*entity.Base
}

func NewLayer(dxftype string) entity.Entity {
	return &Layer{Base: entity.NewBase(dxftype, layerSchema)}
}

func (l *Layer) Name() string {
	v, _ := l.DXF().Text("name")
	return v
}

func (l *Layer) Color() int64 {
	v, _ := l.DXF().Int("color")
	if v < 0 {
		return -v
	}
	return v
}

func (l *Layer) IsOn() bool {
	v, _ := l.DXF().Int("color")
	return v >= 0
}

// SetOn switches the layer on or off by flipping the sign of its color.
func (l *Layer) SetOn(on bool) error {
	c := l.Color()
	if !on {
		c = -c
	}
	return l.DXF().Set("color", tags.Int(c))
}

func (l *Layer) flags() int64 {
	v, _ := l.DXF().Int("flags")
	return v
}

func (l *Layer) IsFrozen() bool { return l.flags()&LayerFrozen != 0 }

func (l *Layer) IsLocked() bool { return l.flags()&LayerLocked != 0 }

// DIMSTYLE records carry their handle on 105; 5 is taken by DIMBLK.
var dimStyleSchema = schema.MustNew("DIMSTYLE",
	baseClass(tags.CodeDimStyleHandle),
	acdbSymbolTableRecord,
	schema.Subclass{Marker: "AcDbDimStyleTableRecord", Attributes: []schema.Attribute{
		schema.Required("name", tags.CodeName),
		schema.Int("flags", tags.CodeCount, 0),
		schema.Text("dimpost", 3, ""),
		schema.Text("dimapost", 4, ""),
		schema.Real("dimscale", 40, 1.0),
		schema.Real("dimasz", 41, 0.18),
		schema.Real("dimexo", 42, 0.0625),
		schema.Real("dimdli", 43, 0.38),
		schema.Real("dimexe", 44, 0.18),
		schema.Real("dimtxt", 140, 0.18),
		schema.Real("dimcen", 141, 0.09),
		schema.Int("dimtad", 77, 0),
		schema.Int("dimclrd", 176, 0),
		schema.Int("dimclre", 177, 0),
		schema.Int("dimclrt", 178, 0),
	}},
)

type DimStyle struct {
	*entity.Base
}

func NewDimStyle(dxftype string) entity.Entity {
	return &DimStyle{Base: entity.NewBase(dxftype, dimStyleSchema)}
}

func (d *DimStyle) Name() string {
	v, _ := d.DXF().Text("name")
	return v
}
