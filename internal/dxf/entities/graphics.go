package entities

import (
	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

var lineSchema = schema.MustNew("LINE",
	baseClass(tags.CodeHandle),
	acdbEntity,
	schema.Subclass{Marker: "AcDbLine", Attributes: []schema.Attribute{
		thickness(),
		schema.RequiredPoint("start", 10, 3),
		schema.RequiredPoint("end", 11, 3),
		extrusion(),
	}},
)

type Line struct {
	*entity.Base
}

func NewLine(dxftype string) entity.Entity {
	return &Line{Base: entity.NewBase(dxftype, lineSchema)}
}

func (l *Line) Start() tags.Vec3 {
	v, _ := l.DXF().Point("start")
	return v
}

func (l *Line) End() tags.Vec3 {
	v, _ := l.DXF().Point("end")
	return v
}

var pointSchema = schema.MustNew("POINT",
	baseClass(tags.CodeHandle),
	acdbEntity,
	schema.Subclass{Marker: "AcDbPoint", Attributes: []schema.Attribute{
		schema.RequiredPoint("location", 10, 3),
		thickness(),
		extrusion(),
		schema.Real("angle", 50, 0),
	}},
)

type Point struct {
	*entity.Base
}

func NewPoint(dxftype string) entity.Entity {
	return &Point{Base: entity.NewBase(dxftype, pointSchema)}
}

var circleSchema = schema.MustNew("CIRCLE",
	baseClass(tags.CodeHandle),
	acdbEntity,
	schema.Subclass{Marker: "AcDbCircle", Attributes: []schema.Attribute{
		thickness(),
		schema.RequiredPoint("center", 10, 3),
		schema.Required("radius", 40).Check(schema.IsGreaterZero, false),
		extrusion(),
	}},
)

type Circle struct {
	*entity.Base
}

func NewCircle(dxftype string) entity.Entity {
	return &Circle{Base: entity.NewBase(dxftype, circleSchema)}
}

func (c *Circle) Radius() float64 {
	v, _ := c.DXF().Real("radius")
	return v
}

// Horizontal text alignment (group code 72).
const (
	TextLeft = iota
	TextCenter
	TextRight
	TextAligned
	TextMiddle
	TextFit
)

// The vertical alignment lives in a second AcDbText sub-record. Marker names
// are unique per schema, so that sub-record round-trips as unclaimed data
// right after the first one.
var textSchema = schema.MustNew("TEXT",
	baseClass(tags.CodeHandle),
	acdbEntity,
	schema.Subclass{Marker: "AcDbText", Attributes: []schema.Attribute{
		thickness(),
		schema.RequiredPoint("insert", 10, 3),
		schema.Real("height", 40, 2.5).Check(schema.IsGreaterZero, true),
		schema.Required("text", tags.CodeText),
		schema.Real("rotation", 50, 0),
		schema.Real("width", 41, 1).Check(schema.IsGreaterZero, true),
		schema.Real("oblique", 51, 0),
		schema.Text("style", 7, "Standard"),
		schema.Int("text_generation_flag", 71, 0),
		schema.Int("halign", 72, TextLeft).Check(schema.IsInIntRange(TextLeft, TextFit), true),
		schema.Point3D("align_point", 11, tags.Vec3{}),
		extrusion(),
	}},
)

type Text struct {
	*entity.Base
}

func NewText(dxftype string) entity.Entity {
	return &Text{Base: entity.NewBase(dxftype, textSchema)}
}

func (t *Text) PlainText() string {
	v, _ := t.DXF().Text("text")
	return v
}

// LWPOLYLINE has no R12 form. Vertex runs (10/20/40/41/42/91) are bulk
// geometry and stay unclaimed.
var lwPolylineSchema = func() *schema.Entity {
	s := schema.MustNew("LWPOLYLINE",
		baseClass(tags.CodeHandle),
		acdbEntity,
		schema.Subclass{Marker: "AcDbPolyline", Attributes: []schema.Attribute{
			schema.Int("count", 90, 0),
			schema.Int("flags", tags.CodeCount, 0),
			schema.Real("const_width", 43, 0),
			schema.Real("elevation", 38, 0),
			thickness(),
			extrusion(),
		}},
	)
	s.MinRevision = revision.R2000
	return s
}()

type LWPolyline struct {
	*entity.Base
}

func NewLWPolyline(dxftype string) entity.Entity {
	return &LWPolyline{Base: entity.NewBase(dxftype, lwPolylineSchema)}
}

func (p *LWPolyline) IsClosed() bool {
	v, _ := p.DXF().Int("flags")
	return v&1 != 0
}
