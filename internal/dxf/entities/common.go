// Package entities declares the schemas of the supported DXF entity and
// table-entry types and populates the process registry with them.
package entities

import (
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

const (
	markerEntity            = "AcDbEntity"
	markerSymbolTableRecord = "AcDbSymbolTableRecord"
)

var zAxis = tags.Vec3{Z: 1}

// baseClass is the unmarked head of every record. Files written with
// $HANDLING=0 carry no handles.
func baseClass(handleCode int) schema.Subclass {
	return schema.Subclass{Attributes: []schema.Attribute{
		schema.Omittable("handle", handleCode),
		schema.Handle("owner", tags.CodeOwner, "0").Since(revision.R2000),
	}}
}

var acdbEntity = schema.Subclass{Marker: markerEntity, Attributes: []schema.Attribute{
	schema.Text("layer", tags.CodeLayer, "0"),
}}

var acdbSymbolTableRecord = schema.Subclass{Marker: markerSymbolTableRecord}

func extrusion() schema.Attribute {
	return schema.Point3D("extrusion", 210, zAxis).Check(schema.IsNotNullVector, true)
}

func thickness() schema.Attribute {
	return schema.Real("thickness", 39, 0)
}
