package entities

import (
	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
)

// Block flag bits (group code 70).
const (
	BlockAnonymous      = 1
	BlockHasAttributes  = 2
	BlockXRef           = 4
	BlockXRefOverlay    = 8
	BlockExternal       = 16
	BlockResolved       = 32
	BlockReferencedXRef = 64
)

var blockSchema = schema.MustNew("BLOCK",
	baseClass(tags.CodeHandle),
	acdbEntity,
	schema.Subclass{Marker: "AcDbBlockBegin", Attributes: []schema.Attribute{
		schema.Required("name", tags.CodeName),
		schema.Int("flags", tags.CodeCount, 0),
		schema.Point3D("base_point", tags.CodeX, tags.Vec3{}),
		schema.Text("name2", 3, ""),
		schema.Text("xref_path", tags.CodeText, ""),
		schema.Text("description", 4, "").Since(revision.R2000),
	}},
)

// Block is the BLOCK record that opens a block definition.
type Block struct {
	*entity.Base
}

func NewBlock(dxftype string) entity.Entity {
	return &Block{Base: entity.NewBase(dxftype, blockSchema)}
}

func (b *Block) Name() string {
	v, _ := b.DXF().Text("name")
	return v
}

func (b *Block) Flags() int64 {
	v, _ := b.DXF().Int("flags")
	return v
}

func (b *Block) IsAnonymous() bool { return b.Flags()&BlockAnonymous != 0 }

func (b *Block) IsXRef() bool { return b.Flags()&BlockXRef != 0 }

func (b *Block) IsXRefOverlay() bool { return b.Flags()&BlockXRefOverlay != 0 }

var endBlkSchema = schema.MustNew("ENDBLK",
	baseClass(tags.CodeHandle),
	acdbEntity,
	schema.Subclass{Marker: "AcDbBlockEnd"},
)

// EndBlk closes a block definition.
type EndBlk struct {
	*entity.Base
}

func NewEndBlk(dxftype string) entity.Entity {
	return &EndBlk{Base: entity.NewBase(dxftype, endBlkSchema)}
}
