package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/namespace"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/danmuck/dxftags/internal/testutil/testlog"
)

var pointSchema = schema.MustNew("POINT",
	schema.Subclass{Marker: "AcDbPoint", Attributes: []schema.Attribute{
		schema.RequiredPoint("location", 10, 3),
	}},
)

type pointEntity struct {
	*entity.Base
}

func newPoint(dxftype string) entity.Entity {
	return &pointEntity{Base: entity.NewBase(dxftype, pointSchema)}
}

type specialPoint struct {
	*entity.Base
}

func newSpecialPoint(dxftype string) entity.Entity {
	return &specialPoint{Base: entity.NewBase(dxftype, pointSchema)}
}

func TestResolveFallsBackToGeneric(t *testing.T) {
	testlog.Start(t)
	r := New(nil)
	e := r.Resolve("UNKNOWN_TYPE")("UNKNOWN_TYPE")
	if _, ok := e.(*entity.Generic); !ok {
		t.Fatalf("expected generic fallback, got %T", e)
	}
	if e.DXFType() != "UNKNOWN_TYPE" {
		t.Fatalf("fallback lost type name: %q", e.DXFType())
	}
}

func TestResolveRequiredUnknownType(t *testing.T) {
	testlog.Start(t)
	r := New(nil)
	_, err := r.ResolveRequired("UNKNOWN_TYPE")
	if !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	var ute UnknownTypeError
	if !errors.As(err, &ute) || ute.TypeName != "UNKNOWN_TYPE" {
		t.Fatalf("unexpected error detail: %v", err)
	}
}

func TestRegisterLastWins(t *testing.T) {
	testlog.Start(t)
	r := New(nil)
	r.Register("POINT", newPoint)
	if _, ok := r.New("POINT").(*pointEntity); !ok {
		t.Fatalf("expected pointEntity")
	}
	r.Register("POINT", newSpecialPoint)
	if _, ok := r.New("POINT").(*specialPoint); !ok {
		t.Fatalf("expected later registration to win")
	}
	ctor, err := r.ResolveRequired("POINT")
	if err != nil || ctor == nil {
		t.Fatalf("resolve required: %v", err)
	}
}

func TestLoadDispatchesOnStructureTag(t *testing.T) {
	testlog.Start(t)
	r := New(nil)
	r.Register("POINT", newPoint)
	e, err := r.Load([]tags.Tag{
		tags.Structure("POINT"),
		tags.Marker("AcDbPoint"),
		{Code: 10, Value: tags.Real(1)},
		{Code: 20, Value: tags.Real(2)},
		{Code: 30, Value: tags.Real(3)},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p, _ := e.DXF().Point("location"); p != (tags.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("location = %+v", p)
	}

	_, err = r.Load([]tags.Tag{tags.Structure("POINT")})
	if !errors.Is(err, namespace.ErrMissingAttribute) {
		t.Fatalf("expected ErrMissingAttribute, got %v", err)
	}
	if _, err := r.Load(nil); !errors.Is(err, tags.ErrEmptyRecord) {
		t.Fatalf("expected ErrEmptyRecord, got %v", err)
	}
}

func TestTypesSorted(t *testing.T) {
	testlog.Start(t)
	r := New(nil)
	r.Register("TEXT", newPoint)
	r.Register("BLOCK", newPoint)
	r.Register("LINE", newPoint)
	want := []string{"BLOCK", "LINE", "TEXT"}
	if got := r.Types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("types not sorted: got=%v want=%v", got, want)
	}
	if !r.IsRegistered("LINE") || r.IsRegistered("CIRCLE") {
		t.Fatalf("IsRegistered misreports")
	}
}
