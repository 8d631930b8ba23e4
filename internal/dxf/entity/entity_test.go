package entity

import (
	"errors"
	"testing"

	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/danmuck/dxftags/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestGenericRoundTripIsVerbatim(t *testing.T) {
	testlog.Start(t)
	raw := []tags.Tag{
		tags.Structure("ACME_WIDGET"),
		{Code: 5, Value: tags.Handle("1F")},
		tags.Marker("AcDbEntity"),
		{Code: 8, Value: tags.Text("0")},
		tags.Marker("AcDbWidget"),
		{Code: 40, Value: tags.Real(2.5)},
		{Code: 1001, Value: tags.Text("ACME")},
		{Code: 1040, Value: tags.Real(1)},
	}
	e := NewGeneric("ACME_WIDGET")
	if e.Loaded() {
		t.Fatalf("new entity must be unloaded")
	}
	if err := e.LoadTags(raw); err != nil {
		t.Fatalf("load: %v", err)
	}
	var c tags.Collector
	ok, err := e.ExportDXF(&c, revision.R2000)
	if err != nil || !ok {
		t.Fatalf("export: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(raw, c.Tags); diff != "" {
		t.Fatalf("generic round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportUnloadedFails(t *testing.T) {
	testlog.Start(t)
	e := NewGeneric("X")
	var c tags.Collector
	if _, err := e.ExportDXF(&c, revision.R2000); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestLoadRejectsForeignRecordType(t *testing.T) {
	testlog.Start(t)
	e := NewGeneric("LINE")
	err := e.LoadTags([]tags.Tag{tags.Structure("CIRCLE")})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if e.Loaded() {
		t.Fatalf("failed load must leave the entity unloaded")
	}
}

func TestEntityMinimumRevisionSkipsExport(t *testing.T) {
	testlog.Start(t)
	s := schema.MustNew("LWPOLYLINE", schema.Subclass{Marker: "AcDbPolyline", Attributes: []schema.Attribute{
		schema.Int("flags", 70, 0),
	}})
	s.MinRevision = revision.R2000
	e := NewBase("LWPOLYLINE", s)
	e.InitDefault()

	var c tags.Collector
	ok, err := e.ExportDXF(&c, revision.R12)
	if err != nil || ok || len(c.Tags) != 0 {
		t.Fatalf("expected silent skip at R12: ok=%v err=%v tags=%v", ok, err, c.Tags)
	}
	ok, err = e.ExportDXF(&c, revision.R2000)
	if err != nil || !ok {
		t.Fatalf("export at R2000: ok=%v err=%v", ok, err)
	}
	want := []tags.Tag{tags.Structure("LWPOLYLINE"), tags.Marker("AcDbPolyline"), {Code: 70, Value: tags.Int(0)}}
	if diff := cmp.Diff(want, c.Tags); diff != "" {
		t.Fatalf("export mismatch (-want +got):\n%s", diff)
	}
}
