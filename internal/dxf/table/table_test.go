package table

import (
	"errors"
	"testing"

	"github.com/danmuck/dxftags/internal/dxf/entities"
	"github.com/danmuck/dxftags/internal/dxf/entity"
	"github.com/danmuck/dxftags/internal/dxf/registry"
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/danmuck/dxftags/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func tg(code int, v tags.Value) tags.Tag { return tags.Tag{Code: code, Value: v} }

func layerRecord(handle, name string) []tags.Tag {
	return []tags.Tag{
		tags.Structure("LAYER"),
		tg(5, tags.Handle(handle)),
		tags.Marker("AcDbSymbolTableRecord"),
		tags.Marker("AcDbLayerTableRecord"),
		tg(2, tags.Text(name)),
		tg(70, tags.Int(0)),
		tg(62, tags.Int(7)),
		tg(6, tags.Text("Continuous")),
	}
}

func layerHead(count int64) []tags.Tag {
	return []tags.Tag{
		tags.Structure("TABLE"),
		tg(2, tags.Text("LAYER")),
		tg(5, tags.Handle("2")),
		tg(330, tags.Handle("0")),
		tags.Marker("AcDbSymbolTable"),
		tg(70, tags.Int(count)),
	}
}

func TestSetCountOverwritesInPlace(t *testing.T) {
	testlog.Start(t)
	tbl := &Table{Head: layerHead(3)}
	if err := tbl.SetCount(5); err != nil {
		t.Fatalf("set count: %v", err)
	}
	if diff := cmp.Diff(layerHead(5), tbl.Head); diff != "" {
		t.Fatalf("head mismatch (-want +got):\n%s", diff)
	}
}

func TestSetCountWithoutCountTagIsStructural(t *testing.T) {
	testlog.Start(t)
	tbl := &Table{Head: layerHead(0)[:5]}
	err := tbl.SetCount(5)
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected ErrStructural, got %v", err)
	}
	if err := (&Table{}).SetCount(1); !errors.Is(err, ErrStructural) {
		t.Fatalf("expected ErrStructural for missing head, got %v", err)
	}
}

func TestParseAndExport(t *testing.T) {
	testlog.Start(t)
	records := [][]tags.Tag{
		layerHead(1),
		layerRecord("10", "0"),
		layerRecord("11", "walls"),
		{tags.Structure("ENDTAB")},
	}
	tbl, err := Parse(entities.Registry(), records)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tbl.Name() != "LAYER" || len(tbl.Entries) != 2 {
		t.Fatalf("unexpected table name=%q entries=%d", tbl.Name(), len(tbl.Entries))
	}
	if err := tbl.SyncCount(); err != nil {
		t.Fatalf("sync count: %v", err)
	}

	var c tags.Collector
	if err := tbl.Export(&c, revision.R12); err != nil {
		t.Fatalf("export: %v", err)
	}
	want := []tags.Tag{
		tags.Structure("TABLE"),
		tg(2, tags.Text("LAYER")),
		tg(5, tags.Handle("2")),
		tg(70, tags.Int(2)),
	}
	if diff := cmp.Diff(want, c.Tags[:4]); diff != "" {
		t.Fatalf("R12 head mismatch (-want +got):\n%s", diff)
	}
	if last := c.Tags[len(c.Tags)-1]; !last.Equal(tags.Structure("ENDTAB")) {
		t.Fatalf("missing ENDTAB, last=%v", last)
	}
}

func TestParseRejectsMissingHead(t *testing.T) {
	testlog.Start(t)
	_, err := Parse(entities.Registry(), [][]tags.Tag{layerRecord("10", "0")})
	if !errors.Is(err, ErrStructural) {
		t.Fatalf("expected ErrStructural, got %v", err)
	}
}

func TestParseRejectsUnclosedTable(t *testing.T) {
	testlog.Start(t)
	loaded := 0
	load := func(rec []tags.Tag) (entity.Entity, error) {
		loaded++
		return entities.Registry().Load(rec)
	}
	cases := map[string][][]tags.Tag{
		"end of records": {layerHead(1), layerRecord("10", "0")},
		"section end":    {layerHead(1), layerRecord("10", "0"), {tags.Structure("ENDSEC")}},
	}
	for name, records := range cases {
		_, err := ParseWith(load, records)
		var se StructuralError
		if !errors.As(err, &se) || se.Table != "LAYER" {
			t.Fatalf("%s: expected StructuralError for LAYER, got %v", name, err)
		}
	}
	if loaded != 0 {
		t.Fatalf("entries of an unclosed table were loaded: %d", loaded)
	}
}

func TestNewEntry(t *testing.T) {
	testlog.Start(t)
	e, err := NewEntry(entities.Registry(), "LAYER", "1F", map[string]tags.Value{
		"name":  tags.Text("doors"),
		"color": tags.Int(1),
	})
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	if h, _ := e.DXF().Text("handle"); h != "1F" {
		t.Fatalf("handle = %q", h)
	}
	if lt, _ := e.DXF().Text("linetype"); lt != "Continuous" {
		t.Fatalf("linetype default = %q", lt)
	}

	_, err = NewEntry(entities.Registry(), "NOPE", "1", nil)
	if !errors.Is(err, registry.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}
