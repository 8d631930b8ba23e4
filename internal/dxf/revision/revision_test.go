package revision

import (
	"errors"
	"testing"

	"github.com/danmuck/dxftags/internal/testutil/testlog"
)

func TestParseNamesAndACVersions(t *testing.T) {
	testlog.Start(t)
	cases := map[string]Revision{
		"R12":     R12,
		"ac1009":  R12,
		" R2000 ": R2000,
		"AC1015":  R2000,
		"AC1032":  R2018,
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q = %s, want %s", raw, got, want)
		}
	}
	if _, err := Parse("R14"); !errors.Is(err, ErrUnknownRevision) {
		t.Fatalf("expected ErrUnknownRevision, got %v", err)
	}
}

func TestOrderingAndMarkers(t *testing.T) {
	testlog.Start(t)
	if !(R12 < R2000 && R2000 < R2018) {
		t.Fatalf("revisions are not totally ordered")
	}
	if R12.UsesSubclassMarkers() {
		t.Fatalf("R12 must be flat")
	}
	if !R2000.UsesSubclassMarkers() {
		t.Fatalf("R2000 must use subclass markers")
	}
	if !R12.Satisfies(Any) || R12.Satisfies(R2000) || !R2007.Satisfies(R2000) {
		t.Fatalf("unexpected Satisfies results")
	}
	if R2000.ACVersion() != "AC1015" || R2000.String() != "R2000" {
		t.Fatalf("unexpected names: %s %s", R2000, R2000.ACVersion())
	}
}
