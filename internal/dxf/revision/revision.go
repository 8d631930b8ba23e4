// Package revision defines the ordered set of DXF format revisions.
package revision

import (
	"errors"
	"fmt"
	"strings"
)

// Revision is a DXF format revision. Revisions compare with the usual
// integer operators; Any sorts before every real revision.
type Revision int

const (
	Any Revision = iota
	R12
	R2000
	R2004
	R2007
	R2010
	R2013
	R2018
)

// Latest is the newest revision this package knows.
const Latest = R2018

var ErrUnknownRevision = errors.New("revision: unknown revision")

var names = [...]struct {
	name string
	ac   string
}{
	Any:   {"ANY", ""},
	R12:   {"R12", "AC1009"},
	R2000: {"R2000", "AC1015"},
	R2004: {"R2004", "AC1018"},
	R2007: {"R2007", "AC1021"},
	R2010: {"R2010", "AC1024"},
	R2013: {"R2013", "AC1027"},
	R2018: {"R2018", "AC1032"},
}

// Parse accepts a release name ("R2000") or an $ACADVER code ("AC1015").
func Parse(raw string) (Revision, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	for r := R12; r <= Latest; r++ {
		if s == names[r].name || s == names[r].ac {
			return r, nil
		}
	}
	return Any, fmt.Errorf("%w: %q", ErrUnknownRevision, raw)
}

func (r Revision) String() string {
	if r < Any || r > Latest {
		return fmt.Sprintf("Revision(%d)", int(r))
	}
	return names[r].name
}

// ACVersion returns the $ACADVER code, empty for Any.
func (r Revision) ACVersion() string {
	if r < Any || r > Latest {
		return ""
	}
	return names[r].ac
}

// UsesSubclassMarkers reports whether records carry (100, name) sub-record
// markers. R12 files are flat.
func (r Revision) UsesSubclassMarkers() bool {
	return r > R12
}

// Satisfies reports whether r is at least min. Any as min always matches.
func (r Revision) Satisfies(min Revision) bool {
	return min == Any || r >= min
}
