package namespace

import (
	"github.com/danmuck/dxftags/internal/dxf/revision"
	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/rs/zerolog/log"
)

// Export writes the namespace as an ordered tag sequence for rev.
//
// Per subclass in declared order: the marker (revisions with markers only),
// the attributes whose MinRevision is satisfied, then the unclaimed tags of
// that sub-record. Application data groups sit between the attributes where
// they were loaded. A subclass above rev is skipped whole. XData goes last.
// Export does not modify the namespace.
func (ns *Namespace) Export(w tags.Writer, s *schema.Entity, rev revision.Revision) error {
	markers := rev.UsesSubclassMarkers()
	log.Debug().
		Str("type", ns.dxftype).
		Str("revision", rev.String()).
		Msg("namespace.Export")

	if !s.HasBase() {
		if err := ns.writeExtras(w, "", markers); err != nil {
			return err
		}
	}
	for si := range s.Subclasses {
		sub := &s.Subclasses[si]
		if !rev.Satisfies(sub.MinRevision) {
			continue
		}
		if markers && !sub.IsBase() {
			if err := w.WriteTag(tags.Marker(sub.Marker)); err != nil {
				return err
			}
		}
		if err := ns.writeAppData(w, sub.Marker, "", markers); err != nil {
			return err
		}
		for ai := range sub.Attributes {
			attr := &sub.Attributes[ai]
			if rev.Satisfies(attr.MinRevision) {
				v, ok := ns.values[attr.Name]
				switch {
				case ok:
					if err := writeAttribute(w, attr, v); err != nil {
						return err
					}
				case !attr.Omittable:
					return MissingAttributeError{Type: ns.dxftype, Subclass: sub.Marker, Attribute: attr.Name}
				}
			}
			if err := ns.writeAppData(w, sub.Marker, attr.Name, markers); err != nil {
				return err
			}
		}
		if err := ns.writeExtras(w, sub.Marker, markers); err != nil {
			return err
		}
	}
	return tags.WriteAll(w, ns.xdata)
}

func (ns *Namespace) writeExtras(w tags.Writer, anchor string, markers bool) error {
	for _, e := range ns.extras {
		if e.appData || e.anchor != anchor {
			continue
		}
		// R12 has no syntax for foreign sub-records.
		if e.foreign && !markers {
			continue
		}
		if err := tags.WriteAll(w, e.tags); err != nil {
			return err
		}
	}
	return nil
}

// writeAppData emits the application data groups loaded behind the
// attribute after, or behind the marker of anchor when after is empty. R12
// has no application data.
func (ns *Namespace) writeAppData(w tags.Writer, anchor, after string, markers bool) error {
	if !markers {
		return nil
	}
	for _, e := range ns.extras {
		if !e.appData || e.after != after {
			continue
		}
		if after == "" && e.anchor != anchor {
			continue
		}
		if err := tags.WriteAll(w, e.tags); err != nil {
			return err
		}
	}
	return nil
}

// writeAttribute emits a scalar as one tag and a point as one real tag per
// axis, every axis always present.
func writeAttribute(w tags.Writer, attr *schema.Attribute, v tags.Value) error {
	if !attr.IsPoint() {
		return w.WriteTag(tags.Tag{Code: attr.Codes[0], Value: v})
	}
	axes := [3]float64{v.Point.X, v.Point.Y, v.Point.Z}
	for i, code := range attr.Codes {
		if err := w.WriteTag(tags.Tag{Code: code, Value: tags.Real(axes[i])}); err != nil {
			return err
		}
	}
	return nil
}
