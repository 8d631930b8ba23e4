package namespace

import (
	"strings"

	"github.com/danmuck/dxftags/internal/dxf/schema"
	"github.com/danmuck/dxftags/internal/dxf/tags"
	"github.com/rs/zerolog/log"
)

// segment is one sub-record of a raw entity: the base segment before the
// first marker, or the tags following a (100, marker) tag.
type segment struct {
	marker string
	head   tags.Tag
	tags   []tags.Tag
}

// Processor partitions the raw tags of one entity into sub-record segments
// and loads them into a Namespace.
type Processor struct {
	dxftype  string
	segments []segment
	xdata    []tags.Tag
}

// NewProcessor partitions raw. A leading structure tag is taken as the type
// name; tags from the first XData application tag (1001) onward are split
// off as XData.
func NewProcessor(raw []tags.Tag) *Processor {
	p := &Processor{}
	body := raw
	if len(body) > 0 && body[0].Code == tags.CodeStructure {
		p.dxftype = body[0].Value.Text
		body = body[1:]
	}
	if i := tags.Find(body, tags.CodeXDataAppID); i >= 0 {
		p.xdata = append([]tags.Tag(nil), body[i:]...)
		body = body[:i]
	}
	p.segments = []segment{{}}
	for _, t := range body {
		if t.IsMarker() {
			p.segments = append(p.segments, segment{marker: t.Value.Text, head: t})
			continue
		}
		cur := &p.segments[len(p.segments)-1]
		cur.tags = append(cur.tags, t)
	}
	return p
}

// Type returns the type name of the leading structure tag, if any.
func (p *Processor) Type() string {
	return p.dxftype
}

// IsFlat reports whether the entity carries no subclass markers at all,
// which is the R12 layout.
func (p *Processor) IsFlat() bool {
	return len(p.segments) == 1
}

// Markers returns the marker names in stream order.
func (p *Processor) Markers() []string {
	out := make([]string, 0, len(p.segments)-1)
	for _, seg := range p.segments[1:] {
		out = append(out, seg.marker)
	}
	return out
}

// segmentIndex maps a subclass to the segment it loads from, or -1.
func (p *Processor) segmentIndex(sub *schema.Subclass) int {
	if p.IsFlat() || sub.IsBase() {
		return 0
	}
	for i := 1; i < len(p.segments); i++ {
		if p.segments[i].marker == sub.Marker {
			return i
		}
	}
	return -1
}

// Load builds a fully populated namespace for s, or fails. No partially
// loaded namespace is returned.
func (p *Processor) Load(s *schema.Entity) (*Namespace, error) {
	dxftype := p.dxftype
	if dxftype == "" {
		dxftype = s.Type
	}
	log.Debug().
		Str("type", dxftype).
		Int("segments", len(p.segments)).
		Bool("flat", p.IsFlat()).
		Msg("namespace.Load")

	ns := newNamespace(dxftype, s)
	claims := make([][]string, len(p.segments))
	for i := range p.segments {
		claims[i] = make([]string, len(p.segments[i].tags))
		markAppData(p.segments[i].tags, claims[i])
	}
	owner := make([]int, len(p.segments))
	for i := range owner {
		owner[i] = -1
	}

	for si := range s.Subclasses {
		sub := &s.Subclasses[si]
		idx := p.segmentIndex(sub)
		if idx >= 0 && owner[idx] < 0 {
			owner[idx] = si
		}
		for ai := range sub.Attributes {
			attr := &sub.Attributes[ai]
			var (
				v     tags.Value
				found bool
				cause error
			)
			if idx >= 0 {
				v, found, cause = matchAttribute(p.segments[idx].tags, claims[idx], attr)
			}
			if found && !attr.Valid(v) {
				invalid := InvalidValueError{Type: dxftype, Attribute: attr.Name, Value: v}
				switch {
				case attr.FixToDefault && attr.Default != nil:
					log.Warn().Str("type", dxftype).Str("attribute", attr.Name).Str("value", v.String()).Msg("namespace.Load invalid value replaced by default")
					ns.issues = append(ns.issues, invalid)
					v = *attr.Default
				default:
					ns.issues = append(ns.issues, invalid)
				}
			}
			if found {
				ns.values[attr.Name] = v
				continue
			}
			if attr.Required {
				log.Error().
					Str("type", dxftype).
					Str("subclass", sub.Marker).
					Str("attribute", attr.Name).
					Msg("namespace.Load missing required attribute")
				return nil, MissingAttributeError{Type: dxftype, Subclass: sub.Marker, Attribute: attr.Name, Cause: cause}
			}
			if cause != nil {
				log.Warn().Str("type", dxftype).Str("attribute", attr.Name).Err(cause).Msg("namespace.Load falling back to default")
				ns.issues = append(ns.issues, cause)
			}
			if attr.Default != nil {
				ns.values[attr.Name] = *attr.Default
			}
		}
	}

	p.collectExtras(ns, s, claims, owner)
	ns.xdata = append(ns.xdata, p.xdata...)
	return ns, nil
}

// collectExtras keeps every tag no attribute claimed, anchored to the
// sub-record it has to be re-emitted after. Application data groups of a
// loaded sub-record keep their position behind the attribute that preceded
// them.
func (p *Processor) collectExtras(ns *Namespace, s *schema.Entity, claims [][]string, owner []int) {
	anchor := ""
	if p.IsFlat() && len(s.Subclasses) > 0 {
		anchor = s.Subclasses[len(s.Subclasses)-1].Marker
	}
	for i := range p.segments {
		seg := &p.segments[i]
		if i > 0 && owner[i] < 0 {
			foreign := make([]tags.Tag, 0, len(seg.tags)+1)
			foreign = append(foreign, seg.head)
			foreign = append(foreign, seg.tags...)
			ns.extras = append(ns.extras, extra{anchor: anchor, foreign: true, tags: foreign})
			continue
		}
		if i > 0 {
			anchor = seg.marker
		}
		var (
			left  []tags.Tag
			after string
		)
		for j := 0; j < len(seg.tags); j++ {
			switch claim := claims[i][j]; claim {
			case "":
				left = append(left, seg.tags[j])
			case appDataClaim:
				k := j
				for k < len(seg.tags) && claims[i][k] == appDataClaim {
					k++
				}
				group := seg.tags[j:k]
				j = k - 1
				if owner[i] < 0 {
					left = append(left, group...)
					continue
				}
				ns.extras = append(ns.extras, extra{
					anchor:  s.Subclasses[owner[i]].Marker,
					after:   after,
					appData: true,
					tags:    append([]tags.Tag(nil), group...),
				})
			default:
				after = claim
			}
		}
		if len(left) > 0 {
			ns.extras = append(ns.extras, extra{anchor: anchor, tags: left})
		}
	}
}

// appDataClaim marks tags inside a (102, "{NAME") ... (102, "}") group.
// Attributes never match inside one.
const appDataClaim = "{"

// markAppData claims every application data group of seg. An unterminated
// group runs to the end of the segment.
func markAppData(seg []tags.Tag, claims []string) {
	open := false
	for i, t := range seg {
		isAppData := t.Code == tags.CodeAppData && t.Value.Kind == tags.KindText
		switch {
		case !open && isAppData && strings.HasPrefix(t.Value.Text, "{"):
			open = true
			claims[i] = appDataClaim
		case open:
			claims[i] = appDataClaim
			if isAppData && t.Value.Text == "}" {
				open = false
			}
		}
	}
}

// matchAttribute finds the first occurrence of attr in a segment and claims
// its tags under the attribute name. Later duplicates stay unclaimed.
func matchAttribute(seg []tags.Tag, claimed []string, attr *schema.Attribute) (tags.Value, bool, error) {
	first := attr.Codes[0]
	xi := -1
	for i, t := range seg {
		if claimed[i] == "" && t.Code == first {
			xi = i
			break
		}
	}
	if xi < 0 {
		return tags.Value{}, false, nil
	}
	if !attr.IsPoint() {
		t := seg[xi]
		if t.Value.Kind != attr.Kind() {
			return tags.Value{}, false, TypeMismatchError{Attribute: attr.Name, Code: first, Expected: attr.Kind(), Found: t.Value.Kind}
		}
		claimed[xi] = attr.Name
		return t.Value, true, nil
	}
	return matchPoint(seg, claimed, attr, xi)
}

func matchPoint(seg []tags.Tag, claimed []string, attr *schema.Attribute, xi int) (tags.Value, bool, error) {
	x := seg[xi]
	want := attr.Kind()
	if x.Value.Kind.IsPoint() {
		v, err := convertPoint(attr, x.Value)
		if err != nil {
			return tags.Value{}, false, err
		}
		claimed[xi] = attr.Name
		return v, true, nil
	}
	if x.Value.Kind != tags.KindReal {
		return tags.Value{}, false, TypeMismatchError{Attribute: attr.Name, Code: x.Code, Expected: tags.KindReal, Found: x.Value.Kind}
	}

	// Axes belong to this occurrence only up to the next x axis tag.
	end := len(seg)
	for i := xi + 1; i < len(seg); i++ {
		if seg[i].Code == x.Code {
			end = i
			break
		}
	}
	axes := []float64{x.Value.Real, 0, 0}
	used := []int{xi}
	for k := 1; k < len(attr.Codes); k++ {
		code := attr.Codes[k]
		ai := -1
		for i := xi + 1; i < end; i++ {
			if claimed[i] == "" && seg[i].Code == code {
				ai = i
				break
			}
		}
		if ai < 0 {
			if k == 2 {
				// Legacy producers drop z on planar points.
				break
			}
			return tags.Value{}, false, TypeMismatchError{Attribute: attr.Name, Code: code, Expected: tags.KindReal, Found: tags.KindInvalid}
		}
		if seg[ai].Value.Kind != tags.KindReal {
			return tags.Value{}, false, TypeMismatchError{Attribute: attr.Name, Code: code, Expected: tags.KindReal, Found: seg[ai].Value.Kind}
		}
		axes[k] = seg[ai].Value.Real
		used = append(used, ai)
	}
	for _, i := range used {
		claimed[i] = attr.Name
	}
	if want == tags.KindPoint2D {
		return tags.Point2D(axes[0], axes[1]), true, nil
	}
	return tags.Point3D(axes[0], axes[1], axes[2]), true, nil
}

// convertPoint fits a compiled point value to the attribute's dimension.
func convertPoint(attr *schema.Attribute, v tags.Value) (tags.Value, error) {
	switch attr.Kind() {
	case tags.KindPoint3D:
		return tags.Point3D(v.Point.X, v.Point.Y, v.Point.Z), nil
	case tags.KindPoint2D:
		if v.Kind == tags.KindPoint3D && v.Point.Z != 0 {
			return tags.Value{}, TypeMismatchError{Attribute: attr.Name, Code: attr.Codes[0], Expected: tags.KindPoint2D, Found: tags.KindPoint3D}
		}
		return tags.Point2D(v.Point.X, v.Point.Y), nil
	}
	return tags.Value{}, TypeMismatchError{Attribute: attr.Name, Code: attr.Codes[0], Expected: attr.Kind(), Found: v.Kind}
}
